/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package metricsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuonguno98/unodash/internal/auth"
	"github.com/phuonguno98/unodash/internal/collector"
	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/devices"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

type fakeHost struct {
	window    time.Duration
	diskPath  string
	cpuErr    error
	partsErr  error
	partition []devices.PartitionUsage
}

func (f *fakeHost) CPU(_ context.Context, window time.Duration) (collector.CPUReport, error) {
	f.window = window
	if f.cpuErr != nil {
		return collector.CPUReport{}, f.cpuErr
	}
	return collector.CPUReport{
		Percent:   []float64{10, 30},
		Count:     2,
		Frequency: &metrics.CPUFrequency{Current: 2400, Min: 800, Max: 3600},
	}, nil
}

func (f *fakeHost) Memory(_ context.Context) (metrics.MemoryStats, error) {
	return metrics.MemoryStats{Total: 1000, Used: 400, Available: 600, Percent: 40}, nil
}

func (f *fakeHost) DiskUsage(_ context.Context, path string) (metrics.DiskUsage, error) {
	f.diskPath = path
	return metrics.DiskUsage{Path: path, Total: 100, Used: 25, Free: 75, Percent: 25}, nil
}

func (f *fakeHost) Partitions(_ context.Context) ([]devices.PartitionUsage, error) {
	return f.partition, f.partsErr
}

func (f *fakeHost) Network(_ context.Context) (metrics.NetCounters, error) {
	return metrics.NetCounters{
		BytesSent: 1, BytesRecv: 2, PacketsSent: 3, PacketsRecv: 4,
		Errin: 5, Errout: 6, Dropin: 7, Dropout: 8,
	}, nil
}

func newTestServer(host HostReader) *Server {
	cfg := config.Default().API
	cfg.CPUSampleWindow = 50 * time.Millisecond
	cfg.DiskPath = "/data"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(&cfg, host, auth.NewStaticVerifier("user", "password"), logger)
}

func get(t *testing.T, h http.Handler, path string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authed {
		req.SetBasicAuth("user", "password")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestServer_RequiresAuth(t *testing.T) {
	srv := newTestServer(&fakeHost{})

	for _, path := range []string{"/cpu", "/memory", "/disk", "/network", "/summary", "/dashboard"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, srv, path, false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, `Basic realm="unodash"`, rec.Header().Get("WWW-Authenticate"))
			assert.Equal(t, auth.UnauthorizedDetail, decodeBody(t, rec)["detail"])
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/cpu", nil)
	req.SetBasicAuth("user", "wrong")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_CPU(t *testing.T) {
	host := &fakeHost{}
	rec := get(t, newTestServer(host), "/cpu", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []any{10.0, 30.0}, body["cpu_percent"])
	assert.Equal(t, 2.0, body["cpu_count"])
	assert.Equal(t, map[string]any{"current": 2400.0, "min": 800.0, "max": 3600.0}, body["cpu_freq"])
	assert.Equal(t, 50*time.Millisecond, host.window)
}

func TestServer_Memory(t *testing.T) {
	rec := get(t, newTestServer(&fakeHost{}), "/memory", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":1000,"used":400,"available":600,"percent":40}`, rec.Body.String())
}

func TestServer_Disk(t *testing.T) {
	host := &fakeHost{partition: []devices.PartitionUsage{
		{Device: "/dev/sda1", Mountpoint: "/", Usage: &metrics.DiskUsage{Total: 100, Used: 40, Free: 60, Percent: 40}},
		{Device: "/dev/sdb1", Mountpoint: "/secret", Err: fmt.Errorf("statfs: %w", fs.ErrPermission)},
		{Device: "/dev/sdc1", Mountpoint: "/broken", Err: errors.New("input/output error")},
	}}
	rec := get(t, newTestServer(host), "/disk", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"/dev/sda1": {"total":100,"used":40,"free":60,"percent":40},
		"/dev/sdb1": "Access denied",
		"/dev/sdc1": "input/output error"
	}`, rec.Body.String())
}

func TestServer_Network(t *testing.T) {
	rec := get(t, newTestServer(&fakeHost{}), "/network", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bytes_sent":1,"bytes_recv":2,"packets_sent":3,"packets_recv":4}`, rec.Body.String())
}

func TestServer_Summary(t *testing.T) {
	host := &fakeHost{}
	rec := get(t, newTestServer(host), "/summary", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"cpu": 20,
		"memory": 40,
		"disk": 25,
		"network": {"bytes_sent":1,"bytes_recv":2,"packets_sent":3,"packets_recv":4,
			"errin":5,"errout":6,"dropin":7,"dropout":8}
	}`, rec.Body.String())
	assert.Equal(t, "/data", host.diskPath)
}

func TestServer_Dashboard(t *testing.T) {
	rec := get(t, newTestServer(&fakeHost{}), "/dashboard", true)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "http://127.0.0.1:8050", rec.Header().Get("Location"))
}

func TestServer_HostErrors(t *testing.T) {
	host := &fakeHost{cpuErr: errors.New("cpu unavailable"), partsErr: errors.New("no mounts")}
	srv := newTestServer(host)

	tests := []struct {
		path   string
		detail string
	}{
		{"/cpu", "cpu unavailable"},
		{"/summary", "cpu unavailable"},
		{"/disk", "no mounts"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, srv, tt.path, true)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.detail, decodeBody(t, rec)["detail"])
		})
	}
}

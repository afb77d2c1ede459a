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

// Package metricsapi serves on-demand host readings behind Basic authentication.
package metricsapi

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/phuonguno98/unodash/internal/auth"
	"github.com/phuonguno98/unodash/internal/collector"
	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/devices"
	"github.com/phuonguno98/unodash/internal/server"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

// Realm is announced in the WWW-Authenticate challenge.
const Realm = "unodash"

// AccessDenied replaces the usage of a partition the process may not read.
const AccessDenied = "Access denied"

// HostReader reads host counters on demand.
type HostReader interface {
	CPU(ctx context.Context, window time.Duration) (collector.CPUReport, error)
	Memory(ctx context.Context) (metrics.MemoryStats, error)
	DiskUsage(ctx context.Context, path string) (metrics.DiskUsage, error)
	Partitions(ctx context.Context) ([]devices.PartitionUsage, error)
	Network(ctx context.Context) (metrics.NetCounters, error)
}

// NetworkReport is the /network body.
type NetworkReport struct {
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
}

// Summary is the /summary body.
type Summary struct {
	CPU     float64             `json:"cpu"`
	Memory  float64             `json:"memory"`
	Disk    float64             `json:"disk"`
	Network metrics.NetCounters `json:"network"`
}

// Server is the metrics API.
type Server struct {
	cfg    *config.APIConfig
	host   HostReader
	logger *slog.Logger
	router *mux.Router
}

// NewServer creates the metrics API. Every route requires credentials accepted by v.
func NewServer(cfg *config.APIConfig, host HostReader, v auth.Verifier, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		host:   host,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.setupRoutes(v)
	return s
}

func (s *Server) setupRoutes(v auth.Verifier) {
	server.Use(s.router, s.logger)
	s.router.Use(auth.Middleware(v, Realm, s.logger))

	s.router.HandleFunc("/cpu", s.handleCPU).Methods(http.MethodGet)
	s.router.HandleFunc("/memory", s.handleMemory).Methods(http.MethodGet)
	s.router.HandleFunc("/disk", s.handleDisk).Methods(http.MethodGet)
	s.router.HandleFunc("/network", s.handleNetwork).Methods(http.MethodGet)
	s.router.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	s.router.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the router wrapped with CORS headers.
func (s *Server) Handler() http.Handler {
	return server.CORS(s, http.MethodGet)
}

func (s *Server) handleCPU(w http.ResponseWriter, r *http.Request) {
	report, err := s.host.CPU(r.Context(), s.cfg.CPUSampleWindow)
	if err != nil {
		s.writeHostError(w, "cpu", err)
		return
	}
	server.WriteJSON(w, s.logger, http.StatusOK, report)
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	mem, err := s.host.Memory(r.Context())
	if err != nil {
		s.writeHostError(w, "memory", err)
		return
	}
	server.WriteJSON(w, s.logger, http.StatusOK, mem)
}

func (s *Server) handleDisk(w http.ResponseWriter, r *http.Request) {
	parts, err := s.host.Partitions(r.Context())
	if err != nil {
		s.writeHostError(w, "disk", err)
		return
	}

	result := make(map[string]interface{}, len(parts))
	for _, p := range parts {
		switch {
		case p.Err == nil && p.Usage != nil:
			result[p.Device] = p.Usage
		case errors.Is(p.Err, fs.ErrPermission):
			result[p.Device] = AccessDenied
		case p.Err != nil:
			result[p.Device] = p.Err.Error()
		}
	}
	server.WriteJSON(w, s.logger, http.StatusOK, result)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	c, err := s.host.Network(r.Context())
	if err != nil {
		s.writeHostError(w, "network", err)
		return
	}
	server.WriteJSON(w, s.logger, http.StatusOK, NetworkReport{
		BytesSent:   c.BytesSent,
		BytesRecv:   c.BytesRecv,
		PacketsSent: c.PacketsSent,
		PacketsRecv: c.PacketsRecv,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := s.host.CPU(ctx, s.cfg.CPUSampleWindow)
	if err != nil {
		s.writeHostError(w, "cpu", err)
		return
	}
	mem, err := s.host.Memory(ctx)
	if err != nil {
		s.writeHostError(w, "memory", err)
		return
	}
	disk, err := s.host.DiskUsage(ctx, s.cfg.DiskPath)
	if err != nil {
		s.writeHostError(w, "disk", err)
		return
	}
	network, err := s.host.Network(ctx)
	if err != nil {
		s.writeHostError(w, "network", err)
		return
	}

	server.WriteJSON(w, s.logger, http.StatusOK, Summary{
		CPU:     metrics.AverageCPU(report.Percent),
		Memory:  mem.Percent,
		Disk:    disk.Percent,
		Network: network,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.cfg.DashboardURL, http.StatusTemporaryRedirect)
}

func (s *Server) writeHostError(w http.ResponseWriter, source string, err error) {
	s.logger.Error("Failed to read host metrics", "source", source, "error", err)
	server.WriteDetail(w, s.logger, http.StatusInternalServerError, err.Error())
}

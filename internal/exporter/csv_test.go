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

package exporter

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

func testConfig(outputPath string) *config.DashboardConfig {
	return &config.DashboardConfig{
		ExportPath:    outputPath,
		DiskPath:      "/",
		FlushInterval: 100 * time.Millisecond,
		BufferSize:    10,
		MaxExportSize: config.DefaultMaxExportSize,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runExporter feeds samples to a started exporter and closes it.
func runExporter(t *testing.T, exporter *CSVExporter, samplesChan chan *metrics.Sample, samples ...*metrics.Sample) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- exporter.Start(ctx)
	}()

	for _, s := range samples {
		samplesChan <- s
	}

	time.Sleep(300 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Start() error = %v", err)
	}
	if err := exporter.Close(); err != nil {
		t.Errorf("Failed to close exporter: %v", err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	return records
}

func TestCSVExporter_Export(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "export_test.csv")
	samplesChan := make(chan *metrics.Sample, 10)

	exporter, err := NewCSVExporter(testConfig(outputPath), "UTC", samplesChan, testLogger())
	if err != nil {
		t.Fatalf("NewCSVExporter() error = %v", err)
	}

	now := time.Date(2023, 10, 26, 12, 0, 0, 0, time.UTC)
	runExporter(t, exporter, samplesChan, &metrics.Sample{
		Timestamp:    now,
		CPUPerCore:   []float64{40, 60},
		Memory:       metrics.MemoryStats{Percent: 60.2},
		Disk:         metrics.DiskUsage{Path: "/", Percent: 25.5},
		UploadRate:   1024,
		DownloadRate: 2048.5,
	})

	records := readCSV(t, outputPath)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records (header + 1 row), got %d", len(records))
	}

	expectedHeader := []string{
		"Timestamp", "CPU Utilization (%)",
		"CPU [1] Utilization (%)", "CPU [2] Utilization (%)",
		"Memory Utilization (%)", "Disk [/] Utilization (%)",
		"Upload (B/s)", "Download (B/s)",
	}
	assertRow(t, "header", records[0], expectedHeader)

	expectedRow := []string{
		"2023-10-26 12:00:00", "50.00",
		"40.00", "60.00",
		"60.20", "25.50",
		"1024.00", "2048.50",
	}
	assertRow(t, "row", records[1], expectedRow)
}

func TestCSVExporter_NA_Handling(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "na_test.csv")
	samplesChan := make(chan *metrics.Sample, 10)

	exporter, err := NewCSVExporter(testConfig(outputPath), "UTC", samplesChan, testLogger())
	if err != nil {
		t.Fatalf("NewCSVExporter() error = %v", err)
	}

	now := time.Date(2023, 10, 26, 12, 0, 0, 0, time.UTC)
	runExporter(t, exporter, samplesChan,
		&metrics.Sample{
			Timestamp:  now,
			CPUPerCore: []float64{10, 20},
			Memory:     metrics.MemoryStats{Percent: 30},
			Disk:       metrics.DiskUsage{Percent: math.NaN()},
			UploadRate: math.NaN(), DownloadRate: math.NaN(),
		},
		// A core missing from a later sample is N/A, not a shifted column
		&metrics.Sample{
			Timestamp:  now.Add(time.Second),
			CPUPerCore: []float64{15},
			Memory:     metrics.MemoryStats{Percent: 31},
			Disk:       metrics.DiskUsage{Percent: 40},
		},
	)

	records := readCSV(t, outputPath)
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	assertRow(t, "first row", records[1], []string{
		"2023-10-26 12:00:00", "15.00", "10.00", "20.00", "30.00", "N/A", "N/A", "N/A",
	})
	assertRow(t, "second row", records[2], []string{
		"2023-10-26 12:00:01", "15.00", "15.00", "N/A", "31.00", "40.00", "0.00", "0.00",
	})
}

func TestCSVExporter_Timezone(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "tz_test.csv")
	samplesChan := make(chan *metrics.Sample, 10)

	exporter, err := NewCSVExporter(testConfig(outputPath), "Asia/Ho_Chi_Minh", samplesChan, testLogger())
	if err != nil {
		t.Fatalf("NewCSVExporter() error = %v", err)
	}

	runExporter(t, exporter, samplesChan, &metrics.Sample{
		Timestamp:  time.Date(2023, 10, 26, 12, 0, 0, 0, time.UTC),
		CPUPerCore: []float64{1},
	})

	records := readCSV(t, outputPath)
	if got := records[1][0]; got != "2023-10-26 19:00:00" {
		t.Errorf("Timestamp = %q, want local time 2023-10-26 19:00:00", got)
	}
}

func TestCSVExporter_AppendSkipsHeader(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "append_test.csv")
	sample := &metrics.Sample{Timestamp: time.Now(), CPUPerCore: []float64{5}}

	for run := 0; run < 2; run++ {
		samplesChan := make(chan *metrics.Sample, 10)
		exporter, err := NewCSVExporter(testConfig(outputPath), "UTC", samplesChan, testLogger())
		if err != nil {
			t.Fatalf("NewCSVExporter() error = %v", err)
		}
		runExporter(t, exporter, samplesChan, sample)
	}

	records := readCSV(t, outputPath)
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	if records[2][0] == "Timestamp" {
		t.Error("Header written twice")
	}
}

func TestCSVExporter_FileRotation(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "rotation_test.csv")
	samplesChan := make(chan *metrics.Sample, 10)

	cfg := testConfig(outputPath)
	cfg.MaxExportSize = 200

	exporter, err := NewCSVExporter(cfg, "UTC", samplesChan, testLogger())
	if err != nil {
		t.Fatalf("NewCSVExporter() error = %v", err)
	}

	samples := make([]*metrics.Sample, 5)
	for i := range samples {
		samples[i] = &metrics.Sample{Timestamp: time.Now(), CPUPerCore: []float64{50, 50}}
	}
	runExporter(t, exporter, samplesChan, samples...)

	rotatedPath := filepath.Join(tempDir, "rotation_test_1.csv")
	if _, err := os.Stat(rotatedPath); os.IsNotExist(err) {
		t.Fatalf("Rotated file does not exist: %s", rotatedPath)
	}

	records := readCSV(t, rotatedPath)
	if len(records) < 2 {
		t.Fatal("Rotated file should have a header and at least one row")
	}
	if records[0][0] != "Timestamp" {
		t.Errorf("Rotated file should start with a header, got %v", records[0])
	}

	// Every sample lands in exactly one file, below its header
	rotated, err := filepath.Glob(filepath.Join(tempDir, "rotation_test_*.csv"))
	if err != nil {
		t.Fatal(err)
	}
	total := len(readCSV(t, outputPath)) - 1
	for _, path := range rotated {
		total += len(readCSV(t, path)) - 1
	}
	if total != len(samples) {
		t.Errorf("Expected %d rows across files, got %d", len(samples), total)
	}
}

func TestCSVExporter_FileRotation_NoOverwrite(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "overwrite_test.csv")

	existingFile1 := filepath.Join(tempDir, "overwrite_test_1.csv")
	if err := os.WriteFile(existingFile1, []byte("existing data 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	samplesChan := make(chan *metrics.Sample, 10)
	exporter, err := NewCSVExporter(testConfig(outputPath), "UTC", samplesChan, testLogger())
	if err != nil {
		t.Fatalf("NewCSVExporter() error = %v", err)
	}

	// Manually set size to trigger rotation
	exporter.currentSize = config.DefaultMaxExportSize + 1

	runExporter(t, exporter, samplesChan, &metrics.Sample{Timestamp: time.Now(), CPUPerCore: []float64{1}})

	oldContent, err := os.ReadFile(existingFile1)
	if err != nil {
		t.Fatal(err)
	}
	if string(oldContent) != "existing data 1" {
		t.Error("Original file was overwritten")
	}

	newFile := filepath.Join(tempDir, "overwrite_test_2.csv")
	if _, err := os.Stat(newFile); os.IsNotExist(err) {
		t.Errorf("New rotated file with index 2 should exist: %s", newFile)
	}
}

func TestCSVExporter_InvalidTimezone(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test.csv")
	samplesChan := make(chan *metrics.Sample, 10)

	_, err := NewCSVExporter(testConfig(outputPath), "Invalid/Timezone", samplesChan, testLogger())
	if err == nil {
		t.Error("Expected error for invalid timezone, got nil")
	}
}

func assertRow(t *testing.T, name string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d columns, got %d: %v", name, len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s column %d: expected %q, got %q", name, i, want[i], got[i])
		}
	}
}

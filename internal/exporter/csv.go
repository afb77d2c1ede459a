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

// Package exporter records collector samples to CSV files.
package exporter

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

// CSVExporter writes samples to a CSV file with buffering and size-based rotation.
type CSVExporter struct {
	config        *config.DashboardConfig
	file          *os.File
	csvWriter     *csv.Writer
	bufWriter     *bufio.Writer
	samplesChan   <-chan *metrics.Sample
	flushTicker   *time.Ticker
	recordCount   int
	logger        *slog.Logger
	headerWritten bool
	cores         int            // Core columns fixed by the first sample
	location      *time.Location // Timezone location for timestamps
	currentSize   int64          // Current file size in bytes
	basePath      string         // Base output path
	fileIndex     int            // Index for file rotation
}

// NewCSVExporter opens cfg.ExportPath for appending.
// Timestamps are written in the timezone location.
func NewCSVExporter(cfg *config.DashboardConfig, timezone string, samplesChan <-chan *metrics.Sample, logger *slog.Logger) (*CSVExporter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}

	file, err := os.OpenFile(cfg.ExportPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bufWriter := bufio.NewWriterSize(file, 8192)

	return &CSVExporter{
		config:      cfg,
		file:        file,
		csvWriter:   csv.NewWriter(bufWriter),
		bufWriter:   bufWriter,
		samplesChan: samplesChan,
		logger:      logger,
		location:    loc,
		currentSize: stat.Size(),
		basePath:    cfg.ExportPath,
	}, nil
}

// Start writes samples until ctx is done or the channel is closed.
func (e *CSVExporter) Start(ctx context.Context) error {
	e.logger.Info("Starting CSV exporter", "output", e.basePath, "timezone", e.location.String())

	e.flushTicker = time.NewTicker(e.config.FlushInterval)
	defer e.flushTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("CSV exporter stopping...")
			return e.flush()

		case sample, ok := <-e.samplesChan:
			if !ok {
				e.logger.Info("Sample channel closed, flushing remaining data...")
				return e.flush()
			}

			if err := e.writeSample(sample); err != nil {
				e.logger.Error("Failed to write sample", "error", err)
			}

			e.recordCount++
			if e.recordCount >= e.config.BufferSize {
				if err := e.flush(); err != nil {
					e.logger.Error("Failed to flush", "error", err)
				}
				e.recordCount = 0
			}

		case <-e.flushTicker.C:
			if e.recordCount > 0 {
				if err := e.flush(); err != nil {
					e.logger.Error("Failed to flush", "error", err)
				}
				e.recordCount = 0
			}
		}
	}
}

func (e *CSVExporter) writeSample(sample *metrics.Sample) error {
	if !e.headerWritten {
		// An appended file already has its header
		if e.currentSize == 0 {
			if err := e.writeHeader(sample); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
		} else {
			e.cores = len(sample.CPUPerCore)
		}
		e.headerWritten = true
	}

	if e.config.MaxExportSize > 0 && e.currentSize >= e.config.MaxExportSize {
		if err := e.rotateFile(sample); err != nil {
			e.logger.Error("Failed to rotate file", "error", err)
		}
	}

	row := e.buildRow(sample)
	if err := e.csvWriter.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	e.currentSize += rowSize(row)
	return nil
}

func (e *CSVExporter) writeHeader(sample *metrics.Sample) error {
	e.cores = len(sample.CPUPerCore)

	header := []string{"Timestamp", "CPU Utilization (%)"}
	for i := 1; i <= e.cores; i++ {
		header = append(header, fmt.Sprintf("CPU [%d] Utilization (%%)", i))
	}
	header = append(header,
		"Memory Utilization (%)",
		fmt.Sprintf("Disk [%s] Utilization (%%)", e.config.DiskPath),
		"Upload (B/s)",
		"Download (B/s)",
	)

	if err := e.csvWriter.Write(header); err != nil {
		return err
	}
	e.currentSize += rowSize(header)
	return nil
}

func (e *CSVExporter) buildRow(sample *metrics.Sample) []string {
	ts := sample.Timestamp.In(e.location)

	row := []string{
		ts.Format("2006-01-02 15:04:05"),
		formatValue(metrics.AverageCPU(sample.CPUPerCore)),
	}
	for i := 0; i < e.cores; i++ {
		if i < len(sample.CPUPerCore) {
			row = append(row, formatValue(sample.CPUPerCore[i]))
		} else {
			row = append(row, naString)
		}
	}
	row = append(row,
		formatValue(sample.Memory.Percent),
		formatValue(sample.Disk.Percent),
		formatValue(sample.UploadRate),
		formatValue(sample.DownloadRate),
	)
	return row
}

const naString = "N/A"

// formatValue renders missing readings as N/A.
func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return naString
	}
	return fmt.Sprintf("%.2f", v)
}

// rowSize approximates the encoded size of a row.
func rowSize(row []string) int64 {
	n := len(row) // separators and newline
	for _, cell := range row {
		n += len(cell)
	}
	return int64(n)
}

func (e *CSVExporter) flush() error {
	e.csvWriter.Flush()
	if err := e.csvWriter.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	if err := e.bufWriter.Flush(); err != nil {
		return fmt.Errorf("buffer writer error: %w", err)
	}

	e.logger.Debug("Flushed to disk", "records", e.recordCount)
	return nil
}

// Close flushes remaining data and closes the file.
func (e *CSVExporter) Close() error {
	e.logger.Info("Closing CSV exporter")

	if e.flushTicker != nil {
		e.flushTicker.Stop()
	}

	if err := e.flush(); err != nil {
		e.logger.Error("Final flush failed", "error", err)
	}

	if err := e.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	e.logger.Info("CSV exporter closed")
	return nil
}

// rotateFile continues in base_N.ext, skipping names that already exist.
func (e *CSVExporter) rotateFile(sample *metrics.Sample) error {
	e.logger.Info("Rotating output file", "current_size", e.currentSize)

	if err := e.flush(); err != nil {
		return fmt.Errorf("flush before rotate failed: %w", err)
	}
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("close before rotate failed: %w", err)
	}

	ext := filepath.Ext(e.basePath)
	base := strings.TrimSuffix(e.basePath, ext)
	var newPath string
	for {
		e.fileIndex++
		newPath = fmt.Sprintf("%s_%d%s", base, e.fileIndex, ext)
		if _, err := os.Stat(newPath); os.IsNotExist(err) {
			break
		}
	}

	file, err := os.OpenFile(newPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open new rotated file: %w", err)
	}

	e.file = file
	e.bufWriter = bufio.NewWriterSize(file, 8192)
	e.csvWriter = csv.NewWriter(e.bufWriter)
	e.currentSize = 0

	if err := e.writeHeader(sample); err != nil {
		return fmt.Errorf("failed to write header to rotated file: %w", err)
	}

	e.logger.Info("File rotated successfully", "new_path", newPath)
	return nil
}

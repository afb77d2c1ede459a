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

package collector

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/history"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

// ErrSinkFull is returned by collectOnce when at least one sink dropped the sample.
var ErrSinkFull = errors.New("metrics sink full")

// Manager orchestrates all metric collectors and owns the writes to the history buffer.
type Manager struct {
	interval time.Duration
	cpu      *CPUCollector
	memory   *MemoryCollector
	disk     *DiskCollector
	network  *NetworkCollector
	history  *history.Buffer
	sinks    []chan<- *metrics.Sample
	logger   *slog.Logger

	mu      sync.RWMutex
	latest  *metrics.Sample
	cpuInfo metrics.CPUInfo
}

// NewManager creates a new collector manager instance.
// Every finished sample is pushed to hist and offered to each sink without blocking.
func NewManager(cfg *config.DashboardConfig, hist *history.Buffer, logger *slog.Logger, sinks ...chan<- *metrics.Sample) *Manager {
	return &Manager{
		interval: cfg.Interval,
		cpu:      NewCPUCollector(),
		memory:   NewMemoryCollector(),
		disk:     NewDiskCollector(cfg.DiskPath),
		network:  NewNetworkCollector(cfg.IncludeNetwork, cfg.ExcludeNetwork),
		history:  hist,
		sinks:    sinks,
		logger:   logger,
	}
}

// Init reads static CPU information and the network baseline.
// Start calls it; callers that need CPUInfo before the loop runs may call it first.
func (m *Manager) Init(ctx context.Context) {
	info, err := m.cpu.Info(ctx)
	if err != nil {
		m.logger.Warn("Failed to read CPU info", "error", err)
	}
	m.mu.Lock()
	m.cpuInfo = info
	m.mu.Unlock()

	if err := m.network.Baseline(ctx); err != nil {
		m.logger.Warn("Failed to read network baseline", "error", err)
	}

	// Prime the per-core counters so the first tick measures a real interval
	if _, err := m.cpu.Collect(ctx); err != nil {
		m.logger.Warn("Failed to prime CPU counters", "error", err)
	}
}

// Start runs the collection loop until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	m.logger.Info("Starting collector manager",
		"interval", m.interval,
		"disk_path", m.disk.Path(),
	)

	m.Init(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("Collector manager started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Collector manager stopped")
			return nil

		case <-ticker.C:
			if err := m.collectOnce(ctx); err != nil {
				m.logger.Warn("Collection incomplete", "error", err)
			}
		}
	}
}

// collectOnce performs a single collection cycle concurrently.
// A failed source leaves NaN in its fields and is skipped for this tick.
func (m *Manager) collectOnce(ctx context.Context) error {
	sample := &metrics.Sample{
		Timestamp:    time.Now(),
		Memory:       metrics.MemoryStats{Percent: math.NaN()},
		Disk:         metrics.DiskUsage{Path: m.disk.Path(), Percent: math.NaN()},
		UploadRate:   math.NaN(),
		DownloadRate: math.NaN(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex // Protects sample updates
	)

	wg.Add(4)

	go func() {
		defer wg.Done()
		perCore, err := m.cpu.Collect(ctx)
		if err != nil {
			m.logger.Warn("Failed to collect CPU metrics", "error", err)
			return
		}
		mu.Lock()
		sample.CPUPerCore = perCore
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		memStats, err := m.memory.Collect(ctx)
		if err != nil {
			m.logger.Warn("Failed to collect memory metrics", "error", err)
			return
		}
		mu.Lock()
		sample.Memory = memStats
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		usage, err := m.disk.Collect(ctx)
		if err != nil {
			m.logger.Warn("Failed to collect disk metrics", "error", err)
			return
		}
		mu.Lock()
		sample.Disk = usage
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		upload, download, err := m.network.Collect(ctx)
		if err != nil {
			m.logger.Warn("Failed to collect network metrics", "error", err)
			return
		}
		mu.Lock()
		sample.UploadRate = upload
		sample.DownloadRate = download
		mu.Unlock()
	}()

	wg.Wait()

	if m.history != nil {
		m.history.Push(sample)
	}

	m.mu.Lock()
	m.latest = sample
	m.mu.Unlock()

	m.logger.Debug("Sample collected",
		"cores", len(sample.CPUPerCore),
		"memory", sample.Memory.Percent,
		"disk", sample.Disk.Percent,
		"upload", sample.UploadRate,
		"download", sample.DownloadRate,
	)

	var dropped bool
	for _, sink := range m.sinks {
		select {
		case sink <- sample:
		default:
			dropped = true
		}
	}
	if dropped {
		return ErrSinkFull
	}

	return nil
}

// Latest returns the most recent sample, or nil before the first tick.
func (m *Manager) Latest() *metrics.Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// CPUInfo returns the static processor information read by Init.
func (m *Manager) CPUInfo() metrics.CPUInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cpuInfo
}

// CPUFrequency returns the current frequency triple, or nil when unknown.
func (m *Manager) CPUFrequency(ctx context.Context) *metrics.CPUFrequency {
	return m.cpu.Frequency(ctx)
}

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
	"fmt"
	"runtime"
	"time"

	"github.com/phuonguno98/unodash/pkg/metrics"
	"github.com/shirou/gopsutil/v3/cpu"
)

// Dependency injection points for testing
var (
	cpuPercent = cpu.PercentWithContext
	cpuInfo    = cpu.InfoWithContext
	cpuCounts  = cpu.CountsWithContext
)

// CPUCollector collects per-core CPU utilization.
type CPUCollector struct{}

// NewCPUCollector creates a new CPU collector instance.
func NewCPUCollector() *CPUCollector {
	return &CPUCollector{}
}

// Collect returns per-core utilization since the previous call.
// The first call on a fresh process may report zeros for every core.
func (c *CPUCollector) Collect(ctx context.Context) ([]float64, error) {
	return c.Sample(ctx, 0)
}

// Sample measures per-core utilization over window. A zero window compares
// against the previous call instead of blocking.
func (c *CPUCollector) Sample(ctx context.Context, window time.Duration) ([]float64, error) {
	perCore, err := cpuPercent(ctx, window, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU percent: %w", err)
	}
	if len(perCore) == 0 {
		return nil, fmt.Errorf("no CPU stats available")
	}
	return perCore, nil
}

// Info reads static processor information.
// Missing model or frequency data is not an error.
func (c *CPUCollector) Info(ctx context.Context) (metrics.CPUInfo, error) {
	info := metrics.CPUInfo{
		Arch: runtime.GOARCH,
	}

	cores, err := cpuCounts(ctx, true)
	if err != nil {
		return info, fmt.Errorf("failed to count CPUs: %w", err)
	}
	info.Cores = cores

	stats, err := cpuInfo(ctx)
	if err == nil && len(stats) > 0 {
		info.Model = stats[0].ModelName
		for i := range stats {
			if stats[i].Mhz > info.MaxFreqMHz {
				info.MaxFreqMHz = stats[i].Mhz
			}
		}
	}

	return info, nil
}

// Frequency returns the current/min/max frequency triple, or nil when the
// platform does not report one.
func (c *CPUCollector) Frequency(ctx context.Context) *metrics.CPUFrequency {
	stats, err := cpuInfo(ctx)
	if err != nil || len(stats) == 0 {
		return nil
	}

	freq := &metrics.CPUFrequency{Min: stats[0].Mhz, Max: stats[0].Mhz}
	var sum float64
	for i := range stats {
		mhz := stats[i].Mhz
		sum += mhz
		if mhz < freq.Min {
			freq.Min = mhz
		}
		if mhz > freq.Max {
			freq.Max = mhz
		}
	}
	if freq.Max == 0 {
		return nil
	}
	freq.Current = sum / float64(len(stats))

	return freq
}

// CoreCount returns the number of logical cores, falling back to runtime.NumCPU.
func CoreCount(ctx context.Context) int {
	n, err := cpuCounts(ctx, true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Name returns the collector name for logging purposes.
func (c *CPUCollector) Name() string {
	return "CPU"
}

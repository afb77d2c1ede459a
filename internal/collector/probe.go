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
	"time"

	"github.com/phuonguno98/unodash/internal/devices"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

// CPUReport is the per-core view served by the metrics API.
type CPUReport struct {
	Percent   []float64             `json:"cpu_percent"`
	Count     int                   `json:"cpu_count"`
	Frequency *metrics.CPUFrequency `json:"cpu_freq"`
}

// Probe reads host counters on demand. It keeps no history and is safe for concurrent use.
type Probe struct {
	cpu     *CPUCollector
	memory  *MemoryCollector
	network *NetworkCollector
}

// NewProbe creates a probe over all interfaces.
func NewProbe() *Probe {
	return &Probe{
		cpu:     NewCPUCollector(),
		memory:  NewMemoryCollector(),
		network: NewNetworkCollector(nil, nil),
	}
}

// CPU measures per-core utilization over window and reports count and frequency.
func (p *Probe) CPU(ctx context.Context, window time.Duration) (CPUReport, error) {
	perCore, err := p.cpu.Sample(ctx, window)
	if err != nil {
		return CPUReport{}, err
	}

	count, err := cpuCounts(ctx, true)
	if err != nil || count == 0 {
		count = len(perCore)
	}

	return CPUReport{
		Percent:   perCore,
		Count:     count,
		Frequency: p.cpu.Frequency(ctx),
	}, nil
}

// Memory reads virtual memory usage.
func (p *Probe) Memory(ctx context.Context) (metrics.MemoryStats, error) {
	return p.memory.Collect(ctx)
}

// DiskUsage reads the usage of a single mount point.
func (p *Probe) DiskUsage(ctx context.Context, path string) (metrics.DiskUsage, error) {
	return NewDiskCollector(path).Collect(ctx)
}

// Partitions reads the usage of every mounted partition.
func (p *Probe) Partitions(ctx context.Context) ([]devices.PartitionUsage, error) {
	return devices.Partitions(ctx)
}

// Network reads the cumulative counters summed over all interfaces.
func (p *Probe) Network(ctx context.Context) (metrics.NetCounters, error) {
	return p.network.Counters(ctx)
}

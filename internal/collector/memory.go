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

	"github.com/phuonguno98/unodash/pkg/metrics"
	"github.com/shirou/gopsutil/v3/mem"
)

var virtualMemory = mem.VirtualMemoryWithContext

// MemoryCollector collects memory utilization metrics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector instance.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Collect gathers current virtual memory usage.
func (m *MemoryCollector) Collect(ctx context.Context) (metrics.MemoryStats, error) {
	vmStat, err := virtualMemory(ctx)
	if err != nil {
		return metrics.MemoryStats{}, fmt.Errorf("failed to get memory stats: %w", err)
	}

	if vmStat.Total == 0 {
		return metrics.MemoryStats{}, fmt.Errorf("total memory is zero")
	}

	return metrics.MemoryStats{
		Total:     vmStat.Total,
		Used:      vmStat.Used,
		Available: vmStat.Available,
		Percent:   vmStat.UsedPercent,
	}, nil
}

// Name returns the collector name for logging purposes.
func (m *MemoryCollector) Name() string {
	return "Memory"
}

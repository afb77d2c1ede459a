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
	"sync"
	"time"

	"github.com/phuonguno98/unodash/pkg/metrics"
	"github.com/shirou/gopsutil/v3/net"
)

var netIOCounters = net.IOCountersWithContext

// NetworkCollector turns cumulative byte counters into upload/download rates.
// Counters are summed over the monitored interfaces.
type NetworkCollector struct {
	mu                sync.Mutex
	prev              metrics.NetCounters
	includeInterfaces []string // Interfaces to monitor (empty = all)
	excludeInterfaces []string // Interfaces to exclude
}

// NewNetworkCollector creates a new network collector instance.
// includeInterfaces: list of interface names to monitor (empty = all available)
// excludeInterfaces: list of interface names to exclude
func NewNetworkCollector(includeInterfaces, excludeInterfaces []string) *NetworkCollector {
	return &NetworkCollector{
		includeInterfaces: includeInterfaces,
		excludeInterfaces: excludeInterfaces,
	}
}

// Baseline records the current counters so the first Collect has something to diff against.
func (n *NetworkCollector) Baseline(ctx context.Context) error {
	current, err := n.Counters(ctx)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.prev = current
	n.mu.Unlock()

	return nil
}

// Collect returns upload and download rates in bytes per second since the previous call.
// Without a baseline the rates are zero.
func (n *NetworkCollector) Collect(ctx context.Context) (upload, download float64, err error) {
	current, err := n.Counters(ctx)
	if err != nil {
		return 0, 0, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	upload, download = metrics.CalculateThroughput(n.prev, current)
	n.prev = current

	return upload, download, nil
}

// Counters reads the cumulative counters of all monitored interfaces.
func (n *NetworkCollector) Counters(ctx context.Context) (metrics.NetCounters, error) {
	perNIC := len(n.includeInterfaces) > 0 || len(n.excludeInterfaces) > 0

	ioCounters, err := netIOCounters(ctx, perNIC)
	if err != nil {
		return metrics.NetCounters{}, fmt.Errorf("failed to get network I/O counters: %w", err)
	}

	total := metrics.NetCounters{Timestamp: time.Now()}
	for i := range ioCounters {
		counter := &ioCounters[i]
		if perNIC && !n.shouldMonitor(counter.Name) {
			continue
		}
		total.BytesSent += counter.BytesSent
		total.BytesRecv += counter.BytesRecv
		total.PacketsSent += counter.PacketsSent
		total.PacketsRecv += counter.PacketsRecv
		total.Errin += counter.Errin
		total.Errout += counter.Errout
		total.Dropin += counter.Dropin
		total.Dropout += counter.Dropout
	}

	return total, nil
}

// shouldMonitor checks if an interface should be monitored based on include/exclude filters.
func (n *NetworkCollector) shouldMonitor(interfaceName string) bool {
	// Check exclude list first
	for _, excluded := range n.excludeInterfaces {
		if excluded == interfaceName {
			return false
		}
	}

	// If include list is empty, monitor all (except excluded)
	if len(n.includeInterfaces) == 0 {
		return true
	}

	for _, included := range n.includeInterfaces {
		if included == interfaceName {
			return true
		}
	}

	return false
}

// Name returns the collector name for logging purposes.
func (n *NetworkCollector) Name() string {
	return "Network"
}

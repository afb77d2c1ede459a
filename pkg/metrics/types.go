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

package metrics

import "time"

// Sample represents one collector tick.
type Sample struct {
	Timestamp    time.Time
	CPUPerCore   []float64   // Per-core utilization percentage, index 0 = core 1
	Memory       MemoryStats // Virtual memory at sample time
	Disk         DiskUsage   // Usage of the monitored mount
	UploadRate   float64     // Bytes sent per second since previous tick
	DownloadRate float64     // Bytes received per second since previous tick
}

// MemoryStats represents virtual memory usage.
type MemoryStats struct {
	Total     uint64  `json:"total"`
	Used      uint64  `json:"used"`
	Available uint64  `json:"available"`
	Percent   float64 `json:"percent"`
}

// DiskUsage represents usage of a single mounted filesystem.
type DiskUsage struct {
	Path    string  `json:"-"`
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

// NetCounters represents cumulative network I/O counters summed over all interfaces.
type NetCounters struct {
	BytesSent   uint64    `json:"bytes_sent"`
	BytesRecv   uint64    `json:"bytes_recv"`
	PacketsSent uint64    `json:"packets_sent"`
	PacketsRecv uint64    `json:"packets_recv"`
	Errin       uint64    `json:"errin"`
	Errout      uint64    `json:"errout"`
	Dropin      uint64    `json:"dropin"`
	Dropout     uint64    `json:"dropout"`
	Timestamp   time.Time `json:"-"`
}

// CPUFrequency mirrors the current/min/max triple reported by the host, in MHz.
type CPUFrequency struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// CPUInfo is static processor information read once per process.
type CPUInfo struct {
	Model      string  // Vendor/model string, may be empty
	Arch       string  // Architecture, e.g. "amd64"
	MaxFreqMHz float64 // 0 if unknown
	Cores      int     // Logical core count
}

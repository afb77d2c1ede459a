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

// Package history keeps the fixed-length rolling window of samples drawn by the dashboards.
package history

import (
	"fmt"
	"math"
	"sync"

	"github.com/phuonguno98/unodash/pkg/metrics"
)

// DefaultCapacity is the number of ticks kept per column.
const DefaultCapacity = 100

// Fixed column names following the per-core cpuN columns.
const (
	ColumnRAM       = "ram"
	ColumnDisk      = "disk_usage"
	ColumnBytesSent = "bytes_sent"
	ColumnBytesRecv = "bytes_recv"
)

// CoreColumn returns the column name of a 1-based core index.
func CoreColumn(core int) string {
	return fmt.Sprintf("cpu%d", core)
}

// Buffer is a column-oriented rolling window. Slots never written hold NaN.
// One goroutine pushes; any number may read snapshots.
type Buffer struct {
	mu       sync.RWMutex
	capacity int
	cores    int
	columns  []string
	values   map[string][]float64
	ticks    int
}

// Snapshot is an immutable copy of the buffer.
type Snapshot struct {
	Capacity int
	Cores    int
	Ticks    int                  // Number of pushes since start
	Columns  []string             // Column order: cpu1..cpuN, ram, disk_usage, bytes_sent, bytes_recv
	Values   map[string][]float64 // Oldest first, len == Capacity
}

// New creates a buffer for the given number of CPU cores.
func New(capacity, cores int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if cores < 0 {
		cores = 0
	}

	columns := make([]string, 0, cores+4)
	for i := 1; i <= cores; i++ {
		columns = append(columns, CoreColumn(i))
	}
	columns = append(columns, ColumnRAM, ColumnDisk, ColumnBytesSent, ColumnBytesRecv)

	values := make(map[string][]float64, len(columns))
	for _, c := range columns {
		col := make([]float64, capacity)
		for i := range col {
			col[i] = math.NaN()
		}
		values[c] = col
	}

	return &Buffer{
		capacity: capacity,
		cores:    cores,
		columns:  columns,
		values:   values,
	}
}

// Push shifts every column left by one slot and writes the sample into the last slot.
// Cores missing from the sample are recorded as NaN; extra cores are ignored.
func (b *Buffer) Push(s *metrics.Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i <= b.cores; i++ {
		v := math.NaN()
		if i <= len(s.CPUPerCore) {
			v = s.CPUPerCore[i-1]
		}
		b.shiftAppend(CoreColumn(i), v)
	}
	b.shiftAppend(ColumnRAM, s.Memory.Percent)
	b.shiftAppend(ColumnDisk, s.Disk.Percent)
	b.shiftAppend(ColumnBytesSent, s.UploadRate)
	b.shiftAppend(ColumnBytesRecv, s.DownloadRate)
	b.ticks++
}

func (b *Buffer) shiftAppend(column string, v float64) {
	col := b.values[column]
	copy(col, col[1:])
	col[len(col)-1] = v
}

// Snapshot returns a deep copy of the current window.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	values := make(map[string][]float64, len(b.values))
	for name, col := range b.values {
		cp := make([]float64, len(col))
		copy(cp, col)
		values[name] = cp
	}
	columns := make([]string, len(b.columns))
	copy(columns, b.columns)

	return Snapshot{
		Capacity: b.capacity,
		Cores:    b.cores,
		Ticks:    b.ticks,
		Columns:  columns,
		Values:   values,
	}
}

// Cores returns the number of per-core columns.
func (b *Buffer) Cores() int {
	return b.cores
}

// Capacity returns the window length.
func (b *Buffer) Capacity() int {
	return b.capacity
}

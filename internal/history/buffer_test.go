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

package history

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuonguno98/unodash/pkg/metrics"
)

func sample(cpu []float64, ram float64) *metrics.Sample {
	return &metrics.Sample{
		CPUPerCore:   cpu,
		Memory:       metrics.MemoryStats{Percent: ram},
		Disk:         metrics.DiskUsage{Percent: ram + 1},
		UploadRate:   ram * 10,
		DownloadRate: ram * 20,
	}
}

func TestNew_EmptySlotsAreNaN(t *testing.T) {
	b := New(5, 2)
	snap := b.Snapshot()

	assert.Equal(t, []string{"cpu1", "cpu2", ColumnRAM, ColumnDisk, ColumnBytesSent, ColumnBytesRecv}, snap.Columns)
	assert.Equal(t, 0, snap.Ticks)
	for _, name := range snap.Columns {
		require.Len(t, snap.Values[name], 5)
		for _, v := range snap.Values[name] {
			assert.True(t, math.IsNaN(v), "column %s should start empty", name)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	b := New(0, -1)
	assert.Equal(t, DefaultCapacity, b.Capacity())
	assert.Equal(t, 0, b.Cores())
}

func TestPush_ShiftsAndEvictsOldest(t *testing.T) {
	b := New(3, 1)
	for i := 1; i <= 4; i++ {
		b.Push(sample([]float64{float64(i)}, float64(i*10)))
	}

	snap := b.Snapshot()
	assert.Equal(t, 4, snap.Ticks)
	assert.Equal(t, []float64{2, 3, 4}, snap.Values["cpu1"])
	assert.Equal(t, []float64{20, 30, 40}, snap.Values[ColumnRAM])
	assert.Equal(t, []float64{21, 31, 41}, snap.Values[ColumnDisk])
	assert.Equal(t, []float64{200, 300, 400}, snap.Values[ColumnBytesSent])
	assert.Equal(t, []float64{400, 600, 800}, snap.Values[ColumnBytesRecv])
}

func TestPush_PartialWindowKeepsLeadingNaN(t *testing.T) {
	b := New(4, 1)
	b.Push(sample([]float64{50}, 1))

	col := b.Snapshot().Values["cpu1"]
	assert.True(t, math.IsNaN(col[0]))
	assert.True(t, math.IsNaN(col[2]))
	assert.Equal(t, 50.0, col[3])
}

func TestPush_MissingCoresRecordedAsNaN(t *testing.T) {
	b := New(2, 3)
	b.Push(sample([]float64{10, 20, 30, 40}, 1))
	b.Push(sample([]float64{11}, 1))

	snap := b.Snapshot()
	assert.Equal(t, []float64{10, 11}, snap.Values["cpu1"])
	assert.Equal(t, 20.0, snap.Values["cpu2"][0])
	assert.True(t, math.IsNaN(snap.Values["cpu2"][1]))
	assert.NotContains(t, snap.Values, "cpu4")
}

func TestSnapshot_IsACopy(t *testing.T) {
	b := New(2, 1)
	b.Push(sample([]float64{1}, 1))

	snap := b.Snapshot()
	snap.Values["cpu1"][1] = 99

	assert.Equal(t, 1.0, b.Snapshot().Values["cpu1"][1])
}

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

// Package render turns the rolling history into chart series and text blocks.
// It does no I/O; the dashboard, the terminal view and the status command draw its output.
package render

import (
	"math"
	"sort"
	"strconv"

	"github.com/phuonguno98/unodash/internal/history"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

// Chart ids, stable across releases because the web page keys on them.
const (
	ChartCPU     = "cpu"
	ChartMemory  = "memory"
	ChartDisk    = "disk"
	ChartNetwork = "network"
)

// Frame is everything a client needs to draw one refresh.
type Frame struct {
	Tick   int        `json:"tick"`
	Status string     `json:"status"`
	Charts []Chart    `json:"charts"`
	Text   TextBlocks `json:"text"`
}

// Chart is a line chart with one or more series sharing the x axis.
type Chart struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	YLabel string   `json:"y_label"`
	Series []Series `json:"series"`
}

// Series holds one line. A nil value marks a slot with no data.
type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// TextBlocks are the formatted summaries shown beside the charts.
type TextBlocks struct {
	CPUInfo       string `json:"cpu_info"`
	RAMInfo       string `json:"ram_info"`
	DiskInfo      string `json:"disk_info"`
	NetworkSpeeds string `json:"network_speeds"`
}

// BuildFrame assembles a frame from a history snapshot.
// selected holds 1-based core indexes; unknown or out-of-range indexes are ignored.
// latest may be nil before the first tick.
func BuildFrame(snap history.Snapshot, selected []int, latest *metrics.Sample, info metrics.CPUInfo) Frame {
	cpuChart := Chart{
		ID:     ChartCPU,
		Title:  "CPU Usage",
		YLabel: "Usage (%)",
		Series: []Series{},
	}
	for _, core := range selected {
		if core < 1 || core > snap.Cores {
			continue
		}
		name := history.CoreColumn(core)
		cpuChart.Series = append(cpuChart.Series, Series{
			Name:   name,
			Values: nullable(snap.Values[name]),
		})
	}

	return Frame{
		Tick:   snap.Ticks,
		Status: IntervalsLabel(snap.Ticks),
		Charts: []Chart{
			cpuChart,
			{
				ID:     ChartMemory,
				Title:  "Memory Usage",
				YLabel: "Usage (%)",
				Series: []Series{{Name: history.ColumnRAM, Values: nullable(snap.Values[history.ColumnRAM])}},
			},
			{
				ID:     ChartDisk,
				Title:  "Disk Usage",
				YLabel: "Usage (%)",
				Series: []Series{{Name: history.ColumnDisk, Values: nullable(snap.Values[history.ColumnDisk])}},
			},
			{
				ID:     ChartNetwork,
				Title:  "Network Activity",
				YLabel: "Speed (B/s)",
				Series: []Series{
					{Name: history.ColumnBytesSent, Values: nullable(snap.Values[history.ColumnBytesSent])},
					{Name: history.ColumnBytesRecv, Values: nullable(snap.Values[history.ColumnBytesRecv])},
				},
			},
		},
		Text: BuildText(latest, info),
	}
}

// nullable converts NaN slots to nil so they serialize as JSON null.
func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		v := values[i]
		out[i] = &v
	}
	return out
}

// AllCores returns 1..n.
func AllCores(n int) []int {
	cores := make([]int, n)
	for i := range cores {
		cores[i] = i + 1
	}
	return cores
}

// ParseCores converts core labels ("1", "3") into sorted unique indexes within 1..n.
// Labels that are not numbers or fall outside the range are dropped.
func ParseCores(labels []string, n int) []int {
	seen := make(map[int]bool, len(labels))
	cores := make([]int, 0, len(labels))
	for _, label := range labels {
		core, err := strconv.Atoi(label)
		if err != nil || core < 1 || core > n || seen[core] {
			continue
		}
		seen[core] = true
		cores = append(cores, core)
	}
	sort.Ints(cores)
	return cores
}

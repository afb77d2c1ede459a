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

package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/phuonguno98/unodash/pkg/metrics"
)

const notAvailable = "N/A"

// IntervalsLabel is the tick counter line shown above the charts.
func IntervalsLabel(ticks int) string {
	return fmt.Sprintf("Intervals: %d", ticks)
}

// BuildText formats the four summary blocks.
func BuildText(latest *metrics.Sample, info metrics.CPUInfo) TextBlocks {
	blocks := TextBlocks{
		CPUInfo: CPUInfoText(info),
	}

	if latest == nil {
		blocks.RAMInfo = "RAM Information:\n  waiting for first sample"
		blocks.DiskInfo = "Disk Information:\n  waiting for first sample"
		blocks.NetworkSpeeds = "Upload speed: N/A\nDownload speed: N/A"
		return blocks
	}

	blocks.RAMInfo = RAMInfoText(latest.Memory)
	blocks.DiskInfo = DiskInfoText(latest.Disk)
	blocks.NetworkSpeeds = NetworkText(latest.UploadRate, latest.DownloadRate)

	return blocks
}

// CPUInfoText describes the processor.
func CPUInfoText(info metrics.CPUInfo) string {
	model := info.Model
	if model == "" {
		model = "unknown"
	}
	freq := notAvailable
	if info.MaxFreqMHz > 0 {
		freq = fmt.Sprintf("%.2f MHz", info.MaxFreqMHz)
	}

	lines := []string{
		"CPU Information:",
		"  Model: " + model,
		"  Architecture: " + info.Arch,
		"  Frequency: " + freq,
		fmt.Sprintf("  Cores: %d", info.Cores),
	}
	return strings.Join(lines, "\n")
}

// RAMInfoText describes memory usage in GB.
func RAMInfoText(m metrics.MemoryStats) string {
	lines := []string{
		"RAM Information:",
		"  Total: " + gib(m.Total),
		"  Used: " + gib(m.Used),
		"  Available: " + gib(m.Available),
		"  Usage: " + percent(m.Percent),
	}
	return strings.Join(lines, "\n")
}

// DiskInfoText describes usage of the monitored mount in GB.
func DiskInfoText(d metrics.DiskUsage) string {
	title := "Disk Information:"
	if d.Path != "" {
		title = fmt.Sprintf("Disk Information (%s):", d.Path)
	}
	lines := []string{
		title,
		"  Total: " + gib(d.Total),
		"  Used: " + gib(d.Used),
		"  Free: " + gib(d.Free),
		"  Usage: " + percent(d.Percent),
	}
	return strings.Join(lines, "\n")
}

// NetworkText shows upload and download rates in bytes per second.
func NetworkText(upload, download float64) string {
	return "Upload speed: " + rate(upload) + "\nDownload speed: " + rate(download)
}

func gib(b uint64) string {
	return fmt.Sprintf("%.2f GB", metrics.BytesToGiB(b))
}

func percent(p float64) string {
	if math.IsNaN(p) {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%%", p)
}

func rate(r float64) string {
	if math.IsNaN(r) {
		return notAvailable
	}
	return fmt.Sprintf("%.2f B/s", r)
}

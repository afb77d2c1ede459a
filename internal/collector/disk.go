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
	"github.com/shirou/gopsutil/v3/disk"
)

var diskUsage = disk.UsageWithContext

// DiskCollector collects usage of one mounted filesystem.
type DiskCollector struct {
	path string
}

// NewDiskCollector creates a disk collector for the given mount point.
// An empty path means "/".
func NewDiskCollector(path string) *DiskCollector {
	if path == "" {
		path = "/"
	}
	return &DiskCollector{path: path}
}

// Collect gathers current usage of the monitored mount.
func (d *DiskCollector) Collect(ctx context.Context) (metrics.DiskUsage, error) {
	usage, err := diskUsage(ctx, d.path)
	if err != nil {
		return metrics.DiskUsage{Path: d.path}, fmt.Errorf("failed to get disk usage of %s: %w", d.path, err)
	}

	return metrics.DiskUsage{
		Path:    d.path,
		Total:   usage.Total,
		Used:    usage.Used,
		Free:    usage.Free,
		Percent: usage.UsedPercent,
	}, nil
}

// Path returns the monitored mount point.
func (d *DiskCollector) Path() string {
	return d.path
}

// Name returns the collector name for logging purposes.
func (d *DiskCollector) Name() string {
	return "Disk"
}

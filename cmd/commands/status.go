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

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/unodash/internal/collector"
	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/render"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

var (
	statusWindow   time.Duration
	statusDiskPath string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a one-shot summary of the host",
	Long: `Measure CPU and network activity over a short window and print the CPU,
memory, disk and network blocks once.

Examples:
  unodash status
  unodash status --window 3s --disk-path /home`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().DurationVar(&statusWindow, "window", time.Second, "Measurement window for CPU and network rates")
	statusCmd.Flags().StringVar(&statusDiskPath, "disk-path", config.DefaultDiskPath, "Mount point to report")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	override(cmd.Flags(), "disk-path", &cfg.Dashboard.DiskPath, statusDiskPath)
	ctx := cmd.Context()

	probe := collector.NewProbe()

	info, err := collector.NewCPUCollector().Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to read CPU info: %w", err)
	}

	before, err := probe.Network(ctx)
	if err != nil {
		return err
	}
	report, err := probe.CPU(ctx, statusWindow)
	if err != nil {
		return err
	}
	after, err := probe.Network(ctx)
	if err != nil {
		return err
	}
	upload, download := metrics.CalculateThroughput(before, after)

	mem, err := probe.Memory(ctx)
	if err != nil {
		return err
	}
	disk, err := probe.DiskUsage(ctx, cfg.Dashboard.DiskPath)
	if err != nil {
		return err
	}

	cpuBody := render.CPUInfoText(info) + fmt.Sprintf("\nUsage: %.1f%%", metrics.AverageCPU(report.Percent))

	fmt.Println(render.Columns(
		render.Box("CPU", cpuBody),
		render.Box("Memory", render.RAMInfoText(mem)),
	))
	fmt.Println(render.Columns(
		render.Box("Disk", render.DiskInfoText(disk)),
		render.Box("Network", render.NetworkText(upload, download)),
	))
	return nil
}

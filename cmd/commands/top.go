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
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/unodash/internal/collector"
	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/history"
	"github.com/phuonguno98/unodash/internal/render"
	"github.com/phuonguno98/unodash/internal/tui"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

var (
	topInterval    time.Duration
	topHistorySize int
	topDiskPath    string
	topCores       string
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the live charts in the terminal",
	Long: `Draw CPU, memory, disk and network charts in the terminal.

Keys: q quits, 1-9 toggle a core, a selects all cores, n clears the selection.

Examples:
  unodash top
  unodash top --cores 1,2 --interval 2s`,
	RunE: runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().DurationVar(&topInterval, "interval", config.DefaultInterval, "Sampling interval")
	topCmd.Flags().IntVar(&topHistorySize, "history-size", config.DefaultHistorySize, "Number of samples kept per chart")
	topCmd.Flags().StringVar(&topDiskPath, "disk-path", config.DefaultDiskPath, "Mount point whose usage is charted")
	topCmd.Flags().StringVar(&topCores, "cores", "", "Comma-separated cores to draw (empty = all)")
}

func runTop(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	d := &cfg.Dashboard
	override(flags, "interval", &d.Interval, topInterval)
	override(flags, "history-size", &d.HistorySize, topHistorySize)
	override(flags, "disk-path", &d.DiskPath, topDiskPath)
	if err := validate(); err != nil {
		return err
	}

	// The terminal belongs to the view; only a log file receives records
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Log.File != "" {
		logger = InitLogger(cfg.Log.Level, cfg.Log.File)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	cores := collector.CoreCount(ctx)
	selected := render.AllCores(cores)
	switch {
	case flags.Changed("cores"):
		selected = render.ParseCores(config.ParseCommaSeparated(topCores), cores)
	case len(d.SelectedCores) > 0:
		selected = render.ParseCores(coreLabels(d.SelectedCores), cores)
	}

	hist := history.New(d.HistorySize, cores)
	updates := make(chan *metrics.Sample, 10)
	collectorMgr := collector.NewManager(d, hist, logger, updates)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := collectorMgr.Start(ctx); err != nil {
			logger.Error("Collector manager stopped with error", "error", err)
		}
	}()

	frame := func(sel []int) render.Frame {
		return render.BuildFrame(hist.Snapshot(), sel, collectorMgr.Latest(), collectorMgr.CPUInfo())
	}
	err := tui.Run(ctx, frame, cores, selected, updates)

	cancel()
	wg.Wait()
	return err
}

func coreLabels(cores []int) []string {
	labels := make([]string, len(cores))
	for i, c := range cores {
		labels[i] = strconv.Itoa(c)
	}
	return labels
}

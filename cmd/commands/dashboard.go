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
	"log/slog"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/unodash/internal/collector"
	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/dashboard"
	"github.com/phuonguno98/unodash/internal/exporter"
	"github.com/phuonguno98/unodash/internal/history"
	"github.com/phuonguno98/unodash/internal/server"
	"github.com/phuonguno98/unodash/pkg/metrics"
	"github.com/phuonguno98/unodash/pkg/version"
)

var (
	// Dashboard command specific flags
	dashHost        string
	dashPort        int
	dashInterval    time.Duration
	dashHistorySize int
	dashDiskPath    string
	exportPath      string
	bufferSize      int
	flushInterval   time.Duration
	maxExportSize   int64
	includeNetworks string
	excludeNetworks string
	openBrowser     bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Start the live web dashboard",
	Long: `Sample the host every interval and serve a live dashboard with CPU, memory,
disk and network charts. Frames are pushed over a websocket on every tick.

Examples:
  # Start on the default address (127.0.0.1:8050)
  unodash dashboard

  # Sample every 2s, keep 300 samples and record them to CSV
  unodash dashboard --interval 2s --history-size 300 --export samples.csv`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringVar(&dashHost, "host", config.DefaultHost, "HTTP server listen address")
	dashboardCmd.Flags().IntVarP(&dashPort, "port", "p", config.DefaultDashboardPort, "HTTP server port")
	dashboardCmd.Flags().DurationVar(&dashInterval, "interval", config.DefaultInterval,
		"Sampling interval (e.g., 1s, 30s, 1m)")
	dashboardCmd.Flags().IntVar(&dashHistorySize, "history-size", config.DefaultHistorySize,
		"Number of samples kept per chart")
	dashboardCmd.Flags().StringVar(&dashDiskPath, "disk-path", config.DefaultDiskPath,
		"Mount point whose usage is charted")

	// Export flags
	dashboardCmd.Flags().StringVarP(&exportPath, "export", "o", "",
		"Record samples to this CSV file (empty = no recording)")
	dashboardCmd.Flags().IntVar(&bufferSize, "buffer-size", config.DefaultBufferSize,
		"Buffer size for CSV writer")
	dashboardCmd.Flags().DurationVar(&flushInterval, "flush-interval", config.DefaultFlushInterval,
		"Flush interval for CSV writer")
	dashboardCmd.Flags().Int64Var(&maxExportSize, "max-export-size", config.DefaultMaxExportSize,
		"Rotate the CSV file past this many bytes")

	// Filter flags
	dashboardCmd.Flags().StringVar(&includeNetworks, "include-networks", "",
		"Comma-separated list of network interfaces to monitor (empty = all)")
	dashboardCmd.Flags().StringVar(&excludeNetworks, "exclude-networks", "",
		"Comma-separated list of network interfaces to exclude")

	dashboardCmd.Flags().BoolVar(&openBrowser, "open-browser", false, "Open browser automatically after server starts")
}

// applyDashboardFlags copies the flags the user set into cfg.Dashboard.
func applyDashboardFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	d := &cfg.Dashboard

	override(flags, "host", &d.Host, dashHost)
	override(flags, "port", &d.Port, dashPort)
	override(flags, "interval", &d.Interval, dashInterval)
	override(flags, "history-size", &d.HistorySize, dashHistorySize)
	override(flags, "disk-path", &d.DiskPath, dashDiskPath)
	override(flags, "export", &d.ExportPath, exportPath)
	override(flags, "buffer-size", &d.BufferSize, bufferSize)
	override(flags, "flush-interval", &d.FlushInterval, flushInterval)
	override(flags, "max-export-size", &d.MaxExportSize, maxExportSize)
	override(flags, "include-networks", &d.IncludeNetwork, config.ParseCommaSeparated(includeNetworks))
	override(flags, "exclude-networks", &d.ExcludeNetwork, config.ParseCommaSeparated(excludeNetworks))
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	applyDashboardFlags(cmd)
	if err := validate(); err != nil {
		return err
	}
	d := &cfg.Dashboard

	logger := InitLogger(cfg.Log.Level, cfg.Log.File)
	logger.Info("Starting unodash dashboard",
		"version", version.Info(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
	)
	logger.Info("Configuration loaded", "config", cfg.String())
	checkPlatformCapabilities(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	hist := history.New(d.HistorySize, collector.CoreCount(ctx))

	// Buffered so a slow consumer never blocks the collector
	frameChan := make(chan *metrics.Sample, 10)
	sinks := []chan<- *metrics.Sample{frameChan}

	var csvExporter *exporter.CSVExporter
	if d.ExportPath != "" {
		exportChan := make(chan *metrics.Sample, 10)
		sinks = append(sinks, exportChan)

		var err error
		csvExporter, err = exporter.NewCSVExporter(d, cfg.Timezone, exportChan, logger)
		if err != nil {
			logger.Error("Failed to create CSV exporter", "error", err)
			return err
		}
		defer func() {
			if err := csvExporter.Close(); err != nil {
				logger.Error("Failed to close exporter", "error", err)
			}
		}()
	}

	collectorMgr := collector.NewManager(d, hist, logger, sinks...)
	dash := dashboard.NewServer(hist, collectorMgr, logger)
	httpServer := server.New(net.JoinHostPort(d.Host, strconv.Itoa(d.Port)), dash)

	var wg sync.WaitGroup

	if csvExporter != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := csvExporter.Start(ctx); err != nil {
				logger.Error("Exporter stopped with error", "error", err)
			}
		}()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		dash.Run(ctx, frameChan)
	}()
	go func() {
		defer wg.Done()
		if err := collectorMgr.Start(ctx); err != nil {
			logger.Error("Collector manager stopped with error", "error", err)
		}
	}()

	serverURL := fmt.Sprintf("http://%s", net.JoinHostPort(browserHost(d.Host), strconv.Itoa(d.Port)))
	fmt.Printf("\nunodash dashboard is running!\n")
	fmt.Printf("URL: %s\n", serverURL)
	if d.ExportPath != "" {
		fmt.Printf("Recording: %s\n", d.ExportPath)
	}
	fmt.Println()

	if openBrowser {
		go openBrowserURL(serverURL)
	}

	err := server.Run(ctx, httpServer, logger)

	logger.Info("Shutting down...")
	cancel()
	wg.Wait()
	logger.Info("Shutdown complete")

	return err
}

// browserHost maps wildcard listen addresses to localhost.
func browserHost(host string) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		return "localhost"
	}
	return host
}

// checkPlatformCapabilities logs platform-specific capability warnings.
func checkPlatformCapabilities(logger *slog.Logger) {
	switch runtime.GOOS {
	case osWindows:
		logger.Info("Running on Windows: use a drive such as C:\\ as the disk path")
	case osDarwin:
		logger.Info("Running on macOS: CPU frequency may not be reported")
	case osLinux:
		logger.Info("Running on Linux: All metrics available")
	default:
		logger.Warn("Running on unsupported platform, some metrics may not work", "os", runtime.GOOS)
	}
}

func openBrowserURL(url string) {
	time.Sleep(500 * time.Millisecond)
	var cmd *exec.Cmd
	switch {
	case fileExists("C:\\Windows\\System32\\rundll32.exe"):
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case fileExists("/usr/bin/xdg-open"):
		cmd = exec.Command("xdg-open", url)
	case fileExists("/usr/bin/open"):
		cmd = exec.Command("open", url)
	default:
		return
	}
	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open browser: %v\n", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

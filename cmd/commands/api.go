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
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/unodash/internal/auth"
	"github.com/phuonguno98/unodash/internal/collector"
	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/metricsapi"
	"github.com/phuonguno98/unodash/internal/server"
	"github.com/phuonguno98/unodash/pkg/version"
)

var (
	// API command specific flags
	apiHost            string
	apiPort            int
	apiUsername        string
	apiPassword        string
	apiCredentialsFile string
	apiAuthCacheTTL    time.Duration
	apiDashboardURL    string
	apiCPUWindow       time.Duration
	apiDiskPath        string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the authenticated metrics API",
	Long: `Serve JSON readings of CPU, memory, disk and network usage.
Every route requires HTTP Basic credentials.

Credentials come from --username/--password (the password may be a bcrypt hash)
or from a credentials file of "user:bcrypt-hash" lines.

Examples:
  # Default address 127.0.0.1:8000 with user/password
  unodash api

  # Use a credentials file created with 'unodash hash-password'
  unodash api --credentials-file /etc/unodash/users`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiHost, "host", config.DefaultHost, "HTTP server listen address")
	apiCmd.Flags().IntVarP(&apiPort, "port", "p", config.DefaultAPIPort, "HTTP server port")
	apiCmd.Flags().StringVarP(&apiUsername, "username", "u", config.DefaultUsername, "Accepted username")
	apiCmd.Flags().StringVar(&apiPassword, "password", config.DefaultPassword, "Accepted password or bcrypt hash")
	apiCmd.Flags().StringVar(&apiCredentialsFile, "credentials-file", "",
		"File of user:bcrypt-hash lines (overrides --username/--password)")
	apiCmd.Flags().DurationVar(&apiAuthCacheTTL, "auth-cache-ttl", config.DefaultAuthCacheTTL,
		"How long verified credentials are remembered (0 = never)")
	apiCmd.Flags().StringVar(&apiDashboardURL, "dashboard-url", "",
		"Target of the /dashboard redirect")
	apiCmd.Flags().DurationVar(&apiCPUWindow, "cpu-window", config.DefaultCPUSampleWindow,
		"Measurement window of per-core CPU usage")
	apiCmd.Flags().StringVar(&apiDiskPath, "disk-path", config.DefaultDiskPath,
		"Mount point reported by /summary")
}

func applyAPIFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	a := &cfg.API

	override(flags, "host", &a.Host, apiHost)
	override(flags, "port", &a.Port, apiPort)
	override(flags, "username", &a.Username, apiUsername)
	override(flags, "password", &a.Password, apiPassword)
	override(flags, "credentials-file", &a.CredentialsFile, apiCredentialsFile)
	override(flags, "auth-cache-ttl", &a.AuthCacheTTL, apiAuthCacheTTL)
	override(flags, "dashboard-url", &a.DashboardURL, apiDashboardURL)
	override(flags, "cpu-window", &a.CPUSampleWindow, apiCPUWindow)
	override(flags, "disk-path", &a.DiskPath, apiDiskPath)
}

// buildVerifier selects the credential source and wraps it in a cache.
func buildVerifier(a *config.APIConfig, logger *slog.Logger) (auth.Verifier, error) {
	var v auth.Verifier
	if a.CredentialsFile != "" {
		hv, err := auth.LoadHtpasswd(a.CredentialsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded credentials file", "path", a.CredentialsFile, "users", hv.Len())
		v = hv
	} else {
		if a.Username == config.DefaultUsername && a.Password == config.DefaultPassword {
			logger.Warn("Using default API credentials; set api.password or a credentials file")
		}
		v = auth.NewStaticVerifier(a.Username, a.Password)
	}

	return auth.NewCachingVerifier(v, a.AuthCacheTTL), nil
}

func runAPI(cmd *cobra.Command, _ []string) error {
	applyAPIFlags(cmd)
	if err := validate(); err != nil {
		return err
	}
	a := &cfg.API

	logger := InitLogger(cfg.Log.Level, cfg.Log.File)
	logger.Info("Starting unodash metrics API", "version", version.Info())
	logger.Info("Configuration loaded", "config", cfg.String())

	verifier, err := buildVerifier(a, logger)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	api := metricsapi.NewServer(a, collector.NewProbe(), verifier, logger)
	httpServer := server.New(net.JoinHostPort(a.Host, strconv.Itoa(a.Port)), api.Handler())

	return server.Run(ctx, httpServer, logger)
}

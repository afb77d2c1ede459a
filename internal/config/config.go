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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents application configuration shared by every subcommand.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Timezone  string          `yaml:"timezone"` // Timezone location (e.g., "Asia/Ho_Chi_Minh", "Local")
	Dashboard DashboardConfig `yaml:"dashboard"`
	API       APIConfig       `yaml:"api"`
	Inventory InventoryConfig `yaml:"inventory"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // Log level: debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (empty = stdout)
}

// DashboardConfig holds settings of the collector and the dashboard server.
type DashboardConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Interval       time.Duration `yaml:"interval"`     // Interval between samples
	HistorySize    int           `yaml:"history_size"` // Number of samples kept per column
	DiskPath       string        `yaml:"disk_path"`    // Mount point whose usage is charted
	ExportPath     string        `yaml:"export_path"`  // Optional CSV recording of samples
	BufferSize     int           `yaml:"buffer_size"`  // Records buffered before flush
	FlushInterval  time.Duration `yaml:"flush_interval"`
	MaxExportSize  int64         `yaml:"max_export_size"` // Rotate the CSV file past this size
	SelectedCores  []int         `yaml:"selected_cores"`  // Cores drawn by `top` (empty = all)
	IncludeNetwork []string      `yaml:"include_networks"`
	ExcludeNetwork []string      `yaml:"exclude_networks"`
}

// APIConfig holds settings of the authenticated metrics API.
type APIConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	CredentialsFile string        `yaml:"credentials_file"` // user:hash lines, overrides Username/Password
	AuthCacheTTL    time.Duration `yaml:"auth_cache_ttl"`   // 0 disables caching of verified credentials
	DashboardURL    string        `yaml:"dashboard_url"`
	CPUSampleWindow time.Duration `yaml:"cpu_sample_window"`
	DiskPath        string        `yaml:"disk_path"` // Mount point reported by /summary
}

// InventoryConfig holds settings of the inventory API.
type InventoryConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`  // SQLite file; empty keeps items in memory
	SeedFile string `yaml:"seed_file"` // YAML list of items loaded at startup
}

// Default configuration values.
const (
	DefaultLogLevel        = "info"
	DefaultTimezone        = "Local"
	DefaultHost            = "127.0.0.1"
	DefaultDashboardPort   = 8050
	DefaultAPIPort         = 8000
	DefaultInventoryPort   = 8001
	DefaultInterval        = 1 * time.Second
	DefaultHistorySize     = 100
	DefaultDiskPath        = "/"
	DefaultBufferSize      = 100
	DefaultFlushInterval   = 5 * time.Second
	DefaultMaxExportSize   = 150 * 1024 * 1024 // 150MB
	DefaultUsername        = "user"
	DefaultPassword        = "password"
	DefaultAuthCacheTTL    = 5 * time.Minute
	DefaultCPUSampleWindow = 1 * time.Second
)

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		Log:      LogConfig{Level: DefaultLogLevel},
		Timezone: DefaultTimezone,
		Dashboard: DashboardConfig{
			Host:          DefaultHost,
			Port:          DefaultDashboardPort,
			Interval:      DefaultInterval,
			HistorySize:   DefaultHistorySize,
			DiskPath:      DefaultDiskPath,
			BufferSize:    DefaultBufferSize,
			FlushInterval: DefaultFlushInterval,
			MaxExportSize: DefaultMaxExportSize,
		},
		API: APIConfig{
			Host:            DefaultHost,
			Port:            DefaultAPIPort,
			Username:        DefaultUsername,
			Password:        DefaultPassword,
			AuthCacheTTL:    DefaultAuthCacheTTL,
			DashboardURL:    fmt.Sprintf("http://%s:%d", DefaultHost, DefaultDashboardPort),
			CPUSampleWindow: DefaultCPUSampleWindow,
			DiskPath:        DefaultDiskPath,
		},
		Inventory: InventoryConfig{
			Host: DefaultHost,
			Port: DefaultInventoryPort,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults.
// A missing file is not an error when allowMissing is set; defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// DefaultConfigPath returns ~/.unodash/config.yaml, or "" when the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".unodash", "config.yaml")
}

// parseCommaSeparated parses a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// ParseCommaSeparated is the exported version of parseCommaSeparated.
func ParseCommaSeparated(s string) []string {
	return parseCommaSeparated(s)
}

// SplitValues flattens repeated and comma-separated values: ["1,2", "3"] -> ["1", "2", "3"].
func SplitValues(values []string) []string {
	var result []string
	for _, v := range values {
		result = append(result, parseCommaSeparated(v)...)
	}
	return result
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dashboard.Interval < 100*time.Millisecond {
		return errors.New("sampling interval must be at least 100ms")
	}

	if c.Dashboard.Interval > 1*time.Hour {
		return errors.New("sampling interval must not exceed 1 hour")
	}

	if c.Dashboard.HistorySize < 2 || c.Dashboard.HistorySize > 10000 {
		return fmt.Errorf("history size must be between 2 and 10000, got %d", c.Dashboard.HistorySize)
	}

	if c.Dashboard.DiskPath == "" {
		return errors.New("dashboard disk path cannot be empty")
	}

	for name, port := range map[string]int{
		"dashboard": c.Dashboard.Port,
		"api":       c.API.Port,
		"inventory": c.Inventory.Port,
	} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid %s port: %d", name, port)
		}
	}

	if c.Dashboard.ExportPath != "" {
		if c.Dashboard.BufferSize < 1 {
			return errors.New("buffer size must be at least 1")
		}
		if c.Dashboard.FlushInterval < 1*time.Second {
			return errors.New("flush interval must be at least 1 second")
		}
		if err := ensureParentDir(c.Dashboard.ExportPath); err != nil {
			return fmt.Errorf("export directory check failed: %w", err)
		}
	}

	if c.API.CPUSampleWindow < 0 {
		return errors.New("cpu sample window cannot be negative")
	}

	if c.API.CredentialsFile != "" {
		if _, err := os.Stat(c.API.CredentialsFile); err != nil {
			return fmt.Errorf("credentials file: %w", err)
		}
	} else if c.API.Username == "" {
		return errors.New("api username cannot be empty")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	// Validate Timezone
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %s (%w)", c.Timezone, err)
		}
	}

	return nil
}

// ensureParentDir checks that the directory holding path exists.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("output path parent is not a directory: %s", dir)
	}

	return nil
}

// String returns a human-readable representation of the configuration.
// Credentials are never included.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Dashboard=%s:%d Interval=%v History=%d, API=%s:%d, Inventory=%s:%d DB=%q}, Timezone=%s",
		c.Dashboard.Host, c.Dashboard.Port, c.Dashboard.Interval, c.Dashboard.HistorySize,
		c.API.Host, c.API.Port,
		c.Inventory.Host, c.Inventory.Port, c.Inventory.Database,
		c.Timezone)
}

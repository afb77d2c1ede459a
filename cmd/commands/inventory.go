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
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/inventory"
	"github.com/phuonguno98/unodash/internal/server"
	"github.com/phuonguno98/unodash/pkg/version"
)

var (
	// Inventory command specific flags
	invHost     string
	invPort     int
	invDatabase string
	invSeedFile string
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Start the inventory API",
	Long: `Serve a small item catalogue with CRUD, filter, sale and restock endpoints.
Items live in memory unless --database names a SQLite file.

Examples:
  # In-memory catalogue seeded from a YAML list
  unodash inventory --seed items.yaml

  # Persistent catalogue
  unodash inventory --database items.db`,
	RunE: runInventory,
}

func init() {
	rootCmd.AddCommand(inventoryCmd)

	inventoryCmd.Flags().StringVar(&invHost, "host", config.DefaultHost, "HTTP server listen address")
	inventoryCmd.Flags().IntVarP(&invPort, "port", "p", config.DefaultInventoryPort, "HTTP server port")
	inventoryCmd.Flags().StringVar(&invDatabase, "database", "", "SQLite database file (empty = in memory)")
	inventoryCmd.Flags().StringVar(&invSeedFile, "seed", "", "YAML list of items created at startup")
}

// openStore opens the configured item store.
func openStore(ctx context.Context, c *config.InventoryConfig, logger *slog.Logger) (inventory.Store, error) {
	if c.Database == "" {
		logger.Info("Using in-memory item store")
		return inventory.NewMemoryStore(), nil
	}

	store, err := inventory.NewSQLiteStore(ctx, c.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("Using SQLite item store", "database", c.Database)
	return store, nil
}

func runInventory(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	inv := &cfg.Inventory
	override(flags, "host", &inv.Host, invHost)
	override(flags, "port", &inv.Port, invPort)
	override(flags, "database", &inv.Database, invDatabase)
	override(flags, "seed", &inv.SeedFile, invSeedFile)

	if err := validate(); err != nil {
		return err
	}

	logger := InitLogger(cfg.Log.Level, cfg.Log.File)
	logger.Info("Starting unodash inventory API", "version", version.Info())

	ctx, cancel := signalContext(logger)
	defer cancel()

	store, err := openStore(ctx, inv, logger)
	if err != nil {
		return fmt.Errorf("failed to open item store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close item store", "error", err)
		}
	}()

	if inv.SeedFile != "" {
		n, err := inventory.LoadSeed(ctx, store, inv.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to seed items: %w", err)
		}
		logger.Info("Seeded items", "count", n, "file", inv.SeedFile)
	}

	api := inventory.NewServer(inventory.NewService(store, logger), logger)
	httpServer := server.New(net.JoinHostPort(inv.Host, strconv.Itoa(inv.Port)), api.Handler())

	return server.Run(ctx, httpServer, logger)
}

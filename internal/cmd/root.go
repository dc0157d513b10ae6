// Package cmd implements the b2store command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkhost/b2store/internal/config"
	"github.com/inkhost/b2store/internal/observability"
	"github.com/inkhost/b2store/pkg/b2api"
	"github.com/inkhost/b2store/pkg/storage"
	"github.com/inkhost/b2store/pkg/storage/driver"
)

var rootCmd = &cobra.Command{
	Use:   "b2store",
	Short: "Backblaze B2 storage adapter tooling",
	Long: `b2store is the operational companion to the B2 storage adapter.

It reads the same configuration as the adapter (B2_* environment variables
or a config file) and exposes upload, download, listing, deletion, and
diagnostic commands against the configured bucket.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig  string
	flagVerbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the CLI.
func Execute() {
	// A .env in the working directory is a convenience for local use;
	// its absence is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func cliLogger() *zap.Logger {
	return observability.NewCLILogger(flagVerbose)
}

func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

// newAdapter builds the configured storage adapter, fully initialized.
func newAdapter(ctx context.Context, logger *zap.Logger) (storage.Adapter, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return driver.New(ctx, cfg.DriverConfig(), logger)
}

// newNativeAdapter builds the native B2 adapter directly, for commands that
// need native-only features such as version listing.
func newNativeAdapter(ctx context.Context, logger *zap.Logger) (*storage.B2, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	clientOpts := []b2api.Option{b2api.WithLogger(logger)}
	if cfg.RateLimit.RPS > 0 {
		clientOpts = append(clientOpts, b2api.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	return storage.NewB2(ctx, cfg.DriverConfig().B2,
		storage.WithLogger(logger),
		storage.WithClient(b2api.NewClient(clientOpts...)))
}

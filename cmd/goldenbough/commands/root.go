package commands

import (
	"context"
	"errors"
	"fmt"
	"goldenbough/cmd/goldenbough/globals"
	"goldenbough/lib/restyutil"
	"goldenbough/lib/serviceutil"
	"goldenbough/lib/telemetry"
	"goldenbough/services/listing"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose   bool
	dumpHttp  string
	configDir string

	tel telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "goldenbough",
	Short: "goldenbough is a CLI for browsing and caching the weekly Aladin bestseller list.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "goldenbough")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no telemetry.json5 found, telemetry is disabled")
		} else if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}

		config, err := listing.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		value := &globals.Value{Config: config}
		if dumpHttp != "" {
			output, err := restyutil.NewFilesystemOutput(dumpHttp)
			if err != nil {
				return err
			}
			value.Dump = output
		}
		cmd.SetContext(globals.Set(cmd.Context(), value))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().StringVar(&dumpHttp, "dump-http", "", "Write every http exchange into this directory.")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Where to start searching for config.json5.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService wires the listing service from the loaded config, the returned
// function releases the cache storage.
func openService(ctx context.Context) (listing.Service, func()) {
	value := globals.Get(ctx)
	service, closeStorage, err := listing.Open(ctx, value.Config, value.Dump)
	if err != nil {
		serviceutil.Fatal("failed to open listing service", err)
	}
	return service, func() {
		err := closeStorage()
		if err != nil {
			slog.Warn("failed to close cache storage", "err", err)
		}
	}
}

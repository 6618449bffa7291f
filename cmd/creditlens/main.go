package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"creditlens/internal/config"
	"creditlens/internal/infrastructure"
	"creditlens/pkg/contracts"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     config.AppName,
		Short:   "Credit portfolio risk dashboard",
		Version: contracts.GetFullVersionString(),
		Long: `creditlens loads a credit contract workbook, derives the risk labels
(bad, loss, contract-to-revenue and score categories) and profiles them by
state, sector and region.

Configuration comes from config.yaml (or CREDITLENS_CONFIG) and CREDITLENS_*
environment variables. Flags override both.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("source", "", "Contract workbook path (overrides data.source)")
	rootCmd.PersistentFlags().String("sheet", "", "Worksheet name (overrides data.sheet)")

	rootCmd.AddCommand(newServeCmd(), newReportCmd(), newRegionsCmd())
	return rootCmd
}

// loadConfig reads the layered configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if source, _ := cmd.Flags().GetString("source"); source != "" {
		cfg.Data.Source = source
	}
	if sheet, _ := cmd.Flags().GetString("sheet"); sheet != "" {
		cfg.Data.Sheet = sheet
	}
	return cfg, nil
}

// setup loads the configuration and initialises the process logger.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

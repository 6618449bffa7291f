package main

import (
	"github.com/spf13/cobra"

	"creditlens/internal/app"
	"creditlens/internal/infrastructure"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long:  "Serve the HTML dashboard, the JSON analysis endpoints and /metrics until interrupted.",
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "Listen port (overrides server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		return err
	}
	return application.Run(cmd.Context())
}

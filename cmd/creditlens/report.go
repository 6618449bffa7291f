package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"creditlens/internal/app"
	"creditlens/internal/config"
	"creditlens/internal/infrastructure"
	"creditlens/internal/services"
	"creditlens/pkg/contracts/domain"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the full report set and print a summary",
		Long: `Load the workbook once, compute every label and profile, and write the
profile CSVs, the enriched contract CSV and the XLSX workbook to the reports
directory. A pt-BR summary of the global metrics is printed to stdout.`,
		RunE: runReport,
	}
	cmd.Flags().String("out", "", "Reports directory (overrides paths.reports_dir)")
	cmd.Flags().Duration("timeout", 2*time.Minute, "Maximum time for the whole run")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.Paths.ReportsDir = out
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	container := app.NewServiceContainer(cfg, paths, nil, nil, logger)
	return writeReport(cmd, container.Analysis, timeout, logger)
}

func writeReport(cmd *cobra.Command, svc *services.AnalysisService, timeout time.Duration, logger *slog.Logger) error {
	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	in, err := svc.WorkbookInput(ctx)
	if err != nil {
		return err
	}
	files, err := svc.ExportReport(ctx)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "report written", slog.Int("files", len(files)))

	printSummary(cmd.OutOrStdout(), in.Metrics, in.Totals, files)
	return nil
}

// printSummary writes the global figures with Brazilian number formatting.
func printSummary(w io.Writer, metrics domain.GlobalMetrics, totals []domain.ClassTotals, files []string) {
	p := message.NewPrinter(language.BrazilianPortuguese)

	p.Fprintf(w, "Contratos: %d\n", metrics.Rows)
	p.Fprintf(w, "Ticket médio: R$ %.2f\n", metrics.AverageTicket)
	p.Fprintf(w, "Taxa média ponderada: %.4f\n", metrics.WeightedAvgRate)
	p.Fprintf(w, "Prazo médio ponderado: %.2f\n", metrics.WeightedAvgTerm)
	for _, t := range totals {
		p.Fprintf(w, "%s: %d (0) / %d (1), %.2f%% / %.2f%%\n", t.Label, t.Count0, t.Count1, t.Percent0, t.Percent1)
	}
	fmt.Fprintln(w, "Arquivos:")
	for _, f := range files {
		fmt.Fprintf(w, "  %s\n", f)
	}
}

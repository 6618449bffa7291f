package exporter

import (
	"log/slog"
	"time"

	"creditlens/internal/config"
	apperrors "creditlens/internal/errors"
)

// ReportExporter writes the full set of report files for one run.
type ReportExporter struct {
	paths    *config.Paths
	csv      *CSVWriter
	workbook *WorkbookExporter
	now      func() time.Time
}

// NewReportExporter creates a report exporter writing under paths.ReportsDir.
func NewReportExporter(paths *config.Paths) *ReportExporter {
	return &ReportExporter{
		paths:    paths,
		csv:      NewCSVWriter(paths),
		workbook: NewWorkbookExporter(),
		now:      time.Now,
	}
}

// Export writes one profile CSV per report, the enriched contracts CSV and the
// workbook. It returns the paths written, in that order.
func (e *ReportExporter) Export(in WorkbookInput) ([]string, error) {
	if err := e.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewExportError(e.paths.ReportsDir, err)
	}

	var files []string
	for _, report := range in.Profiles {
		path, err := e.csv.ExportProfile(report)
		if err != nil {
			return files, apperrors.NewExportError(ProfileFileName(report.Label), err)
		}
		files = append(files, path)
	}

	at := e.now()
	if in.Table != nil {
		path := e.paths.GetReportPathForRun("contratos", "csv", at)
		if err := ExportContractsFile(path, in.Table); err != nil {
			return files, apperrors.NewExportError(path, err)
		}
		files = append(files, path)
	}

	path := e.paths.GetReportPathForRun("relatorio", "xlsx", at)
	if err := e.workbook.SaveAs(path, in); err != nil {
		return files, apperrors.NewExportError(path, err)
	}
	files = append(files, path)

	slog.Info("Report exported", slog.Int("files", len(files)), slog.String("dir", e.paths.ReportsDir))
	return files, nil
}

package http

import (
	"context"
	"io"

	"creditlens/internal/services"
	"creditlens/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations the dashboard serves
type AnalysisServiceInterface interface {
	Overview(ctx context.Context, previewRows int) (services.Overview, error)
	GlobalMetrics(ctx context.Context) (domain.GlobalMetrics, error)
	BadLabel(ctx context.Context) (services.BadLabelSummary, error)
	Profile(ctx context.Context, req services.ProfileRequest) (*domain.ProfileReport, error)
	Features(ctx context.Context) (services.FeatureSummary, error)
	Compare(ctx context.Context, columns []string) ([]domain.MeanComparison, error)
	Correlation(ctx context.Context, columns []string) (domain.CorrelationMatrix, error)
	Histogram(ctx context.Context, column, by string, bins int) (domain.Histogram, error)
	Boxplot(ctx context.Context, column, by string) (domain.Boxplot, error)
	Trend(ctx context.Context, x, y string) (domain.Trend, error)
	Reload(ctx context.Context) (services.SourceInfo, error)
	WriteExport(ctx context.Context, kind services.ExportKind, label string, w io.Writer) error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"creditlens/internal/config"
	"creditlens/internal/dataprocessing"
	apperrors "creditlens/internal/errors"
	"creditlens/internal/exporter"
	"creditlens/internal/infrastructure"
	"creditlens/internal/profiler"
	"creditlens/internal/region"
	"creditlens/internal/riskmetrics"
	"creditlens/internal/stats"
	"creditlens/pkg/contracts/domain"
)

// AnalysisOptions wires an AnalysisService. Only Source is required.
type AnalysisOptions struct {
	Source   string
	Sheet    string
	Analysis config.AnalysisConfig
	Paths    *config.Paths

	Loader  dataprocessing.TableLoader
	Tracer  trace.Tracer
	Metrics *infrastructure.AnalysisMetrics
	Logger  *slog.Logger
}

// AnalysisService runs every analysis over the session's contract table. It
// owns the session cache: each call reads a private, fully enriched copy of the
// table, so concurrent requests never observe each other's work.
type AnalysisService struct {
	source   string
	sheet    string
	analysis config.AnalysisConfig
	policy   riskmetrics.UndefinedPolicy

	cache    *dataprocessing.Cache
	reports  *exporter.ReportExporter
	workbook *exporter.WorkbookExporter
	validate *validator.Validate

	tracer  trace.Tracer
	metrics *infrastructure.AnalysisMetrics
	logger  *slog.Logger

	mu       sync.RWMutex
	loadedAt time.Time
}

// NewAnalysisService creates the service. Missing analysis settings fall back to
// the defaults in config.Default.
func NewAnalysisService(opts AnalysisOptions) *AnalysisService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName)
	}
	sheet := opts.Sheet
	if sheet == "" {
		sheet = dataprocessing.DefaultSheet
	}

	analysis := opts.Analysis
	defaults := config.Default().Analysis
	if analysis.ThresholdMultiplier <= 0 {
		analysis.ThresholdMultiplier = defaults.ThresholdMultiplier
	}
	if analysis.UndefinedPolicy == "" {
		analysis.UndefinedPolicy = defaults.UndefinedPolicy
	}
	if len(analysis.Attributes) == 0 {
		analysis.Attributes = defaults.Attributes
	}

	loader := opts.Loader
	if loader == nil {
		loader = dataprocessing.NewLoader(logger)
	}
	cache := dataprocessing.NewCache(&instrumentedLoader{next: loader, tracer: tracer, metrics: opts.Metrics}, logger)
	if opts.Metrics != nil {
		cache.SetObserver(opts.Metrics)
	}

	s := &AnalysisService{
		source:   opts.Source,
		sheet:    sheet,
		analysis: analysis,
		policy:   riskmetrics.UndefinedPolicy(analysis.UndefinedPolicy),
		cache:    cache,
		workbook: exporter.NewWorkbookExporter(),
		validate: validator.New(),
		tracer:   tracer,
		metrics:  opts.Metrics,
		logger:   infrastructure.WithComponent(logger, "analysis_service"),
	}
	if opts.Paths != nil {
		s.reports = exporter.NewReportExporter(opts.Paths)
	}

	s.logger.Info("AnalysisService initialized",
		slog.String("source", s.source),
		slog.String("sheet", s.sheet),
		slog.String("undefined_policy", analysis.UndefinedPolicy),
		slog.Float64("threshold_multiplier", analysis.ThresholdMultiplier))
	return s
}

// Source returns the configured workbook path
func (s *AnalysisService) Source() string {
	return s.source
}

// CachedTables returns the number of tables held by the session cache
func (s *AnalysisService) CachedTables() int {
	return s.cache.Len()
}

// compute runs fn over a fresh enriched table inside a span and records the
// computation metric. Column lookup failures surface as validation errors. An
// expired ctx fails the call before fn runs and discards a late result.
func compute[T any](ctx context.Context, s *AnalysisService, operation string, fn func(context.Context, *domain.Table) (T, error)) (T, error) {
	ctx, span := s.tracer.Start(ctx, "analysis."+operation,
		trace.WithAttributes(attribute.String("analysis.operation", operation)))
	defer span.End()

	start := time.Now()
	var zero T

	table, err := s.table(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		var out T
		out, err = fn(ctx, table)
		if err == nil {
			err = ctx.Err()
		}
		if err == nil {
			s.metrics.RecordComputation(ctx, operation, time.Since(start), nil)
			return out, nil
		}
	}

	err = classify(err)
	s.metrics.RecordComputation(ctx, operation, time.Since(start), err)
	infrastructure.RecordError(ctx, err)
	s.logger.WarnContext(ctx, "Analysis failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()))
	return zero, err
}

// table loads (or reuses) the source and derives every column on a private copy.
func (s *AnalysisService) table(ctx context.Context) (*domain.Table, error) {
	t, err := s.cache.Get(ctx, s.source, s.sheet)
	if err != nil {
		return nil, err
	}
	s.markLoaded()
	return s.enrich(t), nil
}

func (s *AnalysisService) enrich(t *domain.Table) *domain.Table {
	region.Assign(t)
	riskmetrics.LabelBad(t)
	riskmetrics.LabelLoss(t)
	riskmetrics.DeriveFeatures(t, s.policy)
	return t
}

func (s *AnalysisService) markLoaded() {
	s.mu.Lock()
	if s.loadedAt.IsZero() {
		s.loadedAt = time.Now()
	}
	s.mu.Unlock()
}

func (s *AnalysisService) info(t *domain.Table) SourceInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SourceInfo{Source: s.source, Sheet: s.sheet, Rows: t.Len(), LoadedAt: s.loadedAt}
}

// classify maps column registry failures onto validation errors.
func classify(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrUnknownColumn):
		return apperrors.NewValidationErrorWithCause("unknown column", err)
	case errors.Is(err, domain.ErrColumnNotDerived):
		return apperrors.NewValidationErrorWithCause("column not available", err)
	}
	return err
}

// Table returns a private enriched copy of the session table.
func (s *AnalysisService) Table(ctx context.Context) (*domain.Table, error) {
	return compute(ctx, s, "table", func(_ context.Context, t *domain.Table) (*domain.Table, error) {
		return t, nil
	})
}

// Reload drops the cached table and reads the source again.
func (s *AnalysisService) Reload(ctx context.Context) (SourceInfo, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.reload")
	defer span.End()

	t, err := s.cache.Reload(ctx, s.source, s.sheet)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return SourceInfo{}, err
	}
	s.mu.Lock()
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Source reloaded", slog.String("source", s.source), slog.Int("rows", t.Len()))
	return s.info(t), nil
}

// Overview returns the table shape, the first rows and the global metrics. A
// metrics failure is reported in the result rather than failing the page.
func (s *AnalysisService) Overview(ctx context.Context, previewRows int) (Overview, error) {
	if previewRows <= 0 {
		previewRows = s.analysis.PreviewRows
	}
	return compute(ctx, s, "overview", func(_ context.Context, t *domain.Table) (Overview, error) {
		n := min(previewRows, t.Len())
		out := Overview{
			SourceInfo: s.info(t),
			Columns:    append(domain.SourceNumericColumns(), domain.ColumnState, domain.ColumnSector),
			Preview:    append([]domain.Contract(nil), t.Records[:n]...),
		}
		metrics, err := riskmetrics.GlobalMetrics(t)
		if err != nil {
			out.MetricsError = err.Error()
		} else {
			out.Metrics = &metrics
		}
		return out, nil
	})
}

// GlobalMetrics returns the average ticket and the weighted rate and term.
func (s *AnalysisService) GlobalMetrics(ctx context.Context) (domain.GlobalMetrics, error) {
	return compute(ctx, s, "global_metrics", func(_ context.Context, t *domain.Table) (domain.GlobalMetrics, error) {
		return riskmetrics.GlobalMetrics(t)
	})
}

// BadLabel returns the bad label's class totals and partition sizes.
func (s *AnalysisService) BadLabel(ctx context.Context) (BadLabelSummary, error) {
	return compute(ctx, s, "bad_label", func(_ context.Context, t *domain.Table) (BadLabelSummary, error) {
		totals, err := profiler.ClassTotals(t, domain.ColumnBad)
		if err != nil {
			return BadLabelSummary{}, err
		}
		bad, good := riskmetrics.PartitionByBad(t)
		return BadLabelSummary{
			Threshold: riskmetrics.BadDelinquencyDays,
			Totals:    totals,
			BadRows:   bad.Len(),
			GoodRows:  good.Len(),
		}, nil
	})
}

// Profile builds the categorical risk profile described by req.
func (s *AnalysisService) Profile(ctx context.Context, req ProfileRequest) (*domain.ProfileReport, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationErrorWithCause("invalid profile request", err)
	}
	opts := s.profileOptions(req)
	return compute(ctx, s, "profile", func(_ context.Context, t *domain.Table) (*domain.ProfileReport, error) {
		return profiler.Profile(t, opts)
	})
}

// ProfileAll profiles every binary label against the configured attributes.
// Labels with a single observed class are skipped with a warning.
func (s *AnalysisService) ProfileAll(ctx context.Context) ([]*domain.ProfileReport, error) {
	return compute(ctx, s, "profile_all", func(ctx context.Context, t *domain.Table) ([]*domain.ProfileReport, error) {
		return s.profileAll(ctx, t)
	})
}

func (s *AnalysisService) profileAll(ctx context.Context, t *domain.Table) ([]*domain.ProfileReport, error) {
	reports := make([]*domain.ProfileReport, 0, len(LabelColumns))
	for _, label := range LabelColumns {
		report, err := profiler.Profile(t, s.profileOptions(ProfileRequest{Label: label}))
		if errors.Is(err, apperrors.ErrDegenerateLabel) {
			s.logger.WarnContext(ctx, "Skipping degenerate label", slog.String("label", label))
			continue
		}
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *AnalysisService) profileOptions(req ProfileRequest) profiler.Options {
	opts := profiler.Options{
		Label:               req.Label,
		Attributes:          req.Attributes,
		ThresholdMultiplier: req.Multiplier,
	}
	if opts.Label == "" {
		opts.Label = domain.ColumnBad
	}
	if len(opts.Attributes) == 0 {
		opts.Attributes = s.analysis.Attributes
	}
	if opts.ThresholdMultiplier == 0 {
		opts.ThresholdMultiplier = s.analysis.ThresholdMultiplier
	}
	return opts
}

// Features summarises the derived ratios and the class totals of each bucket.
func (s *AnalysisService) Features(ctx context.Context) (FeatureSummary, error) {
	return compute(ctx, s, "features", func(_ context.Context, t *domain.Table) (FeatureSummary, error) {
		out := FeatureSummary{Policy: string(s.policy)}
		all := t.Filter(nil)
		for _, col := range ratioColumns {
			values, err := all.Values(col)
			if err != nil {
				return FeatureSummary{}, err
			}
			out.Ratios = append(out.Ratios, FeatureColumn{
				Column:    col,
				Summary:   stats.Describe(values),
				Undefined: t.Len() - len(values),
			})
		}
		for _, label := range LabelColumns {
			totals, err := profiler.ClassTotals(t, label)
			if err != nil {
				return FeatureSummary{}, err
			}
			out.Categories = append(out.Categories, totals)
		}
		return out, nil
	})
}

// Compare describes each column for good and bad contracts. With no columns it
// compares every numeric column except the bad label itself.
func (s *AnalysisService) Compare(ctx context.Context, columns []string) ([]domain.MeanComparison, error) {
	return compute(ctx, s, "compare", func(_ context.Context, t *domain.Table) ([]domain.MeanComparison, error) {
		if len(columns) == 0 {
			columns = withoutColumn(t.NumericColumns(), domain.ColumnBad)
		}
		bad, good := riskmetrics.PartitionByBad(t)
		return stats.CompareMeans(good, bad, columns)
	})
}

// Correlation returns the Pearson matrix of columns, or of every numeric column.
func (s *AnalysisService) Correlation(ctx context.Context, columns []string) (domain.CorrelationMatrix, error) {
	return compute(ctx, s, "correlation", func(_ context.Context, t *domain.Table) (domain.CorrelationMatrix, error) {
		if len(columns) == 0 {
			columns = t.NumericColumns()
		}
		return stats.Correlation(t, columns)
	})
}

// Histogram bins column split by the by class column (bad_label when empty).
// bins = 0 uses the configured default.
func (s *AnalysisService) Histogram(ctx context.Context, column, by string, bins int) (domain.Histogram, error) {
	if bins < 0 || bins > stats.MaxBins {
		return domain.Histogram{}, apperrors.NewAppValidationError(
			fmt.Sprintf("bins must be between 0 and %d, got %d", stats.MaxBins, bins))
	}
	if bins == 0 {
		bins = s.analysis.HistogramBins
	}
	if by == "" {
		by = domain.ColumnBad
	}
	return compute(ctx, s, "histogram", func(_ context.Context, t *domain.Table) (domain.Histogram, error) {
		return stats.Histogram(t, column, by, bins)
	})
}

// Boxplot returns box statistics of column split by the by class column.
func (s *AnalysisService) Boxplot(ctx context.Context, column, by string) (domain.Boxplot, error) {
	if by == "" {
		by = domain.ColumnBad
	}
	return compute(ctx, s, "boxplot", func(_ context.Context, t *domain.Table) (domain.Boxplot, error) {
		return stats.Boxplot(t, column, by)
	})
}

// Trend returns the scatter of y against x with its least-squares line.
func (s *AnalysisService) Trend(ctx context.Context, x, y string) (domain.Trend, error) {
	return compute(ctx, s, "trend", func(_ context.Context, t *domain.Table) (domain.Trend, error) {
		return stats.Trend(t, x, y)
	})
}

// WorkbookInput gathers everything the exports show.
func (s *AnalysisService) WorkbookInput(ctx context.Context) (exporter.WorkbookInput, error) {
	return compute(ctx, s, "report", func(ctx context.Context, t *domain.Table) (exporter.WorkbookInput, error) {
		return s.workbookInput(ctx, t)
	})
}

func (s *AnalysisService) workbookInput(ctx context.Context, t *domain.Table) (exporter.WorkbookInput, error) {
	in := exporter.WorkbookInput{Table: t}
	metrics, err := riskmetrics.GlobalMetrics(t)
	if err != nil {
		return in, err
	}
	in.Metrics = metrics

	reports, err := s.profileAll(ctx, t)
	if err != nil {
		return in, err
	}
	in.Profiles = reports
	for _, label := range LabelColumns {
		totals, err := profiler.ClassTotals(t, label)
		if err != nil {
			return in, err
		}
		in.Totals = append(in.Totals, totals)
	}
	return in, nil
}

// ExportReport writes the full report set to the reports directory.
func (s *AnalysisService) ExportReport(ctx context.Context) ([]string, error) {
	if s.reports == nil {
		return nil, apperrors.NewConfigError("reports directory not configured", nil)
	}
	return compute(ctx, s, "export_report", func(ctx context.Context, t *domain.Table) ([]string, error) {
		in, err := s.workbookInput(ctx, t)
		if err != nil {
			return nil, err
		}
		return s.reports.Export(in)
	})
}

// WriteExport streams one export to w.
func (s *AnalysisService) WriteExport(ctx context.Context, kind ExportKind, label string, w io.Writer) error {
	if !kind.Valid() {
		return apperrors.NewAppValidationError(fmt.Sprintf("unknown export %q", kind))
	}
	_, err := compute(ctx, s, "export_"+string(kind), func(ctx context.Context, t *domain.Table) (struct{}, error) {
		var err error
		switch kind {
		case ExportContracts:
			err = exporter.ExportContracts(w, t)
		case ExportProfile:
			var report *domain.ProfileReport
			report, err = profiler.Profile(t, s.profileOptions(ProfileRequest{Label: label}))
			if err == nil {
				err = exporter.WriteProfileCSV(w, report)
			}
		case ExportWorkbook:
			var in exporter.WorkbookInput
			in, err = s.workbookInput(ctx, t)
			if err == nil {
				err = s.workbook.Write(w, in)
			}
		}
		if err != nil && apperrors.TypeOf(err) == "" && !isColumnError(err) {
			err = apperrors.NewExportError(string(kind), err)
		}
		return struct{}{}, err
	})
	return err
}

func isColumnError(err error) bool {
	return errors.Is(err, domain.ErrUnknownColumn) || errors.Is(err, domain.ErrColumnNotDerived)
}

func withoutColumn(columns []string, drop string) []string {
	out := columns[:0:0]
	for _, c := range columns {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}

package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"creditlens/internal/dataprocessing"
	"creditlens/internal/infrastructure"
	"creditlens/pkg/contracts/domain"
)

// instrumentedLoader traces and meters every workbook load the cache performs.
type instrumentedLoader struct {
	next    dataprocessing.TableLoader
	tracer  trace.Tracer
	metrics *infrastructure.AnalysisMetrics
}

func (l *instrumentedLoader) Load(ctx context.Context, path, sheet string) (*domain.Table, error) {
	ctx, span := l.tracer.Start(ctx, "dataprocessing.load",
		trace.WithAttributes(
			attribute.String("source.path", path),
			attribute.String("source.sheet", sheet),
		))
	defer span.End()

	start := time.Now()
	table, err := l.next.Load(ctx, path, sheet)
	l.metrics.RecordLoad(ctx, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("source.rows", table.Len()))
	return table, nil
}

// Package services implements the analysis session behind the CLI and the
// dashboard.
//
// AnalysisService owns the session cache. Every operation reads a private
// copy of the source table, derives region, labels and features on it, and
// runs one calculator inside a span:
//
//	svc := services.NewAnalysisService(services.AnalysisOptions{
//		Source:   paths.Source,
//		Sheet:    cfg.Data.Sheet,
//		Analysis: cfg.Analysis,
//		Paths:    paths,
//		Tracer:   providers.Tracer,
//		Metrics:  metrics,
//		Logger:   logger,
//	})
//	report, err := svc.Profile(ctx, services.ProfileRequest{Label: "bad_label"})
//
// Errors are AppErrors from internal/errors. Unknown or underived column
// names come back as validation errors.
//
// HealthService reports liveness, readiness (source readable, region table
// complete) and runtime statistics.
package services

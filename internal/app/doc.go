// Package app wires the dashboard server: configuration, paths, OpenTelemetry,
// the analysis and health services, the chi router and the HTTP server.
//
// Middleware order is RequestID, RealIP, OTel, StructuredLogger, Recoverer,
// SecurityHeaders, RateLimiter (when enabled) and Timeout. /metrics sits
// outside the group.
//
// Typical use, from the serve command:
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//		return err
//	}
//	return application.Run(ctx)
//
// Run blocks until SIGINT, SIGTERM or ctx cancellation and then shuts the
// server and the telemetry providers down within Server.ShutdownTimeout.
// NewServiceContainer builds the services alone for one-shot commands.
package app

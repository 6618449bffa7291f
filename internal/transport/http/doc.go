// Package http implements the dashboard's HTTP handlers. Handlers only parse
// query parameters, call the analysis service and render the result as JSON
// with go-chi/render. Errors are written as RFC 7807 problem documents by
// errors.ErrorHandler.
//
// Routes, all under /api:
//
//	GET  /health, /health/ready, /health/live, /health/stats, /version
//	GET  /overview?rows=
//	GET  /metrics/global
//	GET  /labels/bad
//	GET  /profiles?label=&attributes=&multiplier=
//	GET  /features
//	GET  /stats/compare?columns=
//	GET  /stats/correlation?columns=
//	GET  /stats/histogram?column=&by=&bins=
//	GET  /stats/boxplot?column=&by=
//	GET  /stats/trend?x=&y=
//	POST /source/reload
//	GET  /export/{contracts|profile|workbook}?label=
//
// DashboardHandler serves the HTML summary at GET /.
package http

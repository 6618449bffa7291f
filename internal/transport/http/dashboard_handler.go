package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	apierrors "creditlens/internal/errors"
	"creditlens/internal/services"
	"creditlens/pkg/contracts/domain"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// dashboardPage is the data rendered by the dashboard template.
type dashboardPage struct {
	Overview     services.Overview
	Bad          services.BadLabelSummary
	Profile      *domain.ProfileReport
	ProfileError string
	Error        *apierrors.ProblemDetails
}

// DashboardHandler renders the HTML summary page at GET /
type DashboardHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP renders the overview, the bad label split and its risk profile. A
// source failure renders the page with the problem instead.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK
	page := dashboardPage{}

	overview, err := h.service.Overview(ctx, 0)
	if err == nil {
		page.Overview = overview
		page.Bad, err = h.service.BadLabel(ctx)
	}
	if err != nil {
		page.Error = h.errorHandler.ErrorToProblem(err, r)
		status = page.Error.Status
		h.logger.WarnContext(ctx, "dashboard unavailable", slog.String("error", err.Error()))
	} else if page.Profile, err = h.service.Profile(ctx, services.ProfileRequest{}); err != nil {
		page.ProfileError = err.Error()
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(ctx, "failed to render dashboard", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

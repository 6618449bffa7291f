package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "creditlens/internal/errors"
	"creditlens/internal/services"
)

// AnalysisHandler serves the read-only analysis endpoints with RFC 7807 errors
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Register adds the analysis routes to r, which is expected to be mounted at /api
func (h *AnalysisHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/overview", h.GetOverview)
		r.Get("/metrics/global", h.GetGlobalMetrics)
		r.Get("/labels/bad", h.GetBadLabel)
		r.Get("/profiles", h.GetProfile)
		r.Get("/features", h.GetFeatures)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/compare", h.GetCompare)
			r.Get("/correlation", h.GetCorrelation)
			r.Get("/histogram", h.GetHistogram)
			r.Get("/boxplot", h.GetBoxplot)
			r.Get("/trend", h.GetTrend)
		})

		r.Post("/source/reload", h.ReloadSource)
	})

	r.Get("/export/{kind}", h.Export)
}

// Routes returns the analysis routes as a standalone router
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func (h *AnalysisHandler) respond(w http.ResponseWriter, r *http.Request, v interface{}, err error) {
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

// GetOverview handles GET /api/overview
func (h *AnalysisHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	rows, err := intParam(r, "rows")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	overview, err := h.service.Overview(r.Context(), rows)
	h.respond(w, r, overview, err)
}

// GetGlobalMetrics handles GET /api/metrics/global
func (h *AnalysisHandler) GetGlobalMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.GlobalMetrics(r.Context())
	h.respond(w, r, metrics, err)
}

// GetBadLabel handles GET /api/labels/bad
func (h *AnalysisHandler) GetBadLabel(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.BadLabel(r.Context())
	h.respond(w, r, summary, err)
}

// GetProfile handles GET /api/profiles?label=&attributes=&multiplier=
func (h *AnalysisHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	multiplier, err := floatParam(r, "multiplier")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	req := services.ProfileRequest{
		Label:      r.URL.Query().Get("label"),
		Attributes: listParam(r, "attributes"),
		Multiplier: multiplier,
	}
	report, err := h.service.Profile(r.Context(), req)
	h.respond(w, r, report, err)
}

// GetFeatures handles GET /api/features
func (h *AnalysisHandler) GetFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := h.service.Features(r.Context())
	h.respond(w, r, features, err)
}

// GetCompare handles GET /api/stats/compare?columns=
func (h *AnalysisHandler) GetCompare(w http.ResponseWriter, r *http.Request) {
	cmp, err := h.service.Compare(r.Context(), listParam(r, "columns"))
	h.respond(w, r, cmp, err)
}

// GetCorrelation handles GET /api/stats/correlation?columns=
func (h *AnalysisHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.service.Correlation(r.Context(), listParam(r, "columns"))
	h.respond(w, r, matrix, err)
}

// GetHistogram handles GET /api/stats/histogram?column=&by=&bins=
func (h *AnalysisHandler) GetHistogram(w http.ResponseWriter, r *http.Request) {
	column, err := requiredParam(r, "column")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	bins, err := intParam(r, "bins")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	hist, err := h.service.Histogram(r.Context(), column, r.URL.Query().Get("by"), bins)
	h.respond(w, r, hist, err)
}

// GetBoxplot handles GET /api/stats/boxplot?column=&by=
func (h *AnalysisHandler) GetBoxplot(w http.ResponseWriter, r *http.Request) {
	column, err := requiredParam(r, "column")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	box, err := h.service.Boxplot(r.Context(), column, r.URL.Query().Get("by"))
	h.respond(w, r, box, err)
}

// GetTrend handles GET /api/stats/trend?x=&y=
func (h *AnalysisHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	x, err := requiredParam(r, "x")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	y, err := requiredParam(r, "y")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	trend, err := h.service.Trend(r.Context(), x, y)
	h.respond(w, r, trend, err)
}

// ReloadSource handles POST /api/source/reload
func (h *AnalysisHandler) ReloadSource(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "reloading source",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	info, err := h.service.Reload(r.Context())
	h.respond(w, r, info, err)
}

// Export handles GET /api/export/{kind}?label=. The body is buffered so a
// failure can still be reported as a problem document.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind := services.ExportKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("kind", string(kind)))
		return
	}

	var buf bytes.Buffer
	if err := h.service.WriteExport(r.Context(), kind, r.URL.Query().Get("label"), &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", kind.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kind.FileName()))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "creditlens/internal/errors"
	"creditlens/internal/services"
	"creditlens/pkg/contracts/domain"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Overview(ctx context.Context, previewRows int) (services.Overview, error) {
	args := m.Called(previewRows)
	return args.Get(0).(services.Overview), args.Error(1)
}

func (m *MockAnalysisService) GlobalMetrics(ctx context.Context) (domain.GlobalMetrics, error) {
	args := m.Called()
	return args.Get(0).(domain.GlobalMetrics), args.Error(1)
}

func (m *MockAnalysisService) BadLabel(ctx context.Context) (services.BadLabelSummary, error) {
	args := m.Called()
	return args.Get(0).(services.BadLabelSummary), args.Error(1)
}

func (m *MockAnalysisService) Profile(ctx context.Context, req services.ProfileRequest) (*domain.ProfileReport, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileReport), args.Error(1)
}

func (m *MockAnalysisService) Features(ctx context.Context) (services.FeatureSummary, error) {
	args := m.Called()
	return args.Get(0).(services.FeatureSummary), args.Error(1)
}

func (m *MockAnalysisService) Compare(ctx context.Context, columns []string) ([]domain.MeanComparison, error) {
	args := m.Called(columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MeanComparison), args.Error(1)
}

func (m *MockAnalysisService) Correlation(ctx context.Context, columns []string) (domain.CorrelationMatrix, error) {
	args := m.Called(columns)
	return args.Get(0).(domain.CorrelationMatrix), args.Error(1)
}

func (m *MockAnalysisService) Histogram(ctx context.Context, column, by string, bins int) (domain.Histogram, error) {
	args := m.Called(column, by, bins)
	return args.Get(0).(domain.Histogram), args.Error(1)
}

func (m *MockAnalysisService) Boxplot(ctx context.Context, column, by string) (domain.Boxplot, error) {
	args := m.Called(column, by)
	return args.Get(0).(domain.Boxplot), args.Error(1)
}

func (m *MockAnalysisService) Trend(ctx context.Context, x, y string) (domain.Trend, error) {
	args := m.Called(x, y)
	return args.Get(0).(domain.Trend), args.Error(1)
}

func (m *MockAnalysisService) Reload(ctx context.Context) (services.SourceInfo, error) {
	args := m.Called()
	return args.Get(0).(services.SourceInfo), args.Error(1)
}

func (m *MockAnalysisService) WriteExport(ctx context.Context, kind services.ExportKind, label string, w io.Writer) error {
	args := m.Called(kind, label)
	if body, ok := args.Get(0).(string); ok && body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRouter(svc AnalysisServiceInterface) http.Handler {
	h := NewAnalysisHandler(svc, testLogger, apierrors.NewErrorHandler(testLogger, false))
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	r.Method(http.MethodGet, "/", NewDashboardHandler(svc, testLogger, apierrors.NewErrorHandler(testLogger, false)))
	return r
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGlobalMetricsEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockAnalysisService)
		expectedStatus int
		expectedType   string
	}{
		{
			name: "success",
			setupMock: func(m *MockAnalysisService) {
				m.On("GlobalMetrics").Return(domain.GlobalMetrics{Rows: 3, AverageTicket: 100}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "source unavailable",
			setupMock: func(m *MockAnalysisService) {
				m.On("GlobalMetrics").Return(domain.GlobalMetrics{},
					apperrorsDataLoad())
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedType:   apierrors.TypeDataUnavailable,
		},
		{
			name: "empty table",
			setupMock: func(m *MockAnalysisService) {
				m.On("GlobalMetrics").Return(domain.GlobalMetrics{},
					apierrors.NewEmptyInputError("global_metrics", domain.ColumnContractValue))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   apierrors.TypeEmptyInput,
		},
		{
			name: "unexpected error",
			setupMock: func(m *MockAnalysisService) {
				m.On("GlobalMetrics").Return(domain.GlobalMetrics{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   apierrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			tt.setupMock(svc)

			rec := do(t, newRouter(svc), http.MethodGet, "/api/metrics/global")
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedType == "" {
				assert.Contains(t, rec.Body.String(), `"average_ticket":100`)
			} else {
				assert.Equal(t, tt.expectedType, decodeProblem(t, rec)["type"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func apperrorsDataLoad() error {
	return apierrors.NewDataLoadError("data/Case Open.xlsx", "source not accessible", nil)
}

func TestProfileEndpointParsesQuery(t *testing.T) {
	svc := new(MockAnalysisService)
	want := services.ProfileRequest{
		Label:      domain.ColumnScoreCategory,
		Attributes: []string{"estado", "regiao"},
		Multiplier: 1.25,
	}
	svc.On("Profile", want).Return(&domain.ProfileReport{Label: domain.ColumnScoreCategory}, nil)

	rec := do(t, newRouter(svc), http.MethodGet,
		"/api/profiles?label=score_category&attributes=estado,%20regiao,&multiplier=1.25")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"score_category"`)
	svc.AssertExpectations(t)
}

func TestProfileEndpointErrors(t *testing.T) {
	t.Run("bad multiplier", func(t *testing.T) {
		svc := new(MockAnalysisService)
		rec := do(t, newRouter(svc), http.MethodGet, "/api/profiles?multiplier=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apierrors.TypeValidation, decodeProblem(t, rec)["type"])
		svc.AssertNotCalled(t, "Profile", mock.Anything)
	})

	t.Run("degenerate label", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Profile", services.ProfileRequest{}).Return(nil, apierrors.NewDegenerateLabelError(domain.ColumnBad, 1))
		rec := do(t, newRouter(svc), http.MethodGet, "/api/profiles")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeProblem(t, rec)
		assert.Equal(t, apierrors.TypeDegenerateLabel, body["type"])
		assert.Equal(t, "DEGENERATE_LABEL", body["error_code"])
	})
}

func TestStatsEndpoints(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Compare", []string{"score", "taxa"}).Return([]domain.MeanComparison{{Column: "score", PercentDiff: domain.Number(math.NaN())}}, nil)
	svc.On("Correlation", []string(nil)).Return(domain.CorrelationMatrix{Columns: []string{"score"}}, nil)
	svc.On("Histogram", "score", "", 10).Return(domain.Histogram{Column: "score", By: "bad_label"}, nil)
	svc.On("Boxplot", "score", "regiao").Return(domain.Boxplot{Column: "score", By: "regiao"}, nil)
	svc.On("Trend", "score", "taxa").Return(domain.Trend{X: "score", Y: "taxa"}, nil)
	router := newRouter(svc)

	rec := do(t, router, http.MethodGet, "/api/stats/compare?columns=score,taxa")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"percent_diff":null`)

	for _, target := range []string{
		"/api/stats/correlation",
		"/api/stats/histogram?column=score&bins=10",
		"/api/stats/boxplot?column=score&by=regiao",
		"/api/stats/trend?x=score&y=taxa",
	} {
		rec := do(t, router, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
	svc.AssertExpectations(t)
}

func TestStatsEndpointsRequireParameters(t *testing.T) {
	svc := new(MockAnalysisService)
	router := newRouter(svc)

	for _, target := range []string{
		"/api/stats/histogram",
		"/api/stats/histogram?column=score&bins=x",
		"/api/stats/boxplot",
		"/api/stats/trend?x=score",
	} {
		rec := do(t, router, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestUnknownColumnIsBadRequest(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Boxplot", "cidade", "").Return(domain.Boxplot{},
		apierrors.NewValidationErrorWithCause("unknown column", domain.ErrUnknownColumn))

	rec := do(t, newRouter(svc), http.MethodGet, "/api/stats/boxplot?column=cidade")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReloadEndpoint(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Reload").Return(services.SourceInfo{Source: "a.xlsx", Sheet: "Base", Rows: 10}, nil)
	router := newRouter(svc)

	rec := do(t, router, http.MethodPost, "/api/source/reload")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows":10`)

	rec = do(t, router, http.MethodGet, "/api/source/reload")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("WriteExport", services.ExportContracts, "").Return("a;b\r\n", nil)
	svc.On("WriteExport", services.ExportWorkbook, "").Return("", apperrorsDataLoad())
	router := newRouter(svc)

	rec := do(t, router, http.MethodGet, "/api/export/contracts")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "contratos.csv")
	assert.Equal(t, "a;b\r\n", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/export/workbook")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/export/pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Overview", 0).Return(services.Overview{
		SourceInfo: services.SourceInfo{Source: "Case Open.xlsx", Sheet: "Base", Rows: 2},
		Metrics:    &domain.GlobalMetrics{Rows: 2, AverageTicket: 1500},
	}, nil)
	svc.On("BadLabel").Return(services.BadLabelSummary{
		Threshold: 180,
		Totals:    domain.ClassTotals{Count0: 1, Count1: 1, Percent0: 50, Percent1: 50},
	}, nil)
	svc.On("Profile", services.ProfileRequest{}).Return(&domain.ProfileReport{
		Label: domain.ColumnBad,
		Attributes: []domain.AttributeProfile{{
			Attribute: domain.ColumnRegion,
			Rows:      []domain.CategoryRow{{Value: "Sul", Total1: 1}, {Missing: true, Total0: 1}},
			HighRisk:  []domain.CategoryRow{{Value: "Sul"}},
		}},
	}, nil)

	rec := do(t, newRouter(svc), http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, body, "1500.00")
	assert.Contains(t, body, "Perfil por regiao")
	assert.Contains(t, body, "(vazio)")
	assert.Contains(t, body, "Alto risco: Sul")
}

func TestDashboardSourceUnavailable(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Overview", 0).Return(services.Overview{}, apperrorsDataLoad())

	rec := do(t, newRouter(svc), http.MethodGet, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "source not accessible")
	svc.AssertNotCalled(t, "BadLabel")
}

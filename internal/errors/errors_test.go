package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := InvalidParameter("bins", "abc")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_PARAMETER", err.ErrorCode)
	assert.Equal(t, `invalid value "abc" for parameter bins`, err.Error())
	assert.Equal(t, "bins", err.Parameter)

	err = MissingParameter("column")
	assert.Equal(t, "MISSING_PARAMETER", err.ErrorCode)
	assert.Equal(t, "missing required parameter column", err.Message)
}

func TestAPIErrorProblem(t *testing.T) {
	h := NewErrorHandler(nil, false)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/histogram", nil)

	problem := h.ErrorToProblem(MissingParameter("column"), req)
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, TypeValidation, problem.Type)
	assert.Equal(t, "MISSING_PARAMETER", problem.Extensions["error_code"])
	assert.Equal(t, "column", problem.Extensions["parameter"])
}

func TestProblemDetails(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/api/x").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, float64(404), body["status"], "standard members win over extensions")
	assert.Equal(t, "abc", body["trace_id"])
	assert.NotContains(t, body, "detail")

	rec := httptest.NewRecorder()
	pd.Respond(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, string(data), rec.Body.String())
}

// api_test.go: controller-level tests for the v2 API.
package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

func TestMain(m *testing.M) {
	// The go-cache janitor and the lumberjack mill goroutine have no stop
	// mechanism, so they stay alive past controller shutdown.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

func TestHealthCheck(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("CountRecords").Return(int64(5), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/health", http.NoBody)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.HealthCheck(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "connected", response["database_status"])
	assert.InDelta(t, 5, response["record_count"], 0.1)
	assert.Contains(t, response, "uptime_seconds")

	mockDS.AssertExpectations(t)
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	dbErr := errors.Newf("database unreachable").
		Component("datastore").
		Category(errors.CategoryDatabase).
		Build()
	mockDS.On("CountRecords").Return(int64(0), dbErr)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/health", http.NoBody)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.HealthCheck(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "disconnected", response["database_status"])
	assert.Contains(t, response, "database_error")
}

func TestRouteRegistration(t *testing.T) {
	e := echo.New()
	mockDS := new(MockDataStore)

	_, err := NewWithOptions(e, mockDS, testSettings(),
		log.New(io.Discard, "", 0), nil, true)
	require.NoError(t, err)

	want := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v2/health"},
		{http.MethodPost, "/api/v2/emissions"},
		{http.MethodPost, "/api/v2/emissions/upload"},
		{http.MethodGet, "/api/v2/dashboard/:business_id"},
		{http.MethodGet, "/api/v2/insights/:business_id"},
		{http.MethodPost, "/api/v2/forecast/:business_id"},
		{http.MethodGet, "/api/v2/report/:business_id"},
		{http.MethodPost, "/api/v2/shares"},
		{http.MethodGet, "/api/v2/shares/:token/report"},
		{http.MethodDelete, "/api/v2/shares/:token"},
		{http.MethodGet, "/api/v2/system/info"},
		{http.MethodGet, "/api/v2/system/resources"},
	}

	registered := make(map[string]string)
	for _, route := range e.Routes() {
		registered[route.Method+" "+route.Path] = route.Name
	}

	for _, route := range want {
		assert.Contains(t, registered, route.method+" "+route.path)
	}
}

func TestDomainStatusMapping(t *testing.T) {
	t.Parallel()

	build := func(category errors.ErrorCategory) error {
		return errors.Newf("boom").Component("api").Category(category).Build()
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", build(errors.CategoryValidation), http.StatusBadRequest},
		{"not found", build(errors.CategoryNotFound), http.StatusNotFound},
		{"insufficient data", build(errors.CategoryInsufficientData), http.StatusBadRequest},
		{"file parsing", build(errors.CategoryFileParsing), http.StatusBadRequest},
		{"database", build(errors.CategoryDatabase), http.StatusInternalServerError},
		{"generic", build(errors.CategoryGeneric), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domainStatus(tt.err))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	t.Parallel()

	resp := NewErrorResponse(errors.Newf("boom").Build(), "Something failed", http.StatusInternalServerError)

	assert.Equal(t, "Something failed", resp.Message)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Error, "boom")
	assert.Len(t, resp.CorrelationID, 8)

	// No error object falls back to the message
	resp = NewErrorResponse(nil, "Missing input", http.StatusBadRequest)
	assert.Equal(t, "Missing input", resp.Error)
}

func TestGenerateCorrelationIDUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		id := generateCorrelationID()
		assert.Len(t, id, 8)
		seen[id] = struct{}{}
	}
	// Collisions across 100 draws from a 62^8 space would point at a
	// broken random source.
	assert.Greater(t, len(seen), 95)
}

func TestBodyLimitFromSettings(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{}
	settings.Ingest.MaxUploadSizeMB = 5
	c := &Controller{Settings: settings}
	assert.Equal(t, "5M", c.bodyLimit())

	settings.Ingest.MaxUploadSizeMB = 0
	assert.Equal(t, "25M", c.bodyLimit())
}

func TestNewWithOptionsRequiresSettings(t *testing.T) {
	t.Parallel()

	e := echo.New()
	_, err := NewWithOptions(e, new(MockDataStore), nil, log.New(io.Discard, "", 0), nil, false)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestNewWithOptionsRejectsUnknownForecastModel(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Forecast.Model = "prophet"

	e := echo.New()
	_, err := NewWithOptions(e, new(MockDataStore), settings, log.New(io.Discard, "", 0), nil, false)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

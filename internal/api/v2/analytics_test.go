// analytics_test.go: tests for the dashboard and insights endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-go/internal/analytics"
	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

func newParamContext(e *echo.Echo, method, target, paramName, paramValue string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, http.NoBody)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames(paramName)
	ctx.SetParamValues(paramValue)
	return ctx, rec
}

func TestGetDashboard(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetCategoryTotals", "1", "cafe-1").Return([]datastore.CategoryTotal{
		{SourceCategory: "electricity", Total: 125},
		{SourceCategory: "transport", Total: 50},
	}, nil)
	mockDS.On("GetScopeTotals", "1", "cafe-1").Return([]datastore.ScopeTotal{
		{Scope: "Scope 2", Total: 125},
		{Scope: "Scope 1", Total: 50},
	}, nil)

	ctx, rec := newParamContext(e, http.MethodGet, "/api/v2/dashboard/cafe-1", "business_id", "cafe-1")

	require.NoError(t, controller.GetDashboard(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var dashboard analytics.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))
	assert.InDelta(t, 175.0, dashboard.TotalEmissions, 1e-9)
	assert.InDelta(t, 175.0/12, dashboard.AvgMonthlyEmissions, 1e-9)
	assert.Len(t, dashboard.Contributors, 2)
	assert.Len(t, dashboard.ByScope, 2)

	mockDS.AssertExpectations(t)
}

func TestGetDashboardNotFound(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetCategoryTotals", "1", "ghost").Return([]datastore.CategoryTotal{}, nil)

	ctx, rec := newParamContext(e, http.MethodGet, "/api/v2/dashboard/ghost", "business_id", "ghost")

	require.NoError(t, controller.GetDashboard(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "No data found for this business", response.Message)
	assert.NotEmpty(t, response.CorrelationID)
}

func TestGetDashboardDatabaseError(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	dbErr := errors.Newf("query failed").
		Component("datastore").
		Category(errors.CategoryDatabase).
		Build()
	mockDS.On("GetCategoryTotals", "1", "cafe-1").Return([]datastore.CategoryTotal{}, dbErr)

	ctx, rec := newParamContext(e, http.MethodGet, "/api/v2/dashboard/cafe-1", "business_id", "cafe-1")

	require.NoError(t, controller.GetDashboard(ctx))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetInsights(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetBusinessType", "1", "cafe-1").Return("cafe", nil)
	mockDS.On("GetTotalEmissions", "1", "cafe-1").Return(100.0, nil)
	mockDS.On("GetSectorAverage", "cafe").Return(datastore.SectorAverage{
		BusinessType:  "cafe",
		Average:       200,
		BusinessCount: 2,
	}, nil)
	mockDS.On("GetActivityTotals", "1", "cafe-1").Return([]datastore.ActivityTotal{
		{Activity: "Generator use", SourceCategory: "electricity", Total: 60},
		{Activity: "Deliveries", SourceCategory: "transport", Total: 40},
	}, nil)

	ctx, rec := newParamContext(e, http.MethodGet, "/api/v2/insights/cafe-1", "business_id", "cafe-1")

	require.NoError(t, controller.GetInsights(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var insights analytics.Insights
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insights))
	assert.InDelta(t, 50.0, insights.GreenScore, 1e-9)
	assert.Contains(t, insights.Recommendation, "solar")
	assert.Contains(t, insights.Explanation, "0.359")

	mockDS.AssertExpectations(t)
}

func TestGetInsightsNotFound(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	notFound := errors.Newf("no records for business ghost").
		Component("datastore").
		Category(errors.CategoryNotFound).
		Build()
	mockDS.On("GetBusinessType", "1", "ghost").Return("", notFound)

	ctx, rec := newParamContext(e, http.MethodGet, "/api/v2/insights/ghost", "business_id", "ghost")

	require.NoError(t, controller.GetInsights(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

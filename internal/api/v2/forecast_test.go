// forecast_test.go: tests for the forecast endpoint.
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
)

func newForecastContext(e *echo.Echo, businessID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v2/forecast/"+businessID, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("business_id")
	ctx.SetParamValues(businessID)
	return ctx, rec
}

func monthlyHistory() []datastore.Record {
	dates := []string{
		"2024-01-15", "2024-02-15", "2024-03-15",
		"2024-04-15", "2024-05-15", "2024-06-15",
	}
	records := make([]datastore.Record, 0, len(dates))
	for i, date := range dates {
		records = append(records, datastore.Record{
			BusinessID:      "cafe-1",
			UserID:          "1",
			Date:            date,
			SourceCategory:  "electricity",
			EmissionsKgCO2e: 100 + float64(i)*10,
		})
	}
	return records
}

func TestGetForecast(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetRecordsForBusiness", "1", "cafe-1").Return(monthlyHistory(), nil)

	ctx, rec := newForecastContext(e, "cafe-1", `{"source_category": "all"}`)

	require.NoError(t, controller.GetForecast(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	// Six historical periods plus twelve projected months.
	require.Len(t, response.Forecast, 18)
	for _, estimate := range response.Forecast {
		assert.LessOrEqual(t, estimate.Lower, estimate.Value)
		assert.GreaterOrEqual(t, estimate.Upper, estimate.Value)
	}

	mockDS.AssertExpectations(t)
}

func TestGetForecastInsufficientData(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetRecordsForBusiness", "1", "cafe-1").Return([]datastore.Record{
		{BusinessID: "cafe-1", UserID: "1", Date: "2024-01-15", EmissionsKgCO2e: 100},
	}, nil)

	ctx, rec := newForecastContext(e, "cafe-1", `{}`)

	require.NoError(t, controller.GetForecast(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Not enough data for forecast", response.Message)
}

func TestGetForecastNoRecords(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockDS.On("GetRecordsForBusiness", "1", "ghost").Return([]datastore.Record{}, nil)

	ctx, rec := newForecastContext(e, "ghost", `{}`)

	require.NoError(t, controller.GetForecast(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetForecastInvalidScenario(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	ctx, rec := newForecastContext(e, "cafe-1", `{"waste_reduction": 150}`)

	require.NoError(t, controller.GetForecast(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "between 0 and 100")

	mockDS.AssertNotCalled(t, "GetRecordsForBusiness", mock.Anything, mock.Anything)
}

func TestGetForecastScenarioFiltersCategory(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	// Only two electricity dates survive the filter, still enough to fit.
	records := append(monthlyHistory()[:2],
		datastore.Record{
			BusinessID: "cafe-1", UserID: "1", Date: "2024-03-15",
			SourceCategory: "waste", EmissionsKgCO2e: 40,
		})
	mockDS.On("GetRecordsForBusiness", "1", "cafe-1").Return(records, nil)

	ctx, rec := newForecastContext(e, "cafe-1", `{"source_category": "electricity"}`)

	require.NoError(t, controller.GetForecast(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Forecast, 14)
}

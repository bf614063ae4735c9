// report_test.go: tests for the PDF report endpoint.
package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

func mockReportData(mockDS *MockDataStore, userID, businessID string) {
	mockDS.On("GetBusinessType", userID, businessID).Return("cafe", nil)
	mockDS.On("GetTotalEmissions", userID, businessID).Return(200.0, nil)
	mockDS.On("GetCategoryTotals", userID, businessID).Return([]datastore.CategoryTotal{
		{SourceCategory: "electricity", Total: 120},
		{SourceCategory: "waste", Total: 80},
	}, nil)
}

func TestGetReport(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	mockReportData(mockDS, "1", "cafe-1")

	ctx, rec := newParamContext(e, http.MethodGet, "/api/v2/report/cafe-1", "business_id", "cafe-1")

	require.NoError(t, controller.GetReport(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment;filename=report_cafe-1.pdf", rec.Header().Get("Content-Disposition"))
	assert.True(t, len(rec.Body.Bytes()) > 4, "PDF body missing")
	assert.Equal(t, "%PDF-", string(rec.Body.Bytes()[:5]))

	mockDS.AssertExpectations(t)
}

func TestGetReportNotFound(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	notFound := errors.Newf("no records for business ghost").
		Component("datastore").
		Category(errors.CategoryNotFound).
		Build()
	mockDS.On("GetBusinessType", "1", "ghost").Return("", notFound)

	ctx, rec := newParamContext(e, http.MethodGet, "/api/v2/report/ghost", "business_id", "ghost")

	require.NoError(t, controller.GetReport(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

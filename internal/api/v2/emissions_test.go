// emissions_test.go: tests for the ingestion endpoints.
package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

const manualEntryBody = `{
	"business_id": "cafe-1",
	"business_type": "cafe",
	"date": "2024-01-15",
	"source_category": "electricity",
	"activity": "Generator use",
	"amount": 100,
	"unit": "kWh",
	"emission_factor": 0.8975,
	"scope": "Scope 2"
}`

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateEmission(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	var saved datastore.Record
	mockDS.On("SaveRecord", mock.AnythingOfType("*datastore.Record")).
		Run(func(args mock.Arguments) {
			saved = *args.Get(0).(*datastore.Record)
		}).
		Return(nil)

	ctx, rec := newJSONContext(e, http.MethodPost, "/api/v2/emissions", manualEntryBody)

	require.NoError(t, controller.CreateEmission(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response ManualEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Manual entry added successfully", response.Message)
	assert.InDelta(t, 89.75, response.EmissionsKgCO2e, 1e-9)

	// The stored record carries the derived value and the static identity.
	assert.Equal(t, "cafe-1", saved.BusinessID)
	assert.InDelta(t, 89.75, saved.EmissionsKgCO2e, 1e-9)
	assert.Equal(t, "1", saved.UserID)

	mockDS.AssertExpectations(t)
}

func TestCreateEmissionMalformedJSON(t *testing.T) {
	e, _, controller := setupTestEnvironment(t)

	ctx, rec := newJSONContext(e, http.MethodPost, "/api/v2/emissions", `{"amount": "lots"}`)

	require.NoError(t, controller.CreateEmission(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEmissionMissingFields(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	ctx, rec := newJSONContext(e, http.MethodPost, "/api/v2/emissions",
		`{"amount": 10, "emission_factor": 0.5}`)

	require.NoError(t, controller.CreateEmission(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "missing required fields")
	assert.NotEmpty(t, response.CorrelationID)

	mockDS.AssertNotCalled(t, "SaveRecord", mock.Anything)
}

func TestCreateEmissionDatabaseError(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	dbErr := errors.Newf("disk full").
		Component("datastore").
		Category(errors.CategoryDatabase).
		Build()
	mockDS.On("SaveRecord", mock.AnythingOfType("*datastore.Record")).Return(dbErr)

	ctx, rec := newJSONContext(e, http.MethodPost, "/api/v2/emissions", manualEntryBody)

	require.NoError(t, controller.CreateEmission(ctx))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

const uploadCSVBody = `business_id,business_type,date,source_category,activity,amount,unit,emission_factor,scope
cafe-1,cafe,2024-01-15,electricity,Generator use,100,kWh,0.5,Scope 2
cafe-1,cafe,2024-02-15,waste,Organic waste,40,kg,0.25,Scope 3
garage-1,garage,2024-01-20,transport,Deliveries,80,km,0.6,Scope 1
`

func newUploadContext(t *testing.T, e *echo.Echo, csvBody string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "emissions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v2/emissions/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadCSV(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	var replaced []datastore.Record
	mockDS.On("ReplaceAllRecords", mock.AnythingOfType("[]datastore.Record"), 100).
		Run(func(args mock.Arguments) {
			replaced = args.Get(0).([]datastore.Record)
		}).
		Return(nil)

	ctx, rec := newUploadContext(t, e, uploadCSVBody)

	require.NoError(t, controller.UploadCSV(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Data uploaded and replaced successfully", response.Message)
	assert.Equal(t, 3, response.Rows)

	require.Len(t, replaced, 3)
	for i := range replaced {
		assert.Equal(t, "1", replaced[i].UserID)
	}
	assert.InDelta(t, 50.0, replaced[0].EmissionsKgCO2e, 1e-9)

	mockDS.AssertExpectations(t)
}

func TestUploadCSVMissingColumns(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	ctx, rec := newUploadContext(t, e, "business_id,amount\ncafe-1,10\n")

	require.NoError(t, controller.UploadCSV(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "missing required columns")

	mockDS.AssertNotCalled(t, "ReplaceAllRecords", mock.Anything, mock.Anything)
}

func TestUploadCSVMalformedRow(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	bad := strings.Replace(uploadCSVBody, "100,kWh", "lots,kWh", 1)
	ctx, rec := newUploadContext(t, e, bad)

	require.NoError(t, controller.UploadCSV(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockDS.AssertNotCalled(t, "ReplaceAllRecords", mock.Anything, mock.Anything)
}

func TestUploadCSVMissingFile(t *testing.T) {
	e, _, controller := setupTestEnvironment(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/emissions/upload", http.NoBody)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, controller.UploadCSV(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadCSVReplaceError(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	dbErr := errors.Newf("replace failed").
		Component("datastore").
		Category(errors.CategoryDatabase).
		Build()
	mockDS.On("ReplaceAllRecords", mock.AnythingOfType("[]datastore.Record"), 100).Return(dbErr)

	ctx, rec := newUploadContext(t, e, uploadCSVBody)

	require.NoError(t, controller.UploadCSV(ctx))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDistinctBusinessIDs(t *testing.T) {
	t.Parallel()

	records := []datastore.Record{
		{BusinessID: "garage-1"},
		{BusinessID: "cafe-1"},
		{BusinessID: "garage-1"},
		{BusinessID: "cafe-1"},
	}
	assert.Equal(t, []string{"cafe-1", "garage-1"}, distinctBusinessIDs(records))
	assert.Empty(t, distinctBusinessIDs(nil))
}

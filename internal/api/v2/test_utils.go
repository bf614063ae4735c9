// test_utils.go: shared test utilities for API v2 tests.
package api

import (
	"io"
	"log"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/datastore"
)

// MockDataStore implements datastore.Interface for testing.
// It is shared across all API test files.
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) SaveRecord(record *datastore.Record) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockDataStore) ReplaceAllRecords(records []datastore.Record, batchSize int) error {
	args := m.Called(records, batchSize)
	return args.Error(0)
}

func (m *MockDataStore) GetRecordsForBusiness(userID, businessID string) ([]datastore.Record, error) {
	args := m.Called(userID, businessID)
	return args.Get(0).([]datastore.Record), args.Error(1)
}

func (m *MockDataStore) CountRecords() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) GetBusinessType(userID, businessID string) (string, error) {
	args := m.Called(userID, businessID)
	return args.String(0), args.Error(1)
}

func (m *MockDataStore) GetTotalEmissions(userID, businessID string) (float64, error) {
	args := m.Called(userID, businessID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDataStore) GetCategoryTotals(userID, businessID string) ([]datastore.CategoryTotal, error) {
	args := m.Called(userID, businessID)
	return args.Get(0).([]datastore.CategoryTotal), args.Error(1)
}

func (m *MockDataStore) GetScopeTotals(userID, businessID string) ([]datastore.ScopeTotal, error) {
	args := m.Called(userID, businessID)
	return args.Get(0).([]datastore.ScopeTotal), args.Error(1)
}

func (m *MockDataStore) GetActivityTotals(userID, businessID string) ([]datastore.ActivityTotal, error) {
	args := m.Called(userID, businessID)
	return args.Get(0).([]datastore.ActivityTotal), args.Error(1)
}

func (m *MockDataStore) GetSectorAverage(businessType string) (datastore.SectorAverage, error) {
	args := m.Called(businessType)
	return args.Get(0).(datastore.SectorAverage), args.Error(1)
}

func (m *MockDataStore) SaveShareLink(link *datastore.ShareLink) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockDataStore) GetShareLink(token string) (datastore.ShareLink, error) {
	args := m.Called(token)
	return args.Get(0).(datastore.ShareLink), args.Error(1)
}

func (m *MockDataStore) DeleteShareLink(token, userID string) error {
	args := m.Called(token, userID)
	return args.Error(0)
}

// testSettings returns settings the way the serve command would build them
// for a small local instance. Caching is disabled so handler tests never
// leave a cache janitor goroutine behind.
func testSettings() *conf.Settings {
	settings := &conf.Settings{}
	settings.WebServer.Debug = false
	settings.Ingest.MaxUploadSizeMB = 25
	settings.Ingest.BatchSize = 100
	settings.Identity.Provider = "static"
	settings.Identity.UserID = "1"
	settings.Identity.Username = "dev"
	settings.Dashboard.CacheTTLSeconds = 0
	return settings
}

// setupTestEnvironment builds a Controller over a mock datastore without
// registering routes, so tests drive handlers directly.
func setupTestEnvironment(t *testing.T) (*echo.Echo, *MockDataStore, *Controller) {
	t.Helper()

	e := echo.New()
	mockDS := new(MockDataStore)

	controller, err := NewWithOptions(e, mockDS, testSettings(),
		log.New(io.Discard, "", 0), nil, false)
	require.NoError(t, err)
	t.Cleanup(controller.Shutdown)

	return e, mockDS, controller
}

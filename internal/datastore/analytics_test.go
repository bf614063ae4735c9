// analytics_test.go: Tests for datastore aggregation queries
package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/greenpulse/greenpulse-go/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DataStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&Record{}, &ShareLink{})
	require.NoError(t, err)

	return &DataStore{DB: db}
}

// seedAnalyticsData loads a small cross-tenant fixture:
//
//	cafe-1 (user 1, cafe):   electricity 100+25, transport 50, waste 25 = 200 total
//	cafe-2 (user 1, cafe):   two activities tied at 30 = 60 total
//	cafe-3 (user 2, cafe):   electricity 100 = 100 total
//	garage-1 (user 2, garage): transport 500, must not leak into cafe averages
func seedAnalyticsData(t *testing.T, ds *DataStore) {
	t.Helper()

	records := []Record{
		{BusinessID: "cafe-1", BusinessType: "cafe", Date: "2024-01-15",
			SourceCategory: "electricity", Activity: "grid power", EmissionsKgCO2e: 100, Scope: "scope2", UserID: "1"},
		{BusinessID: "cafe-1", BusinessType: "cafe", Date: "2024-02-15",
			SourceCategory: "transport", Activity: "deliveries", EmissionsKgCO2e: 50, Scope: "scope1", UserID: "1"},
		{BusinessID: "cafe-1", BusinessType: "cafe", Date: "2024-03-15",
			SourceCategory: "electricity", Activity: "grid power", EmissionsKgCO2e: 25, Scope: "scope2", UserID: "1"},
		{BusinessID: "cafe-1", BusinessType: "cafe", Date: "2024-03-20",
			SourceCategory: "waste", Activity: "landfill", EmissionsKgCO2e: 25, Scope: "scope3", UserID: "1"},

		{BusinessID: "cafe-2", BusinessType: "cafe", Date: "2024-01-10",
			SourceCategory: "waste", Activity: "compost", EmissionsKgCO2e: 30, Scope: "scope3", UserID: "1"},
		{BusinessID: "cafe-2", BusinessType: "cafe", Date: "2024-01-20",
			SourceCategory: "commute", Activity: "staff commute", EmissionsKgCO2e: 30, Scope: "scope3", UserID: "1"},

		{BusinessID: "cafe-3", BusinessType: "cafe", Date: "2024-02-01",
			SourceCategory: "electricity", Activity: "grid power", EmissionsKgCO2e: 100, Scope: "scope2", UserID: "2"},

		{BusinessID: "garage-1", BusinessType: "garage", Date: "2024-02-01",
			SourceCategory: "transport", Activity: "tow truck", EmissionsKgCO2e: 500, Scope: "scope1", UserID: "2"},
	}

	for i := range records {
		require.NoError(t, ds.DB.Create(&records[i]).Error)
	}
}

func TestGetTotalEmissions(t *testing.T) {
	ds := setupTestDB(t)
	seedAnalyticsData(t, ds)

	total, err := ds.GetTotalEmissions("1", "cafe-1")
	require.NoError(t, err)
	assert.InDelta(t, 200.0, total, 1e-9)

	// Unknown business sums to zero rather than erroring
	total, err = ds.GetTotalEmissions("1", "no-such-biz")
	require.NoError(t, err)
	assert.Zero(t, total)

	// Another tenant's records are invisible
	total, err = ds.GetTotalEmissions("1", "cafe-3")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGetCategoryTotals(t *testing.T) {
	ds := setupTestDB(t)
	seedAnalyticsData(t, ds)

	totals, err := ds.GetCategoryTotals("1", "cafe-1")
	require.NoError(t, err)
	require.Len(t, totals, 3)

	byCategory := make(map[string]float64, len(totals))
	for _, ct := range totals {
		byCategory[ct.SourceCategory] = ct.Total
	}
	assert.InDelta(t, 125.0, byCategory["electricity"], 1e-9)
	assert.InDelta(t, 50.0, byCategory["transport"], 1e-9)
	assert.InDelta(t, 25.0, byCategory["waste"], 1e-9)
}

func TestGetScopeTotals(t *testing.T) {
	ds := setupTestDB(t)
	seedAnalyticsData(t, ds)

	totals, err := ds.GetScopeTotals("1", "cafe-1")
	require.NoError(t, err)
	require.Len(t, totals, 3)

	byScope := make(map[string]float64, len(totals))
	for _, st := range totals {
		byScope[st.Scope] = st.Total
	}
	assert.InDelta(t, 125.0, byScope["scope2"], 1e-9)
	assert.InDelta(t, 50.0, byScope["scope1"], 1e-9)
	assert.InDelta(t, 25.0, byScope["scope3"], 1e-9)
}

func TestGetActivityTotalsOrdering(t *testing.T) {
	ds := setupTestDB(t)
	seedAnalyticsData(t, ds)

	totals, err := ds.GetActivityTotals("1", "cafe-1")
	require.NoError(t, err)
	require.Len(t, totals, 3)

	assert.Equal(t, "grid power", totals[0].Activity)
	assert.Equal(t, "electricity", totals[0].SourceCategory)
	assert.InDelta(t, 125.0, totals[0].Total, 1e-9)
	assert.Equal(t, "deliveries", totals[1].Activity)
	assert.Equal(t, "landfill", totals[2].Activity)
}

func TestGetActivityTotalsTieBreak(t *testing.T) {
	ds := setupTestDB(t)
	seedAnalyticsData(t, ds)

	// cafe-2 has two activities with identical totals, the earlier
	// inserted one must lead so the top activity is stable
	totals, err := ds.GetActivityTotals("1", "cafe-2")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "compost", totals[0].Activity)
	assert.Equal(t, "staff commute", totals[1].Activity)
}

func TestGetSectorAverageSpansTenants(t *testing.T) {
	ds := setupTestDB(t)
	seedAnalyticsData(t, ds)

	// cafe sector: cafe-1 (200) + cafe-2 (60) + cafe-3 (100, other tenant) = mean 120
	avg, err := ds.GetSectorAverage("cafe")
	require.NoError(t, err)
	assert.Equal(t, "cafe", avg.BusinessType)
	assert.Equal(t, int64(3), avg.BusinessCount)
	assert.InDelta(t, 120.0, avg.Average, 1e-9)
}

func TestGetSectorAverageNoRecords(t *testing.T) {
	ds := setupTestDB(t)

	avg, err := ds.GetSectorAverage("airline")
	require.NoError(t, err)
	assert.Zero(t, avg.Average)
	assert.Zero(t, avg.BusinessCount)
}

func TestGetBusinessTypeFirstRecordWins(t *testing.T) {
	ds := setupTestDB(t)

	// Mixed business types under one business id: the earliest row decides
	require.NoError(t, ds.DB.Create(&Record{
		BusinessID: "mixed", BusinessType: "cafe", Date: "2024-01-01",
		SourceCategory: "waste", Activity: "landfill", EmissionsKgCO2e: 1, UserID: "1",
	}).Error)
	require.NoError(t, ds.DB.Create(&Record{
		BusinessID: "mixed", BusinessType: "garage", Date: "2024-01-02",
		SourceCategory: "waste", Activity: "landfill", EmissionsKgCO2e: 1, UserID: "1",
	}).Error)

	businessType, err := ds.GetBusinessType("1", "mixed")
	require.NoError(t, err)
	assert.Equal(t, "cafe", businessType)
}

func TestGetBusinessTypeNotFound(t *testing.T) {
	ds := setupTestDB(t)

	_, err := ds.GetBusinessType("1", "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

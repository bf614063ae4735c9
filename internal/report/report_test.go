package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

func newTestStore(t *testing.T) *datastore.DataStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&datastore.Record{}, &datastore.ShareLink{}))

	return &datastore.DataStore{DB: db}
}

func seedReportData(t *testing.T, ds *datastore.DataStore) {
	t.Helper()

	records := []datastore.Record{
		{BusinessID: "cafe-1", BusinessType: "cafe", Date: "2024-01-15",
			SourceCategory: "electricity", Activity: "grid power", EmissionsKgCO2e: 120, Scope: "scope2", UserID: "1"},
		{BusinessID: "cafe-1", BusinessType: "cafe", Date: "2024-02-15",
			SourceCategory: "transport", Activity: "deliveries", EmissionsKgCO2e: 60, Scope: "scope1", UserID: "1"},
		{BusinessID: "cafe-1", BusinessType: "cafe", Date: "2024-03-15",
			SourceCategory: "waste", Activity: "landfill", EmissionsKgCO2e: 20, Scope: "scope3", UserID: "1"},
	}
	for i := range records {
		require.NoError(t, ds.DB.Create(&records[i]).Error)
	}
}

func TestRender(t *testing.T) {
	ds := newTestStore(t)
	seedReportData(t, ds)
	r := NewRenderer(ds, nil)

	pdfBytes, err := r.Render("1", "cafe-1")
	require.NoError(t, err)

	require.NotEmpty(t, pdfBytes)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF-")), "output does not start with a PDF header")
	// A document with an embedded chart is comfortably past a few KB.
	assert.Greater(t, len(pdfBytes), 4096)
}

func TestRenderNotFound(t *testing.T) {
	ds := newTestStore(t)
	seedReportData(t, ds)
	r := NewRenderer(ds, nil)

	_, err := r.Render("1", "no-such-business")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// Another tenant's records never feed this caller's report.
	_, err = r.Render("2", "cafe-1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRenderWithoutPositiveCategories(t *testing.T) {
	ds := newTestStore(t)
	record := datastore.Record{BusinessID: "b1", BusinessType: "cafe", Date: "2024-01-01",
		SourceCategory: "waste", Activity: "offset credit", EmissionsKgCO2e: -50, Scope: "scope3", UserID: "1"}
	require.NoError(t, ds.DB.Create(&record).Error)
	r := NewRenderer(ds, nil)

	// Negative totals mean no pie slices; the document still renders.
	pdfBytes, err := r.Render("1", "b1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF-")))
}

func TestRenderCategoryPie(t *testing.T) {
	t.Parallel()

	categories := []datastore.CategoryTotal{
		{SourceCategory: "electricity", Total: 120},
		{SourceCategory: "transport", Total: 60},
		{SourceCategory: "offsets", Total: -30},
	}

	png, err := renderCategoryPie(categories)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output is not a PNG")
}

func TestRenderCategoryPieNoSlices(t *testing.T) {
	t.Parallel()

	png, err := renderCategoryPie([]datastore.CategoryTotal{{SourceCategory: "offsets", Total: -30}})
	require.NoError(t, err)
	assert.Nil(t, png)

	png, err = renderCategoryPie(nil)
	require.NoError(t, err)
	assert.Nil(t, png)
}

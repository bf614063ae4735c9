package emissions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-go/internal/errors"
)

const validCSV = `business_id,business_type,date,source_category,activity,amount,unit,emission_factor,scope
lagos-bakery,bakery,2025-01-01,electricity,grid power,120,kWh,0.359,scope2
lagos-bakery,bakery,2025-01-01,transport,delivery van,80,litres,2.68,scope1
`

func TestParseCSV(t *testing.T) {
	t.Parallel()

	entries, err := ParseCSV(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "lagos-bakery", entries[0].BusinessID)
	assert.Equal(t, "electricity", entries[0].SourceCategory)
	assert.InDelta(t, 120.0, entries[0].Amount, 1e-9)
	assert.InDelta(t, 0.359, entries[0].EmissionFactor, 1e-9)
	assert.Equal(t, "delivery van", entries[1].Activity)
}

func TestParseCSVMissingColumns(t *testing.T) {
	t.Parallel()

	csv := `business_id,business_type,date,source_category,activity,amount,unit
b1,cafe,2025-01-01,waste,landfill,10,kg
`
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "emission_factor")
	assert.Contains(t, err.Error(), "scope")
}

func TestParseCSVColumnOrderIndependent(t *testing.T) {
	t.Parallel()

	csv := `scope,emission_factor,unit,amount,activity,source_category,date,business_type,business_id
scope2,0.359,kWh,120,grid power,electricity,2025-01-01,bakery,lagos-bakery
`
	entries, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lagos-bakery", entries[0].BusinessID)
	assert.InDelta(t, 120.0, entries[0].Amount, 1e-9)
}

func TestParseCSVExtraColumnsIgnored(t *testing.T) {
	t.Parallel()

	csv := `business_id,business_type,date,source_category,activity,amount,unit,emission_factor,scope,notes
b1,cafe,2025-01-01,waste,landfill,10,kg,0.7,scope3,manual audit
`
	entries, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "landfill", entries[0].Activity)
}

func TestParseCSVHeaderBOM(t *testing.T) {
	t.Parallel()

	entries, err := ParseCSV(strings.NewReader("\uFEFF" + validCSV))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "lagos-bakery", entries[0].BusinessID)
}

func TestParseCSVEmptyFile(t *testing.T) {
	t.Parallel()

	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestParseCSVBadNumeric(t *testing.T) {
	t.Parallel()

	csv := `business_id,business_type,date,source_category,activity,amount,unit,emission_factor,scope
b1,cafe,2025-01-01,waste,landfill,ten,kg,0.7,scope3
`
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "ten")
}

func TestParseCSVShortRow(t *testing.T) {
	t.Parallel()

	csv := `business_id,business_type,date,source_category,activity,amount,unit,emission_factor,scope
b1,cafe,2025-01-01
`
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestParseCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	csv := "business_id,business_type,date,source_category,activity,amount,unit,emission_factor,scope\n"
	entries, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  time.Time
	}{
		{value: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{value: "2024/03/15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{value: "2024-03", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{value: "2024-03-15T08:30:00", want: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)},
		{value: "2024-03-15T08:30:00Z", want: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)},
		{value: "2024-03-15 08:30:00", want: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDate(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	t.Parallel()

	_, err := ParseDate("March 15th")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "March 15th")
}

func TestBuildSeries(t *testing.T) {
	t.Parallel()

	records := []datastore.Record{
		{Date: "2024-02-01", EmissionsKgCO2e: 30},
		{Date: "2024-01-01", EmissionsKgCO2e: 10},
		{Date: "2024-01-01", EmissionsKgCO2e: 15},
		{Date: "2024-03-01", EmissionsKgCO2e: 5},
	}

	series, err := BuildSeries(records)
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.True(t, series[0].Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.InDelta(t, 25.0, series[0].Value, 1e-9)
	assert.InDelta(t, 30.0, series[1].Value, 1e-9)
	assert.InDelta(t, 5.0, series[2].Value, 1e-9)
}

func TestBuildSeriesBadDate(t *testing.T) {
	t.Parallel()

	records := []datastore.Record{
		{Date: "2024-01-01", EmissionsKgCO2e: 10},
		{Date: "not-a-date", EmissionsKgCO2e: 20},
	}

	_, err := BuildSeries(records)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "not-a-date")
}

func TestFuturePeriods(t *testing.T) {
	t.Parallel()

	// A mid-month observation gets its own month end first.
	periods := FuturePeriods(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 12)
	require.Len(t, periods, 12)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), periods[0])
	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), periods[11])

	last := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	for i, p := range periods {
		assert.True(t, p.After(last), "period %d not after last observation", i)
		last = p
	}
}

func TestFuturePeriodsFromMonthEnd(t *testing.T) {
	t.Parallel()

	periods := FuturePeriods(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 3)
	require.Len(t, periods, 3)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), periods[0])
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), periods[1])
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), periods[2])
}

package forecast

import (
	"sort"
	"time"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

// dateLayouts are the formats accepted for record dates, tried in
// order. Records store dates as opaque strings and every aggregation
// groups by the exact string; only the forecast needs to place them on
// a time axis.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006-01",
}

// ParseDate parses a record date using the accepted layouts.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("unparseable record date: %q", value).
		Component("forecast").
		Category(errors.CategoryValidation).
		Context("date", value).
		Build()
}

// BuildSeries groups records by their exact date string, sums the
// emissions per group, and returns the points in chronological order.
// Distinct strings naming the same instant stay separate observations.
func BuildSeries(records []datastore.Record) ([]Point, error) {
	sums := make(map[string]float64, len(records))
	for i := range records {
		sums[records[i].Date] += records[i].EmissionsKgCO2e
	}

	dates := make([]string, 0, len(sums))
	for date := range sums {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	series := make([]Point, 0, len(dates))
	for _, date := range dates {
		t, err := ParseDate(date)
		if err != nil {
			return nil, err
		}
		series = append(series, Point{Time: t, Value: sums[date]})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	return series, nil
}

// FuturePeriods returns n month-end timestamps strictly after last.
// A mid-month last observation gets its own month end as the first
// period; a month-end observation starts at the following month.
func FuturePeriods(last time.Time, n int) []time.Time {
	periods := make([]time.Time, 0, n)
	cursor := monthEnd(last)
	if !cursor.After(last) {
		cursor = monthEnd(cursor.AddDate(0, 0, 1))
	}
	for len(periods) < n {
		periods = append(periods, cursor)
		cursor = monthEnd(cursor.AddDate(0, 0, 1))
	}
	return periods
}

// monthEnd returns midnight on the last day of t's month.
func monthEnd(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// Package metrics provides constants used across metric definitions.
package metrics

import "time"

// Operation type constants used in switch statements across metrics.
// These constants define the categories of operations that can be recorded.
const (
	// OpRecordCreate represents single emission record creation operations.
	OpRecordCreate = "record_create"
	// OpRecordGet represents emission record retrieval operations.
	OpRecordGet = "record_get"
	// OpRecordReplace represents bulk record replacement operations.
	OpRecordReplace = "record_replace"
	// OpDbQuery represents database query operations.
	OpDbQuery = "db_query"
	// OpDbInsert represents database insert operations.
	OpDbInsert = "db_insert"
	// OpDbUpdate represents database update operations.
	OpDbUpdate = "db_update"
	// OpDbDelete represents database delete operations.
	OpDbDelete = "db_delete"
	// OpTransaction represents database transaction operations.
	OpTransaction = "transaction"
	// OpAnalytics represents analytics query operations.
	OpAnalytics = "analytics"
	// OpCacheGet represents cache get operations.
	OpCacheGet = "cache_get"
	// OpCacheSet represents cache set operations.
	OpCacheSet = "cache_set"
	// OpCacheDelete represents cache delete operations.
	OpCacheDelete = "cache_delete"
	// OpCsvParse represents CSV parsing operations.
	OpCsvParse = "csv_parse"
	// OpForecastFit represents forecast model fitting operations.
	OpForecastFit = "forecast_fit"
	// OpForecastPredict represents forecast prediction operations.
	OpForecastPredict = "forecast_predict"
	// OpReportRender represents PDF report rendering operations.
	OpReportRender = "report_render"
	// OpChartRender represents chart rendering operations.
	OpChartRender = "chart_render"
)

// Label value constants used for metric labels.
const (
	// LabelSuccess is the status label for successful operations.
	LabelSuccess = "success"
	// LabelError is the status label for failed operations.
	LabelError = "error"
	// LabelQuery is the operation label for query operations.
	LabelQuery = "query"
	// LabelCommit is the operation label for commit operations.
	LabelCommit = "commit"
	// LabelRollback is the operation label for rollback operations.
	LabelRollback = "rollback"
	// LabelDashboard is the cache type label for the dashboard aggregate cache.
	LabelDashboard = "dashboard"
)

// Histogram bucket configuration constants.
// These define the base values and factors for exponential bucket generation.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketStart10ms is the starting bucket for 10ms histograms (10ms to ~40s range).
	BucketStart10ms = 0.01
	// BucketStart100ms is the starting bucket for 100ms histograms (100ms to ~100s range).
	BucketStart100ms = 0.1
	// BucketStart100B is the starting bucket for 100 byte histograms (100B to ~100MB range).
	BucketStart100B = 100.0
	// BucketStart1KB is the starting bucket for 1KB histograms (1KB to ~1GB range).
	BucketStart1KB = 1024.0
	// BucketStart1Row is the starting bucket for row count histograms.
	BucketStart1Row = 1.0

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketFactor4 is the exponential growth factor of 4 for wide row count ranges.
	BucketFactor4 = 4
	// BucketFactor10 is the exponential growth factor of 10 for larger ranges.
	BucketFactor10 = 10

	// BucketCount6 defines 6 exponential buckets.
	BucketCount6 = 6
	// BucketCount8 defines 8 exponential buckets.
	BucketCount8 = 8
	// BucketCount10 defines 10 exponential buckets.
	BucketCount10 = 10
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
	// BucketCount15 defines 15 exponential buckets.
	BucketCount15 = 15
)

// Time and conversion constants.
const (
	// ShutdownTimeout is the timeout for graceful shutdown operations.
	ShutdownTimeout = 5 * time.Second
	// MillisecondsPerSecond is the conversion factor from seconds to milliseconds.
	MillisecondsPerSecond = 1000.0
	// PercentageFactor is the multiplier to convert ratio to percentage.
	PercentageFactor = 100.0
)

// String parsing constants.
const (
	// SplitPartsCount is the expected number of parts when splitting operation strings.
	SplitPartsCount = 2
)

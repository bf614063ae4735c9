package metrics

import (
	"testing"
)

// TestRecordOperation verifies RecordOperation functionality of TestRecorder.
func TestRecordOperation(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	recorder.RecordOperation("forecast_fit", "success")
	recorder.RecordOperation("forecast_fit", "success")
	recorder.RecordOperation("forecast_fit", "error")
	recorder.RecordOperation("report_render", "success")

	if count := recorder.GetOperationCount("forecast_fit", "success"); count != 2 {
		t.Errorf("expected 2 successful fits, got %d", count)
	}
	if count := recorder.GetOperationCount("forecast_fit", "error"); count != 1 {
		t.Errorf("expected 1 failed fit, got %d", count)
	}
	if count := recorder.GetOperationCount("report_render", "success"); count != 1 {
		t.Errorf("expected 1 successful render, got %d", count)
	}
	if count := recorder.GetOperationCount("report_render", "error"); count != 0 {
		t.Errorf("expected 0 failed renders, got %d", count)
	}
}

// TestRecordDuration verifies RecordDuration functionality of TestRecorder.
func TestRecordDuration(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	recorder.RecordDuration("record_replace", 0.123)
	recorder.RecordDuration("record_replace", 0.456)
	recorder.RecordDuration("csv_parse", 0.789)

	replaceDurations := recorder.GetDurations("record_replace")
	if len(replaceDurations) != 2 {
		t.Fatalf("expected 2 replace durations, got %d", len(replaceDurations))
	}
	if replaceDurations[0] != 0.123 || replaceDurations[1] != 0.456 {
		t.Errorf("unexpected replace durations: %v", replaceDurations)
	}

	parseDurations := recorder.GetDurations("csv_parse")
	if len(parseDurations) != 1 {
		t.Fatalf("expected 1 parse duration, got %d", len(parseDurations))
	}
	if parseDurations[0] != 0.789 {
		t.Errorf("expected parse duration 0.789, got %f", parseDurations[0])
	}

	// Test non-existent operation
	if durations := recorder.GetDurations("non_existent"); durations != nil {
		t.Errorf("expected nil for non-existent operation, got %v", durations)
	}
}

// TestRecordError verifies RecordError functionality of TestRecorder.
func TestRecordError(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	recorder.RecordError("forecast_fit", "insufficient_data")
	recorder.RecordError("forecast_fit", "insufficient_data")
	recorder.RecordError("forecast_fit", "model")
	recorder.RecordError("db_query", "connection")

	if count := recorder.GetErrorCount("forecast_fit", "insufficient_data"); count != 2 {
		t.Errorf("expected 2 insufficient data errors, got %d", count)
	}
	if count := recorder.GetErrorCount("forecast_fit", "model"); count != 1 {
		t.Errorf("expected 1 model error, got %d", count)
	}
	if count := recorder.GetErrorCount("db_query", "connection"); count != 1 {
		t.Errorf("expected 1 connection error, got %d", count)
	}
	if count := recorder.GetErrorCount("db_query", "timeout"); count != 0 {
		t.Errorf("expected 0 timeout errors, got %d", count)
	}
}

// TestRecorderThreadSafety verifies thread safety of TestRecorder.
func TestRecorderThreadSafety(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	done := make(chan bool)
	numGoroutines := 10
	opsPerGoroutine := 100

	for range numGoroutines {
		go func() {
			for range opsPerGoroutine {
				recorder.RecordOperation("concurrent", "success")
				recorder.RecordDuration("concurrent", 0.001)
				recorder.RecordError("concurrent", "test")
			}
			done <- true
		}()
	}

	for range numGoroutines {
		<-done
	}

	expectedCount := numGoroutines * opsPerGoroutine
	if count := recorder.GetOperationCount("concurrent", "success"); count != expectedCount {
		t.Errorf("expected %d operations after concurrent access, got %d", expectedCount, count)
	}
	if durations := recorder.GetDurations("concurrent"); len(durations) != expectedCount {
		t.Errorf("expected %d durations after concurrent access, got %d", expectedCount, len(durations))
	}
	if count := recorder.GetErrorCount("concurrent", "test"); count != expectedCount {
		t.Errorf("expected %d errors after concurrent access, got %d", expectedCount, count)
	}
}

// TestNoOpRecorder verifies that the NoOpRecorder correctly implements the Recorder interface.
func TestNoOpRecorder(t *testing.T) {
	t.Parallel()

	recorder := NewNoOpRecorder()

	// These operations should not panic and should do nothing
	recorder.RecordOperation("test", "success")
	recorder.RecordDuration("test", 0.123)
	recorder.RecordError("test", "error")
}

// TestRecorderWithRealMetrics verifies that real metrics types implement the Recorder interface.
func TestRecorderWithRealMetrics(t *testing.T) {
	t.Parallel()

	t.Run("DatastoreMetrics", func(t *testing.T) {
		var _ Recorder = (*DatastoreMetrics)(nil)
	})

	t.Run("ForecastMetrics", func(t *testing.T) {
		var _ Recorder = (*ForecastMetrics)(nil)
	})

	t.Run("ReportMetrics", func(t *testing.T) {
		var _ Recorder = (*ReportMetrics)(nil)
	})
}

// TestParseTableFromOperation verifies splitting of "operation:table" strings.
func TestParseTableFromOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantOp    string
		wantTable string
	}{
		{"with table", "db_query:records", "db_query", "records"},
		{"share links table", "db_delete:share_links", "db_delete", "share_links"},
		{"no table", "transaction", "transaction", "unknown"},
		{"empty", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			op, table := parseTableFromOperation(tt.input)
			if op != tt.wantOp {
				t.Errorf("parseTableFromOperation(%q) op = %q, want %q", tt.input, op, tt.wantOp)
			}
			if table != tt.wantTable {
				t.Errorf("parseTableFromOperation(%q) table = %q, want %q", tt.input, table, tt.wantTable)
			}
		})
	}
}

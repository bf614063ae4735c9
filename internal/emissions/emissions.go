// Package emissions holds the domain core: emission entries, the
// derived kgCO2e computation, CSV ingestion, reduction scenarios, and
// the recommendation lookup shared by insights and reports.
package emissions

import (
	"log/slog"
	"sync"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/logging"
)

// Source categories with dedicated handling. Records may carry any
// category string; these are the ones scenario knobs and the
// recommendation table know about.
const (
	CategoryElectricity = "electricity"
	CategoryTransport   = "transport"
	CategoryWaste       = "waste"
	CategoryCommute     = "commute"

	// CategoryAll is the scenario filter wildcard, not a record category.
	CategoryAll = "all"
)

var (
	serviceLogger *slog.Logger
	loggerOnce    sync.Once
)

func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		serviceLogger = logging.ForService("emissions")
		if serviceLogger == nil {
			serviceLogger = slog.Default().With("service", "emissions")
		}
	})
	return serviceLogger
}

// Entry is a single emission measurement as submitted by a client,
// before the derived value and tenant stamp are applied.
type Entry struct {
	BusinessID     string  `json:"business_id"`
	BusinessType   string  `json:"business_type"`
	Date           string  `json:"date"`
	SourceCategory string  `json:"source_category"`
	Activity       string  `json:"activity"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
	EmissionFactor float64 `json:"emission_factor"`
	Scope          string  `json:"scope"`
}

// Compute returns the derived emissions for an amount and factor.
// Zero and negative inputs pass through unchecked; corrections are
// legitimately entered as negative amounts.
func Compute(amount, emissionFactor float64) float64 {
	return amount * emissionFactor
}

// Validate checks that the required text fields are present. Numeric
// fields are deliberately unconstrained and dates are stored as opaque
// strings, so neither gets range or format checks here.
func (e *Entry) Validate() error {
	missing := missingEntryFields(e)
	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	return nil
}

// ToRecord converts the entry into a datastore record owned by userID,
// computing the derived kgCO2e value.
func (e *Entry) ToRecord(userID string) datastore.Record {
	return datastore.Record{
		BusinessID:      e.BusinessID,
		BusinessType:    e.BusinessType,
		Date:            e.Date,
		SourceCategory:  e.SourceCategory,
		Activity:        e.Activity,
		Amount:          e.Amount,
		Unit:            e.Unit,
		EmissionFactor:  e.EmissionFactor,
		EmissionsKgCO2e: Compute(e.Amount, e.EmissionFactor),
		Scope:           e.Scope,
		UserID:          userID,
	}
}

// BuildRecords converts parsed entries into datastore records, stamping
// every row with the same owner.
func BuildRecords(entries []Entry, userID string) []datastore.Record {
	records := make([]datastore.Record, 0, len(entries))
	for i := range entries {
		records = append(records, entries[i].ToRecord(userID))
	}
	return records
}

func missingEntryFields(e *Entry) []string {
	var missing []string
	fields := []struct {
		name  string
		value string
	}{
		{"business_id", e.BusinessID},
		{"business_type", e.BusinessType},
		{"date", e.Date},
		{"source_category", e.SourceCategory},
		{"activity", e.Activity},
		{"unit", e.Unit},
		{"scope", e.Scope},
	}
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

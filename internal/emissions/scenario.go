package emissions

import (
	"github.com/greenpulse/greenpulse-go/internal/datastore"
)

// Scenario describes percentage reductions applied to stored emissions
// before forecasting. Each knob targets one source category; categories
// without a knob pass through unchanged.
type Scenario struct {
	WasteReduction     float64 `json:"waste_reduction"`
	SolarPercentage    float64 `json:"solar_percentage"`
	TransportReduction float64 `json:"transport_reduction"`
	CommuteReduction   float64 `json:"commute_reduction"`

	// SourceCategory narrows the simulated dataset to one category after
	// the reductions are applied. Empty or "all" keeps every category.
	SourceCategory string `json:"source_category"`
}

// Validate checks that every knob sits inside 0-100. The category
// filter accepts any string; filtering to a category with no records
// simply yields an empty result.
func (s *Scenario) Validate() error {
	knobs := []struct {
		name  string
		value float64
	}{
		{"waste_reduction", s.WasteReduction},
		{"solar_percentage", s.SolarPercentage},
		{"transport_reduction", s.TransportReduction},
		{"commute_reduction", s.CommuteReduction},
	}
	for _, k := range knobs {
		if k.value < 0 || k.value > 100 {
			return knobRangeError(k.name, k.value)
		}
	}
	return nil
}

// Filter returns the effective category filter, mapping the empty
// string to the wildcard.
func (s *Scenario) Filter() string {
	if s.SourceCategory == "" {
		return CategoryAll
	}
	return s.SourceCategory
}

// Apply runs the scenario over a copy of the records: each row's
// derived emissions are scaled by the knob matching its category, then
// rows outside the category filter are dropped. The input slice is
// never mutated.
func (s *Scenario) Apply(records []datastore.Record) []datastore.Record {
	filter := s.Filter()
	out := make([]datastore.Record, 0, len(records))

	for _, r := range records {
		switch r.SourceCategory {
		case CategoryWaste:
			r.EmissionsKgCO2e *= 1 - s.WasteReduction/100
		case CategoryElectricity:
			r.EmissionsKgCO2e *= 1 - s.SolarPercentage/100
		case CategoryTransport:
			r.EmissionsKgCO2e *= 1 - s.TransportReduction/100
		case CategoryCommute:
			r.EmissionsKgCO2e *= 1 - s.CommuteReduction/100
		}

		if filter != CategoryAll && r.SourceCategory != filter {
			continue
		}
		out = append(out, r)
	}
	return out
}

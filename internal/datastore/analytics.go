// internal/datastore/analytics.go
package datastore

import (
	"time"

	"github.com/greenpulse/greenpulse-go/internal/errors"
	"gorm.io/gorm"
)

// CategoryTotal represents summed emissions for one source category
type CategoryTotal struct {
	SourceCategory string
	Total          float64
}

// ScopeTotal represents summed emissions for one reporting scope
type ScopeTotal struct {
	Scope string
	Total float64
}

// ActivityTotal represents summed emissions for one activity together
// with the source category the activity belongs to
type ActivityTotal struct {
	Activity       string
	SourceCategory string
	Total          float64
}

// SectorAverage represents the mean total emissions across all businesses
// of one business type, regardless of owning tenant
type SectorAverage struct {
	BusinessType  string
	Average       float64
	BusinessCount int64
}

// GetBusinessType returns the business type recorded on the caller's first
// record for the business. Mixed types under one business id are not
// validated, the earliest inserted row wins.
func (ds *DataStore) GetBusinessType(userID, businessID string) (string, error) {
	var record Record
	start := time.Now()
	err := ds.DB.Where("user_id = ? AND business_id = ?", userID, businessID).
		Order("id ASC").
		First(&record).Error
	recordAnalytics("business_type", start, err)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFoundError("business", businessID)
		}
		return "", dbError(err, "get_business_type", errors.PriorityMedium,
			"business_id", businessID,
			"table", "records")
	}
	return record.BusinessType, nil
}

// GetTotalEmissions returns the summed emissions for the caller's records
// of one business. A business with no records yields zero, callers that
// need existence checks should use GetBusinessType or CountRecords.
func (ds *DataStore) GetTotalEmissions(userID, businessID string) (float64, error) {
	var total struct {
		Total float64
	}
	start := time.Now()
	err := ds.DB.Model(&Record{}).
		Select("COALESCE(SUM(emissions_kg_co2e), 0) as total").
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Scan(&total).Error
	recordAnalytics("total_emissions", start, err)
	if err != nil {
		return 0, dbError(err, "get_total_emissions", errors.PriorityMedium,
			"business_id", businessID,
			"table", "records")
	}
	return total.Total, nil
}

// GetCategoryTotals returns emissions summed per source category for the
// caller's records of one business. Result order is unspecified.
func (ds *DataStore) GetCategoryTotals(userID, businessID string) ([]CategoryTotal, error) {
	var totals []CategoryTotal
	start := time.Now()
	err := ds.DB.Model(&Record{}).
		Select("source_category, SUM(emissions_kg_co2e) as total").
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Group("source_category").
		Scan(&totals).Error
	recordAnalytics("category_totals", start, err)
	if err != nil {
		return nil, dbError(err, "get_category_totals", errors.PriorityMedium,
			"business_id", businessID,
			"table", "records")
	}
	return totals, nil
}

// GetScopeTotals returns emissions summed per scope for the caller's
// records of one business.
func (ds *DataStore) GetScopeTotals(userID, businessID string) ([]ScopeTotal, error) {
	var totals []ScopeTotal
	start := time.Now()
	err := ds.DB.Model(&Record{}).
		Select("scope, SUM(emissions_kg_co2e) as total").
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Group("scope").
		Scan(&totals).Error
	recordAnalytics("scope_totals", start, err)
	if err != nil {
		return nil, dbError(err, "get_scope_totals", errors.PriorityMedium,
			"business_id", businessID,
			"table", "records")
	}
	return totals, nil
}

// GetActivityTotals returns emissions summed per activity for the caller's
// records of one business, largest total first. Ties resolve to the
// activity whose first record was inserted earliest so repeated calls
// return a stable leader.
func (ds *DataStore) GetActivityTotals(userID, businessID string) ([]ActivityTotal, error) {
	var totals []ActivityTotal
	start := time.Now()
	err := ds.DB.Model(&Record{}).
		Select("activity, MIN(source_category) as source_category, SUM(emissions_kg_co2e) as total, MIN(id) as first_id").
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Group("activity").
		Order("total DESC, first_id ASC").
		Scan(&totals).Error
	recordAnalytics("activity_totals", start, err)
	if err != nil {
		return nil, dbError(err, "get_activity_totals", errors.PriorityMedium,
			"business_id", businessID,
			"table", "records")
	}
	return totals, nil
}

// GetSectorAverage computes the mean of per-business emission totals over
// every record of the given business type. The comparison set spans all
// tenants on purpose, the green score compares a business against the
// whole sector rather than the caller's own portfolio.
func (ds *DataStore) GetSectorAverage(businessType string) (SectorAverage, error) {
	avg := SectorAverage{BusinessType: businessType}
	var row struct {
		Average       float64
		BusinessCount int64
	}
	start := time.Now()
	err := ds.DB.Raw(`
		SELECT COALESCE(AVG(business_total), 0) as average,
		       COUNT(*) as business_count
		FROM (
			SELECT business_id, SUM(emissions_kg_co2e) as business_total
			FROM records
			WHERE business_type = ?
			GROUP BY business_id
		) sector`, businessType).Scan(&row).Error
	recordAnalytics("sector_average", start, err)
	if err != nil {
		return avg, dbError(err, "get_sector_average", errors.PriorityMedium,
			"business_type", businessType,
			"table", "records")
	}
	avg.Average = row.Average
	avg.BusinessCount = row.BusinessCount
	return avg, nil
}

// recordAnalytics records count and duration metrics for an analytics query.
func recordAnalytics(analyticsType string, start time.Time, err error) {
	m := getMetrics()
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RecordAnalyticsOperation(analyticsType, status)
	m.RecordAnalyticsDuration(analyticsType, time.Since(start).Seconds())
}

// model.go this code defines the data model for the application
package datastore

import "time"

// Record represents a single emission activity data point.
// EmissionsKgCO2e is computed as Amount * EmissionFactor when the record
// is created and stored denormalized so aggregates never recompute it.
type Record struct {
	ID              uint   `gorm:"primaryKey"`
	BusinessID      string `gorm:"index:idx_records_business;index:idx_records_business_date"`
	BusinessType    string `gorm:"index:idx_records_business_type"`
	Date            string `gorm:"index:idx_records_date;index:idx_records_business_date"` // ISO date or datetime string as ingested
	SourceCategory  string `gorm:"index:idx_records_source_category"`
	Activity        string
	Amount          float64
	Unit            string
	EmissionFactor  float64
	EmissionsKgCO2e float64 `gorm:"column:emissions_kg_co2e"`
	Scope           string
	UserID          string `gorm:"index:idx_records_user"`
}

// ShareLink grants tokenized read access to a business report.
// GORM will automatically create table name as 'share_links'
type ShareLink struct {
	ID         uint      `gorm:"primaryKey"`
	Token      string    `gorm:"uniqueIndex;not null"` // UUID string handed out to recipients
	BusinessID string    `gorm:"index"`
	UserID     string    `gorm:"index"` // Owner who created the link
	CreatedAt  time.Time `gorm:"index"`
}

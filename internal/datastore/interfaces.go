// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"time"

	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/errors"
	"gorm.io/gorm"
)

// Interface abstracts the underlying database implementation and defines the
// operations the rest of the application performs against the record store.
type Interface interface {
	Open() error
	Close() error
	SaveRecord(record *Record) error
	ReplaceAllRecords(records []Record, batchSize int) error
	GetRecordsForBusiness(userID, businessID string) ([]Record, error)
	CountRecords() (int64, error)
	GetBusinessType(userID, businessID string) (string, error)
	GetTotalEmissions(userID, businessID string) (float64, error)
	GetCategoryTotals(userID, businessID string) ([]CategoryTotal, error)
	GetScopeTotals(userID, businessID string) ([]ScopeTotal, error)
	GetActivityTotals(userID, businessID string) ([]ActivityTotal, error)
	GetSectorAverage(businessType string) (SectorAverage, error)
	SaveShareLink(link *ShareLink) error
	GetShareLink(token string) (ShareLink, error)
	DeleteShareLink(token, userID string) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new DataStore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// defaultReplaceBatchSize bounds insert statement size during bulk replace
// when the caller does not supply a batch size.
const defaultReplaceBatchSize = 500

// SaveRecord stores a single emission record.
// EmissionsKgCO2e is expected to be computed by the caller before saving.
func (ds *DataStore) SaveRecord(record *Record) error {
	if ds.DB == nil {
		return dbError(errors.NewStd("database connection is not initialized"), "save_record", errors.PriorityHigh)
	}
	if record == nil {
		return validationError("record must not be nil", "record", nil)
	}

	start := time.Now()
	err := ds.DB.Create(record).Error
	recordOperation("record_create", start, err)
	if err != nil {
		return dbError(err, "save_record", errors.PriorityHigh,
			"business_id", record.BusinessID,
			"table", "records")
	}
	return nil
}

// ReplaceAllRecords atomically replaces the entire records table with the
// provided rows. Every prior record from every tenant is discarded, matching
// the destructive bulk-upload contract. Readers never observe the
// intermediate empty table because delete and insert share one transaction.
func (ds *DataStore) ReplaceAllRecords(records []Record, batchSize int) error {
	if ds.DB == nil {
		return dbError(errors.NewStd("database connection is not initialized"), "replace_records", errors.PriorityHigh)
	}
	if batchSize <= 0 {
		batchSize = defaultReplaceBatchSize
	}

	start := time.Now()
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Record{}).Error; err != nil {
			return dbError(err, "replace_records_delete", errors.PriorityHigh, "table", "records")
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, batchSize).Error; err != nil {
			return dbError(err, "replace_records_insert", errors.PriorityHigh,
				"table", "records",
				"row_count", len(records),
				"batch_size", batchSize)
		}
		return nil
	})

	if m := getMetrics(); m != nil {
		m.RecordTransactionDuration("record_replace", time.Since(start).Seconds())
		if err != nil {
			m.RecordTransaction("rollback")
		} else {
			m.RecordTransaction("committed")
			m.RecordReplaceSize(len(records))
		}
	}
	return err
}

// GetRecordsForBusiness retrieves the caller's records for a business,
// ordered by date and insertion order for deterministic downstream grouping.
func (ds *DataStore) GetRecordsForBusiness(userID, businessID string) ([]Record, error) {
	var records []Record
	start := time.Now()
	err := ds.DB.Where("user_id = ? AND business_id = ?", userID, businessID).
		Order("date ASC, id ASC").
		Find(&records).Error
	recordOperation("record_get", start, err)
	if err != nil {
		return nil, dbError(err, "get_records_for_business", errors.PriorityMedium,
			"business_id", businessID,
			"table", "records")
	}
	return records, nil
}

// CountRecords returns the total number of emission records in the store.
func (ds *DataStore) CountRecords() (int64, error) {
	var count int64
	if err := ds.DB.Model(&Record{}).Count(&count).Error; err != nil {
		return 0, dbError(err, "count_records", errors.PriorityLow, "table", "records")
	}
	return count, nil
}

// SaveShareLink stores a new share link.
func (ds *DataStore) SaveShareLink(link *ShareLink) error {
	if link == nil {
		return validationError("share link must not be nil", "link", nil)
	}
	if link.Token == "" {
		return validationError("share link token must not be empty", "token", link.Token)
	}
	if err := ds.DB.Create(link).Error; err != nil {
		if isConstraintViolation(err) {
			return conflictError(err, "save_share_link", "duplicate_token", "token", link.Token)
		}
		return dbError(err, "save_share_link", errors.PriorityMedium,
			"business_id", link.BusinessID,
			"table", "share_links")
	}
	return nil
}

// GetShareLink retrieves a share link by its token.
func (ds *DataStore) GetShareLink(token string) (ShareLink, error) {
	var link ShareLink
	err := ds.DB.Where("token = ?", token).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShareLink{}, notFoundError("share link", token)
		}
		return ShareLink{}, dbError(err, "get_share_link", errors.PriorityMedium,
			"table", "share_links")
	}
	return link, nil
}

// DeleteShareLink removes a share link owned by the given user.
// Links owned by other users are invisible to the caller, deleting one
// reports not found rather than leaking its existence.
func (ds *DataStore) DeleteShareLink(token, userID string) error {
	result := ds.DB.Where("token = ? AND user_id = ?", token, userID).Delete(&ShareLink{})
	if result.Error != nil {
		return dbError(result.Error, "delete_share_link", errors.PriorityMedium,
			"table", "share_links")
	}
	if result.RowsAffected == 0 {
		return notFoundError("share link", token)
	}
	return nil
}

// recordOperation records count and duration metrics for a record operation.
func recordOperation(operation string, start time.Time, err error) {
	m := getMetrics()
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RecordRecordOperation(operation, status)
	m.RecordRecordOperationDuration(operation, time.Since(start).Seconds())
}

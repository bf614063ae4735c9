package datastore

import (
	"log/slog"
	"slices"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"gorm.io/gorm"
)

const (
	// DefaultSlowQueryThreshold defines the duration after which a query is
	// considered slow. Bulk replace batches routinely run several hundred
	// milliseconds, the threshold sits above them to keep the slow-query log
	// signal useful.
	DefaultSlowQueryThreshold = 1 * time.Second

	// MaxColumnsForDetailedDisplay defines the maximum number of columns to
	// display in detailed logs. When more columns are present, only the count
	// is shown to keep log output concise and readable.
	MaxColumnsForDetailedDisplay = 5
)

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() gormlogger.Interface {
	// Use our custom GORM logger with metrics support
	return NewGormLogger(DefaultSlowQueryThreshold, gormlogger.Warn, getMetrics())
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType string) error {
	if debug {
		SetLogLevel(slog.LevelDebug)
	}

	migrationStart := time.Now()
	migrationLogger := getLogger().With("db_type", dbType)

	migrationLogger.Debug("Starting database migration")

	successCount, err := migrateTables(db, dbType, migrationLogger)
	if err != nil {
		return err
	}

	migrationLogger.Debug("Database migration completed successfully",
		"total_duration", time.Since(migrationStart),
		"tables_migrated", successCount)

	return nil
}

// migrateTables performs the actual table migrations
func migrateTables(db *gorm.DB, dbType string, log *slog.Logger) (int, error) {
	tableMappings := []struct {
		model any
		name  string
	}{
		{&Record{}, "records"},
		{&ShareLink{}, "share_links"},
	}

	log.Debug("Starting table migrations", "table_count", len(tableMappings))

	// Migrate each table individually for better logging
	successCount := 0
	for _, table := range tableMappings {
		if err := migrateTable(db, table.model, table.name, dbType, log); err != nil {
			return successCount, err
		}
		successCount++
	}

	return successCount, nil
}

// migrateTable migrates a single table with detailed logging
func migrateTable(db *gorm.DB, model any, tableName, dbType string, log *slog.Logger) error {
	tableStart := time.Now()

	// Check if table exists before migration
	tableExists := db.Migrator().HasTable(model)

	log.Debug("Migrating table", "table", tableName, "exists", tableExists)

	// Get column information before migration (if table exists)
	columnsBefore := getTableColumns(db, model, tableExists)

	if err := db.AutoMigrate(model); err != nil {
		enhancedErr := criticalError(err, "auto_migrate_table", "schema_migration_failed",
			"db_type", dbType,
			"table", tableName,
			"action", "database_schema_setup")

		log.Error("Table migration failed", "table", tableName, "error", enhancedErr)
		return enhancedErr
	}

	// Determine what changed
	action, addedColumns := determineTableChanges(db, model, tableExists, columnsBefore)

	// Log migration result
	logTableMigration(log, tableName, action, addedColumns, time.Since(tableStart))

	return nil
}

// getTableColumns retrieves column names for a table
func getTableColumns(db *gorm.DB, model any, tableExists bool) []string {
	var columns []string
	if tableExists {
		if cols, err := db.Migrator().ColumnTypes(model); err == nil {
			for _, col := range cols {
				columns = append(columns, col.Name())
			}
		}
	}
	return columns
}

// determineTableChanges checks what changed after migration
func determineTableChanges(db *gorm.DB, model any, tableExists bool, columnsBefore []string) (action string, addedColumns []string) {
	action = "updated"

	if !tableExists {
		action = "created"
		// Get all columns for newly created table
		if cols, err := db.Migrator().ColumnTypes(model); err == nil {
			for _, col := range cols {
				addedColumns = append(addedColumns, col.Name())
			}
		}
	} else {
		// Check for new columns added
		addedColumns = findNewColumns(db, model, columnsBefore)
		if len(addedColumns) == 0 {
			action = "unchanged"
		}
	}

	return action, addedColumns
}

// findNewColumns identifies columns added during migration
func findNewColumns(db *gorm.DB, model any, columnsBefore []string) []string {
	var addedColumns []string

	if cols, err := db.Migrator().ColumnTypes(model); err == nil {
		for _, col := range cols {
			colName := col.Name()
			if !slices.Contains(columnsBefore, colName) {
				addedColumns = append(addedColumns, colName)
			}
		}
	}

	return addedColumns
}

// logTableMigration logs the result of a table migration
func logTableMigration(log *slog.Logger, tableName, action string, addedColumns []string, duration time.Duration) {
	logArgs := []any{
		"table", tableName,
		"action", action,
		"duration", duration,
	}

	if len(addedColumns) > 0 {
		logArgs = append(logArgs, "columns_added", len(addedColumns))
		if len(addedColumns) <= MaxColumnsForDetailedDisplay {
			logArgs = append(logArgs, "new_columns", addedColumns)
		}
	}

	log.Debug("Table migration completed", logArgs...)
}

// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local runs and tests)
// connections from the application's configuration. Connections are opened with
// TranslateError enabled so unique-index violations surface as gorm.ErrDuplicatedKey,
// which the asset reconciler relies on to resolve insert races.
//
// # Schema Inspection
//
// GetTableColumns returns the live column definitions of a table. The schema
// integrity check compares them with the GORM models in core/models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "external_assets")
package database

package checks

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"asset-sync/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SchemaReport is the result of comparing the live database with the models.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors,omitempty"`
}

// TableReport describes the drift of a single table.
type TableReport struct {
	Status         string   `json:"status"` // "ok", "missing" or "error"
	MissingColumns []string `json:"missing_columns,omitempty"`
	TypeMismatches []string `json:"type_mismatches,omitempty"`
}

// ExpectedColumn is a column derived from a gorm model.
type ExpectedColumn struct {
	Name string
	// Type is the declared `type:` tag, empty when gorm picks the type.
	Type string
}

// CheckSchema compares every model's columns with the live table.
// Types are only compared for fields that declare an explicit type.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
	}

	cache := &sync.Map{}
	for _, model := range models {
		table, expected, err := ExpectedColumns(model, db.NamingStrategy, cache)
		if err != nil {
			report.Matched = false
			report.Errors = append(report.Errors, err.Error())
			continue
		}

		tbl := checkTable(db, table, expected)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

// ExpectedColumns parses a model with gorm's schema parser and returns its table and columns.
func ExpectedColumns(model any, namer schema.Namer, cache *sync.Map) (string, []ExpectedColumn, error) {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	if cache == nil {
		cache = &sync.Map{}
	}

	s, err := schema.Parse(model, cache, namer)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse model %T: %w", model, err)
	}

	var cols []ExpectedColumn
	for _, name := range s.DBNames {
		field := s.FieldsByDBName[name]
		if field == nil || field.IgnoreMigration {
			continue
		}
		cols = append(cols, ExpectedColumn{
			Name: strings.ToLower(field.DBName),
			Type: strings.ToLower(field.TagSettings["TYPE"]),
		})
	}
	return s.Table, cols, nil
}

func checkTable(db *gorm.DB, table string, expected []ExpectedColumn) TableReport {
	tbl := TableReport{Status: "ok"}

	actualCols, err := database.GetTableColumns(db, table)
	if err != nil {
		// MySQL fails SHOW COLUMNS on unknown tables.
		tbl.Status = "error"
		tbl.TypeMismatches = append(tbl.TypeMismatches, err.Error())
		return tbl
	}
	if len(actualCols) == 0 {
		// sqlite returns no rows for unknown tables.
		tbl.Status = "missing"
		for _, col := range expected {
			tbl.MissingColumns = append(tbl.MissingColumns, col.Name)
		}
		return tbl
	}

	actual := make(map[string]string, len(actualCols))
	for _, col := range actualCols {
		actual[col.Field] = col.Type
	}

	for _, col := range expected {
		actualType, ok := actual[col.Name]
		if !ok {
			tbl.MissingColumns = append(tbl.MissingColumns, col.Name)
			continue
		}
		if col.Type != "" && !typesMatch(col.Type, actualType) {
			tbl.TypeMismatches = append(tbl.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", col.Name, col.Type, actualType))
		}
	}

	sort.Strings(tbl.MissingColumns)
	if len(tbl.MissingColumns) > 0 || len(tbl.TypeMismatches) > 0 {
		tbl.Status = "error"
	}
	return tbl
}

// typesMatch treats the declared type as a prefix of the live one, so
// "text" accepts "text" and "varchar(64)" accepts "varchar(64)" but not "varchar(32)".
// MySQL may append attributes such as "unsigned" or a charset.
func typesMatch(expected, actual string) bool {
	expected = strings.TrimSpace(expected)
	actual = strings.TrimSpace(actual)
	if expected == actual {
		return true
	}
	return strings.HasPrefix(actual, expected+" ")
}

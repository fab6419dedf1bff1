package models

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Schema tooling.

GENERATE_MODELS=true runs AutoMigrate for every table below, prints a drift report of
columns that exist in the database but have no field in the Go struct, and writes typed
query helpers to ./generated with gorm/gen.

Example drift report:

	table=projects missing=[]
	table=settings missing=[legacy_theme]
*/

// Tables maps every persisted table to its model.
func Tables() map[string]interface{} {
	return map[string]interface{}{
		Project{}.TableName():        Project{},
		ContactMessage{}.TableName(): ContactMessage{},
		Setting{}.TableName():        Setting{},
	}
}

// AutoMigrateModels returns pointers suitable for gorm's AutoMigrate.
func AutoMigrateModels() []interface{} {
	return []interface{}{&Project{}, &ContactMessage{}, &Setting{}}
}

func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	db = db.Session(&gorm.Session{
		Logger:                 db.Logger.LogMode(logger.Info),
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	log.Info().Msg("migrating models")
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if _, err := ColumnDriftReport(db); err != nil {
		return err
	}

	if outPath == "" {
		outPath = "./generated"
	}
	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Project{}, ContactMessage{}, Setting{})
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("model generation complete")
	return nil
}

// ColumnDriftReport logs, per table, the database columns the Go model does not map.
// It returns the total number of unmapped columns.
func ColumnDriftReport(db *gorm.DB) (int, error) {
	tables := Tables()
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0
	for _, table := range names {
		if !db.Migrator().HasTable(table) {
			log.Warn().Str("table", table).Msg("table does not exist yet")
			continue
		}
		columnTypes, err := db.Migrator().ColumnTypes(table)
		if err != nil {
			return total, fmt.Errorf("read columns of %s: %w", table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		missing := UnmappedColumns(dbColumns, ModelColumns(tables[table]))
		total += len(missing)
		log.Info().Str("table", table).Strs("missing", missing).Msg("column drift")
	}
	return total, nil
}

// ModelColumns extracts the column names declared in the gorm tags of model.
func ModelColumns(model interface{}) []string {
	var fields []string
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if column := columnFromGormTag(field.Tag.Get("gorm")); column != "" {
			fields = append(fields, column)
		}
	}
	return fields
}

func columnFromGormTag(gormTag string) string {
	for _, part := range strings.Split(gormTag, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}

// UnmappedColumns returns the entries of dbColumns absent from modelColumns.
func UnmappedColumns(dbColumns, modelColumns []string) []string {
	known := make(map[string]bool, len(modelColumns))
	for _, c := range modelColumns {
		known[c] = true
	}

	missing := []string{}
	for _, col := range dbColumns {
		if !known[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

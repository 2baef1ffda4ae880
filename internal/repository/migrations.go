package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migration is one forward-only schema step. Up runs inside the transaction that also
// records Version, so a failed step leaves neither tables nor version behind.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *gorm.DB) error
}

// MigrationReport describes what a RunMigrations call did.
type MigrationReport struct {
	From    int
	To      int
	Applied []int
}

var defaultMigrations = []Migration{
	{
		Version:     1,
		Description: "create_initial_tables",
		Up: execAll(
			`CREATE TABLE IF NOT EXISTS classes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				subject TEXT NOT NULL,
				period TEXT NOT NULL,
				year TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS students (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				student_id TEXT NOT NULL UNIQUE,
				plan_type TEXT NOT NULL CHECK(plan_type IN ('504', 'IEP'))
			)`,
			`CREATE TABLE IF NOT EXISTS accommodations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				student_id INTEGER NOT NULL,
				description TEXT NOT NULL,
				category TEXT NOT NULL,
				FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS class_students (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				class_id INTEGER NOT NULL,
				student_id INTEGER NOT NULL,
				FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE,
				FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE,
				UNIQUE(class_id, student_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_accommodations_student_id ON accommodations(student_id)`,
			`CREATE INDEX IF NOT EXISTS idx_class_students_class_id ON class_students(class_id)`,
			`CREATE INDEX IF NOT EXISTS idx_class_students_student_id ON class_students(student_id)`,
		),
	},
	{
		Version:     2,
		Description: "add_periods_and_service_logs",
		Up: execAll(
			`CREATE TABLE IF NOT EXISTS six_week_periods (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				year TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS service_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				class_id INTEGER NOT NULL,
				student_id INTEGER NOT NULL,
				service_date TEXT NOT NULL,
				provided INTEGER NOT NULL DEFAULT 0,
				FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE,
				FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE,
				UNIQUE(class_id, student_id, service_date)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_service_logs_class_id ON service_logs(class_id)`,
			`CREATE INDEX IF NOT EXISTS idx_service_logs_student_id ON service_logs(student_id)`,
			`CREATE INDEX IF NOT EXISTS idx_service_logs_date ON service_logs(service_date)`,
		),
	},
	{
		// Per-student logs are discarded; they cannot be mapped onto individual accommodations.
		Version:     3,
		Description: "per_accommodation_tracking",
		Up: execAll(
			`DROP TABLE IF EXISTS service_logs`,
			`CREATE TABLE IF NOT EXISTS accommodation_service_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				class_id INTEGER NOT NULL,
				accommodation_id INTEGER NOT NULL,
				service_date TEXT NOT NULL,
				provided INTEGER NOT NULL DEFAULT 0,
				FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE,
				FOREIGN KEY (accommodation_id) REFERENCES accommodations(id) ON DELETE CASCADE,
				UNIQUE(class_id, accommodation_id, service_date)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_accommodation_service_logs_class_id ON accommodation_service_logs(class_id)`,
			`CREATE INDEX IF NOT EXISTS idx_accommodation_service_logs_accommodation_id ON accommodation_service_logs(accommodation_id)`,
			`CREATE INDEX IF NOT EXISTS idx_accommodation_service_logs_date ON accommodation_service_logs(service_date)`,
		),
	},
}

func execAll(statements ...string) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		for i, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
		return nil
	}
}

// DefaultMigrations returns a copy of the built-in migration chain.
func DefaultMigrations() []Migration {
	out := make([]Migration, len(defaultMigrations))
	copy(out, defaultMigrations)
	return out
}

// CurrentSchemaVersion is the version a fully migrated store reports.
func CurrentSchemaVersion() int {
	return maxMigrationVersion(defaultMigrations)
}

// RunMigrations brings db up to the highest version in migrations. Each pending migration
// is applied in its own transaction together with its version record, strictly ascending.
// Already-recorded versions are never reapplied.
func RunMigrations(db *gorm.DB, migrations []Migration) (MigrationReport, error) {
	var report MigrationReport
	if db == nil {
		return report, fmt.Errorf("run migrations: %w: db is nil", ErrMigration)
	}

	ordered, err := orderMigrations(migrations)
	if err != nil {
		return report, err
	}

	if err := ensureMigrationTables(db); err != nil {
		return report, err
	}

	current, err := readSchemaVersion(db)
	if err != nil {
		return report, err
	}
	report.From = current
	report.To = current

	maxVersion := maxMigrationVersion(ordered)
	if current > maxVersion {
		return report, fmt.Errorf("%w: db=%d code=%d", ErrSchemaTooNew, current, maxVersion)
	}
	if current == maxVersion {
		slog.Debug("schema is current", "version", current)
		return report, nil
	}

	for _, m := range ordered {
		if m.Version <= current {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return recordVersion(tx, m)
		})
		if err != nil {
			slog.Error("migration failed", "version", m.Version, "description", m.Description, "error", err)
			return report, fmt.Errorf("migration v%d (%s): %w: %w", m.Version, m.Description, ErrMigration, err)
		}
		report.To = m.Version
		report.Applied = append(report.Applied, m.Version)
		slog.Info("migration applied", "version", m.Version, "description", m.Description)
	}
	return report, nil
}

func orderMigrations(migrations []Migration) ([]Migration, error) {
	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })

	prev := 0
	for _, m := range ordered {
		if m.Version <= 0 {
			return nil, fmt.Errorf("%w: version must be positive, got %d", ErrMigration, m.Version)
		}
		if m.Version == prev {
			return nil, fmt.Errorf("%w: duplicate version %d", ErrMigration, m.Version)
		}
		if m.Up == nil {
			return nil, fmt.Errorf("%w: migration v%d has no Up step", ErrMigration, m.Version)
		}
		prev = m.Version
	}
	return ordered, nil
}

// ensureMigrationTables creates the version record before anything else, so the
// store's state is readable even when the first migration fails.
func ensureMigrationTables(db *gorm.DB) error {
	if err := db.AutoMigrate(&schema.SchemaMeta{}, &schema.SchemaMigration{}); err != nil {
		return fmt.Errorf("create migration tables: %w: %w", ErrMigration, err)
	}

	var meta schema.SchemaMeta
	err := db.First(&meta, 1).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("read schema_meta: %w: %w", ErrStorage, err)
	}
	meta = schema.SchemaMeta{ID: 1, SchemaVersion: 0}
	if err := db.Create(&meta).Error; err != nil {
		return fmt.Errorf("initialize schema_meta: %w: %w", ErrMigration, err)
	}
	return nil
}

func readSchemaVersion(db *gorm.DB) (int, error) {
	var meta schema.SchemaMeta
	if err := db.First(&meta, 1).Error; err != nil {
		return 0, fmt.Errorf("read schema version: %w: %w", ErrStorage, err)
	}
	return meta.SchemaVersion, nil
}

func recordVersion(tx *gorm.DB, m Migration) error {
	if err := tx.Model(&schema.SchemaMeta{}).Where("id = ?", 1).Update("schema_version", m.Version).Error; err != nil {
		return fmt.Errorf("update schema version: %w", err)
	}
	entry := schema.SchemaMigration{Version: m.Version, Description: m.Description, AppliedAt: time.Now().UTC()}
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
		return fmt.Errorf("record schema migration: %w", err)
	}
	return nil
}

func maxMigrationVersion(migrations []Migration) int {
	max := 0
	for _, m := range migrations {
		if m.Version > max {
			max = m.Version
		}
	}
	return max
}

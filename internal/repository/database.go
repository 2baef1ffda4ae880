package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite" // pure Go SQLite driver
	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	memoryPath           = ":memory:"
	defaultBusyTimeoutMs = 5000
	maxOpenConnections   = 1 // single local writer
)

// Database owns the store handle. It is created once at startup, migrated before any
// repository is handed out, and closed at shutdown.
type Database struct {
	DB            *gorm.DB
	Path          string
	SchemaVersion int
	Report        MigrationReport // what the opening migration run did
}

// NewDatabase opens the store at dbPath and applies every pending migration.
// If a migration fails the handle is closed and the error (wrapping ErrMigration or
// ErrSchemaTooNew) is returned: no CRUD may run against a partially migrated schema.
func NewDatabase(dbPath string, busyTimeoutMs int) (*Database, error) {
	db, err := Open(dbPath, busyTimeoutMs)
	if err != nil {
		return nil, err
	}

	d := &Database{DB: db, Path: dbPath}
	report, err := RunMigrations(db, DefaultMigrations())
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	d.SchemaVersion = report.To
	d.Report = report

	slog.Info("database ready", "path", dbPath, "schema_version", d.SchemaVersion, "applied", report.Applied)
	return d, nil
}

// Open connects to the store and configures it, without touching the schema.
func Open(dbPath string, busyTimeoutMs int) (*gorm.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("open database: %w: empty path", ErrStorage)
	}
	if busyTimeoutMs <= 0 {
		busyTimeoutMs = defaultBusyTimeoutMs
	}
	if dbPath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w: %v", ErrStorage, err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", dbPath, busyTimeoutMs)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w: %v", ErrStorage, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("connect database: %w: %v", ErrStorage, err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConnections)

	if err := configureDB(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("configure database: %w: %v", ErrStorage, err)
	}
	return db, nil
}

// configureDB applies SQLite pragmas
func configureDB(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	var fk int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
		return fmt.Errorf("read foreign_keys pragma: %w", err)
	}
	if fk != 1 {
		// Deletes still fan out explicitly; only FK checks on insert are lost.
		slog.Warn("sqlite foreign key enforcement is off")
	}
	return nil
}

// CurrentVersion reads the persisted schema version.
func (d *Database) CurrentVersion(ctx context.Context) (int, error) {
	return readSchemaVersion(d.DB.WithContext(ctx))
}

// Tables lists user tables, excluding SQLite internals.
func (d *Database) Tables(ctx context.Context) ([]string, error) {
	var names []string
	err := d.DB.WithContext(ctx).
		Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name").
		Scan(&names).Error
	if err != nil {
		return nil, classifyError("list tables", err)
	}
	return names, nil
}

// History returns applied migrations, oldest first.
func (d *Database) History(ctx context.Context) ([]schema.SchemaMigration, error) {
	var out []schema.SchemaMigration
	err := d.DB.WithContext(ctx).Order("version ASC").Find(&out).Error
	if err != nil {
		return nil, classifyError("read migration history", err)
	}
	return out, nil
}

// Close releases the store handle.
func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

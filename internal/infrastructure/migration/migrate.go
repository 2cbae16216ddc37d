// Package migration applies the numbered SQL files under migrations/ with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/invoicedash/backend/internal/infrastructure/config"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// DefaultPath is the migrations directory relative to the repository root
const DefaultPath = "migrations"

// ErrDirty is returned when a previous migration failed half-way
var ErrDirty = errors.New("database is in a dirty migration state, fix it and run force")

// Migrator applies schema migrations to the dashboard database
type Migrator struct {
	migrate *migrate.Migrate
	db      *sql.DB
	logger  *zap.Logger
}

// Status is the applied schema version
type Status struct {
	Version uint
	Dirty   bool
}

// New creates a Migrator over an open connection
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{logger: logger.Named("migrate")}

	return &Migrator{migrate: m, logger: logger}, nil
}

// Open connects with lib/pq using the database settings and builds a Migrator
// that owns the connection.
func Open(cfg *config.DatabaseConfig, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := New(db, migrationsPath, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	m.db = db
	return m, nil
}

// ResolvePath finds the migrations directory. An explicit path wins; otherwise
// the working directory and the directories above the executable are tried.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}

	candidates := []string{DefaultPath}
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		candidates = append(candidates,
			filepath.Join(execDir, DefaultPath),
			filepath.Join(execDir, "..", "..", DefaultPath),
		)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return filepath.Abs(DefaultPath)
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	m.logger.Info("Running migrations up")

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to apply")
			return nil
		}
		return m.wrap("migration up failed", err)
	}

	status, err := m.Status()
	if err != nil {
		return err
	}
	m.logger.Info("Migrations completed",
		zap.Uint("version", status.Version),
		zap.Bool("dirty", status.Dirty),
	)
	return nil
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	m.logger.Info("Running migrations down")

	if err := m.migrate.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to roll back")
			return nil
		}
		return m.wrap("migration down failed", err)
	}

	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations (positive = up, negative = down)
func (m *Migrator) Steps(n int) error {
	if n == 0 {
		return fmt.Errorf("step count must not be zero")
	}
	m.logger.Info("Running migration steps", zap.Int("steps", n))

	if err := m.migrate.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to apply")
			return nil
		}
		return m.wrap("migration steps failed", err)
	}

	status, err := m.Status()
	if err != nil {
		return err
	}
	m.logger.Info("Migration steps completed",
		zap.Uint("version", status.Version),
		zap.Bool("dirty", status.Dirty),
	)
	return nil
}

// Status returns the applied version; a fresh database reports version 0
func (m *Migrator) Status() (Status, error) {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Force sets the migration version without running migrations.
// Only meant for repairing a dirty state.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}

	m.logger.Info("Migration version forced", zap.Int("version", version))
	return nil
}

// Close releases the source, the driver and, when owned, the connection
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Migrator) wrap(msg string, err error) error {
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		return fmt.Errorf("%s: %w (version %d)", msg, ErrDirty, dirty.Version)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// migrateLogger routes golang-migrate's progress lines into zap
type migrateLogger struct {
	logger *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.Core().Enabled(zap.DebugLevel)
}

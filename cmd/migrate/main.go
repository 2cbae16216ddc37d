package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/invoicedash/backend/internal/infrastructure/config"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	migrationsPath, err = migration.ResolvePath(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	m, err := migration.Open(&cfg.Database, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := run(m, command, args[1:]); err != nil {
		log.Error("Migration command failed", zap.String("command", command), zap.Error(err))
		if errors.Is(err, errUsage) {
			printUsage()
		}
		_ = m.Close()
		_ = logger.Sync(log)
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func run(m *migration.Migrator, command string, args []string) error {
	switch command {
	case "up":
		return m.Up()

	case "down":
		return m.Down()

	case "step":
		if len(args) < 1 {
			return errUsage
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)

	case "version":
		status, err := m.Status()
		if err != nil {
			return err
		}
		if status.Version == 0 {
			fmt.Println("No migrations applied")
			return nil
		}
		fmt.Printf("version=%d dirty=%t\n", status.Version, status.Dirty)
		return nil

	case "force":
		if len(args) < 1 {
			return errUsage
		}
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version number %q", args[0])
		}
		return m.Force(version)

	default:
		return errUsage
	}
}

func printUsage() {
	fmt.Println(`Invoice Dashboard Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version after a failed run

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  DASH_DATABASE_HOST, DASH_DATABASE_PORT, DASH_DATABASE_USER,
  DASH_DATABASE_PASSWORD, DASH_DATABASE_DBNAME, DASH_DATABASE_SSLMODE

Examples:
  migrate up
  migrate step -1
  migrate version`)
}

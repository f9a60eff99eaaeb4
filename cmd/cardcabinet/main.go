package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"cardcabinet/internal/adapters/database/sqlite"
	"cardcabinet/internal/adapters/terminal"
	"cardcabinet/internal/core/services"
	"cardcabinet/internal/platform/config"
	"cardcabinet/migrations"
	"cardcabinet/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func main() {
	// Console output belongs to the user; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx := context.Background()

	if err := runMigrations(cfg.DatabasePath, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// One connection for the process lifetime, owned here and injected down.
	db, err := database.NewSQLiteDB(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.CloseDB(db)

	cardRepo := sqlite.NewCardRepository(db)
	ledger, err := services.NewLedgerService(ctx, cardRepo, logger)
	if err != nil {
		logger.Error("Failed to load accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}

	issuer := services.NewCardIssuer(cfg.BIN, rand.New(rand.NewSource(time.Now().UnixNano())))
	console := terminal.NewConsole(os.Stdin, os.Stdout)
	cabinet := services.NewCabinetService(ledger, issuer, console, logger)

	if err := cabinet.Run(ctx); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("Session loop failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies the embedded migrations over a short-lived handle,
// separate from the connection the cabinet uses afterwards.
func runMigrations(databasePath string, logger *slog.Logger) error {
	db, err := database.NewSQLiteDB(context.Background(), databasePath)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	return dbErr
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

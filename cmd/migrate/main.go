package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dbwlsddd/Safety/internal/config"
	"github.com/dbwlsddd/Safety/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	action := flag.String("action", "up", "Migration action: up, down, version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// golang-migrate's postgres driver works over database/sql, so the
	// pgx stdlib adapter is used here instead of the runtime pool.
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	migrator, err := database.NewMigrator(db, "safety")
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch *action {
	case "up":
		log.Println("Applying schema migrations...")
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Println("✓ Schema is up to date")

	case "down":
		log.Println("Rolling back last migration...")
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
		log.Println("✓ Rolled back one migration")

	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		if dirty {
			log.Printf("Schema version: %d (DIRTY - previous migration did not finish)\n", version)
		} else {
			log.Printf("Schema version: %d\n", version)
		}

	default:
		return fmt.Errorf("invalid action: %s (use: up, down, version)", *action)
	}

	return nil
}

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/AdamBeresnev/swiss-chess/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InitDB opens the SQLite file at path in WAL mode with foreign keys on.
func InitDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", path, err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Database connected:", path)
	return db, nil
}

// RunMigrations brings the schema up to date with the embedded migrations.
// The migrate instance is not closed since that would close db too.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Printf("Migrations applied (version %d, dirty %t)", version, dirty)
	return nil
}

package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Registers the "sqlite" driver.
)

type DB struct {
	*sql.DB
}

// NewConnection opens the SQLite database file and verifies it is
// usable. Foreign keys are enforced; writers wait instead of failing
// when the file is briefly locked.
func NewConnection(dbPath string) (*DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite serializes writes; a single writer connection
	// avoids SQLITE_BUSY churn under concurrent handlers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

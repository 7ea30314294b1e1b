package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables WAL mode and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// WAL lets explore/serve readers run while an ingest is writing
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely. Databases created
// before chunk ranges were persisted get the start/end columns added; their
// existing rows keep NULL ranges, which are recomputed at query time.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			last_modified INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS topics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL UNIQUE,
			embedding BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			file TEXT NOT NULL,
			embedding BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_embeddings_file ON embeddings(file);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	columns := []struct {
		name string
		ddl  string
	}{
		{"chunk_id", "ALTER TABLE embeddings ADD COLUMN chunk_id TEXT"},
		{"start", "ALTER TABLE embeddings ADD COLUMN start INTEGER"},
		{"end", `ALTER TABLE embeddings ADD COLUMN "end" INTEGER`},
	}
	for _, col := range columns {
		exists, err := columnExists(db, "embeddings", col.name)
		if err != nil {
			return fmt.Errorf("failed to inspect embeddings table: %w", err)
		}
		if exists {
			continue
		}
		if _, err := db.Exec(col.ddl); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
	}

	return nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return false, err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

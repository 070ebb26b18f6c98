package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// Foreign keys, the busy timeout and immediate write transactions are set
// through the DSN so they apply to every pooled connection.
func New(path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT 'blue',
			tag TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			position_x REAL NOT NULL DEFAULT 0,
			position_y REAL NOT NULL DEFAULT 0,
			width REAL,
			height REAL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			key TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			stroke TEXT NOT NULL,
			stroke_width REAL NOT NULL,
			type TEXT NOT NULL DEFAULT 'default',
			animated INTEGER NOT NULL DEFAULT 0,
			label TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (source) REFERENCES notes(id) ON DELETE CASCADE,
			FOREIGN KEY (target) REFERENCES notes(id) ON DELETE CASCADE,
			UNIQUE (source, target),
			CHECK (source <> target)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

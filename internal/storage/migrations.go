package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: profiles, college lists, fit analyses",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS profiles (
					id TEXT PRIMARY KEY,
					email TEXT UNIQUE NOT NULL,
					gpa REAL NOT NULL DEFAULT 0,
					test_score INTEGER NOT NULL DEFAULT 0,
					ap_count INTEGER NOT NULL DEFAULT 0,
					leadership INTEGER NOT NULL DEFAULT 0,
					test_optional INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_profiles_email ON profiles(email)`,

				`CREATE TABLE IF NOT EXISTS colleges (
					profile_id TEXT NOT NULL,
					university_id TEXT NOT NULL,
					university_name TEXT NOT NULL,
					location TEXT,
					soft_fit_category TEXT,
					compute_status TEXT DEFAULT 'PENDING',
					added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (profile_id, university_id)
				)`,
				`CREATE INDEX idx_colleges_profile ON colleges(profile_id)`,

				`CREATE TABLE IF NOT EXISTS fit_analyses (
					profile_id TEXT NOT NULL,
					university_id TEXT NOT NULL,
					fit_category TEXT NOT NULL,
					match_percentage REAL NOT NULL DEFAULT 0,
					explanation TEXT,
					factors TEXT,
					recommendations TEXT,
					computed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (profile_id, university_id)
				)`,
				`CREATE INDEX idx_fit_analyses_category ON fit_analyses(profile_id, fit_category)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Recommendation sessions and turns",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS sessions (
					id TEXT PRIMARY KEY,
					user_email TEXT NOT NULL,
					status TEXT NOT NULL DEFAULT 'ACTIVE',
					started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS session_turns (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					session_id TEXT NOT NULL,
					prompt TEXT NOT NULL,
					response TEXT,
					parsed INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (session_id) REFERENCES sessions(id)
				)`,
				`CREATE INDEX idx_session_turns_session ON session_turns(session_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "University stats for fit scoring",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS universities (
					university_id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					acceptance_rate REAL NOT NULL DEFAULT 0,
					gpa_75 REAL NOT NULL DEFAULT 0,
					sat_75 INTEGER NOT NULL DEFAULT 0
				)`)
			if err != nil {
				return fmt.Errorf("failed to create universities table: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, migration.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		slog.Info("applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	return nil
}

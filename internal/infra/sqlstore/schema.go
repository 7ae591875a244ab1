package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
)

// schemaVersion is recorded in schema_version after migrating.
const schemaVersion = 1

// schema is portable between SQLite and PostgreSQL: every timestamp is
// TEXT in timeLayout and every id is TEXT.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS goals (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  outcome TEXT NOT NULL DEFAULT '',
  in_scope TEXT NOT NULL DEFAULT '[]',
  out_of_scope TEXT NOT NULL DEFAULT '[]',
  horizon_weeks INTEGER NOT NULL DEFAULT 0,
  complexity INTEGER NOT NULL DEFAULT 0,
  deadline TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS phases (
  id TEXT PRIMARY KEY,
  goal_id TEXT NOT NULL,
  title TEXT NOT NULL,
  position INTEGER NOT NULL,
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_phases_goal ON phases (goal_id)`,
	`CREATE TABLE IF NOT EXISTS milestones (
  id TEXT PRIMARY KEY,
  phase_id TEXT NOT NULL,
  goal_id TEXT NOT NULL,
  title TEXT NOT NULL,
  position INTEGER NOT NULL,
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_goal ON milestones (goal_id)`,
	`CREATE TABLE IF NOT EXISTS job_clusters (
  id TEXT PRIMARY KEY,
  milestone_id TEXT NOT NULL,
  goal_id TEXT NOT NULL,
  title TEXT NOT NULL,
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_job_clusters_goal ON job_clusters (goal_id)`,
	`CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  cluster_id TEXT NOT NULL,
  goal_id TEXT NOT NULL,
  title TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('QUICK_WIN','DEEP_WORK','ANCHOR')),
  status TEXT NOT NULL CHECK (status IN ('PENDING','ACTIVE','COMPLETED','FAILED')),
  estimated_minutes INTEGER NOT NULL DEFAULT 0,
  failure_count INTEGER NOT NULL DEFAULT 0,
  deadline TEXT,
  started_at TEXT,
  finished_at TEXT,
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_goal ON jobs (goal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status)`,
	`CREATE TABLE IF NOT EXISTS work_sessions (
  job_id TEXT NOT NULL,
  seq INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT,
  PRIMARY KEY (job_id, seq)
)`,
	`CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS job_events (
  id TEXT PRIMARY KEY,
  job_id TEXT NOT NULL,
  at TEXT NOT NULL,
  from_status TEXT,
  to_status TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_job_events_job ON job_events (job_id, at)`,
	`CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER NOT NULL
)`,
}

// Initialize creates missing tables. Running it on an existing database
// is safe.
func (s *Store) Initialize() error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		var version int
		err := tx.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return s.exec(tx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion)
		case err != nil:
			return fmt.Errorf("read schema version: %w", err)
		case version > schemaVersion:
			return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
		}
		return nil
	})
}

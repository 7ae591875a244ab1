package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
)

// GetSessions retrieves the ordered sessions of a job.
func (s *Store) GetSessions(jobID string) ([]domain.WorkSession, error) {
	rows, err := s.db.Query(s.rebind(`
SELECT started_at, ended_at FROM work_sessions WHERE job_id = ? ORDER BY seq`), jobID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.WorkSession{} // Return empty slice, not nil
	for rows.Next() {
		var (
			ws    domain.WorkSession
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if ws.Start, err = parseTime(start); err != nil {
			return nil, err
		}
		if ws.End, err = parseTimePtr(end); err != nil {
			return nil, err
		}
		sessions = append(sessions, ws)
	}
	return sessions, rows.Err()
}

// SaveSessions replaces the sessions of a job.
func (s *Store) SaveSessions(jobID string, sessions []domain.WorkSession) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := s.exec(tx, `DELETE FROM work_sessions WHERE job_id = ?`, jobID); err != nil {
			return fmt.Errorf("clear sessions: %w", err)
		}
		for i, ws := range sessions {
			err := s.exec(tx, `INSERT INTO work_sessions (job_id, seq, started_at, ended_at) VALUES (?, ?, ?, ?)`,
				jobID, i, formatTime(ws.Start), formatTimePtr(ws.End))
			if err != nil {
				return fmt.Errorf("insert session: %w", err)
			}
		}
		return nil
	})
}

// CountSessions returns the number of sessions across all jobs.
func (s *Store) CountSessions() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM work_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// GetSetting returns a stored value.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(s.rebind(`SELECT value FROM settings WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting: %w", err)
	}
	return value, true, nil
}

// SetSetting creates or overwrites a value.
func (s *Store) SetSetting(key, value string) error {
	err := s.exec(s.db, `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/volition-os/volition/internal/domain"
)

const jobColumns = `id, cluster_id, goal_id, title, type, status, estimated_minutes,
  failure_count, deadline, started_at, finished_at, created_at`

// GetJob retrieves a job by ID. Returns nil if not found.
func (s *Store) GetJob(id string) (*domain.Job, error) {
	row := s.db.QueryRow(s.rebind(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`), id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ListJobs retrieves jobs matching the filter, ordered by creation time.
func (s *Store) ListJobs(filter domain.JobFilter) ([]*domain.Job, error) {
	var (
		where []string
		args  []any
	)
	if filter.GoalID != "" {
		where = append(where, "goal_id = ?")
		args = append(args, filter.GoalID)
	}
	if filter.ClusterID != "" {
		where = append(where, "cluster_id = ?")
		args = append(args, filter.ClusterID)
	}
	if len(filter.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(filter.Statuses))+")")
		for _, st := range filter.Statuses {
			args = append(args, string(st))
		}
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// SaveJob creates or updates a job. A status change is recorded in
// job_events in the same transaction.
func (s *Store) SaveJob(job *domain.Job) error {
	return s.inTx(func(tx *sql.Tx) error {
		var previous string
		err := tx.QueryRow(s.rebind(`SELECT status FROM jobs WHERE id = ?`), job.ID).Scan(&previous)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read job status: %w", err)
		}

		if err := s.upsertJob(tx, job); err != nil {
			return err
		}
		if domain.JobStatus(previous) != job.Status {
			return s.insertJobEvent(tx, job.ID, domain.JobStatus(previous), job.Status)
		}
		return nil
	})
}

// ListClusters retrieves job clusters matching the filter.
func (s *Store) ListClusters(filter domain.ClusterFilter) ([]*domain.JobCluster, error) {
	query := `SELECT id, milestone_id, goal_id, title, created_at FROM job_clusters`
	var args []any
	if filter.GoalID != "" {
		query += ` WHERE goal_id = ?`
		args = append(args, filter.GoalID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	defer rows.Close()

	var clusters []*domain.JobCluster
	for rows.Next() {
		var (
			c       domain.JobCluster
			created string
		)
		if err := rows.Scan(&c.ID, &c.MilestoneID, &c.GoalID, &c.Title, &created); err != nil {
			return nil, fmt.Errorf("scan cluster: %w", err)
		}
		if c.Created, err = parseTime(created); err != nil {
			return nil, err
		}
		clusters = append(clusters, &c)
	}
	return clusters, rows.Err()
}

// ListJobEvents returns the status history of a job, oldest first.
func (s *Store) ListJobEvents(jobID string) ([]domain.JobEvent, error) {
	rows, err := s.db.Query(s.rebind(`
SELECT id, job_id, at, from_status, to_status FROM job_events
WHERE job_id = ? ORDER BY at, id`), jobID)
	if err != nil {
		return nil, fmt.Errorf("list job events: %w", err)
	}
	defer rows.Close()

	var events []domain.JobEvent
	for rows.Next() {
		var (
			e        domain.JobEvent
			at, to   string
			fromStat sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.JobID, &at, &fromStat, &to); err != nil {
			return nil, fmt.Errorf("scan job event: %w", err)
		}
		if e.At, err = parseTime(at); err != nil {
			return nil, err
		}
		if fromStat.Valid {
			e.From = domain.JobStatus(fromStat.String)
		}
		e.To = domain.JobStatus(to)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) upsertJob(tx *sql.Tx, j *domain.Job) error {
	err := s.exec(tx, `
INSERT INTO jobs (`+jobColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  cluster_id = excluded.cluster_id,
  goal_id = excluded.goal_id,
  title = excluded.title,
  type = excluded.type,
  status = excluded.status,
  estimated_minutes = excluded.estimated_minutes,
  failure_count = excluded.failure_count,
  deadline = excluded.deadline,
  started_at = excluded.started_at,
  finished_at = excluded.finished_at`,
		j.ID, j.ClusterID, j.GoalID, j.Title, string(j.Type), string(j.Status),
		j.EstimatedMinutes, j.FailureCount, formatTimePtr(j.Deadline),
		formatNullTime(j.Started), formatNullTime(j.Finished), formatTime(j.Created),
	)
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

func (s *Store) insertJobEvent(tx *sql.Tx, jobID string, from, to domain.JobStatus) error {
	var fromStatus sql.NullString
	if from != "" {
		fromStatus = sql.NullString{String: string(from), Valid: true}
	}
	err := s.exec(tx, `INSERT INTO job_events (id, job_id, at, from_status, to_status) VALUES (?, ?, ?, ?, ?)`,
		newEventID(), jobID, formatTime(s.clock.Now()), fromStatus, string(to))
	if err != nil {
		return fmt.Errorf("record job event: %w", err)
	}
	return nil
}

func scanJob(row scanner) (*domain.Job, error) {
	var (
		j                           domain.Job
		typ, status                 string
		deadline, started, finished sql.NullString
		created                     string
	)
	err := row.Scan(
		&j.ID, &j.ClusterID, &j.GoalID, &j.Title, &typ, &status,
		&j.EstimatedMinutes, &j.FailureCount, &deadline, &started, &finished, &created,
	)
	if err != nil {
		return nil, err
	}
	j.Type = domain.JobType(typ)
	j.Status = domain.JobStatus(status)

	if j.Deadline, err = parseTimePtr(deadline); err != nil {
		return nil, err
	}
	if j.Started, err = parseNullTime(started); err != nil {
		return nil, err
	}
	if j.Finished, err = parseNullTime(finished); err != nil {
		return nil, err
	}
	if j.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	return &j, nil
}

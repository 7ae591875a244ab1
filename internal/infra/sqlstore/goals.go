package sqlstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
)

const goalColumns = `id, title, description, status, outcome, in_scope, out_of_scope,
  horizon_weeks, complexity, deadline, created_at, updated_at`

// GetGoal retrieves a goal by ID. Returns nil if not found.
func (s *Store) GetGoal(id string) (*domain.Goal, error) {
	row := s.db.QueryRow(s.rebind(`SELECT `+goalColumns+` FROM goals WHERE id = ?`), id)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return goal, nil
}

// ListGoals retrieves all goals ordered by creation time.
func (s *Store) ListGoals() ([]*domain.Goal, error) {
	rows, err := s.db.Query(`SELECT ` + goalColumns + ` FROM goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// SaveGoal creates or updates a goal.
func (s *Store) SaveGoal(goal *domain.Goal) error {
	inScope, err := json.Marshal(goal.Scope.InScope)
	if err != nil {
		return fmt.Errorf("encode scope: %w", err)
	}
	outOfScope, err := json.Marshal(goal.Scope.OutOfScope)
	if err != nil {
		return fmt.Errorf("encode scope: %w", err)
	}

	err = s.exec(s.db, `
INSERT INTO goals (`+goalColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  title = excluded.title,
  description = excluded.description,
  status = excluded.status,
  outcome = excluded.outcome,
  in_scope = excluded.in_scope,
  out_of_scope = excluded.out_of_scope,
  horizon_weeks = excluded.horizon_weeks,
  complexity = excluded.complexity,
  deadline = excluded.deadline,
  updated_at = excluded.updated_at`,
		goal.ID, goal.Title, goal.Description, string(goal.Status),
		goal.Scope.Outcome, string(inScope), string(outOfScope),
		goal.Scope.HorizonWeeks, goal.Complexity, formatTimePtr(goal.Deadline),
		formatTime(goal.Created), formatTime(goal.Updated),
	)
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

// DeleteGoal removes a goal together with its plan, jobs and sessions.
func (s *Store) DeleteGoal(id string) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := s.deletePlan(tx, id); err != nil {
			return err
		}
		if err := s.exec(tx, `DELETE FROM goals WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		return nil
	})
}

func scanGoal(row scanner) (*domain.Goal, error) {
	var (
		g                   domain.Goal
		status              string
		inScope, outOfScope string
		deadline            sql.NullString
		created, updated    string
	)
	err := row.Scan(
		&g.ID, &g.Title, &g.Description, &status, &g.Scope.Outcome,
		&inScope, &outOfScope, &g.Scope.HorizonWeeks, &g.Complexity,
		&deadline, &created, &updated,
	)
	if err != nil {
		return nil, err
	}
	g.Status = domain.GoalStatus(status)

	if err := json.Unmarshal([]byte(inScope), &g.Scope.InScope); err != nil {
		return nil, fmt.Errorf("decode in_scope: %w", err)
	}
	if err := json.Unmarshal([]byte(outOfScope), &g.Scope.OutOfScope); err != nil {
		return nil, fmt.Errorf("decode out_of_scope: %w", err)
	}
	if g.Deadline, err = parseTimePtr(deadline); err != nil {
		return nil, err
	}
	if g.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	if g.Updated, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &g, nil
}

// === Plans ===

// GetPlan assembles the plan of a goal. Returns nil if the goal has none.
func (s *Store) GetPlan(goalID string) (*domain.Plan, error) {
	plan := &domain.Plan{GoalID: goalID}

	rows, err := s.db.Query(s.rebind(`
SELECT id, goal_id, title, position, created_at FROM phases
WHERE goal_id = ? ORDER BY position, id`), goalID)
	if err != nil {
		return nil, fmt.Errorf("list phases: %w", err)
	}
	for rows.Next() {
		var (
			p       domain.Phase
			created string
		)
		if err := rows.Scan(&p.ID, &p.GoalID, &p.Title, &p.Position, &created); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan phase: %w", err)
		}
		if p.Created, err = parseTime(created); err != nil {
			_ = rows.Close()
			return nil, err
		}
		plan.Phases = append(plan.Phases, &p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	if len(plan.Phases) == 0 {
		return nil, nil
	}

	rows, err = s.db.Query(s.rebind(`
SELECT id, phase_id, goal_id, title, position, created_at FROM milestones
WHERE goal_id = ? ORDER BY position, id`), goalID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	for rows.Next() {
		var (
			m       domain.Milestone
			created string
		)
		if err := rows.Scan(&m.ID, &m.PhaseID, &m.GoalID, &m.Title, &m.Position, &created); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		if m.Created, err = parseTime(created); err != nil {
			_ = rows.Close()
			return nil, err
		}
		plan.Milestones = append(plan.Milestones, &m)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	if plan.Clusters, err = s.ListClusters(domain.ClusterFilter{GoalID: goalID}); err != nil {
		return nil, err
	}
	if plan.Jobs, err = s.ListJobs(domain.JobFilter{GoalID: goalID}); err != nil {
		return nil, err
	}
	return plan, nil
}

// SavePlan replaces the plan of plan.GoalID in one transaction. Jobs and
// sessions of the old plan are removed; new jobs get a creation event.
func (s *Store) SavePlan(plan *domain.Plan) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := s.deletePlan(tx, plan.GoalID); err != nil {
			return err
		}

		for _, p := range plan.Phases {
			err := s.exec(tx, `INSERT INTO phases (id, goal_id, title, position, created_at) VALUES (?, ?, ?, ?, ?)`,
				p.ID, p.GoalID, p.Title, p.Position, formatTime(p.Created))
			if err != nil {
				return fmt.Errorf("insert phase: %w", err)
			}
		}
		for _, m := range plan.Milestones {
			err := s.exec(tx, `INSERT INTO milestones (id, phase_id, goal_id, title, position, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
				m.ID, m.PhaseID, m.GoalID, m.Title, m.Position, formatTime(m.Created))
			if err != nil {
				return fmt.Errorf("insert milestone: %w", err)
			}
		}
		for _, c := range plan.Clusters {
			err := s.exec(tx, `INSERT INTO job_clusters (id, milestone_id, goal_id, title, created_at) VALUES (?, ?, ?, ?, ?)`,
				c.ID, c.MilestoneID, c.GoalID, c.Title, formatTime(c.Created))
			if err != nil {
				return fmt.Errorf("insert cluster: %w", err)
			}
		}
		for _, j := range plan.Jobs {
			if err := s.upsertJob(tx, j); err != nil {
				return err
			}
			if err := s.insertJobEvent(tx, j.ID, "", j.Status); err != nil {
				return err
			}
		}
		return nil
	})
}

// deletePlan removes every plan row of a goal, including job history.
func (s *Store) deletePlan(tx *sql.Tx, goalID string) error {
	stmts := []string{
		`DELETE FROM work_sessions WHERE job_id IN (SELECT id FROM jobs WHERE goal_id = ?)`,
		`DELETE FROM job_events WHERE job_id IN (SELECT id FROM jobs WHERE goal_id = ?)`,
		`DELETE FROM jobs WHERE goal_id = ?`,
		`DELETE FROM job_clusters WHERE goal_id = ?`,
		`DELETE FROM milestones WHERE goal_id = ?`,
		`DELETE FROM phases WHERE goal_id = ?`,
	}
	for _, stmt := range stmts {
		if err := s.exec(tx, stmt, goalID); err != nil {
			return fmt.Errorf("delete plan: %w", err)
		}
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the top level of a goal's plan.
type Phase struct {
	Created  time.Time `json:"created"`
	ID       string    `json:"id"`
	GoalID   string    `json:"goalID"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
}

// Milestone is a checkpoint inside a phase.
type Milestone struct {
	Created  time.Time `json:"created"`
	ID       string    `json:"id"`
	PhaseID  string    `json:"phaseID"`
	GoalID   string    `json:"goalID"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
}

// Plan is the full hierarchy generated for one goal, stored flat.
type Plan struct {
	GoalID     string
	Phases     []*Phase
	Milestones []*Milestone
	Clusters   []*JobCluster
	Jobs       []*Job
}

// IsEmpty returns true if the plan has no phases.
func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.Phases) == 0
}

// MilestonesOf returns the milestones of a phase in position order.
func (p *Plan) MilestonesOf(phaseID string) []*Milestone {
	var out []*Milestone
	for _, m := range p.Milestones {
		if m.PhaseID == phaseID {
			out = append(out, m)
		}
	}
	return out
}

// ClustersOf returns the clusters of a milestone.
func (p *Plan) ClustersOf(milestoneID string) []*JobCluster {
	var out []*JobCluster
	for _, c := range p.Clusters {
		if c.MilestoneID == milestoneID {
			out = append(out, c)
		}
	}
	return out
}

// JobsOf returns the jobs of a cluster.
func (p *Plan) JobsOf(clusterID string) []*Job {
	var out []*Job
	for _, j := range p.Jobs {
		if j.ClusterID == clusterID {
			out = append(out, j)
		}
	}
	return out
}

// PlanDraft is a generated plan before ids and timestamps are assigned.
type PlanDraft struct {
	Template string       `yaml:"name"`
	Phases   []PhaseDraft `yaml:"phases"`
}

// PhaseDraft is a phase inside a PlanDraft.
type PhaseDraft struct {
	Title      string           `yaml:"title"`
	Milestones []MilestoneDraft `yaml:"milestones"`
}

// MilestoneDraft is a milestone inside a PhaseDraft.
type MilestoneDraft struct {
	Title    string         `yaml:"title"`
	Clusters []ClusterDraft `yaml:"clusters"`
}

// ClusterDraft is a job cluster inside a MilestoneDraft.
type ClusterDraft struct {
	Title string     `yaml:"title"`
	Jobs  []JobDraft `yaml:"jobs"`
}

// JobDraft is a job inside a ClusterDraft.
type JobDraft struct {
	Title     string  `yaml:"title"`
	Type      JobType `yaml:"type"`
	Minutes   int     `yaml:"minutes"`
	DueInDays int     `yaml:"due_in_days,omitempty"`
}

// DefaultJobMinutes is used when a draft job has no estimate.
const DefaultJobMinutes = 25

// Validate checks that the draft can be materialized.
func (d *PlanDraft) Validate() error {
	if len(d.Phases) == 0 {
		return fmt.Errorf("%w: no phases", ErrInvalidPlan)
	}
	for pi, ph := range d.Phases {
		if strings.TrimSpace(ph.Title) == "" {
			return fmt.Errorf("%w: phase %d has no title", ErrInvalidPlan, pi+1)
		}
		for _, ms := range ph.Milestones {
			if strings.TrimSpace(ms.Title) == "" {
				return fmt.Errorf("%w: milestone in %q has no title", ErrInvalidPlan, ph.Title)
			}
			for _, cl := range ms.Clusters {
				if strings.TrimSpace(cl.Title) == "" {
					return fmt.Errorf("%w: cluster in %q has no title", ErrInvalidPlan, ms.Title)
				}
				for _, jd := range cl.Jobs {
					if strings.TrimSpace(jd.Title) == "" {
						return fmt.Errorf("%w: job in %q has no title", ErrInvalidPlan, cl.Title)
					}
					if !jd.Type.IsValid() {
						return fmt.Errorf("%w: job %q has type %q", ErrInvalidPlan, jd.Title, jd.Type)
					}
					if jd.Minutes < 0 {
						return fmt.Errorf("%w: job %q has negative estimate", ErrInvalidPlan, jd.Title)
					}
				}
			}
		}
	}
	return nil
}

// JobCount returns the number of jobs in the draft.
func (d *PlanDraft) JobCount() int {
	n := 0
	for _, ph := range d.Phases {
		for _, ms := range ph.Milestones {
			for _, cl := range ms.Clusters {
				n += len(cl.Jobs)
			}
		}
	}
	return n
}

// Materialize turns the draft into a Plan for the goal.
// Clusters and jobs get creation times spaced one millisecond apart in
// draft order, so creation order matches plan order.
func (d *PlanDraft) Materialize(goal *Goal, ids IDGenerator, now time.Time) *Plan {
	plan := &Plan{GoalID: goal.ID}
	tick := 0
	stamp := func() time.Time {
		t := now.Add(time.Duration(tick) * time.Millisecond)
		tick++
		return t
	}

	for pi, ph := range d.Phases {
		phase := &Phase{
			ID:       ids.NewID(),
			GoalID:   goal.ID,
			Title:    ph.Title,
			Position: pi + 1,
			Created:  now,
		}
		plan.Phases = append(plan.Phases, phase)

		for mi, ms := range ph.Milestones {
			milestone := &Milestone{
				ID:       ids.NewID(),
				PhaseID:  phase.ID,
				GoalID:   goal.ID,
				Title:    ms.Title,
				Position: mi + 1,
				Created:  now,
			}
			plan.Milestones = append(plan.Milestones, milestone)

			for _, cl := range ms.Clusters {
				cluster := &JobCluster{
					ID:          ids.NewID(),
					MilestoneID: milestone.ID,
					GoalID:      goal.ID,
					Title:       cl.Title,
					Created:     stamp(),
				}
				plan.Clusters = append(plan.Clusters, cluster)

				for _, jd := range cl.Jobs {
					minutes := jd.Minutes
					if minutes == 0 {
						minutes = DefaultJobMinutes
					}
					job := &Job{
						ID:               ids.NewID(),
						ClusterID:        cluster.ID,
						GoalID:           goal.ID,
						Title:            jd.Title,
						Type:             jd.Type,
						EstimatedMinutes: minutes,
						Status:           JobStatusPending,
						Created:          stamp(),
					}
					if jd.DueInDays > 0 {
						due := now.AddDate(0, 0, jd.DueInDays)
						job.Deadline = &due
					}
					plan.Jobs = append(plan.Jobs, job)
				}
			}
		}
	}
	return plan
}

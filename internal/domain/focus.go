package domain

import (
	"cmp"
	"slices"
)

// LowEnergyAdvice is shown when nothing fits a LOW energy state.
const LowEnergyAdvice = "Nothing fits your low energy right now. Break a larger job into a quick win to keep momentum."

// JobSelection is the filtered, ordered list of jobs to present.
type JobSelection struct {
	Message string // Advisory shown for an empty LOW selection, empty otherwise
	Jobs    []*Job
	Energy  EnergyState
	IsEmpty bool
}

// SelectJobs picks and orders the jobs to surface for the given energy state.
//
// ACTIVE jobs are always kept. PENDING jobs are kept when the energy state
// admits their type. Everything else is dropped. The result is ordered by
// status (ACTIVE first), then by the creation rank of the job's cluster when
// clusters are given (unknown clusters last), then by job creation time, and
// finally by ID. Inputs are not modified.
func SelectJobs(jobs []*Job, state EnergyState, clusters []*JobCluster) JobSelection {
	selected := make([]*Job, 0, len(jobs))
	for _, j := range jobs {
		if j == nil {
			continue
		}
		switch j.Status {
		case JobStatusActive:
			selected = append(selected, j)
		case JobStatusPending:
			if state.Admits(j.Type) {
				selected = append(selected, j)
			}
		}
	}

	rank, unknown := clusterRanks(clusters)
	rankOf := func(j *Job) int {
		if r, ok := rank[j.ClusterID]; ok {
			return r
		}
		return unknown
	}

	slices.SortStableFunc(selected, func(a, b *Job) int {
		if c := cmp.Compare(a.Status.priority(), b.Status.priority()); c != 0 {
			return c
		}
		if c := cmp.Compare(rankOf(a), rankOf(b)); c != 0 {
			return c
		}
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	sel := JobSelection{
		Jobs:    selected,
		Energy:  state,
		IsEmpty: len(selected) == 0,
	}
	if sel.IsEmpty && state == EnergyLow {
		sel.Message = LowEnergyAdvice
	}
	return sel
}

// clusterRanks maps cluster IDs to their position when sorted by creation
// time. The second result is the rank given to unknown clusters.
func clusterRanks(clusters []*JobCluster) (map[string]int, int) {
	sorted := make([]*JobCluster, 0, len(clusters))
	for _, c := range clusters {
		if c != nil {
			sorted = append(sorted, c)
		}
	}
	slices.SortStableFunc(sorted, func(a, b *JobCluster) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	ranks := make(map[string]int, len(sorted))
	for i, c := range sorted {
		if _, seen := ranks[c.ID]; !seen {
			ranks[c.ID] = i
		}
	}
	return ranks, len(sorted)
}

// SelectionSummary aggregates a selection for display.
type SelectionSummary struct {
	ByType       map[JobType]int
	Active       int
	Pending      int
	TotalMinutes int
}

// SummarizeSelection counts jobs by type and status and sums their estimates.
func SummarizeSelection(sel JobSelection) SelectionSummary {
	sum := SelectionSummary{ByType: make(map[JobType]int)}
	for _, j := range sel.Jobs {
		sum.ByType[j.Type]++
		sum.TotalMinutes += j.EstimatedMinutes
		if j.Status == JobStatusActive {
			sum.Active++
		} else {
			sum.Pending++
		}
	}
	return sum
}

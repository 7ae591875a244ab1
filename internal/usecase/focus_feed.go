package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/volition-os/volition/internal/domain"
)

// ChangeNotifier is told when job data changed so derived views can refresh.
type ChangeNotifier interface {
	JobsChanged(ctx context.Context)
}

// FocusFeed keeps a live focus list. It recomputes the selection whenever
// the energy state or the jobs change and pushes the result to subscribers.
// Fields are ordered to minimize memory padding.
type FocusFeed struct {
	goals       domain.GoalRepository
	jobs        domain.JobRepository
	logger      domain.Logger
	energy      *EnergySettings
	subscribers map[int]func(domain.JobSelection)
	unsubscribe func()
	goalID      string
	current     domain.JobSelection
	mu          sync.Mutex
	nextID      int
}

// NewFocusFeed creates a FocusFeed over all open goals and subscribes it to
// energy changes. Call Close to detach it.
func NewFocusFeed(goals domain.GoalRepository, jobs domain.JobRepository, energy *EnergySettings, logger domain.Logger) *FocusFeed {
	f := &FocusFeed{
		goals:       goals,
		jobs:        jobs,
		energy:      energy,
		logger:      logger,
		subscribers: make(map[int]func(domain.JobSelection)),
	}
	f.unsubscribe = energy.Subscribe(func(state domain.EnergyState) {
		if _, err := f.recompute(state); err != nil {
			f.logError(err)
		}
	})
	return f
}

// SetScope restricts the feed to one goal (empty = all open goals) and
// recomputes.
func (f *FocusFeed) SetScope(ctx context.Context, goalID string) (domain.JobSelection, error) {
	f.mu.Lock()
	f.goalID = goalID
	f.mu.Unlock()
	return f.Recompute(ctx)
}

// Scope returns the goal the feed is restricted to.
func (f *FocusFeed) Scope() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.goalID
}

// Recompute reloads jobs and the energy state, stores the new selection
// and notifies subscribers.
func (f *FocusFeed) Recompute(ctx context.Context) (domain.JobSelection, error) {
	state, err := f.energy.Get(ctx)
	if err != nil {
		return domain.JobSelection{}, err
	}
	return f.recompute(state)
}

func (f *FocusFeed) recompute(state domain.EnergyState) (domain.JobSelection, error) {
	sel, err := selectFocus(f.goals, f.jobs, f.Scope(), state)
	if err != nil {
		return domain.JobSelection{}, fmt.Errorf("recompute focus: %w", err)
	}

	f.mu.Lock()
	f.current = sel
	fns := make([]func(domain.JobSelection), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(sel)
	}
	return sel, nil
}

// JobsChanged implements ChangeNotifier.
func (f *FocusFeed) JobsChanged(ctx context.Context) {
	if _, err := f.Recompute(ctx); err != nil {
		f.logError(err)
	}
}

// Current returns the last computed selection.
func (f *FocusFeed) Current() domain.JobSelection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Subscribe registers fn to receive every new selection.
func (f *FocusFeed) Subscribe(fn func(domain.JobSelection)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subscribers[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subscribers, id)
	}
}

// Close detaches the feed from energy changes.
func (f *FocusFeed) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
	}
}

func (f *FocusFeed) logError(err error) {
	if f.logger != nil {
		f.logger.Error(f.Scope(), "focus", err.Error())
	}
}

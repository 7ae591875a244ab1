// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/volition-os/volition/internal/domain"
)

// EnergySettings owns the user's energy state.
// Reads fall back to a default until the user chooses a state, and every
// change is pushed to subscribers.
type EnergySettings struct {
	settings    domain.SettingsRepository
	logger      domain.Logger
	subscribers map[int]func(domain.EnergyState)
	fallback    domain.EnergyState
	mu          sync.Mutex
	nextID      int
}

// NewEnergySettings creates a new EnergySettings service.
// An invalid fallback is replaced with domain.DefaultEnergyState.
func NewEnergySettings(settings domain.SettingsRepository, fallback domain.EnergyState, logger domain.Logger) *EnergySettings {
	if !fallback.IsValid() {
		fallback = domain.DefaultEnergyState
	}
	return &EnergySettings{
		settings:    settings,
		logger:      logger,
		fallback:    fallback,
		subscribers: make(map[int]func(domain.EnergyState)),
	}
}

// Get returns the stored energy state, or the fallback when none is stored
// or the stored value is not recognised.
func (s *EnergySettings) Get(_ context.Context) (domain.EnergyState, error) {
	state, _, err := s.load()
	return state, err
}

// IsChosen reports whether the user has stored an energy state.
func (s *EnergySettings) IsChosen(_ context.Context) (bool, error) {
	_, chosen, err := s.load()
	return chosen, err
}

func (s *EnergySettings) load() (domain.EnergyState, bool, error) {
	value, ok, err := s.settings.GetSetting(domain.SettingEnergyState)
	if err != nil {
		return "", false, fmt.Errorf("get energy state: %w", err)
	}
	if !ok {
		return s.fallback, false, nil
	}
	state, err := domain.ParseEnergyState(value)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("", "energy", fmt.Sprintf("ignoring stored energy state %q", value))
		}
		return s.fallback, false, nil
	}
	return state, true, nil
}

// Set validates and stores the energy state. Subscribers are notified when
// the effective state changes.
func (s *EnergySettings) Set(ctx context.Context, state domain.EnergyState) error {
	if !state.IsValid() {
		return fmt.Errorf("%q: %w", state, domain.ErrInvalidEnergy)
	}

	prev, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if err := s.settings.SetSetting(domain.SettingEnergyState, string(state)); err != nil {
		return fmt.Errorf("save energy state: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("", "energy", fmt.Sprintf("energy state set to %s", state))
	}

	if prev != state {
		s.notify(state)
	}
	return nil
}

// Subscribe registers fn to be called after every change.
// The returned function removes the subscription.
func (s *EnergySettings) Subscribe(fn func(domain.EnergyState)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *EnergySettings) notify(state domain.EnergyState) {
	s.mu.Lock()
	fns := make([]func(domain.EnergyState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

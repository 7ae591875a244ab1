package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/volition-os/volition/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct{}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	TrialStartedAt     time.Time
	AlreadyInitialized bool // True if the store existed (schema repaired only)
}

// InitStore creates the data store and starts the trial clock.
type InitStore struct {
	storeInit domain.StoreInitializer
	settings  domain.SettingsRepository
	clock     domain.Clock
	logger    domain.Logger
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer, settings domain.SettingsRepository, clock domain.Clock, logger domain.Logger) *InitStore {
	return &InitStore{
		storeInit: storeInit,
		settings:  settings,
		clock:     clock,
		logger:    logger,
	}
}

// Execute initializes the store. Running it again is safe: the schema is
// re-applied and the original trial start is kept.
func (uc *InitStore) Execute(_ context.Context, _ InitStoreInput) (*InitStoreOutput, error) {
	already := uc.storeInit.IsInitialized()

	if err := uc.storeInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	startedAt, err := TrialStart(uc.settings)
	if err != nil {
		return nil, err
	}
	if startedAt.IsZero() {
		startedAt = uc.clock.Now().UTC()
		if err := uc.settings.SetSetting(domain.SettingTrialStartedAt, startedAt.Format(time.RFC3339Nano)); err != nil {
			return nil, fmt.Errorf("save trial start: %w", err)
		}
		if uc.logger != nil {
			uc.logger.Info("", "init", "store initialized, trial started")
		}
	}

	return &InitStoreOutput{
		AlreadyInitialized: already,
		TrialStartedAt:     startedAt,
	}, nil
}

// TrialStart reads the stored trial start. It returns the zero time when
// the trial has not started or the stored value is unreadable.
func TrialStart(settings domain.SettingsRepository) (time.Time, error) {
	value, ok, err := settings.GetSetting(domain.SettingTrialStartedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("get trial start: %w", err)
	}
	if !ok {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

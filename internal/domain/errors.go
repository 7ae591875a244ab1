package domain

import "errors"

// Domain errors.
var (
	ErrGoalNotFound       = errors.New("goal not found")
	ErrJobNotFound        = errors.New("job not found")
	ErrPlanNotFound       = errors.New("goal has no plan")
	ErrPlanExists         = errors.New("goal already has a plan (use --force to regenerate)")
	ErrInvalidPlan        = errors.New("invalid plan")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrSessionRunning     = errors.New("work session already running")
	ErrNoSession          = errors.New("no running work session")
	ErrJobNotActive       = errors.New("job is not active")
	ErrTooManyActive      = errors.New("too many active jobs")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrEmptyOutcome       = errors.New("scope outcome cannot be empty")
	ErrInvalidEnergy      = errors.New("invalid energy state (use HIGH, MED or LOW)")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrAmbiguousID        = errors.New("id prefix matches more than one record")
	ErrIDTooShort         = errors.New("id prefix must be at least 4 characters")
	ErrTemplateNotFound   = errors.New("plan template not found")
	ErrAlreadyInitialized = errors.New("volition already initialized")
	ErrNotInitialized     = errors.New("volition not initialized (run 'volition init' first)")
	ErrConfigExists       = errors.New("config file already exists")
	ErrUnknownStore       = errors.New("unknown store driver")
)

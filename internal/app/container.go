// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/infra/config"
	"github.com/volition-os/volition/internal/infra/httpapi"
	"github.com/volition-os/volition/internal/infra/idgen"
	"github.com/volition-os/volition/internal/infra/jsonstore"
	"github.com/volition-os/volition/internal/infra/logging"
	"github.com/volition-os/volition/internal/infra/planner"
	"github.com/volition-os/volition/internal/infra/sqlstore"
	"github.com/volition-os/volition/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	HomeDir string // Data home (store, logs, templates, home config)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store         domain.Store
	Clock         domain.Clock
	IDs           domain.IDGenerator
	Planner       domain.PlanGenerator
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	FileLogger    domain.Logger

	// Shared services
	Energy *usecase.EnergySettings
	Feed   *usecase.FocusFeed

	// Pointer fields
	Logger    *slog.Logger
	AppConfig *domain.Config

	closeLog func() error

	// Configuration
	Config Config
}

// New creates a Container for the data home, loading configuration and
// opening the configured store.
func New(homeDir string) (*Container, error) {
	cfg := Config{HomeDir: homeDir}

	configLoader := config.NewLoader(homeDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	clock := domain.RealClock{}
	store, err := OpenStore(appConfig.Store, clock)
	if err != nil {
		return nil, err
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	opts := []logging.Option{logging.WithClock(clock)}
	if level <= slog.LevelDebug {
		// Debug runs also echo the file log to stderr.
		opts = append(opts, logging.WithMirror(logger))
	}
	fileLogger := logging.New(homeDir, level, opts...)

	c := &Container{
		Store:         store,
		Clock:         clock,
		IDs:           idgen.UUID{},
		Planner:       planner.New(appConfig.Planner.TemplatesDir),
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(homeDir),
		FileLogger:    fileLogger,
		Logger:        logger,
		AppConfig:     appConfig,
		closeLog:      fileLogger.Close,
		Config:        cfg,
	}
	c.wireServices()
	return c, nil
}

// OpenStore opens the storage backend selected by cfg.
func OpenStore(cfg domain.StoreConfig, clock domain.Clock) (domain.Store, error) {
	var driver string
	switch cfg.Driver {
	case "", domain.StoreDriverJSON:
		return jsonstore.New(cfg.DSN, jsonstore.WithClock(clock)), nil
	case domain.StoreDriverSQLite:
		driver = sqlstore.DriverSQLite
	case domain.StoreDriverPostgres:
		driver = sqlstore.DriverPostgres
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Driver, domain.ErrUnknownStore)
	}

	store, err := sqlstore.Open(driver, cfg.DSN, clock)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	return store, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// configLoader may be nil, in which case defaults are used. The config
// manager only knows the home config.
func NewWithDeps(
	cfg Config,
	store domain.Store,
	clock domain.Clock,
	ids domain.IDGenerator,
	plans domain.PlanGenerator,
	configLoader domain.ConfigLoader,
	logger *slog.Logger,
) *Container {
	appConfig := domain.NewDefaultConfig()
	if configLoader != nil {
		if loaded, err := configLoader.Load(); err == nil {
			appConfig = loaded
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Container{
		Store:         store,
		Clock:         clock,
		IDs:           ids,
		Planner:       plans,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManagerWithGlobalDir(cfg.HomeDir, ""),
		Logger:        logger,
		AppConfig:     appConfig,
		Config:        cfg,
	}
	c.wireServices()
	return c
}

func (c *Container) wireServices() {
	c.Energy = usecase.NewEnergySettings(c.Store, c.AppConfig.DefaultEnergy(), c.FileLogger)
	c.Feed = usecase.NewFocusFeed(c.Store, c.Store, c.Energy, c.FileLogger)
}

// Close detaches the focus feed and releases the store and log files.
func (c *Container) Close() error {
	c.Feed.Close()
	var errs []error
	if err := c.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.closeLog != nil {
		if err := c.closeLog(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.Store, c.Store, c.Clock, c.FileLogger)
}

// NewGoalUseCase returns a new NewGoal use case.
func (c *Container) NewGoalUseCase() *usecase.NewGoal {
	return usecase.NewNewGoal(c.Store, c.IDs, c.Clock, c.FileLogger)
}

// ListGoalsUseCase returns a new ListGoals use case.
func (c *Container) ListGoalsUseCase() *usecase.ListGoals {
	return usecase.NewListGoals(c.Store, c.Store)
}

// ShowGoalUseCase returns a new ShowGoal use case.
func (c *Container) ShowGoalUseCase() *usecase.ShowGoal {
	return usecase.NewShowGoal(c.Store, c.Store)
}

// DefineScopeUseCase returns a new DefineScope use case.
func (c *Container) DefineScopeUseCase() *usecase.DefineScope {
	return usecase.NewDefineScope(c.Store, c.Clock, c.FileLogger)
}

// GeneratePlanUseCase returns a new GeneratePlan use case.
func (c *Container) GeneratePlanUseCase() *usecase.GeneratePlan {
	return usecase.NewGeneratePlan(c.Store, c.Store, c.Planner, c.IDs, c.Clock, c.FileLogger, c.Feed)
}

// AbandonGoalUseCase returns a new AbandonGoal use case.
func (c *Container) AbandonGoalUseCase() *usecase.AbandonGoal {
	return usecase.NewAbandonGoal(c.Store, c.Store, c.Store, c.Clock, c.FileLogger, c.Feed)
}

// AchieveGoalUseCase returns a new AchieveGoal use case.
func (c *Container) AchieveGoalUseCase() *usecase.AchieveGoal {
	return usecase.NewAchieveGoal(c.Store, c.Store, c.Store, c.Clock, c.FileLogger, c.Feed)
}

// FocusJobsUseCase returns a new FocusJobs use case.
func (c *Container) FocusJobsUseCase() *usecase.FocusJobs {
	return usecase.NewFocusJobs(c.Store, c.Store, c.Energy)
}

// StartJobUseCase returns a new StartJob use case.
func (c *Container) StartJobUseCase() *usecase.StartJob {
	return usecase.NewStartJob(c.Store, c.Store, c.Store, c.configLoader(), c.Clock, c.FileLogger, c.Feed)
}

// CompleteJobUseCase returns a new CompleteJob use case.
func (c *Container) CompleteJobUseCase() *usecase.CompleteJob {
	return usecase.NewCompleteJob(c.Store, c.Store, c.Clock, c.FileLogger, c.Feed)
}

// FailJobUseCase returns a new FailJob use case.
func (c *Container) FailJobUseCase() *usecase.FailJob {
	return usecase.NewFailJob(c.Store, c.Store, c.Clock, c.FileLogger, c.Feed)
}

// DeferJobUseCase returns a new DeferJob use case.
func (c *Container) DeferJobUseCase() *usecase.DeferJob {
	return usecase.NewDeferJob(c.Store, c.Store, c.Clock, c.FileLogger, c.Feed)
}

// RetryJobUseCase returns a new RetryJob use case.
func (c *Container) RetryJobUseCase() *usecase.RetryJob {
	return usecase.NewRetryJob(c.Store, c.Store, c.Clock, c.FileLogger, c.Feed)
}

// StartSessionUseCase returns a new StartSession use case.
func (c *Container) StartSessionUseCase() *usecase.StartSession {
	return usecase.NewStartSession(c.Store, c.Store, c.Clock, c.FileLogger)
}

// StopSessionUseCase returns a new StopSession use case.
func (c *Container) StopSessionUseCase() *usecase.StopSession {
	return usecase.NewStopSession(c.Store, c.Store, c.Clock, c.FileLogger)
}

// ShowTimerUseCase returns a new ShowTimer use case.
func (c *Container) ShowTimerUseCase() *usecase.ShowTimer {
	return usecase.NewShowTimer(c.Store, c.Store, c.Clock)
}

// JobHistoryUseCase returns a new JobHistory use case.
func (c *Container) JobHistoryUseCase() *usecase.JobHistory {
	return usecase.NewJobHistory(c.Store, c.Store)
}

// OnboardingUseCase returns a new Onboarding use case.
func (c *Container) OnboardingUseCase() *usecase.Onboarding {
	return usecase.NewOnboarding(c.Store, c.Store, c.Store, c.Store, c.Energy, c.configLoader(), c.Clock)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.configLoader())
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// HTTPServices returns the use cases served by the HTTP API.
func (c *Container) HTTPServices() httpapi.Services {
	return httpapi.Services{
		NewGoal:      c.NewGoalUseCase(),
		ListGoals:    c.ListGoalsUseCase(),
		ShowGoal:     c.ShowGoalUseCase(),
		DefineScope:  c.DefineScopeUseCase(),
		GeneratePlan: c.GeneratePlanUseCase(),
		AbandonGoal:  c.AbandonGoalUseCase(),
		AchieveGoal:  c.AchieveGoalUseCase(),
		FocusJobs:    c.FocusJobsUseCase(),
		Energy:       c.Energy,
		StartJob:     c.StartJobUseCase(),
		CompleteJob:  c.CompleteJobUseCase(),
		FailJob:      c.FailJobUseCase(),
		DeferJob:     c.DeferJobUseCase(),
		RetryJob:     c.RetryJobUseCase(),
		StartSession: c.StartSessionUseCase(),
		StopSession:  c.StopSessionUseCase(),
		ShowTimer:    c.ShowTimerUseCase(),
		JobHistory:   c.JobHistoryUseCase(),
		Onboarding:   c.OnboardingUseCase(),
	}
}

// configLoader returns the loader, or one serving the container's config.
func (c *Container) configLoader() domain.ConfigLoader {
	if c.ConfigLoader != nil {
		return c.ConfigLoader
	}
	return staticLoader{cfg: c.AppConfig}
}

type staticLoader struct {
	cfg *domain.Config
}

func (s staticLoader) Load() (*domain.Config, error)       { return s.cfg, nil }
func (s staticLoader) LoadGlobal() (*domain.Config, error) { return s.cfg, nil }

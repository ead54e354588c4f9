package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	grpcadapter "github.com/andrescamacho/focusplanner/internal/adapters/grpc"
	"github.com/andrescamacho/focusplanner/internal/adapters/persistence"
	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	planningCommands "github.com/andrescamacho/focusplanner/internal/application/planning/commands"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/application/setup"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/database"
	infralogging "github.com/andrescamacho/focusplanner/internal/infrastructure/logging"
)

// app is the in-process wiring shared by every local command
type app struct {
	cfg      *config.Config
	logger   *infralogging.Logger
	db       *gorm.DB
	book     *recipes.Book
	mediator mediator.Mediator
}

// loadConfig loads the system config, forcing debug logs with --verbose
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newApp connects to the recipe book database and builds the mediator
func newApp(ctx context.Context) (*app, context.Context, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, ctx, err
	}

	logger, err := infralogging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, ctx, err
	}
	ctx = logging.WithLogger(ctx, logger)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Close()
		return nil, ctx, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		logger.Close()
		return nil, ctx, fmt.Errorf("failed to migrate database: %w", err)
	}

	book := recipes.NewBook(persistence.NewGormRecipeRepository(db))
	if _, err := book.Load(ctx); err != nil {
		database.Close(db)
		logger.Close()
		return nil, ctx, err
	}

	registry := setup.NewHandlerRegistry(book, nil, persistence.NewGormPlanRunRepository(db), setup.PlannerOptions(cfg))
	med, err := registry.CreateConfiguredMediator(logging.Middleware())
	if err != nil {
		database.Close(db)
		logger.Close()
		return nil, ctx, fmt.Errorf("failed to configure mediator: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		book:     book,
		mediator: med,
	}, ctx, nil
}

// Close releases the database and log file
func (a *app) Close() {
	database.Close(a.db)
	a.logger.Close()
}

// withApp runs fn against a freshly wired app
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	a, ctx, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

// plannerSession answers plan commands locally or through the daemon.
// History is only recorded locally; the daemon records its own.
type plannerSession struct {
	planner planning.Planner
	app     *app
}

// record stores a plan history entry; failures only warn
func (s *plannerSession) record(ctx context.Context, cmd *planningCommands.RecordPlanRunCommand) {
	if s.app == nil {
		return
	}
	if _, err := s.app.mediator.Send(ctx, cmd); err != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarn, "failed to record plan run", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// withPlanner runs fn with a local planner, or a daemon client when --daemon is set
func withPlanner(ctx context.Context, fn func(ctx context.Context, session *plannerSession) error) error {
	if !useDaemon {
		return withApp(ctx, func(ctx context.Context, a *app) error {
			return fn(ctx, &plannerSession{
				planner: grpcadapter.NewPlannerClientLocal(a.mediator),
				app:     a,
			})
		})
	}

	client, err := dialDaemon()
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, &plannerSession{planner: client})
}

// dialDaemon connects to the daemon at --daemon-addr or daemon.address
func dialDaemon() (*grpcadapter.PlannerClientGRPC, error) {
	address := daemonAddr
	if address == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		address = cfg.Daemon.Address
	}
	return grpcadapter.NewPlannerClientGRPC(address)
}

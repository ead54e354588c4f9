package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	grpcadapter "github.com/andrescamacho/focusplanner/internal/adapters/grpc"
	"github.com/andrescamacho/focusplanner/internal/adapters/metrics"
	"github.com/andrescamacho/focusplanner/internal/adapters/persistence"
	"github.com/andrescamacho/focusplanner/internal/adapters/recipefile"
	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/application/setup"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/database"
	infralogging "github.com/andrescamacho/focusplanner/internal/infrastructure/logging"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Focus Planner Daemon v0.1.0")
	fmt.Println("===========================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	err := pf.Acquire()
	if err != nil {
		if *forceFlag {
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(cfg.Daemon.ShutdownTimeout); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger, err := infralogging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	ctx := logging.WithLogger(context.Background(), logger)

	// 1. Setup database connection
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Load the recipe book
	book := recipes.NewBook(persistence.NewGormRecipeRepository(db))
	result, err := book.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recipe book: %w", err)
	}
	if result.Loaded == 0 && cfg.Planner.RecipeFile != "" {
		if result, err = seedBook(ctx, book, cfg.Planner.RecipeFile); err != nil {
			return err
		}
	}
	fmt.Printf("Recipe book loaded (%d recipes, %d skipped)\n", result.Loaded, len(result.Dropped))

	// 3. Snapshot holder swapped on reload
	graphs := grpcadapter.NewGraphHolder(book.Graph())

	// 4. Metrics
	var middlewares []mediator.Middleware
	if cfg.Metrics.Enabled {
		stop, metricMiddlewares, err := startMetrics(ctx, cfg.Metrics, graphs)
		if err != nil {
			return err
		}
		defer stop()
		middlewares = append(middlewares, metricMiddlewares...)
	}
	middlewares = append(middlewares, logging.Middleware())

	// 5. Mediator
	registry := setup.NewHandlerRegistry(book, graphs, persistence.NewGormPlanRunRepository(db), setup.PlannerOptions(cfg))
	med, err := registry.CreateConfiguredMediator(middlewares...)
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}

	// 6. Daemon server
	listener, err := grpcadapter.Listen(cfg.Daemon.Address)
	if err != nil {
		return err
	}
	fmt.Printf("Starting daemon server on: %s\n", listener.Addr())

	daemonServer := grpcadapter.NewDaemonServer(med, book, graphs, listener, grpcadapter.ServerOptions{
		Logger:          logger,
		RateLimit:       cfg.Daemon.RateLimit,
		ShutdownTimeout: cfg.Daemon.ShutdownTimeout,
		RecordRuns:      true,
	})

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	// Start serving (blocks until shutdown)
	if err := daemonServer.Start(); err != nil {
		return fmt.Errorf("daemon server error: %w", err)
	}

	fmt.Println("\nDaemon stopped")
	return nil
}

// seedBook imports the configured recipe file into an empty book
func seedBook(ctx context.Context, book *recipes.Book, path string) (recipe.LoadResult, error) {
	fmt.Printf("Recipe book is empty, importing %s...\n", path)
	records, err := recipefile.ReadFile(path)
	if err != nil {
		return recipe.LoadResult{}, fmt.Errorf("failed to read recipe file: %w", err)
	}
	result, err := book.Import(ctx, records, true)
	if err != nil {
		return recipe.LoadResult{}, fmt.Errorf("failed to import recipe file: %w", err)
	}
	return result, nil
}

// startMetrics registers collectors and serves the Prometheus endpoint
func startMetrics(ctx context.Context, cfg config.MetricsConfig, graphs *grpcadapter.GraphHolder) (func(), []mediator.Middleware, error) {
	metrics.InitRegistry()

	commandCollector := metrics.NewCommandMetricsCollector()
	if err := commandCollector.Register(); err != nil {
		return nil, nil, fmt.Errorf("failed to register command metrics: %w", err)
	}

	plannerCollector := metrics.NewPlannerMetricsCollector(graphs.Len)
	if err := plannerCollector.Register(); err != nil {
		return nil, nil, fmt.Errorf("failed to register planner metrics: %w", err)
	}
	metrics.SetGlobalPlannerCollector(plannerCollector)
	plannerCollector.Start(ctx, 15*time.Second)

	server := metrics.NewServer(cfg)
	if err := server.Start(); err != nil {
		plannerCollector.Stop()
		return nil, nil, err
	}
	fmt.Printf("Metrics available at http://%s%s\n", server.Addr(), server.Path())

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		plannerCollector.Stop()
	}

	return stop, []mediator.Middleware{
		metrics.PrometheusMiddleware(commandCollector),
		metrics.PlannerMiddleware(plannerCollector),
	}, nil
}

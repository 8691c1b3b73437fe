package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/careerplan/internal/cli"
	"github.com/alexanderramin/careerplan/internal/config"
	"github.com/alexanderramin/careerplan/internal/db"
	"github.com/alexanderramin/careerplan/internal/httpapi"
	"github.com/alexanderramin/careerplan/internal/intelligence"
	"github.com/alexanderramin/careerplan/internal/llm"
	"github.com/alexanderramin/careerplan/internal/logger"
	"github.com/alexanderramin/careerplan/internal/metrics"
	"github.com/alexanderramin/careerplan/internal/repository"
	"github.com/alexanderramin/careerplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Wire storage
	plans, profiles, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, serving from the store only", zap.String("addr", cfg.Cache.Addr), zap.Error(err))
		} else {
			plans = repository.NewCachedPlanRepo(plans, repository.NewRedisCache(rdb), cfg.Cache.TTL, log)
		}
	}

	// Wire generation
	m := metrics.New(true)
	var observer llm.Observer = m
	if cfg.LLM.LogCalls {
		observer = llm.MultiObserver{llm.NewLogObserver(log), m}
	}
	client, err := llm.NewClient(cfg.LLM, observer)
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}
	generator := intelligence.NewPlanGenerator(client, log)
	interpreter := intelligence.NewUpdateInterpreter(client, log)

	// Wire services
	engine := service.NewCascadeEngine(generator, plans, nil, log, m)
	planSvc := service.NewPlanService(engine, interpreter, plans, profiles, nil, service.NewLogUseCaseObserver(log))

	app := &cli.App{
		Plans: planSvc,
		Serve: func(ctx context.Context) error {
			return serve(ctx, cfg, planSvc, m, log)
		},
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.PlanRepo, repository.UserProfileRepo, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.Store.Postgres, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewPostgresPlanRepo(pool), repository.NewPostgresUserProfileRepo(pool), pool.Close, nil
	default:
		database, err := db.OpenDB(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening database: %w", err)
		}
		log.Info("using sqlite store", zap.String("path", cfg.Store.SQLitePath))
		return repository.NewSQLitePlanRepo(database), repository.NewSQLiteUserProfileRepo(database), func() { _ = database.Close() }, nil
	}
}

// serve runs the API and, when configured, a dedicated metrics listener.
// The first listener to fail stops the other.
func serve(ctx context.Context, cfg *config.Config, plans service.PlanService, m *metrics.Metrics, log *zap.Logger) error {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	separateMetrics := cfg.Metrics.Enabled && cfg.Metrics.Addr != ""
	router := httpapi.NewRouter(httpapi.RouterConfig{
		PlanHandler:       httpapi.NewPlanHandler(plans),
		Log:               log,
		Metrics:           m,
		MetricsPath:       cfg.Metrics.Path,
		NoMetricsEndpoint: !cfg.Metrics.Enabled || separateMetrics,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.NewServer(cfg.Server, router, log).Run(gctx)
	})
	if separateMetrics {
		metricsCfg := config.ServerConfig{Addr: cfg.Metrics.Addr, ShutdownTimeout: cfg.Server.ShutdownTimeout}
		g.Go(func() error {
			return httpapi.NewServer(metricsCfg, m.Handler(), log.Named("metrics")).Run(gctx)
		})
	}
	return g.Wait()
}

package app

import (
	"context"
	"errors"
	"time"

	"misterhr/internal/agent"
	"misterhr/internal/ai"
	"misterhr/internal/cache"
	"misterhr/internal/config"
	"misterhr/internal/database"
	"misterhr/internal/database/migration"
	dbpostgres "misterhr/internal/database/postgres"
	"misterhr/internal/enrich"
	"misterhr/internal/logger"
	"misterhr/internal/pkg/jwt"
	"misterhr/internal/queue"
	"misterhr/internal/repository"
	"misterhr/internal/usecase"
	"misterhr/internal/ws"

	"go.uber.org/zap"
)

// Container wires the shared dependencies of the HTTP server and the
// batch worker.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	Queue *queue.RabbitMQ

	JWT jwt.Service

	Hub          *ws.Hub
	Orchestrator *agent.Orchestrator

	AuthUC        usecase.AuthUsecase
	ResumeUC      usecase.ResumeUsecase
	JobUC         usecase.JobUsecase
	MatchingUC    usecase.MatchingUsecase
	ApplicationUC usecase.ApplicationUsecase

	// BatchUC is the concrete service so the worker can reach Process.
	BatchUC *usecase.BatchService
}

func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	log, err := logger.New(cfg.App.LogJSON, cfg.App.LogDebug)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: cfg.Database.MigrationsDir}).Run(ctx, db.SQLDB()); err != nil {
		db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, log)

	mq, err := queue.Connect(cfg.Queue, log)
	if err != nil {
		if !errors.Is(err, queue.ErrNotConnected) {
			db.Close()
			return nil, err
		}
		log.Warn("queue disabled, batch matching unavailable")
		mq = nil
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	gen, err := ai.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		db.Close()
		return nil, err
	}

	var verifier agent.Verifier
	if cfg.Enrich.Enabled {
		verifier = enrich.NewVerifier(cfg.Enrich.RequestTimeout, cfg.Enrich.HeadlessEnabled, log)
	}

	hub := ws.NewHub(log)

	analyzer := agent.NewJDAnalyzer(gen, cfg.LLM.Timeout, log)
	matcher := agent.NewMatcher()

	enricher := agent.NewEnricher(verifier)

	orchestrator := agent.NewOrchestrator(
		agent.NewResumeParser(gen, cfg.LLM.Timeout, log),
		analyzer,
		matcher,
		agent.NewContentGenerator(gen, cfg.LLM.Timeout, log),
		enricher,
		ws.NewNotifier(hub),
		cfg.Agent.BatchSize,
		log,
	)

	userRepo := repository.NewPostgresUserRepository(db)
	resumeRepo := repository.NewPostgresResumeRepository(db)
	jobRepo := repository.NewPostgresJobRepository(db)
	applicationRepo := repository.NewPostgresApplicationRepository(db)
	batchRepo := repository.NewPostgresBatchRepository(db)

	return &Container{
		Config: cfg,
		Logger: log,

		DB:    db,
		Cache: redisCache,
		Queue: mq,

		JWT: jwtSvc,

		Hub:          hub,
		Orchestrator: orchestrator,

		AuthUC:        usecase.NewAuthUsecase(userRepo, jwtSvc),
		ResumeUC:      usecase.NewResumeUsecase(resumeRepo, orchestrator, enricher, log),
		JobUC:         usecase.NewJobUsecase(jobRepo, analyzer, redisCache, log),
		MatchingUC:    usecase.NewMatchingUsecase(resumeRepo, jobRepo, analyzer, matcher),
		ApplicationUC: usecase.NewApplicationUsecase(applicationRepo, resumeRepo, jobRepo, orchestrator, log),
		BatchUC:       usecase.NewBatchUsecase(batchRepo, resumeRepo, jobRepo, mq, orchestrator, redisCache, log),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("queue close failed", zap.Error(err))
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("cache close failed", zap.Error(err))
		}
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

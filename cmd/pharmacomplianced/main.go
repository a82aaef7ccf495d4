package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/async"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/controlled"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/errdetect"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/export"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/fields"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/normalize"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/pipeline"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/repository"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/rules"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/server"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/translate"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	if err := repository.EnsureSchema(ctx, pool, logger); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	ref, err := refdata.Load(cfg.RefData.DictionaryPath)
	if err != nil {
		logger.Error("reference data load failed", "error", err)
		os.Exit(1)
	}

	documents := repository.NewDocumentRepository(pool, logger)
	results := repository.NewResultRepository(pool, logger)
	ruleRepo := repository.NewRuleRepository(pool, logger)
	analytics := repository.NewAnalyticsRepository(pool, logger)

	store := rules.NewStore(ruleRepo, logger)
	if err := store.Refresh(ctx); err != nil {
		logger.Warn("initial rule snapshot load failed", "error", err)
	}
	go store.Run(ctx, cfg.Pipeline.RuleRefreshInterval)

	translator := translate.NewClient(cfg.Translate.Endpoint, cfg.Translate.Timeout, logger,
		translate.WithChunkSize(cfg.Translate.ChunkSize),
		translate.WithRetries(cfg.Translate.MaxRetries, cfg.Translate.RetryDelay),
	)

	processor := pipeline.NewProcessor(
		logger,
		normalize.NewNormalizer(translator, logger),
		fields.NewExtractor(ref, cfg.Pipeline.DefaultOCRConfidence, logger),
		rules.NewEngine(logger),
		errdetect.NewDetector(errdetect.Config{
			LowConfidence:   cfg.Pipeline.LowConfidence,
			FuzzyAcceptance: cfg.Pipeline.FuzzyAcceptance,
		}, ref, logger),
		controlled.NewClassifier(ref, cfg.Pipeline.ControlledMinScore, logger),
		store,
	)

	exporter := export.NewService(documents, results, logger)
	svc := server.NewService(pool, documents, results, ruleRepo, analytics, processor, store, exporter, logger)

	queue := async.NewQueue(svc, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)
	svc.SetQueue(queue)

	srv := server.New(cfg.Server, svc, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}

	shutdownCtx := context.Background()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}

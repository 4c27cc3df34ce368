package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reelbeat/reelbeat-engine/internal/api"
	"github.com/reelbeat/reelbeat-engine/internal/beats"
	"github.com/reelbeat/reelbeat-engine/internal/clock"
	"github.com/reelbeat/reelbeat-engine/internal/config"
	"github.com/reelbeat/reelbeat-engine/internal/db"
	"github.com/reelbeat/reelbeat-engine/internal/export"
	"github.com/reelbeat/reelbeat-engine/internal/generate"
	"github.com/reelbeat/reelbeat-engine/internal/library"
	"github.com/reelbeat/reelbeat-engine/internal/logging"
	"github.com/reelbeat/reelbeat-engine/internal/media"
	"github.com/reelbeat/reelbeat-engine/internal/preview"
	"github.com/reelbeat/reelbeat-engine/internal/project"
	"github.com/reelbeat/reelbeat-engine/internal/render"
)

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting reelbeat engine",
		"version", config.Version,
		"data_dir", logging.SanitizePath(cfg.DataDir()),
		"port", cfg.Port(),
	)

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	projectRepo := project.NewRepository(database.Conn())
	projectSvc := project.NewService(projectRepo, logging.WithComponent(logger, "projects"))
	librarySvc := library.NewService(library.NewRepository(database.Conn()), logging.WithComponent(logger, "library"))

	var renderClient render.Client
	if cfg.RenderURL() != "" {
		renderClient = render.NewHTTPClient(cfg.RenderURL(), cfg.RenderToken(), logger)
		logger.Info("render service configured",
			"url", cfg.RenderURL(),
			"token", logging.SanitizeToken(cfg.RenderToken()),
		)
	} else {
		renderClient = render.NewStubClient(logger)
		logger.Warn("no render service configured, exports will use the stub backend")
	}

	clk := clock.NewReal()
	orchestrator := export.NewOrchestrator(renderClient, clk, logger)
	batch := generate.NewBatch(renderClient, clk, logger)

	runner := project.NewRunner(projectSvc, projectRepo, orchestrator, batch, logging.WithComponent(logger, "jobs"))
	if budget := int(cfg.ExportTimeout() / (5 * time.Second)); budget > 0 {
		runner.SetExportBudget(budget)
	}

	server := api.NewServer(api.ServerConfig{
		Port:           cfg.Port(),
		ProjectService: projectSvc,
		LibraryService: librarySvc,
		MediaServer:    media.NewServer(logger),
		Runner:         runner,
		BeatAnalyzer:   beats.NewAnalyzer(beats.NewWAVDecoder(), logger),
		Preview:        preview.NewRenderer(preview.NewStubExtractor(logger), preview.QualityMedium, cfg.PreviewResolution(), logger),
		Logger:         logger,
		StartTime:      startTime,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		runner.Start(gctx)
		return nil
	})

	g.Go(func() error {
		if err := librarySvc.WatchAll(gctx, func(kind, path string) {
			logger.Debug("library change", "kind", kind, "path", logging.SanitizePath(path))
		}); err != nil && gctx.Err() == nil {
			logger.Warn("library watcher exited", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		return server.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

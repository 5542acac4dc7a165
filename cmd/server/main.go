package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"verigate/internal/calibration/recorder"
	"verigate/internal/calibration/store"
	"verigate/internal/kyc/detector/backends"
	"verigate/internal/kyc/handler"
	kycmetrics "verigate/internal/kyc/metrics"
	"verigate/internal/kyc/portrait"
	"verigate/internal/kyc/service"
	"verigate/internal/kyc/threshold"
	"verigate/internal/platform/config"
	"verigate/internal/platform/httpserver"
	"verigate/internal/platform/logger"
	httpmetrics "verigate/internal/platform/metrics"
	"verigate/internal/platform/redis"
	"verigate/pkg/platform/httputil"
	"verigate/pkg/platform/middleware/requestid"
	"verigate/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	// Detectors
	detectors, closeDetectors, err := backends.Build(cfg.Detectors, log)
	if err != nil {
		return fmt.Errorf("build detectors: %w", err)
	}
	defer func() {
		if err := closeDetectors(); err != nil {
			log.Warn("failed to release detectors", "error", err)
		}
	}()
	log.Info("detectors ready",
		"face", cfg.Detectors.Face,
		"liveness", cfg.Detectors.Liveness,
		"ocr", cfg.Detectors.Text,
		"doc_class", cfg.Detectors.DocClass,
		"portrait", cfg.Detectors.Portrait,
		"portrait_mode", cfg.PortraitMode,
	)

	// Thresholds: Redis over file over environment
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	var sources threshold.Chain
	if cfg.Thresholds.RedisKey != "" && redisClient != nil {
		rs := threshold.NewRedisSource(redisClient, cfg.Thresholds.RedisKey, cfg.Thresholds.Refresh, log)
		if err := rs.Refresh(ctx); err != nil {
			log.Warn("initial threshold refresh failed", "error", err)
		}
		g.Go(func() error {
			if err := rs.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		sources = append(sources, rs)
	}
	if cfg.Thresholds.File != "" {
		fs, err := threshold.NewFileSource(cfg.Thresholds.File, log)
		if err != nil {
			return err
		}
		stopWatch, err := fs.Watch()
		if err != nil {
			log.Warn("threshold watcher unavailable (hot-reload disabled)", "error", err)
		} else {
			defer stopWatch()
		}
		sources = append(sources, fs)
	}
	sources = append(sources, threshold.EnvSource(cfg.Thresholds.Prefix))
	thresholds := threshold.New(cfg.Thresholds.Prefix, threshold.StandardDefaults(), sources, threshold.WithLogger(log))

	// Calibration audit trail
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(kycmetrics.New()),
	}
	var rec *recorder.Recorder
	if cfg.Calibration.Enabled {
		sink, closeSink, err := calibrationSink(ctx, cfg.Calibration)
		if err != nil {
			return err
		}
		defer closeSink()
		rec = recorder.New(sink,
			recorder.WithInstanceID(cfg.Calibration.InstanceID),
			recorder.WithQueueSize(cfg.Calibration.QueueSize),
			recorder.WithMetrics(recorder.NewMetrics()),
			recorder.WithLogger(log),
		)
		opts = append(opts, service.WithRecorder(rec))
		log.Info("calibration logging enabled",
			"dir", cfg.Calibration.Dir,
			"postgres", cfg.Calibration.DSN != "",
			"async", rec.Async(),
		)
	}

	portraits := portrait.New(cfg.PortraitMode, detectors.Portrait, portrait.WithLogger(log))
	kyc, err := service.New(detectors, portraits, thresholds, opts...)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	// HTTP
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(httpmetrics.New().Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				status = "degraded"
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route(cfg.Server.APIPrefix, func(api chi.Router) {
		handler.New(kyc, log).Register(api)
	})

	srv := httpserver.New(cfg.Server.Addr, r)

	g.Go(func() error {
		log.Info("starting verigate", "addr", cfg.Server.Addr, "api_prefix", cfg.Server.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	// The recorder outlives the server so in-flight requests can still enqueue.
	recCtx, stopRecorder := context.WithCancel(context.WithoutCancel(ctx))
	defer stopRecorder()
	if rec != nil {
		g.Go(func() error { return rec.Run(recCtx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		defer stopRecorder()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("verigate stopped")
	return err
}

func calibrationSink(ctx context.Context, cfg config.Calibration) (store.Appender, func(), error) {
	dayFile, err := store.NewDayFile(cfg.Dir)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DSN == "" {
		return dayFile, func() {}, nil
	}
	db, err := store.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store.Fanout{dayFile, pg}, func() { _ = db.Close() }, nil
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	videoanalyzer "silenced-backend/agents/video-analyzer"
	"silenced-backend/agents/video-analyzer/youtube"
	"silenced-backend/shared/ai"
	"silenced-backend/shared/analysis"
	"silenced-backend/shared/config"
	"silenced-backend/shared/greenwashing"
	"silenced-backend/shared/logging"
	"silenced-backend/shared/monitoring"
	"silenced-backend/shared/quality"
	"silenced-backend/shared/scheduler"
	"silenced-backend/shared/tracing"
	"silenced-backend/shared/transcript"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logging.Setup(&cfg.Logging); err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, &cfg.Tracing)
	if err != nil {
		logrus.WithError(err).Warn("Tracing disabled")
		shutdownTracing = func(context.Context) error { return nil }
	}

	var completer ai.Completer
	if client, err := ai.NewClient(ctx, &cfg.AI); err == nil {
		completer = client
		logrus.WithField("model", cfg.AI.Model).Info("Gemini client initialized")
	} else if errors.Is(err, ai.ErrNoCredential) {
		logrus.Warn("GEMINI_API_KEY not set, using heuristic scoring only")
	} else {
		logrus.WithError(err).Warn("Gemini unavailable, using heuristic scoring only")
	}

	var metadata analysis.MetadataSource
	if client, err := youtube.NewClient(ctx, &cfg.YouTube); err == nil {
		metadata = client
		logrus.Info("YouTube Data API client initialized")
	} else if !errors.Is(err, youtube.ErrNoAPIKey) {
		logrus.WithError(err).Warn("YouTube Data API unavailable")
	}

	monitor := monitoring.NewMonitor()
	server := videoanalyzer.NewServer(videoanalyzer.Options{
		Config:   cfg,
		Fetcher:  transcript.NewFetcher(youtube.NewCaptionProvider(cfg.YouTube.HTTPTimeout)),
		Scorer:   quality.NewScorer(completer),
		Detector: greenwashing.NewDetector(completer),
		Metadata: metadata,
		Monitor:  monitor,
	})

	if cfg.Monitoring.ReportSchedule != "" {
		s := scheduler.New(cfg.Monitoring.ReportSchedule, monitor, monitoring.NewReportJob(monitor))
		go func() {
			if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logrus.WithError(err).Error("Usage report scheduler failed")
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("Failed to flush traces")
	}
	logrus.Info("Server exited")
}

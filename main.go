package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/booking"
	"github.com/mauv0809/cue-league/internal/config"
	"github.com/mauv0809/cue-league/internal/database"
	server "github.com/mauv0809/cue-league/internal/http"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/media"
	"github.com/mauv0809/cue-league/internal/metrics"
	"github.com/mauv0809/cue-league/internal/notifier"
	"github.com/mauv0809/cue-league/internal/notifier/slack"
	"github.com/mauv0809/cue-league/internal/processor"
	"github.com/mauv0809/cue-league/internal/pubsub"
	"github.com/mauv0809/cue-league/internal/ranking"
	"github.com/mauv0809/cue-league/internal/recompute"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	leagueStore := league.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	metricsStore := metrics.New(db)
	if counters, err := metricsStore.GetAll(); err == nil {
		log.Info("Loaded persisted counters", "counters", counters)
	}

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Token != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("SLACK_BOT_TOKEN not set, notifications are disabled")
	}

	// Without a Google Cloud project events are delivered in-process.
	var ps pubsub.PubSubClient
	var local *pubsub.LocalClient
	if cfg.ProjectID != "" {
		ps, err = pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		log.Info("GCP_PROJECT not set, using in-process event delivery")
		local = pubsub.NewLocal()
		ps = local
	}
	defer ps.Close()

	var uploader media.Uploader
	if cfg.S3.Enabled() {
		uploader, err = media.New(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %s", err)
		}
	}

	engine := ranking.New(leagueStore, metricsSvc)
	bookingSvc := booking.New(leagueStore, engine, metricsSvc)
	proc := processor.New(leagueStore, engine, notif, ps)
	if local != nil {
		proc.Subscribe(local)
	}

	runner := recompute.New(engine, cfg.RecomputeInterval, metricsSvc,
		recompute.WithCounters(metricsStore),
		recompute.WithAfterRun(proc.RankingRecomputed),
	)

	s := server.NewServer(server.Dependencies{
		Store:          leagueStore,
		Booking:        bookingSvc,
		Ranking:        engine,
		Runner:         runner,
		Events:         proc,
		Uploader:       uploader,
		PubSub:         ps,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
	})

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := runner.Start(gCtx); err != nil {
			return err
		}
		<-runner.Done()
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutdown signal received")

		// Create a context with a timeout for the shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
		return runner.Stop()
	})

	if err := g.Wait(); err != nil {
		log.Error("Server process exited with error", "error", err)
	}
	log.Info("Server process shutting down")
}

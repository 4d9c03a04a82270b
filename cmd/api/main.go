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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/pennyjar/pennyjar/internal/config"
	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/goal"
	pennyHttp "github.com/pennyjar/pennyjar/internal/http"
	eventsHandler "github.com/pennyjar/pennyjar/internal/http/events"
	familyHandler "github.com/pennyjar/pennyjar/internal/http/family"
	goalHandler "github.com/pennyjar/pennyjar/internal/http/goal"
	ledgerHandler "github.com/pennyjar/pennyjar/internal/http/ledger"
	requestHandler "github.com/pennyjar/pennyjar/internal/http/request"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/notify"
	"github.com/pennyjar/pennyjar/internal/request"
	"github.com/pennyjar/pennyjar/internal/scheduler"
	"github.com/pennyjar/pennyjar/internal/storage"
	"github.com/pennyjar/pennyjar/internal/storage/postgres"
	"github.com/pennyjar/pennyjar/internal/storage/sqlite"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	remote, err := postgres.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}

	// A failed migration means the remote is down right now. The local
	// fallback keeps the app usable and the reconciler catches up later.
	if err := remote.Migrate(); err != nil {
		slog.Warn("postgres migration failed, starting on local fallback", "error", err)
	}

	local, err := sqlite.New(cfg.SQLite.Path)
	if err != nil {
		slog.Error("failed to open sqlite", "error", err)
		os.Exit(1)
	}

	store := storage.NewFailover(remote, local, local, cfg.Storage.ProbeTimeout)
	defer store.Close()

	notifier := newNotifier(cfg)
	if closer, ok := notifier.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	advanceCap, err := cfg.AdvanceCap()
	if err != nil {
		slog.Error("invalid rules config", "error", err)
		os.Exit(1)
	}

	interestRate, err := cfg.InterestRate()
	if err != nil {
		slog.Error("invalid scheduler config", "error", err)
		os.Exit(1)
	}

	var (
		familyService = family.NewService(store)
		ledgerService = ledger.NewService(store, notifier)

		requestService = request.NewService(store, ledgerService, familyService, request.Rules{
			AdvanceCap:       advanceCap,
			AdvanceMinDesc:   cfg.Rules.AdvanceMinDesc,
			HighValueMinDesc: cfg.Rules.HighValueMinDesc,
		}, notifier)

		goalService = goal.NewService(store, ledgerService, notifier)
	)

	reconciler := storage.NewReconciler(local, remote, storage.ReconcilerConfig{
		Interval:     cfg.Storage.ReconcileInterval,
		BatchSize:    cfg.Storage.ReconcileBatch,
		ProbeTimeout: cfg.Storage.ProbeTimeout,
	})

	sched := scheduler.New(familyService, ledgerService, interestRate)

	var (
		familyH   = familyHandler.NewHandler(familyService)
		ledgerH   = ledgerHandler.NewHandler(ledgerService)
		requestsH = requestHandler.NewHandler(requestService)
		goalsH    = goalHandler.NewHandler(goalService)
		eventsH   = eventsHandler.NewHandler(notifier)
	)

	router := pennyHttp.New(familyH, ledgerH, requestsH, goalsH, eventsH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := reconciler.Start(ctx); err != nil {
		slog.Error("failed to start reconciler", "error", err)
		os.Exit(1)
	}

	if err := sched.Start(cfg.Scheduler.AllowanceSpec, cfg.Scheduler.InterestSpec); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
		// No write timeout: the event stream endpoint holds its
		// connection open indefinitely.
		ReadTimeout: cfg.Server.Timeout,
		IdleTimeout: 60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := sched.Stop(shutdownCtx); err != nil {
			slog.Error("scheduler shutdown failed", "error", err)
		}

		if err := reconciler.Stop(shutdownCtx); err != nil {
			slog.Error("reconciler shutdown failed", "error", err)
		}

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newNotifier uses AMQP when configured and the in-process bus otherwise, so
// the app runs without a broker.
func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.AMQP.URL == "" {
		return notify.NewBus()
	}

	notifier, err := notify.NewAMQPNotifier(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		slog.Warn("amqp unavailable, using in-process bus", "error", err)
		return notify.NewBus()
	}

	return notifier
}

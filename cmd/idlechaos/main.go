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

	"golang.org/x/sync/errgroup"

	"github.com/alper6161/idle-chaos/internal/api"
	"github.com/alper6161/idle-chaos/internal/config"
	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/db"
	"github.com/alper6161/idle-chaos/internal/game/combat"
	"github.com/alper6161/idle-chaos/internal/game/session"
	"github.com/alper6161/idle-chaos/internal/rng"
	"github.com/alper6161/idle-chaos/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadEngine(config.Path())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.Info("idle-chaos starting",
		"log_level", cfg.LogLevel,
		"storage", cfg.Storage,
		"combat_model", cfg.Combat.Model)

	if err := data.Load(); err != nil {
		return fmt.Errorf("loading game data: %w", err)
	}

	sessCfg, err := sessionConfig(cfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	var (
		st       store.Store
		notifier store.Notifier
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		pgNotifier := db.NewNotifier(database.Pool())
		g.Go(func() error {
			if err := pgNotifier.Run(gctx); err != nil {
				return fmt.Errorf("change listener: %w", err)
			}
			return nil
		})
		st, notifier = db.NewStore(database.Pool(), pgNotifier), pgNotifier
	default:
		bus := store.NewBus()
		st, notifier = store.NewMemory(bus), bus
		slog.Warn("using in-memory storage, progress is lost on shutdown")
	}

	manager := session.NewManager(st, notifier, sessCfg)
	g.Go(func() error {
		return manager.Run(gctx)
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewServer(manager, st).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		slog.Info("starting http server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("idle-chaos stopped")
	return nil
}

// sessionConfig translates the engine config into session tuning.
func sessionConfig(cfg config.Engine) (session.Config, error) {
	strategy, err := combat.StrategyByName(cfg.Combat.Model)
	if err != nil {
		return session.Config{}, fmt.Errorf("combat model: %w", err)
	}

	sc := session.Config{
		TickInterval:     cfg.Combat.TickInterval,
		ProgressPerTick:  cfg.Combat.ProgressPerTick,
		SpawnDuration:    cfg.Combat.SpawnDuration,
		SpawnStep:        cfg.Combat.SpawnStep,
		Strategy:         strategy,
		GoldRate:         cfg.Rates.Gold,
		XPRate:           cfg.Rates.XP,
		BagLimit:         cfg.Loot.BagLimit,
		RestartCountdown: cfg.Dungeon.RestartCountdown,
		AutoRestart:      cfg.Dungeon.AutoRestart,
		LogLimit:         cfg.Combat.LogLimit,
	}
	if cfg.Seed != 0 {
		sc.Source = rng.NewSeeded(cfg.Seed)
		slog.Info("using seeded random source", "seed", cfg.Seed)
	}
	return sc, nil
}

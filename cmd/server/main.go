package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bardclash/versebattle/internal/battle"
	"github.com/bardclash/versebattle/internal/config"
	"github.com/bardclash/versebattle/internal/database"
	"github.com/bardclash/versebattle/internal/judge"
	"github.com/bardclash/versebattle/internal/migrations"
	"github.com/bardclash/versebattle/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite (content reports) ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Battle core ---
	rooms := battle.NewRegistry(logger)
	queue := battle.NewQueue(rooms)
	engine := judge.New(judge.Config{
		URL:     cfg.JudgeAPIURL,
		APIKey:  cfg.JudgeAPIKey,
		Model:   cfg.JudgeModel,
		Timeout: cfg.JudgeTimeout,
	}, logger)
	if cfg.JudgeAPIKey == "" {
		logger.Warn("JUDGE_API_KEY not set, all rounds will use the fallback scorer")
	}

	// --- HTTP server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Rooms:      rooms,
		Queue:      queue,
		Judge:      engine,
		Reports:    server.NewSQLiteReportStore(db),
		Auth:       server.NewAuth(cfg.AuthJWTSecret),
		DB:         db,
		MatchWait:  cfg.MatchWait,
		ServiceKey: cfg.ServiceKey,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	// Background sweep of completed and abandoned rooms. Sweep skips
	// rooms locked by in-flight operations, so it never stalls a match.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				rooms.Sweep(cfg.RoomMaxAge)
			}
		}
	})

	return g.Wait()
}

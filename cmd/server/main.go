package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/TableEdit/internal/config"
	"github.com/JonMunkholm/TableEdit/internal/core"
	"github.com/JonMunkholm/TableEdit/internal/database"
	"github.com/JonMunkholm/TableEdit/internal/logging"
	"github.com/JonMunkholm/TableEdit/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Overload lets .env win over variables already set in the shell
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	audit, closeAudit, err := openAuditStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open audit store", "error", err)
		os.Exit(1)
	}
	defer closeAudit()

	manager := core.NewManager(core.ManagerConfig{
		IdleTimeout: cfg.Session.IdleTimeout,
		MaxSessions: cfg.Session.MaxSessions,
		Seed:        seedFunc(cfg.Table),
	}, audit)

	go manager.StartSweeper(ctx, cfg.Session.SweepInterval)

	server := web.NewServer(manager, cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped", "live_sessions", manager.Len())
}

// openAuditStore connects to PostgreSQL when DATABASE_URL is set and falls
// back to a bounded in-memory store otherwise.
func openAuditStore(ctx context.Context, cfg *config.Config) (core.AuditStore, func(), error) {
	if !cfg.Database.Enabled() {
		slog.Info("DATABASE_URL not set, keeping audit trail in memory", "history", cfg.Session.AuditHistory)
		return core.NewMemoryAuditStore(cfg.Session.AuditHistory), func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	// Validate bounds both counts to int32.
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	store := database.NewAuditStore(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}

// seedFunc picks the rows each new session starts with.
func seedFunc(cfg config.TableConfig) func() core.Table {
	if cfg.SeedRows <= 0 {
		return core.SampleRows
	}
	return func() core.Table {
		return core.GenerateRows(cfg.SeedRows, cfg.Seed)
	}
}

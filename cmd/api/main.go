// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the campus HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire notification senders, stores, services and handlers.
//  7. Start the expiry sweeper.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/campus/internal/api"
	"github.com/taibuivan/campus/internal/core/confession"
	"github.com/taibuivan/campus/internal/core/event"
	"github.com/taibuivan/campus/internal/core/feedback"
	"github.com/taibuivan/campus/internal/core/helpboard"
	"github.com/taibuivan/campus/internal/core/issue"
	"github.com/taibuivan/campus/internal/core/lostfound"
	"github.com/taibuivan/campus/internal/core/poll"
	"github.com/taibuivan/campus/internal/platform/config"
	"github.com/taibuivan/campus/internal/platform/constants"
	"github.com/taibuivan/campus/internal/platform/migration"
	"github.com/taibuivan/campus/internal/platform/notify"
	pgstore "github.com/taibuivan/campus/internal/platform/postgres"
	redisstore "github.com/taibuivan/campus/internal/platform/redis"
	"github.com/taibuivan/campus/internal/platform/respond"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/internal/platform/sweeper"
	"github.com/taibuivan/campus/internal/platform/upload"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}
	respond.ExposeInternalErrors(cfg.IsDevelopment())

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("push_driver", cfg.PushDriver),
		slog.String("mail_driver", cfg.MailDriver),
		slog.Bool("lock_terminal_states", cfg.LockTerminalStates),
	)

	// Root context for background work; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Infrastructure ──────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	images, err := upload.NewStore(cfg.UploadDir, cfg.UploadBaseURL)
	must(log, err, "initialize upload store")

	userRepository := auth.NewUserRepository(pool)
	dispatcher := notify.NewService(pushSender(cfg, rdb, log), mailer(cfg, log), userRepository)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(
		userRepository,
		auth.NewVerificationTokenStore(rdb),
		auth.NewResetTokenStore(rdb),
		tokens,
		dispatcher,
		auth.Settings{
			AccessTokenTTL:       cfg.AccessTokenTTL,
			RefreshTokenTTL:      cfg.RefreshTokenTTL,
			VerificationTokenTTL: cfg.VerificationTokenTTL,
			ResetTokenTTL:        cfg.ResetTokenTTL,
			FrontendURL:          cfg.FrontendURL,
			AdminInviteCode:      cfg.AdminInviteCode,
		},
	)

	issueService := issue.NewService(issue.NewRepository(pool), account.NewRepository(pool), dispatcher, cfg.LockTerminalStates)
	lostFoundService := lostfound.NewService(lostfound.NewRepository(pool), dispatcher, lostfound.Settings{
		TTL:          cfg.LostFoundTTL,
		LockTerminal: cfg.LockTerminalStates,
	})
	feedbackService := feedback.NewService(feedback.NewRepository(pool), dispatcher, cfg.LockTerminalStates)
	helpBoardService := helpboard.NewService(helpboard.NewRepository(pool), cfg.LockTerminalStates)
	confessionService := confession.NewService(confession.NewRepository(pool), dispatcher)
	pollService := poll.NewService(poll.NewRepository(pool), dispatcher)
	eventService := event.NewService(event.NewRepository(pool), dispatcher, authService)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Uploads:    uploadsHandler(cfg),
		Auth:       auth.NewHandler(authService, images),
		Issue:      issue.NewHandler(issueService, images),
		LostFound:  lostfound.NewHandler(lostFoundService, images),
		Feedback:   feedback.NewHandler(feedbackService),
		HelpBoard:  helpboard.NewHandler(helpBoardService),
		Confession: confession.NewHandler(confessionService),
		Poll:       poll.NewHandler(pollService),
		Event:      event.NewHandler(eventService),
	}

	// ── 8. Expiry Sweeper ─────────────────────────────────────────────────
	sweep := sweeper.NewRunner(log, cfg.SweepInterval, cfg.SweepTimeout,
		pollService.ExpiryTask(),
		lostFoundService.ExpiryTask(),
	)
	sweep.Start(rootCtx)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, tokens, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	shutdownErr := server.Shutdown(constants.ShutdownTimeout)

	// Stop the sweeper before the pool closes underneath it.
	rootCancel()
	sweep.Wait()

	if shutdownErr != nil {
		log.Error("shutdown_error", slog.Any("error", shutdownErr))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "campus"))
}

// pushSender selects the push transport named by PUSH_DRIVER.
func pushSender(cfg *config.Config, rdb *redis.Client, log *slog.Logger) notify.PushSender {
	if cfg.PushDriver == "redis" {
		return notify.NewRedisPushSender(rdb, cfg.PushStream)
	}
	return notify.NewLogPushSender(log)
}

// mailer selects the email transport named by MAIL_DRIVER.
func mailer(cfg *config.Config, log *slog.Logger) notify.Mailer {
	if cfg.MailDriver == "smtp" {
		return notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}
	return notify.NewLogMailer(log)
}

// uploadsHandler serves the upload directory when the base URL is a local path.
func uploadsHandler(cfg *config.Config) http.Handler {
	if !strings.HasPrefix(cfg.UploadBaseURL, "/") {
		return nil
	}
	prefix := strings.TrimRight(cfg.UploadBaseURL, "/")
	return http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.UploadDir)))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

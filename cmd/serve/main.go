// Package classification Siter guild manager.
//
// REST API of the guild dashboard and the Discord guild bot
//
//	Version: 0.1.0
//
//	Consumes:
//	  - application/json
//
//	Produces:
//	  - application/json
//
// swagger:meta
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

	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/internal/log"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/internal/server"
	"github.com/talitamaia0609-debug/siter/internal/tracing"
	"github.com/talitamaia0609-debug/siter/pkg/activity"
	"github.com/talitamaia0609-debug/siter/pkg/bot"
	"github.com/talitamaia0609-debug/siter/pkg/catalog"
	"github.com/talitamaia0609-debug/siter/pkg/config"
	"github.com/talitamaia0609-debug/siter/pkg/drop"
	"github.com/talitamaia0609-debug/siter/pkg/event"
	"github.com/talitamaia0609-debug/siter/pkg/marketplace"
	"github.com/talitamaia0609-debug/siter/pkg/member"
	"github.com/talitamaia0609-debug/siter/pkg/permission"
	"github.com/talitamaia0609-debug/siter/pkg/stats"
	"github.com/talitamaia0609-debug/siter/pkg/storage"
	"github.com/talitamaia0609-debug/siter/pkg/store"
	"github.com/talitamaia0609-debug/siter/pkg/token"
	"github.com/talitamaia0609-debug/siter/pkg/transfer"
	"github.com/talitamaia0609-debug/siter/pkg/user"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.Tracing.JaegerEndpoint != "" {
		shutdown, err := tracing.Setup("siter", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("Failed to flush traces", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newStore(logger, cfg)
	if err != nil {
		return err
	}

	events, err := catalog.Default()
	if err != nil {
		return err
	}
	if err := catalog.Load(ctx, logger, s, events); err != nil {
		return err
	}

	broker := activity.NewBroker(logger)
	activityService := activity.NewService(s)
	memberService := member.NewService(s, broker)
	eventService := event.NewService(s, broker)
	dropService := drop.NewService(s, broker)
	marketplaceService := marketplace.NewService(s, broker)
	transferService := transfer.NewService(s, broker)
	statsService := stats.NewService(s)
	permissionService := permission.NewService(s)
	userService := user.NewService(s)

	sessionRepository, err := newSessionRepository(logger, cfg.Redis)
	if err != nil {
		return err
	}
	tokenService := token.NewService(logger, sessionRepository, cfg.SessionSecret, cfg.SessionExpiration)

	if err := handler.RegisterValidation(); err != nil {
		return err
	}

	authentication := middleware.NewAuthentication(logger, tokenService, userService)
	authenticator := authentication.TokenAuthentication

	userHandler := user.NewHandler(userService, tokenService, nil, "/", cfg.CookieSecure)
	if cfg.Discord.LoginEnabled() {
		userHandler = user.NewHandler(userService, tokenService, user.NewDiscordProvider(cfg.Discord), "/", cfg.CookieSecure)
	} else {
		logger.Warn("Discord login disabled, DISCORD_CLIENT_ID and DISCORD_CLIENT_SECRET are not set")
	}

	engine, router := server.GetEngine(logger, cfg.BasePath)
	member.Routes(router, authenticator, member.NewHandler(memberService))
	event.Routes(router, event.NewHandler(eventService))
	activity.Routes(router, activity.NewHandler(activityService, broker))
	drop.Routes(router, authenticator, drop.NewHandler(dropService))
	marketplace.Routes(router, authenticator, marketplace.NewHandler(marketplaceService))
	transfer.Routes(router, authenticator, transfer.NewHandler(transferService))
	stats.Routes(router, stats.NewHandler(statsService))
	user.Routes(router, authenticator, userHandler)
	if cfg.StaticDir != "" {
		server.ServeStatic(engine, cfg.BasePath, cfg.StaticDir)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(ctx, logger, engine, cfg.Port)
	})

	if cfg.Discord.BotEnabled() {
		dispatcher := bot.NewDispatcher(logger, eventService, permissionService, dropService)
		gateway, err := bot.NewGateway(logger, cfg.Discord.BotToken, dispatcher)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return gateway.Run(ctx)
		})
	} else {
		logger.Warn("Discord bot disabled, DISCORD_BOT_TOKEN is not set")
	}

	return g.Wait()
}

func newLogger(cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Pretty {
		return slog.New(log.New(log.NewPrettyJSONHandler(os.Stdout, opts)))
	}
	return slog.New(log.New(slog.NewJSONHandler(os.Stdout, opts)))
}

func newStore(logger *slog.Logger, cfg config.Config) (store.Store, error) {
	if cfg.StoreDriver != config.StorePostgres {
		logger.Info("Using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	}

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return nil, err
	}
	return store.NewPostgres(db), nil
}

type sessionRepository interface {
	SetSession(ctx context.Context, tokenId string, userId string, expiresIn time.Duration) error
	GetSession(ctx context.Context, tokenId string) (string, error)
	DeleteSession(ctx context.Context, tokenId string) error
}

func newSessionRepository(logger *slog.Logger, cfg *config.Redis) (sessionRepository, error) {
	if cfg == nil {
		logger.Info("Redis not configured, sessions are kept in memory")
		return token.NewMemoryRepository(), nil
	}

	client, err := storage.NewRedis(logger, *cfg)
	if err != nil {
		return nil, err
	}
	return token.NewRepository(client), nil
}

// serve runs the HTTP server until ctx is done and then shuts it down gracefully.
func serve(ctx context.Context, logger *slog.Logger, engine *gin.Engine, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("Listening", "port", port)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

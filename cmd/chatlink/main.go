package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"golang.org/x/time/rate"

	"github.com/chatlinkhq/chatlink/internal/channel"
	"github.com/chatlinkhq/chatlink/internal/channel/adapters/telegram"
	"github.com/chatlinkhq/chatlink/internal/config"
	"github.com/chatlinkhq/chatlink/internal/db"
	dbsqlc "github.com/chatlinkhq/chatlink/internal/db/sqlc"
	"github.com/chatlinkhq/chatlink/internal/handlers"
	"github.com/chatlinkhq/chatlink/internal/linktoken"
	"github.com/chatlinkhq/chatlink/internal/logger"
	"github.com/chatlinkhq/chatlink/internal/registration"
	"github.com/chatlinkhq/chatlink/internal/router"
	"github.com/chatlinkhq/chatlink/internal/server"
	"github.com/chatlinkhq/chatlink/internal/version"
)

func main() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,

			provideDBConn,
			provideDBQueries,

			provideRegistrationService,
			provideTokenIssuer,

			provideChannelRegistry,
			provideProcessor,
			provideChannelManager,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideAuthHandler),
			provideServerHandler(provideRegistrationsHandler),
			provideServerHandler(provideLinkTokensHandler),

			provideServer,
		),
		fx.Invoke(
			startChannelManager,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *dbsqlc.Queries {
	return dbsqlc.New(conn)
}

func provideRegistrationService(log *slog.Logger, conn *pgxpool.Pool, queries *dbsqlc.Queries, cfg config.Config) *registration.Service {
	return registration.NewService(log, conn, queries, cfg.Link.Secret)
}

func provideTokenIssuer(cfg config.Config) *linktoken.Issuer {
	return linktoken.NewIssuer(cfg.Link.Secret)
}

func provideChannelRegistry(log *slog.Logger) *channel.Registry {
	registry := channel.NewRegistry()
	registry.MustRegister(telegram.NewTelegramAdapter(log))
	return registry
}

func provideProcessor(log *slog.Logger, service *registration.Service, issuer *linktoken.Issuer) *router.Processor {
	return router.NewProcessor(log, service, issuer)
}

func provideChannelManager(log *slog.Logger, registry *channel.Registry, processor *router.Processor, cfg config.Config) (*channel.Manager, error) {
	manager := channel.NewManager(log, registry, processor.Handle)
	processor.SetReplier(manager)
	manager.Use(router.RateLimitMiddleware(log, rate.Limit(1), 5))
	if cfg.Telegram.Enabled {
		err := manager.AddConfig(channel.ChannelConfig{
			ID:          "telegram-main",
			ChannelType: telegram.Type,
			Credentials: map[string]string{"bot_token": cfg.Telegram.BotToken},
		})
		if err != nil {
			return nil, fmt.Errorf("telegram config: %w", err)
		}
	}
	return manager, nil
}

func provideAuthHandler(log *slog.Logger, cfg config.Config) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, cfg.Auth)
}

func provideRegistrationsHandler(log *slog.Logger, service *registration.Service) *handlers.RegistrationsHandler {
	return handlers.NewRegistrationsHandler(log, service)
}

func provideLinkTokensHandler(log *slog.Logger, service *registration.Service, issuer *linktoken.Issuer, cfg config.Config) *handlers.LinkTokensHandler {
	return handlers.NewLinkTokensHandler(log, service, issuer, cfg.Link.Window())
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.Config.Auth.JWTSecret, params.ServerHandlers...)
}

func startChannelManager(lc fx.Lifecycle, channelManager *channel.Manager, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			channelManager.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			channelManager.Stop(ctx)
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	srv *server.Server,
	shutdowner fx.Shutdowner,
) {
	fmt.Printf("Starting chatlink %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil { // block until server is stopped
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

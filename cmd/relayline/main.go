package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	migrations "github.com/relayline/relayline/db"
	"github.com/relayline/relayline/internal/bridge"
	"github.com/relayline/relayline/internal/config"
	"github.com/relayline/relayline/internal/db"
	"github.com/relayline/relayline/internal/handlers"
	"github.com/relayline/relayline/internal/logger"
	"github.com/relayline/relayline/internal/server"
	"github.com/relayline/relayline/internal/slackchat"
	"github.com/relayline/relayline/internal/store"
	"github.com/relayline/relayline/internal/twiliosms"
)

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
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

func provideSlackClient(log *slog.Logger, cfg config.Config) *slackchat.Client {
	return slackchat.New(log, cfg.Slack.BotToken, cfg.Slack.UserToken, cfg.Slack.BotUserID)
}

func provideSMSClient(log *slog.Logger, cfg config.Config) *twiliosms.Client {
	return twiliosms.New(log, twiliosms.Config{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
	})
}

func provideBridgeService(log *slog.Logger, cfg config.Config, st *store.Store, chat *slackchat.Client, sms *twiliosms.Client) *bridge.Service {
	return bridge.NewService(log, st, chat, sms, bridge.Options{
		BotID:           cfg.Slack.BotID,
		ChannelPrefix:   cfg.Slack.ChannelPrefix,
		TriggerToken:    cfg.TriggerAPI.Token,
		HistoryLimit:    cfg.Bridge.HistoryLimit,
		ExternalTimeout: time.Duration(cfg.Bridge.ExternalTimeoutSeconds) * time.Second,
	})
}

func provideSlackHandler(log *slog.Logger, cfg config.Config, svc *bridge.Service) *handlers.SlackHandler {
	workTimeout := time.Duration(cfg.Bridge.ExternalTimeoutSeconds) * 3 * time.Second
	return handlers.NewSlackHandler(log, svc, cfg.Slack.SigningSecret, workTimeout)
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

type serverParams struct {
	fx.In

	Logger   *slog.Logger
	Config   config.Config
	Handlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Config.Server.Addr, params.Handlers...)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
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

func runMigrate(args []string) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	files, err := fs.Sub(migrations.MigrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	return db.RunMigrate(logger.L, cfg.Postgres, files, command, args)
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,

			provideDBConn,
			store.New,
			provideSlackClient,
			provideSMSClient,
			provideBridgeService,

			func(svc *bridge.Service) handlers.BridgeService { return svc },

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewSMSHandler),
			provideServerHandler(handlers.NewTriggerHandler),
			provideServerHandler(provideSlackHandler),

			provideServer,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/invitations/pkg/clientip"
	"github.com/dmitrymomot/invitations/pkg/config"
	"github.com/dmitrymomot/invitations/pkg/email"
	"github.com/dmitrymomot/invitations/pkg/email/templates"
	"github.com/dmitrymomot/invitations/pkg/httpserver"
	"github.com/dmitrymomot/invitations/pkg/logger"
	"github.com/dmitrymomot/invitations/pkg/mongo"
	"github.com/dmitrymomot/invitations/pkg/requestid"
	"github.com/dmitrymomot/invitations/svc/invitation"
)

func main() {
	if err := config.LoadEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
	}

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("invitations service stopped", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	store, checks, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	sender, err := newSender(cfg.Email, log)
	if err != nil {
		return err
	}

	svc := invitation.NewProvider(store,
		invitation.WithLogger(log.With(logger.Component("invitation"))),
		invitation.WithReadOnly(cfg.ReadOnly),
	)
	dispatcher := invitation.NewDispatcher(svc, templates.Default(), sender, cfg.Dispatch,
		invitation.WithDispatcherLogger(log.With(logger.Component("dispatcher"))),
	)

	router := newRouter(svc, dispatcher, log, checks...)

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithOnStart(func(addr string) {
			log.Info("invitations service started",
				slog.String("addr", addr),
				slog.String("store", cfg.StoreDriver),
				slog.Bool("read_only", cfg.ReadOnly),
			)
		}),
	)
	return srv.Run(ctx, router)
}

// openStore selects the persistence backend. The returned close function
// is always safe to call.
func openStore(ctx context.Context, cfg appConfig, log *slog.Logger) (invitation.Store, []httpserver.Check, func(), error) {
	switch cfg.StoreDriver {
	case driverMemory, "":
		log.Warn("using in-memory store, data is lost on restart")
		return invitation.NewMemoryStore(), nil, func() {}, nil

	case driverMongo:
		var mcfg mongo.Config
		if err := config.Load(&mcfg); err != nil {
			return nil, nil, nil, err
		}
		client, coll, err := mongo.NewCollection(ctx, mcfg)
		if err != nil {
			return nil, nil, nil, err
		}
		checks := []httpserver.Check{{Name: "mongo", Probe: mongo.Healthcheck(client)}}
		return invitation.NewMongoStore(coll), checks, disconnect(client, log), nil
	}

	return nil, nil, nil, fmt.Errorf("unknown STORE_DRIVER %q, expected %s or %s", cfg.StoreDriver, driverMemory, driverMongo)
}

func disconnect(client *mongodrv.Client, log *slog.Logger) func() {
	return func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect from mongo", logger.Error(err))
		}
	}
}

// newSender uses Postmark when both tokens are configured and falls back to
// writing messages to disk otherwise.
func newSender(cfg email.Config, log *slog.Logger) (email.EmailSender, error) {
	if cfg.Enabled() {
		return email.NewPostmarkClient(cfg)
	}
	log.Warn("postmark is not configured, writing emails to disk", slog.String("dir", cfg.DevDir))
	return email.NewDevSender(cfg.DevDir), nil
}

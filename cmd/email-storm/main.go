package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"syscall"

	"github.com/AndreeJait/email-storm/account"
	"github.com/AndreeJait/email-storm/campaign"
	"github.com/AndreeJait/email-storm/config"
	"github.com/AndreeJait/email-storm/emailw"
	"github.com/AndreeJait/email-storm/gracefull"
	"github.com/AndreeJait/email-storm/handler"
	"github.com/AndreeJait/email-storm/license"
	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/AndreeJait/email-storm/redisw"
	"github.com/pkg/errors"
)

func main() {
	configDir := flag.String("config-dir", ".", "directory holding .env and config.<mode>.yaml")
	flag.Parse()

	if err := run(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: %+v\n", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return errors.Wrapf(err, "could not create application data directory %s", cfg.DataDir)
	}

	log, err := loggerw.New(cfg.LogOption())
	if err != nil {
		return err
	}
	log.Infof("ensured application data directory exists: %s", cfg.DataDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := gracefull.NewGracefulShutdown(log)

	store, err := newStore(ctx, cfg, log, shutdown)
	if err != nil {
		return err
	}

	h := handler.New(handler.Deps{
		Log:             log,
		Store:           store,
		Dispatcher:      newDispatcher(cfg, log),
		License:         newLicenseService(cfg, log),
		Shutdown:        shutdown.Request,
		CampaignContext: ctx,
	})
	e := handler.NewServer(log, h, handler.ServerOption{
		AccessLog:  cfg.Server.AccessLog,
		BodyLimit:  cfg.Server.BodyLimit,
		StackTrace: cfg.Logger.Level == loggerw.Debug,
	})

	shutdown.AddFunc("http", func(ctx context.Context) error {
		return e.Shutdown(ctx)
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("starting server on http://%s", cfg.Server.Address())
		if err := e.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			shutdown.Request()
		}
	}()

	shutdown.Wait(ctx, os.Interrupt, syscall.SIGTERM)
	// stop running campaigns; the rest of their contacts are recorded as cancelled
	cancel()

	graceCtx, graceCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer graceCancel()
	shutdown.ShutdownAll(graceCtx)

	select {
	case err = <-serverErr:
		return errors.Wrap(err, "failed to start server")
	default:
		return nil
	}
}

func newStore(ctx context.Context, cfg config.Config, log loggerw.Logger, shutdown *gracefull.GracefulShutDown) (account.Store, error) {
	if cfg.Store.Driver != config.StoreRedis {
		log.Infof("email configurations stored in %s", cfg.StorePath())
		return account.NewFileStore(cfg.StorePath()), nil
	}

	client, err := redisw.ConnectToRedis(ctx, log, cfg.Store.Redis)
	if err != nil {
		return nil, err
	}
	shutdown.AddFunc("redis", func(context.Context) error {
		return client.Close()
	})
	return account.NewRedisStore(client, cfg.Store.RedisKey), nil
}

func newDispatcher(cfg config.Config, log loggerw.Logger) *campaign.Dispatcher {
	opts := []campaign.Option{
		campaign.WithObserver(campaign.LogObserver(log)),
		campaign.WithSendTimeout(cfg.Campaign.SendTimeout),
	}
	if cfg.Campaign.PacingMax > 0 {
		opts = append(opts, campaign.WithDelayer(campaign.NewRandomDelay(cfg.Campaign.PacingMin, cfg.Campaign.PacingMax)))
	}
	if cfg.Campaign.PersistentRotation {
		opts = append(opts, campaign.WithRotation(campaign.NewRotation()))
	}
	if cfg.Campaign.Concurrent {
		opts = append(opts, campaign.WithConcurrency(cfg.Campaign.MaxWorkers))
	}
	return campaign.NewDispatcher(emailw.New(cfg.Email, log), opts...)
}

func newLicenseService(cfg config.Config, log loggerw.Logger) *license.Service {
	client := license.NewClient(cfg.License.ActivationURL, cfg.License.AppName, cfg.License.Timeout, nil)
	return license.NewService(license.NewSystemProber(), client, cfg.License, log)
}

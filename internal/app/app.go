// Package app arma el grafo de dependencias a partir de la config:
// store, notificaciones, métricas, verifier y router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"contact-notes/internal/adapters/auth/odin"
	cwmetrics "contact-notes/internal/adapters/metrics/cloudwatch"
	sqsnotify "contact-notes/internal/adapters/notify/sqs"
	"contact-notes/internal/adapters/storage/dynamo"
	mem "contact-notes/internal/adapters/storage/memory"
	pg "contact-notes/internal/adapters/storage/postgres"
	"contact-notes/internal/adapters/storage/sqlite"
	"contact-notes/internal/domain/notes"
	"contact-notes/internal/platform/awsconfig"
	"contact-notes/internal/platform/config"
	"contact-notes/internal/platform/logger"
	"contact-notes/internal/ports/auth"
	"contact-notes/internal/router"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type App struct {
	Config   *config.Config
	Log      logger.Logger
	Repo     notes.Repository
	Service  *notes.Service
	Verifier auth.AuthVerifier

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}
	a := &App{Config: cfg, Log: log}

	var awsCfg sdkaws.Config
	if cfg.NeedsAWS() {
		var err error
		awsCfg, err = awsconfig.Load(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
	}

	repo, err := a.openStore(ctx, awsCfg)
	if err != nil {
		return nil, err
	}
	a.Repo = repo

	opts := []notes.Option{
		notes.WithLogger(log),
		notes.WithStoreTimeout(cfg.StoreTimeout),
	}
	if cfg.NotesQueueURL != "" {
		opts = append(opts, notes.WithNotifier(sqsnotify.NewPublisher(sqs.NewFromConfig(awsCfg), cfg.NotesQueueURL)))
	}
	if cfg.MetricsNamespace != "" {
		opts = append(opts, notes.WithMetrics(cwmetrics.NewRecorder(cloudwatch.NewFromConfig(awsCfg), cfg.MetricsNamespace)))
	}
	a.Service = notes.NewService(repo, opts...)

	if cfg.OdinBaseURL != "" {
		client, err := odin.NewClient(odin.Config{BaseURL: cfg.OdinBaseURL, APIKey: cfg.OdinAPIKey})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Verifier = odin.NewVerifier(client)
	} else {
		log.Warn("no ODIN_BASE_URL: accepting X-Debug-User-ID (dev mode)", nil)
	}

	log.Info("app ready", map[string]any{
		"store_driver":  cfg.StoreDriver,
		"store_timeout": cfg.StoreTimeout.String(),
		"notify":        cfg.NotesQueueURL != "",
		"metrics":       cfg.MetricsNamespace != "",
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context, awsCfg sdkaws.Config) (notes.Repository, error) {
	cfg := a.Config
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return mem.NewNoteRepo(), nil

	case config.DriverPostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := pg.Migrate(mctx, db); err != nil {
			_ = a.Close()
			return nil, err
		}
		return pg.NewNotesRepo(db), nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil

	case config.DriverDynamoDB:
		return dynamo.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.NotesTable), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (a *App) Handler() http.Handler {
	return router.NewRouter(router.Options{
		AuthVerifier: a.Verifier,
		Service:      a.Service,
		Logger:       a.Log,
	})
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

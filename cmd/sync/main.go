package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/feedsheet/config"
	"github.com/spacesedan/feedsheet/internal/clients"
	"github.com/spacesedan/feedsheet/internal/db"
	"github.com/spacesedan/feedsheet/internal/logging"
	"github.com/spacesedan/feedsheet/internal/models"
	"github.com/spacesedan/feedsheet/internal/processing"
	"github.com/spacesedan/feedsheet/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger(slog.LevelInfo)
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		return err
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := openSink(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Authentication error", slog.String("error", err.Error()))
		return err
	}

	syncer := &processing.Syncer{
		Sink:    sink,
		Fetcher: clients.NewRedditFeedClient(cfg.UserAgent, cfg.FeedRequestInterval),
		Sources: []processing.FeedSource{
			{URL: cfg.SavedFeed, Category: models.CategorySaved},
			{URL: cfg.UpvotedFeed, Category: models.CategoryUpvoted},
		},
		Location:       cfg.Location,
		StrictSinkRead: cfg.StrictSinkRead,
	}

	if cfg.ValkeyAddr != "" {
		vc, err := clients.NewValkeyClient(clients.ValkeyOptions{
			Addr:     cfg.ValkeyAddr,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		})
		if err != nil {
			slog.Error("[Main] Failed to connect to Valkey", slog.String("error", err.Error()))
			return err
		}
		defer vc.Close()
		lockScope := cfg.SpreadsheetID
		if cfg.SinkBackend == config.BackendDynamoDB {
			lockScope = cfg.DynamoDBTable
		}
		syncer.Lock = clients.NewValkeyLock(vc, lockScope, cfg.SheetName)
	}

	if cfg.KafkaBroker != "" {
		publisher, err := clients.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		if err != nil {
			slog.Warn("[Main] Kafka publisher disabled", slog.String("error", err.Error()))
		} else {
			defer publisher.Close()
			syncer.Publisher = publisher
		}
	}

	if cfg.Schedule == "" {
		_, err := syncer.Run(ctx)
		return err
	}

	sched, err := scheduler.New(ctx, cfg.Schedule, func(ctx context.Context) {
		res, err := syncer.Run(ctx)
		if err != nil {
			slog.Warn("[Main] Sync run failed", slog.String("error", err.Error()))
			return
		}
		slog.Info("[Main] Sync run finished",
			slog.String("watermark", res.Watermark.String()),
			slog.Int("appended", res.Appended))
	})
	if err != nil {
		slog.Error("[Main] Invalid SYNC_SCHEDULE", slog.String("error", err.Error()))
		return err
	}
	sched.Run(ctx)
	return nil
}

func openSink(ctx context.Context, cfg *config.Config) (db.Sink, error) {
	switch cfg.SinkBackend {
	case config.BackendDynamoDB:
		client, err := clients.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			return nil, err
		}
		return db.NewDynamoDBSink(client, cfg.DynamoDBTable, cfg.SheetName), nil
	default:
		values, err := clients.NewSheetsService(ctx, cfg.ServiceAccountFile)
		if err != nil {
			return nil, err
		}
		return db.NewSheetsSink(values, cfg.SpreadsheetID, cfg.Range(), cfg.HeaderRange()), nil
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"jokefetch/config"
	"jokefetch/internal/app"
	"jokefetch/internal/domain/models"
	"jokefetch/internal/lib/logger/sl"
	"jokefetch/internal/services/dedup"
	"jokefetch/internal/services/fetcher"
	"jokefetch/internal/services/fts"
	"jokefetch/internal/services/persister"
	"jokefetch/internal/storage/postgres"
	"jokefetch/internal/storage/redis"
	"jokefetch/internal/utils"
	"jokefetch/internal/utils/metrics"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("jokefetch", "env", cfg.Env)

	fmt.Println("Starting joke harvest")

	return harvest(context.Background(), log, cfg)
}

// harvest runs the whole pipeline once and feeds the optional sinks.
// An empty fetch writes no output file and is not an error.
func harvest(ctx context.Context, log *slog.Logger, cfg *config.Config) error {
	m := &metrics.Metrics{}

	jokeFetcher, err := fetcher.New(log, m, fetcher.Options{
		BaseURL:   cfg.API.BaseURL,
		Category:  cfg.API.Category,
		Blacklist: cfg.API.Blacklist,
		Amount:    cfg.API.Amount,
		Lang:      cfg.API.Lang,
		Requests:  cfg.Fetch.Requests,
		Window:    cfg.Fetch.Window,
		Timeout:   cfg.Fetch.Timeout,
	})
	if err != nil {
		log.Error("failed to initialise fetcher", sl.Err(err))
		return err
	}

	start := time.Now()
	jokes := jokeFetcher.Fetch(ctx)
	m.PrintMetrics(log)

	if len(jokes) == 0 {
		log.Info("no jokes fetched")
		return nil
	}

	unique := dedup.New(log).Unique(jokes)

	jokePersister, err := persister.New(log, cfg.OutputPath)
	if err != nil {
		log.Error("failed to initialise persister", sl.Err(err))
		return err
	}
	if err := jokePersister.Save(ctx, unique); err != nil {
		log.Error("failed to save jokes", sl.Err(err))
		return err
	}

	archiveJokes(ctx, log, cfg, unique)
	sinkToPostgres(ctx, log, cfg, unique)
	sinkToRedis(ctx, log, cfg, unique)

	log.Info("harvest done",
		"unique", len(unique),
		"elapsed", utils.FormatDuration(time.Since(start)),
	)

	return nil
}

// archiveJokes keeps a searchable copy of the run in the local archive.
// The archive is optional; failures are logged and never abort a run that
// already saved its output.
func archiveJokes(ctx context.Context, log *slog.Logger, cfg *config.Config, jokes []models.Joke) {
	if cfg.StoragePath == "" {
		return
	}

	storageApp, err := app.NewStorageApp(log, cfg.StoragePath)
	if err != nil {
		log.Error("archive unavailable", sl.Err(err))
		return
	}
	defer func() {
		if err := storageApp.Stop(); err != nil {
			log.Error("failed to close archive", sl.Err(err))
		}
	}()

	ftsService := fts.New(log, storageApp.Storage(), storageApp.Storage())

	indexed := 0
	for _, joke := range jokes {
		if err := ftsService.IndexJoke(ctx, joke); err != nil {
			log.Warn("failed to index joke", sl.Err(err))
			continue
		}
		indexed++
	}

	log.Info("jokes archived", "indexed", indexed, "path", cfg.StoragePath)
}

func sinkToPostgres(ctx context.Context, log *slog.Logger, cfg *config.Config, jokes []models.Joke) {
	if cfg.Postgres.DSN == "" {
		return
	}

	db, err := postgres.New(ctx, log, cfg.Postgres.DSN)
	if err != nil {
		log.Error("postgres sink unavailable", sl.Err(err))
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close postgres", sl.Err(err))
		}
	}()

	inserted, err := db.AddJokes(ctx, jokes)
	if err != nil {
		log.Error("postgres sink failed", sl.Err(err))
		return
	}

	total, err := db.Stats(ctx)
	if err != nil {
		log.Warn("failed to read postgres stats", sl.Err(err))
	}

	log.Info("postgres sink updated", "inserted", inserted, "total", total)
}

func sinkToRedis(ctx context.Context, log *slog.Logger, cfg *config.Config, jokes []models.Joke) {
	if cfg.Redis.Address == "" {
		return
	}

	storage, err := redis.New(log, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Error("redis sink unavailable", sl.Err(err))
		return
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close redis", sl.Err(err))
		}
	}()

	stored, err := storage.AddJokes(ctx, jokes)
	if err != nil {
		log.Error("redis sink failed", sl.Err(err))
		return
	}

	log.Info("redis sink updated", "stored", stored)
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

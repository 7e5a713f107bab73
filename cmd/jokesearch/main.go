package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"jokefetch/config"
	"jokefetch/internal/app"
	"jokefetch/internal/lib/logger/sl"
	"jokefetch/internal/services/cui"
	"jokefetch/internal/services/loader"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var reindexPath string
	flag.StringVar(&reindexPath, "reindex", "", "jokes file to load into the archive")

	cfg := config.MustLoad()

	ctx := context.Background()

	log := setupLogger(cfg.Env)

	log.Info("jokesearch", "env", cfg.Env)

	if cfg.StoragePath == "" {
		log.Error("storage path is required, pass -storage-path or set storage_path in the config")
		os.Exit(1)
	}

	application := app.New(log, cfg.StoragePath)

	log.Info("archive opened", "path", cfg.StoragePath)

	if reindexPath != "" {
		jokeLoader := loader.NewLoader(log, reindexPath)
		jokes, err := jokeLoader.LoadJokes(ctx)
		if err != nil {
			log.Error("failed to load jokes", sl.Err(err))
			os.Exit(1)
		}

		indexed := 0
		for _, joke := range jokes {
			if err := application.FTS.IndexJoke(ctx, joke); err != nil {
				log.Warn("failed to index joke", sl.Err(err))
				continue
			}
			indexed++
		}

		log.Info("reindex done", "indexed", indexed, "total", len(jokes))
	}

	stats, err := application.StorageApp.Storage().Stats(ctx)
	if err != nil {
		log.Warn("failed to read archive stats", sl.Err(err))
	} else {
		log.Info("archive stats", "jokes", stats.Jokes, "words", stats.Words)
	}

	fmt.Println("Starting joke search")

	cuiApp := cui.New(ctx, log, application.FTS, cfg.Search.MaxResults)
	if err := cuiApp.Start(); err != nil {
		log.Error("failed to run UI", sl.Err(err))
	}

	if err := application.StorageApp.Stop(); err != nil {
		log.Error("failed to close database", sl.Err(err))
	}

	log.Info("Gracefully stopped")
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

package app

import (
	"log/slog"

	"jokefetch/internal/services/fts"
)

type App struct {
	FTS        *fts.FTS
	StorageApp *StorageApp
}

func New(
	log *slog.Logger,
	storagePath string,
) *App {
	storageApp, err := NewStorageApp(log, storagePath)
	if err != nil {
		panic(err)
	}

	ftsService := fts.New(log, storageApp.Storage(), storageApp.Storage())

	return &App{
		FTS:        ftsService,
		StorageApp: storageApp,
	}
}

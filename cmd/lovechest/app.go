package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/comigor/lovechest/internal/chest"
	"github.com/comigor/lovechest/internal/config"
	"github.com/comigor/lovechest/internal/logger"
	"github.com/comigor/lovechest/internal/messages"
	"github.com/comigor/lovechest/internal/storage"
	"github.com/comigor/lovechest/internal/web"
)

// app is everything a command needs, built from one config file.
type app struct {
	cfg    *config.Config
	chest  *chest.Chest
	assets fs.FS
	close  func() error
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.Log.Level)

	pool, err := messages.NewPool(cfg.Messages)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Chest.Location()
	if err != nil {
		return nil, err
	}
	store, closeStore, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.Profile)
	if err != nil {
		return nil, err
	}

	var assets fs.FS
	if cfg.Server.StaticDir != "" {
		if _, err := os.Stat(cfg.Server.StaticDir); err != nil {
			closeStore()
			return nil, fmt.Errorf("static dir: %w", err)
		}
		assets = os.DirFS(cfg.Server.StaticDir)
	}

	c := chest.New(store, messages.NewSelector(pool),
		chest.WithLocation(loc),
		chest.WithRenderer(web.PageTargets{Assets: assets}),
		chest.WithDegraded(storage.Degraded(store)),
	)
	return &app{cfg: cfg, chest: c, assets: assets, close: closeStore}, nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	backend "github.com/redis/go-redis/v9"

	gamebot "github.com/gamebase54/gamebot"
	"github.com/gamebase54/gamebot/internal/adapters/file"
	"github.com/gamebase54/gamebot/internal/adapters/objectfs"
	"github.com/gamebase54/gamebot/internal/adapters/redis"
	"github.com/gamebase54/gamebot/internal/adapters/telegram"
	"github.com/gamebase54/gamebot/internal/catalog"
	"github.com/gamebase54/gamebot/internal/config"
	"github.com/gamebase54/gamebot/internal/logging"
	"github.com/gamebase54/gamebot/internal/metrics"
	"github.com/gamebase54/gamebot/internal/views"
)

// app holds everything a command needs after bootstrap.
type app struct {
	engine     *gamebot.Engine
	client     *telegram.Client
	collectors *metrics.Collectors
	logger     *slog.Logger
	cleanup    func()
}

// bootstrap assembles the engine from resolved configuration. The
// returned cleanup closes backend connections.
func bootstrap(cfg *config.Config) (*app, error) {
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token is required (set GAMEBOT_TOKEN or token in the config file)")
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	opts := []gamebot.Option{
		gamebot.WithLogger(logger),
		gamebot.WithIdleThreshold(cfg.IdleThreshold),
		gamebot.WithBroadcastInterval(cfg.BroadcastInterval),
		gamebot.WithNewsURL(cfg.NewsURL),
		gamebot.WithAdmins(cfg.AdminIDs...),
	}

	if viewStore, err := views.Load(cfg.ViewsPath); err != nil {
		logger.Warn("views file unavailable, using fallback texts", "path", cfg.ViewsPath, "err", err)
	} else {
		opts = append(opts, gamebot.WithViews(viewStore))
	}
	if info, err := os.Stat(cfg.AssetsPath); err == nil && info.IsDir() {
		opts = append(opts, gamebot.WithObjects(objectfs.New(cfg.AssetsPath)))
	}

	collectors := metrics.New()
	opts = append(opts, gamebot.WithLifecycleHooks(collectors.Hooks()))

	cleanup := func() {}
	switch cfg.SessionBackend {
	case config.BackendFile:
		opts = append(opts, gamebot.WithSessionStore(file.New(cfg.SessionPath)))
	case config.BackendRedis:
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cleanup = func() { _ = client.Close() }
		opts = append(opts,
			gamebot.WithSessionStore(redis.NewSessionStoreFromClient(client, redis.WithTTL(cfg.SessionTTL))),
			gamebot.WithNotificationStore(redis.NewNotificationStore(client)),
			gamebot.WithFeedbackStore(redis.NewFeedbackStore(client)),
		)
	}

	client := telegram.NewClient(cfg.Token, telegram.WithClientLogger(logger))
	engine, err := gamebot.New(client, cat, opts...)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &app{
		engine:     engine,
		client:     client,
		collectors: collectors,
		logger:     logger,
		cleanup:    cleanup,
	}, nil
}

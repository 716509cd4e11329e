package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"marketmonitor/internal/adapter"
	"marketmonitor/internal/adapter/craigslist"
	"marketmonitor/internal/cache"
	"marketmonitor/internal/config"
	"marketmonitor/internal/pipeline"
	"marketmonitor/internal/runner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	search, err := config.ReadSearchFile(cfg.ConfigPath)
	if err != nil {
		log.Error("load search config", "path", cfg.ConfigPath, "error", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := cache.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open cache database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	client := adapter.NewClient(30 * time.Second)
	adapters := map[string]pipeline.Adapter{
		craigslist.Name: craigslist.New(client, "sfbay"),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting monitoring pass", "items", len(search.Items))

	r := runner.New(store, adapters, log, cfg.FetchDelay)
	listings := r.Run(ctx, search)

	for _, l := range listings {
		fmt.Printf("%s | %s | %s | %s\n", l.Marketplace, l.Title, l.Price, l.PostURL)
	}

	log.Info("monitoring pass finished", "accepted", len(listings))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

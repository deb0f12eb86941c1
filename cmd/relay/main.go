package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/akarpov/ticker-relay/internal/catalog"
	"github.com/akarpov/ticker-relay/internal/config"
	"github.com/akarpov/ticker-relay/internal/feed"
	"github.com/akarpov/ticker-relay/internal/hub"
	"github.com/akarpov/ticker-relay/internal/server"
	"github.com/akarpov/ticker-relay/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/relay.yaml", "path to config file")
	flag.Parse()

	// A .env file is optional; deployed environments set variables directly.
	godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting relay",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	cat := catalog.New(cfg.Catalog.Symbols)
	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upstream", cfg.Feed.WSURL,
		"symbols", cat.Len(),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Wire the relay: feed -> hub -> sessions, sessions -> feed control.
	relayHub := hub.New(cat, logger)

	feedMgr := feed.NewManager(feed.Config{
		WSURL:            cfg.Feed.WSURL,
		HandshakeTimeout: cfg.Feed.HandshakeTimeout,
	}, cat, relayHub, logger)

	srv := server.New(server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: 5 * time.Second,
	}, relayHub, feedMgr, logger)

	if err := srv.Run(ctx); err != nil {
		logger.Error("relay failed", "error", err)
		os.Exit(1)
	}

	logger.Info("relay stopped")
}

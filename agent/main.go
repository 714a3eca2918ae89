package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"webguard/agent/internal/api"
	"webguard/agent/internal/channel"
	"webguard/agent/internal/command"
	"webguard/agent/internal/config"
	"webguard/agent/internal/history"
	"webguard/agent/internal/logger"
	"webguard/agent/internal/rules"
	"webguard/agent/internal/state"
	"webguard/agent/internal/storage"
	"webguard/agent/internal/watcher"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg := config.Init(*cfgPath)
	if err := logger.Init(cfg.LogPath); err != nil {
		// fall back to stdout rather than refusing to start
		_ = logger.Init("")
		logger.Warnf("log file %s unusable: falling back to stdout", cfg.LogPath)
	}

	state.SetAgentID(uuid.NewString())

	docs, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Cannot open agent storage:", err)
		os.Exit(1)
	}

	ruleStore := rules.NewStore(docs)
	if err := ruleStore.Load(); err != nil {
		logger.Warnf("rule set unreadable, starting empty: %v", err)
	}
	stats := rules.NewStats(docs)
	stats.Load()
	matcher := rules.NewMatcher(ruleStore, stats)

	histStore := history.NewStore(docs)
	if err := histStore.Load(); err != nil {
		logger.Warnf("history unreadable, starting empty: %v", err)
	}

	client := channel.NewClient(config.BackendAddr(), cfg.HTTPTimeout)
	recorder := history.NewRecorder(histStore, client)
	dispatcher := command.NewDispatcher(ruleStore)
	poller := channel.NewPoller(client, dispatcher, cfg.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	if cfg.BlocklistPath != "" {
		bl, err := watcher.NewBlocklist(cfg.BlocklistPath, ruleStore)
		if err != nil {
			logger.Warnf("blocklist watch on %s disabled: %v", cfg.BlocklistPath, err)
		} else {
			defer bl.Close()
		}
	}

	ctrl := api.NewController(ruleStore, stats, matcher, histStore, recorder)
	srv := &http.Server{Addr: config.ListenAddr(), Handler: api.NewRouter(ctrl)}
	go func() {
		logger.Infof("agent listening on %s, backend %s", config.ListenAddr(), config.BackendAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received, exiting...")
	cancel()
	_ = srv.Shutdown(context.Background())
}

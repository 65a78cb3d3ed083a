package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalogsync/internal/adcatalog"
	"catalogsync/internal/cache"
	"catalogsync/internal/config"
	"catalogsync/internal/events"
	"catalogsync/internal/logger"
	"catalogsync/internal/mapper"
	"catalogsync/internal/replication"
	"catalogsync/internal/sourceclient"
	"catalogsync/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logger.New(cfg.LogLevel)

	c, err := cache.New(cfg.CachePath)
	if err != nil {
		logger.Fatal("Failed to open cache: %v", err)
	}
	defer c.Close()

	source := sourceclient.NewClient(cfg.SourceBaseURL, cfg.SourceConsumerKey, cfg.SourceConsumerSecret, logger)
	catalog := adcatalog.NewClient(cfg.AdCatalogBaseURL, cfg.AdCatalogID, cfg.AdCatalogToken, logger)
	m := mapper.New(cfg.Brand, cfg.CurrencySuffix, cfg.ImageServiceURL)
	engine := replication.New(source, catalog, c, m, logger)

	processor := events.NewProcessor(c, source, engine, logger)

	w := worker.New(cfg, logger, processor)

	logger.Info("Starting worker...")
	go w.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}

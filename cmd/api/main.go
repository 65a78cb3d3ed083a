package main

import (
	"log"
	"strings"

	"catalogsync/internal/adcatalog"
	"catalogsync/internal/api"
	"catalogsync/internal/auth"
	"catalogsync/internal/cache"
	"catalogsync/internal/config"
	"catalogsync/internal/events"
	"catalogsync/internal/feed"
	"catalogsync/internal/logger"
	"catalogsync/internal/mapper"
	"catalogsync/internal/replication"
	"catalogsync/internal/sourceclient"
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
	generator := feed.New(c, source, m, logger)

	authenticator, err := auth.New(c, cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		logger.Fatal("Failed to initialize authenticator: %v", err)
	}

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	webhookHandler := events.NewHandler(c, source, logger, cfg.WebhookSecret, cfg.SourceHostname, brokers)
	defer webhookHandler.Close()

	server := api.New(cfg, logger, c, engine, generator, authenticator, webhookHandler)

	logger.Info("Starting API server on port " + cfg.Port)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// Command custodian-service runs the custodian data service: a REST API
// over custodian, portfolio, account, position and transaction records
// backed by MongoDB, with change events emitted to Kafka.
//
// Usage:
//
//	custodian-service (configured via environment variables or CONFIG_FILE)
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dnlwrthstr/custodian-service/config"
	"github.com/dnlwrthstr/custodian-service/internal/events"
	"github.com/dnlwrthstr/custodian-service/internal/services"
	"github.com/dnlwrthstr/custodian-service/internal/storage/accounts"
	"github.com/dnlwrthstr/custodian-service/internal/storage/custodians"
	"github.com/dnlwrthstr/custodian-service/internal/storage/mongodb"
	"github.com/dnlwrthstr/custodian-service/internal/storage/portfolios"
	"github.com/dnlwrthstr/custodian-service/internal/storage/positions"
	"github.com/dnlwrthstr/custodian-service/internal/storage/transactions"
	"github.com/dnlwrthstr/custodian-service/internal/web"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := mongodb.New(cfg.MongoURL, cfg.MongoDBName, logger,
		mongodb.WithMaxRetries(cfg.MongoMaxRetries),
		mongodb.WithRetryDelay(cfg.MongoRetryDelay),
		mongodb.WithPingTimeout(cfg.MongoPingTimeout))
	if err := store.Connect(ctx); err != nil {
		logger.Fatal("mongodb unavailable", zap.Error(err))
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDBName))

	publisher := events.NewPublisher(cfg.Brokers(), cfg.KafkaEnabled, cfg.KafkaAckTimeout, logger)
	if err := publisher.Start(); err != nil {
		// the service keeps running without eventing
		logger.Warn("kafka producer unavailable, events disabled", zap.Error(err))
	}
	defer publisher.Stop()

	svc := services.New(services.Deps{
		Custodians:   custodians.New(store),
		Portfolios:   portfolios.New(store),
		Accounts:     accounts.New(store),
		Positions:    positions.New(store),
		Transactions: transactions.New(store),
		Publisher:    publisher,
		Topics: services.Topics{
			Custodian:   cfg.KafkaCustodianTopic,
			Transaction: cfg.KafkaTransactionTopic,
		},
		Logger: logger,
	})

	server := web.NewServer(cfg.Addr(), svc, store, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(ctx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

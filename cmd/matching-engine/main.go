package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/tradecore/matching-engine/internal/app/engine"
	matchingengine "github.com/tradecore/matching-engine/internal/usecase/engine"
	matchpublisher "github.com/tradecore/matching-engine/internal/usecase/match-publisher"
	orderreader "github.com/tradecore/matching-engine/internal/usecase/order-reader"
	"github.com/tradecore/matching-engine/internal/usecase/snapshot"
	"github.com/tradecore/matching-engine/pkg/config"
	"github.com/tradecore/matching-engine/pkg/logger"
	"github.com/tradecore/matching-engine/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = []string{cfg.RedisConfig.Addrs}
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB

	rclient := redis.NewClient(log, redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	engine := matchingengine.NewMatchingEngine()
	oReader := orderreader.NewReader(cfg.KafkaConfig, log)
	snapshotStore := snapshot.NewSnapshotStore(rclient, log)
	publisher := matchpublisher.NewPublisher(cfg.MatchPublisherConfig, log)

	service, err := app.NewApp(
		engine,
		oReader,
		snapshotStore,
		publisher,
		log,
		cfg,
	)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "init_engine",
		})
		return
	}

	if err := service.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Matching engine started successfully", logger.Field{
		Key:   "pairs",
		Value: cfg.Pairs,
	})

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := service.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_match_publisher",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	_ = log.Sync()
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/client/coinmarketcap"
	"github.com/cyphera/passkey-wallet/internal/client/notify"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/cyphera/passkey-wallet/internal/pricing"
	"github.com/cyphera/passkey-wallet/internal/watcher"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// The watcher process scans chains for incoming deposits and keeps the
// USD price cache warm for the API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.InitLogger("local")
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.InitLogger(cfg.Stage)
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting deposit watcher", zap.String("stage", cfg.Stage), zap.Int64s("chains", cfg.ChainIDs()))

	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Unable to parse database DSN", zap.Error(err))
	}
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Unable to create connection pool", zap.Error(err))
	}
	defer pool.Close()
	store := db.NewStore(pool)
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("Failed to apply database schema", zap.Error(err))
	}

	chains := chain.NewRegistry(cfg.Chains, chain.DialEthclient)
	defer chains.Close()
	deriver := derivation.NewDeriver(chains, cfg.DerivationTimeout, cfg.ReferenceChain)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.PassUpdateQueueURL != "" {
		sqsNotifier, err := notify.NewSQSNotifierFromEnv(ctx, cfg.PassUpdateQueueURL)
		if err != nil {
			logger.Fatal("Failed to initialize pass update notifier", zap.Error(err))
		}
		notifier = sqsNotifier
	}

	w := watcher.New(store, chains, deriver, notifier, watcher.Config{
		Interval:   cfg.WatchInterval,
		RPCTimeout: cfg.RPCTimeout,
	})
	w.Start()
	defer w.Stop()

	if cfg.CMCAPIKey == "" {
		logger.Warn("CMC_API_KEY not set, price refresh disabled")
	} else {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Unable to parse REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(redisOpts)
		defer func() { _ = rdb.Close() }()

		refresher := pricing.NewRefresher(
			pricing.NewCache(rdb, cfg.PriceTimeout, cfg.PriceTTL),
			coinmarketcap.NewClient(cfg.CMCAPIKey, ""),
			cfg.Chains,
			cfg.PriceRefreshInterval,
		)
		refresher.Start()
		defer refresher.Stop()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down watcher...")
}

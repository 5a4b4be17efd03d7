package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyphera/passkey-wallet/internal/auth"
	"github.com/cyphera/passkey-wallet/internal/chain"
	awsclient "github.com/cyphera/passkey-wallet/internal/client/aws"
	"github.com/cyphera/passkey-wallet/internal/client/notify"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/credential"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/handlers"
	"github.com/cyphera/passkey-wallet/internal/helpers"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/cyphera/passkey-wallet/internal/middleware"
	"github.com/cyphera/passkey-wallet/internal/paymaster"
	"github.com/cyphera/passkey-wallet/internal/portfolio"
	"github.com/cyphera/passkey-wallet/internal/pricing"
	"github.com/cyphera/passkey-wallet/internal/server"
	"github.com/cyphera/passkey-wallet/internal/users"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not up yet
		logger.InitLogger("local")
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.InitLogger(cfg.Stage)
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting passkey wallet API", zap.String("stage", cfg.Stage), zap.Int("chains", len(cfg.Chains)))

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	secretsClient, err := awsclient.NewSecretsManagerClient(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize AWS Secrets Manager client", zap.Error(err))
	}

	// --- Database ---
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Unable to parse database DSN", zap.Error(err))
	}
	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Unable to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	store := db.NewStore(pool)
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("Failed to apply database schema", zap.Error(err))
	}

	// --- Price cache ---
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Unable to parse REDIS_URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	prices := pricing.NewCache(rdb, cfg.PriceTimeout, cfg.PriceTTL)

	// --- Chains ---
	chains := chain.NewRegistry(cfg.Chains, chain.DialEthclient)
	defer chains.Close()
	deriver := derivation.NewDeriver(chains, cfg.DerivationTimeout, cfg.ReferenceChain)

	// --- Sessions ---
	jwtSecret, err := secretsClient.GetSecretString(ctx, cfg.JWTSecretArn, "JWT_SECRET")
	if err != nil {
		logger.Fatal("JWT signing secret is not configured", zap.Error(err))
	}
	tokens, err := auth.NewTokenIssuer([]byte(jwtSecret), cfg.JWTIssuer, cfg.SessionTTL)
	if err != nil {
		logger.Fatal("Failed to create token issuer", zap.Error(err))
	}
	gate := auth.NewGatekeeper(store, tokens, cfg.IsLocal())

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.PassUpdateQueueURL != "" {
		sqsNotifier, err := notify.NewSQSNotifierFromEnv(ctx, cfg.PassUpdateQueueURL)
		if err != nil {
			logger.Fatal("Failed to initialize pass update notifier", zap.Error(err))
		}
		notifier = sqsNotifier
	}

	// --- Services ---
	dailyLimit, err := helpers.ParseUSD(cfg.DefaultDailyLimitUSD)
	if err != nil {
		logger.Fatal("Invalid DEFAULT_DAILY_LIMIT_USD", zap.Error(err))
	}
	largeTx, err := helpers.ParseUSD(cfg.DefaultLargeTxThresholdUSD)
	if err != nil {
		logger.Fatal("Invalid DEFAULT_LARGE_TX_THRESHOLD_USD", zap.Error(err))
	}

	credentials := credential.NewService(store, deriver, tokens,
		credential.NewWebAuthnFactory(cfg.RPDisplayName, cfg.ChallengeTTL),
		credential.RPResolver{Configured: cfg.RPID, Origins: cfg.RPOrigins},
		credential.Config{
			ChallengeTTL:            cfg.ChallengeTTL,
			ReplayWindow:            cfg.ReplayWindow,
			DefaultDailyLimit:       dailyLimit,
			DefaultLargeTxThreshold: largeTx,
		},
		cfg.ReferenceChain,
	).WithNotifier(notifier)

	engine := paymaster.NewEngine(store, deriver, chains, prices,
		paymaster.NewKeyRing(secretsClient, cfg.Chains),
		paymaster.Config{Validity: cfg.SponsorValidity, RPCTimeout: cfg.RPCTimeout},
	)
	accounts := users.NewService(store, deriver, chains)
	balances := portfolio.NewService(store, deriver, chains, prices, cfg.RPCTimeout)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	router := server.NewRouter(server.Handlers{
		Health:     handlers.NewHealthHandler(pool),
		Credential: handlers.NewCredentialHandler(credentials),
		Sponsor:    handlers.NewSponsorHandler(engine),
		Account:    handlers.NewAccountHandler(accounts, balances),
		Admin:      handlers.NewAdminHandler(accounts),
	}, gate, server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AdminKey:       cfg.AdminAPIKey,
		RateLimiter:    limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting")
}

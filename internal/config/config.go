package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/helpers"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// Config is the process configuration shared by the API and the watcher.
type Config struct {
	Stage   string `env:"STAGE" envDefault:"local"`
	APIPort string `env:"API_PORT" envDefault:"8000"`

	DatabaseURL    string   `env:"DATABASE_URL"`
	DBMaxConns     int32    `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns     int32    `env:"DB_MIN_CONNS" envDefault:"2"`
	RedisURL       string   `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	ChainsFile     string   `env:"CHAINS_FILE" envDefault:"chains.json"`
	ReferenceChain int64    `env:"REFERENCE_CHAIN_ID" envDefault:"1"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	RPID          string        `env:"RP_ID" envDefault:"auto"`
	RPDisplayName string        `env:"RP_DISPLAY_NAME" envDefault:"Passkey Wallet"`
	RPOrigins     []string      `env:"RP_ORIGINS" envSeparator:","`
	ChallengeTTL  time.Duration `env:"CHALLENGE_TTL" envDefault:"5m"`
	ReplayWindow  time.Duration `env:"LOGIN_REPLAY_WINDOW" envDefault:"60s"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"passkey-wallet"`
	JWTSecret     string        `env:"JWT_SECRET"`
	JWTSecretArn  string        `env:"JWT_SECRET_ARN"`
	AdminAPIKey   string        `env:"ADMIN_API_KEY"`

	DefaultDailyLimitUSD       string `env:"DEFAULT_DAILY_LIMIT_USD" envDefault:"1000"`
	DefaultLargeTxThresholdUSD string `env:"DEFAULT_LARGE_TX_THRESHOLD_USD" envDefault:"100"`

	DerivationTimeout    time.Duration `env:"DERIVATION_TIMEOUT" envDefault:"2s"`
	RPCTimeout           time.Duration `env:"RPC_TIMEOUT" envDefault:"5s"`
	PriceTimeout         time.Duration `env:"PRICE_TIMEOUT" envDefault:"2s"`
	PriceTTL             time.Duration `env:"PRICE_TTL" envDefault:"15m"`
	WatchInterval        time.Duration `env:"WATCH_INTERVAL" envDefault:"30s"`
	PriceRefreshInterval time.Duration `env:"PRICE_REFRESH_INTERVAL" envDefault:"5m"`
	SponsorValidity      time.Duration `env:"SPONSOR_VALIDITY" envDefault:"10m"`

	CMCAPIKey          string `env:"CMC_API_KEY"`
	PassUpdateQueueURL string `env:"PASS_UPDATE_QUEUE_URL"`

	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	Chains map[int64]ChainConfig
}

// Token is an ERC-20 tracked on a chain.
type Token struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
}

// ChainConfig holds everything needed to talk to one chain.
type ChainConfig struct {
	ChainID          int64          `json:"chainId"`
	Name             string         `json:"name"`
	RPCURL           string         `json:"rpcUrl"`
	EntryPoint       common.Address `json:"entryPoint"`
	Factory          common.Address `json:"factory"`
	Paymaster        common.Address `json:"paymaster"`
	Treasury         common.Address `json:"treasury"`
	SignerSecretArn  string         `json:"signerSecretArn"`
	SignerKeyEnv     string         `json:"signerKeyEnv"`
	NativeSymbol     string         `json:"nativeSymbol"`
	MarkupBps        int64          `json:"markupBps"`
	MaxMultiplierBps int64          `json:"maxMultiplierBps"`
	PostOpGas        uint64         `json:"postOpGas"`
	Confirmations    uint64         `json:"confirmations"`
	LookbackBlocks   uint64         `json:"lookbackBlocks"`
	MaxBlockRange    uint64         `json:"maxBlockRange"`
	RPCPerSecond     int            `json:"rpcPerSecond"`
	Tokens           []Token        `json:"tokens"`
}

// HasTreasury reports whether a fee destination is configured.
func (c ChainConfig) HasTreasury() bool {
	return c.Treasury != (common.Address{})
}

// Token looks up a tracked token by address.
func (c ChainConfig) Token(addr common.Address) (Token, bool) {
	for _, t := range c.Tokens {
		if t.Address == addr {
			return t, true
		}
	}
	return Token{}, false
}

// Load reads .env (when present), the environment and the chain table.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validateStage(); err != nil {
		return nil, err
	}

	if cfg.ChainsFile != "" {
		raw, err := os.ReadFile(cfg.ChainsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read chains file %s: %w", cfg.ChainsFile, err)
		}
		chains, err := ParseChains(raw)
		if err != nil {
			return nil, err
		}
		cfg.Chains = chains
	}
	return cfg, nil
}

func (c *Config) validateStage() error {
	if helpers.IsValidStage(c.Stage) {
		return nil
	}
	return fmt.Errorf("invalid STAGE %q: must be one of local, dev, prod", c.Stage)
}

// ParseChains decodes a JSON array of chain entries into a lookup table keyed by chain id.
func ParseChains(raw []byte) (map[int64]ChainConfig, error) {
	var list []ChainConfig
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode chain table: %w", err)
	}
	out := make(map[int64]ChainConfig, len(list))
	for _, c := range list {
		if c.ChainID == 0 {
			return nil, fmt.Errorf("chain entry %q has no chainId", c.Name)
		}
		if _, dup := out[c.ChainID]; dup {
			return nil, fmt.Errorf("duplicate chain entry for chainId %d", c.ChainID)
		}
		applyChainDefaults(&c)
		out[c.ChainID] = c
	}
	return out, nil
}

func applyChainDefaults(c *ChainConfig) {
	if c.MarkupBps == 0 {
		c.MarkupBps = 10_000
	}
	if c.MaxMultiplierBps == 0 {
		c.MaxMultiplierBps = 15_000
	}
	if c.PostOpGas == 0 {
		c.PostOpGas = 40_000
	}
	if c.LookbackBlocks == 0 {
		c.LookbackBlocks = 5_000
	}
	if c.MaxBlockRange == 0 {
		c.MaxBlockRange = 2_000
	}
	if c.RPCPerSecond == 0 {
		c.RPCPerSecond = 10
	}
	if c.NativeSymbol == "" {
		c.NativeSymbol = "ETH"
	}
	c.NativeSymbol = strings.ToUpper(c.NativeSymbol)
}

// Chain resolves a chain entry by id.
func (c *Config) Chain(id int64) (ChainConfig, bool) {
	ch, ok := c.Chains[id]
	return ch, ok
}

// ChainIDs lists configured chain ids.
func (c *Config) ChainIDs() []int64 {
	ids := make([]int64, 0, len(c.Chains))
	for id := range c.Chains {
		ids = append(ids, id)
	}
	return ids
}

// IsLocal reports whether the process runs in development mode.
func (c *Config) IsLocal() bool {
	return c.Stage == constants.LocalEnvironment
}

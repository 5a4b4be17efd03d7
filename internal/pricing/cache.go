package pricing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

// ErrPriceUnavailable means the price cache could not be read in time.
var ErrPriceUnavailable = errors.New("price cache unavailable")

// Native identifies a chain's native currency in price lookups.
var Native = common.Address{}

// Oracle returns USD prices scaled by 1e9. A zero price means unknown and must never be guessed.
type Oracle interface {
	GetUsdPrice(ctx context.Context, chainID int64, token common.Address) (uint64, error)
}

// Cache is the Redis backed price oracle.
type Cache struct {
	rdb     redis.UniversalClient
	timeout time.Duration
	ttl     time.Duration
}

func NewCache(rdb redis.UniversalClient, timeout, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, timeout: timeout, ttl: ttl}
}

func priceKey(chainID int64, token common.Address) string {
	asset := constants.NativeAsset
	if token != Native {
		asset = strings.ToLower(token.Hex())
	}
	return fmt.Sprintf("price:v1:%d:%s", chainID, asset)
}

// GetUsdPrice returns the cached price, or 0 when nothing is cached.
func (c *Cache) GetUsdPrice(ctx context.Context, chainID int64, token common.Address) (uint64, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.rdb.Get(ctx, priceKey(chainID, token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	price, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, nil
	}
	return price, nil
}

// SetUsdPrice stores a price with the cache TTL. A zero price clears the entry.
func (c *Cache) SetUsdPrice(ctx context.Context, chainID int64, token common.Address, priceNano uint64) error {
	key := priceKey(chainID, token)
	if priceNano == 0 {
		return c.rdb.Del(ctx, key).Err()
	}
	return c.rdb.Set(ctx, key, strconv.FormatUint(priceNano, 10), c.ttl).Err()
}

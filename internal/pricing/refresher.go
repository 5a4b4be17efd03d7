package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/helpers"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// QuoteSource returns USD prices keyed by upper-case symbol.
type QuoteSource interface {
	USDPrices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// Refresher keeps the price cache warm for every native currency and tracked token.
type Refresher struct {
	cache    *Cache
	source   QuoteSource
	chains   map[int64]config.ChainConfig
	interval time.Duration
	logger   *zap.Logger

	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewRefresher(cache *Cache, source QuoteSource, chains map[int64]config.ChainConfig, interval time.Duration) *Refresher {
	return &Refresher{
		cache:    cache,
		source:   source,
		chains:   chains,
		interval: interval,
		logger:   logger.With(zap.String("component", "price_refresher")),
		stopCh:   make(chan struct{}),
	}
}

// Refresh fetches one round of quotes and writes them to the cache.
// Symbols without a quote are left untouched so they expire naturally.
func (r *Refresher) Refresh(ctx context.Context) error {
	type target struct {
		chainID int64
		token   common.Address
	}
	bySymbol := make(map[string][]target)
	for id, ch := range r.chains {
		bySymbol[ch.NativeSymbol] = append(bySymbol[ch.NativeSymbol], target{id, Native})
		for _, tok := range ch.Tokens {
			bySymbol[tok.Symbol] = append(bySymbol[tok.Symbol], target{id, tok.Address})
		}
	}
	if len(bySymbol) == 0 {
		return nil
	}

	symbols := make([]string, 0, len(bySymbol))
	for s := range bySymbol {
		symbols = append(symbols, s)
	}

	quotes, err := r.source.USDPrices(ctx, symbols)
	if err != nil {
		return err
	}

	written := 0
	for symbol, targets := range bySymbol {
		price := helpers.PriceToNano(quotes[symbol])
		if price == 0 {
			r.logger.Warn("no usd quote for symbol", zap.String("symbol", symbol))
			continue
		}
		for _, t := range targets {
			if err := r.cache.SetUsdPrice(ctx, t.chainID, t.token, price); err != nil {
				r.logger.Error("failed to cache price",
					zap.String("symbol", symbol),
					zap.Int64("chain_id", t.chainID),
					zap.Error(err),
				)
				continue
			}
			written++
		}
	}
	r.logger.Debug("prices refreshed", zap.Int("symbols", len(symbols)), zap.Int("written", written))
	return nil
}

// Start refreshes immediately and then on every interval until Stop.
func (r *Refresher) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.runOnce()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.runOnce()
			case <-r.stopCh:
				return
			}
		}
	}()
}

func (r *Refresher) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("price refresh failed", zap.Error(err))
	}
}

// Stop ends the refresh loop and waits for it to exit.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.wg.Wait()
	})
}

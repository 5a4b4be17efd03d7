package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/client/notify"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/helpers"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrCycleInProgress is returned when a chain's previous cycle has not finished.
var ErrCycleInProgress = errors.New("watch cycle already running")

// Store is the persistence surface the watcher needs.
type Store interface {
	ListActiveDevices(ctx context.Context) ([]db.Device, error)
	UpsertAaAddress(ctx context.Context, arg db.UpsertAaAddressParams) error
	GetOrCreateChainCursor(ctx context.Context, arg db.GetOrCreateChainCursorParams) (db.ChainCursor, error)
	AdvanceChainCursor(ctx context.Context, arg db.AdvanceChainCursorParams) (db.ChainCursor, error)
	InsertDepositEvent(ctx context.Context, arg db.InsertDepositEventParams) (int64, error)
}

// ChainSource resolves chain configuration and clients for every watched chain.
type ChainSource interface {
	derivation.ChainSource
	ChainIDs() []int64
}

// Config tunes the scheduler and the log scanner.
type Config struct {
	Interval   time.Duration
	RPCTimeout time.Duration
	// MaxShrinkTime bounds how long one window may keep shrinking before the pair is abandoned.
	MaxShrinkTime time.Duration
}

// CycleReport summarizes one cycle on one chain.
type CycleReport struct {
	ChainID     int64
	Wallets     int
	Pairs       int
	FailedPairs int
	Deposits    int
	SafeBlock   uint64
}

// Watcher scans configured chains for ERC-20 deposits into derived accounts.
type Watcher struct {
	store    Store
	chains   ChainSource
	deriver  derivation.AddressDeriver
	notifier notify.Notifier
	cfg      Config
	logger   *zap.Logger

	cycles  sync.Map // chain id -> *sync.Mutex
	cursors *helpers.KeyedMutex
	serials sync.Map // device id -> common.Address

	newBackOff func() backoff.BackOff
	sleep      func(ctx context.Context, d time.Duration) error

	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func New(store Store, chains ChainSource, deriver derivation.AddressDeriver, notifier notify.Notifier, cfg Config) *Watcher {
	if cfg.MaxShrinkTime == 0 {
		cfg.MaxShrinkTime = 2 * time.Minute
	}
	w := &Watcher{
		store:    store,
		chains:   chains,
		deriver:  deriver,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "chain_watcher")),
		cursors:  helpers.NewKeyedMutex(),
		stopCh:   make(chan struct{}),
	}
	w.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.MaxInterval = 15 * time.Second
		b.MaxElapsedTime = w.cfg.MaxShrinkTime
		return b
	}
	w.sleep = w.sleepOrStop
	return w
}

// Start launches one scheduler goroutine per configured chain.
func (w *Watcher) Start() {
	for _, id := range w.chains.ChainIDs() {
		w.wg.Add(1)
		go w.loop(id)
	}
	w.logger.Info("chain watcher started", zap.Int("chains", len(w.chains.ChainIDs())), zap.Duration("interval", w.cfg.Interval))
}

// Stop signals every scheduler to exit and waits for running cycles to return.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.logger.Info("chain watcher stopped")
	})
}

func (w *Watcher) loop(chainID int64) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		w.tick(chainID)
		select {
		case <-ticker.C:
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) tick(chainID int64) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	report, err := w.RunCycle(ctx, chainID)
	switch {
	case errors.Is(err, ErrCycleInProgress):
		w.logger.Debug("skipping overlapping cycle", zap.Int64("chain_id", chainID))
	case err != nil:
		w.logger.Warn("watch cycle failed", zap.Int64("chain_id", chainID), zap.Error(err))
	default:
		w.logger.Debug("watch cycle finished",
			zap.Int64("chain_id", chainID),
			zap.Int("wallets", report.Wallets),
			zap.Int("pairs", report.Pairs),
			zap.Int("failed_pairs", report.FailedPairs),
			zap.Int("deposits", report.Deposits),
			zap.Uint64("safe_block", report.SafeBlock),
		)
	}
}

func (w *Watcher) cycleLock(chainID int64) *sync.Mutex {
	m, _ := w.cycles.LoadOrStore(chainID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// RunCycle performs one full scan of chainID. A cycle already running for
// the same chain makes this call return ErrCycleInProgress immediately.
func (w *Watcher) RunCycle(ctx context.Context, chainID int64) (CycleReport, error) {
	lock := w.cycleLock(chainID)
	if !lock.TryLock() {
		return CycleReport{ChainID: chainID}, ErrCycleInProgress
	}
	defer lock.Unlock()

	report := CycleReport{ChainID: chainID}
	cfg, err := w.chains.Config(chainID)
	if err != nil {
		return report, err
	}
	client, err := w.chains.Client(ctx, chainID)
	if err != nil {
		return report, err
	}

	latest, err := w.blockNumber(ctx, client)
	if err != nil {
		return report, fmt.Errorf("failed to read latest block: %w", err)
	}
	if latest < cfg.Confirmations {
		return report, nil
	}
	safe := latest - cfg.Confirmations
	report.SafeBlock = safe

	devices, err := w.store.ListActiveDevices(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list devices: %w", err)
	}

	seen := make(map[common.Address]bool)
	for _, device := range devices {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		wallet, serial, ok := w.resolve(ctx, cfg, device)
		if !ok || seen[wallet] {
			continue
		}
		seen[wallet] = true
		report.Wallets++

		for _, token := range cfg.Tokens {
			report.Pairs++
			found, err := w.scanToken(ctx, client, cfg, wallet, serial, token, safe)
			report.Deposits += found
			if err != nil {
				report.FailedPairs++
				w.logger.Warn("token scan aborted for this cycle",
					zap.Int64("chain_id", chainID),
					zap.String("wallet", wallet.Hex()),
					zap.String("token", token.Symbol),
					zap.Error(err),
				)
			}
		}
	}
	return report, nil
}

// resolve derives the device's account on this chain and records it in the address map.
func (w *Watcher) resolve(ctx context.Context, cfg config.ChainConfig, device db.Device) (common.Address, common.Address, bool) {
	log := w.logger.With(zap.Int64("chain_id", cfg.ChainID), zap.String("device_id", device.ID.String()))

	serial, err := w.serial(ctx, device)
	if err != nil {
		log.Debug("serial unavailable, device skipped this cycle", zap.Error(err))
		return common.Address{}, common.Address{}, false
	}
	wallet, err := w.deriver.Derive(ctx, device.PublicKey, cfg.ChainID, constants.DefaultSalt)
	if err != nil {
		log.Debug("address unavailable, device skipped this cycle", zap.Error(err))
		return common.Address{}, common.Address{}, false
	}

	if err := w.store.UpsertAaAddress(ctx, db.UpsertAaAddressParams{
		ChainID:  cfg.ChainID,
		Address:  wallet.Hex(),
		Serial:   serial.Hex(),
		DeviceID: device.ID,
	}); err != nil {
		log.Warn("failed to record address mapping", zap.Error(err))
	}
	return wallet, serial, true
}

// serial is cached per device since public keys never change once set.
func (w *Watcher) serial(ctx context.Context, device db.Device) (common.Address, error) {
	if v, ok := w.serials.Load(device.ID); ok {
		return v.(common.Address), nil
	}
	serial, err := w.deriver.Serial(ctx, device.PublicKey)
	if err != nil {
		return common.Address{}, err
	}
	w.serials.Store(device.ID, serial)
	return serial, nil
}

func (w *Watcher) blockNumber(ctx context.Context, client chain.Client) (uint64, error) {
	if w.cfg.RPCTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.RPCTimeout)
		defer cancel()
	}
	n, err := client.BlockNumber(ctx)
	return n, chain.Classify(err)
}

func (w *Watcher) sleepOrStop(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stopCh:
		return context.Canceled
	}
}

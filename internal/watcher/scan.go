package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/client/notify"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const defaultMaxBlockRange = 2000

func cursorKey(chainID int64, wallet, token common.Address) string {
	return fmt.Sprintf("%d|%s|%s", chainID, wallet.Hex(), token.Hex())
}

// scanToken walks the (wallet, token) cursor up to safe. The cursor only moves
// after every log of a window has been recorded, so a failure resumes from the
// last fully processed window on the next cycle.
func (w *Watcher) scanToken(ctx context.Context, client chain.Client, cfg config.ChainConfig, wallet, serial common.Address, token config.Token, safe uint64) (int, error) {
	unlock := w.cursors.Lock(cursorKey(cfg.ChainID, wallet, token.Address))
	defer unlock()

	start := int64(0)
	if safe > cfg.LookbackBlocks {
		start = int64(safe - cfg.LookbackBlocks)
	}
	cursor, err := w.store.GetOrCreateChainCursor(ctx, db.GetOrCreateChainCursorParams{
		ChainID:          cfg.ChainID,
		WalletAddress:    wallet.Hex(),
		TokenAddress:     token.Address.Hex(),
		LastScannedBlock: start,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load cursor: %w", err)
	}

	maxRange := cfg.MaxBlockRange
	if maxRange == 0 {
		maxRange = defaultMaxBlockRange
	}
	window := maxRange
	from := uint64(cursor.LastScannedBlock) + 1
	bo := w.newBackOff()
	found := 0

	for from <= safe {
		to := from + window - 1
		if to > safe {
			to = safe
		}

		logs, err := w.filterLogs(ctx, client, chain.TransferFilter(token.Address, wallet, from, to))
		if err != nil {
			if !chain.ShouldShrink(err) {
				return found, fmt.Errorf("log query [%d, %d] failed: %w", from, to, err)
			}
			if window > 1 {
				window /= 2
			}
			wait := bo.NextBackOff()
			if wait == backoff.Stop {
				return found, fmt.Errorf("log query [%d, %d] kept failing: %w", from, to, err)
			}
			w.logger.Debug("shrinking log window",
				zap.Int64("chain_id", cfg.ChainID),
				zap.String("token", token.Symbol),
				zap.Uint64("window", window),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
			if err := w.sleep(ctx, wait); err != nil {
				return found, err
			}
			continue
		}
		bo.Reset()

		for _, l := range logs {
			recorded, err := w.record(ctx, cfg.ChainID, wallet, serial, l)
			if err != nil {
				return found, err
			}
			if recorded {
				found++
			}
		}

		if _, err := w.store.AdvanceChainCursor(ctx, db.AdvanceChainCursorParams{
			ChainID:       cfg.ChainID,
			WalletAddress: wallet.Hex(),
			TokenAddress:  token.Address.Hex(),
			Block:         int64(to),
		}); err != nil {
			return found, fmt.Errorf("failed to advance cursor: %w", err)
		}

		from = to + 1
		if window < maxRange {
			window *= 2
			if window > maxRange {
				window = maxRange
			}
		}
	}
	return found, nil
}

// record stores one Transfer log and notifies on first sight. Replays of the
// same (tx, log index) are absorbed by the deposit table.
func (w *Watcher) record(ctx context.Context, chainID int64, wallet, serial common.Address, l types.Log) (bool, error) {
	if l.Removed {
		return false, nil
	}
	transfer, err := chain.ParseTransferLog(l)
	if err != nil {
		w.logger.Warn("ignoring malformed transfer log", zap.Int64("chain_id", chainID), zap.Error(err))
		return false, nil
	}
	if transfer.To != wallet {
		return false, nil
	}

	inserted, err := w.store.InsertDepositEvent(ctx, db.InsertDepositEventParams{
		ChainID:       chainID,
		TxHash:        transfer.TxHash.Hex(),
		LogIndex:      int64(transfer.LogIndex),
		WalletAddress: wallet.Hex(),
		TokenAddress:  transfer.Token.Hex(),
		Amount:        transfer.Amount.String(),
		BlockNumber:   int64(transfer.BlockNumber),
	})
	if err != nil {
		return false, fmt.Errorf("failed to record deposit %s:%d: %w", transfer.TxHash.Hex(), transfer.LogIndex, err)
	}
	if inserted == 0 {
		return false, nil
	}

	w.logger.Info("deposit detected",
		zap.Int64("chain_id", chainID),
		zap.String("wallet", wallet.Hex()),
		zap.String("token", transfer.Token.Hex()),
		zap.String("amount", transfer.Amount.String()),
		zap.String("tx_hash", transfer.TxHash.Hex()),
	)
	w.notifier.NotifyUpdate(ctx, notify.Update{
		Serial:  serial.Hex(),
		Reason:  notify.ReasonDeposit,
		ChainID: chainID,
		TxHash:  transfer.TxHash.Hex(),
		At:      time.Now().UTC(),
	})
	return true, nil
}

func (w *Watcher) filterLogs(ctx context.Context, client chain.Client, q ethereum.FilterQuery) ([]types.Log, error) {
	if w.cfg.RPCTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.RPCTimeout)
		defer cancel()
	}
	logs, err := client.FilterLogs(ctx, q)
	return logs, chain.Classify(err)
}

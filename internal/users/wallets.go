package users

import (
	"context"
	"fmt"
	"sort"

	"github.com/cyphera/passkey-wallet/internal/auth"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTxLimit = 50
	maxTxLimit     = 200
)

// AddressDeriver is the subset of the deriver wallets need.
type AddressDeriver interface {
	Derive(ctx context.Context, publicKey []byte, chainID int64, salt int64) (common.Address, error)
}

// ChainLister lists every configured chain id.
type ChainLister interface {
	ChainIDs() []int64
}

// WalletView is one salt of the user with its account address on each chain.
// Chains where the address could not be derived are left out of Addresses.
type WalletView struct {
	Salt      int64            `json:"salt"`
	Name      string           `json:"name"`
	Active    bool             `json:"active"`
	Addresses map[int64]string `json:"addresses"`
}

// Wallets lists the caller's wallets with the addresses their device derives.
func (s *Service) Wallets(ctx context.Context, identity *auth.Identity) ([]WalletView, error) {
	if identity == nil {
		return nil, auth.ErrNoIdentity
	}
	wallets, err := s.store.ListWallets(ctx, identity.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	chainIDs := append([]int64(nil), s.chains.ChainIDs()...)
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	views := make([]WalletView, 0, len(wallets))
	for _, w := range wallets {
		view := WalletView{Salt: w.Salt, Name: w.Name, Active: w.Active, Addresses: make(map[int64]string)}
		for _, id := range chainIDs {
			addr, err := s.deriver.Derive(ctx, identity.Device.PublicKey, id, w.Salt)
			if err != nil {
				s.logger.Debug("wallet address unavailable",
					zap.Int64("chain_id", id),
					zap.Int64("salt", w.Salt),
					zap.Error(err),
				)
				continue
			}
			view.Addresses[id] = addr.Hex()
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateWallet adds a wallet on the next unused salt. The first wallet of a user becomes active.
func (s *Service) CreateWallet(ctx context.Context, userID uuid.UUID, name string) (db.Wallet, error) {
	var created db.Wallet
	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		if _, err := q.GetUserForUpdate(ctx, userID); err != nil {
			return notFound(err, "failed to lock user")
		}
		wallets, err := q.ListWallets(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list wallets: %w", err)
		}
		next := int64(0)
		for _, w := range wallets {
			if w.Salt >= next {
				next = w.Salt + 1
			}
		}
		if name == "" {
			name = fmt.Sprintf("Wallet %d", next+1)
		}
		created, err = q.EnsureWallet(ctx, db.EnsureWalletParams{UserID: userID, Salt: next, Name: name})
		if err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return db.Wallet{}, err
	}
	s.logger.Info("wallet created", zap.String("user_id", userID.String()), zap.Int64("salt", created.Salt))
	return created, nil
}

// SetActiveWallet switches the salt used for sponsorship and balances.
func (s *Service) SetActiveWallet(ctx context.Context, userID uuid.UUID, salt int64) error {
	n, err := s.store.SetActiveWallet(ctx, db.SetActiveWalletParams{UserID: userID, Salt: salt})
	if err != nil {
		return fmt.Errorf("failed to switch wallet: %w", err)
	}
	if n == 0 {
		return ErrWalletNotFound
	}
	s.logger.Info("active wallet switched", zap.String("user_id", userID.String()), zap.Int64("salt", salt))
	return nil
}

// Transactions returns the newest ledger rows first. limit is clamped to [1, 200] with 50 as default.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID, limit int) ([]db.Transaction, error) {
	switch {
	case limit <= 0:
		limit = defaultTxLimit
	case limit > maxTxLimit:
		limit = maxTxLimit
	}
	txs, err := s.store.ListTransactions(ctx, db.ListTransactionsParams{UserID: userID, Limit: int32(limit)})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txs == nil {
		txs = []db.Transaction{}
	}
	return txs, nil
}

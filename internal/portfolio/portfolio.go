package portfolio

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/cyphera/passkey-wallet/internal/auth"
	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/helpers"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/cyphera/passkey-wallet/internal/pricing"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WalletStore resolves the caller's active wallet salt.
type WalletStore interface {
	GetActiveWallet(ctx context.Context, userID uuid.UUID) (db.Wallet, error)
}

// Balance is one asset held by the account. USD is empty when no price is known.
type Balance struct {
	Symbol    string `json:"symbol"`
	Token     string `json:"token,omitempty"`
	Decimals  uint8  `json:"decimals"`
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
	USD       string `json:"usd,omitempty"`
}

type Portfolio struct {
	ChainID  int64     `json:"chainId"`
	Address  string    `json:"address"`
	Salt     int64     `json:"salt"`
	Balances []Balance `json:"balances"`
	TotalUSD string    `json:"totalUsd"`
	// Partial is set when at least one token balance could not be read.
	Partial bool `json:"partial"`
}

type Service struct {
	store   WalletStore
	deriver derivation.AddressDeriver
	chains  derivation.ChainSource
	prices  pricing.Oracle
	timeout time.Duration
	logger  *zap.Logger
}

func NewService(store WalletStore, deriver derivation.AddressDeriver, chains derivation.ChainSource, prices pricing.Oracle, rpcTimeout time.Duration) *Service {
	return &Service{
		store:   store,
		deriver: deriver,
		chains:  chains,
		prices:  prices,
		timeout: rpcTimeout,
		logger:  logger.With(zap.String("component", "portfolio")),
	}
}

// Balances reads the native and tracked token balances of the caller's active account on chainID.
func (s *Service) Balances(ctx context.Context, identity *auth.Identity, chainID int64) (*Portfolio, error) {
	if identity == nil {
		return nil, auth.ErrNoIdentity
	}
	cfg, err := s.chains.Config(chainID)
	if err != nil {
		return nil, err
	}

	salt := constants.DefaultSalt
	wallet, err := s.store.GetActiveWallet(ctx, identity.User.ID)
	switch {
	case err == nil:
		salt = wallet.Salt
	case !db.IsNotFound(err):
		return nil, fmt.Errorf("failed to load active wallet: %w", err)
	}

	address, err := s.deriver.Derive(ctx, identity.Device.PublicKey, chainID, salt)
	if err != nil {
		return nil, err
	}
	client, err := s.chains.Client(ctx, chainID)
	if err != nil {
		return nil, err
	}

	out := &Portfolio{ChainID: chainID, Address: address.Hex(), Salt: salt}
	total := new(big.Int)

	native, err := s.nativeBalance(ctx, client, address)
	if err != nil {
		return nil, fmt.Errorf("failed to read native balance: %w", err)
	}
	out.Balances = append(out.Balances, s.price(ctx, cfg, config.Token{Symbol: cfg.NativeSymbol, Decimals: 18}, native, total))

	for _, token := range cfg.Tokens {
		amount, err := s.tokenBalance(ctx, client, token.Address, address)
		if err != nil {
			s.logger.Warn("token balance unavailable",
				zap.Int64("chain_id", chainID),
				zap.String("token", token.Symbol),
				zap.Error(err),
			)
			out.Partial = true
			continue
		}
		out.Balances = append(out.Balances, s.price(ctx, cfg, token, amount, total))
	}

	out.TotalUSD = helpers.FormatUSD(total.Int64())
	return out, nil
}

// price attaches a USD value and adds it to total. A zero or failing price leaves USD empty.
func (s *Service) price(ctx context.Context, cfg config.ChainConfig, token config.Token, amount *big.Int, total *big.Int) Balance {
	b := Balance{
		Symbol:    token.Symbol,
		Decimals:  token.Decimals,
		Amount:    amount.String(),
		Formatted: decimal.NewFromBigInt(amount, -int32(token.Decimals)).String(),
	}
	if token.Address != pricing.Native {
		b.Token = token.Address.Hex()
	}

	p, err := s.prices.GetUsdPrice(ctx, cfg.ChainID, token.Address)
	if err != nil || p == 0 {
		return b
	}
	usd := helpers.TokenAmountToUSDNano(amount, token.Decimals, p)
	total.Add(total, usd)
	b.USD = helpers.FormatUSD(usd.Int64())
	return b
}

func (s *Service) nativeBalance(ctx context.Context, client chain.Client, account common.Address) (*big.Int, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	n, err := client.BalanceAt(ctx, account, nil)
	return n, chain.Classify(err)
}

func (s *Service) tokenBalance(ctx context.Context, client chain.Client, token, account common.Address) (*big.Int, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	n, err := chain.ERC20BalanceOf(ctx, client, token, account)
	return n, chain.Classify(err)
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

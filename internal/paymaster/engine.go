package paymaster

import (
	"context"
	"encoding/json"
	"errors"
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
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrForbidden is a hard rejection: the caller may not act for this sender.
var ErrForbidden = errors.New("forbidden")

// Code classifies a declined sponsorship.
type Code string

const (
	CodeNotSponsored           Code = "NOT_SPONSORED"
	CodeLimitExceeded          Code = "LIMIT_EXCEEDED"
	CodePinRequired            Code = "PIN_REQUIRED"
	CodeInvalidPin             Code = "INVALID_PIN"
	CodeTemporarilyUnavailable Code = "TEMPORARILY_UNAVAILABLE"
)

// Request asks for sponsorship of one operation.
type Request struct {
	Operation UserOperation `json:"operation"`
	ChainID   int64         `json:"chainId"`
	Pin       string        `json:"pin,omitempty"`
}

// Result is the outcome of a sponsorship request. Declines are results, not errors.
type Result struct {
	Granted          bool          `json:"granted"`
	PaymasterAndData hexutil.Bytes `json:"paymasterAndData,omitempty"`
	ValidUntil       uint64        `json:"validUntil,omitempty"`
	ValidAfter       uint64        `json:"validAfter,omitempty"`
	OpHash           string        `json:"opHash,omitempty"`
	Code             Code          `json:"code,omitempty"`
	Reason           string        `json:"reason,omitempty"`
	CostUSD          string        `json:"costUsd,omitempty"`
	CreditUsedUSD    string        `json:"creditUsedUsd,omitempty"`
	FeeUSD           string        `json:"feeUsd,omitempty"`
}

func decline(code Code, reason string) *Result {
	return &Result{Granted: false, Code: code, Reason: reason}
}

// Config holds the sponsorship validity settings.
type Config struct {
	Validity   time.Duration
	ClockSkew  time.Duration
	RPCTimeout time.Duration
}

// Engine decides and signs sponsorships.
type Engine struct {
	store   db.Store
	deriver derivation.AddressDeriver
	chains  derivation.ChainSource
	prices  pricing.Oracle
	keys    KeySource
	cfg     Config
	locks   *helpers.KeyedMutex
	now     func() time.Time
	logger  *zap.Logger
}

func NewEngine(store db.Store, deriver derivation.AddressDeriver, chains derivation.ChainSource, prices pricing.Oracle, keys KeySource, cfg Config) *Engine {
	if cfg.ClockSkew == 0 {
		cfg.ClockSkew = time.Minute
	}
	if cfg.Validity == 0 {
		cfg.Validity = 10 * time.Minute
	}
	return &Engine{
		store:   store,
		deriver: deriver,
		chains:  chains,
		prices:  prices,
		keys:    keys,
		cfg:     cfg,
		locks:   helpers.NewKeyedMutex(),
		now:     time.Now,
		logger:  logger.With(zap.String("component", "paymaster")),
	}
}

// WithClock replaces the time source. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Sponsor evaluates req for the authenticated caller. Hard failures
// (ErrForbidden, ErrInvalidOperation, unknown chain) are errors; every
// policy outcome is a Result.
func (e *Engine) Sponsor(ctx context.Context, identity *auth.Identity, req Request) (*Result, error) {
	if identity == nil {
		return nil, auth.ErrNoIdentity
	}
	op := req.Operation
	if err := op.Validate(); err != nil {
		return nil, err
	}
	cfg, err := e.chains.Config(req.ChainID)
	if err != nil {
		return nil, err
	}
	log := e.logger.With(
		zap.String("user_id", identity.User.ID.String()),
		zap.String("device_id", identity.Device.ID.String()),
		zap.Int64("chain_id", req.ChainID),
		zap.String("sender", op.Sender.Hex()),
	)

	salt := constants.DefaultSalt
	wallet, err := e.store.GetActiveWallet(ctx, identity.User.ID)
	switch {
	case err == nil:
		salt = wallet.Salt
	case !db.IsNotFound(err):
		return nil, fmt.Errorf("failed to load active wallet: %w", err)
	}

	derived, err := e.deriver.Derive(ctx, identity.Device.PublicKey, req.ChainID, salt)
	if err != nil {
		switch {
		case errors.Is(err, derivation.ErrDerivationTimeout), chain.IsTransient(err):
			log.Warn("sponsorship deferred, sender could not be derived", zap.Error(err))
			return decline(CodeTemporarilyUnavailable, "account lookup is temporarily unavailable, retry shortly"), nil
		case errors.Is(err, derivation.ErrFactoryNotDeployed):
			log.Info("sponsorship declined, factory not deployed")
			return decline(CodeNotSponsored, "smart accounts are not available on this chain"), nil
		}
		return nil, fmt.Errorf("failed to derive sender: %w", err)
	}
	if derived != op.Sender {
		log.Warn("sender does not match caller's account",
			zap.String("derived_sender", derived.Hex()),
			zap.String("claimed_sender", op.Sender.Hex()),
			zap.Int64("salt", salt),
		)
		return nil, fmt.Errorf("%w: sender is not the caller's account", ErrForbidden)
	}

	unlock := e.locks.Lock(identity.User.ID.String())
	defer unlock()

	var result *Result
	err = e.store.ExecTx(ctx, func(q db.Querier) error {
		user, err := q.GetUserForUpdate(ctx, identity.User.ID)
		if err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}
		if user.Frozen {
			log.Warn("sponsorship refused for frozen user")
			return fmt.Errorf("%w: account frozen", ErrForbidden)
		}
		result, err = e.evaluate(ctx, q, log, cfg, user, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// evaluate runs the policy checks under the user's row lock and, when every
// check passes, signs, debits credit and records the ledger row.
func (e *Engine) evaluate(ctx context.Context, q db.Querier, log *zap.Logger, cfg config.ChainConfig, user db.User, req Request) (*Result, error) {
	op := req.Operation

	if !cfg.HasTreasury() {
		log.Info("sponsorship declined, no treasury configured")
		return decline(CodeNotSponsored, "sponsorship is not offered on this chain"), nil
	}

	calls, err := DecodeCalls(op.CallData)
	if err != nil {
		log.Info("sponsorship declined, undecodable call data", zap.Error(err))
		return decline(CodeNotSponsored, "operation calls could not be decoded"), nil
	}
	transfers, err := ExtractTransfers(calls)
	if err != nil {
		log.Info("sponsorship declined, malformed transfer", zap.Error(err))
		return decline(CodeNotSponsored, "operation calls could not be decoded"), nil
	}
	fees, outgoing := SplitFees(transfers, cfg.Treasury)

	nativePrice, err := e.prices.GetUsdPrice(ctx, cfg.ChainID, pricing.Native)
	if err != nil || nativePrice == 0 {
		log.Warn("sponsorship deferred, native price unknown", zap.Error(err))
		return decline(CodeTemporarilyUnavailable, "price data is temporarily unavailable"), nil
	}

	quote, err := ComputeQuote(QuoteInputs{
		TotalGas:      op.TotalGas(cfg.PostOpGas),
		MaxFeePerGas:  bigOf(op.MaxFeePerGas),
		MarkupBps:     cfg.MarkupBps,
		NativePrice:   nativePrice,
		CreditBalance: user.CreditBalanceUsdNano,
	})
	if err != nil {
		log.Info("sponsorship declined, cost out of range", zap.Error(err))
		return decline(CodeNotSponsored, "operation gas parameters are out of range"), nil
	}

	feeUSD, res := e.sumUSD(ctx, log, cfg, fees, nativePrice, "fee")
	if res != nil {
		return res, nil
	}
	if quote.Shortfall > 0 && len(fees) == 0 {
		log.Info("sponsorship declined, no fee transfer",
			zap.Int64("expected_fee_usd_nano", quote.Shortfall),
			zap.Int64("credit_balance_usd_nano", user.CreditBalanceUsdNano),
			zap.Int64("cost_usd_nano", quote.CostUSD),
		)
		return decline(CodeNotSponsored, "operation must include a fee transfer to the treasury"), nil
	}
	if !WithinBand(feeUSD, quote.Shortfall, cfg.MaxMultiplierBps) {
		lo, hi := FeeBand(quote.Shortfall, cfg.MaxMultiplierBps)
		log.Info("sponsorship declined, fee outside band",
			zap.Int64("expected_fee_usd_nano", quote.Shortfall),
			zap.Int64("embedded_fee_usd_nano", feeUSD),
			zap.Int64("band_low_usd_nano", lo),
			zap.Int64("band_high_usd_nano", hi),
		)
		return decline(CodeNotSponsored, fmt.Sprintf("embedded fee %s USD is outside the accepted range %s-%s USD",
			helpers.FormatUSD(feeUSD), helpers.FormatUSD(lo), helpers.FormatUSD(hi))), nil
	}

	valueUSD, res := e.sumUSD(ctx, log, cfg, outgoing, nativePrice, "transfer")
	if res != nil {
		return res, nil
	}

	if valueUSD > user.LargeTxThresholdUsdNano {
		if res := checkPin(user, req.Pin); res != nil {
			log.Info("sponsorship declined, spending PIN check",
				zap.String("code", string(res.Code)),
				zap.Int64("value_usd_nano", valueUSD),
				zap.Int64("threshold_usd_nano", user.LargeTxThresholdUsdNano),
			)
			return res, nil
		}
	}

	now := e.now()
	spent, err := q.SumUserSpendSince(ctx, db.SumUserSpendSinceParams{UserID: user.ID, Since: now.Add(-24 * time.Hour)})
	if err != nil {
		return nil, fmt.Errorf("failed to sum recent spend: %w", err)
	}
	if spent+valueUSD > user.DailyLimitUsdNano {
		log.Info("sponsorship declined, daily limit",
			zap.Int64("spent_usd_nano", spent),
			zap.Int64("value_usd_nano", valueUSD),
			zap.Int64("limit_usd_nano", user.DailyLimitUsdNano),
		)
		return decline(CodeLimitExceeded, fmt.Sprintf("daily limit of %s USD would be exceeded", helpers.FormatUSD(user.DailyLimitUsdNano))), nil
	}

	validUntil := uint64(now.Add(e.cfg.Validity).Unix())
	validAfter := uint64(now.Add(-e.cfg.ClockSkew).Unix())
	paymasterAndData, err := e.sign(ctx, cfg, op, validUntil, validAfter)
	if err != nil {
		if chain.IsTransient(err) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("sponsorship deferred, paymaster hash unavailable", zap.Error(err))
			return decline(CodeTemporarilyUnavailable, "sponsorship signing is temporarily unavailable"), nil
		}
		return nil, err
	}

	signed := op
	signed.PaymasterAndData = paymasterAndData
	opHash, err := signed.Hash(cfg.EntryPoint, cfg.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to hash operation: %w", err)
	}

	if quote.CreditUsed > 0 {
		if err := q.UpdateUserCreditBalance(ctx, db.UpdateUserCreditBalanceParams{
			ID:                   user.ID,
			CreditBalanceUsdNano: user.CreditBalanceUsdNano - quote.CreditUsed,
		}); err != nil {
			return nil, fmt.Errorf("failed to debit credit: %w", err)
		}
	}

	value, asset := ledgerValue(outgoing)
	metadata, err := json.Marshal(map[string]any{
		"sender":           op.Sender.Hex(),
		"nonce":            bigOf(op.Nonce).String(),
		"costUsdNano":      quote.CostUSD,
		"creditUsedNano":   quote.CreditUsed,
		"feeUsdNano":       feeUSD,
		"reimbursementWei": quote.ReimbursementWei.String(),
		"validUntil":       validUntil,
		"validAfter":       validAfter,
		"transfers":        len(outgoing),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	if _, err := q.CreateTransaction(ctx, db.CreateTransactionParams{
		UserID:       user.ID,
		OpHash:       opHash.Hex(),
		Network:      cfg.Name,
		ChainID:      cfg.ChainID,
		Status:       constants.TxStatusPending,
		Value:        value,
		Asset:        asset,
		ValueUsdNano: valueUSD,
		Metadata:     metadata,
	}); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	log.Info("sponsorship granted",
		zap.String("op_hash", opHash.Hex()),
		zap.Int64("cost_usd_nano", quote.CostUSD),
		zap.Int64("credit_before_usd_nano", user.CreditBalanceUsdNano),
		zap.Int64("credit_after_usd_nano", user.CreditBalanceUsdNano-quote.CreditUsed),
		zap.Int64("fee_usd_nano", feeUSD),
		zap.Uint64("valid_until", validUntil),
	)
	return &Result{
		Granted:          true,
		PaymasterAndData: paymasterAndData,
		ValidUntil:       validUntil,
		ValidAfter:       validAfter,
		OpHash:           opHash.Hex(),
		CostUSD:          helpers.FormatUSD(quote.CostUSD),
		CreditUsedUSD:    helpers.FormatUSD(quote.CreditUsed),
		FeeUSD:           helpers.FormatUSD(feeUSD),
	}, nil
}

// sumUSD values transfers in nano-USD. A non-nil Result means the transfers
// could not be priced and the request is declined.
func (e *Engine) sumUSD(ctx context.Context, log *zap.Logger, cfg config.ChainConfig, transfers []Transfer, nativePrice uint64, kind string) (int64, *Result) {
	total := new(big.Int)
	for _, t := range transfers {
		if t.Native() {
			total.Add(total, helpers.TokenAmountToUSDNano(t.Amount, nativeDecimals, nativePrice))
			continue
		}
		token, ok := cfg.Token(t.Asset)
		if !ok {
			log.Info("sponsorship declined, untracked token", zap.String("kind", kind), zap.String("token", t.Asset.Hex()))
			return 0, decline(CodeNotSponsored, fmt.Sprintf("%s token %s is not supported", kind, t.Asset.Hex()))
		}
		price, err := e.prices.GetUsdPrice(ctx, cfg.ChainID, t.Asset)
		if err != nil || price == 0 {
			log.Warn("sponsorship deferred, token price unknown",
				zap.String("kind", kind),
				zap.String("token", token.Symbol),
				zap.Error(err),
			)
			return 0, decline(CodeTemporarilyUnavailable, fmt.Sprintf("price for %s is temporarily unavailable", token.Symbol))
		}
		total.Add(total, helpers.TokenAmountToUSDNano(t.Amount, token.Decimals, price))
	}
	if !total.IsInt64() {
		return 0, decline(CodeNotSponsored, kind+" value is out of range")
	}
	return total.Int64(), nil
}

func checkPin(user db.User, pin string) *Result {
	if !user.SpendingPinHash.Valid || user.SpendingPinHash.String == "" {
		return decline(CodePinRequired, "set a spending PIN to send large amounts")
	}
	if pin == "" {
		return decline(CodePinRequired, "spending PIN required for this amount")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.SpendingPinHash.String), []byte(pin)) != nil {
		return decline(CodeInvalidPin, "spending PIN is incorrect")
	}
	return nil
}

// sign produces paymasterAndData: paymaster ‖ abi(validUntil, validAfter) ‖ signature.
func (e *Engine) sign(ctx context.Context, cfg config.ChainConfig, op UserOperation, validUntil, validAfter uint64) ([]byte, error) {
	key, err := e.keys.Key(ctx, cfg.ChainID)
	if err != nil {
		return nil, err
	}
	client, err := e.chains.Client(ctx, cfg.ChainID)
	if err != nil {
		return nil, err
	}
	if e.cfg.RPCTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.RPCTimeout)
		defer cancel()
	}
	hash, err := chain.PaymasterGetHash(ctx, client, cfg.Paymaster, op.Tuple(), validUntil, validAfter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch paymaster hash: %w", err)
	}
	sig, err := crypto.Sign(accounts.TextHash(hash.Bytes()), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign sponsorship: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	validity, err := validityArgs.Pack(new(big.Int).SetUint64(validUntil), new(big.Int).SetUint64(validAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to encode validity: %w", err)
	}
	out := make([]byte, 0, common.AddressLength+len(validity)+len(sig))
	out = append(out, cfg.Paymaster.Bytes()...)
	out = append(out, validity...)
	return append(out, sig...), nil
}

// ledgerValue picks the amount and asset recorded on the ledger row.
func ledgerValue(outgoing []Transfer) (string, string) {
	if len(outgoing) == 0 {
		return "0", constants.NativeAsset
	}
	first := outgoing[0]
	if first.Native() {
		return first.Amount.String(), constants.NativeAsset
	}
	return first.Amount.String(), first.Asset.Hex()
}

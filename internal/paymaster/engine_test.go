package paymaster

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/cyphera/passkey-wallet/internal/auth"
	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/helpers"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/cyphera/passkey-wallet/internal/mocks"
	"github.com/cyphera/passkey-wallet/internal/pricing"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	logger.InitLogger("test")
}

const (
	chainID  = int64(8453)
	ethPrice = uint64(2000_000_000_000) // 2000 USD
	oneUSD   = int64(1_000_000_000)
)

var (
	sender        = common.HexToAddress("0x1111111111111111111111111111111111111111")
	recipient     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	treasury      = common.HexToAddress("0x3333333333333333333333333333333333333333")
	paymaster     = common.HexToAddress("0x4444444444444444444444444444444444444444")
	entryPoint    = common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")
	usdc          = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	paymasterHash = common.HexToHash("0xabababababababababababababababababababababababababababababababab")
)

type staticKeys struct{ key *ecdsa.PrivateKey }

func (s staticKeys) Key(context.Context, int64) (*ecdsa.PrivateKey, error) { return s.key, nil }

type fixture struct {
	store    *mocks.MockStore
	deriver  *mocks.MockAddressDeriver
	chains   *mocks.MockChainSource
	client   *mocks.MockChainClient
	prices   *mocks.MockPriceOracle
	engine   *Engine
	cfg      config.ChainConfig
	key      *ecdsa.PrivateKey
	identity *auth.Identity
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	f := &fixture{
		store:   mocks.NewMockStore(ctrl),
		deriver: mocks.NewMockAddressDeriver(ctrl),
		chains:  mocks.NewMockChainSource(ctrl),
		client:  mocks.NewMockChainClient(ctrl),
		prices:  mocks.NewMockPriceOracle(ctrl),
		key:     key,
		now:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		cfg: config.ChainConfig{
			ChainID:          chainID,
			Name:             "base",
			EntryPoint:       entryPoint,
			Paymaster:        paymaster,
			Treasury:         treasury,
			MarkupBps:        10000,
			MaxMultiplierBps: 15000,
			PostOpGas:        40000,
			Tokens:           []config.Token{{Address: usdc, Symbol: "USDC", Decimals: 6}},
		},
	}
	user := db.User{
		ID:                      uuid.New(),
		DailyLimitUsdNano:       1000 * oneUSD,
		LargeTxThresholdUsdNano: 100 * oneUSD,
	}
	f.identity = &auth.Identity{
		User:   user,
		Device: db.Device{ID: uuid.New(), UserID: user.ID, PublicKey: []byte{0xa5}, Active: true},
	}
	f.chains.EXPECT().Config(chainID).Return(f.cfg, nil).AnyTimes()
	f.engine = NewEngine(f.store, f.deriver, f.chains, f.prices, staticKeys{key}, Config{
		Validity:   10 * time.Minute,
		ClockSkew:  time.Minute,
		RPCTimeout: time.Second,
	}).WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) expectSender(addr common.Address) {
	f.store.EXPECT().GetActiveWallet(gomock.Any(), f.identity.User.ID).Return(db.Wallet{Salt: 0, Active: true}, nil)
	f.deriver.EXPECT().Derive(gomock.Any(), f.identity.Device.PublicKey, chainID, int64(0)).Return(addr, nil)
}

func (f *fixture) expectLockedUser(u db.User) {
	mocks.PassThroughTx(f.store)
	f.store.EXPECT().GetUserForUpdate(gomock.Any(), f.identity.User.ID).Return(u, nil)
}

func (f *fixture) expectPrice(token common.Address, price uint64) {
	f.prices.EXPECT().GetUsdPrice(gomock.Any(), chainID, token).Return(price, nil).AnyTimes()
}

func (f *fixture) expectSpend(spent int64) {
	f.store.EXPECT().SumUserSpendSince(gomock.Any(), db.SumUserSpendSinceParams{
		UserID: f.identity.User.ID,
		Since:  f.now.Add(-24 * time.Hour),
	}).Return(spent, nil)
}

func (f *fixture) expectSigning(t *testing.T) {
	f.chains.EXPECT().Client(gomock.Any(), chainID).Return(f.client, nil)
	out, err := chain.PaymasterABI.Methods["getHash"].Outputs.Pack([32]byte(paymasterHash))
	require.NoError(t, err)
	f.client.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(out, nil)
}

func (f *fixture) expectGrant(creditAfter *int64, valueUSD int64) {
	if creditAfter != nil {
		f.store.EXPECT().UpdateUserCreditBalance(gomock.Any(), db.UpdateUserCreditBalanceParams{
			ID:                   f.identity.User.ID,
			CreditBalanceUsdNano: *creditAfter,
		}).Return(nil)
	}
	f.store.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, arg db.CreateTransactionParams) (db.Transaction, error) {
			if arg.ValueUsdNano != valueUSD || arg.Status != "pending" || arg.ChainID != chainID {
				return db.Transaction{}, errors.New("unexpected ledger row")
			}
			return db.Transaction{ID: uuid.New(), OpHash: arg.OpHash}, nil
		})
}

func (f *fixture) user(credit int64) db.User {
	u := f.identity.User
	u.CreditBalanceUsdNano = credit
	return u
}

func nativeCall(to common.Address, wei int64) chain.Call {
	return chain.Call{Target: to, Value: big.NewInt(wei), Data: []byte{}}
}

func tokenCall(t *testing.T, token, to common.Address, amount int64) chain.Call {
	data, err := EncodeTokenTransfer(to, big.NewInt(amount))
	require.NoError(t, err)
	return chain.Call{Target: token, Value: new(big.Int), Data: data}
}

// operation totals 200k gas at 10 gwei: 4 USD reimbursement plus 4 USD platform fee at 2000 USD/ETH.
func operation(t *testing.T, calls ...chain.Call) UserOperation {
	data, err := EncodeExecuteBatch(calls)
	require.NoError(t, err)
	return UserOperation{
		Sender:               sender,
		Nonce:                (*hexutil.Big)(big.NewInt(1)),
		CallData:             data,
		CallGasLimit:         (*hexutil.Big)(big.NewInt(100_000)),
		VerificationGasLimit: (*hexutil.Big)(big.NewInt(50_000)),
		PreVerificationGas:   (*hexutil.Big)(big.NewInt(10_000)),
		MaxFeePerGas:         (*hexutil.Big)(big.NewInt(10_000_000_000)),
		MaxPriorityFeePerGas: (*hexutil.Big)(big.NewInt(1_000_000_000)),
	}
}

func ptr(v int64) *int64 { return &v }

func TestSponsor_CreditCoversCost(t *testing.T) {
	f := newFixture(t)
	f.expectSender(sender)
	f.expectLockedUser(f.user(10 * oneUSD))
	f.expectPrice(pricing.Native, ethPrice)
	f.expectSpend(0)
	f.expectSigning(t)
	f.expectGrant(ptr(2*oneUSD), 2*oneUSD)

	// 0.001 ETH = 2 USD to a friend, no fee transfer
	op := operation(t, nativeCall(recipient, 1_000_000_000_000_000))
	res, err := f.engine.Sponsor(context.Background(), f.identity, Request{Operation: op, ChainID: chainID})
	require.NoError(t, err)
	require.True(t, res.Granted, res.Reason)
	assert.Equal(t, "8.00", res.CostUSD)
	assert.Equal(t, "8.00", res.CreditUsedUSD)
	assert.Equal(t, "0.00", res.FeeUSD)
	assert.Equal(t, uint64(f.now.Add(10*time.Minute).Unix()), res.ValidUntil)
	assert.Equal(t, uint64(f.now.Add(-time.Minute).Unix()), res.ValidAfter)

	pnd := res.PaymasterAndData
	require.Len(t, pnd, 20+64+65)
	assert.Equal(t, paymaster.Bytes(), []byte(pnd[:20]))

	sig := append([]byte{}, pnd[84:]...)
	require.True(t, sig[64] == 27 || sig[64] == 28)
	sig[64] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash(paymasterHash.Bytes()), sig)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(f.key.PublicKey), crypto.PubkeyToAddress(*pub))

	signed := op
	signed.PaymasterAndData = pnd
	wantHash, err := signed.Hash(entryPoint, chainID)
	require.NoError(t, err)
	assert.Equal(t, wantHash.Hex(), res.OpHash)
}

func TestSponsor_FrozenUser(t *testing.T) {
	f := newFixture(t)
	f.expectSender(sender)
	frozen := f.user(10 * oneUSD)
	frozen.Frozen = true
	f.expectLockedUser(frozen)

	_, err := f.engine.Sponsor(context.Background(), f.identity, Request{
		Operation: operation(t, nativeCall(recipient, 1)),
		ChainID:   chainID,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSponsor_SenderMismatchIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.expectSender(common.HexToAddress("0x9999999999999999999999999999999999999999"))

	// a perfectly valid fee does not matter
	op := operation(t, nativeCall(treasury, 4_000_000_000_000_000))
	_, err := f.engine.Sponsor(context.Background(), f.identity, Request{Operation: op, ChainID: chainID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSponsor_DerivationFailuresDecline(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
	}{
		{name: "timeout", err: derivation.ErrDerivationTimeout, wantCode: CodeTemporarilyUnavailable},
		{name: "rate limited", err: chain.ErrRateLimited, wantCode: CodeTemporarilyUnavailable},
		{name: "factory missing", err: derivation.ErrFactoryNotDeployed, wantCode: CodeNotSponsored},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.EXPECT().GetActiveWallet(gomock.Any(), f.identity.User.ID).Return(db.Wallet{}, pgx.ErrNoRows)
			f.deriver.EXPECT().Derive(gomock.Any(), gomock.Any(), chainID, int64(0)).Return(common.Address{}, tt.err)

			res, err := f.engine.Sponsor(context.Background(), f.identity, Request{Operation: operation(t), ChainID: chainID})
			require.NoError(t, err)
			assert.False(t, res.Granted)
			assert.Equal(t, tt.wantCode, res.Code)
		})
	}
}

func TestSponsor_ActiveWalletSalt(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().GetActiveWallet(gomock.Any(), f.identity.User.ID).Return(db.Wallet{Salt: 3, Active: true}, nil)
	f.deriver.EXPECT().Derive(gomock.Any(), gomock.Any(), chainID, int64(3)).Return(sender, nil)
	noTreasury := f.cfg
	noTreasury.Treasury = common.Address{}
	f.expectLockedUser(f.user(0))

	engine := NewEngine(f.store, f.deriver, stubChains{cfg: noTreasury}, f.prices, staticKeys{f.key}, Config{})
	res, err := engine.Sponsor(context.Background(), f.identity, Request{Operation: operation(t), ChainID: chainID})
	require.NoError(t, err)
	assert.False(t, res.Granted)
	assert.Equal(t, CodeNotSponsored, res.Code)
}

type stubChains struct{ cfg config.ChainConfig }

func (s stubChains) Config(int64) (config.ChainConfig, error) { return s.cfg, nil }
func (s stubChains) Client(context.Context, int64) (chain.Client, error) {
	return nil, errors.New("no client")
}

func TestSponsor_FeeBand(t *testing.T) {
	// credit 0: the whole 8 USD must be paid, band is [8, 12] USD = [4e15, 6e15] wei
	tests := []struct {
		name    string
		feeWei  int64
		granted bool
	}{
		{name: "just below expected", feeWei: 3_999_999_999_999_999, granted: false},
		{name: "exactly expected", feeWei: 4_000_000_000_000_000, granted: true},
		{name: "inside band", feeWei: 5_000_000_000_000_000, granted: true},
		{name: "exactly max", feeWei: 6_000_000_000_000_000, granted: true},
		{name: "just above max", feeWei: 6_000_000_100_000_000, granted: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectSender(sender)
			f.expectLockedUser(f.user(0))
			f.expectPrice(pricing.Native, ethPrice)
			if tt.granted {
				f.expectSpend(0)
				f.expectSigning(t)
				f.expectGrant(nil, 0)
			}

			op := operation(t, nativeCall(treasury, tt.feeWei))
			res, err := f.engine.Sponsor(context.Background(), f.identity, Request{Operation: op, ChainID: chainID})
			require.NoError(t, err)
			assert.Equal(t, tt.granted, res.Granted, res.Reason)
			if !tt.granted {
				assert.Equal(t, CodeNotSponsored, res.Code)
			}
		})
	}
}

func TestSponsor_MissingFeeTransfer(t *testing.T) {
	f := newFixture(t)
	f.expectSender(sender)
	f.expectLockedUser(f.user(3 * oneUSD))
	f.expectPrice(pricing.Native, ethPrice)

	res, err := f.engine.Sponsor(context.Background(), f.identity, Request{
		Operation: operation(t, nativeCall(recipient, 1_000)),
		ChainID:   chainID,
	})
	require.NoError(t, err)
	assert.False(t, res.Granted)
	assert.Equal(t, CodeNotSponsored, res.Code)
	assert.Contains(t, res.Reason, "fee transfer")
}

func TestSponsor_PartialCreditWithTokenFee(t *testing.T) {
	f := newFixture(t)
	f.expectSender(sender)
	f.expectLockedUser(f.user(3 * oneUSD))
	f.expectPrice(pricing.Native, ethPrice)
	f.expectPrice(usdc, 1_000_000_000)
	f.expectSpend(0)
	f.expectSigning(t)
	f.expectGrant(ptr(0), 0)

	// 3 USD from credit, 5 USD in USDC
	op := operation(t, tokenCall(t, usdc, treasury, 5_000_000))
	res, err := f.engine.Sponsor(context.Background(), f.identity, Request{Operation: op, ChainID: chainID})
	require.NoError(t, err)
	require.True(t, res.Granted, res.Reason)
	assert.Equal(t, "3.00", res.CreditUsedUSD)
	assert.Equal(t, "5.00", res.FeeUSD)
}

func TestSponsor_MissingPrices(t *testing.T) {
	t.Run("native", func(t *testing.T) {
		f := newFixture(t)
		f.expectSender(sender)
		f.expectLockedUser(f.user(10 * oneUSD))
		f.expectPrice(pricing.Native, 0)

		res, err := f.engine.Sponsor(context.Background(), f.identity, Request{Operation: operation(t), ChainID: chainID})
		require.NoError(t, err)
		assert.False(t, res.Granted)
		assert.Equal(t, CodeTemporarilyUnavailable, res.Code)
	})

	t.Run("fee token", func(t *testing.T) {
		f := newFixture(t)
		f.expectSender(sender)
		f.expectLockedUser(f.user(0))
		f.expectPrice(pricing.Native, ethPrice)
		f.prices.EXPECT().GetUsdPrice(gomock.Any(), chainID, usdc).Return(uint64(0), pricing.ErrPriceUnavailable)

		res, err := f.engine.Sponsor(context.Background(), f.identity, Request{
			Operation: operation(t, tokenCall(t, usdc, treasury, 8_000_000)),
			ChainID:   chainID,
		})
		require.NoError(t, err)
		assert.False(t, res.Granted)
		assert.Equal(t, CodeTemporarilyUnavailable, res.Code)
	})

	t.Run("untracked fee token", func(t *testing.T) {
		f := newFixture(t)
		f.expectSender(sender)
		f.expectLockedUser(f.user(0))
		f.expectPrice(pricing.Native, ethPrice)

		res, err := f.engine.Sponsor(context.Background(), f.identity, Request{
			Operation: operation(t, tokenCall(t, recipient, treasury, 8_000_000)),
			ChainID:   chainID,
		})
		require.NoError(t, err)
		assert.False(t, res.Granted)
		assert.Equal(t, CodeNotSponsored, res.Code)
	})
}

func TestSponsor_SpendingPin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("482910"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		pinHash  string
		pin      string
		wantCode Code
	}{
		{name: "pin not set", wantCode: CodePinRequired},
		{name: "pin missing", pinHash: string(hash), wantCode: CodePinRequired},
		{name: "pin wrong", pinHash: string(hash), pin: "000000", wantCode: CodeInvalidPin},
		{name: "pin correct", pinHash: string(hash), pin: "482910"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectSender(sender)
			u := f.user(10 * oneUSD)
			u.LargeTxThresholdUsdNano = oneUSD
			if tt.pinHash != "" {
				u.SpendingPinHash = pgtype.Text{String: tt.pinHash, Valid: true}
			}
			f.expectLockedUser(u)
			f.expectPrice(pricing.Native, ethPrice)
			if tt.wantCode == "" {
				f.expectSpend(0)
				f.expectSigning(t)
				f.expectGrant(ptr(2*oneUSD), 2*oneUSD)
			}

			res, err := f.engine.Sponsor(context.Background(), f.identity, Request{
				Operation: operation(t, nativeCall(recipient, 1_000_000_000_000_000)),
				ChainID:   chainID,
				Pin:       tt.pin,
			})
			require.NoError(t, err)
			if tt.wantCode == "" {
				assert.True(t, res.Granted, res.Reason)
				return
			}
			assert.False(t, res.Granted)
			assert.Equal(t, tt.wantCode, res.Code)
		})
	}
}

func TestSponsor_DailyLimitBoundary(t *testing.T) {
	tests := []struct {
		name    string
		wei     int64
		granted bool
	}{
		{name: "spent plus amount equals limit", wei: 1_000_000_000_000_000, granted: true},
		{name: "one micro-dollar over", wei: 1_000_000_500_000_000, granted: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectSender(sender)
			u := f.user(10 * oneUSD)
			u.DailyLimitUsdNano = 10 * oneUSD
			f.expectLockedUser(u)
			f.expectPrice(pricing.Native, ethPrice)
			f.expectSpend(8 * oneUSD)
			if tt.granted {
				f.expectSigning(t)
				f.expectGrant(ptr(2*oneUSD), 2*oneUSD)
			}

			res, err := f.engine.Sponsor(context.Background(), f.identity, Request{
				Operation: operation(t, nativeCall(recipient, tt.wei)),
				ChainID:   chainID,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.granted, res.Granted, res.Reason)
			if !tt.granted {
				assert.Equal(t, CodeLimitExceeded, res.Code)
			}
		})
	}
}

func TestSponsor_InvalidOperation(t *testing.T) {
	f := newFixture(t)
	op := operation(t)
	op.MaxFeePerGas = nil
	_, err := f.engine.Sponsor(context.Background(), f.identity, Request{Operation: op, ChainID: chainID})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestUserOperation_ValidateReportsFirstMissingField(t *testing.T) {
	op := operation(t)
	op.Nonce = nil
	op.CallGasLimit = nil
	op.MaxFeePerGas = nil
	op.MaxPriorityFeePerGas = (*hexutil.Big)(big.NewInt(-1))

	for i := 0; i < 20; i++ {
		err := op.Validate()
		require.ErrorIs(t, err, ErrInvalidOperation)
		assert.Contains(t, err.Error(), "nonce is required")
	}

	op.Nonce = (*hexutil.Big)(big.NewInt(1))
	op.CallGasLimit = (*hexutil.Big)(big.NewInt(1))
	op.MaxFeePerGas = (*hexutil.Big)(big.NewInt(1))
	assert.Contains(t, op.Validate().Error(), "maxPriorityFeePerGas is negative")
}

func TestComputeQuote(t *testing.T) {
	q, err := ComputeQuote(QuoteInputs{
		TotalGas:      big.NewInt(200_000),
		MaxFeePerGas:  big.NewInt(10_000_000_000),
		MarkupBps:     10000,
		NativePrice:   ethPrice,
		CreditBalance: 10 * oneUSD,
	})
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000", q.ReimbursementWei.String())
	assert.Equal(t, 8*oneUSD, q.CostUSD)
	assert.Equal(t, 8*oneUSD, q.CreditUsed)
	assert.Equal(t, int64(0), q.Shortfall)

	q, err = ComputeQuote(QuoteInputs{
		TotalGas:      big.NewInt(200_000),
		MaxFeePerGas:  big.NewInt(10_000_000_000),
		MarkupBps:     12000,
		NativePrice:   ethPrice,
		CreditBalance: oneUSD,
	})
	require.NoError(t, err)
	assert.Equal(t, helpers.WholeUSD(9)+600_000_000, q.CostUSD)
	assert.Equal(t, oneUSD, q.CreditUsed)
	assert.Equal(t, 8*oneUSD+600_000_000, q.Shortfall)
}

func TestWithinBand(t *testing.T) {
	assert.True(t, WithinBand(0, 0, 15000))
	assert.False(t, WithinBand(1, 0, 15000))
	assert.True(t, WithinBand(100, 100, 15000))
	assert.True(t, WithinBand(150, 100, 15000))
	assert.False(t, WithinBand(151, 100, 15000))
	assert.False(t, WithinBand(99, 100, 15000))
}

func TestDecodeCalls(t *testing.T) {
	single, err := chain.AccountABI.Pack("execute", recipient, big.NewInt(7), []byte{})
	require.NoError(t, err)
	calls, err := DecodeCalls(single)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, recipient, calls[0].Target)
	assert.Equal(t, int64(7), calls[0].Value.Int64())

	batch, err := EncodeExecuteBatch([]chain.Call{nativeCall(recipient, 1), tokenCall(t, usdc, treasury, 5)})
	require.NoError(t, err)
	calls, err = DecodeCalls(batch)
	require.NoError(t, err)
	transfers, err := ExtractTransfers(calls)
	require.NoError(t, err)
	fees, outgoing := SplitFees(transfers, treasury)
	require.Len(t, fees, 1)
	require.Len(t, outgoing, 1)
	assert.Equal(t, usdc, fees[0].Asset)
	assert.True(t, outgoing[0].Native())

	_, err = DecodeCalls([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.ErrorIs(t, err, ErrUnsupportedCallData)
}

func TestSponsor_ConcurrentRequestsDebitCreditOnce(t *testing.T) {
	f := newFixture(t)

	// The fake row reads the balance at lock time and holds it briefly so an
	// unserialized second request would observe the pre-debit balance.
	var mu sync.Mutex
	balance := 10 * oneUSD
	var reads []int64

	f.store.EXPECT().GetActiveWallet(gomock.Any(), f.identity.User.ID).Return(db.Wallet{Salt: 0, Active: true}, nil).Times(2)
	f.deriver.EXPECT().Derive(gomock.Any(), f.identity.Device.PublicKey, chainID, int64(0)).Return(sender, nil).Times(2)
	mocks.PassThroughTx(f.store)
	f.store.EXPECT().GetUserForUpdate(gomock.Any(), f.identity.User.ID).DoAndReturn(
		func(context.Context, uuid.UUID) (db.User, error) {
			mu.Lock()
			current := balance
			reads = append(reads, current)
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			return f.user(current), nil
		}).Times(2)
	f.expectPrice(pricing.Native, ethPrice)
	f.store.EXPECT().SumUserSpendSince(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()
	f.chains.EXPECT().Client(gomock.Any(), chainID).Return(f.client, nil).AnyTimes()
	out, err := chain.PaymasterABI.Methods["getHash"].Outputs.Pack([32]byte(paymasterHash))
	require.NoError(t, err)
	f.client.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(out, nil).AnyTimes()
	f.store.EXPECT().UpdateUserCreditBalance(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, arg db.UpdateUserCreditBalanceParams) error {
			mu.Lock()
			balance = arg.CreditBalanceUsdNano
			mu.Unlock()
			return nil
		}).Times(1)
	f.store.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(db.Transaction{ID: uuid.New()}, nil).Times(1)

	// each request costs 8 USD and carries no fee transfer, so only one can be covered by 10 USD of credit
	op := operation(t, nativeCall(recipient, 1_000_000_000_000_000))
	results := make([]*Result, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.engine.Sponsor(context.Background(), f.identity, Request{Operation: op, ChainID: chainID})
		}(i)
	}
	wg.Wait()

	granted := 0
	for i := range results {
		require.NoError(t, errs[i])
		if results[i].Granted {
			granted++
		} else {
			assert.Equal(t, CodeNotSponsored, results[i].Code)
		}
	}
	assert.Equal(t, 1, granted)
	assert.Equal(t, []int64{10 * oneUSD, 2 * oneUSD}, reads)
	assert.Equal(t, 2*oneUSD, balance)
}

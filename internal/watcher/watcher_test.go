package watcher

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/client/notify"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/cyphera/passkey-wallet/internal/mocks"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

const testChain int64 = 84532

var (
	usdc   = common.HexToAddress("0x036CbD53842c5426634e7929541eC2318f3dCF7e")
	eurc   = common.HexToAddress("0x808456652fdb597867f38412077A9182bf77359F")
	wallet = common.HexToAddress("0x1111111111111111111111111111111111111111")
	serial = common.HexToAddress("0x2222222222222222222222222222222222222222")
	sender = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// memStore keeps cursors and deposits in memory with the same conflict rules as the SQL.
type memStore struct {
	mu        sync.Mutex
	devices   []db.Device
	addresses map[string]db.UpsertAaAddressParams
	cursors   map[string]int64
	advances  map[string][]int64
	deposits  map[string]db.InsertDepositEventParams
	failAdv   bool
}

func newMemStore(devices ...db.Device) *memStore {
	return &memStore{
		devices:   devices,
		addresses: make(map[string]db.UpsertAaAddressParams),
		cursors:   make(map[string]int64),
		advances:  make(map[string][]int64),
		deposits:  make(map[string]db.InsertDepositEventParams),
	}
}

func (m *memStore) ListActiveDevices(context.Context) ([]db.Device, error) {
	return m.devices, nil
}

func (m *memStore) UpsertAaAddress(_ context.Context, arg db.UpsertAaAddressParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[arg.Address] = arg
	return nil
}

func (m *memStore) GetOrCreateChainCursor(_ context.Context, arg db.GetOrCreateChainCursorParams) (db.ChainCursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := arg.WalletAddress + arg.TokenAddress
	if _, ok := m.cursors[key]; !ok {
		m.cursors[key] = arg.LastScannedBlock
	}
	return db.ChainCursor{ChainID: arg.ChainID, WalletAddress: arg.WalletAddress, TokenAddress: arg.TokenAddress, LastScannedBlock: m.cursors[key]}, nil
}

func (m *memStore) AdvanceChainCursor(_ context.Context, arg db.AdvanceChainCursorParams) (db.ChainCursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAdv {
		return db.ChainCursor{}, errors.New("connection reset")
	}
	key := arg.WalletAddress + arg.TokenAddress
	if arg.Block > m.cursors[key] {
		m.cursors[key] = arg.Block
	}
	m.advances[key] = append(m.advances[key], m.cursors[key])
	return db.ChainCursor{LastScannedBlock: m.cursors[key]}, nil
}

func (m *memStore) InsertDepositEvent(_ context.Context, arg db.InsertDepositEventParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%s:%d", arg.TxHash, arg.LogIndex)
	if _, ok := m.deposits[key]; ok {
		return 0, nil
	}
	m.deposits[key] = arg
	return 1, nil
}

func (m *memStore) cursor(token common.Address) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursors[wallet.Hex()+token.Hex()]
}

// fakeClient answers FilterLogs through a per-test function and records every queried range.
type fakeClient struct {
	mu      sync.Mutex
	latest  uint64
	filter  func(q ethereum.FilterQuery) ([]types.Log, error)
	queries [][2]uint64
}

func (f *fakeClient) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (f *fakeClient) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, nil
}

func (f *fakeClient) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.mu.Lock()
	f.queries = append(f.queries, [2]uint64{q.FromBlock.Uint64(), q.ToBlock.Uint64()})
	f.mu.Unlock()
	if f.filter == nil {
		return nil, nil
	}
	return f.filter(q)
}

func (f *fakeClient) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeClient) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, nil
}

func transferLog(token common.Address, block uint64, tx string, index uint, amount int64) types.Log {
	return types.Log{
		Address:     token,
		Topics:      []common.Hash{chain.TransferEventID, common.BytesToHash(sender.Bytes()), common.BytesToHash(wallet.Bytes())},
		Data:        common.LeftPadBytes(big.NewInt(amount).Bytes(), 32),
		BlockNumber: block,
		TxHash:      common.HexToHash(tx),
		Index:       index,
	}
}

type fixture struct {
	store    *memStore
	client   *fakeClient
	deriver  *mocks.MockAddressDeriver
	notifier *mocks.MockNotifier
	watcher  *Watcher
}

func newFixture(t *testing.T, chainCfg config.ChainConfig) *fixture {
	ctrl := gomock.NewController(t)
	device := db.Device{ID: uuid.New(), PublicKey: []byte("cose-key")}
	f := &fixture{
		store:    newMemStore(device),
		client:   &fakeClient{latest: 1000},
		deriver:  mocks.NewMockAddressDeriver(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}
	registry := chain.NewRegistry(map[int64]config.ChainConfig{testChain: chainCfg}, func(context.Context, string) (chain.Client, error) {
		return f.client, nil
	})
	f.deriver.EXPECT().Serial(gomock.Any(), device.PublicKey).Return(serial, nil).AnyTimes()
	f.deriver.EXPECT().Derive(gomock.Any(), device.PublicKey, testChain, int64(0)).Return(wallet, nil).AnyTimes()

	f.watcher = New(f.store, registry, f.deriver, f.notifier, Config{Interval: time.Hour, RPCTimeout: time.Second})
	f.watcher.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	f.watcher.sleep = func(context.Context, time.Duration) error { return nil }
	return f
}

func baseChain(tokens ...config.Token) config.ChainConfig {
	return config.ChainConfig{
		ChainID:        testChain,
		Name:           "base-sepolia",
		RPCURL:         "http://rpc.invalid",
		Confirmations:  5,
		LookbackBlocks: 995,
		MaxBlockRange:  1000,
		Tokens:         tokens,
	}
}

func TestRunCycle_RecordsDepositOnce(t *testing.T) {
	f := newFixture(t, baseChain(config.Token{Address: usdc, Symbol: "USDC", Decimals: 6}))
	deposit := transferLog(usdc, 400, "0xabc1", 3, 2_500_000)
	f.client.filter = func(q ethereum.FilterQuery) ([]types.Log, error) {
		if q.FromBlock.Uint64() <= 400 && q.ToBlock.Uint64() >= 400 {
			return []types.Log{deposit}, nil
		}
		return nil, nil
	}

	f.notifier.EXPECT().NotifyUpdate(gomock.Any(), gomock.Any()).Do(func(_ context.Context, u notify.Update) {
		assert.Equal(t, serial.Hex(), u.Serial)
		assert.Equal(t, notify.ReasonDeposit, u.Reason)
		assert.Equal(t, testChain, u.ChainID)
		assert.Equal(t, deposit.TxHash.Hex(), u.TxHash)
	}).Times(1)

	report, err := f.watcher.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deposits)
	assert.Equal(t, uint64(995), report.SafeBlock)
	assert.Equal(t, int64(995), f.store.cursor(usdc))
	assert.Contains(t, f.store.addresses, wallet.Hex())

	// The provider replays the same log in a later range; it is absorbed without a second notification.
	f.client.filter = func(ethereum.FilterQuery) ([]types.Log, error) {
		return []types.Log{deposit}, nil
	}
	f.client.latest = 1100
	report, err = f.watcher.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Zero(t, report.Deposits)
	assert.Len(t, f.store.deposits, 1)
	assert.Equal(t, int64(1095), f.store.cursor(usdc))
}

func TestRunCycle_IgnoresRemovedAndForeignLogs(t *testing.T) {
	f := newFixture(t, baseChain(config.Token{Address: usdc, Symbol: "USDC", Decimals: 6}))
	removed := transferLog(usdc, 10, "0xdead", 0, 1)
	removed.Removed = true
	foreign := transferLog(usdc, 11, "0xbeef", 0, 1)
	foreign.Topics[2] = common.BytesToHash(sender.Bytes())
	malformed := types.Log{Address: usdc, Topics: []common.Hash{chain.TransferEventID}}
	f.client.filter = func(ethereum.FilterQuery) ([]types.Log, error) {
		return []types.Log{removed, foreign, malformed}, nil
	}

	report, err := f.watcher.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Zero(t, report.Deposits)
	assert.Empty(t, f.store.deposits)
	assert.Equal(t, int64(995), f.store.cursor(usdc))
}

func TestRunCycle_ShrinksWindowOnOversizedRange(t *testing.T) {
	f := newFixture(t, baseChain(config.Token{Address: usdc, Symbol: "USDC", Decimals: 6}))
	f.client.filter = func(q ethereum.FilterQuery) ([]types.Log, error) {
		if q.ToBlock.Uint64()-q.FromBlock.Uint64()+1 > 200 {
			return nil, errors.New("query returned more than 10000 results")
		}
		if q.FromBlock.Uint64() <= 700 && q.ToBlock.Uint64() >= 700 {
			return []types.Log{transferLog(usdc, 700, "0xf00d", 1, 10)}, nil
		}
		return nil, nil
	}
	f.notifier.EXPECT().NotifyUpdate(gomock.Any(), gomock.Any()).Times(1)

	report, err := f.watcher.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Zero(t, report.FailedPairs)
	assert.Equal(t, 1, report.Deposits)
	assert.Equal(t, int64(995), f.store.cursor(usdc))

	advances := f.store.advances[wallet.Hex()+usdc.Hex()]
	require.NotEmpty(t, advances)
	assert.True(t, sort.SliceIsSorted(advances, func(i, j int) bool { return advances[i] < advances[j] }), "cursor must only move forward: %v", advances)

	// Successful queries cover every block from the first one exactly once.
	var covered uint64
	next := uint64(1)
	for _, q := range f.client.queries {
		if q[1]-q[0]+1 > 200 {
			continue
		}
		assert.Equal(t, next, q[0])
		covered += q[1] - q[0] + 1
		next = q[1] + 1
	}
	assert.Equal(t, uint64(995), covered)
}

func TestRunCycle_GivesUpWhenBackOffStops(t *testing.T) {
	f := newFixture(t, baseChain(config.Token{Address: usdc, Symbol: "USDC", Decimals: 6}))
	f.watcher.newBackOff = func() backoff.BackOff { return &backoff.StopBackOff{} }
	f.client.filter = func(ethereum.FilterQuery) ([]types.Log, error) {
		return nil, errors.New("429 too many requests")
	}

	report, err := f.watcher.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FailedPairs)
	assert.Zero(t, f.store.cursor(usdc))
}

func TestRunCycle_FailingTokenDoesNotBlockOthers(t *testing.T) {
	f := newFixture(t, baseChain(
		config.Token{Address: usdc, Symbol: "USDC", Decimals: 6},
		config.Token{Address: eurc, Symbol: "EURC", Decimals: 6},
	))
	f.client.filter = func(q ethereum.FilterQuery) ([]types.Log, error) {
		if q.Addresses[0] == usdc {
			return nil, errors.New("execution reverted")
		}
		return []types.Log{transferLog(eurc, 50, "0xe1", 0, 7)}, nil
	}
	f.notifier.EXPECT().NotifyUpdate(gomock.Any(), gomock.Any()).Times(1)

	report, err := f.watcher.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pairs)
	assert.Equal(t, 1, report.FailedPairs)
	assert.Equal(t, 1, report.Deposits)
	assert.Zero(t, f.store.cursor(usdc))
	assert.Equal(t, int64(995), f.store.cursor(eurc))
}

func TestRunCycle_CursorHeldWhenAdvanceFails(t *testing.T) {
	f := newFixture(t, baseChain(config.Token{Address: usdc, Symbol: "USDC", Decimals: 6}))
	f.store.failAdv = true

	report, err := f.watcher.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FailedPairs)
	assert.Zero(t, f.store.cursor(usdc))
}

func TestRunCycle_SkipsUnderivableDevices(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := db.Device{ID: uuid.New(), PublicKey: []byte("other-key")}
	store := newMemStore(device)
	client := &fakeClient{latest: 1000}
	registry := chain.NewRegistry(map[int64]config.ChainConfig{testChain: baseChain(config.Token{Address: usdc})}, func(context.Context, string) (chain.Client, error) {
		return client, nil
	})
	deriver := mocks.NewMockAddressDeriver(ctrl)
	deriver.EXPECT().Serial(gomock.Any(), gomock.Any()).Return(serial, nil)
	deriver.EXPECT().Derive(gomock.Any(), gomock.Any(), testChain, int64(0)).Return(common.Address{}, derivation.ErrFactoryNotDeployed)

	w := New(store, registry, deriver, mocks.NewMockNotifier(ctrl), Config{Interval: time.Hour})
	report, err := w.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Zero(t, report.Wallets)
	assert.Empty(t, client.queries)
	assert.Empty(t, store.addresses)
}

func TestRunCycle_BelowConfirmations(t *testing.T) {
	f := newFixture(t, baseChain(config.Token{Address: usdc}))
	f.client.latest = 3

	report, err := f.watcher.RunCycle(context.Background(), testChain)
	require.NoError(t, err)
	assert.Zero(t, report.Wallets)
	assert.Empty(t, f.client.queries)
}

func TestRunCycle_RejectsOverlappingCycle(t *testing.T) {
	f := newFixture(t, baseChain(config.Token{Address: usdc}))
	lock := f.watcher.cycleLock(testChain)
	lock.Lock()

	_, err := f.watcher.RunCycle(context.Background(), testChain)
	assert.ErrorIs(t, err, ErrCycleInProgress)

	lock.Unlock()
	_, err = f.watcher.RunCycle(context.Background(), testChain)
	assert.NoError(t, err)
}

func TestRunCycle_UnknownChain(t *testing.T) {
	f := newFixture(t, baseChain())
	_, err := f.watcher.RunCycle(context.Background(), 1)
	assert.ErrorIs(t, err, chain.ErrUnknownChain)
}

func TestWatcher_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t, baseChain(config.Token{Address: usdc}))
	ran := make(chan struct{}, 1)
	f.client.filter = func(ethereum.FilterQuery) ([]types.Log, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil, nil
	}

	f.watcher.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle did not run")
	}
	f.watcher.Stop()
	f.watcher.Stop()
}

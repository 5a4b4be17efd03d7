package derivation_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/cyphera/passkey-wallet/internal/mocks"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-webauthn/webauthn/protocol/webauthncbor"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

var (
	factory   = common.HexToAddress("0x9406Cc6185a346906296840746125a0E44976454")
	refChain  = config.ChainConfig{ChainID: 1, Factory: factory}
	testChain = config.ChainConfig{ChainID: 8453, Factory: factory}
)

func coseKey(t *testing.T, x, y byte, curve int64) []byte {
	key := webauthncose.EC2PublicKeyData{
		PublicKeyData: webauthncose.PublicKeyData{
			KeyType:   int64(webauthncose.EllipticKey),
			Algorithm: int64(webauthncose.AlgES256),
		},
		Curve:  curve,
		XCoord: append(make([]byte, 31), x),
		YCoord: append(make([]byte, 31), y),
	}
	raw, err := webauthncbor.Marshal(key)
	require.NoError(t, err)
	return raw
}

// fakeFactory answers getAddress with an address computed from the call inputs.
func fakeFactory(t *testing.T) func(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method := chain.FactoryABI.Methods["getAddress"]
	return func(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
		args, err := method.Inputs.Unpack(msg.Data[4:])
		require.NoError(t, err)
		sum := new(big.Int).Add(args[0].(*big.Int), args[1].(*big.Int))
		sum.Add(sum, args[2].(*big.Int))
		return method.Outputs.Pack(common.BigToAddress(sum))
	}
}

type setup struct {
	chains *mocks.MockChainSource
	client *mocks.MockChainClient
}

func newSetup(t *testing.T) setup {
	ctrl := gomock.NewController(t)
	return setup{chains: mocks.NewMockChainSource(ctrl), client: mocks.NewMockChainClient(ctrl)}
}

func TestDeriver_Derive(t *testing.T) {
	s := newSetup(t)
	s.chains.EXPECT().Config(int64(8453)).Return(testChain, nil).AnyTimes()
	s.chains.EXPECT().Client(gomock.Any(), int64(8453)).Return(s.client, nil).AnyTimes()
	s.client.EXPECT().CodeAt(gomock.Any(), factory, gomock.Nil()).Return([]byte{0x60, 0x80}, nil).Times(1)
	s.client.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).DoAndReturn(fakeFactory(t)).AnyTimes()

	d := derivation.NewDeriver(s.chains, time.Second, 1)
	key := coseKey(t, 2, 3, 1)

	first, err := d.Derive(context.Background(), key, 8453, 0)
	require.NoError(t, err)
	again, err := d.Derive(context.Background(), key, 8453, 0)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, common.BigToAddress(big.NewInt(5)), first)

	salted, err := d.Derive(context.Background(), key, 8453, 4)
	require.NoError(t, err)
	assert.NotEqual(t, first, salted)
}

func TestDeriver_Serial(t *testing.T) {
	s := newSetup(t)
	s.chains.EXPECT().Config(int64(1)).Return(refChain, nil)
	s.chains.EXPECT().Client(gomock.Any(), int64(1)).Return(s.client, nil)
	s.client.EXPECT().CodeAt(gomock.Any(), factory, gomock.Nil()).Return([]byte{0x01}, nil)
	s.client.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).DoAndReturn(fakeFactory(t))

	d := derivation.NewDeriver(s.chains, time.Second, 1)
	serial, err := d.Serial(context.Background(), coseKey(t, 7, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, common.BigToAddress(big.NewInt(8)), serial)
	assert.Equal(t, int64(1), d.ReferenceChain())
}

func TestDeriver_FactoryNotDeployed(t *testing.T) {
	s := newSetup(t)
	s.chains.EXPECT().Config(int64(8453)).Return(testChain, nil).Times(2)
	s.chains.EXPECT().Client(gomock.Any(), int64(8453)).Return(s.client, nil).Times(2)
	// a miss is not cached, the second call checks again
	s.client.EXPECT().CodeAt(gomock.Any(), factory, gomock.Nil()).Return(nil, nil).Times(2)

	d := derivation.NewDeriver(s.chains, time.Second, 1)
	for i := 0; i < 2; i++ {
		_, err := d.Derive(context.Background(), coseKey(t, 1, 1, 1), 8453, 0)
		assert.ErrorIs(t, err, derivation.ErrFactoryNotDeployed)
	}
}

func TestDeriver_Timeout(t *testing.T) {
	s := newSetup(t)
	s.chains.EXPECT().Config(int64(8453)).Return(testChain, nil)
	s.chains.EXPECT().Client(gomock.Any(), int64(8453)).Return(s.client, nil)
	s.client.EXPECT().CodeAt(gomock.Any(), factory, gomock.Nil()).DoAndReturn(
		func(ctx context.Context, _ common.Address, _ *big.Int) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	d := derivation.NewDeriver(s.chains, 20*time.Millisecond, 1)
	_, err := d.Derive(context.Background(), coseKey(t, 1, 1, 1), 8453, 0)
	assert.ErrorIs(t, err, derivation.ErrDerivationTimeout)
}

func TestDeriver_UnknownChain(t *testing.T) {
	s := newSetup(t)
	s.chains.EXPECT().Config(int64(999)).Return(config.ChainConfig{}, chain.ErrUnknownChain)

	d := derivation.NewDeriver(s.chains, time.Second, 1)
	_, err := d.Derive(context.Background(), coseKey(t, 1, 1, 1), 999, 0)
	assert.ErrorIs(t, err, chain.ErrUnknownChain)
}

func TestDecodePublicKey(t *testing.T) {
	x, y, err := derivation.DecodePublicKey(coseKey(t, 9, 10, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(9), x.Int64())
	assert.Equal(t, int64(10), y.Int64())

	_, _, err = derivation.DecodePublicKey(coseKey(t, 9, 10, 2))
	assert.ErrorIs(t, err, derivation.ErrInvalidPublicKey)

	_, _, err = derivation.DecodePublicKey([]byte{0xff, 0x00})
	assert.ErrorIs(t, err, derivation.ErrInvalidPublicKey)
}

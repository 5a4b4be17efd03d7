package paymaster

import (
	"context"
	"errors"
	"testing"

	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSecrets struct {
	value string
	err   error
	calls int
}

func (c *countingSecrets) GetSecretString(ctx context.Context, secretArn, fallbackEnvVar string) (string, error) {
	c.calls++
	return c.value, c.err
}

func TestKeyRing(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	secrets := &countingSecrets{value: hexutil.Encode(crypto.FromECDSA(key))}
	ring := NewKeyRing(secrets, map[int64]config.ChainConfig{8453: {ChainID: 8453, SignerKeyEnv: "BASE_SIGNER"}})

	for i := 0; i < 2; i++ {
		got, err := ring.Key(context.Background(), 8453)
		require.NoError(t, err)
		assert.Zero(t, key.D.Cmp(got.D))
	}
	assert.Equal(t, 1, secrets.calls)

	addr, err := SignerAddress(context.Background(), ring, 8453)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), addr)

	_, err = ring.Key(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSignerUnavailable)
}

func TestKeyRing_BadSecret(t *testing.T) {
	chains := map[int64]config.ChainConfig{1: {ChainID: 1}}

	_, err := NewKeyRing(&countingSecrets{err: errors.New("denied")}, chains).Key(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSignerUnavailable)

	_, err = NewKeyRing(&countingSecrets{value: "not-hex"}, chains).Key(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSignerUnavailable)
}

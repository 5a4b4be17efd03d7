package paymaster

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrSignerUnavailable = errors.New("paymaster signer key unavailable")

// KeySource returns the paymaster signing key for a chain.
type KeySource interface {
	Key(ctx context.Context, chainID int64) (*ecdsa.PrivateKey, error)
}

// SecretReader resolves a secret by ARN, falling back to an environment variable.
type SecretReader interface {
	GetSecretString(ctx context.Context, secretArn, fallbackEnvVar string) (string, error)
}

// KeyRing loads signer keys lazily from the secret store and keeps them for the process lifetime.
type KeyRing struct {
	secrets SecretReader
	chains  map[int64]config.ChainConfig

	mu   sync.Mutex
	keys map[int64]*ecdsa.PrivateKey
}

func NewKeyRing(secrets SecretReader, chains map[int64]config.ChainConfig) *KeyRing {
	return &KeyRing{secrets: secrets, chains: chains, keys: make(map[int64]*ecdsa.PrivateKey)}
}

func (k *KeyRing) Key(ctx context.Context, chainID int64) (*ecdsa.PrivateKey, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if key, ok := k.keys[chainID]; ok {
		return key, nil
	}
	cfg, ok := k.chains[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: chain %d not configured", ErrSignerUnavailable, chainID)
	}
	raw, err := k.secrets.GetSecretString(ctx, cfg.SignerSecretArn, cfg.SignerKeyEnv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignerUnavailable, err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed key for chain %d", ErrSignerUnavailable, chainID)
	}
	k.keys[chainID] = key
	return key, nil
}

// SignerAddress returns the address of the key used on chainID.
func SignerAddress(ctx context.Context, keys KeySource, chainID int64) (common.Address, error) {
	key, err := keys.Key(ctx, chainID)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

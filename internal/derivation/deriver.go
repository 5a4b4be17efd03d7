package derivation

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"go.uber.org/zap"
)

var (
	ErrInvalidPublicKey   = errors.New("credential public key is not an EC2 key")
	ErrFactoryNotDeployed = errors.New("account factory has no code on this chain")
	ErrDerivationTimeout  = errors.New("address derivation timed out")
)

// curveP256 is the COSE identifier for NIST P-256.
const curveP256 = 1

// AddressDeriver computes smart-account addresses from passkey public keys.
type AddressDeriver interface {
	Derive(ctx context.Context, publicKey []byte, chainID int64, salt int64) (common.Address, error)
	Serial(ctx context.Context, publicKey []byte) (common.Address, error)
}

// ChainSource resolves chain configuration and shared RPC clients.
type ChainSource interface {
	Config(chainID int64) (config.ChainConfig, error)
	Client(ctx context.Context, chainID int64) (chain.Client, error)
}

// Deriver asks each chain's account factory for the counterfactual address of a key.
type Deriver struct {
	chains         ChainSource
	timeout        time.Duration
	referenceChain int64
	logger         *zap.Logger

	// factories with confirmed bytecode; misses are re-checked on every call
	deployed sync.Map
}

func NewDeriver(chains ChainSource, timeout time.Duration, referenceChain int64) *Deriver {
	return &Deriver{
		chains:         chains,
		timeout:        timeout,
		referenceChain: referenceChain,
		logger:         logger.With(zap.String("component", "address_deriver")),
	}
}

// DecodePublicKey extracts the P-256 coordinates from a COSE encoded key.
func DecodePublicKey(cose []byte) (x, y *big.Int, err error) {
	parsed, err := webauthncose.ParsePublicKey(cose)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	ec, ok := parsed.(webauthncose.EC2PublicKeyData)
	if !ok {
		return nil, nil, ErrInvalidPublicKey
	}
	if ec.Curve != curveP256 || len(ec.XCoord) == 0 || len(ec.YCoord) == 0 {
		return nil, nil, ErrInvalidPublicKey
	}
	return new(big.Int).SetBytes(ec.XCoord), new(big.Int).SetBytes(ec.YCoord), nil
}

// Derive returns the account address for (publicKey, chainID, salt).
// The whole lookup is bounded by the deriver timeout; exceeding it yields ErrDerivationTimeout.
func (d *Deriver) Derive(ctx context.Context, publicKey []byte, chainID int64, salt int64) (common.Address, error) {
	x, y, err := DecodePublicKey(publicKey)
	if err != nil {
		return common.Address{}, err
	}
	cfg, err := d.chains.Config(chainID)
	if err != nil {
		return common.Address{}, err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	addr, err := d.derive(ctx, cfg, x, y, salt)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(chain.Classify(err), chain.ErrTimeout) {
			d.logger.Warn("address derivation timed out",
				zap.Int64("chain_id", chainID),
				zap.Int64("salt", salt),
				zap.Duration("timeout", d.timeout),
			)
			return common.Address{}, ErrDerivationTimeout
		}
		return common.Address{}, err
	}
	return addr, nil
}

func (d *Deriver) derive(ctx context.Context, cfg config.ChainConfig, x, y *big.Int, salt int64) (common.Address, error) {
	client, err := d.chains.Client(ctx, cfg.ChainID)
	if err != nil {
		return common.Address{}, err
	}

	if _, ok := d.deployed.Load(cfg.ChainID); !ok {
		code, err := client.CodeAt(ctx, cfg.Factory, nil)
		if err != nil {
			return common.Address{}, fmt.Errorf("failed to read factory code: %w", err)
		}
		if len(code) == 0 {
			return common.Address{}, fmt.Errorf("%w: chain %d factory %s", ErrFactoryNotDeployed, cfg.ChainID, cfg.Factory.Hex())
		}
		d.deployed.Store(cfg.ChainID, struct{}{})
	}

	addr, err := chain.FactoryGetAddress(ctx, client, cfg.Factory, x, y, big.NewInt(salt))
	if err != nil {
		return common.Address{}, fmt.Errorf("factory getAddress failed: %w", err)
	}
	return addr, nil
}

// Serial returns the chain-invariant identity of a key: its salt 0 address on the reference chain.
func (d *Deriver) Serial(ctx context.Context, publicKey []byte) (common.Address, error) {
	return d.Derive(ctx, publicKey, d.referenceChain, constants.DefaultSalt)
}

// ReferenceChain is the chain whose addresses act as serials.
func (d *Deriver) ReferenceChain() int64 {
	return d.referenceChain
}

package chain

import (
	"context"
	"sync"

	"github.com/cyphera/passkey-wallet/internal/config"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnknownChain is returned for a chain id missing from the chain table.
var ErrUnknownChain = errors.New("chain is not configured")

// Dialer opens a client for an RPC endpoint.
type Dialer func(ctx context.Context, rpcURL string) (Client, error)

// DialEthclient is the production Dialer.
func DialEthclient(ctx context.Context, rpcURL string) (Client, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Registry owns one RPC client per chain for the life of the process.
// Clients are created on first use and reused afterwards.
type Registry struct {
	mu      sync.Mutex
	chains  map[int64]config.ChainConfig
	clients map[int64]Client
	dial    Dialer
	logger  *zap.Logger
}

func NewRegistry(chains map[int64]config.ChainConfig, dial Dialer) *Registry {
	if dial == nil {
		dial = DialEthclient
	}
	return &Registry{
		chains:  chains,
		clients: make(map[int64]Client),
		dial:    dial,
		logger:  logger.With(zap.String("component", "chain_registry")),
	}
}

// Config resolves the configuration for chainID.
func (r *Registry) Config(chainID int64) (config.ChainConfig, error) {
	c, ok := r.chains[chainID]
	if !ok {
		return config.ChainConfig{}, errors.Wrapf(ErrUnknownChain, "chain %d", chainID)
	}
	return c, nil
}

// ChainIDs lists every configured chain.
func (r *Registry) ChainIDs() []int64 {
	ids := make([]int64, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	return ids
}

// Client returns the shared client for chainID, dialing it on first use.
func (r *Registry) Client(ctx context.Context, chainID int64) (Client, error) {
	cfg, err := r.Config(chainID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[chainID]; ok {
		return c, nil
	}
	c, err := r.dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial rpc for chain %d", chainID)
	}
	c = newPacedClient(c, cfg.RPCPerSecond)
	r.clients[chainID] = c
	r.logger.Info("connected to chain rpc", zap.Int64("chain_id", chainID), zap.String("name", cfg.Name))
	return c, nil
}

// Close releases every dialed client that supports closing.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		if pc, ok := c.(*pacedClient); ok {
			c = pc.inner
		}
		if closer, ok := c.(interface{ Close() }); ok {
			closer.Close()
		}
		delete(r.clients, id)
	}
}

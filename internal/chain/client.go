package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/ratelimit"
)

// Client is the subset of an Ethereum JSON-RPC client this service relies on.
// *ethclient.Client satisfies it.
type Client interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// pacedClient spaces calls to one provider so a chain never exceeds its request budget.
type pacedClient struct {
	inner   Client
	limiter ratelimit.Limiter
}

func newPacedClient(inner Client, perSecond int) Client {
	if perSecond <= 0 {
		return inner
	}
	return &pacedClient{inner: inner, limiter: ratelimit.New(perSecond)}
}

func (p *pacedClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	p.limiter.Take()
	return p.inner.CodeAt(ctx, account, blockNumber)
}

func (p *pacedClient) BlockNumber(ctx context.Context) (uint64, error) {
	p.limiter.Take()
	return p.inner.BlockNumber(ctx)
}

func (p *pacedClient) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	p.limiter.Take()
	return p.inner.FilterLogs(ctx, q)
}

func (p *pacedClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	p.limiter.Take()
	return p.inner.BalanceAt(ctx, account, blockNumber)
}

func (p *pacedClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	p.limiter.Take()
	return p.inner.CallContract(ctx, msg, blockNumber)
}

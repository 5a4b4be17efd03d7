package config

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainTable = `[
  {
    "chainId": 8453,
    "name": "base",
    "rpcUrl": "https://base.example",
    "factory": "0x00000000000000000000000000000000000000f1",
    "paymaster": "0x00000000000000000000000000000000000000a1",
    "treasury": "0x00000000000000000000000000000000000000b1",
    "nativeSymbol": "eth",
    "markupBps": 12000,
    "tokens": [{"address": "0x00000000000000000000000000000000000000c1", "symbol": "USDC", "decimals": 6}]
  },
  {"chainId": 10, "name": "optimism", "rpcUrl": "https://op.example"}
]`

func TestParseChains(t *testing.T) {
	chains, err := ParseChains([]byte(chainTable))
	require.NoError(t, err)
	require.Len(t, chains, 2)

	base := chains[8453]
	assert.Equal(t, "ETH", base.NativeSymbol)
	assert.Equal(t, int64(12000), base.MarkupBps)
	assert.Equal(t, int64(15000), base.MaxMultiplierBps)
	assert.True(t, base.HasTreasury())

	tok, ok := base.Token(common.HexToAddress("0xc1"))
	require.True(t, ok)
	assert.Equal(t, uint8(6), tok.Decimals)

	_, ok = base.Token(common.HexToAddress("0xc2"))
	assert.False(t, ok)

	op := chains[10]
	assert.False(t, op.HasTreasury())
	assert.Equal(t, uint64(2000), op.MaxBlockRange)
}

func TestParseChains_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{"},
		{name: "missing chain id", raw: `[{"name":"x"}]`},
		{name: "duplicate chain id", raw: `[{"chainId":1},{"chainId":1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChains([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RejectsUnknownStage(t *testing.T) {
	t.Setenv("STAGE", "staging")
	t.Setenv("CHAINS_FILE", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STAGE", "local")
	t.Setenv("CHAINS_FILE", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, "auto", cfg.RPID)
	assert.Equal(t, time.Minute, cfg.ReplayWindow)
	assert.Empty(t, cfg.ChainIDs())
}

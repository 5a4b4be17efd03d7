package helpers

import (
	"math/big"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidStage(t *testing.T) {
	assert.True(t, IsValidStage("local"))
	assert.True(t, IsValidStage("prod"))
	assert.False(t, IsValidStage("staging"))
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	var inside int32
	var maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("user-1")
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "2.00", FormatUSD(WholeUSD(2)))
	assert.Equal(t, "0.01", FormatUSD(10_000_000))
	assert.Equal(t, "12.35", FormatUSD(12_345_000_000))
}

func TestParseUSD(t *testing.T) {
	n, err := ParseUSD("10.50")
	require.NoError(t, err)
	assert.Equal(t, int64(10_500_000_000), n)

	_, err = ParseUSD("ten")
	assert.Error(t, err)
}

func TestPriceToNano(t *testing.T) {
	assert.Equal(t, uint64(2_000_000_000_000), PriceToNano(2000))
	assert.Equal(t, uint64(1_000_000_000), PriceToNano(1))
	assert.Equal(t, uint64(0), PriceToNano(0))
	assert.Equal(t, uint64(0), PriceToNano(-3))
}

func TestTokenAmountConversions(t *testing.T) {
	// 2.5 USDC at $1.00
	amount := big.NewInt(2_500_000)
	usd := TokenAmountToUSDNano(amount, 6, 1_000_000_000)
	assert.Equal(t, int64(2_500_000_000), usd.Int64())

	back := USDNanoToTokenAmount(usd, 6, 1_000_000_000)
	assert.Equal(t, amount, back)

	// rounding up when the price does not divide evenly
	tok := USDNanoToTokenAmount(big.NewInt(1), 6, 3_000_000_000)
	assert.Equal(t, int64(1), tok.Int64())

	assert.Equal(t, int64(0), TokenAmountToUSDNano(amount, 6, 0).Int64())
}

package helpers

import (
	"math/big"

	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/shopspring/decimal"
)

var usdScale = big.NewInt(constants.USDScale)

// FormatUSD renders a nano-USD amount rounded to cents. This is the only place
// fixed-point USD amounts are turned into a display value.
func FormatUSD(nano int64) string {
	return decimal.New(nano, -9).StringFixed(2)
}

// ParseUSD converts a decimal USD string such as "12.50" into nano-USD, truncating below 1e-9.
func ParseUSD(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Shift(9).Truncate(0).IntPart(), nil
}

// PriceToNano converts a floating USD quote into a 1e9 scaled integer price.
func PriceToNano(price float64) uint64 {
	if price <= 0 {
		return 0
	}
	return uint64(decimal.NewFromFloat(price).Shift(9).Truncate(0).IntPart())
}

// TokenAmountToUSDNano computes amount * priceNano / 10^decimals using integer math.
// priceNano is the USD price of one whole token scaled by 1e9.
func TokenAmountToUSDNano(amount *big.Int, decimals uint8, priceNano uint64) *big.Int {
	if amount == nil || amount.Sign() <= 0 || priceNano == 0 {
		return new(big.Int)
	}
	num := new(big.Int).Mul(amount, new(big.Int).SetUint64(priceNano))
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return num.Quo(num, den)
}

// USDNanoToTokenAmount is the inverse of TokenAmountToUSDNano, rounding up so the
// token amount always covers the USD value.
func USDNanoToTokenAmount(usdNano *big.Int, decimals uint8, priceNano uint64) *big.Int {
	if usdNano == nil || usdNano.Sign() <= 0 || priceNano == 0 {
		return new(big.Int)
	}
	num := new(big.Int).Mul(usdNano, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	price := new(big.Int).SetUint64(priceNano)
	q, r := new(big.Int).QuoRem(num, price, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// WholeUSD returns n dollars as nano-USD.
func WholeUSD(n int64) int64 {
	return new(big.Int).Mul(big.NewInt(n), usdScale).Int64()
}

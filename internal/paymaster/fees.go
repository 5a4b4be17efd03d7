package paymaster

import (
	"errors"
	"math/big"

	"github.com/cyphera/passkey-wallet/internal/helpers"
)

const (
	bpsDenominator = 10000
	nativeDecimals = 18
)

var errCostOutOfRange = errors.New("sponsorship cost does not fit in nano-USD range")

// Quote is the priced cost of sponsoring one operation.
type Quote struct {
	ReimbursementWei *big.Int
	PlatformFeeWei   *big.Int
	CostUSD          int64 // nano-USD
	CreditUsed       int64 // nano-USD drawn from the prepaid balance
	Shortfall        int64 // nano-USD the embedded fee must cover
}

// QuoteInputs are the values a quote is computed from.
type QuoteInputs struct {
	TotalGas      *big.Int
	MaxFeePerGas  *big.Int
	MarkupBps     int64
	NativePrice   uint64 // USD per native unit, scaled 1e9
	CreditBalance int64  // nano-USD
}

// ComputeQuote prices gas reimbursement plus an equal platform fee and draws
// the prepaid credit down first.
func ComputeQuote(in QuoteInputs) (Quote, error) {
	reimb := new(big.Int).Mul(in.TotalGas, in.MaxFeePerGas)
	reimb.Mul(reimb, big.NewInt(in.MarkupBps))
	reimb.Quo(reimb, big.NewInt(bpsDenominator))
	platform := new(big.Int).Set(reimb)

	totalWei := new(big.Int).Add(reimb, platform)
	cost := helpers.TokenAmountToUSDNano(totalWei, nativeDecimals, in.NativePrice)
	if !cost.IsInt64() {
		return Quote{}, errCostOutOfRange
	}

	q := Quote{
		ReimbursementWei: reimb,
		PlatformFeeWei:   platform,
		CostUSD:          cost.Int64(),
	}
	balance := in.CreditBalance
	if balance < 0 {
		balance = 0
	}
	q.CreditUsed = min(balance, q.CostUSD)
	q.Shortfall = q.CostUSD - q.CreditUsed
	return q, nil
}

// FeeBand returns the inclusive range an embedded fee must fall in.
func FeeBand(expected, maxMultiplierBps int64) (lo, hi int64) {
	upper := new(big.Int).Mul(big.NewInt(expected), big.NewInt(maxMultiplierBps))
	upper.Quo(upper, big.NewInt(bpsDenominator))
	if !upper.IsInt64() {
		return expected, expected
	}
	return expected, upper.Int64()
}

// WithinBand reports whether fee lies in [expected, expected*maxMultiplierBps/10000].
func WithinBand(fee, expected, maxMultiplierBps int64) bool {
	lo, hi := FeeBand(expected, maxMultiplierBps)
	return fee >= lo && fee <= hi
}

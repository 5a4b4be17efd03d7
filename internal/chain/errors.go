package chain

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrRangeTooLarge means the provider refused a log query because the block range or result set was too big.
	ErrRangeTooLarge = errors.New("rpc block range too large")
	// ErrRateLimited means the provider throttled the request.
	ErrRateLimited = errors.New("rpc rate limited")
	// ErrTimeout means an RPC call did not finish within its deadline.
	ErrTimeout = errors.New("rpc timeout")
)

// Provider specific codes seen for oversized log queries and throttling.
const (
	codeLimitExceeded   = -32005
	codeInvalidParams   = -32602
	codeResourceLimit   = -32099
	codeTooManyRequests = 429
)

var rangeMessages = []string{
	"block range",
	"range too large",
	"range is too large",
	"too many blocks",
	"query returned more than",
	"response size exceeded",
	"log response size",
	"exceed maximum block range",
	"query timeout exceeded",
}

var rateMessages = []string{
	"rate limit",
	"too many requests",
	"limit exceeded",
	"exceeded its compute units",
	"capacity exceeded",
	"throughput",
}

type classifiedError struct {
	kind  error
	cause error
}

func (e *classifiedError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }

func (e *classifiedError) Unwrap() []error { return []error{e.kind, e.cause} }

// Classify tags provider errors so callers can match them with errors.Is
// against ErrRangeTooLarge, ErrRateLimited or ErrTimeout. Unrecognized errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRangeTooLarge) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &classifiedError{kind: ErrTimeout, cause: err}
	}

	msg := strings.ToLower(err.Error())

	// Range messages are checked first: several providers report an oversized
	// query with the generic "limit exceeded" code.
	if containsAny(msg, rangeMessages) {
		return &classifiedError{kind: ErrRangeTooLarge, cause: err}
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode == http.StatusServiceUnavailable) {
		return &classifiedError{kind: ErrRateLimited, cause: err}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeLimitExceeded, codeResourceLimit, codeTooManyRequests:
			return &classifiedError{kind: ErrRateLimited, cause: err}
		case codeInvalidParams:
			if strings.Contains(msg, "range") {
				return &classifiedError{kind: ErrRangeTooLarge, cause: err}
			}
		}
	}

	if containsAny(msg, rateMessages) {
		return &classifiedError{kind: ErrRateLimited, cause: err}
	}
	return err
}

// ShouldShrink reports whether a log query should be retried with a smaller block range.
func ShouldShrink(err error) bool {
	err = Classify(err)
	return errors.Is(err, ErrRangeTooLarge) || errors.Is(err, ErrRateLimited)
}

// IsTransient reports whether err should be retried on a later attempt.
func IsTransient(err error) bool {
	err = Classify(err)
	return errors.Is(err, ErrRangeTooLarge) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

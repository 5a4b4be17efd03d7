package coinmarketcap

import (
	"context"
	"fmt"
	"strings"
	"time"

	httpClient "github.com/cyphera/passkey-wallet/internal/client/http"
)

const (
	defaultBaseURL = "https://pro-api.coinmarketcap.com"
	defaultTimeout = 10 * time.Second
	quotesPath     = "/v2/cryptocurrency/quotes/latest"
)

// Client fetches USD quotes from the CoinMarketCap API.
type Client struct {
	apiKey     string
	httpClient *httpClient.HTTPClient
}

// NewClient creates a new CoinMarketCap API client. baseURL may be empty.
func NewClient(apiKey, baseURL string, opts ...httpClient.ClientOption) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	opts = append([]httpClient.ClientOption{
		httpClient.WithBaseURL(baseURL),
		httpClient.WithTimeout(defaultTimeout),
	}, opts...)
	return &Client{
		apiKey:     apiKey,
		httpClient: httpClient.NewHTTPClient(opts...),
	}
}

type CmcQuote struct {
	Price       float64 `json:"price"`
	LastUpdated string  `json:"last_updated"`
}

type CmcTokenData struct {
	ID     int                 `json:"id"`
	Name   string              `json:"name"`
	Symbol string              `json:"symbol"`
	Quote  map[string]CmcQuote `json:"quote"`
}

type CmcStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type CmcAPIResponse struct {
	Status CmcStatus                 `json:"status"`
	Data   map[string][]CmcTokenData `json:"data"`
}

// Error is a logical error reported inside a CoinMarketCap response.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("coinmarketcap error %d: %s", e.Code, e.Message)
}

// GetLatestQuotes fetches the latest quotes for the given symbols.
func (c *Client) GetLatestQuotes(ctx context.Context, symbols []string, convert string) (*CmcAPIResponse, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols cannot be empty")
	}
	var resp CmcAPIResponse
	err := c.httpClient.GetJSON(ctx, quotesPath, &resp,
		httpClient.WithQueryParam("symbol", strings.ToUpper(strings.Join(symbols, ","))),
		httpClient.WithQueryParam("convert", strings.ToUpper(convert)),
		httpClient.WithHeader("X-CMC_PRO_API_KEY", c.apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest quotes from CoinMarketCap: %w", err)
	}
	if resp.Status.ErrorCode != 0 {
		return nil, &Error{Code: resp.Status.ErrorCode, Message: resp.Status.ErrorMessage}
	}
	return &resp, nil
}

// USDPrices returns symbol -> USD price for every symbol with a quote.
// Symbols CoinMarketCap does not know are simply absent.
func (c *Client) USDPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	resp, err := c.GetLatestQuotes(ctx, symbols, "USD")
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(resp.Data))
	for symbol, entries := range resp.Data {
		if len(entries) == 0 {
			continue
		}
		// The first entry is the highest ranked asset for a shared ticker.
		if q, ok := entries[0].Quote["USD"]; ok && q.Price > 0 {
			out[strings.ToUpper(symbol)] = q.Price
		}
	}
	return out, nil
}

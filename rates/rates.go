// Package rates fetches JPY-based exchange rates for the viewer, with a
// hard-coded fallback so the API keeps answering when the upstream is down.
package rates

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"ryokan-explorer/utils"
)

// Rates maps a currency code to its per-JPY conversion rate.
type Rates map[string]float64

// Fallback rates, roughly 1 USD = 150 JPY and 1 EUR = 160 JPY.
var fallback = Rates{
	"JPY": 1.0,
	"USD": 0.0067,
	"EUR": 0.0062,
}

const cacheTTL = time.Hour

type apiResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Client fetches live rates and caches them for an hour.
type Client struct {
	http   *resty.Client
	url    string
	logger *utils.Logger

	mu        sync.Mutex
	cached    Rates
	fetchedAt time.Time
}

// NewClient creates a rates client for the given endpoint (a JPY-base
// latest-rates URL).
func NewClient(url string, logger *utils.Logger) *Client {
	http := resty.New()
	http.SetTimeout(5 * time.Second)
	return &Client{http: http, url: url, logger: logger}
}

// Current returns the cached rates, refreshing them when stale. Upstream
// failures fall back to the hard-coded table.
func (c *Client) Current() Rates {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < cacheTTL {
		return c.cached
	}

	fetched, err := c.fetch()
	if err != nil {
		c.logger.Warn("[rates] Live rates unavailable, using fallback: %v", err)
		return fallback
	}

	c.cached = fetched
	c.fetchedAt = time.Now()
	return c.cached
}

func (c *Client) fetch() (Rates, error) {
	res, err := c.http.R().Get(c.url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("rates: unexpected status %d", res.StatusCode())
	}

	var body apiResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return nil, fmt.Errorf("rates: decode response: %w", err)
	}

	usd, okUSD := body.Rates["USD"]
	eur, okEUR := body.Rates["EUR"]
	if !okUSD || !okEUR {
		return nil, fmt.Errorf("rates: response missing USD/EUR")
	}

	return Rates{"JPY": 1.0, "USD": usd, "EUR": eur}, nil
}

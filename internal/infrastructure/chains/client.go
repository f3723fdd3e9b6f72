// Package chains integrates the chainlist.org network directory: fetch once,
// cache in memory, filter locally.
package chains

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/bolt"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
)

// DefaultURL is the chainlist.org directory endpoint.
const DefaultURL = "https://chainlist.org/rpcs.json"

// NativeCurrency describes a chain's gas token.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// RPCEndpoint is one advertised RPC URL.
type RPCEndpoint struct {
	URL      string `json:"url"`
	Tracking string `json:"tracking,omitempty"`
}

// UnmarshalJSON accepts both the object form and the bare-string form the
// directory mixes freely.
func (r *RPCEndpoint) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.URL)
	}
	type endpoint RPCEndpoint
	var e endpoint
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	*r = RPCEndpoint(e)
	return nil
}

// Chain is one entry in the directory.
type Chain struct {
	Name           string         `json:"name"`
	Chain          string         `json:"chain"`
	ChainID        int64          `json:"chainId"`
	ShortName      string         `json:"shortName"`
	NativeCurrency NativeCurrency `json:"nativeCurrency"`
	RPC            []RPCEndpoint  `json:"rpc"`
}

// UsableRPCURLs returns the chain's HTTPS endpoints, dropping websocket URLs
// and templated ones that need an API key filled in.
func (c Chain) UsableRPCURLs() []string {
	var urls []string
	for _, rpc := range c.RPC {
		u := rpc.URL
		if !strings.HasPrefix(u, "https://") {
			continue
		}
		if strings.Contains(u, "${") {
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

// popularChainIDs drive ListPopular, in display order.
var popularChainIDs = []int64{1, 10, 56, 100, 137, 250, 8453, 42161, 43114}

// Config carries the client knobs.
type Config struct {
	URL          string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	MaxAttempts  int
}

// DefaultConfig returns the standard client configuration.
func DefaultConfig() Config {
	return Config{
		URL:          DefaultURL,
		CacheTTL:     15 * time.Minute,
		FetchTimeout: 20 * time.Second,
		MaxAttempts:  3,
	}
}

// Client fetches and caches the chain directory.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *bolt.Logger
	retry      retry.Retry[[]Chain]
	timeout    timeout.Timeout[[]Chain]

	mu        sync.Mutex
	cache     []Chain
	fetchedAt time.Time
}

// NewClient creates a chain directory client.
func NewClient(cfg Config, logger *bolt.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultConfig().FetchTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}

	r := retry.New[[]Chain](retry.Config{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
		IsRetryable:  isRetryable,
	})
	t := timeout.New[[]Chain](timeout.Config{
		DefaultTimeout: cfg.FetchTimeout,
	})

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
		retry:      r,
		timeout:    t,
	}
}

func isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var status *statusError
	if errors.As(err, &status) {
		return status.code >= 500
	}
	return false
}

// All returns every chain, fetching the directory if the cache is cold or
// stale.
func (c *Client) All(ctx context.Context) ([]Chain, error) {
	c.mu.Lock()
	if c.cache != nil && time.Since(c.fetchedAt) < c.cfg.CacheTTL {
		cached := c.cache
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	chains, err := c.timeout.Execute(ctx, c.cfg.FetchTimeout, func(ctx context.Context) ([]Chain, error) {
		return c.retry.Do(ctx, c.fetch)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain directory: %w", err)
	}

	c.mu.Lock()
	c.cache = chains
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.logger.Info().
		Int("chains", len(chains)).
		Msg("chain directory refreshed")

	return chains, nil
}

func (c *Client) fetch(ctx context.Context) ([]Chain, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var chains []Chain
	if err := json.NewDecoder(resp.Body).Decode(&chains); err != nil {
		return nil, fmt.Errorf("failed to decode chain directory: %w", err)
	}
	return chains, nil
}

// Search returns chains whose name, short name or network matches the query,
// case-insensitively. A numeric query also matches the chain ID exactly.
func (c *Client) Search(ctx context.Context, query string) ([]Chain, error) {
	chains, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var out []Chain
	for _, chain := range chains {
		if matchesChain(chain, q) {
			out = append(out, chain)
		}
	}
	return out, nil
}

// SearchRPC returns the usable RPC URLs for every chain matching the query.
func (c *Client) SearchRPC(ctx context.Context, query string) (map[string][]string, error) {
	matches, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(matches))
	for _, chain := range matches {
		if urls := chain.UsableRPCURLs(); len(urls) > 0 {
			out[fmt.Sprintf("%s (%d)", chain.Name, chain.ChainID)] = urls
		}
	}
	return out, nil
}

// ListPopular returns the well-known networks, in a fixed order.
func (c *Client) ListPopular(ctx context.Context) ([]Chain, error) {
	chains, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]Chain, len(chains))
	for _, chain := range chains {
		byID[chain.ChainID] = chain
	}

	var out []Chain
	for _, id := range popularChainIDs {
		if chain, ok := byID[id]; ok {
			out = append(out, chain)
		}
	}
	return out, nil
}

func matchesChain(chain Chain, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(chain.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(chain.ShortName), q) {
		return true
	}
	if strings.Contains(strings.ToLower(chain.Chain), q) {
		return true
	}
	return fmt.Sprintf("%d", chain.ChainID) == q
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

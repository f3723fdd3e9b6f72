// Package tokens integrates the Optimism token list: fetch once, cache in
// memory, filter locally.
package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/bolt"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
)

// DefaultURL is the Optimism token list endpoint.
const DefaultURL = "https://static.optimism.io/optimism.tokenlist.json"

// Token is one entry in the list.
type Token struct {
	ChainID  int64  `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// List is the token list document.
type List struct {
	Name   string  `json:"name"`
	Tokens []Token `json:"tokens"`
}

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

// Client fetches and caches the token list.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *bolt.Logger
	retry      retry.Retry[*List]
	timeout    timeout.Timeout[*List]

	mu        sync.Mutex
	cache     *List
	fetchedAt time.Time
}

// NewClient creates a token list client.
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

	r := retry.New[*List](retry.Config{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
		IsRetryable:  isRetryable,
	})
	t := timeout.New[*List](timeout.Config{
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

// All returns the full token list, fetching it if the cache is cold or
// stale.
func (c *Client) All(ctx context.Context) (*List, error) {
	c.mu.Lock()
	if c.cache != nil && time.Since(c.fetchedAt) < c.cfg.CacheTTL {
		cached := c.cache
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	list, err := c.timeout.Execute(ctx, c.cfg.FetchTimeout, func(ctx context.Context) (*List, error) {
		return c.retry.Do(ctx, c.fetch)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token list: %w", err)
	}

	c.mu.Lock()
	c.cache = list
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.logger.Info().
		Int("tokens", len(list.Tokens)).
		Msg("token list refreshed")

	return list, nil
}

func (c *Client) fetch(ctx context.Context) (*List, error) {
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

	var list List
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode token list: %w", err)
	}
	return &list, nil
}

// Search returns tokens whose symbol or name matches the query. A chainID of
// zero matches every chain.
func (c *Client) Search(ctx context.Context, query string, chainID int64) ([]Token, error) {
	list, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var out []Token
	for _, token := range list.Tokens {
		if chainID != 0 && token.ChainID != chainID {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(token.Symbol), q) ||
			strings.Contains(strings.ToLower(token.Name), q) {
			out = append(out, token)
		}
	}
	return out, nil
}

// ByAddress returns the tokens registered at an address, across chains when
// chainID is zero. Address comparison is case-insensitive.
func (c *Client) ByAddress(ctx context.Context, address string, chainID int64) ([]Token, error) {
	list, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	addr := strings.ToLower(strings.TrimSpace(address))
	var out []Token
	for _, token := range list.Tokens {
		if chainID != 0 && token.ChainID != chainID {
			continue
		}
		if strings.ToLower(token.Address) == addr {
			out = append(out, token)
		}
	}
	return out, nil
}

// ChainTokens returns every token on one chain.
func (c *Client) ChainTokens(ctx context.Context, chainID int64) ([]Token, error) {
	return c.Search(ctx, "", chainID)
}

// SupportedChains returns the chain IDs present in the list, ascending.
func (c *Client) SupportedChains(ctx context.Context) ([]int64, error) {
	list, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	for _, token := range list.Tokens {
		seen[token.ChainID] = struct{}{}
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

package chains_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt"

	"github.com/foundrykit/foundry-mcp/internal/infrastructure/chains"
)

func newTestLogger() *bolt.Logger {
	return bolt.New(bolt.NewJSONHandler(io.Discard))
}

const directoryJSON = `[
  {
    "name": "Ethereum Mainnet",
    "chain": "ETH",
    "chainId": 1,
    "shortName": "eth",
    "nativeCurrency": {"name": "Ether", "symbol": "ETH", "decimals": 18},
    "rpc": [
      {"url": "https://eth.llamarpc.com", "tracking": "none"},
      {"url": "https://mainnet.infura.io/v3/${INFURA_API_KEY}"},
      {"url": "wss://eth.drpc.org"},
      "https://rpc.ankr.com/eth"
    ]
  },
  {
    "name": "OP Mainnet",
    "chain": "ETH",
    "chainId": 10,
    "shortName": "oeth",
    "nativeCurrency": {"name": "Ether", "symbol": "ETH", "decimals": 18},
    "rpc": [{"url": "https://mainnet.optimism.io"}]
  },
  {
    "name": "Localtest",
    "chain": "TEST",
    "chainId": 31337,
    "shortName": "local",
    "nativeCurrency": {"name": "Ether", "symbol": "ETH", "decimals": 18},
    "rpc": [{"url": "http://127.0.0.1:8545"}]
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *chains.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return chains.NewClient(chains.Config{
		URL:          srv.URL,
		CacheTTL:     time.Minute,
		FetchTimeout: 2 * time.Second,
		MaxAttempts:  3,
	}, newTestLogger())
}

func serveDirectory(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(directoryJSON))
}

func TestClient_AllCachesResult(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		serveDirectory(w, r)
	})
	ctx := context.Background()

	first, err := client.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 chains, got %d", len(first))
	}

	if _, err := client.All(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", hits.Load())
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		serveDirectory(w, r)
	})

	chainsList, err := client.All(context.Background())
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if len(chainsList) != 3 {
		t.Errorf("expected 3 chains, got %d", len(chainsList))
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", hits.Load())
	}
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := client.All(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if hits.Load() != 1 {
		t.Errorf("expected a single attempt for a 404, got %d", hits.Load())
	}
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, serveDirectory)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"by name fragment", "mainnet", 2},
		{"by short name", "oeth", 1},
		{"case insensitive name", "ETHEREUM", 1},
		{"by chain id", "31337", 1},
		{"by network", "test", 1},
		{"no match", "unknownium", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Search(%q) returned %d chains, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestClient_SearchRPC(t *testing.T) {
	client := newTestClient(t, serveDirectory)

	rpcs, err := client.SearchRPC(context.Background(), "eth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	urls, ok := rpcs["Ethereum Mainnet (1)"]
	if !ok {
		t.Fatalf("expected mainnet entry, got %v", rpcs)
	}

	// Templated and websocket endpoints are dropped, plain-string entries
	// survive.
	want := map[string]bool{
		"https://eth.llamarpc.com": true,
		"https://rpc.ankr.com/eth": true,
	}
	if len(urls) != len(want) {
		t.Fatalf("unexpected urls: %v", urls)
	}
	for _, u := range urls {
		if !want[u] {
			t.Errorf("unexpected url %q", u)
		}
	}
}

func TestClient_ListPopular(t *testing.T) {
	client := newTestClient(t, serveDirectory)

	popular, err := client.ListPopular(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only mainnet and OP mainnet are in the fixture's popular set; the
	// local chain is not.
	if len(popular) != 2 {
		t.Fatalf("expected 2 popular chains, got %d", len(popular))
	}
	if popular[0].ChainID != 1 || popular[1].ChainID != 10 {
		t.Errorf("expected fixed order [1 10], got [%d %d]", popular[0].ChainID, popular[1].ChainID)
	}
}

package etherscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/cache"
	"bondfeed/internal/fault"
	"bondfeed/internal/provider"
	"bondfeed/internal/retry"
)

const usdc = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

func newAdapter(t *testing.T, handler http.HandlerFunc) (*Adapter, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	deps := provider.Deps{
		Cache: cache.New(cache.Options{}, zerolog.Nop()),
		Retry: retry.Policy{MaxAttempts: 2, Delay: time.Millisecond},
	}
	cfg := provider.Config{Enabled: true, APIKey: "key", BaseURL: server.URL, RateLimit: -1}
	return New(cfg, deps, zerolog.Nop()), calls
}

func TestFetchOneParsesBalance(t *testing.T) {
	adapter, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("module") != "account" || q.Get("action") != "balance" || q.Get("apikey") != "key" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":"1500000000000000000"}`))
	})

	holding, err := adapter.FetchOne(context.Background(), usdc)
	if err != nil {
		t.Fatalf("FetchOne returned error: %v", err)
	}
	if holding.Balance.Decimal.String() != "1.5" {
		t.Fatalf("expected balance 1.5, got %s", holding.Balance.Decimal)
	}
	if holding.ExplorerURL != "https://etherscan.io/address/0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48" {
		t.Fatalf("unexpected explorer url %s", holding.ExplorerURL)
	}
}

func TestFetchOneRateLimitIsQuota(t *testing.T) {
	adapter, calls := newAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Max rate limit reached"}`))
	})

	_, err := adapter.FetchOne(context.Background(), usdc)
	if fault.KindOf(err) != fault.KindQuota {
		t.Fatalf("expected quota error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestFetchOneInvalidKeyIsConfiguration(t *testing.T) {
	adapter, calls := newAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Invalid API Key"}`))
	})

	_, err := adapter.FetchOne(context.Background(), usdc)
	if fault.KindOf(err) != fault.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("configuration errors must not be retried, got %d calls", calls.Load())
	}
}

func TestFetchOneRejectsBadAddressWithoutCall(t *testing.T) {
	adapter, calls := newAdapter(t, func(http.ResponseWriter, *http.Request) {})

	_, err := adapter.FetchOne(context.Background(), "0x123")
	if fault.KindOf(err) != fault.KindShape {
		t.Fatalf("expected shape error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no request, got %d", calls.Load())
	}
}

func TestFetchOneMalformedBalance(t *testing.T) {
	adapter, _ := newAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":"lots"}`))
	})

	holding, err := adapter.FetchOne(context.Background(), usdc)
	if holding != nil || fault.KindOf(err) != fault.KindShape {
		t.Fatalf("expected shape error without value, got %v / %v", holding, err)
	}
}

func TestFallbackCarriesExplorerURL(t *testing.T) {
	adapter, _ := newAdapter(t, func(http.ResponseWriter, *http.Request) {})
	holding, ok := adapter.Fallback(usdc)
	if !ok || holding.Balance.Valid || holding.ExplorerURL == "" {
		t.Fatalf("unexpected fallback %+v", holding)
	}
}

package classifier

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// fakeLister returns a scripted coin listing and counts calls.
type fakeLister struct {
	coins []Coin
	err   error
	calls int
}

func (f *fakeLister) TopCoins(_ context.Context, _ int) ([]Coin, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.coins, nil
}

func newTestCache(t *testing.T, lister CoinLister) *CoinCache {
	t.Helper()
	return NewCoinCache(filepath.Join(t.TempDir(), "coins.json"), 24*time.Hour, 250, lister)
}

func TestCoinCache_FirstWinsOnSymbolCollision(t *testing.T) {
	// The listing is cap-descending, so the first entry for a symbol is
	// the largest-cap coin and must be the one retained.
	lister := &fakeLister{coins: []Coin{
		{Symbol: "X", Name: "BigX", MarketCap: 100},
		{Symbol: "X", Name: "SmallX", MarketCap: 50},
	}}
	cache := newTestCache(t, lister)

	coin, ok, err := cache.Lookup(context.Background(), "X", time.Now())
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected X to resolve")
	}
	if coin.MarketCap != 100 || coin.Name != "BigX" {
		t.Errorf("expected first entry to win, got %+v", coin)
	}
}

func TestCoinCache_RefreshesOnceWhileFresh(t *testing.T) {
	lister := &fakeLister{coins: []Coin{{Symbol: "BTC", Name: "Bitcoin", MarketCap: 1e12}}}
	cache := newTestCache(t, lister)
	now := time.Now()

	for i := 0; i < 5; i++ {
		if _, ok, err := cache.Lookup(context.Background(), "BTC", now); err != nil || !ok {
			t.Fatalf("lookup %d: ok=%v err=%v", i, ok, err)
		}
	}
	if lister.calls != 1 {
		t.Errorf("expected exactly 1 refresh while fresh, got %d", lister.calls)
	}

	// Past the TTL the cache refetches once more.
	later := now.Add(25 * time.Hour)
	if _, _, err := cache.Lookup(context.Background(), "BTC", later); err != nil {
		t.Fatalf("stale lookup: %v", err)
	}
	if lister.calls != 2 {
		t.Errorf("expected a refresh after TTL, got %d calls", lister.calls)
	}
}

func TestCoinCache_ServesStaleOnRefreshFailure(t *testing.T) {
	lister := &fakeLister{coins: []Coin{{Symbol: "ETH", Name: "Ethereum", MarketCap: 4e11}}}
	cache := newTestCache(t, lister)
	now := time.Now()

	if _, ok, _ := cache.Lookup(context.Background(), "ETH", now); !ok {
		t.Fatal("expected ETH to resolve after initial refresh")
	}

	lister.err = errors.New("upstream down")
	coin, ok, err := cache.Lookup(context.Background(), "ETH", now.Add(25*time.Hour))
	if err == nil {
		t.Error("expected refresh error to surface")
	}
	if !ok || coin.Name != "Ethereum" {
		t.Errorf("expected stale listing to keep serving, got ok=%v coin=%+v", ok, coin)
	}
}

func TestCoinCache_CachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coins.json")
	lister := &fakeLister{coins: []Coin{{Symbol: "SOL", Name: "Solana", MarketCap: 6e10}}}

	first := NewCoinCache(path, 24*time.Hour, 250, lister)
	if _, ok, err := first.Lookup(context.Background(), "SOL", time.Now()); err != nil || !ok {
		t.Fatalf("initial lookup failed: ok=%v err=%v", ok, err)
	}

	// A second instance reads the persisted document; no refetch needed.
	second := NewCoinCache(path, 24*time.Hour, 250, &fakeLister{err: errors.New("should not be called")})
	coin, ok, err := second.Lookup(context.Background(), "SOL", time.Now())
	if err != nil || !ok {
		t.Fatalf("persisted lookup failed: ok=%v err=%v", ok, err)
	}
	if coin.Name != "Solana" {
		t.Errorf("unexpected coin from persisted cache: %+v", coin)
	}
}

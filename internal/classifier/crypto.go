package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Coin is one entry of the ranked coin market listing.
type Coin struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	MarketCap float64 `json:"market_cap"`
}

// CoinLister fetches the top-N coins by market cap, descending.
type CoinLister interface {
	TopCoins(ctx context.Context, n int) ([]Coin, error)
}

// CoinGeckoLister fetches the ranked coin listing from CoinGecko.
type CoinGeckoLister struct {
	Client *http.Client
}

// NewCoinGeckoLister creates a coin lister with optional proxy support.
func NewCoinGeckoLister(timeout time.Duration, proxyURL string) *CoinGeckoLister {
	return &CoinGeckoLister{Client: newHTTPClient(timeout, proxyURL)}
}

// geckoMarket is one entry of the coins/markets response.
type geckoMarket struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	MarketCap float64 `json:"market_cap"`
}

func (g *CoinGeckoLister) TopCoins(ctx context.Context, n int) ([]Coin, error) {
	u := fmt.Sprintf("https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1", n)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coin list fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coin list fetch: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coin list read body: %w", err)
	}

	var markets []geckoMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("coin list decode: %w", err)
	}
	coins := make([]Coin, 0, len(markets))
	for _, m := range markets {
		coins = append(coins, Coin{
			Symbol:    strings.ToUpper(m.Symbol),
			Name:      m.Name,
			MarketCap: m.MarketCap,
		})
	}
	return coins, nil
}

// coinCacheDoc is the persisted cache layout.
type coinCacheDoc struct {
	TS    int64  `json:"ts"`
	Coins []Coin `json:"coins"`
}

// CoinCache holds the ranked coin listing, persisted to a JSON document
// and refreshed at most once per TTL. A failed refresh serves the stale
// listing rather than dropping crypto classification for the run.
type CoinCache struct {
	mu          sync.Mutex
	filePath    string
	ttl         time.Duration
	topN        int
	lister      CoinLister
	doc         coinCacheDoc
	bySymbol    map[string]Coin
	lastAttempt time.Time
}

// NewCoinCache creates a cache backed by the given document path.
// Missing or corrupt documents yield an empty cache, never an error.
func NewCoinCache(filePath string, ttl time.Duration, topN int, lister CoinLister) *CoinCache {
	c := &CoinCache{filePath: filePath, ttl: ttl, topN: topN, lister: lister}
	if data, err := os.ReadFile(filePath); err == nil {
		var doc coinCacheDoc
		if err := json.Unmarshal(data, &doc); err == nil {
			c.doc = doc
		}
	}
	c.reindex()
	return c
}

// reindex builds the symbol lookup. The listing is cap-descending, so
// first entry wins for colliding symbols.
func (c *CoinCache) reindex() {
	c.bySymbol = make(map[string]Coin, len(c.doc.Coins))
	for _, coin := range c.doc.Coins {
		if _, seen := c.bySymbol[coin.Symbol]; !seen {
			c.bySymbol[coin.Symbol] = coin
		}
	}
}

// Lookup resolves a ticker against the cached listing, refreshing the
// cache first if it has gone stale. The returned error reports a failed
// refresh; a lookup miss alone is not an error.
func (c *CoinCache) Lookup(ctx context.Context, ticker string, now time.Time) (Coin, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// One refetch attempt per staleness episode; a failed attempt is
	// not retried for an hour, so a dead upstream can't be hammered
	// once per candidate ticker.
	var refreshErr error
	if c.stale(now) && now.Sub(c.lastAttempt) >= time.Hour {
		c.lastAttempt = now
		refreshErr = c.refresh(ctx, now)
	}
	coin, ok := c.bySymbol[strings.ToUpper(ticker)]
	return coin, ok, refreshErr
}

func (c *CoinCache) stale(now time.Time) bool {
	if len(c.doc.Coins) == 0 {
		return true
	}
	return now.Unix()-c.doc.TS > int64(c.ttl.Seconds())
}

func (c *CoinCache) refresh(ctx context.Context, now time.Time) error {
	coins, err := c.lister.TopCoins(ctx, c.topN)
	if err != nil {
		return err
	}
	c.doc = coinCacheDoc{TS: now.Unix(), Coins: coins}
	c.reindex()

	data, err := json.MarshalIndent(&c.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal coin cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return fmt.Errorf("mkdir coin cache dir: %w", err)
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return fmt.Errorf("write coin cache: %w", err)
	}
	return nil
}

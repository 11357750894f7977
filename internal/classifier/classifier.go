package classifier

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"TickerRadar/internal/model"
)

const maxDescriptionLen = 240

// Rules holds the classification thresholds, sourced from config.
type Rules struct {
	Exchanges         []string
	MinCap            float64
	MaxCap            float64
	RequireOptionable bool
}

// Classifier resolves a ticker to asset metadata: stock validation
// first, crypto fallback, otherwise rejected. Lookups are paced by a
// shared rate limiter so a large candidate set can't hammer upstreams.
type Classifier struct {
	profiles  ProfileClient
	options   OptionsClient
	coins     *CoinCache
	limiter   *rate.Limiter
	rules     Rules
	exchanges map[string]struct{}
}

// New creates a Classifier.
func New(profiles ProfileClient, options OptionsClient, coins *CoinCache, lookupsPerSecond float64, rules Rules) *Classifier {
	ex := make(map[string]struct{}, len(rules.Exchanges))
	for _, e := range rules.Exchanges {
		ex[e] = struct{}{}
	}
	return &Classifier{
		profiles:  profiles,
		options:   options,
		coins:     coins,
		limiter:   rate.NewLimiter(rate.Limit(lookupsPerSecond), 1),
		rules:     rules,
		exchanges: ex,
	}
}

// Classify resolves one ticker. found=false means the ticker was
// rejected; a non-nil error additionally flags that an upstream was
// unavailable, so the caller can log the data-quality gap. Repeated
// calls with the same upstream data give the same answer.
func (c *Classifier) Classify(ctx context.Context, ticker string) (model.AssetInfo, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.AssetInfo{}, false, err
	}

	info, found, stockErr := c.classifyStock(ctx, ticker)
	if found {
		return info, true, nil
	}

	coin, ok, cryptoErr := c.coins.Lookup(ctx, ticker, time.Now())
	if ok {
		return model.AssetInfo{
			Type:      model.AssetCrypto,
			Ticker:    ticker,
			Name:      coin.Name,
			MarketCap: coin.MarketCap,
		}, true, nil
	}

	if stockErr != nil {
		return model.AssetInfo{}, false, stockErr
	}
	return model.AssetInfo{}, false, cryptoErr
}

func (c *Classifier) classifyStock(ctx context.Context, ticker string) (model.AssetInfo, bool, error) {
	prof, found, err := c.profiles.Profile(ctx, ticker)
	if err != nil || !found {
		return model.AssetInfo{}, false, err
	}

	if _, ok := c.exchanges[prof.Exchange]; !ok {
		return model.AssetInfo{}, false, nil
	}
	if prof.MarketCap <= 0 || prof.MarketCap > c.rules.MaxCap {
		return model.AssetInfo{}, false, nil
	}
	if c.rules.MinCap > 0 && prof.MarketCap < c.rules.MinCap {
		return model.AssetInfo{}, false, nil
	}
	if c.rules.RequireOptionable {
		optionable, err := c.options.Optionable(ctx, ticker)
		if err != nil {
			return model.AssetInfo{}, false, err
		}
		if !optionable {
			return model.AssetInfo{}, false, nil
		}
	}

	name := prof.Name
	if name == "" {
		name = ticker
	}
	desc := prof.Description
	if len(desc) > maxDescriptionLen {
		desc = desc[:maxDescriptionLen]
	}
	return model.AssetInfo{
		Type:        model.AssetStock,
		Ticker:      ticker,
		Name:        name,
		MarketCap:   prof.MarketCap,
		Description: desc,
	}, true, nil
}

// newHTTPClient builds a client with the lookup timeout and optional
// proxy support.
func newHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

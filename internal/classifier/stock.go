package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StockProfile is the subset of an asset profile the classifier needs.
type StockProfile struct {
	Ticker      string
	Name        string
	Exchange    string
	MarketCap   float64
	Description string
}

// ProfileClient looks up stock profile metadata by ticker.
// found=false with a nil error is a plain "no such listing".
type ProfileClient interface {
	Profile(ctx context.Context, ticker string) (*StockProfile, bool, error)
}

// FMPClient fetches profiles from the Financial Modeling Prep API.
// With no API key the client is permanently unavailable and every
// lookup degrades to "not found" without touching the network.
type FMPClient struct {
	APIKey string
	Client *http.Client
}

// NewFMPClient creates a profile client with optional proxy support.
func NewFMPClient(apiKey string, timeout time.Duration, proxyURL string) *FMPClient {
	return &FMPClient{
		APIKey: apiKey,
		Client: newHTTPClient(timeout, proxyURL),
	}
}

// Available reports whether the profile source is usable at all.
func (f *FMPClient) Available() bool { return f.APIKey != "" }

// fmpProfile is one entry of the FMP profile response array.
type fmpProfile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	ExchangeShortName string  `json:"exchangeShortName"`
	MktCap            float64 `json:"mktCap"`
	Description       string  `json:"description"`
}

func (f *FMPClient) Profile(ctx context.Context, ticker string) (*StockProfile, bool, error) {
	if f.APIKey == "" {
		return nil, false, nil
	}
	u := fmt.Sprintf("https://financialmodelingprep.com/api/v3/profile/%s?apikey=%s",
		url.PathEscape(ticker), url.QueryEscape(f.APIKey))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("profile fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("profile fetch: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("profile read body: %w", err)
	}

	var profiles []fmpProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, false, fmt.Errorf("profile decode: %w", err)
	}
	if len(profiles) == 0 {
		return nil, false, nil
	}
	p := profiles[0]
	return &StockProfile{
		Ticker:      ticker,
		Name:        p.CompanyName,
		Exchange:    p.ExchangeShortName,
		MarketCap:   p.MktCap,
		Description: p.Description,
	}, true, nil
}

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

// OptionsClient reports whether a ticker has a live options chain.
type OptionsClient interface {
	Optionable(ctx context.Context, ticker string) (bool, error)
}

// YahooOptionsClient checks for listed option expirations via the
// Yahoo Finance options endpoint.
type YahooOptionsClient struct {
	Client *http.Client
}

// NewYahooOptionsClient creates an options client with optional proxy support.
func NewYahooOptionsClient(timeout time.Duration, proxyURL string) *YahooOptionsClient {
	return &YahooOptionsClient{Client: newHTTPClient(timeout, proxyURL)}
}

// yahooOptions is the response shape of the options chain endpoint.
type yahooOptions struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
		} `json:"result"`
	} `json:"optionChain"`
}

func (y *YahooOptionsClient) Optionable(ctx context.Context, ticker string) (bool, error) {
	u := fmt.Sprintf("https://query2.finance.yahoo.com/v7/finance/options/%s", url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := y.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("options fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("options fetch: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("options read body: %w", err)
	}

	var chain yahooOptions
	if err := json.Unmarshal(body, &chain); err != nil {
		return false, fmt.Errorf("options decode: %w", err)
	}
	if len(chain.OptionChain.Result) == 0 {
		return false, nil
	}
	return len(chain.OptionChain.Result[0].ExpirationDates) > 0, nil
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// CatalogSource scans an imageboard catalog: every thread's subject and
// body text on every page.
type CatalogSource struct {
	URL    string
	Client *http.Client
}

// NewCatalogSource creates a catalog source with optional proxy support.
func NewCatalogSource(catalogURL string, timeout time.Duration, proxyURL string) *CatalogSource {
	return &CatalogSource{
		URL:    catalogURL,
		Client: newHTTPClient(timeout, proxyURL),
	}
}

func (c *CatalogSource) Name() string { return "catalog" }

// catalogPage is one page of the catalog JSON.
type catalogPage struct {
	Threads []struct {
		No      int64  `json:"no"`
		Replies int    `json:"replies"`
		LastMod int64  `json:"last_modified"`
		Sub     string `json:"sub"`
		Com     string `json:"com"`
	} `json:"threads"`
}

// Fetch returns one text per thread: subject plus body, HTML stripped.
func (c *CatalogSource) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog read body: %w", err)
	}

	var pages []catalogPage
	if err := json.Unmarshal(body, &pages); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}

	var texts []string
	for _, page := range pages {
		for _, t := range page.Threads {
			text := strings.TrimSpace(StripHTML(t.Sub) + " " + StripHTML(t.Com))
			if text != "" {
				texts = append(texts, text)
			}
		}
	}
	return texts, nil
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// StripHTML converts post markup to plain text: <br> becomes a newline,
// remaining tags are dropped, entities are unescaped.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ForumSource scans a forum-style listing endpoint: post titles only.
type ForumSource struct {
	Label  string
	URL    string
	Client *http.Client
}

// NewForumSource creates a forum listing source with optional proxy support.
func NewForumSource(label, listingURL string, timeout time.Duration, proxyURL string) *ForumSource {
	return &ForumSource{
		Label:  label,
		URL:    listingURL,
		Client: newHTTPClient(timeout, proxyURL),
	}
}

func (f *ForumSource) Name() string { return f.Label }

// forumListing is the expected JSON shape of the listing endpoint.
type forumListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title string `json:"title"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch returns one text per post title.
func (f *ForumSource) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forum fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forum fetch: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("forum read body: %w", err)
	}

	var listing forumListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("forum decode: %w", err)
	}

	var texts []string
	for _, child := range listing.Data.Children {
		if child.Data.Title != "" {
			texts = append(texts, child.Data.Title)
		}
	}
	return texts, nil
}

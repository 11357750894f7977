package source

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Source fetches raw text bodies to scan for ticker mentions.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]string, error)
}

// newHTTPClient builds a client with the run's fetch timeout and
// optional proxy support.
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

// Package fetch retrieves raw storefront markup. The fetcher is opaque to
// the rest of the system: it either returns markup or a classified error,
// and is never assumed to return well-formed HTML.
package fetch

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// Fetcher retrieves the markup behind one URL. Implementations must be
// safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// CollyFetcher fetches pages over plain HTTP with a shared pooled
// transport. A fresh collector is built per call; collectors are cheap and
// per-call state (response body, error) stays exclusively owned.
type CollyFetcher struct {
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
}

// NewCollyFetcher builds an HTTP fetcher with the given identity and
// per-request timeout.
func NewCollyFetcher(userAgent string, timeout time.Duration) *CollyFetcher {
	return &CollyFetcher{
		userAgent: userAgent,
		timeout:   timeout,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// WithTransport overrides the HTTP transport. Used by tests to inject a
// mock transport.
func (f *CollyFetcher) WithTransport(rt http.RoundTripper) *CollyFetcher {
	f.transport = rt
	return f
}

// Fetch issues a single GET for url and returns the response body. Non-2xx
// statuses, network failures, and timeouts come back as classified errors.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.SetRequestTimeout(f.timeout)
	c.WithTransport(f.transport)
	c.IgnoreRobotsTxt = true

	var (
		body     string
		status   int
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Visit(url); err != nil && fetchErr == nil {
			fetchErr = err
		}
		c.Wait()
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-done:
	}

	if fetchErr != nil {
		return "", Classify(fetchErr, status)
	}
	return body, nil
}

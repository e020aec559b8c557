package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"golang.org/x/time/rate"
)

// ErrTooLarge means the body exceeded the configured limit.
var ErrTooLarge = errors.New("document exceeds size limit")

// StatusError reports a non-200 response from the document source.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Resource is a fetched document body.
type Resource struct {
	URL         string
	Filename    string // Last path segment, used to pick a parser.
	ContentType string // Media type without parameters.
	Data        []byte
}

// Client downloads documents over HTTP(S).
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	maxBytes   int64
}

// NewClient builds a Client. perSecond <= 0 disables throttling.
func NewClient(timeout time.Duration, maxBytes int64, perSecond float64) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), max(int(perSecond), 1))
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		maxBytes:   maxBytes,
	}
}

// Fetch GETs rawURL. Any status other than 200 is a *StatusError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", rawURL)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch throttled: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/pdf, text/html;q=0.9, text/plain;q=0.8, */*;q=0.5")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: u.Redacted(), StatusCode: resp.StatusCode}
	}

	body := io.Reader(resp.Body)
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, c.maxBytes)
	}

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}

	filename := path.Base(u.Path)
	if filename == "." || filename == "/" {
		filename = u.Hostname()
	}

	return &Resource{
		URL:         u.String(),
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

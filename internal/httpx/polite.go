package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; FundedList/1.0)"
	maxBodyBytes     = 16 << 20
	maxAttempts      = 3
)

// PoliteClient enforces per-host rate limits, robots.txt rules and retries on
// 429/5xx. Used for JSON APIs and feeds; HTML pages go through CollyFetcher.
type PoliteClient struct {
	client      *http.Client
	ua          string
	every       time.Duration
	burst       int
	limiters    map[string]*rate.Limiter
	robotsCache map[string]*robotstxt.RobotsData
	mu          sync.Mutex
}

func NewPoliteClient(userAgent string) *PoliteClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &PoliteClient{
		client:      &http.Client{Timeout: 15 * time.Second},
		ua:          userAgent,
		every:       time.Second,
		burst:       2,
		limiters:    map[string]*rate.Limiter{},
		robotsCache: map[string]*robotstxt.RobotsData{},
	}
}

// WithRate changes the per-host budget for hosts not yet contacted.
func (p *PoliteClient) WithRate(every time.Duration, burst int) *PoliteClient {
	if every > 0 && burst > 0 {
		p.every = every
		p.burst = burst
	}
	return p
}

func (p *PoliteClient) WithTimeout(d time.Duration) *PoliteClient {
	if d > 0 {
		p.client.Timeout = d
	}
	return p
}

func (p *PoliteClient) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(p.every), p.burst)
	p.limiters[host] = l
	return l
}

// NewRequest builds a GET request, defaulting the scheme to https.
func NewRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	if rawURL == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
}

// GetBytes fetches rawURL and returns the body of a 2xx response.
func (p *PoliteClient) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := NewRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	resp, err := p.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Status: resp.StatusCode, Err: err}
	}
	return body, nil
}

// GetJSON fetches rawURL and decodes the body into v.
func (p *PoliteClient) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := p.GetBytes(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode failed for %s: %w: %w", rawURL, ErrMalformed, err)
	}
	return nil
}

func (p *PoliteClient) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	host := u.Host
	p.mu.Lock()
	if data, ok := p.robotsCache[host]; ok {
		p.mu.Unlock()
		return data, nil
	}
	p.mu.Unlock()

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.ua)

	if err := p.limiterFor(host).Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.robotsCache[host] = data
	p.mu.Unlock()
	return data, nil
}

// Do executes a GET or HEAD request respecting robots.txt and rate limits.
func (p *PoliteClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if !strings.EqualFold(req.Method, http.MethodGet) && !strings.EqualFold(req.Method, http.MethodHead) {
		return nil, fmt.Errorf("polite client: method %s not allowed", req.Method)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", p.ua)
	}

	u := req.URL
	if u.Scheme == "" {
		u.Scheme = "https"
	}

	if !p.allowed(ctx, u) {
		return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, u)
	}

	limiter := p.limiterFor(u.Host)

	var lastErr error
	status := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if shouldBackoff(resp.StatusCode) {
			status = resp.StatusCode
			lastErr = fmt.Errorf("retryable status %d", resp.StatusCode)
			resp.Body.Close()
			if err := sleepWithContext(ctx, backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = errors.New("polite client: failed without error")
	}
	return nil, &FetchError{URL: u.String(), Status: status, Err: lastErr}
}

func (p *PoliteClient) allowed(ctx context.Context, u *url.URL) bool {
	data, err := p.robotsFor(ctx, u)
	if err != nil {
		return true // fail open
	}
	group := data.FindGroup(p.ua)
	if group == nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Duration(500*(1<<attempt)) * time.Millisecond
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

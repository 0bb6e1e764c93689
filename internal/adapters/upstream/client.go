// Package upstream is the single outbound path to the statistics provider.
// Every request goes through one shared pacing limiter, a bounded retry loop
// and a per-source circuit breaker.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
	"github.com/benitoschiffler/nba-props-lab/pkg/metrics"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultAttempts       = 3
	defaultBackoffBase    = time.Second
	defaultBackoffMax     = 8 * time.Second
	defaultPace           = 600 * time.Millisecond
	defaultBreakerTimeout = 30 * time.Second
	maxBodyBytes          = 16 << 20

	// breaker trips once it has seen this many calls and the failure ratio is reached
	breakerMinRequests  = 3
	breakerFailureRatio = 0.6
)

// Client issues paced, retried GET requests.
type Client struct {
	http           *http.Client
	limiter        *rate.Limiter
	headers        http.Header
	attempts       int
	backoffBase    time.Duration
	backoffMax     time.Duration
	breakerTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
	log            logger.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:           &http.Client{Timeout: defaultTimeout},
		limiter:        rate.NewLimiter(rate.Every(defaultPace), 1),
		headers:        http.Header{},
		attempts:       defaultAttempts,
		backoffBase:    defaultBackoffBase,
		backoffMax:     defaultBackoffMax,
		breakerTimeout: defaultBreakerTimeout,
		sleep:          sleepCtx,
		log:            logger.Nop(),
		breakers:       make(map[string]*gobreaker.CircuitBreaker),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches rawURL with query for the named source and returns the body.
// Once a request is on the wire it is bounded only by the client timeout;
// cancelling ctx stops further waits and retries, not the request itself.
func (c *Client) Get(ctx context.Context, source, rawURL string, query url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: bad url: %v", ErrUpstreamUnavailable, source, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	out, err := c.breaker(source).Execute(func() (interface{}, error) {
		return c.withRetry(ctx, source, u.String())
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, source)
		}
		return nil, err
	}
	return out.([]byte), nil
}

func (c *Client) withRetry(ctx context.Context, source, target string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			metrics.RecordUpstreamRetry(source)
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, source, err)
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, source, err)
		}

		body, err := c.do(ctx, source, target)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			break
		}
		c.log.Warn(ctx, "upstream attempt failed",
			logger.String("upstream", source),
			logger.Int("attempt", attempt+1),
			logger.Error(err))
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, source, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, source, err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordUpstreamRequest(source, "transport_error", latency)
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		metrics.RecordUpstreamRequest(source, "status_"+strconv.Itoa(resp.StatusCode), latency)
		return nil, &StatusError{Source: source, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordUpstreamRequest(source, "read_error", latency)
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrUpstreamUnavailable, source, err)
	}
	metrics.RecordUpstreamRequest(source, "ok", latency)
	return body, nil
}

// backoff is base * 2^(attempt-1), capped.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.backoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.backoffMax {
			return c.backoffMax
		}
	}
	return min(d, c.backoffMax)
}

func (c *Client) breaker(source string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := c.breakers[source]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    source,
		Timeout: c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && failureRatio >= breakerFailureRatio
		},
		// A clean 4xx means the source is up; it just has nothing for us.
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return !se.Retryable()
			}
			return err == nil
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.UpdateBreakerState(name, breakerGauge(to))
			c.log.Warn(context.Background(), "circuit breaker state changed",
				logger.String("upstream", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	c.breakers[source] = cb
	metrics.UpdateBreakerState(source, metrics.BreakerClosed)
	return cb
}

// BreakerState returns the breaker state for a source that has been used.
func (c *Client) BreakerState(source string) gobreaker.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := c.breakers[source]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}

func breakerGauge(s gobreaker.State) int {
	switch s {
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	default:
		return metrics.BreakerClosed
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

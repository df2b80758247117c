package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"asset-sync/core/metrics"
	"asset-sync/core/models"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// StatusError is returned for non-2xx vendor responses.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vendor returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Temporary reports whether retrying later may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Requester performs authenticated GET requests against vendor APIs.
// Each connection gets its own circuit breaker and token bucket, so a failing
// vendor tenant does not throttle the others.
type Requester struct {
	client *http.Client
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	breakers map[uint]*gobreaker.CircuitBreaker[[]byte]
	limiters map[uint]*rate.Limiter
}

// NewRequester creates a Requester. The per-call timeout comes from the connection.
func NewRequester(cfg Config, logger *zap.Logger) *Requester {
	def := DefaultConfig()
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = def.RateBurst
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerTimeoutSeconds <= 0 {
		cfg.BreakerTimeoutSeconds = def.BreakerTimeoutSeconds
	}

	return &Requester{
		client:   &http.Client{},
		cfg:      cfg,
		logger:   logger,
		breakers: make(map[uint]*gobreaker.CircuitBreaker[[]byte]),
		limiters: make(map[uint]*rate.Limiter),
	}
}

// MaxPages returns the configured pagination cap.
func (r *Requester) MaxPages() int {
	return r.cfg.MaxPages
}

// Get fetches path (relative to the connection base URL, or absolute) and decodes the JSON body.
func (r *Requester) Get(ctx context.Context, conn *models.Connection, path string, query url.Values, auth Auth) (any, error) {
	target, err := ResolveURL(conn.BaseURL, path, query)
	if err != nil {
		return nil, err
	}

	if err := r.limiter(conn.ID).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := r.breaker(conn).Execute(func() ([]byte, error) {
		return r.do(ctx, conn, target, auth)
	})
	if err != nil {
		return nil, err
	}

	var out any
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", redact(target), err)
	}
	return out, nil
}

func (r *Requester) do(ctx context.Context, conn *models.Connection, target string, auth Auth) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, conn.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range conn.Settings.Headers {
		req.Header.Set(k, v)
	}
	if auth != nil {
		if err := auth(req); err != nil {
			return nil, err
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(conn.ProviderKey, "error").Inc()
		return nil, fmt.Errorf("request to %s failed: %w", redact(target), err)
	}
	defer resp.Body.Close()

	metrics.ProviderRequestsTotal.WithLabelValues(conn.ProviderKey, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        redact(target),
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", redact(target), err)
	}
	return body, nil
}

func (r *Requester) limiter(connectionID uint) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[connectionID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(r.cfg.RateLimit), r.cfg.RateBurst)
		r.limiters[connectionID] = l
	}
	return l
}

func (r *Requester) breaker(conn *models.Connection) *gobreaker.CircuitBreaker[[]byte] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[conn.ID]; ok {
		return cb
	}

	name := fmt.Sprintf("%s:%d", conn.ProviderKey, conn.ID)
	threshold := r.cfg.BreakerFailures
	logger := r.logger.With(zap.String("breaker", name))

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     time.Duration(r.cfg.BreakerTimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Client errors mean bad credentials or paths, not an unhealthy vendor.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			return errors.As(err, &se) && !se.Temporary()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	r.breakers[conn.ID] = cb
	metrics.BreakerState.WithLabelValues(name).Set(0)
	return cb
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// ErrForeignHost is returned for vendor links that leave the connection's host.
var ErrForeignHost = errors.New("vendor link points outside the connection host")

// ResolveURL joins base and path, or returns path as-is when it is already
// absolute (vendor next-page links). Absolute links must stay on the host and
// scheme of base, since requests to them carry the connection's credentials.
// Query values are merged into the result.
func ResolveURL(base, path string, query url.Values) (string, error) {
	if base == "" {
		return "", errors.New("connection has no base URL")
	}

	absolute := strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
	raw := path
	if !absolute {
		raw = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid vendor URL %q: %w", raw, err)
	}
	if absolute {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid base URL %q: %w", base, err)
		}
		if !strings.EqualFold(u.Host, b.Host) || !strings.EqualFold(u.Scheme, b.Scheme) {
			return "", fmt.Errorf("%w: %s", ErrForeignHost, redact(raw))
		}
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			q.Del(k)
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// redact drops the query string, which some vendors use for tokens.
func redact(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

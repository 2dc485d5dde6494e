package dealerfast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

// HeaderProvider allows injecting per-request headers.
type HeaderProvider func() map[string]string

// Client talks to the dealer service's REST surface under /api/game.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	headers HeaderProvider

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func WithHeaderProvider(h HeaderProvider) Option {
	return func(c *Client) { c.headers = h }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 64},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health probes the dealer's liveness endpoint (outside the /api/game base).
func (c *Client) Health(ctx context.Context) (*pokerdto.HealthResponse, error) {
	var resp pokerdto.HealthResponse
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/health", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NewHand asks the dealer to deal a fresh hand with the given seating.
func (c *Client) NewHand(ctx context.Context, hero, villain string) (*pokerdto.GameState, error) {
	req := pokerdto.NewHandRequest{HeroPosition: hero, VillainPosition: villain}
	var state pokerdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/game/new", req, &state, false); err != nil {
		return nil, err
	}
	return &state, nil
}

// State fetches the current authoritative snapshot.
func (c *Client) State(ctx context.Context) (*pokerdto.GameState, error) {
	var state pokerdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/game/state", nil, &state, true); err != nil {
		return nil, err
	}
	return &state, nil
}

// Advance asks the dealer to compute and apply exactly one computer decision.
// Never retried: a failed advance is abandoned and the next authoritative
// snapshot supersedes it.
func (c *Client) Advance(ctx context.Context) (*pokerdto.AdvanceResult, error) {
	var result pokerdto.AdvanceResult
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/game/computer-action", nil, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// Act forwards a human action. Rejections come back as *pokerdto.DealerError
// with the dealer's reason; the client does not pre-validate.
func (c *Client) Act(ctx context.Context, action string, amount int) (*pokerdto.GameState, error) {
	req := pokerdto.HumanActionRequest{Action: action, Amount: amount}
	var state pokerdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/game/action", req, &state, false); err != nil {
		return nil, err
	}
	return &state, nil
}

// Reset deals a new hand with the same seating as the current one.
func (c *Client) Reset(ctx context.Context) (*pokerdto.GameState, error) {
	var state pokerdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/game/reset", struct{}{}, &state, false); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any, retry bool) error {
	url := c.baseURL + path
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	req.Header.SetContentType("application/json")

	if c.headers != nil {
		for k, v := range c.headers() {
			if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
				req.Header.Set(k, v)
			}
		}
	}

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry {
		attempts = c.retryMax
		if attempts <= 0 {
			attempts = 1
		}
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		deadline := c.computeDeadline(ctx)
		err := c.http.DoDeadline(req, resp, deadline)
		if err != nil {
			if attempt == attempts || !retry {
				return fmt.Errorf("dealer request failed: %w", err)
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			err := dealerError(status, resp.Body())
			if attempt == attempts || !retry || !shouldRetryStatus(status) {
				return err
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

// dealerError shapes a non-2xx response into a DealerError, pulling the
// {"error": "..."} reason out of the body when the dealer provides one.
func dealerError(status int, body []byte) error {
	msg := ""
	var eb pokerdto.ErrorBody
	if json.Unmarshal(body, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
		msg = eb.Error
	} else {
		msg = truncate(string(body), 512)
	}
	return &pokerdto.DealerError{Status: status, Message: msg, Retryable: shouldRetryStatus(status)}
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		clientDL := time.Now().Add(c.defaultTimeout)
		if dl.Before(clientDL) {
			return dl
		}
		return clientDL
	}
	return time.Now().Add(c.defaultTimeout)
}

func (c *Client) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base // 100ms, 200ms ...
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

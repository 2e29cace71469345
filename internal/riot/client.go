package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	// DefaultRegion is the routing region for account and match endpoints.
	DefaultRegion = "europe"

	// DefaultMaxAttempts caps every retry loop. The original retried some
	// calls forever; a cap with an explicit exhausted error replaces that.
	DefaultMaxAttempts = 5

	// DefaultRetryDelay is the fixed wait after an unexpected status.
	DefaultRetryDelay = 5 * time.Second

	// DefaultRetryAfter is the 429 backoff when the server sends no
	// Retry-After header.
	DefaultRetryAfter = 10 * time.Second

	// DefaultResolveBackoff is the one long wait on a rate-limited
	// identity lookup before its single retry.
	DefaultResolveBackoff = 121 * time.Second
)

// ClientConfig configures a Client. The API key and logger are injected at
// construction; nothing is read from ambient process state.
type ClientConfig struct {
	APIKey     string
	Region     string
	BaseURL    string // overrides region routing, used by tests
	HTTPClient *http.Client
	Logger     *zap.SugaredLogger

	MaxAttempts int
	RetryDelay  time.Duration
	RetryAfter  time.Duration

	// ResolveBackoff is the single long wait after a 429 on identity
	// resolution. Defaults to 121s, just past the dev-key 2 minute window.
	ResolveBackoff time.Duration
}

// Client issues requests against the Riot REST API. The key travels as the
// api_key query parameter on every call.
type Client struct {
	apiKey         string
	baseURL        string
	httpClient     *http.Client
	log            *zap.SugaredLogger
	maxAttempts    int
	retryDelay     time.Duration
	retryAfter     time.Duration
	resolveBackoff time.Duration
}

// NewClient creates a Riot API client from cfg.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("riot: api key is required")
	}

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.api.riotgames.com", region)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	retryAfter := cfg.RetryAfter
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}
	resolveBackoff := cfg.ResolveBackoff
	if resolveBackoff <= 0 {
		resolveBackoff = DefaultResolveBackoff
	}

	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		httpClient:     httpClient,
		log:            log,
		maxAttempts:    maxAttempts,
		retryDelay:     retryDelay,
		retryAfter:     retryAfter,
		resolveBackoff: resolveBackoff,
	}, nil
}

// response is one raw API exchange.
type response struct {
	status     int
	body       []byte
	retryAfter time.Duration
}

// doOnce issues a single GET to path with query, attaching the API key.
func (c *Client) doOnce(ctx context.Context, path string, query url.Values) (*response, error) {
	u := c.baseURL + path
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.apiKey)
	u += "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := &response{status: resp.StatusCode, body: body, retryAfter: c.retryAfter}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
			out.retryAfter = time.Duration(secs) * time.Second
		}
	}
	return out, nil
}

// get runs doOnce under the capped retry policy and decodes a 200 body into
// out. 429 waits for the server-provided (or default) backoff; other
// non-200 statuses wait retryDelay. 401/403 and 404 are terminal.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.doOnce(ctx, path, query)
		if err != nil {
			return err
		}

		switch {
		case resp.status == http.StatusOK:
			if err := json.Unmarshal(resp.body, out); err != nil {
				c.log.Errorw("undecodable response body",
					"path", path, "body", string(resp.body))
				return errors.Wrapf(err, "riot: decode %s", path)
			}
			return nil

		case resp.status == http.StatusTooManyRequests:
			c.log.Warnw("rate limited, backing off",
				"path", path, "wait", resp.retryAfter, "attempt", attempt)
			if err := sleepCtx(ctx, resp.retryAfter); err != nil {
				return err
			}

		case resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden:
			return errors.Wrapf(ErrUnauthorized, "riot: %s returned %d", path, resp.status)

		case resp.status == http.StatusNotFound:
			return errors.Wrapf(ErrNotFound, "riot: %s returned 404", path)

		default:
			c.log.Warnw("unexpected status, retrying",
				"path", path, "status", resp.status, "attempt", attempt)
			if err := sleepCtx(ctx, c.retryDelay); err != nil {
				return err
			}
		}
	}
	return errors.Wrapf(ErrRetryExhausted, "riot: %s after %d attempts", path, c.maxAttempts)
}

// sleepCtx blocks for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package riot

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// Status endpoint is the cheapest authenticated call available.
	statusEndpoint = "/lol/status/v4/platform-data"

	defaultPlatformURL  = "https://euw1.api.riotgames.com"
	defaultCheckTimeout = 10 * time.Second
)

// KeyCheck probes whether an API key is accepted before the pipeline
// spends any quota on it.
type KeyCheck struct {
	httpClient *http.Client
	baseURL    string
}

// KeyCheckOption configures a KeyCheck.
type KeyCheckOption func(*KeyCheck)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) KeyCheckOption {
	return func(k *KeyCheck) {
		k.baseURL = url
	}
}

// WithTimeout sets a custom timeout for the probe request.
func WithTimeout(timeout time.Duration) KeyCheckOption {
	return func(k *KeyCheck) {
		k.httpClient.Timeout = timeout
	}
}

// NewKeyCheck creates a KeyCheck with the given options.
func NewKeyCheck(opts ...KeyCheckOption) *KeyCheck {
	k := &KeyCheck{
		httpClient: &http.Client{
			Timeout: defaultCheckTimeout,
		},
		baseURL: defaultPlatformURL,
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

// Check probes the status endpoint with apiKey. Returns:
//   - (true, nil) if the key is accepted
//   - (false, nil) if the key is rejected (401/403)
//   - (false, error) if the probe itself failed (key validity unknown)
func (k *KeyCheck) Check(ctx context.Context, apiKey string) (bool, error) {
	if apiKey == "" {
		return false, errors.New("api key cannot be empty")
	}

	url := k.baseURL + statusEndpoint + "?api_key=" + apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, errors.Wrap(err, "build probe request")
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "probe request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil

	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil

	default:
		return false, errors.Newf("unexpected status code: %d", resp.StatusCode)
	}
}

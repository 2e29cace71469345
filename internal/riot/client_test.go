package riot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		APIKey:     "RGAPI-test-key",
		BaseURL:    baseURL,
		RetryDelay: 10 * time.Millisecond,
		RetryAfter: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

// TestGet_AttachesKeyAndDecodes tests the happy path: the api_key query
// parameter rides every request and a 200 body decodes into out
func TestGet_AttachesKeyAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("api_key"); got != "RGAPI-test-key" {
			t.Errorf("Expected api_key query param, got %q", got)
		}
		w.Write([]byte(`{"puuid":"abc-123"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	var out AccountResponse
	if err := client.get(context.Background(), "/test", nil, &out); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if out.PUUID != "abc-123" {
		t.Errorf("Expected decoded puuid, got %q", out.PUUID)
	}
}

// TestGet_RateLimitHonorsRetryAfter tests that a 429 waits for the
// server-provided Retry-After and then retries
func TestGet_RateLimitHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"puuid":"abc-123"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	start := time.Now()
	var out AccountResponse
	if err := client.get(context.Background(), "/test", nil, &out); err != nil {
		t.Fatalf("Expected success after backoff, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("Expected at least 1s backoff from Retry-After, waited %s", elapsed)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 requests, got %d", calls.Load())
	}
}

// TestGet_RetryExhausted tests that persistent 429s stop after the attempt
// cap with the exhausted sentinel
func TestGet_RetryExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		APIKey:      "RGAPI-test-key",
		BaseURL:     server.URL,
		MaxAttempts: 3,
		RetryAfter:  10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	var out AccountResponse
	err = client.get(context.Background(), "/test", nil, &out)

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", calls.Load())
	}
}

// TestGet_TerminalStatuses tests that auth failures and 404 never retry
func TestGet_TerminalStatuses(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
	}

	for _, tc := range cases {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(tc.status)
		}))

		client := testClient(t, server.URL)

		var out AccountResponse
		err := client.get(context.Background(), "/test", nil, &out)

		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got: %v", tc.status, tc.want, err)
		}
		if calls.Load() != 1 {
			t.Errorf("status %d: expected 1 request, got %d", tc.status, calls.Load())
		}
		server.Close()
	}
}

// TestGet_ContextCancelDuringBackoff tests that cancellation interrupts a wait
func TestGet_ContextCancelDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	var out AccountResponse
	err := client.get(ctx, "/test", nil, &out)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Expected cancellation to cut the backoff short")
	}
}

// TestGet_UndecodableBody tests that a 200 with a broken body fails without retry
func TestGet_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"puuid":`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	var out AccountResponse
	if err := client.get(context.Background(), "/test", nil, &out); err == nil {
		t.Error("Expected decode error")
	}
}

package riot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestKeyCheck_ValidKey tests that an accepted API key passes the probe
func TestKeyCheck_ValidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The key travels as a query parameter, not a header
		if r.URL.Query().Get("api_key") == "" {
			t.Error("Expected api_key query parameter to be set")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"EUW1","name":"EU West","locales":["en_GB"]}`))
	}))
	defer server.Close()

	check := NewKeyCheck(WithBaseURL(server.URL))

	valid, err := check.Check(context.Background(), "RGAPI-test-key")

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if !valid {
		t.Error("Expected key to be accepted")
	}
}

// TestKeyCheck_RejectedKey tests that 401 and 403 mean rejected, not failed
func TestKeyCheck_RejectedKey(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"status":{"message":"Forbidden","status_code":403}}`))
		}))

		check := NewKeyCheck(WithBaseURL(server.URL))

		valid, err := check.Check(context.Background(), "RGAPI-expired-key")

		if err != nil {
			t.Errorf("Expected no error for rejected key (status %d), got: %v", status, err)
		}
		if valid {
			t.Errorf("Expected key to be rejected for status %d", status)
		}
		server.Close()
	}
}

// TestKeyCheck_ServerError tests that 5xx leaves key validity unknown
func TestKeyCheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	check := NewKeyCheck(WithBaseURL(server.URL))

	valid, err := check.Check(context.Background(), "RGAPI-test-key")

	if err == nil {
		t.Error("Expected server error to be returned")
	}
	if valid {
		t.Error("Expected key to not be accepted on server error")
	}
}

// TestKeyCheck_Timeout tests that a slow probe returns an error
func TestKeyCheck_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	check := NewKeyCheck(
		WithBaseURL(server.URL),
		WithTimeout(100*time.Millisecond),
	)

	valid, err := check.Check(context.Background(), "RGAPI-test-key")

	if err == nil {
		t.Error("Expected timeout error to be returned")
	}
	if valid {
		t.Error("Expected key to not be accepted on timeout")
	}
}

// TestKeyCheck_EmptyKey tests that an empty key errors without a request
func TestKeyCheck_EmptyKey(t *testing.T) {
	check := NewKeyCheck()

	valid, err := check.Check(context.Background(), "")

	if err == nil {
		t.Error("Expected error for empty key")
	}
	if valid {
		t.Error("Expected empty key to be rejected")
	}
}

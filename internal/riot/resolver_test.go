package riot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestParseHandle tests the name#tag split and its rejects
func TestParseHandle(t *testing.T) {
	h, err := ParseHandle("Faker#KR1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if h.GameName != "Faker" || h.TagLine != "KR1" {
		t.Errorf("Expected Faker/KR1, got %s/%s", h.GameName, h.TagLine)
	}

	for _, bad := range []string{"Faker", "#KR1", "Faker#", ""} {
		if _, err := ParseHandle(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

// TestResolveHandle_Success tests the account lookup path and URL escaping
func TestResolveHandle_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/riot/account/v1/accounts/by-riot-id/Hide on bush/KR1" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"puuid":"puuid-1","gameName":"Hide on bush","tagLine":"KR1"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	puuid, err := client.ResolveHandle(context.Background(), Handle{GameName: "Hide on bush", TagLine: "KR1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if puuid != "puuid-1" {
		t.Errorf("Expected puuid-1, got %q", puuid)
	}
}

// TestResolveHandle_RateLimitedOnce tests the single long backoff and retry
func TestResolveHandle_RateLimitedOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"puuid":"puuid-1"}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		APIKey:         "RGAPI-test-key",
		BaseURL:        server.URL,
		ResolveBackoff: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	puuid, err := client.ResolveHandle(context.Background(), Handle{GameName: "A", TagLine: "B"})
	if err != nil {
		t.Fatalf("Expected success after one retry, got: %v", err)
	}
	if puuid != "puuid-1" {
		t.Errorf("Expected puuid-1, got %q", puuid)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected exactly 2 requests, got %d", calls.Load())
	}
}

// TestResolveHandle_NotFound tests that a renamed handle surfaces ErrNotFound
func TestResolveHandle_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.ResolveHandle(context.Background(), Handle{GameName: "Gone", TagLine: "EUW"})
	if !IsNotFound(err) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

// TestResolveHandle_EmptyPUUID tests that a 200 without a puuid is NotFound
func TestResolveHandle_EmptyPUUID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gameName":"A","tagLine":"B"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.ResolveHandle(context.Background(), Handle{GameName: "A", TagLine: "B"})
	if !IsNotFound(err) {
		t.Errorf("Expected ErrNotFound for empty puuid, got: %v", err)
	}
}

// TestResolveSummonerID tests the legacy summoner-id path
func TestResolveSummonerID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lol/summoner/v4/summoners/summ-9" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"summ-9","puuid":"puuid-9"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	puuid, err := client.ResolveSummonerID(context.Background(), "summ-9")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if puuid != "puuid-9" {
		t.Errorf("Expected puuid-9, got %q", puuid)
	}
}

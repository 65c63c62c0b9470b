package insight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("matchId"); got != "m1" {
			t.Errorf("matchId = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"matchId":"m1","text":"Arsenal dominate possession. Smart Tip: back the home side."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got := c.Fetch(context.Background(), "m1")
	if got != "Arsenal dominate possession. Smart Tip: back the home side." {
		t.Errorf("Fetch = %q", got)
	}
}

func TestFetchFallbackOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if got := NewClient(srv.URL).Fetch(context.Background(), "m1"); got != Fallback {
		t.Errorf("Fetch = %q, want fallback", got)
	}
}

func TestFetchFallbackOnBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	if got := NewClient(srv.URL).Fetch(context.Background(), "m1"); got != Fallback {
		t.Errorf("Fetch = %q, want fallback", got)
	}
}

func TestFetchFallbackOnEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"matchId":"m1","text":""}`))
	}))
	defer srv.Close()

	if got := NewClient(srv.URL).Fetch(context.Background(), "m1"); got != Fallback {
		t.Errorf("Fetch = %q, want fallback", got)
	}
}

func TestFetchFallbackOnConnRefused(t *testing.T) {
	if got := NewClient("http://127.0.0.1:1/insight").Fetch(context.Background(), "m1"); got != Fallback {
		t.Errorf("Fetch = %q, want fallback", got)
	}
}

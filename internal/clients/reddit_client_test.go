package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spacesedan/feedsheet/internal/models"
)

const testUserAgent = "go:reddit-feed-to-gsheet:test"

func TestFetchListing(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"children":[{"data":{"created_utc":1704067200,"title":"t","permalink":"/r/x/"}}]}}`))
	}))
	defer srv.Close()

	rc := NewRedditFeedClient("test-agent/1.0", time.Millisecond)
	listing, err := rc.FetchListing(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchListing error: %v", err)
	}
	if gotUA != "test-agent/1.0" {
		t.Fatalf("User-Agent = %q", gotUA)
	}
	if len(listing.Data.Children) != 1 || *listing.Data.Children[0].Data.Title != "t" {
		t.Fatalf("listing = %+v", listing)
	}
}

func TestFetchListingFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				tt.handler(w, r)
			}))
			defer srv.Close()

			rc := NewRedditFeedClient(testUserAgent, time.Millisecond)
			_, err := rc.FetchListing(context.Background(), srv.URL)
			if !errors.Is(err, models.ErrFetch) {
				t.Fatalf("err = %v, want ErrFetch", err)
			}
			if calls != 1 {
				t.Fatalf("calls = %d, want a single attempt", calls)
			}
		})
	}
}

func TestFetchListingUnconfigured(t *testing.T) {
	rc := NewRedditFeedClient(testUserAgent, time.Millisecond)
	if _, err := rc.FetchListing(context.Background(), ""); !errors.Is(err, models.ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
}

package itunes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lyrictag/internal/match"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "lyrictag/1.0" {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		q := r.URL.Query()
		if q.Get("media") != "music" || q.Get("entity") != "song" {
			t.Errorf("unexpected query params: %v", q)
		}
		if q.Get("term") != "Yesterday The Beatles" {
			t.Errorf("term = %q", q.Get("term"))
		}

		w.Write([]byte(`{
			"resultCount": 1,
			"results": [{
				"trackName": "Yesterday",
				"artistName": "The Beatles",
				"collectionName": "Help!",
				"trackTimeMillis": 125000
			}]
		}`))
	}))
	defer srv.Close()

	c := New()
	c.apiURL = srv.URL

	candidates, err := c.Search(context.Background(), match.Query{
		Title:  "Yesterday",
		Artist: "The Beatles",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}

	got := candidates[0]
	if got.Song.Title != "Yesterday" || got.Song.Artist != "The Beatles" || got.Song.Album != "Help!" {
		t.Errorf("Song = %+v", got.Song)
	}
	if got.Song.Duration != 125*time.Second {
		t.Errorf("Duration = %v, want 125s", got.Song.Duration)
	}
	if got.Source != "itunes" {
		t.Errorf("Source = %q", got.Source)
	}
	if got.Lyrics != nil {
		t.Error("itunes candidates must not carry lyrics")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c := New()
	candidates, err := c.Search(context.Background(), match.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates != nil {
		t.Errorf("expected nil candidates for empty query, got %d", len(candidates))
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New()
	c.apiURL = srv.URL

	if _, err := c.Search(context.Background(), match.Query{Title: "x"}); err == nil {
		t.Fatal("expected error for server failure")
	}
}

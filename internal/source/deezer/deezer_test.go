package deezer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lyrictag/internal/match"
)

func TestSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "lyrictag/1.0" {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		json.NewEncoder(w).Encode(searchResponse{
			Data: []trackItem{
				{
					ID:         1,
					Title:      "Yesterday (Remastered 2009)",
					TitleShort: "Yesterday",
					Duration:   125,
					Artist:     artist{ID: 100, Name: "The Beatles"},
					Album:      albumInfo{ID: 200, Title: "Help!"},
				},
			},
		})
	})
	srv := httptest.NewServer(mux)
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
	if got.Song.Title != "Yesterday" {
		t.Errorf("Title = %q, want short title", got.Song.Title)
	}
	if got.Song.Artist != "The Beatles" {
		t.Errorf("Artist = %q", got.Song.Artist)
	}
	if got.Song.Album != "Help!" {
		t.Errorf("Album = %q", got.Song.Album)
	}
	if got.Song.Duration.Seconds() != 125 {
		t.Errorf("Duration = %v, want 125s", got.Song.Duration)
	}
	if got.Source != "deezer" {
		t.Errorf("Source = %q", got.Source)
	}
	if got.Lyrics != nil {
		t.Error("deezer candidates must not carry lyrics")
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

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{
			Error: &apiError{Type: "Exception", Message: "Quota exceeded", Code: 4},
		})
	}))
	defer srv.Close()

	c := New()
	c.apiURL = srv.URL

	_, err := c.Search(context.Background(), match.Query{Title: "test"})
	if err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		query match.Query
		want  string
	}{
		{
			name:  "all fields",
			query: match.Query{Title: "Yesterday", Artist: "The Beatles", Album: "Help!"},
			want:  `track:"Yesterday" artist:"The Beatles" album:"Help!"`,
		},
		{
			name:  "title only",
			query: match.Query{Title: "Yesterday"},
			want:  `track:"Yesterday"`,
		},
		{
			name:  "quotes stripped",
			query: match.Query{Title: `Say "Hello"`},
			want:  `track:"Say Hello"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQuery(tt.query)
			if got != tt.want {
				t.Errorf("buildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

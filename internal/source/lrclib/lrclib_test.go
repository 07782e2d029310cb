package lrclib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lyrictag/internal/match"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCount  int
		wantLyrics bool
		wantErr    bool
	}{
		{
			name:   "record with lyrics",
			status: http.StatusOK,
			body: `[{
				"id": 1,
				"trackName": "Yesterday",
				"artistName": "The Beatles",
				"albumName": "Help!",
				"duration": 125.0,
				"instrumental": false,
				"plainLyrics": "Yesterday\nAll my troubles seemed so far away"
			}]`,
			wantCount:  1,
			wantLyrics: true,
		},
		{
			name:   "instrumental has no lyric block",
			status: http.StatusOK,
			body: `[{
				"id": 2,
				"trackName": "Interlude",
				"artistName": "Someone",
				"duration": 60.0,
				"instrumental": true,
				"plainLyrics": "[instrumental]"
			}]`,
			wantCount: 1,
		},
		{
			name:      "empty result set",
			status:    http.StatusOK,
			body:      `[]`,
			wantCount: 0,
		},
		{
			name:      "not found",
			status:    http.StatusNotFound,
			body:      `{"code":404,"name":"NotFoundError"}`,
			wantCount: 0,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `internal server error`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != "lyrictag/1.0" {
					t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
				}
				if got := r.URL.Query().Get("track_name"); got != "Yesterday" {
					t.Errorf("track_name = %q", got)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New()
			c.apiURL = srv.URL

			candidates, err := c.Search(context.Background(), match.Query{Title: "Yesterday", Artist: "The Beatles"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(candidates) != tt.wantCount {
				t.Fatalf("got %d candidates, want %d", len(candidates), tt.wantCount)
			}
			if tt.wantCount > 0 {
				got := candidates[0]
				if got.Source != "lrclib" {
					t.Errorf("Source = %q", got.Source)
				}
				if got.HasLyrics() != tt.wantLyrics {
					t.Errorf("HasLyrics = %v, want %v", got.HasLyrics(), tt.wantLyrics)
				}
			}
		})
	}
}

func TestSearchMapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"trackName": "Yesterday",
			"artistName": "The Beatles",
			"albumName": "Help!",
			"duration": 125.5,
			"plainLyrics": "Yesterday"
		}]`))
	}))
	defer srv.Close()

	c := New()
	c.apiURL = srv.URL

	candidates, err := c.Search(context.Background(), match.Query{Title: "Yesterday"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := candidates[0]
	if got.Song.Title != "Yesterday" || got.Song.Artist != "The Beatles" || got.Song.Album != "Help!" {
		t.Errorf("Song = %+v", got.Song)
	}
	if got.Song.Duration.Seconds() != 125.5 {
		t.Errorf("Duration = %v, want 125.5s", got.Song.Duration)
	}
	if got.Lyrics.LineCount != 1 {
		t.Errorf("LineCount = %d", got.Lyrics.LineCount)
	}
}

func TestSearchEmptyTitle(t *testing.T) {
	c := New()
	candidates, err := c.Search(context.Background(), match.Query{Artist: "The Beatles"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates != nil {
		t.Errorf("expected nil candidates without a title, got %d", len(candidates))
	}
}

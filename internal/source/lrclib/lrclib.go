// Package lrclib searches LRCLIB, the only source that supplies lyrics.
package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"lyrictag/internal/match"
)

const sourceLabel = "lrclib"

// Client is an LRCLIB API client that implements match.Source.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new LRCLIB client.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://lrclib.net/api/search",
	}
}

func (c *Client) Name() string { return sourceLabel }

// Search queries the LRCLIB search API and returns candidates carrying both
// metadata and plain lyrics. Retries once on transient network errors;
// API-level failures (4xx, 5xx) would fail identically and are not retried.
func (c *Client) Search(ctx context.Context, query match.Query) ([]match.Candidate, error) {
	candidates, err := c.doSearch(ctx, query)
	if err == nil {
		return candidates, nil
	}

	if !isTransient(err) {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, err
	case <-time.After(2 * time.Second):
	}
	return c.doSearch(ctx, query)
}

func isTransient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (c *Client) doSearch(ctx context.Context, query match.Query) ([]match.Candidate, error) {
	if query.Title == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("track_name", query.Title)
	if query.Artist != "" {
		params.Set("artist_name", query.Artist)
	}
	if query.Album != "" {
		params.Set("album_name", query.Album)
	}

	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lrclib request: %w", err)
	}
	req.Header.Set("User-Agent", "lyrictag/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lrclib search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("lrclib search returned %d: %s", resp.StatusCode, body)
	}

	var records []searchRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode lrclib response: %w", err)
	}

	return parseRecords(records), nil
}

func parseRecords(records []searchRecord) []match.Candidate {
	var candidates []match.Candidate
	for _, rec := range records {
		c := match.Candidate{
			Song: match.SongInfo{
				Title:    rec.TrackName,
				Artist:   rec.ArtistName,
				Album:    rec.AlbumName,
				Duration: time.Duration(rec.Duration * float64(time.Second)),
			},
			Source: sourceLabel,
		}

		// Instrumental records legitimately carry no lyric text.
		if rec.PlainLyrics != "" && !rec.Instrumental {
			block := match.NewLyricBlock(rec.PlainLyrics, sourceLabel)
			c.Lyrics = &block
		}

		candidates = append(candidates, c)
	}
	return candidates
}

// LRCLIB API response types

type searchRecord struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

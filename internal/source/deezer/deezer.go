// Package deezer searches the Deezer catalog for metadata candidates.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lyrictag/internal/match"
)

const sourceLabel = "deezer"

// Client is a Deezer API client that implements match.Source.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new Deezer client.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://api.deezer.com",
	}
}

func (c *Client) Name() string { return sourceLabel }

// Search queries the Deezer search API and returns metadata-only candidates.
func (c *Client) Search(ctx context.Context, query match.Query) ([]match.Candidate, error) {
	q := buildQuery(query)
	if q == "" {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/search?q=%s&limit=5", c.apiURL, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create deezer request: %w", err)
	}
	req.Header.Set("User-Agent", "lyrictag/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deezer search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("deezer search returned %d: %s", resp.StatusCode, body)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode deezer response: %w", err)
	}

	if searchResp.Error != nil {
		return nil, fmt.Errorf("deezer API error: %s", searchResp.Error.Message)
	}

	return parseResults(searchResp.Data), nil
}

func buildQuery(query match.Query) string {
	escape := func(s string) string {
		return strings.ReplaceAll(s, "\"", "")
	}
	var parts []string
	if query.Title != "" {
		parts = append(parts, "track:\""+escape(query.Title)+"\"")
	}
	if query.Artist != "" {
		parts = append(parts, "artist:\""+escape(query.Artist)+"\"")
	}
	if query.Album != "" {
		parts = append(parts, "album:\""+escape(query.Album)+"\"")
	}
	return strings.Join(parts, " ")
}

func parseResults(items []trackItem) []match.Candidate {
	var candidates []match.Candidate
	for _, item := range items {
		// TitleShort drops live/version annotations Deezer appends.
		title := item.TitleShort
		if title == "" {
			title = item.Title
		}

		candidates = append(candidates, match.Candidate{
			Song: match.SongInfo{
				Title:    title,
				Artist:   item.Artist.Name,
				Album:    item.Album.Title,
				Duration: time.Duration(item.Duration) * time.Second,
			},
			Source: sourceLabel,
		})
	}
	return candidates
}

// Deezer API response types

type searchResponse struct {
	Data  []trackItem `json:"data"`
	Error *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type trackItem struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	TitleShort string    `json:"title_short"`
	Duration   int       `json:"duration"`
	Artist     artist    `json:"artist"`
	Album      albumInfo `json:"album"`
}

type artist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type albumInfo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

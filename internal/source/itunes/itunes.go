// Package itunes searches the iTunes catalog for metadata candidates.
package itunes

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

const sourceLabel = "itunes"

// Client is an iTunes Search API client that implements match.Source.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new iTunes client.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://itunes.apple.com/search",
	}
}

func (c *Client) Name() string { return sourceLabel }

// Search queries the iTunes Search API and returns metadata-only candidates.
func (c *Client) Search(ctx context.Context, query match.Query) ([]match.Candidate, error) {
	term := buildTerm(query)
	if term == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", "5")

	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create itunes request: %w", err)
	}
	req.Header.Set("User-Agent", "lyrictag/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("itunes search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("itunes search returned %d: %s", resp.StatusCode, body)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode itunes response: %w", err)
	}

	return parseResults(searchResp.Results), nil
}

func buildTerm(query match.Query) string {
	var parts []string
	if query.Title != "" {
		parts = append(parts, query.Title)
	}
	if query.Artist != "" {
		parts = append(parts, query.Artist)
	}
	return strings.Join(parts, " ")
}

func parseResults(items []resultItem) []match.Candidate {
	var candidates []match.Candidate
	for _, item := range items {
		candidates = append(candidates, match.Candidate{
			Song: match.SongInfo{
				Title:    item.TrackName,
				Artist:   item.ArtistName,
				Album:    item.CollectionName,
				Duration: time.Duration(item.TrackTimeMillis) * time.Millisecond,
			},
			Source: sourceLabel,
		})
	}
	return candidates
}

// iTunes Search API response types

type searchResponse struct {
	ResultCount int          `json:"resultCount"`
	Results     []resultItem `json:"results"`
}

type resultItem struct {
	TrackName       string `json:"trackName"`
	ArtistName      string `json:"artistName"`
	CollectionName  string `json:"collectionName"`
	TrackTimeMillis int    `json:"trackTimeMillis"`
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ytsync/internal/services"
)

// Match is a canonical metadata triple resolved from the catalog.
type Match struct {
	Artist string
	Album  string
	Title  string
}

// Searcher defines the catalog lookup used by the organizer.
type Searcher interface {
	Lookup(ctx context.Context, title, artist string) (*Match, error)
}

// Client queries the iTunes Search API.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLimit caps the number of results requested per lookup.
func WithLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// New creates a catalog client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	client := &Client{
		baseURL:    baseURL,
		limit:      5,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchResult struct {
	ArtistName     string `json:"artistName"`
	CollectionName string `json:"collectionName"`
	TrackName      string `json:"trackName"`
}

type searchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []searchResult `json:"results"`
}

// Lookup searches the catalog by title and artist and returns the first
// result carrying a full artist/album/title triple. A search that matches
// nothing usable returns an error tagged with services.ErrNotFound.
func (c *Client) Lookup(ctx context.Context, title, artist string) (*Match, error) {
	term := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(artist))
	if term == "" {
		return nil, errors.New("lookup term must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", strconv.Itoa(c.limit))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "lookup", term, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "catalog", "lookup",
			fmt.Sprintf("%s: server returned %d", term, resp.StatusCode), nil)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "lookup", "decode response", err)
	}

	for _, result := range payload.Results {
		match := Match{
			Artist: strings.TrimSpace(result.ArtistName),
			Album:  strings.TrimSpace(result.CollectionName),
			Title:  strings.TrimSpace(result.TrackName),
		}
		if match.Artist != "" && match.Album != "" && match.Title != "" {
			return &match, nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "catalog", "lookup", term, nil)
}

package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "ytsync/0.1.0"

// Section describes one Plex library section.
type Section struct {
	ID    string
	Title string
	Type  string
}

// Client talks to a Plex media server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

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

// New creates a Plex client.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("plex base url required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("plex token required")
	}
	client := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Refresh triggers a rescan of the given library section.
func (c *Client) Refresh(ctx context.Context, sectionID string) error {
	sectionID = strings.TrimSpace(sectionID)
	if sectionID == "" {
		return errors.New("plex section id required")
	}

	refreshURL := fmt.Sprintf("%s/library/sections/%s/refresh", c.baseURL, url.PathEscape(sectionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, refreshURL, nil)
	if err != nil {
		return fmt.Errorf("build plex refresh request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh plex section %s: %w", sectionID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("plex refresh returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Sections lists the library sections registered on the server.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	sectionsURL := c.baseURL + "/library/sections"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sectionsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build plex sections request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch plex sections: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("plex sections returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	type directory struct {
		Key   string `xml:"key,attr"`
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	}
	type mediaContainer struct {
		Directories []directory `xml:"Directory"`
	}

	var container mediaContainer
	if err := xml.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, fmt.Errorf("decode plex sections: %w", err)
	}

	sections := make([]Section, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.Key == "" || dir.Title == "" {
			continue
		}
		sections = append(sections, Section{ID: dir.Key, Title: dir.Title, Type: dir.Type})
	}
	return sections, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("User-Agent", userAgent)
}

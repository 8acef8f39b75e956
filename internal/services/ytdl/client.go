package ytdl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ytsync/internal/services"
)

// RemoteFile identifies one item on the media source. UID is the stable key
// for download and delete calls; Path determines the local filename.
type RemoteFile struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Name returns the label used in logs and error messages.
func (f RemoteFile) Name() string {
	if strings.TrimSpace(f.Title) != "" {
		return f.Title
	}
	return f.UID
}

// Client talks to a YTDL download manager.
type Client struct {
	baseURL    string
	apiKey     string
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

// New creates a YTDL client.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ytdl base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ytdl api key required")
	}
	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Login authenticates with the media source and stores the returned token
// for subsequent calls. An empty token in a successful response is an auth
// failure.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return services.Wrap(services.ErrAuth, "ytdl", "login", "encode credentials", err)
	}

	resp, err := c.post(ctx, "/api/auth/login", body)
	if err != nil {
		return services.Wrap(services.ErrAuth, "ytdl", "login", "request failed", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return services.Wrap(services.ErrAuth, "ytdl", "login", "", err)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return services.Wrap(services.ErrAuth, "ytdl", "login", "decode response", err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return services.Wrap(services.ErrAuth, "ytdl", "login", "no token returned", nil)
	}
	c.token = payload.Token
	return nil
}

// Token returns the JWT obtained by Login, or empty when unauthenticated.
func (c *Client) Token() string {
	return c.token
}

// List fetches the remote file list. An empty list is a valid result.
func (c *Client) List(ctx context.Context) ([]RemoteFile, error) {
	endpoint := c.baseURL + "/api/getMp3s?" + c.authParams().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrListing, "ytdl", "list files", "build request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrListing, "ytdl", "list files", "request failed", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, services.Wrap(services.ErrListing, "ytdl", "list files", "", err)
	}

	var payload struct {
		Mp3s []RemoteFile `json:"mp3s"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrListing, "ytdl", "list files", "decode response", err)
	}
	return payload.Mp3s, nil
}

// Download streams the remote file to destPath. The bytes land in a
// temporary file in the destination directory and are renamed into place
// only after the stream fully drains.
func (c *Client) Download(ctx context.Context, file RemoteFile, destPath string) error {
	body, err := json.Marshal(map[string]string{"uid": file.UID, "type": "audio"})
	if err != nil {
		return c.fileErr(file, "download", "encode request", err)
	}

	resp, err := c.post(ctx, "/api/downloadFileFromServer", body)
	if err != nil {
		return c.fileErr(file, "download", "request failed", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return c.fileErr(file, "download", "", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return c.fileErr(file, "download", "create destination directory", err)
	}

	tmpPath := filepath.Join(filepath.Dir(destPath), "."+filepath.Base(destPath)+"."+uuid.NewString()+".partial")
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return c.fileErr(file, "download", "create temp file", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return c.fileErr(file, "download", "stream body", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return c.fileErr(file, "download", "close temp file", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return c.fileErr(file, "download", "finalize file", err)
	}
	return nil
}

// Delete removes the file from the media source. Callers invoke this only
// after the local artifact is durably on disk.
func (c *Client) Delete(ctx context.Context, file RemoteFile) error {
	body, err := json.Marshal(map[string]string{"uid": file.UID})
	if err != nil {
		return c.fileErr(file, "delete", "encode request", err)
	}

	resp, err := c.post(ctx, "/api/deleteFile", body)
	if err != nil {
		return c.fileErr(file, "delete", "request failed", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return c.fileErr(file, "delete", "", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	endpoint := c.baseURL + path + "?" + c.authParams().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func (c *Client) authParams() url.Values {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	if c.token != "" {
		params.Set("jwt", c.token)
	}
	return params
}

func (c *Client) fileErr(file RemoteFile, operation, message string, err error) error {
	detail := fmt.Sprintf("file %s", file.UID)
	if message != "" {
		detail = message + ": " + detail
	}
	return services.Wrap(services.ErrTransient, "ytdl", operation, detail, err)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, detail)
}

package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ytsync/internal/config"
)

const userAgent = "ytsync/0.1.0"

// Event identifies a notable moment in a sync run.
type Event string

const (
	EventSyncStarted   Event = "sync_started"
	EventSyncCompleted Event = "sync_completed"
	EventSyncFailed    Event = "sync_failed"
)

// Payload carries event-specific fields referenced by the message
// templates.
type Payload map[string]string

// Service delivers sync events to the configured transport.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	endpoint := topic
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://ntfy.sh/" + endpoint
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := formatMessage(event, payload)
	if !ok {
		return fmt.Errorf("unknown notification event %q", event)
	}
	return n.send(ctx, msg)
}

func formatMessage(event Event, payload Payload) (message, bool) {
	get := func(key string) string { return strings.TrimSpace(payload[key]) }
	switch event {
	case EventSyncStarted:
		return message{
			title: "ytsync - Sync Started",
			body:  fmt.Sprintf("Syncing %s file(s) from %s", get("count"), get("source")),
			tags:  []string{"ytsync", "sync", "started"},
		}, true
	case EventSyncCompleted:
		return message{
			title: "ytsync - Sync Complete",
			body: fmt.Sprintf("Downloaded %s, skipped %s, failed %s in %s",
				get("downloaded"), get("skipped"), get("failed"), get("duration")),
			tags: []string{"ytsync", "sync", "completed"},
		}, true
	case EventSyncFailed:
		return message{
			title:    "ytsync - Sync Failed",
			body:     fmt.Sprintf("Sync aborted: %s", get("error")),
			tags:     []string{"ytsync", "sync", "failed"},
			priority: "high",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Title", msg.title)
	if len(msg.tags) > 0 {
		req.Header.Set("X-Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("X-Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }

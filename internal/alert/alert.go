package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Priority is the backend independent urgency of a notification. Each
// backend maps it onto its own numeric scale.
type Priority string

const (
	PriorityLow     Priority = "low"
	PriorityDefault Priority = "default"
	PriorityHigh    Priority = "high"
	PriorityUrgent  Priority = "urgent"
)

const clientTimeout = 10 * time.Second

const maxTopIssues = 5

// Backend delivers a single notification to one notification service
type Backend interface {
	Name() string
	Send(ctx context.Context, title, message string, priority Priority) error
}

// WebhookBackend POSTs alerts as a JSON document to an arbitrary endpoint
type WebhookBackend struct {
	url    string
	client *http.Client
}

// NewWebhookBackend creates a backend targeting the given URL
func NewWebhookBackend(endpoint string) *WebhookBackend {
	return &WebhookBackend{
		url:    endpoint,
		client: &http.Client{Timeout: clientTimeout},
	}
}

func (b *WebhookBackend) Name() string { return "webhook" }

func (b *WebhookBackend) Send(ctx context.Context, title, message string, priority Priority) error {
	body, err := json.Marshal(map[string]string{
		"title":    title,
		"message":  message,
		"priority": string(priority),
	})
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return do(b.client, req)
}

// NtfyBackend publishes to an ntfy topic. The message travels as the raw
// request body while title, priority and tags go in headers.
type NtfyBackend struct {
	url    string
	client *http.Client
}

// NewNtfyBackend creates a backend targeting the given topic URL
func NewNtfyBackend(endpoint string) *NtfyBackend {
	return &NtfyBackend{
		url:    strings.TrimRight(endpoint, "/"),
		client: &http.Client{Timeout: clientTimeout},
	}
}

func (b *NtfyBackend) Name() string { return "ntfy" }

func (b *NtfyBackend) Send(ctx context.Context, title, message string, priority Priority) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Priority", ntfyPriority(priority))
	req.Header.Set("Tags", "docker,network,warning")

	return do(b.client, req)
}

// ntfyPriority maps onto ntfy's 1..5 scale, 3 being its default
func ntfyPriority(p Priority) string {
	switch p {
	case PriorityLow:
		return "2"
	case PriorityHigh:
		return "4"
	case PriorityUrgent:
		return "5"
	default:
		return "3"
	}
}

// GotifyBackend pushes through a Gotify server using an application token
type GotifyBackend struct {
	url    string
	token  string
	client *http.Client
}

// NewGotifyBackend creates a backend targeting the given server URL
func NewGotifyBackend(endpoint, token string) *GotifyBackend {
	return &GotifyBackend{
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
		client: &http.Client{Timeout: clientTimeout},
	}
}

func (b *GotifyBackend) Name() string { return "gotify" }

func (b *GotifyBackend) Send(ctx context.Context, title, message string, priority Priority) error {
	body, err := json.Marshal(map[string]any{
		"title":    title,
		"message":  message,
		"priority": gotifyPriority(priority),
	})
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/message?token=%s", b.url, url.QueryEscape(b.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return do(b.client, req)
}

// gotifyPriority maps onto Gotify's 0..10 scale, 5 being its default
func gotifyPriority(p Priority) int {
	switch p {
	case PriorityLow:
		return 2
	case PriorityHigh:
		return 7
	case PriorityUrgent:
		return 10
	default:
		return 5
	}
}

// do runs the request and turns error statuses into errors
func do(client *http.Client, req *http.Request) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("alert request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max
	if err != nil {
		return fmt.Errorf("read alert response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("alert endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

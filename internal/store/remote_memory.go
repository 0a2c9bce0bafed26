package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/helios/internal/buildconfig"
	"github.com/Harshitk-cp/helios/internal/domain"
)

const defaultRemoteMemoryTimeout = 10 * time.Second

// RemoteMemory talks to an external conversation memory service.
type RemoteMemory struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRemoteMemory(baseURL, apiKey string, timeout time.Duration) *RemoteMemory {
	if timeout <= 0 {
		timeout = defaultRemoteMemoryTimeout
	}
	return &RemoteMemory{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type remoteMessage struct {
	UUID      string         `json:"uuid,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type remoteMemoryResponse struct {
	Messages []remoteMessage `json:"messages"`
}

type remoteMemoryRequest struct {
	Messages []remoteMessage `json:"messages"`
}

func (c *RemoteMemory) sessionURL(sessionID string) string {
	return fmt.Sprintf("%s/sessions/%s/memory", c.baseURL, url.PathEscape(sessionID))
}

func (c *RemoteMemory) do(ctx context.Context, method, target string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal memory request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create memory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildconfig.UserAgent())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("memory request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read memory response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("memory API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// GetMemory returns the most recent limit messages of the session in chronological order.
func (c *RemoteMemory) GetMemory(ctx context.Context, sessionID string, limit int) ([]domain.MemoryEntry, error) {
	target := c.sessionURL(sessionID)
	if limit > 0 {
		target += "?limit=" + strconv.Itoa(limit)
	}

	body, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	var result remoteMemoryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal memory response: %w", err)
	}
	if result.Messages == nil {
		return nil, fmt.Errorf("memory response has no messages field")
	}

	entries := make([]domain.MemoryEntry, 0, len(result.Messages))
	for _, msg := range result.Messages {
		entries = append(entries, entryFromRemote(msg))
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// PutMemory appends one message to the session.
func (c *RemoteMemory) PutMemory(ctx context.Context, sessionID string, entry domain.MemoryEntry) error {
	metadata := map[string]any{
		"character": entry.Speaker,
		"emotion":   entry.Emotion,
	}
	if entry.Action != "" {
		metadata["action"] = entry.Action
	}

	_, err := c.do(ctx, http.MethodPost, c.sessionURL(sessionID), remoteMemoryRequest{
		Messages: []remoteMessage{{
			CreatedAt: entry.Timestamp.UTC().Format(time.RFC3339Nano),
			Role:      string(entry.Role),
			Content:   entry.Message,
			Metadata:  metadata,
		}},
	})
	return err
}

// DeleteMemory removes the session's messages. A session the service does not know is
// already clear.
func (c *RemoteMemory) DeleteMemory(ctx context.Context, sessionID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.sessionURL(sessionID), nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func entryFromRemote(msg remoteMessage) domain.MemoryEntry {
	entry := domain.MemoryEntry{
		Timestamp: time.Now().UTC(),
		Speaker:   "Unknown",
		Message:   msg.Content,
		Role:      domain.RoleUser,
		Emotion:   domain.DefaultEmotion,
	}
	if ts, err := time.Parse(time.RFC3339Nano, msg.CreatedAt); err == nil {
		entry.Timestamp = ts
	}
	if domain.ValidRole(msg.Role) {
		entry.Role = domain.Role(msg.Role)
	}
	if v, ok := msg.Metadata["character"].(string); ok && v != "" {
		entry.Speaker = v
	}
	if v, ok := msg.Metadata["emotion"].(string); ok && v != "" {
		entry.Emotion = v
	}
	if v, ok := msg.Metadata["action"].(string); ok {
		entry.Action = v
	}
	return entry
}

// Package chatapi is the HTTP client for the chat backend. Reads degrade to
// empty results and writes are best effort: a chat UI keeps working from its
// in-memory state when the backend is unreachable, so failures here are
// logged and absorbed rather than surfaced.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/katoonagu/Aichatinterfacedesign/internal/domain"
	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

func NewClient(baseURL string, log *logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		log:     log.Sub("chatapi"),
	}
}

// ListSessions fetches session summaries, newest first. Any failure yields
// an empty list; an empty store and an unreachable backend look the same to
// the caller.
func (c *Client) ListSessions(ctx context.Context) []domain.Session {
	var body struct {
		Sessions []wireSummary `json:"sessions"`
	}
	if err := c.getJSON(ctx, "/sessions", &body); err != nil {
		c.log.Warn().Err(err).Msg("list sessions failed")
		return []domain.Session{}
	}
	sessions := make([]domain.Session, 0, len(body.Sessions))
	for _, s := range body.Sessions {
		sessions = append(sessions, summaryToDomain(s))
	}
	return sessions
}

// GetHistory fetches the full message history for a session. Any failure
// yields an empty history.
func (c *Client) GetHistory(ctx context.Context, sessionID string) []domain.Message {
	var body struct {
		Messages []wireMessage `json:"messages"`
	}
	path := "/chat?sessionId=" + url.QueryEscape(sessionID)
	if err := c.getJSON(ctx, path, &body); err != nil {
		c.log.Warn().Err(err).Str("session", sessionID).Msg("load history failed")
		return []domain.Message{}
	}
	msgs := make([]domain.Message, 0, len(body.Messages))
	for _, m := range body.Messages {
		msg, err := wireToDomain(m)
		if err != nil {
			c.log.Warn().Err(err).Str("session", sessionID).Msg("skipping malformed message")
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// AppendMessage persists one message. Best effort: failures are logged and
// swallowed so the optimistic UI state stays authoritative.
func (c *Client) AppendMessage(ctx context.Context, sessionID string, msg domain.Message) {
	payload := map[string]any{
		"sessionId": sessionID,
		"message":   domainToWire(msg),
	}
	if err := c.postJSON(ctx, "/chat", payload); err != nil {
		c.log.Warn().Err(err).Str("session", sessionID).Msg("append message failed")
	}
}

// SyncMessages replaces the stored history for a session with the given
// messages. Best effort.
func (c *Client) SyncMessages(ctx context.Context, sessionID string, msgs []domain.Message) {
	wire := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		wire = append(wire, domainToWire(m))
	}
	payload := map[string]any{
		"sessionId": sessionID,
		"messages":  wire,
	}
	if err := c.postJSON(ctx, "/chat", payload); err != nil {
		c.log.Warn().Err(err).Str("session", sessionID).Msg("sync messages failed")
	}
}

// ClearHistory removes all stored messages for a session. Best effort.
func (c *Client) ClearHistory(ctx context.Context, sessionID string) {
	path := c.baseURL + "/chat?sessionId=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, path, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("session", sessionID).Msg("clear history failed")
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("session", sessionID).Msg("clear history failed")
		return
	}
	drainAndClose(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("session", sessionID).Msg("clear history failed")
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

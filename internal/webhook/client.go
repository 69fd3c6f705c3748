// Package webhook calls the external response-generation endpoint.
//
// The endpoint is an opaque automation workflow reached over HTTP POST. It
// answers with arbitrary JSON; the answer text is extracted by probing an
// ordered list of candidate fields, falling back to a dump of the whole body
// so a successful call always yields visible content.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
)

// DefaultTimeout bounds a generation call so a stuck workflow cannot leave
// the conversation waiting forever.
const DefaultTimeout = 120 * time.Second

// answerFields is the ordered list of JSON fields probed for the answer text.
var answerFields = []string{"output", "text", "response", "answer", "content"}

// Client calls the response-generation webhook.
type Client struct {
	url    string
	client *http.Client
	log    *logging.Logger
}

// NewClient creates a webhook client. A zero timeout uses DefaultTimeout.
func NewClient(url string, timeout time.Duration, log *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.Sub("webhook"),
	}
}

// generateRequest is the wire payload sent to the workflow.
type generateRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
}

// Generate sends the prompt to the workflow and returns the extracted answer
// text. Any transport error, non-2xx status, or non-JSON body is a hard
// failure for this call.
func (c *Client) Generate(ctx context.Context, prompt, sessionID string) (string, error) {
	start := time.Now()

	payload, err := json.Marshal(generateRequest{
		Prompt:    prompt,
		SessionID: sessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("webhook error (%d): %s", resp.StatusCode, string(body))
	}

	answer, err := ExtractAnswer(body)
	if err != nil {
		return "", err
	}

	c.log.Debug().
		Str("sessionId", sessionID).
		Dur("duration", time.Since(start)).
		Int("answerLen", len(answer)).
		Msg("response generated")

	return answer, nil
}

// ExtractAnswer pulls a human-readable answer out of a workflow response.
// Candidate fields are tried in order. Workflows that wrap the result in a
// top-level array are probed through their first element. Any other valid
// JSON body falls back to its compact encoding, so a 2xx response always
// yields visible content.
func ExtractAnswer(body []byte) (string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		if text, ok := probeFields(obj); ok {
			return text, nil
		}
		return compactDump(body)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) > 0 && json.Unmarshal(list[0], &obj) == nil {
			if text, ok := probeFields(obj); ok {
				return text, nil
			}
		}
		return compactDump(body)
	}

	var scalar any
	if err := json.Unmarshal(body, &scalar); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if text, ok := scalar.(string); ok && text != "" {
		return text, nil
	}
	return compactDump(body)
}

// probeFields tries the candidate fields in order, accepting the first
// non-empty string value.
func probeFields(obj map[string]json.RawMessage) (string, bool) {
	for _, field := range answerFields {
		val, ok := obj[field]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(val, &text); err == nil && text != "" {
			return text, true
		}
	}
	return "", false
}

func compactDump(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return "", fmt.Errorf("encoding fallback dump: %w", err)
	}
	return buf.String(), nil
}

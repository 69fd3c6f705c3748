package server

import (
	"encoding/json"
	"time"

	"github.com/katoonagu/Aichatinterfacedesign/internal/store"
)

// wireMessage is the JSON shape of a chat message on the HTTP API.
// The role field carries the wire vocabulary: "user" or "ai".
type wireMessage struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp string          `json:"timestamp"`
	Sources   json.RawMessage `json:"sources,omitempty"`
}

type wireSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Preview  string `json:"preview"`
	Date     string `json:"date"`
	Messages int    `json:"messages"`
}

func rowToWire(r store.Row) wireMessage {
	m := wireMessage{
		ID:        r.MessageID,
		Role:      r.Role,
		Content:   r.Content,
		Timestamp: r.Timestamp.UTC().Format(time.RFC3339),
	}
	if r.Sources != "" {
		m.Sources = json.RawMessage(r.Sources)
	}
	return m
}

func wireToRow(m wireMessage) (store.Row, error) {
	r := store.Row{
		MessageID: m.ID,
		Role:      m.Role,
		Content:   m.Content,
	}
	if m.Timestamp == "" {
		r.Timestamp = time.Now().UTC()
	} else {
		ts, err := time.Parse(time.RFC3339, m.Timestamp)
		if err != nil {
			return store.Row{}, err
		}
		r.Timestamp = ts
	}
	if len(m.Sources) > 0 {
		r.Sources = string(m.Sources)
	}
	return r, nil
}

func wiresToRows(msgs []wireMessage) ([]store.Row, error) {
	rows := make([]store.Row, 0, len(msgs))
	for _, m := range msgs {
		row, err := wireToRow(m)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func summaryToWire(s store.Summary) wireSummary {
	return wireSummary{
		ID:       s.ID,
		Title:    s.Title,
		Preview:  s.Preview,
		Date:     s.Date.UTC().Format(time.RFC3339),
		Messages: s.Messages,
	}
}

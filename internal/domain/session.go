package domain

import (
	"time"
	"unicode/utf8"
)

// Session is one conversation thread. A session exists implicitly: it becomes
// durable the first time a message is appended under its ID, and its summary
// fields are derived from stored content rather than written explicitly.
type Session struct {
	ID      string
	Title   string
	Preview string
	Date    time.Time

	// Messages are loaded lazily via a separate history fetch and are
	// usually absent on session list entries.
	Messages []Message
}

const (
	titleMaxRunes   = 40
	previewMaxRunes = 80
)

// TitleFromContent derives a session title from its first message content.
func TitleFromContent(content string) string {
	return truncateRunes(content, titleMaxRunes)
}

// PreviewFromContent derives a session preview excerpt from message content.
func PreviewFromContent(content string) string {
	return truncateRunes(content, previewMaxRunes)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}

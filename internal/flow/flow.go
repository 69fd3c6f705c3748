// Package flow drives a chat conversation: it applies user input
// optimistically, persists in the background and resolves the assistant
// answer asynchronously. All exported methods are safe for concurrent use.
package flow

import (
	"context"
	"strings"
	"sync"

	"github.com/katoonagu/Aichatinterfacedesign/internal/chatapi"
	"github.com/katoonagu/Aichatinterfacedesign/internal/domain"
	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
	"github.com/katoonagu/Aichatinterfacedesign/internal/webhook"
)

// Flow owns the in-memory transcript of one active session. The transcript
// is authoritative; the backend store is an eventually-consistent mirror.
type Flow struct {
	log    *logging.Logger
	store  *chatapi.Client
	assist *webhook.Client

	mu        sync.Mutex
	sessionID string
	messages  []domain.Message
	pendingID string // non-empty while an answer is awaited

	onChange   func([]domain.Message)
	onSessions func([]domain.Session)
}

func New(store *chatapi.Client, assist *webhook.Client, sessionID string, log *logging.Logger) *Flow {
	return &Flow{
		log:       log.Sub("flow"),
		store:     store,
		assist:    assist,
		sessionID: sessionID,
	}
}

// OnChange registers a callback invoked with a transcript snapshot after
// every visible change. Must be set before the first Submit.
func (f *Flow) OnChange(fn func([]domain.Message)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// OnSessionsChanged registers a callback invoked with a fresh session list
// whenever the set of sessions may have changed.
func (f *Flow) OnSessionsChanged(fn func([]domain.Session)) {
	f.mu.Lock()
	f.onSessions = fn
	f.mu.Unlock()
}

// SessionID returns the active session ID.
func (f *Flow) SessionID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionID
}

// Messages returns a snapshot of the transcript.
func (f *Flow) Messages() []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Message(nil), f.messages...)
}

// Awaiting reports whether an assistant answer is in flight.
func (f *Flow) Awaiting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingID != ""
}

// Submit accepts one user input. Blank input and input submitted while an
// answer is in flight are rejected without any state change. On acceptance
// the user message appears immediately, followed by a pending placeholder
// that resolves to the assistant answer or disappears on failure.
func (f *Flow) Submit(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	f.mu.Lock()
	if f.pendingID != "" {
		f.mu.Unlock()
		f.log.Debug().Msg("submit rejected: answer in flight")
		return false
	}

	userMsg := domain.NewUserMessage(trimmed)
	firstMessage := len(f.messages) == 0
	f.messages = append(f.messages, userMsg)

	placeholder := domain.NewPendingMessage()
	f.messages = append(f.messages, placeholder)
	f.pendingID = placeholder.ID

	sessionID := f.sessionID
	f.notifyLocked()
	f.mu.Unlock()

	go f.store.AppendMessage(context.Background(), sessionID, userMsg)
	if firstMessage {
		go f.refreshSessions()
	}
	go f.generate(sessionID, placeholder.ID, trimmed)

	return true
}

// generate runs off the caller's goroutine; the transcript may have been
// reset or switched by the time the answer arrives.
func (f *Flow) generate(sessionID, placeholderID, prompt string) {
	answer, err := f.assist.Generate(context.Background(), prompt, sessionID)

	f.mu.Lock()
	idx := f.indexOfPending(placeholderID)
	if idx < 0 {
		f.mu.Unlock()
		f.log.Debug().Str("placeholder", placeholderID).Msg("discarding late answer")
		return
	}

	if err != nil {
		f.log.Warn().Err(err).Msg("assistant request failed")
		f.messages = append(f.messages[:idx], f.messages[idx+1:]...)
		f.pendingID = ""
		f.notifyLocked()
		f.mu.Unlock()
		return
	}

	assistantMsg := domain.NewAssistantMessage(answer, nil)
	f.messages[idx] = assistantMsg
	f.pendingID = ""
	f.notifyLocked()
	f.mu.Unlock()

	go f.store.AppendMessage(context.Background(), sessionID, assistantMsg)
}

// LoadHistory replaces the transcript with the stored history of the
// active session. Any in-flight answer is abandoned.
func (f *Flow) LoadHistory(ctx context.Context) {
	f.mu.Lock()
	sessionID := f.sessionID
	f.mu.Unlock()

	history := f.store.GetHistory(ctx, sessionID)

	f.mu.Lock()
	f.messages = history
	f.pendingID = ""
	f.notifyLocked()
	f.mu.Unlock()
}

// SwitchSession makes another session active and loads its history.
func (f *Flow) SwitchSession(ctx context.Context, sessionID string) {
	f.mu.Lock()
	f.sessionID = sessionID
	f.pendingID = ""
	f.mu.Unlock()
	f.LoadHistory(ctx)
}

// StartNew switches to a fresh empty session. The session becomes durable
// only once its first message is appended.
func (f *Flow) StartNew(sessionID string) {
	f.mu.Lock()
	f.sessionID = sessionID
	f.messages = nil
	f.pendingID = ""
	f.notifyLocked()
	f.mu.Unlock()
}

// Resync overwrites the stored history with the in-memory transcript,
// excluding any unresolved placeholder. The transcript is authoritative, so
// this recovers a session whose best-effort appends were dropped while the
// backend was unreachable.
func (f *Flow) Resync(ctx context.Context) {
	f.mu.Lock()
	sessionID := f.sessionID
	msgs := make([]domain.Message, 0, len(f.messages))
	for _, m := range f.messages {
		if !m.Pending() {
			msgs = append(msgs, m)
		}
	}
	f.mu.Unlock()

	f.store.SyncMessages(ctx, sessionID, msgs)
}

// Clear wipes the active session, in memory and in the store.
func (f *Flow) Clear(ctx context.Context) {
	f.mu.Lock()
	sessionID := f.sessionID
	f.messages = nil
	f.pendingID = ""
	f.notifyLocked()
	f.mu.Unlock()

	f.store.ClearHistory(ctx, sessionID)
	go f.refreshSessions()
}

func (f *Flow) refreshSessions() {
	f.mu.Lock()
	fn := f.onSessions
	f.mu.Unlock()
	if fn == nil {
		return
	}
	fn(f.store.ListSessions(context.Background()))
}

// indexOfPending locates the placeholder by ID. Callers hold f.mu.
func (f *Flow) indexOfPending(id string) int {
	for i, m := range f.messages {
		if m.ID == id && m.Pending() {
			return i
		}
	}
	return -1
}

// notifyLocked snapshots the transcript for the callback. Callers hold f.mu;
// the callback itself runs inline, so it must not call back into the Flow.
func (f *Flow) notifyLocked() {
	if f.onChange == nil {
		return
	}
	f.onChange(append([]domain.Message(nil), f.messages...))
}

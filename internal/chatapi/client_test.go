package chatapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katoonagu/Aichatinterfacedesign/internal/domain"
	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, logging.New(nil, "silent"))
}

func TestListSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions", r.URL.Path)
		fmt.Fprint(w, `{"sessions":[
			{"id":"u-transformers-2","title":"Свежий","preview":"...","date":"2026-08-30T12:00:00Z","messages":4},
			{"id":"u-transformers-1","title":"Старый","preview":"...","date":"2026-08-29T12:00:00Z","messages":2}
		]}`)
	}))
	defer srv.Close()

	sessions := testClient(srv).ListSessions(context.Background())
	require.Len(t, sessions, 2)
	assert.Equal(t, "u-transformers-2", sessions[0].ID)
	assert.Equal(t, "Свежий", sessions[0].Title)
	assert.Equal(t, 2026, sessions[0].Date.Year())
}

func TestListSessionsBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	sessions := testClient(srv).ListSessions(context.Background())
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestListSessionsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Empty(t, testClient(srv).ListSessions(context.Background()))
}

func TestGetHistoryTranslatesRolesAndSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "u-transformers-1", r.URL.Query().Get("sessionId"))
		fmt.Fprint(w, `{"messages":[
			{"id":"m1","role":"user","content":"Что такое ТМГ?","timestamp":"2026-08-30T10:00:00Z"},
			{"id":"m2","role":"ai","content":"ТМГ — герметичный масляный трансформатор.","timestamp":"2026-08-30T10:00:05Z",
			 "sources":[{"id":"s1","title":"ГОСТ 11677","type":"gost"},{"id":"s2","title":"Справочник","type":"wiki"}]}
		]}`)
	}))
	defer srv.Close()

	msgs := testClient(srv).GetHistory(context.Background(), "u-transformers-1")
	require.Len(t, msgs, 2)

	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
	assert.False(t, msgs[1].Pending())

	require.Len(t, msgs[1].Sources, 2)
	assert.Equal(t, domain.SourceKindStandard, msgs[1].Sources[0].Kind)
	// unknown source types collapse to "other"
	assert.Equal(t, domain.SourceKindOther, msgs[1].Sources[1].Kind)
}

func TestGetHistorySkipsMalformedMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"messages":[
			{"id":"m1","role":"user","content":"ok","timestamp":"2026-08-30T10:00:00Z"},
			{"id":"m2","role":"user","content":"bad","timestamp":"yesterday"}
		]}`)
	}))
	defer srv.Close()

	msgs := testClient(srv).GetHistory(context.Background(), "s")
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
}

func TestGetHistoryBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	msgs := testClient(srv).GetHistory(context.Background(), "s")
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestAppendMessage(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"status":"appended","count":1}`)
	}))
	defer srv.Close()

	msg := domain.NewAssistantMessage("ответ", []domain.Source{
		{ID: "s1", Title: "ПУЭ 7", Kind: domain.SourceKindRegulation},
	})
	testClient(srv).AppendMessage(context.Background(), "sess-1", msg)

	require.NotNil(t, got["message"])
	var wire wireMessage
	require.NoError(t, json.Unmarshal(got["message"], &wire))
	assert.Equal(t, "ai", wire.Role)
	assert.Equal(t, "ответ", wire.Content)
	require.Len(t, wire.Sources, 1)
	assert.Equal(t, "pue", wire.Sources[0].Type)

	_, err := time.Parse(time.RFC3339, wire.Timestamp)
	assert.NoError(t, err)
}

func TestSyncMessages(t *testing.T) {
	var got struct {
		SessionID string        `json:"sessionId"`
		Messages  []wireMessage `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"status":"synced","count":2}`)
	}))
	defer srv.Close()

	msgs := []domain.Message{
		domain.NewUserMessage("вопрос"),
		domain.NewAssistantMessage("ответ", nil),
	}
	testClient(srv).SyncMessages(context.Background(), "sess-1", msgs)

	assert.Equal(t, "sess-1", got.SessionID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "ai", got.Messages[1].Role)
}

func TestClearHistory(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "sess-1", r.URL.Query().Get("sessionId"))
		fmt.Fprint(w, `{"status":"cleared"}`)
	}))
	defer srv.Close()

	testClient(srv).ClearHistory(context.Background(), "sess-1")
	assert.True(t, called)
}

func TestRoundTripPreservesMessage(t *testing.T) {
	orig := domain.NewAssistantMessage("текст", []domain.Source{
		{ID: "s1", Title: "ГОСТ 14209", Kind: domain.SourceKindStandard, URL: "https://example.com/gost"},
	})

	back, err := wireToDomain(domainToWire(orig))
	require.NoError(t, err)

	assert.Equal(t, orig.ID, back.ID)
	assert.Equal(t, orig.Role, back.Role)
	assert.Equal(t, orig.Content, back.Content)
	assert.Equal(t, orig.Sources, back.Sources)
	// RFC 3339 keeps second precision only
	assert.WithinDuration(t, orig.CreatedAt, back.CreatedAt, time.Second)
}

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const defaultSessionID = "default"

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /sessions", s.handleSessions)
	mux.HandleFunc("GET /chat", s.handleGetChat)
	mux.HandleFunc("POST /chat", s.handlePostChat)
	mux.HandleFunc("DELETE /chat", s.handleDeleteChat)
	mux.HandleFunc("POST /assist", s.handleAssist)
	mux.HandleFunc("GET /ws", s.handleWS)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.Sessions()
	if err != nil {
		s.log.Error().Err(err).Msg("list sessions failed")
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	out := make([]wireSummary, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, summaryToWire(sum))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromQuery(r)
	rows, err := s.store.History(sessionID)
	if err != nil {
		s.log.Error().Err(err).Str("session", sessionID).Msg("load history failed")
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	out := make([]wireMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToWire(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

// chatRequest accepts either a single message to append or a full messages
// array that replaces the stored history for the session.
type chatRequest struct {
	SessionID string         `json:"sessionId"`
	Message   *wireMessage   `json:"message"`
	Messages  *[]wireMessage `json:"messages"`
}

func (s *Server) handlePostChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	switch {
	case req.Message != nil:
		row, err := wireToRow(*req.Message)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid message timestamp")
			return
		}
		count, err := s.store.Append(sessionID, row)
		if err != nil {
			s.log.Error().Err(err).Str("session", sessionID).Msg("append failed")
			writeError(w, http.StatusInternalServerError, "failed to append message")
			return
		}
		s.hub.broadcast(event{Type: "message.appended", SessionID: sessionID})
		writeJSON(w, http.StatusOK, map[string]any{"status": "appended", "count": count})

	case req.Messages != nil:
		converted, err := wiresToRows(*req.Messages)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid message timestamp")
			return
		}
		if err := s.store.Replace(sessionID, converted); err != nil {
			s.log.Error().Err(err).Str("session", sessionID).Msg("sync failed")
			writeError(w, http.StatusInternalServerError, "failed to sync messages")
			return
		}
		s.hub.broadcast(event{Type: "message.appended", SessionID: sessionID})
		writeJSON(w, http.StatusOK, map[string]any{"status": "synced", "count": len(converted)})

	default:
		writeError(w, http.StatusBadRequest, "message or messages is required")
	}
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromQuery(r)
	if err := s.store.Clear(sessionID); err != nil {
		s.log.Error().Err(err).Str("session", sessionID).Msg("clear failed")
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	s.hub.broadcast(event{Type: "history.cleared", SessionID: sessionID})
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleAssist forwards the prompt to the automation webhook and relays the
// raw JSON answer back to the caller.
func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		writeError(w, http.StatusServiceUnavailable, "webhook is not configured")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	var req struct {
		Prompt    string `json:"prompt"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	answer, err := s.assist.Generate(r.Context(), req.Prompt, req.SessionID)
	if err != nil {
		s.log.Error().Err(err).Msg("assist proxy failed")
		writeError(w, http.StatusBadGateway, "webhook request failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func sessionIDFromQuery(r *http.Request) string {
	if id := r.URL.Query().Get("sessionId"); id != "" {
		return id
	}
	return defaultSessionID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId"`
	At        time.Time `json:"at"`
}

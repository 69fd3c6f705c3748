package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
)

const writeDeadline = 10 * time.Second

// eventHub pushes store-change events to connected websocket clients so
// chat UIs can refresh their session list without polling.
type eventHub struct {
	log *logging.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newEventHub(log *logging.Logger) *eventHub {
	return &eventHub{
		log:   log.Sub("events"),
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *eventHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *eventHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	_ = c.Close()
}

// broadcast sends the event to every client. Clients that fail to accept
// the write are dropped.
func (h *eventHub) broadcast(ev event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := c.WriteJSON(ev); err != nil {
			h.log.Debug().Err(err).Msg("dropping slow websocket client")
			delete(h.conns, c)
			_ = c.Close()
		}
	}
}

func (h *eventHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		_ = c.Close()
		delete(h.conns, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin filtering happens in the CORS middleware
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.hub.add(conn)
	s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client connected")

	// Read loop exists only to observe the close; events flow one way.
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

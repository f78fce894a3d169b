package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 64
)

// WSHandler owns the battle WebSocket endpoint.
type WSHandler struct {
	router   *Router
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WSHandler. allowedOrigins takes the same value as
// the CORS middleware: "*" or a comma-separated origin list.
func NewWSHandler(router *Router, allowedOrigins string) *WSHandler {
	return &WSHandler{
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker builds the upgrade origin policy. Requests without an
// Origin header (non-browser clients) are always allowed; browser requests
// must match the configured list unless it is the wildcard.
func originChecker(allowedOrigins string) func(*http.Request) bool {
	if allowedOrigins == "*" {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]bool)
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return allowed[origin]
	}
}

// ServeWS handles GET /battle — upgrades to WebSocket and serves the
// connection until it closes. Identity arrives in-band via the Connect
// message, so the upgrade itself is unauthenticated.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	s := newSession(conn)
	log.Info().Str("session_id", s.id).Msg("WebSocket client connected")

	go h.writePump(s)
	h.readPump(s)
}

// readPump reads frames from the connection and feeds them to the router.
// Runs on the request goroutine; its exit triggers disconnect cleanup.
func (h *WSHandler) readPump(s *Session) {
	defer func() {
		h.router.Disconnect(s)
		s.closeSend()
		s.conn.Close()
		log.Info().Str("session_id", s.id).Msg("WebSocket client disconnected")
	}()

	s.conn.SetReadLimit(maxMsgSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session_id", s.id).Msg("WebSocket unexpected close")
			}
			return
		}
		h.router.HandleMessage(s, message)
	}
}

// writePump drains the session's send channel onto the socket and keeps
// the connection alive with pings.
func (h *WSHandler) writePump(s *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

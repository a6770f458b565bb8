package http

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// createUpgrader creates a WebSocket upgrader with proper origin validation
func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.isValidOrigin,
	}
}

// WebSocketClient represents a WebSocket client connection
type WebSocketClient struct {
	id        string
	sessionID string
	conn      *websocket.Conn
	send      chan ports.UpdateEvent
	manager   *ConnectionManager
	logger    *zap.Logger
}

// handleWebSocket upgrades the request and streams deck events. The optional
// session query parameter scopes the stream to one session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &WebSocketClient{
		id:        uuid.New().String(),
		sessionID: r.URL.Query().Get("session"),
		conn:      conn,
		send:      make(chan ports.UpdateEvent, 256),
		manager:   s.connMgr,
		logger:    s.logger,
	}

	// Queued before registration so the manager owns the channel from then on
	client.send <- ports.UpdateEvent{
		Type:      ports.EventTypeConnected,
		SessionID: client.sessionID,
		Timestamp: s.clock.Now(),
		Data: map[string]string{
			"message":   "Connected to promptdeck server",
			"client_id": client.id,
		},
	}

	if !s.connMgr.RegisterConnection(&Connection{ID: client.id, SessionID: client.sessionID, Send: client.send}) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	s.logger.Debug("websocket client connected",
		zap.String("client_id", client.id),
		zap.String("session_id", client.sessionID),
	)

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pongs and close frames are processed.
// Clients only listen; any payload they send is ignored.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.manager.Unregister(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket connection error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

// writePump pumps messages to the WebSocket connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The manager closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isValidOrigin validates WebSocket connection origins based on environment
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Same-origin and non-browser clients send no origin
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.logger.Warn("websocket connection rejected: invalid origin URL",
			zap.String("origin", origin), zap.Error(err))
		return false
	}

	if s.config.IsDevelopment() {
		return isDevelopmentOrigin(originURL)
	}

	return s.isProductionOrigin(originURL)
}

// isDevelopmentOrigin allows localhost and literal loopback or private
// network addresses. Host names other than localhost are never trusted.
func isDevelopmentOrigin(originURL *url.URL) bool {
	hostname := originURL.Hostname()
	if strings.EqualFold(hostname, "localhost") {
		return true
	}

	ip := net.ParseIP(hostname)
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
}

// isProductionOrigin checks the origin against the configured CORS origins
func (s *Server) isProductionOrigin(originURL *url.URL) bool {
	for _, allowed := range s.config.GetCORSOrigins() {
		if allowed == "*" || originURL.String() == allowed {
			return true
		}

		// *.example.com matches subdomains only
		if strings.HasPrefix(allowed, "*.") {
			if strings.HasSuffix(originURL.Hostname(), allowed[1:]) {
				return true
			}
		}
	}

	s.logger.Warn("websocket connection rejected: origin not in whitelist",
		zap.String("origin", originURL.String()),
		zap.Strings("allowed_origins", s.config.GetCORSOrigins()),
	)
	return false
}

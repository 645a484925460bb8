package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	ws "github.com/ayoubkhyati22/saas-school-management-sub002/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow list permits all origins (development mode). Requests
// without an Origin header come from non-browser clients and are allowed.
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(allowedOrigins) == 0 || origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams notification feed changes over WebSocket.
type WSHandler struct {
	subscriber service.NotificationSubscriber
	log        zerolog.Logger
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(subscriber service.NotificationSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		subscriber: subscriber,
		log:        log.With().Str("component", "ws_handler").Logger(),
		upgrader:   buildUpgrader(allowedOrigins),
		pingPeriod: ws.PingPeriod,
	}
}

// NotificationStream godoc
// WS /ws/notifications?token=<access token>
// Forwards the principal's feed events; answers {"action":"ping"} with pong.
func (h *WSHandler) NotificationStream(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	// Subscribe before upgrading so a broker failure is still a JSON 500.
	sub, err := h.subscriber.Subscribe(c.Request.Context(), claims.UserID)
	if err != nil {
		internalError(c, h.log, err, "notification subscribe failed")
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("user_id", claims.UserID.String()).Logger()
	wsLog.Info().Msg("Notification stream connected")

	ws.KeepAlive(conn)
	if err := ws.WriteTyped(conn, ws.ConnectedResponse{Event: ws.EventConnected, UserID: claims.UserID.String()}); err != nil {
		return
	}

	// The reader goroutine never writes; replies go through the loop below,
	// which is the connection's only writer.
	replies := make(chan interface{}, 8)
	done := make(chan struct{})
	go h.readLoop(conn, wsLog, replies, done)

	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case payload, ok := <-sub.Messages():
			if !ok {
				wsLog.Warn().Msg("Notification subscription closed")
				return
			}
			if err := ws.WriteRaw(conn, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, replies chan<- interface{}, done chan<- struct{}) {
	defer close(done)
	for {
		data, err := ws.ReadMessage(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var reply interface{}
		var msg ws.RequestEnvelope
		switch {
		case json.Unmarshal(data, &msg) != nil:
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "malformed message"}
		case msg.Action == ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}

		// A client flooding faster than the writer drains loses replies.
		select {
		case replies <- reply:
		default:
		}
	}
}

package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only client frame shape: an action name.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

// Feed events (notification.read, ...) are forwarded verbatim from the
// publisher and are not listed here.
type Event string

const (
	EventConnected Event = "connected"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

type ConnectedResponse struct {
	Event  Event  `json:"event"`
	UserID string `json:"userId"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

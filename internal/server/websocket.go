package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/msto63/yarnscan/internal/analyzer"
	"github.com/msto63/yarnscan/pkg/core/logging"
)

const readTimeout = 120 * time.Second


// Message types
const (
	TypeTokenize = "tokenize"
	TypePing     = "ping"
	TypeTokens   = "tokens"
	TypePong     = "pong"
	TypeError    = "error"
)

// WSMessage is a client request
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSTokenizePayload is the payload of a tokenize request
type WSTokenizePayload struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// WSResponse is a server reply
type WSResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSTokensPayload carries the result of a tokenize request
type WSTokensPayload struct {
	RunID    string            `json:"run_id"`
	Tokens   []tokenizer.Token `json:"tokens"`
	MaxDepth int               `json:"max_depth"`
	Balanced bool              `json:"balanced"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler tokenizes sources sent over a WebSocket connection
type WebSocketHandler struct {
	analyzer *analyzer.Service
	logger   *logging.Logger
	upgrader websocket.Upgrader
	origins  map[string]bool
}

// NewWebSocketHandler creates a new WebSocket handler. Browsers may connect
// from the server's own origin or one of allowedOrigins; requests without
// an Origin header come from non-browser clients and are accepted.
func NewWebSocketHandler(svc *analyzer.Service, logger *logging.Logger, allowedOrigins ...string) *WebSocketHandler {
	if logger == nil {
		logger = logging.Wrap(nil, "websocket")
	}
	h := &WebSocketHandler{
		analyzer: svc,
		logger:   logger,
		origins:  make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.origins[strings.ToLower(strings.TrimSuffix(origin, "/"))] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.origins[strings.ToLower(origin)] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h.logger.Warn("WebSocket origin rejected", "origin", origin, "host", r.Host)
	return false
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

func (h *WebSocketHandler) handleConnection(parent context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	defer cancel()

	send := func(resp WSResponse) {
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Warn("WebSocket write failed", "error", err)
		}
	}

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case TypePing:
			send(WSResponse{Type: TypePong})

		case TypeTokenize:
			var payload WSTokenizePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				send(errorResponse("invalid_payload", "invalid tokenize payload"))
				continue
			}
			send(h.tokenize(ctx, payload))

		default:
			send(errorResponse("unknown_type", "unknown message type: "+msg.Type))
		}
	}
}

func (h *WebSocketHandler) tokenize(ctx context.Context, payload WSTokenizePayload) WSResponse {
	name := payload.Name
	if name == "" {
		name = "<websocket>"
	}

	report, err := h.analyzer.Analyze(ctx, name, payload.Source)
	if err != nil {
		h.logger.Warn("WebSocket tokenize failed", "source", name, "error", err)
		return errorResponse(string(mdwerror.GetCode(err)), err.Error())
	}
	return WSResponse{
		Type: TypeTokens,
		Payload: WSTokensPayload{
			RunID:    report.RunID,
			Tokens:   report.Tokens,
			MaxDepth: report.MaxDepth,
			Balanced: report.Balanced,
		},
	}
}

func errorResponse(code, message string) WSResponse {
	return WSResponse{Type: TypeError, Payload: WSErrorPayload{Code: code, Message: message}}
}

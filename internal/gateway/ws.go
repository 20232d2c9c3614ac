package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WSMessage is the JSON message protocol for the WebSocket gateway.
// Inbound: {"type": "tool_call", "name": "get_stock_price", "arguments": {"symbol": "TCS"}}
// Outbound: {"type": "tool_result", "name": ..., "content": ...} or {"type": "error", "content": ...}
type WSMessage struct {
	Type      string         `json:"type"`
	Name      string         `json:"name,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Content   string         `json:"content,omitempty"`
}

// Default upgrader for WebSocket connections.
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request to WebSocket and runs a read loop, answering
// tool_call frames on the same connection. Dispatch errors (unknown tool) are
// reported as error frames; user-level failures arrive as ordinary
// tool_result text, same as over HTTP. Writes are serialized with a mutex.
// Only GET is accepted for the handshake.
func HandleWS(w http.ResponseWriter, r *http.Request, svc ToolService) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var in WSMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			writeWSMessage(conn, &writeMu, &WSMessage{Type: "error", Content: "invalid JSON"})
			continue
		}
		if in.Type != "tool_call" {
			writeWSMessage(conn, &writeMu, &WSMessage{Type: "error", Content: "unsupported message type: " + in.Type})
			continue
		}

		text, err := svc.Dispatch(r.Context(), in.Name, in.Arguments)
		if err != nil {
			writeWSMessage(conn, &writeMu, &WSMessage{Type: "error", Name: in.Name, Content: err.Error()})
			continue
		}
		writeWSMessage(conn, &writeMu, &WSMessage{Type: "tool_result", Name: in.Name, Content: text})
	}
}

func writeWSMessage(conn *websocket.Conn, mu *sync.Mutex, msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

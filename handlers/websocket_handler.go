package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/scrimhub/scrimhub/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeScrim upgrades the connection and joins the client to the scrim's
// room. Everything after the upgrade is push-only: the client receives
// result and scrim events until it disconnects.
func (h *WebSocketHandler) ServeScrim(w http.ResponseWriter, r *http.Request) {
	scrimID := chi.URLParam(r, "scrimID")
	if scrimID == "" {
		http.Error(w, "missing scrimID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.String("scrim_id", scrimID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, scrimID)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

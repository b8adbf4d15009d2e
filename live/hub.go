// Package live pushes scrim updates to connected scoreboard pages over
// websockets. Clients join a per-scrim room; result submissions are
// broadcast to that room so open pages refresh without polling.
package live

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
)

const (
	EventMatchResultSaved = "MATCH_RESULT_SAVED"
	EventScrimUpdated     = "SCRIM_UPDATED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if roomClients, ok := h.rooms[client.Room]; ok {
				if _, okClient := roomClients[client]; okClient {
					client.closeSend()
					delete(roomClients, client)
					if len(roomClients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToScrim sends an event to every client watching the scrim.
// A slow client whose buffer is full is skipped rather than blocking the
// rest of the room.
func (h *Hub) BroadcastToScrim(scrimID int, eventType string, payload interface{}) {
	roomID := strconv.Itoa(scrimID)
	messageBytes, err := json.Marshal(Message{Type: eventType, Payload: payload, RoomID: roomID})
	if err != nil {
		log.Printf("live: failed to marshal %s event for scrim %d: %v", eventType, scrimID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			log.Printf("live: client send buffer full for scrim %d, skipping", scrimID)
		}
		client.Mu.Unlock()
	}
}

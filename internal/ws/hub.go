package ws

import (
	"encoding/json"
	"sync"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/logger"
)

// Hub routes engine events to connected sockets. One room per game id; the
// engine stays transport-blind and talks to the Hub through the Emitter
// interface it defines.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.GameID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[c.GameID] = room
	}
	room[c] = true
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.GameID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.GameID)
	}
}

// Clients reports how many sockets are attached to a game.
func (h *Hub) Clients(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

// Emit broadcasts an engine event to every socket in the game's room.
func (h *Hub) Emit(gameID, event string, payload any) {
	msg, err := frame(event, payload)
	if err != nil {
		logger.Error("ws frame failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[gameID] {
		c.push(msg)
	}
}

// EmitTo delivers a private event to every socket a color has open.
func (h *Hub) EmitTo(gameID, color, event string, payload any) {
	msg, err := frame(event, payload)
	if err != nil {
		logger.Error("ws frame failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[gameID] {
		if c.Color == color {
			c.push(msg)
		}
	}
}

func frame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: event, Data: data})
}

package ws

import (
	"encoding/json"
	"time"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/game"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Core is the slice of the engine the transport needs. The concrete engine
// satisfies it; tests swap in fakes.
type Core interface {
	StartGame(id string) error
	ProposeCollab(id, proposer string) error
	VoteCollab(id, choice, voter string) error
	SubmitAbility(id, actor string, ability game.Ability, target string) error
	SubmitVote(id, voter, target string) error
	SaveNote(id, color, text string) error
	EndPhaseEarly(id string) error
	Snapshot(id, viewer string) (map[string]any, error)
}

// Client is one authenticated socket, bound to a single seat in a single
// game for its whole lifetime.
type Client struct {
	GameID string
	Color  string
	Send   chan []byte

	conn *websocket.Conn
	hub  *Hub
	core Core
	Done chan struct{}
}

func NewClient(gameID, color string, conn *websocket.Conn, hub *Hub, core Core) *Client {
	return &Client{
		GameID: gameID,
		Color:  color,
		Send:   make(chan []byte, 256),
		conn:   conn,
		hub:    hub,
		core:   core,
		Done:   make(chan struct{}),
	}
}

// Run attaches the client to its room, replays the current state and blocks
// until the socket dies.
func (c *Client) Run() {
	go c.writePump()

	c.hub.join(c)

	// the socket starts with a full private snapshot, so reconnecting
	// mid-match needs no extra protocol
	if snap, err := c.core.Snapshot(c.GameID, c.Color); err == nil {
		if msg, err := frame("joined", snap); err == nil {
			c.push(msg)
		}
	}

	c.readPump()
}

// push queues a frame without blocking. A client that can't drain 256
// messages is beyond saving; dropping beats stalling the whole room.
func (c *Client) push(msg []byte) {
	select {
	case c.Send <- msg:
	default:
		logger.Warn("ws send buffer full, dropping frame", "game", c.GameID, "color", c.Color)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		close(c.Done)
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "game", c.GameID, "color", c.Color, "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.fail("malformed message")
		return
	}

	var err error
	switch env.Type {
	case MsgPing:
		if msg, ferr := frame(MsgPong, nil); ferr == nil {
			c.push(msg)
		}
		return

	case MsgJoin:
		// idempotent resync: the seat is already bound by the token
		var snap map[string]any
		if snap, err = c.core.Snapshot(c.GameID, c.Color); err == nil {
			if msg, ferr := frame("joined", snap); ferr == nil {
				c.push(msg)
			}
		}

	case MsgStartGame:
		err = c.core.StartGame(c.GameID)

	case MsgProposeCollab:
		err = c.core.ProposeCollab(c.GameID, c.Color)

	case MsgVoteCollab:
		var p VoteCollabPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.core.VoteCollab(c.GameID, p.Choice, c.Color)
		}

	case MsgSubmitAbility:
		var p AbilityPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.core.SubmitAbility(c.GameID, c.Color, game.Ability(p.Ability), p.Target)
		}

	case MsgSubmitVote:
		var p VotePayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.core.SubmitVote(c.GameID, c.Color, p.Target)
		}

	case MsgSaveNote:
		var p NotePayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.core.SaveNote(c.GameID, c.Color, p.Text)
		}

	case MsgEndPhase:
		err = c.core.EndPhaseEarly(c.GameID)

	default:
		c.fail("unknown message type: " + env.Type)
		return
	}

	if err != nil {
		c.fail(err.Error())
	}
}

func (c *Client) fail(message string) {
	if msg, err := frame(MsgError, ErrorPayload{Message: message}); err == nil {
		c.push(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) disconnect() {
	c.hub.leave(c)
	_ = c.conn.Close()
}

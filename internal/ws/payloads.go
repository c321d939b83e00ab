package ws

import "encoding/json"

// client -> server message types
const (
	MsgJoin          = "join"
	MsgStartGame     = "start_game"
	MsgProposeCollab = "propose_collab"
	MsgVoteCollab    = "vote_collab"
	MsgSubmitAbility = "submit_ability"
	MsgSubmitVote    = "submit_vote"
	MsgSaveNote      = "save_note"
	MsgEndPhase      = "end_phase"
	MsgPing          = "ping"
)

// server -> client, outside the engine's event set
const (
	MsgError = "error"
	MsgPong  = "pong"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type VoteCollabPayload struct {
	Choice string `json:"choice"` // proposal id or "skip"
}

type AbilityPayload struct {
	Ability string `json:"ability"`
	Target  string `json:"target"`
}

type VotePayload struct {
	Target string `json:"target"`
}

type NotePayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

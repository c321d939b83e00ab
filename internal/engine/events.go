package engine

// Outbound event names, delivered to clients over the per-game broadcast
// channel. The set and payload semantics are the contract; transports may
// rename fields but not drop occurrences.
const (
	EvtJoined            = "joined"
	EvtPhaseChanged      = "phase_changed"
	EvtCollabProposed    = "collab_proposed"
	EvtCollabVoteUpdated = "collab_vote_updated"
	EvtCollabResolved    = "collab_resolved"
	EvtEventDrawn        = "event_drawn"
	EvtVoteUpdated       = "vote_updated"
	EvtRoundResolved     = "round_resolved"
	EvtGameOver          = "game_over"
	EvtAbilityUsed       = "ability_used"
	EvtNoteSaved         = "note_saved"
	EvtChat              = "chat"
)

// Emitter is the transport boundary. The engine never talks to sockets.
type Emitter interface {
	// Emit broadcasts to every participant of a game.
	Emit(gameID, event string, payload any)
	// EmitTo delivers to a single participant (private payloads).
	EmitTo(gameID, color, event string, payload any)
}

// NopEmitter drops everything; used in tests and tooling.
type NopEmitter struct{}

func (NopEmitter) Emit(string, string, any)           {}
func (NopEmitter) EmitTo(string, string, string, any) {}

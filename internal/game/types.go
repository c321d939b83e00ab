package game

import "time"

// Phase is the authoritative state of a session. Transitions happen only
// through the engine's state machine.
type Phase string

const (
	PhaseStarting       Phase = "STARTING"
	PhaseCollabProposal Phase = "COLLAB_PROPOSAL"
	PhaseCollabVoting   Phase = "COLLAB_VOTING"
	PhaseDM             Phase = "DM_PHASE"
	PhaseAction         Phase = "ACTION_PHASE"
	PhaseGameOver       Phase = "GAME_OVER"
)

type Role string

const (
	RoleViber  Role = "viber"
	RoleDoomer Role = "doomer"
)

type Ability string

const (
	AbilityAttack            Ability = "attack"
	AbilityHeal              Ability = "heal"
	AbilityDefend            Ability = "defend"
	AbilitySabotage          Ability = "sabotage"
	AbilityInvisibleSabotage Ability = "invisibleSabotage"
)

// Abilities lists every playable ability; used for validation instead of a
// string switch.
var Abilities = map[Ability]bool{
	AbilityAttack:            true,
	AbilityHeal:              true,
	AbilityDefend:            true,
	AbilitySabotage:          true,
	AbilityInvisibleSabotage: true,
}

const (
	MaxPlayers = 8
	MaxVibe    = 2
	// AuraFloor is the cumulative aura at (or below) which a player is cancelled.
	AuraFloor = -5.0
	// OverlordAura is the aura needed to win outright.
	OverlordAura = 10.0
)

// AbilityUse is one actor's pending ability for the current round.
// Resubmission overwrites (last write wins).
type AbilityUse struct {
	Ability Ability `json:"ability"`
	Target  string  `json:"target"`
}

// CollabProposal is a pending collab for the current round. A color backs at
// most one proposal (or the skip set) at any time.
type CollabProposal struct {
	ID        string    `json:"id"`
	Proposer  string    `json:"proposer"`
	Votes     []string  `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// BotMemory is a bot's private view of the table, updated as rounds resolve.
type BotMemory struct {
	Allies        map[string]bool    `json:"allies"`
	Enemies       map[string]bool    `json:"enemies"`
	Suspicions    map[string]float64 `json:"suspicions"`
	CollabHistory []string           `json:"collab_history"`
}

func NewBotMemory() *BotMemory {
	return &BotMemory{
		Allies:     make(map[string]bool),
		Enemies:    make(map[string]bool),
		Suspicions: make(map[string]float64),
	}
}

type Player struct {
	Color string  `json:"color"`
	Name  string  `json:"name"`
	Role  Role    `json:"role"`
	Alive bool    `json:"alive"`
	Aura  float64 `json:"aura"`
	Vibe  int     `json:"vibe"`
	Note  string  `json:"note"`

	// BuffedAttack marks a doomer whose next unblocked attack deals double
	// vibe damage (set by a wrong heal, cleared when consumed).
	BuffedAttack bool `json:"buffed_attack"`

	IsBot       bool       `json:"is_bot"`
	Personality string     `json:"personality,omitempty"`
	Memory      *BotMemory `json:"-"`
}

// RoundEvent is the modifier drawn between DM and action phases. Drawing one
// has no side effects beyond the selection itself.
type RoundEvent struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StatDelta is one resolver-produced change, applied atomically by the caller.
type StatDelta struct {
	Color      string  `json:"color"`
	Aura       float64 `json:"aura,omitempty"`
	Vibe       int     `json:"vibe,omitempty"`
	Eliminated bool    `json:"eliminated,omitempty"`
	Reason     string  `json:"reason"`
}

// Narrative is a resolver-side event for the round feed. Hidden entries are
// anonymized before they reach the transport.
type Narrative struct {
	Kind   string `json:"kind"`
	Actor  string `json:"actor,omitempty"`
	Target string `json:"target,omitempty"`
	Text   string `json:"text"`
	Hidden bool   `json:"hidden,omitempty"`
}

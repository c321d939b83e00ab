package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Session is the single source of truth for one match. All mutation goes
// through store.Update so concurrent writers never interleave.
type Session struct {
	ID    string `json:"id"`
	Phase Phase  `json:"phase"`
	Round int    `json:"round"`

	// Epoch bumps on every phase change. Deferred callbacks capture it and
	// no-op when it no longer matches (stale timer firing after an advance).
	Epoch int `json:"-"`

	PhaseDeadline *time.Time `json:"phase_deadline,omitempty"`

	Players []*Player `json:"players"`

	CollabProposals []*CollabProposal `json:"collab_proposals"`
	CurrentCollab   *CollabProposal   `json:"current_collab,omitempty"`
	CollabHost      string            `json:"collab_host,omitempty"`
	SkipVoters      map[string]bool   `json:"skip_voters"`

	Abilities map[string]AbilityUse `json:"abilities"`
	Votes     map[string]string     `json:"votes"`

	CurrentEvent *RoundEvent `json:"current_event,omitempty"`
	Winners      []string    `json:"winners"`

	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type Seat struct {
	Color       string
	Name        string
	IsBot       bool
	Personality string
}

// DoomerCount returns how many doomers a roster of n players gets.
// Exactly 2 for a 7-8 player table.
func DoomerCount(n int) int {
	if n >= 7 {
		return 2
	}
	if n/4 < 1 {
		return 1
	}
	return n / 4
}

// NewSession builds a session with shuffled roles and starting stats.
// Role assignment happens here, before any action is possible, and is
// immutable afterwards. rng must not be nil.
func NewSession(id string, seats []Seat, rng *rand.Rand) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	players := make([]*Player, 0, len(seats))
	for _, s := range seats {
		p := &Player{
			Color: s.Color,
			Name:  s.Name,
			Role:  RoleViber,
			Alive: true,
			Vibe:  MaxVibe,
			IsBot: s.IsBot,
		}
		if s.IsBot {
			p.Personality = s.Personality
			p.Memory = NewBotMemory()
		}
		players = append(players, p)
	}

	s := &Session{
		ID:         id,
		Phase:      PhaseStarting,
		Round:      1,
		Players:    players,
		SkipVoters: make(map[string]bool),
		Abilities:  make(map[string]AbilityUse),
		Votes:      make(map[string]string),
		CreatedAt:  time.Now(),
	}
	s.DealRoles(rng)
	return s
}

// DealRoles shuffles role assignment over the current roster. Runs at
// creation and once more when the lobby closes (late joiners), never after
// the first phase starts.
func (s *Session) DealRoles(rng *rand.Rand) {
	for _, p := range s.Players {
		p.Role = RoleViber
	}
	// deal doomers by shuffled index so seat order never leaks roles
	idx := rng.Perm(len(s.Players))
	for i := 0; i < DoomerCount(len(s.Players)) && i < len(idx); i++ {
		s.Players[idx[i]].Role = RoleDoomer
	}
}

func (s *Session) PlayerByColor(color string) *Player {
	for _, p := range s.Players {
		if p.Color == color {
			return p
		}
	}
	return nil
}

func (s *Session) AlivePlayers() []*Player {
	out := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) ProposalByID(id string) *CollabProposal {
	for _, c := range s.CollabProposals {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Session) ProposalByProposer(color string) *CollabProposal {
	for _, c := range s.CollabProposals {
		if c.Proposer == color {
			return c
		}
	}
	return nil
}

// ClearRound wipes the per-round collections. Called exactly once per round
// boundary, after resolver output has been applied.
func (s *Session) ClearRound() {
	s.CollabProposals = nil
	s.CurrentCollab = nil
	s.CollabHost = ""
	s.CurrentEvent = nil
	s.SkipVoters = make(map[string]bool)
	s.Abilities = make(map[string]AbilityUse)
	s.Votes = make(map[string]string)
}

// ApplyDeltas folds resolver output into player stats. Unknown colors are
// skipped; a malformed delta must not take the session down.
func (s *Session) ApplyDeltas(deltas []StatDelta) {
	for _, d := range deltas {
		p := s.PlayerByColor(d.Color)
		if p == nil {
			continue
		}
		p.Aura += d.Aura
		p.Vibe += d.Vibe
		if p.Vibe > MaxVibe {
			p.Vibe = MaxVibe
		}
		if p.Vibe < 0 {
			p.Vibe = 0
		}
		if d.Eliminated {
			p.Alive = false
		}
	}
}

// ApplyRoundResult applies an action-phase result: stat deltas first, then
// the double-damage flag bookkeeping (consume before grant, so a buff earned
// this round only affects the next one).
func (s *Session) ApplyRoundResult(res RoundResult) {
	s.ApplyDeltas(res.Deltas)
	for _, c := range res.BuffsConsumed {
		if p := s.PlayerByColor(c); p != nil {
			p.BuffedAttack = false
		}
	}
	for _, c := range res.BuffsGranted {
		if p := s.PlayerByColor(c); p != nil {
			p.BuffedAttack = true
		}
	}
}

// playerView is what one participant is allowed to see of another.
type playerView struct {
	Color string  `json:"color"`
	Name  string  `json:"name"`
	Alive bool    `json:"alive"`
	Aura  float64 `json:"aura"`
	Vibe  int     `json:"vibe"`
	IsBot bool    `json:"is_bot"`

	// self only
	Role Role   `json:"role,omitempty"`
	Note string `json:"note,omitempty"`
}

// Snapshot returns the session scoped to viewer: role and note are private
// to their owner until the game is over.
func (s *Session) Snapshot(viewer string) map[string]any {
	players := make([]playerView, 0, len(s.Players))
	for _, p := range s.Players {
		v := playerView{
			Color: p.Color,
			Name:  p.Name,
			Alive: p.Alive,
			Aura:  p.Aura,
			Vibe:  p.Vibe,
			IsBot: p.IsBot,
		}
		if p.Color == viewer || s.Phase == PhaseGameOver {
			v.Role = p.Role
		}
		if p.Color == viewer {
			v.Note = p.Note
		}
		players = append(players, v)
	}

	return map[string]any{
		"id":               s.ID,
		"phase":            s.Phase,
		"round":            s.Round,
		"phase_deadline":   s.PhaseDeadline,
		"players":          players,
		"collab_proposals": s.CollabProposals,
		"current_collab":   s.CurrentCollab,
		"collab_host":      s.CollabHost,
		"current_event":    s.CurrentEvent,
		"winners":          s.Winners,
	}
}

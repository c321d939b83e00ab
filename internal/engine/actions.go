package engine

import (
	"time"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/bot"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/game"

	"github.com/google/uuid"
)

// Inbound operations. Human input over the transport and bot timers land on
// the same functions: there is no separate write path for bots.

// Join attaches a participant during STARTING and returns their private
// snapshot of the session.
func (e *Engine) Join(id, color, name string) (map[string]any, error) {
	var snap map[string]any
	err := e.store.Update(id, func(s *game.Session) error {
		if s.Phase != game.PhaseStarting {
			// rejoin of a seated player is fine at any point
			if s.PlayerByColor(color) != nil {
				snap = s.Snapshot(color)
				return nil
			}
			return ErrWrongPhase
		}
		if s.PlayerByColor(color) != nil {
			return ErrColorTaken
		}
		if len(s.Players) >= game.MaxPlayers {
			return ErrGameFull
		}
		if !validColor(color) {
			return ErrUnknownPlayer
		}
		s.Players = append(s.Players, &game.Player{
			Color: color, Name: name, Role: game.RoleViber,
			Alive: true, Vibe: game.MaxVibe,
		})
		// role shuffle re-runs in StartGame to cover this late seat
		snap = s.Snapshot(color)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func validColor(color string) bool {
	for _, c := range palette {
		if c == color {
			return true
		}
	}
	return false
}

// ProposeCollab floats a collab. A second proposal from the same color in
// the same round is ignored and the original stands.
func (e *Engine) ProposeCollab(id, proposer string) error {
	return e.store.Update(id, func(s *game.Session) error {
		return e.proposeLocked(s, proposer)
	})
}

func (e *Engine) proposeLocked(s *game.Session, proposer string) error {
	if s.Phase != game.PhaseCollabProposal {
		return ErrWrongPhase
	}
	p := s.PlayerByColor(proposer)
	if p == nil || !p.Alive {
		return ErrUnknownPlayer
	}
	if s.ProposalByProposer(proposer) != nil {
		return nil // duplicate, keep the original
	}

	s.CollabProposals = append(s.CollabProposals, &game.CollabProposal{
		ID:        uuid.NewString(),
		Proposer:  proposer,
		CreatedAt: time.Now(),
	})

	e.emit.Emit(s.ID, EvtCollabProposed, map[string]any{
		"proposals": s.CollabProposals,
		"skipped":   keys(s.SkipVoters),
	})
	return nil
}

// VoteCollab moves the voter's support to one proposal (or the skip set),
// clearing whatever they backed before.
func (e *Engine) VoteCollab(id, choice, voter string) error {
	return e.store.Update(id, func(s *game.Session) error {
		return e.voteCollabLocked(s, choice, voter)
	})
}

func (e *Engine) voteCollabLocked(s *game.Session, choice, voter string) error {
	if s.Phase != game.PhaseCollabVoting {
		return ErrWrongPhase
	}
	p := s.PlayerByColor(voter)
	if p == nil || !p.Alive {
		return ErrUnknownPlayer
	}

	// a color backs at most one proposal or the skip set
	delete(s.SkipVoters, voter)
	for _, c := range s.CollabProposals {
		c.Votes = remove(c.Votes, voter)
	}

	if choice == bot.SkipVote {
		s.SkipVoters[voter] = true
	} else {
		c := s.ProposalByID(choice)
		if c == nil {
			return ErrUnknownProposal
		}
		c.Votes = append(c.Votes, voter)
	}

	e.emit.Emit(s.ID, EvtCollabVoteUpdated, map[string]any{
		"proposals": s.CollabProposals,
		"skipped":   keys(s.SkipVoters),
	})
	return nil
}

// SubmitAbility records an actor's ability for the round, last write wins.
func (e *Engine) SubmitAbility(id, actor string, ability game.Ability, target string) error {
	return e.store.Update(id, func(s *game.Session) error {
		return e.submitAbilityLocked(s, actor, ability, target)
	})
}

func (e *Engine) submitAbilityLocked(s *game.Session, actor string, ability game.Ability, target string) error {
	if s.Phase != game.PhaseDM {
		return ErrWrongPhase
	}
	if !game.Abilities[ability] {
		return ErrInvalidAbility
	}
	a := s.PlayerByColor(actor)
	t := s.PlayerByColor(target)
	if a == nil || !a.Alive || t == nil || !t.Alive {
		return ErrUnknownPlayer
	}

	s.Abilities[actor] = game.AbilityUse{Ability: ability, Target: target}

	// the target's bot gets suspicious, unless the move was invisible
	if t.IsBot && actor != target && ability != game.AbilityInvisibleSabotage {
		bot.Observe(t.Memory, bot.EventAbilityUsedOnMe, actor)
	}

	// toast the actor only; abilities stay secret until resolution
	e.emit.EmitTo(s.ID, actor, EvtAbilityUsed, map[string]any{
		"ability": ability,
		"target":  target,
	})
	return nil
}

// SubmitVote records an elimination vote, last write wins.
func (e *Engine) SubmitVote(id, voter, target string) error {
	return e.store.Update(id, func(s *game.Session) error {
		return e.submitVoteLocked(s, voter, target)
	})
}

func (e *Engine) submitVoteLocked(s *game.Session, voter, target string) error {
	if s.Phase != game.PhaseAction {
		return ErrWrongPhase
	}
	v := s.PlayerByColor(voter)
	t := s.PlayerByColor(target)
	if v == nil || !v.Alive || t == nil || !t.Alive {
		return ErrUnknownPlayer
	}

	s.Votes[voter] = target

	tally := make(map[string]int)
	for _, tgt := range s.Votes {
		tally[tgt]++
	}
	e.emit.Emit(s.ID, EvtVoteUpdated, map[string]any{"tally": tally})
	return nil
}

// SaveNote stores a player's private scratch text. No resolution impact.
func (e *Engine) SaveNote(id, color, text string) error {
	return e.store.Update(id, func(s *game.Session) error {
		p := s.PlayerByColor(color)
		if p == nil {
			return ErrUnknownPlayer
		}
		p.Note = text
		e.emit.EmitTo(s.ID, color, EvtNoteSaved, map[string]any{"note": text})
		return nil
	})
}

// Snapshot returns the session scoped to one viewer.
func (e *Engine) Snapshot(id, viewer string) (map[string]any, error) {
	var snap map[string]any
	err := e.store.Update(id, func(s *game.Session) error {
		snap = s.Snapshot(viewer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

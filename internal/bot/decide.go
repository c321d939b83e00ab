package bot

import (
	"math/rand"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/game"
)

// SkipVote is the collab-vote choice meaning "sit this one out".
const SkipVote = "skip"

// scoreFloor is the minimum collab score worth backing; below it a bot skips.
const scoreFloor = 10.0

// Every decision function here is pure given (session snapshot, rng): no
// package state, no wall clock. Same seed + same snapshot = same choice,
// which is what makes bot behavior reproducible in tests.

// ShouldPropose rolls whether a bot floats a collab this phase. The base
// chance shifts with desperation: low aura and a thinning table push bots to
// propose, a comfortable lead makes them coast.
func ShouldPropose(s *game.Session, self *game.Player, rng *rand.Rand) bool {
	if s.ProposalByProposer(self.Color) != nil {
		return false // one proposal per color at a time
	}

	chance := ProfileFor(self.Personality).ProposeChance
	if self.Aura < 3 {
		chance += 0.15
	}
	if self.Aura > 7 {
		chance -= 0.10
	}
	if len(s.AlivePlayers()) <= 4 {
		chance += 0.10
	}

	return rng.Float64() < chance
}

// ChooseCollabVote picks a proposal ID to back, or SkipVote.
func ChooseCollabVote(s *game.Session, self *game.Player, rng *rand.Rand) string {
	profile := ProfileFor(self.Personality)

	var options []*game.CollabProposal
	for _, c := range s.CollabProposals {
		if c.Proposer != self.Color {
			options = append(options, c)
		}
	}
	if len(options) == 0 {
		return SkipVote
	}

	if profile.Chaotic {
		// uniform over every proposal plus skip
		i := rng.Intn(len(options) + 1)
		if i == len(options) {
			return SkipVote
		}
		return options[i].ID
	}

	if profile.Cautious && rng.Float64() < profile.SkipChance {
		return SkipVote
	}

	bandwagon := 5.0
	if profile.Social || profile.Opportunistic {
		bandwagon = 10.0
	}

	best, bestScore := "", scoreFloor
	mem := self.Memory
	for _, c := range options {
		score := 0.0
		if mem != nil && mem.Allies[c.Proposer] {
			score += 30
		}
		if mem != nil && mem.Enemies[c.Proposer] {
			score -= 40
		}
		if p := s.PlayerByColor(c.Proposer); p != nil {
			score += 3 * p.Aura
		}
		score += bandwagon * float64(len(c.Votes))

		if score > bestScore {
			best, bestScore = c.ID, score
		}
	}

	if best == "" {
		return SkipVote
	}
	return best
}

// ChooseVoteTarget picks whom to vote out during the action phase.
// Returns "" when there is nobody to vote for.
func ChooseVoteTarget(s *game.Session, self *game.Player, rng *rand.Rand) string {
	profile := ProfileFor(self.Personality)

	var candidates []*game.Player
	for _, p := range s.Players {
		if p.Alive && p.Color != self.Color {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	if profile.Chaotic {
		return candidates[rng.Intn(len(candidates))].Color
	}

	auraWeight := 10.0
	if profile.Aggressive {
		auraWeight = 15.0
	}
	if profile.Opportunistic {
		auraWeight = -10.0 // hunt the weak instead of the strong
	}

	mem := self.Memory
	best, bestScore := "", 0.0
	for _, p := range candidates {
		score := auraWeight * p.Aura
		if mem != nil {
			if mem.Enemies[p.Color] {
				score += 50
			}
			if mem.Allies[p.Color] {
				score -= 100
			}
			score += 20 * mem.Suspicions[p.Color]
		}
		if best == "" || score > bestScore {
			best, bestScore = p.Color, score
		}
	}
	return best
}

// targeters is the style dispatch table for ChooseAbility.
var targeters = map[TargetStyle]func(*game.Session, *game.Player, *rand.Rand) (game.AbilityUse, bool){
	StyleOffensive:    targetOffensive,
	StyleDefensive:    targetDefensive,
	StyleTactical:     targetTactical,
	StyleSupportive:   targetSupportive,
	StyleExploitative: targetExploitative,
	StyleOptimal:      targetOptimal,
	StyleProtective:   targetProtective,
	StyleRandom:       targetRandom,
}

// ChooseAbility picks the bot's ability submission for the round.
func ChooseAbility(s *game.Session, self *game.Player, rng *rand.Rand) (game.AbilityUse, bool) {
	fn, ok := targeters[ProfileFor(self.Personality).Style]
	if !ok {
		fn = targetRandom
	}
	return fn(s, self, rng)
}

func othersAlive(s *game.Session, self *game.Player) []*game.Player {
	var out []*game.Player
	for _, p := range s.Players {
		if p.Alive && p.Color != self.Color {
			out = append(out, p)
		}
	}
	return out
}

func highestAura(players []*game.Player) *game.Player {
	var best *game.Player
	for _, p := range players {
		if best == nil || p.Aura > best.Aura {
			best = p
		}
	}
	return best
}

func lowestAura(players []*game.Player) *game.Player {
	var best *game.Player
	for _, p := range players {
		if best == nil || p.Aura < best.Aura {
			best = p
		}
	}
	return best
}

// strike is the role-appropriate way to hit someone.
func strike(self *game.Player, target string) game.AbilityUse {
	if self.Role == game.RoleDoomer {
		return game.AbilityUse{Ability: game.AbilityAttack, Target: target}
	}
	return game.AbilityUse{Ability: game.AbilitySabotage, Target: target}
}

func targetOffensive(s *game.Session, self *game.Player, _ *rand.Rand) (game.AbilityUse, bool) {
	t := highestAura(othersAlive(s, self))
	if t == nil {
		return game.AbilityUse{}, false
	}
	return strike(self, t.Color), true
}

func targetDefensive(s *game.Session, self *game.Player, _ *rand.Rand) (game.AbilityUse, bool) {
	if self.Memory != nil {
		for _, p := range othersAlive(s, self) {
			if self.Memory.Allies[p.Color] {
				return game.AbilityUse{Ability: game.AbilityDefend, Target: p.Color}, true
			}
		}
	}
	return game.AbilityUse{Ability: game.AbilityDefend, Target: self.Color}, true
}

func targetTactical(s *game.Session, self *game.Player, rng *rand.Rand) (game.AbilityUse, bool) {
	if self.Aura < 4 {
		return game.AbilityUse{Ability: game.AbilityDefend, Target: self.Color}, true
	}
	return targetOffensive(s, self, rng)
}

func targetSupportive(s *game.Session, self *game.Player, _ *rand.Rand) (game.AbilityUse, bool) {
	var hurt *game.Player
	for _, p := range othersAlive(s, self) {
		if p.Vibe < game.MaxVibe && (hurt == nil || p.Vibe < hurt.Vibe) {
			hurt = p
		}
	}
	if hurt != nil {
		return game.AbilityUse{Ability: game.AbilityHeal, Target: hurt.Color}, true
	}
	return game.AbilityUse{Ability: game.AbilityDefend, Target: self.Color}, true
}

func targetExploitative(s *game.Session, self *game.Player, _ *rand.Rand) (game.AbilityUse, bool) {
	t := lowestAura(othersAlive(s, self))
	if t == nil {
		return game.AbilityUse{}, false
	}
	if self.Role == game.RoleDoomer {
		return game.AbilityUse{Ability: game.AbilityInvisibleSabotage, Target: t.Color}, true
	}
	return game.AbilityUse{Ability: game.AbilitySabotage, Target: t.Color}, true
}

func targetOptimal(s *game.Session, self *game.Player, rng *rand.Rand) (game.AbilityUse, bool) {
	if self.Role == game.RoleDoomer {
		return targetOffensive(s, self, rng)
	}
	// patch up a damaged ally first, otherwise chip at the leader
	if self.Memory != nil {
		for _, p := range othersAlive(s, self) {
			if self.Memory.Allies[p.Color] && p.Vibe < game.MaxVibe {
				return game.AbilityUse{Ability: game.AbilityHeal, Target: p.Color}, true
			}
		}
	}
	t := highestAura(othersAlive(s, self))
	if t == nil {
		return game.AbilityUse{}, false
	}
	return game.AbilityUse{Ability: game.AbilitySabotage, Target: t.Color}, true
}

func targetProtective(s *game.Session, self *game.Player, _ *rand.Rand) (game.AbilityUse, bool) {
	var ward *game.Player
	for _, p := range othersAlive(s, self) {
		if self.Memory != nil && self.Memory.Allies[p.Color] {
			if ward == nil || p.Vibe < ward.Vibe {
				ward = p
			}
		}
	}
	if ward != nil {
		return game.AbilityUse{Ability: game.AbilityDefend, Target: ward.Color}, true
	}
	return game.AbilityUse{Ability: game.AbilityDefend, Target: self.Color}, true
}

func targetRandom(s *game.Session, self *game.Player, rng *rand.Rand) (game.AbilityUse, bool) {
	others := othersAlive(s, self)
	if len(others) == 0 {
		return game.AbilityUse{}, false
	}
	target := others[rng.Intn(len(others))]

	pool := []game.Ability{game.AbilityHeal, game.AbilityDefend, game.AbilitySabotage}
	if self.Role == game.RoleDoomer {
		pool = append(pool, game.AbilityAttack, game.AbilityInvisibleSabotage)
	}
	return game.AbilityUse{Ability: pool[rng.Intn(len(pool))], Target: target.Color}, true
}

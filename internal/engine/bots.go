package engine

import (
	"time"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/bot"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/game"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/logger"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/metrics"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/store"
)

// proposalRetries is how many times a bot re-rolls a failed proposal attempt
// in one phase before giving up.
const proposalRetries = 3

// chatChance is the odds a bot drops a line during a chatty phase.
const chatChance = 0.3

// botPlan is one bot's scheduled activity for the phase just entered.
// Delays and chat lines are rolled under the session lock so replays with a
// fixed seed stay reproducible.
type botPlan struct {
	color     string
	delay     time.Duration
	chatDelay time.Duration // 0 means quiet this phase
	chatLine  string
}

// planBots rolls per-bot timing for the session's current phase. Runs under
// the session lock (called from inside a store.Update).
func (e *Engine) planBots(s *game.Session) []botPlan {
	switch s.Phase {
	case game.PhaseCollabProposal, game.PhaseCollabVoting, game.PhaseDM, game.PhaseAction:
	default:
		return nil
	}

	rng := e.rngFor(s.ID)
	var plans []botPlan
	for _, p := range s.Players {
		if !p.IsBot || !p.Alive {
			continue
		}
		profile := bot.ProfileFor(p.Personality)
		plan := botPlan{
			color: p.Color,
			delay: bot.Delay(profile.Speed, rng),
		}
		chatty := s.Phase == game.PhaseCollabProposal || s.Phase == game.PhaseAction
		if chatty && rng.Float64() < chatChance {
			plan.chatDelay = bot.Delay(bot.SpeedRandom, rng)
			plan.chatLine = e.chat.Line(p.Personality, string(s.Phase), rng)
		}
		plans = append(plans, plan)
	}
	return plans
}

// scheduleBots arms one independent, cancellable timer per bot per decision
// type. Everything lands on the same mutation path humans use.
func (e *Engine) scheduleBots(id string, arm armInfo) {
	for _, plan := range arm.plans {
		color := plan.color

		switch arm.phase {
		case game.PhaseCollabProposal:
			e.sched.After(id, plan.delay, func() {
				e.botPropose(id, color, arm.epoch, proposalRetries)
			})
		case game.PhaseCollabVoting:
			e.sched.After(id, plan.delay, func() {
				e.botCollabVote(id, color, arm.epoch)
			})
		case game.PhaseDM:
			e.sched.After(id, plan.delay, func() {
				e.botAbility(id, color, arm.epoch)
			})
		case game.PhaseAction:
			e.sched.After(id, plan.delay, func() {
				e.botVote(id, color, arm.epoch)
			})
		}

		if plan.chatDelay > 0 {
			line := plan.chatLine
			e.sched.After(id, plan.chatDelay, func() {
				e.emit.Emit(id, EvtChat, map[string]any{
					"from": color,
					"text": line,
				})
			})
		}
	}
}

// withLive runs fn under the session lock only if the epoch captured at
// scheduling time is still current. A stale bot timer is a silent no-op.
func (e *Engine) withLive(id string, epoch int, fn func(*game.Session)) {
	err := e.store.Update(id, func(s *game.Session) error {
		if s.Epoch != epoch {
			return nil
		}
		fn(s)
		return nil
	})
	if err != nil && err != store.ErrNotFound {
		logger.Debug("bot action dropped", "game", id, "error", err)
	}
}

func (e *Engine) botPropose(id, color string, epoch, retries int) {
	e.withLive(id, epoch, func(s *game.Session) {
		self := s.PlayerByColor(color)
		if self == nil || !self.Alive {
			return
		}
		rng := e.rngFor(id)

		if bot.ShouldPropose(s, self, rng) {
			if err := e.proposeLocked(s, color); err == nil {
				metrics.BotDecisions.WithLabelValues("propose").Inc()
				return
			}
		}

		if retries > 0 {
			d := bot.Delay(bot.ProfileFor(self.Personality).Speed, rng)
			e.sched.After(id, d, func() {
				e.botPropose(id, color, epoch, retries-1)
			})
		}
	})
}

func (e *Engine) botCollabVote(id, color string, epoch int) {
	e.withLive(id, epoch, func(s *game.Session) {
		self := s.PlayerByColor(color)
		if self == nil || !self.Alive {
			return
		}
		choice := bot.ChooseCollabVote(s, self, e.rngFor(id))
		if err := e.voteCollabLocked(s, choice, color); err == nil {
			metrics.BotDecisions.WithLabelValues("collab_vote").Inc()
		}
	})
}

func (e *Engine) botAbility(id, color string, epoch int) {
	e.withLive(id, epoch, func(s *game.Session) {
		self := s.PlayerByColor(color)
		if self == nil || !self.Alive {
			return
		}
		use, ok := bot.ChooseAbility(s, self, e.rngFor(id))
		if !ok {
			return
		}
		if err := e.submitAbilityLocked(s, color, use.Ability, use.Target); err == nil {
			metrics.BotDecisions.WithLabelValues("ability").Inc()
		}
	})
}

func (e *Engine) botVote(id, color string, epoch int) {
	e.withLive(id, epoch, func(s *game.Session) {
		self := s.PlayerByColor(color)
		if self == nil || !self.Alive {
			return
		}
		target := bot.ChooseVoteTarget(s, self, e.rngFor(id))
		if target == "" {
			return
		}
		if err := e.submitVoteLocked(s, color, target); err == nil {
			metrics.BotDecisions.WithLabelValues("vote").Inc()
		}
	})
}

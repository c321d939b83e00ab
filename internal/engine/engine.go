package engine

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/bot"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/domain"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/game"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/logger"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/metrics"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/repository"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/scheduler"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/store"

	"github.com/google/uuid"
)

var (
	ErrWrongPhase      = errors.New("action not valid in current phase")
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrGameFull        = errors.New("game is full")
	ErrColorTaken      = errors.New("color already taken")
	ErrUnknownProposal = errors.New("unknown proposal")
	ErrInvalidAbility  = errors.New("invalid ability")
	ErrTooFewPlayers   = errors.New("not enough players to start")
)

// Config carries the per-phase deadlines. The values are design defaults;
// deployments override them through env config.
type Config struct {
	ProposalDuration time.Duration
	VotingDuration   time.Duration
	DMDuration       time.Duration
	ActionDuration   time.Duration
	Seed             int64 // base seed for per-session RNGs; 0 means wall clock
}

func DefaultConfig() Config {
	return Config{
		ProposalDuration: 60 * time.Second,
		VotingDuration:   30 * time.Second,
		DMDuration:       45 * time.Second,
		ActionDuration:   60 * time.Second,
	}
}

// Engine drives every session through the phase cycle and funnels all state
// mutation — human or bot — through the store's update path.
type Engine struct {
	store *store.GameStore
	sched *scheduler.Scheduler
	emit  Emitter
	cfg   Config

	repo *repository.MatchRepository // nil disables history writes
	chat bot.MessageProducer

	mu   sync.Mutex
	rngs map[string]*rand.Rand
}

func New(st *store.GameStore, sc *scheduler.Scheduler, em Emitter, cfg Config) *Engine {
	if em == nil {
		em = NopEmitter{}
	}
	return &Engine{
		store: st,
		sched: sc,
		emit:  em,
		cfg:   cfg,
		chat:  bot.FallbackTable{},
		rngs:  make(map[string]*rand.Rand),
	}
}

// SetRepository wires optional match-history persistence.
func (e *Engine) SetRepository(r *repository.MatchRepository) { e.repo = r }

// SetChatProducer swaps the bot chat backend (defaults to the canned table).
func (e *Engine) SetChatProducer(p bot.MessageProducer) {
	if p != nil {
		e.chat = p
	}
}

// rngFor returns the session's RNG. It is only ever used while holding the
// session's store lock (or before the session is published), so the bare
// *rand.Rand is safe without its own mutex.
func (e *Engine) rngFor(id string) *rand.Rand {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.rngs[id]; ok {
		return r
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	seed := int64(h.Sum64())
	if e.cfg.Seed != 0 {
		seed ^= e.cfg.Seed
	} else {
		seed ^= time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	e.rngs[id] = r
	return r
}

func (e *Engine) dropRng(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rngs, id)
}

// CreateGame builds a session from the given human seats plus botCount bots
// with random personalities, and registers it in STARTING phase.
func (e *Engine) CreateGame(humans []game.Seat, botCount int) (*game.Session, error) {
	if len(humans)+botCount > game.MaxPlayers {
		return nil, ErrGameFull
	}

	id := uuid.NewString()
	rng := e.rngFor(id)

	seats := make([]game.Seat, 0, len(humans)+botCount)
	taken := make(map[string]bool)
	for _, h := range humans {
		if taken[h.Color] {
			e.dropRng(id)
			return nil, ErrColorTaken
		}
		taken[h.Color] = true
		seats = append(seats, h)
	}
	// bots fill from the tail of the palette so the head colors stay
	// open for humans joining the lobby later
	for i := len(palette) - 1; i >= 0 && len(seats) < len(humans)+botCount; i-- {
		c := palette[i]
		if taken[c] {
			continue
		}
		taken[c] = true
		seats = append(seats, game.Seat{
			Color:       c,
			Name:        botNames[rng.Intn(len(botNames))] + "_" + c,
			IsBot:       true,
			Personality: bot.RandomPersonality(rng),
		})
	}

	sess := game.NewSession(id, seats, rng)
	e.store.Put(sess)
	metrics.SessionsActive.Set(float64(e.store.Len()))

	logger.Info("game created", "game", id, "players", len(seats), "bots", botCount)
	return sess, nil
}

var palette = []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "cyan"}

var botNames = []string{"zoomer", "vibelord", "auraboi", "ratio", "npc", "sigma", "grindset", "poster"}

// armInfo is what a transition hands back so timers get re-armed outside the
// session lock.
type armInfo struct {
	epoch int
	phase game.Phase
	dur   time.Duration
	plans []botPlan
}

// StartGame leaves STARTING for the first proposal phase. Only an explicit
// start does this; STARTING has no timeout.
func (e *Engine) StartGame(id string) error {
	var arm armInfo
	err := e.store.Update(id, func(s *game.Session) error {
		if s.Phase != game.PhaseStarting {
			return ErrWrongPhase
		}
		if len(s.Players) < 3 {
			return ErrTooFewPlayers
		}
		s.DealRoles(e.rngFor(s.ID)) // roster may have grown since creation
		e.enterPhase(s, game.PhaseCollabProposal)
		arm = e.armFor(s)
		return nil
	})
	if err != nil {
		return err
	}
	e.armPhase(id, arm)
	return nil
}

// EndPhaseEarly is the manual advance trigger. It shares the transition
// logic with the timeout path; re-arming cancels the pending clock so the
// two can never both fire for one phase.
func (e *Engine) EndPhaseEarly(id string) error {
	return e.advance(id, -1)
}

// onDeadline is the PhaseClock callback. The epoch captured at scheduling
// time makes a stale fire (phase already advanced manually) a silent no-op.
func (e *Engine) onDeadline(id string, epoch int) {
	if err := e.advance(id, epoch); err != nil && err != store.ErrNotFound {
		logger.Warn("phase deadline dropped", "game", id, "error", err)
	}
}

func (e *Engine) advance(id string, epoch int) error {
	var (
		arm   armInfo
		armed bool
		over  bool
	)

	err := e.store.Update(id, func(s *game.Session) error {
		if epoch >= 0 && s.Epoch != epoch {
			return nil // stale timer, phase already moved on
		}

		switch s.Phase {
		case game.PhaseCollabProposal:
			e.enterPhase(s, game.PhaseCollabVoting)

		case game.PhaseCollabVoting:
			e.resolveCollabs(s)
			e.enterPhase(s, game.PhaseDM)

		case game.PhaseDM:
			s.CurrentEvent = game.DrawEvent(e.rngFor(s.ID))
			e.emit.Emit(s.ID, EvtEventDrawn, s.CurrentEvent)
			e.enterPhase(s, game.PhaseAction)

		case game.PhaseAction:
			if e.resolveAction(s) {
				over = true
				return nil
			}
			s.Round++
			s.ClearRound()
			e.enterPhase(s, game.PhaseCollabProposal)

		default:
			return ErrWrongPhase // STARTING and GAME_OVER don't advance
		}

		arm = e.armFor(s)
		armed = true
		return nil
	})
	if err != nil {
		return err
	}

	if over {
		e.finishGame(id)
		return nil
	}
	if armed {
		e.armPhase(id, arm)
	}
	return nil
}

// enterPhase flips the session into phase: epoch bump (invalidating every
// outstanding timer), deadline, broadcast. Runs under the session lock.
func (e *Engine) enterPhase(s *game.Session, phase game.Phase) {
	s.Epoch++
	s.Phase = phase

	if d := e.durationFor(phase); d > 0 {
		deadline := time.Now().Add(d)
		s.PhaseDeadline = &deadline
	} else {
		s.PhaseDeadline = nil
	}

	metrics.PhaseTransitions.WithLabelValues(string(phase)).Inc()
	e.emit.Emit(s.ID, EvtPhaseChanged, map[string]any{
		"phase":    phase,
		"round":    s.Round,
		"deadline": s.PhaseDeadline,
	})
	logger.Debug("phase entered", "game", s.ID, "phase", phase, "round", s.Round)
}

func (e *Engine) durationFor(phase game.Phase) time.Duration {
	switch phase {
	case game.PhaseCollabProposal:
		return e.cfg.ProposalDuration
	case game.PhaseCollabVoting:
		return e.cfg.VotingDuration
	case game.PhaseDM:
		return e.cfg.DMDuration
	case game.PhaseAction:
		return e.cfg.ActionDuration
	}
	return 0
}

func (e *Engine) armFor(s *game.Session) armInfo {
	return armInfo{
		epoch: s.Epoch,
		phase: s.Phase,
		dur:   e.durationFor(s.Phase),
		plans: e.planBots(s),
	}
}

// armPhase cancels everything from the previous phase and arms the new
// clock plus the bot timers. A leftover callback that sneaks through the
// cancel race still dies on the epoch check.
func (e *Engine) armPhase(id string, arm armInfo) {
	e.sched.CancelSession(id)
	if arm.dur > 0 {
		e.sched.After(id, arm.dur, func() { e.onDeadline(id, arm.epoch) })
	}
	e.scheduleBots(id, arm)
}

// resolveCollabs closes the voting phase: apply aura deltas, crown the host,
// teach the winning members about each other.
func (e *Engine) resolveCollabs(s *game.Session) {
	res := game.ResolveCollabs(s.CollabProposals)
	s.ApplyDeltas(res.Deltas)

	if res.Winner != nil {
		s.CurrentCollab = res.Winner
		s.CollabHost = res.Winner.Proposer

		members := append([]string{res.Winner.Proposer}, res.Winner.Votes...)
		for _, m := range members {
			p := s.PlayerByColor(m)
			if p == nil || !p.IsBot {
				continue
			}
			for _, other := range members {
				if other != m {
					bot.Observe(p.Memory, bot.EventCollabSuccess, other)
				}
			}
		}
	}

	e.emit.Emit(s.ID, EvtCollabResolved, map[string]any{
		"winner": res.Winner,
		"tie":    res.Tie,
		"deltas": res.Deltas,
	})
}

// resolveAction runs the round resolver, applies its output and reports
// whether the match ended.
func (e *Engine) resolveAction(s *game.Session) bool {
	res := game.ResolveRound(s)
	s.ApplyRoundResult(res)

	for _, d := range res.Deltas {
		if d.Eliminated {
			metrics.Eliminations.WithLabelValues(d.Reason).Inc()
		}
	}

	// final votes feed bot grudges; eliminations wipe the books
	for voter, target := range s.Votes {
		if p := s.PlayerByColor(target); p != nil && p.IsBot {
			bot.Observe(p.Memory, bot.EventVotedForMe, voter)
		}
	}
	for _, gone := range res.Eliminated {
		for _, p := range s.Players {
			if p.IsBot {
				bot.Observe(p.Memory, bot.EventPlayerEliminated, gone)
			}
		}
	}

	e.emit.Emit(s.ID, EvtRoundResolved, map[string]any{
		"round":      s.Round,
		"deltas":     res.Deltas,
		"narratives": anonymize(res.Narratives),
		"voted_out":  res.VotedOut,
		"vote_tie":   res.VoteTie,
		"eliminated": res.Eliminated,
	})

	winners := game.CheckWinners(s)
	if len(winners) == 0 {
		return false
	}

	s.Winners = winners
	now := time.Now()
	s.FinishedAt = &now
	e.enterPhase(s, game.PhaseGameOver)
	e.emit.Emit(s.ID, EvtGameOver, map[string]any{
		"winners": winners,
		"rounds":  s.Round,
	})
	return true
}

// anonymize strips actors from hidden narratives before they leave the core.
func anonymize(ns []game.Narrative) []game.Narrative {
	out := make([]game.Narrative, len(ns))
	copy(out, ns)
	for i := range out {
		if out[i].Hidden {
			out[i].Actor = ""
		}
	}
	return out
}

// finishGame tears down timers and writes history. The session stays in the
// store for end-of-game queries until the cleanup sweep drops it.
func (e *Engine) finishGame(id string) {
	e.sched.CancelSession(id)
	metrics.MatchesFinished.Inc()

	sess, ok := e.store.Get(id)
	if !ok {
		return
	}
	logger.Info("game over", "game", id, "winners", sess.Winners, "rounds", sess.Round)

	if e.repo == nil {
		return
	}

	rec := &domain.MatchRecord{
		GameID:  sess.ID,
		Rounds:  sess.Round,
		Winners: sess.Winners,
	}
	for _, p := range sess.Players {
		rec.Players = append(rec.Players, domain.MatchPlayer{
			Color: p.Color, Name: p.Name, Role: string(p.Role),
			Aura: p.Aura, Vibe: p.Vibe, Alive: p.Alive, IsBot: p.IsBot,
			Won: contains(sess.Winners, p.Color),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.repo.Create(ctx, rec); err != nil {
			logger.Error("match history write failed", "game", id, "error", err)
		}
	}()
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// StartCleanup sweeps finished (and abandoned) sessions out of the store.
func (e *Engine) StartCleanup(interval, retention time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			e.cleanup(retention)
		}
	}()
}

func (e *Engine) cleanup(retention time.Duration) {
	now := time.Now()
	e.store.Each(func(id string) {
		sess, ok := e.store.Get(id)
		if !ok {
			return
		}
		stale := false
		if sess.Phase == game.PhaseGameOver && sess.FinishedAt != nil && now.Sub(*sess.FinishedAt) > retention {
			stale = true
		}
		if sess.Phase == game.PhaseStarting && now.Sub(sess.CreatedAt) > time.Hour {
			stale = true
		}
		if !stale {
			return
		}
		// timers first, so nothing fires against a removed session
		e.sched.CancelSession(id)
		e.store.Delete(id)
		e.dropRng(id)
		logger.Info("cleaned up session", "game", id, "phase", sess.Phase)
	})
	metrics.SessionsActive.Set(float64(e.store.Len()))
}

// Shutdown cancels every timer; sessions die with the process.
func (e *Engine) Shutdown() {
	e.sched.Stop()
}

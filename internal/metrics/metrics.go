package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "coc_sessions_active",
			Help: "Game sessions currently registered in the store",
		},
	)
	PhaseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coc_phase_transitions_total",
			Help: "Phase transitions by entered phase",
		},
		[]string{"phase"},
	)
	BotDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coc_bot_decisions_total",
			Help: "Bot submissions by decision type",
		},
		[]string{"decision"},
	)
	Eliminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coc_eliminations_total",
			Help: "Player eliminations by reason",
		},
		[]string{"reason"},
	)
	MatchesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coc_matches_finished_total",
			Help: "Matches that reached GAME_OVER",
		},
	)
)

func init() {
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(PhaseTransitions)
	prometheus.MustRegister(BotDecisions)
	prometheus.MustRegister(Eliminations)
	prometheus.MustRegister(MatchesFinished)
}

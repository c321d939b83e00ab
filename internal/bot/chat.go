package bot

import "math/rand"

// MessageProducer is the pluggable chat backend. A generative implementation
// can be injected from outside; the engine only ever sees this interface.
type MessageProducer interface {
	Line(personality, phase string, rng *rand.Rand) string
}

// FallbackTable is the built-in producer: canned lines per personality.
// It is the default when no external producer is wired.
type FallbackTable struct{}

var fallbackLines = map[string][]string{
	"hypebeast": {
		"who's ready to get CANCELLED",
		"my aura is unmatched rn",
		"weak links get cut, simple as",
	},
	"lurker": {
		"just watching for now",
		"something feels off about this round",
		"not voting until I see receipts",
	},
	"shitposter": {
		"ratio + cancelled + no aura",
		"I vote we all vote randomly",
		"this collab is mid ngl",
	},
	"networker": {
		"let's collab!! drop a vote",
		"we're stronger together fr",
		"who wants in on my next project",
	},
	"clout_chaser": {
		"I'm only backing winners",
		"show me the numbers first",
		"lowkey sensing an opportunity here",
	},
	"strategist": {
		"think about who benefits from this",
		"the votes last round told a story",
		"I'm keeping notes on all of you",
	},
	"wholesome": {
		"be nice everyone, vibes only",
		"I've got your back if you need it",
		"can we not cancel anyone today",
	},
	"mastermind": {
		"interesting move",
		"everything is going as expected",
		"some of you are playing checkers",
	},
}

var genericLines = []string{
	"hmm",
	"wild round",
	"watch your aura",
}

func (FallbackTable) Line(personality, phase string, rng *rand.Rand) string {
	lines, ok := fallbackLines[personality]
	if !ok || len(lines) == 0 {
		lines = genericLines
	}
	return lines[rng.Intn(len(lines))]
}

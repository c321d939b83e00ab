package bot

import (
	"math/rand"
	"time"
)

// Speed buckets a bot's thinking time so the table doesn't act in lockstep.
type Speed string

const (
	SpeedFast   Speed = "fast"
	SpeedMedium Speed = "medium"
	SpeedSlow   Speed = "slow"
	SpeedRandom Speed = "random"
)

// TargetStyle picks the ability-targeting strategy. Dispatch is a table
// lookup, not a string switch scattered over call sites.
type TargetStyle string

const (
	StyleOffensive    TargetStyle = "offensive"
	StyleDefensive    TargetStyle = "defensive"
	StyleTactical     TargetStyle = "tactical"
	StyleSupportive   TargetStyle = "supportive"
	StyleExploitative TargetStyle = "exploitative"
	StyleRandom       TargetStyle = "random"
	StyleOptimal      TargetStyle = "optimal"
	StyleProtective   TargetStyle = "protective"
)

// Profile is an immutable personality archetype. Trait flags feed the
// decision scorers; everything else parameterizes base behavior.
type Profile struct {
	Key string

	ProposeChance float64 // base chance to float a collab each proposal phase
	SkipChance    float64 // base chance to sit a collab vote out
	Speed         Speed
	Style         TargetStyle

	Trust              float64
	SuspicionThreshold float64

	Chaotic       bool // ignores scoring, rolls dice
	Cautious      bool // rolls skip chance before scoring
	Social        bool // amplifies bandwagon weight
	Opportunistic bool // amplifies bandwagon weight, prefers weak vote targets
	Aggressive    bool // weights aura harder when picking vote targets
}

// Profiles holds the eight shipped archetypes.
var Profiles = map[string]Profile{
	"hypebeast": {
		Key: "hypebeast", ProposeChance: 0.40, SkipChance: 0.10,
		Speed: SpeedFast, Style: StyleOffensive,
		Trust: 0.3, SuspicionThreshold: 0.5, Aggressive: true,
	},
	"lurker": {
		Key: "lurker", ProposeChance: 0.15, SkipChance: 0.50,
		Speed: SpeedSlow, Style: StyleDefensive,
		Trust: 0.5, SuspicionThreshold: 0.4, Cautious: true,
	},
	"shitposter": {
		Key: "shitposter", ProposeChance: 0.50, SkipChance: 0.30,
		Speed: SpeedRandom, Style: StyleRandom,
		Trust: 0.5, SuspicionThreshold: 0.5, Chaotic: true,
	},
	"networker": {
		Key: "networker", ProposeChance: 0.60, SkipChance: 0.05,
		Speed: SpeedMedium, Style: StyleSupportive,
		Trust: 0.8, SuspicionThreshold: 0.6, Social: true,
	},
	"clout_chaser": {
		Key: "clout_chaser", ProposeChance: 0.35, SkipChance: 0.20,
		Speed: SpeedFast, Style: StyleExploitative,
		Trust: 0.2, SuspicionThreshold: 0.4, Opportunistic: true,
	},
	"strategist": {
		Key: "strategist", ProposeChance: 0.30, SkipChance: 0.25,
		Speed: SpeedSlow, Style: StyleTactical,
		Trust: 0.5, SuspicionThreshold: 0.5,
	},
	"wholesome": {
		Key: "wholesome", ProposeChance: 0.25, SkipChance: 0.15,
		Speed: SpeedMedium, Style: StyleProtective,
		Trust: 0.7, SuspicionThreshold: 0.6,
	},
	"mastermind": {
		Key: "mastermind", ProposeChance: 0.30, SkipChance: 0.20,
		Speed: SpeedMedium, Style: StyleOptimal,
		Trust: 0.4, SuspicionThreshold: 0.3,
	},
}

var profileKeys = []string{
	"hypebeast", "lurker", "shitposter", "networker",
	"clout_chaser", "strategist", "wholesome", "mastermind",
}

// ProfileFor resolves a personality key, falling back to the shitposter so an
// unknown key degrades to random play instead of a nil profile.
func ProfileFor(key string) Profile {
	if p, ok := Profiles[key]; ok {
		return p
	}
	return Profiles["shitposter"]
}

// RandomPersonality draws an archetype key for a freshly seated bot.
func RandomPersonality(rng *rand.Rand) string {
	return profileKeys[rng.Intn(len(profileKeys))]
}

// Delay maps a speed class to a jittered think time.
// fast 1-3s, medium 3-7s, slow 5-10s, random 0-8s.
func Delay(speed Speed, rng *rand.Rand) time.Duration {
	var lo, hi time.Duration
	switch speed {
	case SpeedFast:
		lo, hi = 1*time.Second, 3*time.Second
	case SpeedMedium:
		lo, hi = 3*time.Second, 7*time.Second
	case SpeedSlow:
		lo, hi = 5*time.Second, 10*time.Second
	default:
		lo, hi = 0, 8*time.Second
	}
	return lo + time.Duration(rng.Int63n(int64(hi-lo)+1))
}

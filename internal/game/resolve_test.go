package game

import "testing"

// actionSession builds a session mid-round with explicit roles, bypassing the
// shuffle so tests can pin down who the doomers are.
func actionSession(roles map[string]Role) *Session {
	s := &Session{
		ID:         "test",
		Phase:      PhaseAction,
		Round:      1,
		SkipVoters: make(map[string]bool),
		Abilities:  make(map[string]AbilityUse),
		Votes:      make(map[string]string),
	}
	colors := []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "cyan"}
	for _, c := range colors {
		role, ok := roles[c]
		if !ok {
			continue
		}
		s.Players = append(s.Players, &Player{Color: c, Name: c, Role: role, Alive: true, Vibe: MaxVibe})
	}
	return s
}

func eightPlayers() map[string]Role {
	return map[string]Role{
		"red": RoleDoomer, "blue": RoleDoomer,
		"green": RoleViber, "yellow": RoleViber, "purple": RoleViber,
		"orange": RoleViber, "pink": RoleViber, "cyan": RoleViber,
	}
}

func TestAttackBlockedByDefender(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}
	s.Abilities["yellow"] = AbilityUse{Ability: AbilityDefend, Target: "green"}

	res := ResolveRound(s)

	if got := auraFor(res.Deltas, "green"); got != 0 {
		t.Fatalf("victim aura delta = %v; want 0 when defended", got)
	}
	for _, d := range res.Deltas {
		if d.Color == "green" && d.Vibe != 0 {
			t.Fatalf("victim took vibe damage through a defense: %+v", d)
		}
	}
	if got := auraFor(res.Deltas, "yellow"); got != 1 {
		t.Fatalf("defender aura delta = %v; want +1", got)
	}
}

func TestDefendBlocksEveryAttackOnVictim(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}
	s.Abilities["blue"] = AbilityUse{Ability: AbilityAttack, Target: "green"}
	s.Abilities["yellow"] = AbilityUse{Ability: AbilityDefend, Target: "green"}

	res := ResolveRound(s)

	for _, d := range res.Deltas {
		if d.Color == "green" && (d.Aura != 0 || d.Vibe != 0) {
			t.Fatalf("defended victim still took damage: %+v", d)
		}
	}
	if got := auraFor(res.Deltas, "yellow"); got != 1 {
		t.Fatalf("defender aura delta = %v; want +1 paid once, not per attack", got)
	}
}

func TestAttackBlockedByCollabHost(t *testing.T) {
	s := actionSession(eightPlayers())
	s.CollabHost = "green"
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}

	res := ResolveRound(s)
	if got := auraFor(res.Deltas, "green"); got != 0 {
		t.Fatalf("collab host took aura damage: %v", got)
	}
	if len(res.Eliminated) != 0 {
		t.Fatalf("nobody should be eliminated, got %v", res.Eliminated)
	}
}

func TestAttackUnblocked(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}

	res := ResolveRound(s)

	var vibe int
	for _, d := range res.Deltas {
		if d.Color == "green" {
			vibe += d.Vibe
		}
	}
	if vibe != -1 || auraFor(res.Deltas, "green") != -1 {
		t.Fatalf("unblocked attack: vibe=%d aura=%v; want -1/-1", vibe, auraFor(res.Deltas, "green"))
	}
}

func TestAttackByViberIgnored(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["green"] = AbilityUse{Ability: AbilityAttack, Target: "red"}

	res := ResolveRound(s)
	if len(res.Deltas) != 0 {
		t.Fatalf("viber attack produced deltas: %+v", res.Deltas)
	}
}

func TestAttackVibesOutVictim(t *testing.T) {
	s := actionSession(eightPlayers())
	s.PlayerByColor("green").Vibe = 1
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}

	res := ResolveRound(s)
	if !contains(res.Eliminated, "green") {
		t.Fatalf("victim at vibe 1 should be vibed out, eliminated=%v", res.Eliminated)
	}
}

func TestHealMissingVibe(t *testing.T) {
	s := actionSession(eightPlayers())
	s.PlayerByColor("green").Vibe = 1
	s.Abilities["yellow"] = AbilityUse{Ability: AbilityHeal, Target: "green"}

	res := ResolveRound(s)
	if got := auraFor(res.Deltas, "yellow"); got != 1 {
		t.Fatalf("healer aura delta = %v; want +1", got)
	}
	var vibe int
	for _, d := range res.Deltas {
		if d.Color == "green" {
			vibe += d.Vibe
		}
	}
	if vibe != 1 {
		t.Fatalf("target vibe delta = %d; want +1", vibe)
	}
}

func TestWrongHealOnFullVibe(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["yellow"] = AbilityUse{Ability: AbilityHeal, Target: "green"}

	res := ResolveRound(s)
	if got := auraFor(res.Deltas, "yellow"); got != -1 {
		t.Fatalf("healer aura delta = %v; want -1", got)
	}
	if got := auraFor(res.Deltas, "green"); got != 1 {
		t.Fatalf("target aura delta = %v; want +1", got)
	}
	if len(res.BuffsGranted) != 0 {
		t.Fatalf("viber target must not get the attack buff")
	}
}

func TestWrongHealBuffsDoomerForDoubleDamage(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["yellow"] = AbilityUse{Ability: AbilityHeal, Target: "red"}

	res := ResolveRound(s)
	if !contains(res.BuffsGranted, "red") {
		t.Fatalf("wrongly healed doomer should be flagged, got %v", res.BuffsGranted)
	}

	s.ApplyRoundResult(res)
	if !s.PlayerByColor("red").BuffedAttack {
		t.Fatalf("buff flag not applied to session")
	}

	// next round: the buffed attack deals double vibe damage and clears
	s.ClearRound()
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}
	res = ResolveRound(s)

	var vibe int
	for _, d := range res.Deltas {
		if d.Color == "green" {
			vibe += d.Vibe
		}
	}
	if vibe != -2 {
		t.Fatalf("buffed attack vibe delta = %d; want -2", vibe)
	}
	if !contains(res.BuffsConsumed, "red") {
		t.Fatalf("buff should be consumed by a successful attack")
	}

	s.ApplyRoundResult(res)
	if s.PlayerByColor("red").BuffedAttack {
		t.Fatalf("buff flag should clear after the attack lands")
	}
}

func TestBlockedAttackDoesNotConsumeBuff(t *testing.T) {
	s := actionSession(eightPlayers())
	s.PlayerByColor("red").BuffedAttack = true
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}
	s.Abilities["yellow"] = AbilityUse{Ability: AbilityDefend, Target: "green"}

	res := ResolveRound(s)
	if len(res.BuffsConsumed) != 0 {
		t.Fatalf("blocked attack consumed the buff")
	}
}

func TestSelfDefense(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}
	s.Abilities["green"] = AbilityUse{Ability: AbilityDefend, Target: "green"}
	s.Abilities["yellow"] = AbilityUse{Ability: AbilityDefend, Target: "yellow"}

	res := ResolveRound(s)

	// green was actually attacked: +1 on top of the attack's -1
	if got := auraFor(res.Deltas, "green"); got != 0 {
		t.Fatalf("attacked self-defender aura delta = %v; want 0 (+1 defense, -1 attack)", got)
	}
	// yellow flinched at shadows
	if got := auraFor(res.Deltas, "yellow"); got != -0.5 {
		t.Fatalf("unnecessary self-defense aura delta = %v; want -0.5", got)
	}
}

func TestCollabHostFreeDefend(t *testing.T) {
	s := actionSession(eightPlayers())
	s.CollabHost = "yellow"
	s.Abilities["yellow"] = AbilityUse{Ability: AbilityDefend, Target: "yellow"}

	res := ResolveRound(s)
	if got := auraFor(res.Deltas, "yellow"); got != 0 {
		t.Fatalf("collab host's free defend cost %v aura; want 0", got)
	}
}

func TestSabotage(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["green"] = AbilityUse{Ability: AbilitySabotage, Target: "yellow"}

	res := ResolveRound(s)
	if auraFor(res.Deltas, "yellow") != -1 || auraFor(res.Deltas, "green") != 1 {
		t.Fatalf("sabotage deltas wrong: target=%v actor=%v", auraFor(res.Deltas, "yellow"), auraFor(res.Deltas, "green"))
	}

	found := false
	for _, n := range res.Narratives {
		if n.Kind == "sabotage" {
			found = true
			if n.Hidden {
				t.Fatalf("visible sabotage marked hidden")
			}
			if n.Actor != "green" || n.Target != "yellow" {
				t.Fatalf("sabotage narrative names wrong parties: %+v", n)
			}
		}
	}
	if !found {
		t.Fatalf("visible sabotage emitted no narrative")
	}
}

func TestInvisibleSabotageHidesActor(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Abilities["green"] = AbilityUse{Ability: AbilityInvisibleSabotage, Target: "yellow"}

	res := ResolveRound(s)
	for _, n := range res.Narratives {
		if n.Kind == "sabotage" && !n.Hidden {
			t.Fatalf("invisible sabotage should be marked hidden: %+v", n)
		}
	}
	if auraFor(res.Deltas, "green") != 1 {
		t.Fatalf("invisible saboteur aura delta = %v; want +1", auraFor(res.Deltas, "green"))
	}
}

func TestVoteMajorityEliminates(t *testing.T) {
	s := actionSession(eightPlayers())
	s.Votes["green"] = "red"
	s.Votes["yellow"] = "red"
	s.Votes["purple"] = "red"
	s.Votes["orange"] = "blue"

	res := ResolveRound(s)
	if res.VotedOut != "red" {
		t.Fatalf("voted out = %q; want red", res.VotedOut)
	}
	for _, c := range []string{"green", "yellow", "purple"} {
		if got := auraFor(res.Deltas, c); got != 0.5 {
			t.Fatalf("%s voted correctly, delta = %v; want +0.5", c, got)
		}
	}
	if got := auraFor(res.Deltas, "orange"); got != -0.5 {
		t.Fatalf("orange voted incorrectly, delta = %v; want -0.5", got)
	}
}

func TestVoteTieProducesNothing(t *testing.T) {
	s := actionSession(eightPlayers())
	// 3 for red, 3 for blue, no abilities: the authoritative tie contract
	s.Votes["green"] = "red"
	s.Votes["yellow"] = "red"
	s.Votes["purple"] = "red"
	s.Votes["orange"] = "blue"
	s.Votes["pink"] = "blue"
	s.Votes["cyan"] = "blue"

	res := ResolveRound(s)
	if !res.VoteTie {
		t.Fatalf("expected a vote tie")
	}
	if res.VotedOut != "" || len(res.Eliminated) != 0 {
		t.Fatalf("tie eliminated someone: %v", res.Eliminated)
	}
	for _, d := range res.Deltas {
		if d.Aura != 0 {
			t.Fatalf("tie produced an aura delta: %+v", d)
		}
	}
}

func TestEliminationByAuraBoundary(t *testing.T) {
	s := actionSession(eightPlayers())
	s.PlayerByColor("green").Aura = -4
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}

	res := ResolveRound(s)

	// -4 pre-round, -1 from the attack: exactly -5 post-delta, which is out
	found := false
	for _, d := range res.Deltas {
		if d.Color == "green" && d.Eliminated && d.Reason == "Aura dropped below -5" {
			found = true
		}
	}
	if !found {
		t.Fatalf("aura boundary is <= -5 post-delta; deltas: %+v", res.Deltas)
	}
}

func TestEliminationByAuraNotTriggeredPreDelta(t *testing.T) {
	s := actionSession(eightPlayers())
	s.PlayerByColor("green").Aura = -4.5

	res := ResolveRound(s)
	if len(res.Eliminated) != 0 {
		t.Fatalf("no deltas this round, -4.5 must survive: %v", res.Eliminated)
	}
}

func TestCheckWinnersDoomerOverlord(t *testing.T) {
	s := actionSession(eightPlayers())
	s.PlayerByColor("red").Aura = 10

	winners := CheckWinners(s)
	if len(winners) != 1 || winners[0] != "red" {
		t.Fatalf("winners = %v; want [red]", winners)
	}
}

func TestCheckWinnersJointVibers(t *testing.T) {
	s := actionSession(eightPlayers())
	s.PlayerByColor("green").Aura = 11
	s.PlayerByColor("yellow").Aura = 10

	winners := CheckWinners(s)
	if len(winners) != 2 {
		t.Fatalf("winners = %v; want two co-overlords", winners)
	}
}

func TestCheckWinnersSingleViberOverlordNotEnough(t *testing.T) {
	s := actionSession(eightPlayers())
	s.PlayerByColor("green").Aura = 12

	if winners := CheckWinners(s); winners != nil {
		t.Fatalf("one viber at 12 aura should not end the game, got %v", winners)
	}
}

func TestCheckWinnersLastDoomerStanding(t *testing.T) {
	s := actionSession(eightPlayers())
	for _, p := range s.Players {
		p.Alive = false
	}
	s.PlayerByColor("red").Alive = true  // doomer
	s.PlayerByColor("green").Alive = true // viber
	s.PlayerByColor("green").Aura = 99

	winners := CheckWinners(s)
	if len(winners) != 1 || winners[0] != "red" {
		t.Fatalf("doomer beats viber head-to-head regardless of aura, got %v", winners)
	}
}

func TestCheckWinnersTwoSameRole(t *testing.T) {
	s := actionSession(eightPlayers())
	for _, p := range s.Players {
		p.Alive = false
	}
	s.PlayerByColor("green").Alive = true
	s.PlayerByColor("yellow").Alive = true

	winners := CheckWinners(s)
	if len(winners) != 2 {
		t.Fatalf("two surviving vibers should win together, got %v", winners)
	}
}

func TestSkipVoterGetsNoCollabImmunity(t *testing.T) {
	s := actionSession(eightPlayers())
	s.CurrentCollab = &CollabProposal{ID: "c1", Proposer: "yellow", Votes: []string{"green", "purple"}}
	s.CollabHost = "yellow"
	s.SkipVoters["green"] = true
	s.Abilities["red"] = AbilityUse{Ability: AbilityAttack, Target: "green"}
	s.Abilities["blue"] = AbilityUse{Ability: AbilityAttack, Target: "purple"}

	res := ResolveRound(s)

	// green skipped, so no immunity even while listed on the collab
	if got := auraFor(res.Deltas, "green"); got != -1 {
		t.Fatalf("skip voter should be attackable, aura delta = %v", got)
	}
	// purple backed the collab and is shielded
	if got := auraFor(res.Deltas, "purple"); got != 0 {
		t.Fatalf("collab member should be immune, aura delta = %v", got)
	}
}

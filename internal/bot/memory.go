package bot

import "github.com/MeiRomney/CollabOrCancel-sub000/internal/game"

// Memory event kinds, raised by the engine as rounds resolve.
const (
	EventCollabSuccess    = "collab_success"
	EventVotedForMe       = "voted_for_me"
	EventAbilityUsedOnMe  = "ability_used_on_me"
	EventPlayerEliminated = "player_eliminated"
)

// Observe folds one observed event about `other` into a bot's memory.
func Observe(mem *game.BotMemory, event, other string) {
	if mem == nil || other == "" {
		return
	}

	switch event {
	case EventCollabSuccess:
		mem.Allies[other] = true
		delete(mem.Enemies, other)
		mem.CollabHistory = append(mem.CollabHistory, other)

	case EventVotedForMe:
		mem.Enemies[other] = true
		mem.Suspicions[other] += 0.3

	case EventAbilityUsedOnMe:
		mem.Suspicions[other] += 0.2

	case EventPlayerEliminated:
		// the dead hold no grudges and earn none
		delete(mem.Allies, other)
		delete(mem.Enemies, other)
		delete(mem.Suspicions, other)
	}
}

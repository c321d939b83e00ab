package game

import "math/rand"

// roundEvents is the deck of round modifiers drawn when the DM phase closes.
// Drawing is pure selection; any gameplay effect is applied by the resolver
// reading Session.CurrentEvent.
var roundEvents = []RoundEvent{
	{Key: "algorithm_boost", Title: "Algorithm Boost", Description: "The feed is generous tonight. Successful collabs hit harder."},
	{Key: "shadowban_scare", Title: "Shadowban Scare", Description: "Everyone is paranoid about reach. Watch who defends whom."},
	{Key: "drama_alert", Title: "Drama Alert", Description: "A callout thread is brewing. Votes are louder than usual."},
	{Key: "sponsored_segment", Title: "Sponsored Segment", Description: "Brand deals on the table. Nobody wants to look cancelable."},
	{Key: "viral_moment", Title: "Viral Moment", Description: "One clip is everywhere. Aura swings feel bigger."},
	{Key: "dead_air", Title: "Dead Air", Description: "Quiet round. Nothing trends, grudges simmer."},
	{Key: "leak_season", Title: "Leak Season", Description: "Screenshots are circulating. Sabotage is in the air."},
	{Key: "group_chat_schism", Title: "Group Chat Schism", Description: "The group chat split in two. Pick a side."},
}

// DrawEvent picks the round modifier for the upcoming action phase.
func DrawEvent(rng *rand.Rand) *RoundEvent {
	ev := roundEvents[rng.Intn(len(roundEvents))]
	return &ev
}

package domain

import "time"

// MatchRecord is the write-only history row for a finished match. In-process
// state stays the source of truth; this exists for stats and postmortems.
type MatchRecord struct {
	ID        int64         `json:"id"`
	GameID    string        `json:"game_id"`
	Rounds    int           `json:"rounds"`
	Winners   []string      `json:"winners"`
	Players   []MatchPlayer `json:"players"`
	CreatedAt time.Time     `json:"created_at"`
}

// MatchPlayer is one participant's final line in the record.
type MatchPlayer struct {
	Color string  `json:"color"`
	Name  string  `json:"name"`
	Role  string  `json:"role"`
	Aura  float64 `json:"aura"`
	Vibe  int     `json:"vibe"`
	Alive bool    `json:"alive"`
	IsBot bool    `json:"is_bot"`
	Won   bool    `json:"won"`
}

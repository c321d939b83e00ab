package repository

import (
	"context"
	"encoding/json"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create stores one finished match.
func (r *MatchRepository) Create(ctx context.Context, m *domain.MatchRecord) error {
	playersJSON, err := json.Marshal(m.Players)
	if err != nil {
		playersJSON = []byte("[]")
	}
	winnersJSON, err := json.Marshal(m.Winners)
	if err != nil {
		winnersJSON = []byte("[]")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO matches (game_id, rounds, winners, players)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		m.GameID, m.Rounds, winnersJSON, playersJSON,
	).Scan(&m.ID, &m.CreatedAt)
}

// Recent returns the latest finished matches, newest first.
func (r *MatchRepository) Recent(ctx context.Context, limit int) ([]*domain.MatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, game_id, rounds, winners, players, created_at
		 FROM matches
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.MatchRecord
	for rows.Next() {
		var (
			m           domain.MatchRecord
			winnersJSON []byte
			playersJSON []byte
		)
		if err := rows.Scan(&m.ID, &m.GameID, &m.Rounds, &winnersJSON, &playersJSON, &m.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(winnersJSON, &m.Winners)
		_ = json.Unmarshal(playersJSON, &m.Players)
		out = append(out, &m)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type queueRepo struct{}

// NewQueueRepository returns a pgx-backed QueueRepository.
func NewQueueRepository() QueueRepository {
	return &queueRepo{}
}

func (r *queueRepo) Enqueue(ctx context.Context, db DBTX, playerID uuid.UUID, joinedAt time.Time) error {
	_, err := db.Exec(ctx, `
		INSERT INTO match_queue (player_id, joined_at)
		VALUES ($1, $2)
		ON CONFLICT (player_id) DO NOTHING`,
		playerID, joinedAt,
	)
	if err != nil {
		return fmt.Errorf("enqueue player: %w", err)
	}
	return nil
}

func (r *queueRepo) Dequeue(ctx context.Context, db DBTX, playerID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM match_queue WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("dequeue player: %w", err)
	}
	return nil
}

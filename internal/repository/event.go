package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ketball/backend/internal/domain"
)

type eventRepo struct{}

// NewEventRepository returns a pgx-backed EventRepository.
func NewEventRepository() EventRepository {
	return &eventRepo{}
}

func (r *eventRepo) Insert(ctx context.Context, db DBTX, event *domain.GameEvent) error {
	_, err := db.Exec(ctx, `
		INSERT INTO game_events (id, game_id, player_id, event_type, points, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.GameID, event.PlayerID, event.EventType, event.Points, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game event: %w", err)
	}
	return nil
}

func (r *eventRepo) ListRecentByGame(ctx context.Context, db DBTX, gameID uuid.UUID, limit int) ([]domain.GameEvent, error) {
	rows, err := db.Query(ctx, `
		SELECT id, game_id, player_id, event_type, points, created_at
		FROM game_events
		WHERE game_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("query game events: %w", err)
	}
	defer rows.Close()

	var events []domain.GameEvent
	for rows.Next() {
		var e domain.GameEvent
		if err := rows.Scan(&e.ID, &e.GameID, &e.PlayerID, &e.EventType, &e.Points, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

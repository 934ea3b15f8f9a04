package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameEvent is an append-only log entry recording a scoring action.
// Write-only from the lifecycle service, read-only for history.
type GameEvent struct {
	ID        uuid.UUID `json:"id"`
	GameID    uuid.UUID `json:"game_id"`
	PlayerID  uuid.UUID `json:"player_id"`
	EventType string    `json:"event_type"`
	Points    *int      `json:"points,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Game event types.
const (
	EventScore = "score"
)

// NewScoreEvent builds a score event for the given game and player.
func NewScoreEvent(gameID, playerID uuid.UUID, points int) *GameEvent {
	return &GameEvent{
		ID:        uuid.New(),
		GameID:    gameID,
		PlayerID:  playerID,
		EventType: EventScore,
		Points:    &points,
		CreatedAt: time.Now(),
	}
}

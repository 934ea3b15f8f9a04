package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ketball/backend/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PlayerRepository provides access to players.
type PlayerRepository interface {
	// FindByID returns a player by ID, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error)

	// FindByUserID returns the player linked to an auth identity.
	FindByUserID(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Player, error)

	// Create inserts a new player profile.
	Create(ctx context.Context, db DBTX, player *domain.Player) error

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the player.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Player, error)

	// UpdateStats overwrites the aggregate counters.
	UpdateStats(ctx context.Context, tx pgx.Tx, id uuid.UUID, stats domain.PlayerStats) error

	// UpdateUsername changes the display name.
	UpdateUsername(ctx context.Context, db DBTX, id uuid.UUID, username string) error

	// UpdateAvatarColor changes the display color.
	UpdateAvatarColor(ctx context.Context, db DBTX, id uuid.UUID, color string) error

	// Leaderboard returns players ordered by wins desc, total points desc.
	Leaderboard(ctx context.Context, db DBTX, limit int) ([]domain.Player, error)
}

// GameRepository provides access to games.
type GameRepository interface {
	// FindByID returns a game by ID, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Game, error)

	// FindActiveByParticipant returns the player's non-finished game in
	// either slot, or nil.
	FindActiveByParticipant(ctx context.Context, db DBTX, playerID uuid.UUID) (*domain.Game, error)

	// FindOldestWaiting returns the oldest waiting game not created by the
	// given player (FIFO by creation time), or nil.
	FindOldestWaiting(ctx context.Context, db DBTX, excludePlayer uuid.UUID) (*domain.Game, error)

	// Create inserts a new waiting game.
	Create(ctx context.Context, db DBTX, game *domain.Game) error

	// Join assigns player two and promotes the game to playing. Guarded on
	// waiting status; returns false if the game was taken concurrently.
	Join(ctx context.Context, db DBTX, gameID, player2ID uuid.UUID, startedAt time.Time) (bool, error)

	// AddScore adds points to one participant's score using server-side
	// arithmetic. Guarded on playing status.
	AddScore(ctx context.Context, db DBTX, gameID uuid.UUID, playerOne bool, points int) (bool, error)

	// UpdateTimeLeft overwrites the countdown. Silent no-op unless playing.
	UpdateTimeLeft(ctx context.Context, db DBTX, gameID uuid.UUID, timeLeft int) error

	// Finish marks the game finished with the given winner. Guarded against
	// already-finished games; returns false if no row transitioned.
	Finish(ctx context.Context, db DBTX, gameID uuid.UUID, winnerID *uuid.UUID, finishedAt time.Time) (bool, error)

	// Delete removes a game record outright.
	Delete(ctx context.Context, db DBTX, gameID uuid.UUID) error

	// ListRecentFinished returns the player's finished games, newest
	// finished first.
	ListRecentFinished(ctx context.Context, db DBTX, playerID uuid.UUID, limit int) ([]domain.Game, error)

	// ListExpiredPlaying returns playing games whose clock ran out before
	// the cutoff, for the sweeper.
	ListExpiredPlaying(ctx context.Context, db DBTX, cutoff time.Time) ([]domain.Game, error)

	// ListStaleWaiting returns waiting games created before the cutoff.
	ListStaleWaiting(ctx context.Context, db DBTX, cutoff time.Time) ([]domain.Game, error)
}

// EventRepository provides access to game_events.
type EventRepository interface {
	// Insert appends a game event.
	Insert(ctx context.Context, db DBTX, event *domain.GameEvent) error

	// ListRecentByGame returns the most recent events, newest first.
	ListRecentByGame(ctx context.Context, db DBTX, gameID uuid.UUID, limit int) ([]domain.GameEvent, error)
}

// QueueRepository provides access to match_queue.
type QueueRepository interface {
	// Enqueue records a player waiting for an opponent. Idempotent.
	Enqueue(ctx context.Context, db DBTX, playerID uuid.UUID, joinedAt time.Time) error

	// Dequeue removes a player from the queue.
	Dequeue(ctx context.Context, db DBTX, playerID uuid.UUID) error
}

// AuthUserRepository provides access to auth_users.
type AuthUserRepository interface {
	// FindByEmail returns an auth user by email.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AuthUser, error)

	// Create inserts a new auth user.
	Create(ctx context.Context, db DBTX, user *domain.AuthUser) error
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ketball/backend/internal/domain"
)

type gameRepo struct{}

// NewGameRepository returns a pgx-backed GameRepository.
func NewGameRepository() GameRepository {
	return &gameRepo{}
}

const gameColumns = `id, player1_id, player2_id, player1_score, player2_score,
	status, winner_id, time_left, created_at, started_at, finished_at`

func (r *gameRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Game, error) {
	row := db.QueryRow(ctx, `
		SELECT `+gameColumns+`
		FROM games WHERE id = $1`, id)
	return scanGame(row)
}

func (r *gameRepo) FindActiveByParticipant(ctx context.Context, db DBTX, playerID uuid.UUID) (*domain.Game, error) {
	row := db.QueryRow(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE (player1_id = $1 OR player2_id = $1) AND status <> 'finished'
		ORDER BY created_at
		LIMIT 1`, playerID)
	return scanGame(row)
}

// FindOldestWaiting picks FIFO by creation time so the longest-waiting
// creator is matched first.
func (r *gameRepo) FindOldestWaiting(ctx context.Context, db DBTX, excludePlayer uuid.UUID) (*domain.Game, error) {
	row := db.QueryRow(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE status = 'waiting' AND player1_id <> $1
		ORDER BY created_at
		LIMIT 1`, excludePlayer)
	return scanGame(row)
}

func (r *gameRepo) Create(ctx context.Context, db DBTX, game *domain.Game) error {
	_, err := db.Exec(ctx, `
		INSERT INTO games (id, player1_id, player1_score, player2_score,
			status, time_left, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		game.ID, game.Player1ID, game.Player1Score, game.Player2Score,
		game.Status, game.TimeLeft, game.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// Join guards on waiting status so two concurrent joiners cannot both
// take the same game; the loser of the race sees zero rows affected.
func (r *gameRepo) Join(ctx context.Context, db DBTX, gameID, player2ID uuid.UUID, startedAt time.Time) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE games
		SET player2_id = $2, status = 'playing', started_at = $3
		WHERE id = $1 AND status = 'waiting' AND player2_id IS NULL`,
		gameID, player2ID, startedAt,
	)
	if err != nil {
		return false, fmt.Errorf("join game: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *gameRepo) AddScore(ctx context.Context, db DBTX, gameID uuid.UUID, playerOne bool, points int) (bool, error) {
	column := "player2_score"
	if playerOne {
		column = "player1_score"
	}
	tag, err := db.Exec(ctx, fmt.Sprintf(`
		UPDATE games SET %s = %s + $2
		WHERE id = $1 AND status = 'playing'`, column, column),
		gameID, points,
	)
	if err != nil {
		return false, fmt.Errorf("add score: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *gameRepo) UpdateTimeLeft(ctx context.Context, db DBTX, gameID uuid.UUID, timeLeft int) error {
	_, err := db.Exec(ctx, `
		UPDATE games SET time_left = $2
		WHERE id = $1 AND status = 'playing'`,
		gameID, timeLeft,
	)
	if err != nil {
		return fmt.Errorf("update time left: %w", err)
	}
	return nil
}

func (r *gameRepo) Finish(ctx context.Context, db DBTX, gameID uuid.UUID, winnerID *uuid.UUID, finishedAt time.Time) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE games
		SET status = 'finished', winner_id = $2, finished_at = $3
		WHERE id = $1 AND status <> 'finished'`,
		gameID, winnerID, finishedAt,
	)
	if err != nil {
		return false, fmt.Errorf("finish game: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *gameRepo) Delete(ctx context.Context, db DBTX, gameID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func (r *gameRepo) ListRecentFinished(ctx context.Context, db DBTX, playerID uuid.UUID, limit int) ([]domain.Game, error) {
	rows, err := db.Query(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE (player1_id = $1 OR player2_id = $1) AND status = 'finished'
		ORDER BY finished_at DESC
		LIMIT $2`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent games: %w", err)
	}
	defer rows.Close()
	return collectGames(rows)
}

func (r *gameRepo) ListExpiredPlaying(ctx context.Context, db DBTX, cutoff time.Time) ([]domain.Game, error) {
	rows, err := db.Query(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE status = 'playing' AND started_at < $1`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query expired games: %w", err)
	}
	defer rows.Close()
	return collectGames(rows)
}

func (r *gameRepo) ListStaleWaiting(ctx context.Context, db DBTX, cutoff time.Time) ([]domain.Game, error) {
	rows, err := db.Query(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE status = 'waiting' AND created_at < $1`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query stale waiting games: %w", err)
	}
	defer rows.Close()
	return collectGames(rows)
}

func collectGames(rows pgx.Rows) ([]domain.Game, error) {
	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	err := row.Scan(
		&g.ID, &g.Player1ID, &g.Player2ID, &g.Player1Score, &g.Player2Score,
		&g.Status, &g.WinnerID, &g.TimeLeft, &g.CreatedAt, &g.StartedAt, &g.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan game: %w", err)
	}
	return &g, nil
}

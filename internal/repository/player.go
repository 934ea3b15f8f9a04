package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ketball/backend/internal/domain"
)

type playerRepo struct{}

// NewPlayerRepository returns a pgx-backed PlayerRepository.
func NewPlayerRepository() PlayerRepository {
	return &playerRepo{}
}

const playerColumns = `id, user_id, username, avatar_color, wins, losses,
	total_points, hot_streak, best_streak, games_played, created_at`

func (r *playerRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error) {
	row := db.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE id = $1`, id)
	return scanPlayer(row)
}

func (r *playerRepo) FindByUserID(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Player, error) {
	row := db.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE user_id = $1`, userID)
	return scanPlayer(row)
}

func (r *playerRepo) Create(ctx context.Context, db DBTX, player *domain.Player) error {
	_, err := db.Exec(ctx, `
		INSERT INTO players (id, user_id, username, avatar_color, wins, losses,
			total_points, hot_streak, best_streak, games_played, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		player.ID,
		player.UserID,
		player.Username,
		player.AvatarColor,
		player.Wins,
		player.Losses,
		player.TotalPoints,
		player.HotStreak,
		player.BestStreak,
		player.GamesPlayed,
		player.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *playerRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Player, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE id = $1 FOR UPDATE`, id)
	return scanPlayer(row)
}

func (r *playerRepo) UpdateStats(ctx context.Context, tx pgx.Tx, id uuid.UUID, stats domain.PlayerStats) error {
	_, err := tx.Exec(ctx, `
		UPDATE players
		SET wins = $2, losses = $3, total_points = $4,
			hot_streak = $5, best_streak = $6, games_played = $7
		WHERE id = $1`,
		id, stats.Wins, stats.Losses, stats.TotalPoints,
		stats.HotStreak, stats.BestStreak, stats.GamesPlayed,
	)
	if err != nil {
		return fmt.Errorf("update player stats: %w", err)
	}
	return nil
}

func (r *playerRepo) UpdateUsername(ctx context.Context, db DBTX, id uuid.UUID, username string) error {
	_, err := db.Exec(ctx, `UPDATE players SET username = $2 WHERE id = $1`, id, username)
	if err != nil {
		return fmt.Errorf("update username: %w", err)
	}
	return nil
}

func (r *playerRepo) UpdateAvatarColor(ctx context.Context, db DBTX, id uuid.UUID, color string) error {
	_, err := db.Exec(ctx, `UPDATE players SET avatar_color = $2 WHERE id = $1`, id, color)
	if err != nil {
		return fmt.Errorf("update avatar color: %w", err)
	}
	return nil
}

func (r *playerRepo) Leaderboard(ctx context.Context, db DBTX, limit int) ([]domain.Player, error) {
	rows, err := db.Query(ctx, `
		SELECT `+playerColumns+`
		FROM players
		ORDER BY wins DESC, total_points DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.ID, &p.UserID, &p.Username, &p.AvatarColor,
		&p.Wins, &p.Losses, &p.TotalPoints,
		&p.HotStreak, &p.BestStreak, &p.GamesPlayed, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan player: %w", err)
	}
	return &p, nil
}

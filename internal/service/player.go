package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ketball/backend/internal/domain"
	"github.com/ketball/backend/internal/repository"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// PlayerService handles player profiles and the leaderboard.
type PlayerService struct {
	pool    *pgxpool.Pool
	players repository.PlayerRepository
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(pool *pgxpool.Pool, players repository.PlayerRepository) *PlayerService {
	return &PlayerService{pool: pool, players: players}
}

// GetOrCreate returns the player linked to the authenticated identity,
// creating the profile on first contact. Registration normally creates
// it, so the create path only fires for accounts predating the profile
// table.
func (s *PlayerService) GetOrCreate(ctx context.Context, userID uuid.UUID, email string) (*domain.Player, error) {
	player, err := s.players.FindByUserID(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player != nil {
		return player, nil
	}

	player = NewPlayerProfile(userID, email)
	if err := s.players.Create(ctx, s.pool, player); err != nil {
		return nil, domain.ErrInternal("create player", err)
	}
	return player, nil
}

// GetByID returns a player by profile ID.
func (s *PlayerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	player, err := s.players.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", id.String())
	}
	return player, nil
}

// UpdateUsername changes the authenticated player's display name.
func (s *PlayerService) UpdateUsername(ctx context.Context, userID uuid.UUID, username string) (*domain.Player, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	player, err := s.players.FindByUserID(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", userID.String())
	}

	if err := s.players.UpdateUsername(ctx, s.pool, player.ID, username); err != nil {
		return nil, domain.ErrInternal("update username", err)
	}
	player.Username = username
	return player, nil
}

// UpdateAvatarColor changes the authenticated player's avatar color.
func (s *PlayerService) UpdateAvatarColor(ctx context.Context, userID uuid.UUID, color string) (*domain.Player, error) {
	if err := domain.ValidateAvatarColor(color); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	player, err := s.players.FindByUserID(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", userID.String())
	}

	if err := s.players.UpdateAvatarColor(ctx, s.pool, player.ID, color); err != nil {
		return nil, domain.ErrInternal("update avatar color", err)
	}
	player.AvatarColor = color
	return player, nil
}

// GetLeaderboard returns the top players by wins, then total points.
func (s *PlayerService) GetLeaderboard(ctx context.Context, limit int) ([]domain.Player, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	players, err := s.players.Leaderboard(ctx, s.pool, limit)
	if err != nil {
		return nil, domain.ErrInternal("load leaderboard", err)
	}
	domain.SortLeaderboard(players)
	return players, nil
}

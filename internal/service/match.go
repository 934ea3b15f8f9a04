package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ketball/backend/internal/domain"
	"github.com/ketball/backend/internal/repository"
)

// joinAttempts bounds how many waiting games we try to claim before
// falling back to creating our own.
const joinAttempts = 3

// MatchService pairs players into games.
type MatchService struct {
	pool    *pgxpool.Pool
	games   repository.GameRepository
	players repository.PlayerRepository
	queue   repository.QueueRepository
	logger  *slog.Logger
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	pool *pgxpool.Pool,
	games repository.GameRepository,
	players repository.PlayerRepository,
	queue repository.QueueRepository,
	logger *slog.Logger,
) *MatchService {
	return &MatchService{
		pool:    pool,
		games:   games,
		players: players,
		queue:   queue,
		logger:  logger,
	}
}

// FindOrCreateGame is the single matchmaking entry point. If the player
// already has a non-finished game it is returned as-is; otherwise the
// oldest waiting game from another player is joined and started, and
// failing that a fresh waiting game is created. Idempotent under
// repeated calls.
func (s *MatchService) FindOrCreateGame(ctx context.Context, playerID uuid.UUID) (*domain.EnrichedGame, error) {
	existing, err := s.games.FindActiveByParticipant(ctx, s.pool, playerID)
	if err != nil {
		return nil, domain.ErrInternal("find active game", err)
	}
	if existing != nil {
		return enrichGame(ctx, s.pool, s.players, existing)
	}

	// Claim the oldest open seat. Join is guarded on waiting status, so a
	// lost race just means trying the next candidate.
	for attempt := 0; attempt < joinAttempts; attempt++ {
		waiting, err := s.games.FindOldestWaiting(ctx, s.pool, playerID)
		if err != nil {
			return nil, domain.ErrInternal("find waiting game", err)
		}
		if waiting == nil {
			break
		}

		joined, err := s.games.Join(ctx, s.pool, waiting.ID, playerID, time.Now())
		if err != nil {
			return nil, domain.ErrInternal("join game", err)
		}
		if !joined {
			continue
		}

		if err := s.queue.Dequeue(ctx, s.pool, waiting.Player1ID); err != nil {
			s.logger.Warn("dequeue matched player failed", "player_id", waiting.Player1ID, "error", err)
		}

		game, err := s.games.FindByID(ctx, s.pool, waiting.ID)
		if err != nil || game == nil {
			return nil, domain.ErrInternal("reload joined game", err)
		}

		s.logger.Info("match made",
			"game_id", game.ID,
			"player1_id", game.Player1ID,
			"player2_id", playerID,
		)
		return enrichGame(ctx, s.pool, s.players, game)
	}

	game := &domain.Game{
		ID:        uuid.New(),
		Player1ID: playerID,
		Status:    domain.StatusWaiting,
		TimeLeft:  domain.GameDuration,
		CreatedAt: time.Now(),
	}
	if err := s.games.Create(ctx, s.pool, game); err != nil {
		return nil, domain.ErrInternal("create game", err)
	}
	if err := s.queue.Enqueue(ctx, s.pool, playerID, game.CreatedAt); err != nil {
		s.logger.Warn("enqueue player failed", "player_id", playerID, "error", err)
	}

	s.logger.Info("waiting game created", "game_id", game.ID, "player_id", playerID)
	return enrichGame(ctx, s.pool, s.players, game)
}

// LeaveGame removes the player from their game. A waiting game the
// player created is deleted outright; a playing game is finished with
// the opponent as winner by forfeit. Leaving a finished or unknown game
// is a silent no-op.
func (s *MatchService) LeaveGame(ctx context.Context, playerID, gameID uuid.UUID) error {
	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return domain.ErrInternal("find game", err)
	}
	if game == nil || game.Status == domain.StatusFinished {
		return nil
	}
	if !game.IsParticipant(playerID) {
		return domain.ErrNotParticipant(playerID.String())
	}

	switch game.Status {
	case domain.StatusWaiting:
		if err := s.games.Delete(ctx, s.pool, gameID); err != nil {
			return domain.ErrInternal("delete waiting game", err)
		}
		if err := s.queue.Dequeue(ctx, s.pool, playerID); err != nil {
			s.logger.Warn("dequeue on cancel failed", "player_id", playerID, "error", err)
		}
		s.logger.Info("waiting game cancelled", "game_id", gameID, "player_id", playerID)

	case domain.StatusPlaying:
		// Forfeit: the opponent wins regardless of score. Stats aggregates
		// are not touched on abandonment.
		winner := game.ForfeitWinner(playerID)
		done, err := s.games.Finish(ctx, s.pool, gameID, winner, time.Now())
		if err != nil {
			return domain.ErrInternal("finish forfeited game", err)
		}
		if done {
			s.logger.Info("game forfeited", "game_id", gameID, "leaver_id", playerID)
		}
	}

	return nil
}

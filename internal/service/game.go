package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ketball/backend/internal/domain"
	"github.com/ketball/backend/internal/infra"
	"github.com/ketball/backend/internal/repository"
)

const (
	defaultRecentGamesLimit = 10
	maxRecentGamesLimit     = 100
	defaultEventsLimit      = 20
	maxEventsLimit          = 100
)

// GameService handles the in-match lifecycle: scoring, the clock, and
// finishing.
type GameService struct {
	pool      *pgxpool.Pool
	games     repository.GameRepository
	players   repository.PlayerRepository
	events    repository.EventRepository
	publisher *infra.EventPublisher
	logger    *slog.Logger
}

// NewGameService creates a new GameService.
func NewGameService(
	pool *pgxpool.Pool,
	games repository.GameRepository,
	players repository.PlayerRepository,
	events repository.EventRepository,
	publisher *infra.EventPublisher,
	logger *slog.Logger,
) *GameService {
	return &GameService{
		pool:      pool,
		games:     games,
		players:   players,
		events:    events,
		publisher: publisher,
		logger:    logger,
	}
}

// ScorePoint credits points to one participant of a playing game,
// records a score event, and pushes it onto the live feed.
func (s *GameService) ScorePoint(ctx context.Context, playerID, gameID uuid.UUID, points int) (*domain.EnrichedGame, error) {
	if err := domain.ValidatePoints(points); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", gameID.String())
	}
	if !game.IsParticipant(playerID) {
		return nil, domain.ErrNotParticipant(playerID.String())
	}
	if game.Status != domain.StatusPlaying {
		return nil, domain.ErrGameInactive(gameID.String())
	}

	scored, err := s.games.AddScore(ctx, s.pool, gameID, game.Player1ID == playerID, points)
	if err != nil {
		return nil, domain.ErrInternal("add score", err)
	}
	if !scored {
		// Finished between the read and the write.
		return nil, domain.ErrGameInactive(gameID.String())
	}

	event := domain.NewScoreEvent(gameID, playerID, points)
	if err := s.events.Insert(ctx, s.pool, event); err != nil {
		return nil, domain.ErrInternal("record score event", err)
	}
	s.publishEvent(ctx, event)

	game, err = s.games.FindByID(ctx, s.pool, gameID)
	if err != nil || game == nil {
		return nil, domain.ErrInternal("reload game", err)
	}
	return enrichGame(ctx, s.pool, s.players, game)
}

// UpdateGameTime overwrites the countdown of a playing game. The write
// is a silent no-op when the game is missing or no longer playing, so
// late ticks from a client never error.
func (s *GameService) UpdateGameTime(ctx context.Context, playerID, gameID uuid.UUID, timeLeft int) error {
	if timeLeft < 0 {
		return domain.ErrValidation("time_left must not be negative")
	}

	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil
	}
	if !game.IsParticipant(playerID) {
		return domain.ErrNotParticipant(playerID.String())
	}

	if err := s.games.UpdateTimeLeft(ctx, s.pool, gameID, timeLeft); err != nil {
		return domain.ErrInternal("update time left", err)
	}
	return nil
}

// EndGame finishes a playing game: the winner is resolved from the
// current scores and both participants' lifetime stats are updated, all
// within one transaction. Ending an absent or already-finished game is
// a silent no-op, reported as (nil, nil), so a late duplicate end from
// the second client never errors.
func (s *GameService) EndGame(ctx context.Context, playerID, gameID uuid.UUID) (*domain.EnrichedGame, error) {
	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil || game.Status == domain.StatusFinished {
		return nil, nil
	}
	if !game.IsParticipant(playerID) {
		return nil, domain.ErrNotParticipant(playerID.String())
	}
	if game.Status != domain.StatusPlaying || game.Player2ID == nil {
		return nil, domain.ErrGameInactive(gameID.String())
	}

	winnerID := game.Winner()
	if err := s.finishAndSettle(ctx, game, winnerID); err != nil {
		return nil, err
	}

	s.logger.Info("game ended",
		"game_id", gameID,
		"player1_score", game.Player1Score,
		"player2_score", game.Player2Score,
		"winner_id", winnerID,
	)

	game, err = s.games.FindByID(ctx, s.pool, gameID)
	if err != nil || game == nil {
		return nil, domain.ErrInternal("reload game", err)
	}
	return enrichGame(ctx, s.pool, s.players, game)
}

// finishAndSettle marks the game finished and applies the outcome to
// both participants' stats in a single transaction. Rows are locked in
// a fixed order to avoid deadlocks between concurrent finishes.
func (s *GameService) finishAndSettle(ctx context.Context, game *domain.Game, winnerID *uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	done, err := s.games.Finish(ctx, tx, game.ID, winnerID, time.Now())
	if err != nil {
		return domain.ErrInternal("finish game", err)
	}
	if !done {
		// Another caller finished it first; their settlement stands.
		return nil
	}

	first, second := game.Player1ID, *game.Player2ID
	if second.String() < first.String() {
		first, second = second, first
	}

	for _, id := range []uuid.UUID{first, second} {
		player, err := s.players.LockForUpdate(ctx, tx, id)
		if err != nil {
			return domain.ErrInternal("lock player", err)
		}
		if player == nil {
			continue
		}
		next := player.PlayerStats.ApplyOutcome(game.Outcome(id, winnerID))
		if err := s.players.UpdateStats(ctx, tx, id, next); err != nil {
			return domain.ErrInternal("update player stats", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}
	return nil
}

// ForceEnd finishes a playing game on behalf of the system, resolving
// the winner from the scores as they stand. Used by the sweeper for
// games whose clients went away mid-match.
func (s *GameService) ForceEnd(ctx context.Context, game *domain.Game) error {
	if game.Status != domain.StatusPlaying || game.Player2ID == nil {
		return nil
	}
	return s.finishAndSettle(ctx, game, game.Winner())
}

// GetGame returns one game with both participants' profiles.
func (s *GameService) GetGame(ctx context.Context, gameID uuid.UUID) (*domain.EnrichedGame, error) {
	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", gameID.String())
	}
	return enrichGame(ctx, s.pool, s.players, game)
}

// GetActiveGame returns the player's current non-finished game, or nil
// when they have none.
func (s *GameService) GetActiveGame(ctx context.Context, playerID uuid.UUID) (*domain.EnrichedGame, error) {
	game, err := s.games.FindActiveByParticipant(ctx, s.pool, playerID)
	if err != nil {
		return nil, domain.ErrInternal("find active game", err)
	}
	if game == nil {
		return nil, nil
	}
	return enrichGame(ctx, s.pool, s.players, game)
}

// GetRecentGames returns the player's finished games, newest first.
func (s *GameService) GetRecentGames(ctx context.Context, playerID uuid.UUID, limit int) ([]domain.EnrichedGame, error) {
	if limit <= 0 {
		limit = defaultRecentGamesLimit
	}
	if limit > maxRecentGamesLimit {
		limit = maxRecentGamesLimit
	}

	games, err := s.games.ListRecentFinished(ctx, s.pool, playerID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list recent games", err)
	}

	enriched := make([]domain.EnrichedGame, 0, len(games))
	for i := range games {
		eg, err := enrichGame(ctx, s.pool, s.players, &games[i])
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, *eg)
	}
	return enriched, nil
}

// GetGameEvents returns the game's most recent events, newest first.
func (s *GameService) GetGameEvents(ctx context.Context, gameID uuid.UUID, limit int) ([]domain.GameEvent, error) {
	if limit <= 0 {
		limit = defaultEventsLimit
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}

	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", gameID.String())
	}

	events, err := s.events.ListRecentByGame(ctx, s.pool, gameID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list game events", err)
	}
	return events, nil
}

// publishEvent pushes one event onto the live feed, best effort. Feed
// delivery never fails the request.
func (s *GameService) publishEvent(ctx context.Context, event *domain.GameEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal game event", "event_id", event.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, []byte(event.GameID.String()), payload); err != nil {
		s.logger.Warn("publish game event failed", "event_id", event.ID, "error", err)
	}
}

// enrichGame composes a game with both participants' profiles.
func enrichGame(ctx context.Context, db repository.DBTX, players repository.PlayerRepository, game *domain.Game) (*domain.EnrichedGame, error) {
	p1, err := players.FindByID(ctx, db, game.Player1ID)
	if err != nil {
		return nil, domain.ErrInternal("load player one", err)
	}

	var p2 *domain.Player
	if game.Player2ID != nil {
		p2, err = players.FindByID(ctx, db, *game.Player2ID)
		if err != nil {
			return nil, domain.ErrInternal("load player two", err)
		}
	}

	return &domain.EnrichedGame{Game: *game, Player1: p1, Player2: p2}, nil
}

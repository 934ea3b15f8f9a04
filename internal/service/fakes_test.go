package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ketball/backend/internal/domain"
	"github.com/ketball/backend/internal/repository"
)

// In-memory repository fakes for exercising service logic without a
// database. Writes mutate the shared maps so a service's follow-up
// reads observe them, the same way per-statement SQL would.

type fakePlayerRepo struct {
	players      map[uuid.UUID]*domain.Player
	ranked       []domain.Player
	rankedLimit  int
	statsUpdates int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[uuid.UUID]*domain.Player)}
}

func (f *fakePlayerRepo) add(p domain.Player) {
	cp := p
	f.players[p.ID] = &cp
}

func (f *fakePlayerRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Player, error) {
	if p, ok := f.players[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePlayerRepo) FindByUserID(_ context.Context, _ repository.DBTX, userID uuid.UUID) (*domain.Player, error) {
	for _, p := range f.players {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePlayerRepo) Create(_ context.Context, _ repository.DBTX, player *domain.Player) error {
	f.add(*player)
	return nil
}

func (f *fakePlayerRepo) LockForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Player, error) {
	return f.FindByID(ctx, nil, id)
}

func (f *fakePlayerRepo) UpdateStats(_ context.Context, _ pgx.Tx, id uuid.UUID, stats domain.PlayerStats) error {
	if p, ok := f.players[id]; ok {
		p.PlayerStats = stats
	}
	f.statsUpdates++
	return nil
}

func (f *fakePlayerRepo) UpdateUsername(_ context.Context, _ repository.DBTX, id uuid.UUID, username string) error {
	if p, ok := f.players[id]; ok {
		p.Username = username
	}
	return nil
}

func (f *fakePlayerRepo) UpdateAvatarColor(_ context.Context, _ repository.DBTX, id uuid.UUID, color string) error {
	if p, ok := f.players[id]; ok {
		p.AvatarColor = color
	}
	return nil
}

func (f *fakePlayerRepo) Leaderboard(_ context.Context, _ repository.DBTX, limit int) ([]domain.Player, error) {
	f.rankedLimit = limit
	out := make([]domain.Player, len(f.ranked))
	copy(out, f.ranked)
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeGameRepo struct {
	games map[uuid.UUID]*domain.Game

	joinOK       bool
	joinAttempts int
	created      []uuid.UUID
	deleted      []uuid.UUID

	recentLimit  int
	recentGames  []domain.Game
	expiredGames []domain.Game
	staleGames   []domain.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[uuid.UUID]*domain.Game), joinOK: true}
}

func (f *fakeGameRepo) add(g domain.Game) {
	cp := g
	f.games[g.ID] = &cp
}

func (f *fakeGameRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Game, error) {
	if g, ok := f.games[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeGameRepo) FindActiveByParticipant(_ context.Context, _ repository.DBTX, playerID uuid.UUID) (*domain.Game, error) {
	for _, g := range f.games {
		if g.Status != domain.StatusFinished && g.IsParticipant(playerID) {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeGameRepo) FindOldestWaiting(_ context.Context, _ repository.DBTX, excludePlayer uuid.UUID) (*domain.Game, error) {
	var oldest *domain.Game
	for _, g := range f.games {
		if g.Status != domain.StatusWaiting || g.Player1ID == excludePlayer {
			continue
		}
		if oldest == nil || g.CreatedAt.Before(oldest.CreatedAt) {
			oldest = g
		}
	}
	if oldest == nil {
		return nil, nil
	}
	cp := *oldest
	return &cp, nil
}

func (f *fakeGameRepo) Create(_ context.Context, _ repository.DBTX, game *domain.Game) error {
	f.add(*game)
	f.created = append(f.created, game.ID)
	return nil
}

func (f *fakeGameRepo) Join(_ context.Context, _ repository.DBTX, gameID, player2ID uuid.UUID, startedAt time.Time) (bool, error) {
	f.joinAttempts++
	if !f.joinOK {
		return false, nil
	}
	g, ok := f.games[gameID]
	if !ok || g.Status != domain.StatusWaiting || g.Player2ID != nil {
		return false, nil
	}
	g.Player2ID = &player2ID
	g.Status = domain.StatusPlaying
	g.StartedAt = &startedAt
	return true, nil
}

func (f *fakeGameRepo) AddScore(_ context.Context, _ repository.DBTX, gameID uuid.UUID, playerOne bool, points int) (bool, error) {
	g, ok := f.games[gameID]
	if !ok || g.Status != domain.StatusPlaying {
		return false, nil
	}
	if playerOne {
		g.Player1Score += points
	} else {
		g.Player2Score += points
	}
	return true, nil
}

func (f *fakeGameRepo) UpdateTimeLeft(_ context.Context, _ repository.DBTX, gameID uuid.UUID, timeLeft int) error {
	if g, ok := f.games[gameID]; ok && g.Status == domain.StatusPlaying {
		g.TimeLeft = timeLeft
	}
	return nil
}

func (f *fakeGameRepo) Finish(_ context.Context, _ repository.DBTX, gameID uuid.UUID, winnerID *uuid.UUID, finishedAt time.Time) (bool, error) {
	g, ok := f.games[gameID]
	if !ok || g.Status == domain.StatusFinished {
		return false, nil
	}
	g.Status = domain.StatusFinished
	g.WinnerID = winnerID
	g.FinishedAt = &finishedAt
	return true, nil
}

func (f *fakeGameRepo) Delete(_ context.Context, _ repository.DBTX, gameID uuid.UUID) error {
	delete(f.games, gameID)
	f.deleted = append(f.deleted, gameID)
	return nil
}

func (f *fakeGameRepo) ListRecentFinished(_ context.Context, _ repository.DBTX, _ uuid.UUID, limit int) ([]domain.Game, error) {
	f.recentLimit = limit
	return f.recentGames, nil
}

func (f *fakeGameRepo) ListExpiredPlaying(_ context.Context, _ repository.DBTX, _ time.Time) ([]domain.Game, error) {
	return f.expiredGames, nil
}

func (f *fakeGameRepo) ListStaleWaiting(_ context.Context, _ repository.DBTX, _ time.Time) ([]domain.Game, error) {
	return f.staleGames, nil
}

type fakeEventRepo struct {
	inserted   []domain.GameEvent
	listLimit  int
	listEvents []domain.GameEvent
}

func (f *fakeEventRepo) Insert(_ context.Context, _ repository.DBTX, event *domain.GameEvent) error {
	f.inserted = append(f.inserted, *event)
	return nil
}

func (f *fakeEventRepo) ListRecentByGame(_ context.Context, _ repository.DBTX, _ uuid.UUID, limit int) ([]domain.GameEvent, error) {
	f.listLimit = limit
	return f.listEvents, nil
}

type fakeQueueRepo struct {
	enqueued []uuid.UUID
	dequeued []uuid.UUID
}

func (f *fakeQueueRepo) Enqueue(_ context.Context, _ repository.DBTX, playerID uuid.UUID, _ time.Time) error {
	f.enqueued = append(f.enqueued, playerID)
	return nil
}

func (f *fakeQueueRepo) Dequeue(_ context.Context, _ repository.DBTX, playerID uuid.UUID) error {
	f.dequeued = append(f.dequeued, playerID)
	return nil
}

package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ketball/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchFixture() (*MatchService, *fakeGameRepo, *fakePlayerRepo, *fakeQueueRepo) {
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	queue := &fakeQueueRepo{}
	svc := NewMatchService(nil, games, players, queue, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, games, players, queue
}

func addPlayer(players *fakePlayerRepo, username string) uuid.UUID {
	p := domain.Player{ID: uuid.New(), UserID: uuid.New(), Username: username, AvatarColor: domain.AvatarColors[0]}
	players.add(p)
	return p.ID
}

func TestFindOrCreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent for a player already in a game", func(t *testing.T) {
		svc, games, players, _ := newMatchFixture()
		p1 := addPlayer(players, "one")
		p2 := addPlayer(players, "two")

		existing := domain.Game{ID: uuid.New(), Player1ID: p1, Player2ID: &p2, Status: domain.StatusPlaying, TimeLeft: domain.GameDuration, CreatedAt: time.Now()}
		games.add(existing)

		got, err := svc.FindOrCreateGame(ctx, p1)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, got.ID)
		assert.Empty(t, games.created, "no new game created")
		assert.Zero(t, games.joinAttempts, "no join attempted")

		again, err := svc.FindOrCreateGame(ctx, p1)
		require.NoError(t, err)
		assert.Equal(t, got.ID, again.ID)
	})

	t.Run("joins the oldest waiting game and starts it", func(t *testing.T) {
		svc, games, players, queue := newMatchFixture()
		creator := addPlayer(players, "creator")
		joiner := addPlayer(players, "joiner")

		waiting := domain.Game{ID: uuid.New(), Player1ID: creator, Status: domain.StatusWaiting, TimeLeft: domain.GameDuration, CreatedAt: time.Now().Add(-time.Minute)}
		games.add(waiting)

		got, err := svc.FindOrCreateGame(ctx, joiner)
		require.NoError(t, err)
		assert.Equal(t, waiting.ID, got.ID)
		assert.Equal(t, domain.StatusPlaying, got.Status)
		require.NotNil(t, got.Player2ID)
		assert.Equal(t, joiner, *got.Player2ID)
		assert.NotNil(t, got.StartedAt)
		assert.Empty(t, games.created)
		assert.Equal(t, []uuid.UUID{creator}, queue.dequeued, "matched creator leaves the queue")

		require.NotNil(t, got.Player1)
		assert.Equal(t, "creator", got.Player1.Username)
		require.NotNil(t, got.Player2)
		assert.Equal(t, "joiner", got.Player2.Username)
	})

	t.Run("never matches against own waiting game", func(t *testing.T) {
		svc, games, players, _ := newMatchFixture()
		p1 := addPlayer(players, "solo")

		waiting := domain.Game{ID: uuid.New(), Player1ID: p1, Status: domain.StatusWaiting, TimeLeft: domain.GameDuration, CreatedAt: time.Now().Add(-time.Minute)}
		games.add(waiting)

		got, err := svc.FindOrCreateGame(ctx, p1)
		require.NoError(t, err)
		assert.Equal(t, waiting.ID, got.ID, "own waiting game returned as-is")
		assert.Nil(t, got.Player2ID)
	})

	t.Run("creates a waiting game when nobody is open", func(t *testing.T) {
		svc, games, players, queue := newMatchFixture()
		p1 := addPlayer(players, "first")

		got, err := svc.FindOrCreateGame(ctx, p1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusWaiting, got.Status)
		assert.Equal(t, p1, got.Player1ID)
		assert.Nil(t, got.Player2ID)
		assert.Equal(t, domain.GameDuration, got.TimeLeft)
		assert.Len(t, games.created, 1)
		assert.Equal(t, []uuid.UUID{p1}, queue.enqueued)
	})

	t.Run("lost join race falls back to creating", func(t *testing.T) {
		svc, games, players, _ := newMatchFixture()
		creator := addPlayer(players, "creator")
		joiner := addPlayer(players, "joiner")

		waiting := domain.Game{ID: uuid.New(), Player1ID: creator, Status: domain.StatusWaiting, TimeLeft: domain.GameDuration, CreatedAt: time.Now().Add(-time.Minute)}
		games.add(waiting)
		games.joinOK = false

		got, err := svc.FindOrCreateGame(ctx, joiner)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusWaiting, got.Status)
		assert.NotEqual(t, waiting.ID, got.ID)
		assert.Len(t, games.created, 1)
	})
}

func TestLeaveGame(t *testing.T) {
	ctx := context.Background()

	t.Run("waiting game is deleted and creator dequeued", func(t *testing.T) {
		svc, games, players, queue := newMatchFixture()
		p1 := addPlayer(players, "creator")

		waiting := domain.Game{ID: uuid.New(), Player1ID: p1, Status: domain.StatusWaiting, TimeLeft: domain.GameDuration, CreatedAt: time.Now()}
		games.add(waiting)

		require.NoError(t, svc.LeaveGame(ctx, p1, waiting.ID))
		assert.Equal(t, []uuid.UUID{waiting.ID}, games.deleted)
		assert.Equal(t, []uuid.UUID{p1}, queue.dequeued)
	})

	t.Run("leaving a playing game forfeits to the opponent", func(t *testing.T) {
		svc, games, players, _ := newMatchFixture()
		p1 := addPlayer(players, "leaver")
		p2 := addPlayer(players, "opponent")

		started := time.Now()
		playing := domain.Game{ID: uuid.New(), Player1ID: p1, Player2ID: &p2, Player1Score: 10, Status: domain.StatusPlaying, TimeLeft: 30, CreatedAt: started, StartedAt: &started}
		games.add(playing)

		require.NoError(t, svc.LeaveGame(ctx, p1, playing.ID))

		g := games.games[playing.ID]
		assert.Equal(t, domain.StatusFinished, g.Status)
		require.NotNil(t, g.WinnerID)
		assert.Equal(t, p2, *g.WinnerID, "opponent wins regardless of score")
		assert.NotNil(t, g.FinishedAt)
		assert.Zero(t, players.statsUpdates, "forfeit leaves stats aggregates untouched")
	})

	t.Run("unknown or finished game is a silent no-op", func(t *testing.T) {
		svc, games, players, queue := newMatchFixture()
		p1 := addPlayer(players, "player")

		require.NoError(t, svc.LeaveGame(ctx, p1, uuid.New()))

		finished := domain.Game{ID: uuid.New(), Player1ID: p1, Status: domain.StatusFinished, CreatedAt: time.Now()}
		games.add(finished)
		require.NoError(t, svc.LeaveGame(ctx, p1, finished.ID))

		assert.Empty(t, games.deleted)
		assert.Empty(t, queue.dequeued)
	})

	t.Run("non-participant is rejected", func(t *testing.T) {
		svc, games, players, _ := newMatchFixture()
		p1 := addPlayer(players, "creator")
		outsider := addPlayer(players, "outsider")

		waiting := domain.Game{ID: uuid.New(), Player1ID: p1, Status: domain.StatusWaiting, CreatedAt: time.Now()}
		games.add(waiting)

		err := svc.LeaveGame(ctx, outsider, waiting.ID)
		var appErr *domain.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_PARTICIPANT", appErr.Code)
		assert.Empty(t, games.deleted)
	})
}

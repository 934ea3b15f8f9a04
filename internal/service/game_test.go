package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ketball/backend/internal/domain"
	"github.com/ketball/backend/internal/infra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGameFixture() (*GameService, *fakeGameRepo, *fakePlayerRepo, *fakeEventRepo) {
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	events := &fakeEventRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := infra.NewEventPublisher("", "", false, logger)
	svc := NewGameService(nil, games, players, events, publisher, logger)
	return svc, games, players, events
}

func TestGetGameEvents_LimitBounds(t *testing.T) {
	ctx := context.Background()
	svc, games, players, events := newGameFixture()
	p1 := addPlayer(players, "one")

	game := domain.Game{ID: uuid.New(), Player1ID: p1, Status: domain.StatusPlaying, CreatedAt: time.Now()}
	games.add(game)

	_, err := svc.GetGameEvents(ctx, game.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultEventsLimit, events.listLimit)

	_, err = svc.GetGameEvents(ctx, game.ID, 100000)
	require.NoError(t, err)
	assert.Equal(t, maxEventsLimit, events.listLimit)
}

func TestGetRecentGames_LimitBounds(t *testing.T) {
	ctx := context.Background()
	svc, games, players, _ := newGameFixture()
	p1 := addPlayer(players, "one")

	_, err := svc.GetRecentGames(ctx, p1, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultRecentGamesLimit, games.recentLimit)

	_, err = svc.GetRecentGames(ctx, p1, 100000)
	require.NoError(t, err)
	assert.Equal(t, maxRecentGamesLimit, games.recentLimit)
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ketball/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedPlayer(username string, wins, totalPoints int) domain.Player {
	return domain.Player{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Username:    username,
		AvatarColor: domain.AvatarColors[0],
		PlayerStats: domain.PlayerStats{Wins: wins, TotalPoints: totalPoints, GamesPlayed: wins},
	}
}

func TestGetLeaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("wins tie broken by total points", func(t *testing.T) {
		players := newFakePlayerRepo()
		players.ranked = []domain.Player{
			rankedPlayer("low", 5, 10),
			rankedPlayer("high", 5, 30),
		}
		svc := NewPlayerService(nil, players)

		got, err := svc.GetLeaderboard(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, players.rankedLimit)
		require.Len(t, got, 2)
		assert.Equal(t, "high", got[0].Username)
		assert.Equal(t, "low", got[1].Username)
	})

	t.Run("wins rank before total points", func(t *testing.T) {
		players := newFakePlayerRepo()
		players.ranked = []domain.Player{
			rankedPlayer("pointy", 2, 100),
			rankedPlayer("winny", 6, 12),
			rankedPlayer("middle", 6, 8),
		}
		svc := NewPlayerService(nil, players)

		got, err := svc.GetLeaderboard(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "winny", got[0].Username)
		assert.Equal(t, "middle", got[1].Username)
		assert.Equal(t, "pointy", got[2].Username)
	})

	t.Run("limit defaults and caps", func(t *testing.T) {
		players := newFakePlayerRepo()
		svc := NewPlayerService(nil, players)

		_, err := svc.GetLeaderboard(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, defaultLeaderboardLimit, players.rankedLimit)

		_, err = svc.GetLeaderboard(ctx, 100000)
		require.NoError(t, err)
		assert.Equal(t, maxLeaderboardLimit, players.rankedLimit)
	})
}

func TestSortLeaderboardScenario(t *testing.T) {
	// Two wins-tied players plus a leader; top two keep points order.
	players := []domain.Player{
		rankedPlayer("tied-low", 3, 6),
		rankedPlayer("leader", 7, 2),
		rankedPlayer("tied-high", 3, 14),
	}
	domain.SortLeaderboard(players)

	top2 := players[:2]
	assert.Equal(t, "leader", top2[0].Username)
	assert.Equal(t, "tied-high", top2[1].Username)
}

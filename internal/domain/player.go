package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// AvatarColors is the fixed palette a new player's color is drawn from.
var AvatarColors = []string{
	"#ff6b00", "#00d4ff", "#ffd700", "#ff3366", "#00ff88",
	"#9933ff", "#ff9500", "#00ccff", "#ff0066", "#33ff99",
}

// PlayerStats holds the aggregate counters mutated at game-finish time.
// Invariant: Wins + Losses <= GamesPlayed (ties count as neither).
type PlayerStats struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	TotalPoints int `json:"total_points"`
	HotStreak   int `json:"hot_streak"`
	BestStreak  int `json:"best_streak"`
	GamesPlayed int `json:"games_played"`
}

// Player represents a players row: an identity-linked profile with
// lifetime stats. Created on first authenticated session, never deleted.
type Player struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	AvatarColor string    `json:"avatar_color"`
	PlayerStats
	CreatedAt time.Time `json:"created_at"`
}

// AuthUser holds credentials from auth_users.
type AuthUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SortLeaderboard orders players for display: wins descending, total
// points breaking ties.
func SortLeaderboard(players []Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Wins != players[j].Wins {
			return players[i].Wins > players[j].Wins
		}
		return players[i].TotalPoints > players[j].TotalPoints
	})
}

// GameOutcome describes one participant's result of a finished game.
type GameOutcome struct {
	Won   bool
	Tie   bool
	Score int
}

// ApplyOutcome returns the stats after recording one finished game.
// Ties increment neither wins nor losses; the hot streak resets on any
// non-win outcome and the best streak only ever grows.
func (s PlayerStats) ApplyOutcome(o GameOutcome) PlayerStats {
	next := s
	next.GamesPlayed++
	next.TotalPoints += o.Score
	if o.Won {
		next.Wins++
		next.HotStreak++
	} else {
		if !o.Tie {
			next.Losses++
		}
		next.HotStreak = 0
	}
	if next.HotStreak > next.BestStreak {
		next.BestStreak = next.HotStreak
	}
	return next
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus is the lifecycle state of a game. Transitions only run
// forward: waiting → playing → finished. A waiting game may instead be
// deleted outright by its creator.
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// GameDuration is the match clock in seconds.
const GameDuration = 60

// Game represents one match between two players. Player two is assigned
// at most once; scores are monotonically non-decreasing; the winner is
// set only at finish and only to a participant, or left unset on a tie.
type Game struct {
	ID           uuid.UUID  `json:"id"`
	Player1ID    uuid.UUID  `json:"player1_id"`
	Player2ID    *uuid.UUID `json:"player2_id,omitempty"`
	Player1Score int        `json:"player1_score"`
	Player2Score int        `json:"player2_score"`
	Status       GameStatus `json:"status"`
	WinnerID     *uuid.UUID `json:"winner_id,omitempty"`
	TimeLeft     int        `json:"time_left"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// EnrichedGame is a game composed with both participants' profiles, the
// shape returned by all read operations.
type EnrichedGame struct {
	Game
	Player1 *Player `json:"player1"`
	Player2 *Player `json:"player2,omitempty"`
}

// IsParticipant reports whether the player occupies either slot.
func (g *Game) IsParticipant(playerID uuid.UUID) bool {
	if g.Player1ID == playerID {
		return true
	}
	return g.Player2ID != nil && *g.Player2ID == playerID
}

// Winner resolves the winner from the current scores: the participant
// with the strictly higher score, or nil on an exact tie.
func (g *Game) Winner() *uuid.UUID {
	switch {
	case g.Player1Score > g.Player2Score:
		id := g.Player1ID
		return &id
	case g.Player2Score > g.Player1Score && g.Player2ID != nil:
		id := *g.Player2ID
		return &id
	default:
		return nil
	}
}

// ForfeitWinner resolves the winner when leaver abandons a playing game:
// the other participant, unconditionally.
func (g *Game) ForfeitWinner(leaver uuid.UUID) *uuid.UUID {
	if g.Player1ID == leaver {
		return g.Player2ID
	}
	id := g.Player1ID
	return &id
}

// Outcome returns the given participant's result against the resolved
// winner. The winner may be nil (tie).
func (g *Game) Outcome(playerID uuid.UUID, winnerID *uuid.UUID) GameOutcome {
	score := g.Player1Score
	if g.Player2ID != nil && *g.Player2ID == playerID {
		score = g.Player2Score
	}
	return GameOutcome{
		Won:   winnerID != nil && *winnerID == playerID,
		Tie:   winnerID == nil,
		Score: score,
	}
}

// Expired reports whether a playing game's clock ran out before now,
// with the given grace period. Games without a start timestamp never
// expire.
func (g *Game) Expired(now time.Time, grace time.Duration) bool {
	if g.Status != StatusPlaying || g.StartedAt == nil {
		return false
	}
	deadline := g.StartedAt.Add(GameDuration*time.Second + grace)
	return now.After(deadline)
}

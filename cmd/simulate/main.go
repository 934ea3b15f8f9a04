// Command simulate runs a headless exhibition match between two AI
// controllers and prints the result as JSON. Useful for eyeballing
// physics changes without a browser client.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ketball/backend/internal/arena"
	"github.com/ketball/backend/internal/domain"
)

type eventOut struct {
	Tick   int    `json:"tick"`
	Second int    `json:"second"`
	Scorer string `json:"scorer"`
	Points int    `json:"points"`
}

type resultOut struct {
	Seconds    int        `json:"seconds"`
	Ticks      int        `json:"ticks"`
	LeftScore  int        `json:"left_score"`
	RightScore int        `json:"right_score"`
	Winner     string     `json:"winner"`
	Events     []eventOut `json:"events"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	seconds := flag.Int("seconds", domain.GameDuration, "match length in seconds")
	flag.Parse()

	if *seconds <= 0 {
		logger.Error("seconds must be positive", "seconds", *seconds)
		os.Exit(1)
	}

	result := arena.RunMatch(nil, nil, *seconds)

	out := resultOut{
		Seconds:    *seconds,
		Ticks:      result.Ticks,
		LeftScore:  result.LeftScore,
		RightScore: result.RightScore,
		Winner:     winnerLabel(result),
		Events:     make([]eventOut, 0, len(result.Events)),
	}
	for _, ev := range result.Events {
		out.Events = append(out.Events, eventOut{
			Tick:   ev.Tick,
			Second: ev.Tick / arena.TickRate,
			Scorer: ev.Scorer.String(),
			Points: ev.Points,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func winnerLabel(r arena.MatchResult) string {
	switch {
	case r.LeftScore > r.RightScore:
		return arena.SideLeft.String()
	case r.RightScore > r.LeftScore:
		return arena.SideRight.String()
	default:
		return "tie"
	}
}

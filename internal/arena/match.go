package arena

// MatchEvent is a basket with the tick it happened on.
type MatchEvent struct {
	Tick   int
	Scorer Side
	Points int
}

// MatchResult is the outcome of a headless exhibition match.
type MatchResult struct {
	LeftScore  int
	RightScore int
	Ticks      int
	Events     []MatchEvent
}

// Controller produces one tick of input for a side.
type Controller func(w *World, side Side) Input

// RunMatch simulates a full game clock with the given controllers at
// the nominal tick rate and returns the event log. Both sides default
// to the AI controller when nil.
func RunMatch(left, right Controller, seconds int) MatchResult {
	if left == nil {
		left = AIInput
	}
	if right == nil {
		right = AIInput
	}

	w := NewWorld(SideRight)
	ticks := seconds * TickRate

	var result MatchResult
	for tick := 0; tick < ticks; tick++ {
		events := w.Step(left(w, SideLeft), right(w, SideRight))
		for _, ev := range events {
			result.Events = append(result.Events, MatchEvent{Tick: tick, Scorer: ev.Scorer, Points: ev.Points})
			if ev.Scorer == SideLeft {
				result.LeftScore += ev.Points
			} else {
				result.RightScore += ev.Points
			}
		}
	}
	result.Ticks = ticks
	return result
}

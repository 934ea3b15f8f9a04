package arena

import "math"

// aiChaseSpeed is the fraction of full player speed the reactive
// controller moves at.
const aiChaseSpeed = 0.7

// aiDeadband is the horizontal tolerance around the head center inside
// which the controller stops chasing.
const aiDeadband = 20.0

// aiJumpRange is the horizontal distance within which the controller
// will jump for a ball above it.
const aiJumpRange = 100.0

// AIInput is the reactive stand-in controller for an uncontrolled
// player: chase the ball horizontally and jump when it is close and
// overhead. It is a heuristic, not a networked opponent.
func AIInput(w *World, side Side) Input {
	body := &w.Players[side]
	ball := &w.Ball

	var in Input
	switch {
	case ball.X > body.HeadX()+aiDeadband:
		in.Move = aiChaseSpeed
	case ball.X < body.HeadX()-aiDeadband:
		in.Move = -aiChaseSpeed
	}

	if math.Abs(ball.X-body.X) < aiJumpRange && ball.Y < body.Y && !body.Airborne {
		in.Jump = true
	}
	return in
}

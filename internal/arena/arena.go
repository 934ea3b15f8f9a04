// Package arena implements the Ketball court simulation: a single ball,
// two players, and the hoop-scoring rules. The simulation is pure and
// deterministic; one Step call advances exactly one tick (60 ticks per
// second nominal, no delta-time scaling).
package arena

import "math"

// Court geometry and tuning constants.
const (
	CourtWidth  = 800.0
	CourtHeight = 450.0
	GroundY     = 400.0
	RimY        = 120.0
	HoopWidth   = 60.0

	BallRadius  = 20.0
	BallSpeed   = 6.0
	Gravity     = 0.4
	BallGravity = Gravity * 0.5
	JumpForce   = -12.0
	PlayerSpeed = 5.0

	PlayerWidth  = 40.0
	PlayerHeight = 60.0
	HeadRadius   = 30.0

	// MidlineBuffer keeps both players out of a no-go zone around the
	// court midline.
	MidlineBuffer = 20.0

	// PointsPerBasket is the value of one successful hoop entry.
	PointsPerBasket = 2

	// TickRate is the nominal simulation frequency in ticks per second.
	TickRate = 60
)

// Side identifies a participant by court half.
type Side int

const (
	SideLeft  Side = iota // player one
	SideRight             // player two
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Ball is the simulated ball state.
type Ball struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// Body is one player's kinematic state. Y is the head center; the body
// box extends below it.
type Body struct {
	X, Y       float64
	VX, VY     float64
	Width      float64
	Height     float64
	HeadRadius float64
	Airborne   bool
}

// HeadX returns the horizontal center of the head hit-circle.
func (b *Body) HeadX() float64 { return b.X + b.Width/2 }

// Input is one tick of control state for a player. Move is a horizontal
// command in [-1, 1] scaled by PlayerSpeed; Jump requests a jump, which
// only takes effect on the ground.
type Input struct {
	Move float64
	Jump bool
}

// ScoreEvent reports a basket made during a Step.
type ScoreEvent struct {
	Scorer Side
	Points int
}

// World holds the full simulation state.
type World struct {
	Ball    Ball
	Players [2]Body
}

// NewWorld creates a world with both players on their marks and the
// ball served toward the given side.
func NewWorld(serveToward Side) *World {
	w := &World{
		Players: [2]Body{
			{X: 100, Y: 350, Width: PlayerWidth, Height: PlayerHeight, HeadRadius: HeadRadius},
			{X: 660, Y: 350, Width: PlayerWidth, Height: PlayerHeight, HeadRadius: HeadRadius},
		},
	}
	w.resetBall(serveToward.Opponent())
	return w
}

// resetBall recenters the ball after a basket on scoredOn's hoop,
// serving it away from the scored-on side.
func (w *World) resetBall(scoredOn Side) {
	vx := -BallSpeed
	if scoredOn == SideLeft {
		vx = BallSpeed
	}
	w.Ball = Ball{X: CourtWidth / 2, Y: 200, VX: vx, Radius: BallRadius}
}

// Step advances the simulation one tick and returns any baskets made.
func (w *World) Step(left, right Input) []ScoreEvent {
	w.applyInput(&w.Players[0], left)
	w.applyInput(&w.Players[1], right)

	w.movePlayer(&w.Players[0], 0, CourtWidth/2-MidlineBuffer)
	w.movePlayer(&w.Players[1], CourtWidth/2+MidlineBuffer, CourtWidth)

	w.moveBall()

	w.collideHead(&w.Players[0])
	w.collideHead(&w.Players[1])

	return w.checkBaskets()
}

func (w *World) applyInput(b *Body, in Input) {
	move := in.Move
	if move > 1 {
		move = 1
	} else if move < -1 {
		move = -1
	}
	b.VX = move * PlayerSpeed

	if in.Jump && !b.Airborne {
		b.VY = JumpForce
		b.Airborne = true
	}
}

func (w *World) movePlayer(b *Body, minX, maxX float64) {
	b.X += b.VX
	b.Y += b.VY
	b.VY += Gravity

	// Ground clamp.
	if b.Y > GroundY-b.Height {
		b.Y = GroundY - b.Height
		b.VY = 0
		b.Airborne = false
	}

	// Half-court confinement.
	if b.X < minX {
		b.X = minX
	}
	if b.X+b.Width > maxX {
		b.X = maxX - b.Width
	}
}

func (w *World) moveBall() {
	ball := &w.Ball
	ball.X += ball.VX
	ball.Y += ball.VY
	ball.VY += BallGravity

	// Side walls reflect.
	if ball.X-ball.Radius < 0 {
		ball.X = ball.Radius
		ball.VX = math.Abs(ball.VX)
	}
	if ball.X+ball.Radius > CourtWidth {
		ball.X = CourtWidth - ball.Radius
		ball.VX = -math.Abs(ball.VX)
	}

	// Ceiling reflects.
	if ball.Y-ball.Radius < 0 {
		ball.Y = ball.Radius
		ball.VY = math.Abs(ball.VY)
	}

	// Floor bounce with energy loss.
	if ball.Y+ball.Radius > GroundY {
		ball.Y = GroundY - ball.Radius
		ball.VY = -ball.VY * 0.7
	}
}

// collideHead runs the circle-circle test against the player's head and
// rebounds the ball along the contact angle with a speed amplification
// and a share of the player's horizontal momentum. The ball is pushed
// just outside the overlap so it cannot stick.
func (w *World) collideHead(b *Body) {
	ball := &w.Ball
	dx := ball.X - b.HeadX()
	dy := ball.Y - b.Y
	dist := math.Hypot(dx, dy)

	if dist >= ball.Radius+b.HeadRadius {
		return
	}

	angle := math.Atan2(dy, dx)
	speed := math.Hypot(ball.VX, ball.VY)
	ball.VX = math.Cos(angle)*speed*1.2 + b.VX*0.5
	ball.VY = math.Sin(angle)*speed*1.2 - 5
	ball.X = b.HeadX() + math.Cos(angle)*(ball.Radius+b.HeadRadius+1)
	ball.Y = b.Y + math.Sin(angle)*(ball.Radius+b.HeadRadius+1)
}

// checkBaskets scores when the ball enters a hoop zone while descending.
// A basket on the left hoop scores for the right player and vice versa.
func (w *World) checkBaskets() []ScoreEvent {
	ball := &w.Ball
	if ball.VY <= 0 || ball.Y <= RimY-10 || ball.Y >= RimY+40 {
		return nil
	}

	if ball.X < HoopWidth+10 {
		w.resetBall(SideLeft)
		return []ScoreEvent{{Scorer: SideRight, Points: PointsPerBasket}}
	}
	if ball.X > CourtWidth-HoopWidth-10 {
		w.resetBall(SideRight)
		return []ScoreEvent{{Scorer: SideLeft, Points: PointsPerBasket}}
	}
	return nil
}

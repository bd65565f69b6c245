package physics

// Step carries the time-step parameters handed to the solver.
type Step struct {
	DeltaT        float64
	InverseDeltaT float64

	// DTRatio is DeltaT divided by the previous step's DeltaT. Warm-start
	// impulses are scaled by it so variable step sizes stay stable.
	DTRatio float64

	VelocityIterations int
	PositionIterations int
	WarmStarting       bool
}

// Position is a body's center-of-mass position and angle in the island
// solver arrays.
type Position struct {
	Point Vec2
	Angle float64
}

// Velocity is a body's linear and angular velocity in the island solver
// arrays.
type Velocity struct {
	Linear  Vec2
	Angular float64
}

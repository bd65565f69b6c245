package physics

import "math"

const (
	Pi = math.Pi

	maxFloat = math.MaxFloat64
	epsilon  = math.SmallestNonzeroFloat64

	// LinearSlop is the linear position resolution tolerance. Position
	// correction stops pushing once a constraint error is below this.
	LinearSlop = 0.005

	// AngularSlop is the angular counterpart of LinearSlop, in radians.
	AngularSlop = 2.0 / 180.0 * Pi

	// MaxLinearCorrection caps the positional push applied by a single
	// position iteration. Large corrections cause overshoot.
	MaxLinearCorrection = 0.2

	// MaxAngularCorrection caps the angular push of a single position
	// iteration, in radians.
	MaxAngularCorrection = 8.0 / 180.0 * Pi

	// MaxTranslation limits how far a body may travel in one step.
	MaxTranslation        = 2.0
	maxTranslationSquared = MaxTranslation * MaxTranslation

	// MaxRotation limits how far a body may rotate in one step. Joints
	// assume rotations below half a turn per step.
	MaxRotation        = 0.5 * Pi
	maxRotationSquared = MaxRotation * MaxRotation

	// Baumgarte is the fraction of position error resolved per iteration
	// by soft-style corrections (the motor joint's correction factor uses
	// its own knob).
	Baumgarte = 0.2

	// TimeToSleep is how long a body must stay below the sleep tolerances
	// before it is put to sleep, in seconds.
	TimeToSleep = 0.5

	// LinearSleepTolerance is the linear speed below which a body may
	// fall asleep.
	LinearSleepTolerance = 0.01

	// AngularSleepTolerance is the angular speed below which a body may
	// fall asleep, in radians per second.
	AngularSleepTolerance = 2.0 / 180.0 * Pi
)

func assert(cond bool) {
	if !cond {
		panic("physics: internal assertion failed")
	}
}

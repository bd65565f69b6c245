package physics

import "math"

// island is a connected group of awake bodies and the joints between
// them. The world carves its body graph into islands each step and
// solves them independently; sleep is decided per island so a chain of
// bodies only sleeps as a whole.
type island struct {
	bodies []*Body
	joints []Joint

	positions  []Position
	velocities []Velocity
}

func newIsland(bodyCapacity, jointCapacity int) *island {
	return &island{
		bodies:     make([]*Body, 0, bodyCapacity),
		joints:     make([]Joint, 0, jointCapacity),
		positions:  make([]Position, 0, bodyCapacity),
		velocities: make([]Velocity, 0, bodyCapacity),
	}
}

func (is *island) clear() {
	is.bodies = is.bodies[:0]
	is.joints = is.joints[:0]
	is.positions = is.positions[:0]
	is.velocities = is.velocities[:0]
}

func (is *island) addBody(body *Body) {
	body.islandIndex = len(is.bodies)
	is.bodies = append(is.bodies, body)
	is.positions = append(is.positions, Position{})
	is.velocities = append(is.velocities, Velocity{})
}

func (is *island) addJoint(joint Joint) {
	is.joints = append(is.joints, joint)
}

// solve runs one full solver pass over the island: integrate forces,
// warm start, iterate velocity constraints, integrate positions,
// iterate position constraints, then write the state back to the
// bodies and manage sleep.
func (is *island) solve(step Step, gravity Vec2, allowSleep bool) {
	h := step.DeltaT

	// Integrate velocities and apply damping. Initialize the body state.
	for i, b := range is.bodies {
		c := b.sweep.C
		a := b.sweep.A
		v := b.linearVelocity
		w := b.angularVelocity

		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A

		if b.bodyType == DynamicBody {
			v = v.Add(gravity.Mul(b.gravityScale).Add(b.force.Mul(b.invMass)).Mul(h))
			w += h * b.invI * b.torque

			// Damping follows the ODE dv/dt + c * v = 0 whose exact step is
			// v2 = exp(-c * dt) * v1, taken here as the Pade approximation
			// v2 = v1 * 1 / (1 + c * dt).
			v = v.Mul(1.0 / (1.0 + h*b.linearDamping))
			w *= 1.0 / (1.0 + h*b.angularDamping)
		}

		is.positions[i] = Position{Point: c, Angle: a}
		is.velocities[i] = Velocity{Linear: v, Angular: w}
	}

	for _, j := range is.joints {
		j.InitializeVelocityConstraints(step, is.positions, is.velocities)
	}

	for i := 0; i < step.VelocityIterations; i++ {
		for _, j := range is.joints {
			j.SolveVelocityConstraints(step, is.velocities)
		}
	}

	// Integrate positions, clamping runaway velocities first.
	for i := range is.bodies {
		c := is.positions[i].Point
		a := is.positions[i].Angle
		v := is.velocities[i].Linear
		w := is.velocities[i].Angular

		translation := v.Mul(h)
		if translation.Dot(translation) > maxTranslationSquared {
			ratio := MaxTranslation / translation.Length()
			v = v.Mul(ratio)
		}

		rotation := h * w
		if rotation*rotation > maxRotationSquared {
			ratio := MaxRotation / math.Abs(rotation)
			w *= ratio
		}

		c = c.Add(v.Mul(h))
		a += h * w

		is.positions[i] = Position{Point: c, Angle: a}
		is.velocities[i] = Velocity{Linear: v, Angular: w}
	}

	positionSolved := false
	for i := 0; i < step.PositionIterations; i++ {
		jointsOkay := true
		for _, j := range is.joints {
			jointOkay := j.SolvePositionConstraints(is.positions)
			jointsOkay = jointsOkay && jointOkay
		}

		if jointsOkay {
			// Exit early if the position errors are small.
			positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies.
	for i, b := range is.bodies {
		b.sweep.C = is.positions[i].Point
		b.sweep.A = is.positions[i].Angle
		b.linearVelocity = is.velocities[i].Linear
		b.angularVelocity = is.velocities[i].Angular
		b.synchronizeTransform()
	}

	if allowSleep {
		minSleepTime := maxFloat

		const linTolSqr = LinearSleepTolerance * LinearSleepTolerance
		const angTolSqr = AngularSleepTolerance * AngularSleepTolerance

		for _, b := range is.bodies {
			if b.bodyType == StaticBody {
				continue
			}

			if b.flags&bodyFlagAutoSleep == 0 ||
				b.angularVelocity*b.angularVelocity > angTolSqr ||
				b.linearVelocity.Dot(b.linearVelocity) > linTolSqr {
				b.sleepTime = 0.0
				minSleepTime = 0.0
			} else {
				b.sleepTime += h
				minSleepTime = math.Min(minSleepTime, b.sleepTime)
			}
		}

		if minSleepTime >= TimeToSleep && positionSolved {
			for _, b := range is.bodies {
				b.SetAwake(false)
			}
		}
	}
}

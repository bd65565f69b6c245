package physics

// World owns bodies and joints and advances them through time. Create
// one with NewWorld, populate it with CreateBody and CreateJoint, and
// call Step with a fixed time step.
//
// A World is not safe for concurrent use.
type World struct {
	bodies []*Body
	joints []Joint

	gravity Vec2

	allowSleep   bool
	warmStarting bool
	locked       bool

	// invDT0 is the inverse time step of the previous Step, used to
	// scale warm-start impulses when the step size changes.
	invDT0 float64
}

// NewWorld creates a world with the given gravity. Sleeping and warm
// starting are enabled.
func NewWorld(gravity Vec2) *World {
	return &World{
		gravity:      gravity,
		allowSleep:   true,
		warmStarting: true,
	}
}

// CreateBody creates a body from the definition and adds it to the
// world. Must not be called during Step.
func (w *World) CreateBody(def *BodyDef) *Body {
	assert(!w.locked)

	b := newBody(def, w)
	w.bodies = append(w.bodies, b)
	return b
}

// DestroyBody removes the body and destroys every joint attached to it.
// Must not be called during Step.
func (w *World) DestroyBody(b *Body) {
	assert(!w.locked)

	// Destroying a joint shrinks b.joints, so keep taking the head.
	for len(b.joints) > 0 {
		w.DestroyJoint(b.joints[0])
	}

	for i, body := range w.bodies {
		if body == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	b.world = nil
}

// CreateJoint builds a joint from the definition, validates it, and
// attaches it to the world and both bodies. Must not be called during
// Step.
func (w *World) CreateJoint(def JointDefiner) (Joint, error) {
	assert(!w.locked)

	j, err := def.createJoint()
	if err != nil {
		return nil, err
	}

	base := j.base()
	base.bodyA.joints = append(base.bodyA.joints, j)
	base.bodyB.joints = append(base.bodyB.joints, j)
	w.joints = append(w.joints, j)

	return j, nil
}

// DestroyJoint detaches the joint and wakes both bodies. Must not be
// called during Step.
func (w *World) DestroyJoint(j Joint) {
	assert(!w.locked)

	base := j.base()
	bodyA := base.bodyA
	bodyB := base.bodyB

	bodyA.SetAwake(true)
	bodyB.SetAwake(true)

	removeJoint := func(list []Joint) []Joint {
		for i, joint := range list {
			if joint == j {
				return append(list[:i], list[i+1:]...)
			}
		}
		return list
	}

	bodyA.joints = removeJoint(bodyA.joints)
	bodyB.joints = removeJoint(bodyB.joints)
	w.joints = removeJoint(w.joints)

	base.bodyA = nil
	base.bodyB = nil
}

// Step advances the simulation by dt seconds, running the given number
// of velocity and position solver iterations. Accumulated forces are
// cleared afterwards.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.locked = true

	step := Step{
		DeltaT:             dt,
		VelocityIterations: velocityIterations,
		PositionIterations: positionIterations,
		DTRatio:            w.invDT0 * dt,
		WarmStarting:       w.warmStarting,
	}
	if dt > 0.0 {
		step.InverseDeltaT = 1.0 / dt
	}

	if dt > 0.0 {
		w.solve(step)
		w.invDT0 = step.InverseDeltaT
	}

	w.clearForces()

	w.locked = false
}

// solve carves the body graph into islands of awake bodies connected by
// joints and solves each island in isolation.
func (w *World) solve(step Step) {
	is := newIsland(len(w.bodies), len(w.joints))

	for _, b := range w.bodies {
		b.flags &^= bodyFlagIsland
	}
	for _, j := range w.joints {
		j.base().islandFlag = false
	}

	// Build and simulate all awake islands.
	stack := make([]*Body, 0, len(w.bodies))

	for _, seed := range w.bodies {
		if seed.flags&bodyFlagIsland != 0 {
			continue
		}
		if !seed.IsAwake() {
			continue
		}
		// The seed can be dynamic or kinematic.
		if seed.bodyType == StaticBody {
			continue
		}

		is.clear()
		stack = append(stack[:0], seed)
		seed.flags |= bodyFlagIsland

		// Depth first search over the constraint graph.
		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			is.addBody(b)

			// Make sure the body is awake (without resetting sleep timer).
			b.flags |= bodyFlagAwake

			// To keep islands as small as possible, we don't propagate
			// islands across static bodies.
			if b.bodyType == StaticBody {
				continue
			}

			for _, j := range b.joints {
				base := j.base()
				if base.islandFlag {
					continue
				}
				if !base.IsActive() {
					continue
				}

				is.addJoint(j)
				base.islandFlag = true

				other := base.otherBody(b)
				if other.flags&bodyFlagIsland != 0 {
					continue
				}
				stack = append(stack, other)
				other.flags |= bodyFlagIsland
			}
		}

		is.solve(step, w.gravity, w.allowSleep)

		// Allow static bodies to participate in other islands.
		for _, b := range is.bodies {
			if b.bodyType == StaticBody {
				b.flags &^= bodyFlagIsland
			}
		}
	}
}

func (w *World) clearForces() {
	for _, b := range w.bodies {
		b.force = Vec2{}
		b.torque = 0.0
	}
}

// ShiftOrigin shifts the world origin. Useful for large worlds where
// coordinates drift from the origin and lose precision.
func (w *World) ShiftOrigin(newOrigin Vec2) {
	assert(!w.locked)

	for _, b := range w.bodies {
		b.xf.P = b.xf.P.Sub(newOrigin)
		b.sweep.C0 = b.sweep.C0.Sub(newOrigin)
		b.sweep.C = b.sweep.C.Sub(newOrigin)
	}
	for _, j := range w.joints {
		if shifter, ok := j.(interface{ ShiftOrigin(Vec2) }); ok {
			shifter.ShiftOrigin(newOrigin)
		}
	}
}

func (w *World) Gravity() Vec2 {
	return w.gravity
}

func (w *World) SetGravity(gravity Vec2) {
	w.gravity = gravity
}

// Bodies returns the bodies in creation order. The slice is owned by
// the world; callers must not mutate it.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Joints returns the joints in creation order. The slice is owned by
// the world; callers must not mutate it.
func (w *World) Joints() []Joint {
	return w.joints
}

func (w *World) BodyCount() int {
	return len(w.bodies)
}

func (w *World) JointCount() int {
	return len(w.joints)
}

func (w *World) SetAllowSleeping(flag bool) {
	if flag == w.allowSleep {
		return
	}
	w.allowSleep = flag
	if !flag {
		for _, b := range w.bodies {
			b.SetAwake(true)
		}
	}
}

func (w *World) AllowSleeping() bool {
	return w.allowSleep
}

func (w *World) SetWarmStarting(flag bool) {
	w.warmStarting = flag
}

func (w *World) WarmStarting() bool {
	return w.warmStarting
}

// IsLocked reports whether the world is in the middle of a Step. Bodies
// and joints must not be created or destroyed while locked.
func (w *World) IsLocked() bool {
	return w.locked
}

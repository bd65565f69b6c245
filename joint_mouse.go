package physics

import (
	"fmt"
	"math"
)

// MouseJointDef describes a mouse joint: a world target point the body
// anchor is pulled toward. The target is assumed to coincide with the
// body anchor initially.
type MouseJointDef struct {
	JointDef

	Target Vec2

	// MaxForce bounds the constraint force. Usually some multiple of the
	// body weight (multiplier * mass * gravity).
	MaxForce float64

	// FrequencyHz is the response speed.
	FrequencyHz float64

	// DampingRatio: 0 = undamped, 1 = critically damped.
	DampingRatio float64
}

func DefaultMouseJointDef() MouseJointDef {
	return MouseJointDef{
		FrequencyHz:  5.0,
		DampingRatio: 0.7,
	}
}

func (d *MouseJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if !d.Target.IsValid() {
		return nil, fmt.Errorf("physics: mouse joint target is not a valid point")
	}
	if math.IsNaN(d.MaxForce) || d.MaxForce < 0.0 {
		return nil, fmt.Errorf("physics: mouse joint max force must not be negative, got %g", d.MaxForce)
	}
	if math.IsNaN(d.FrequencyHz) || d.FrequencyHz <= 0.0 {
		return nil, fmt.Errorf("physics: mouse joint frequency must be positive, got %g", d.FrequencyHz)
	}
	if math.IsNaN(d.DampingRatio) || d.DampingRatio < 0.0 {
		return nil, fmt.Errorf("physics: mouse joint damping ratio must not be negative, got %g", d.DampingRatio)
	}
	j := &MouseJoint{
		jointBase:    d.initBase(MouseJointType),
		target:       d.Target,
		maxForce:     d.MaxForce,
		frequencyHz:  d.FrequencyHz,
		dampingRatio: d.DampingRatio,
	}
	j.localAnchorB = j.bodyB.Transform().ApplyInverse(d.Target)
	return j, nil
}

// MouseJoint makes a point on bodyB track a world target point through
// a soft constraint with a maximum force, so it can stretch without
// huge forces. BodyA only parents the joint; all impulses act on bodyB.
type MouseJoint struct {
	jointBase

	localAnchorB Vec2
	target       Vec2
	frequencyHz  float64
	dampingRatio float64

	impulse  Vec2
	maxForce float64

	tmp mouseSolverTemp
}

type mouseSolverTemp struct {
	indexB       int
	localCenterB Vec2
	invMassB     float64
	invIB        float64

	rB    Vec2
	mass  Mat22
	c     Vec2
	beta  float64
	gamma float64
}

// C = p - target
// Cdot = v + cross(w, r)
// J = [I r_skew]

// SetTarget moves the target point and wakes the body.
func (j *MouseJoint) SetTarget(target Vec2) {
	if target != j.target {
		j.bodyB.SetAwake(true)
		j.target = target
	}
}

func (j *MouseJoint) Target() Vec2 { return j.target }

func (j *MouseJoint) SetMaxForce(force float64) { j.maxForce = force }
func (j *MouseJoint) MaxForce() float64         { return j.maxForce }

func (j *MouseJoint) SetFrequency(hz float64) error {
	if math.IsNaN(hz) || hz <= 0.0 {
		return fmt.Errorf("physics: mouse joint frequency must be positive, got %g", hz)
	}
	j.frequencyHz = hz
	return nil
}

func (j *MouseJoint) Frequency() float64 { return j.frequencyHz }

func (j *MouseJoint) SetDampingRatio(ratio float64) { j.dampingRatio = ratio }
func (j *MouseJoint) DampingRatio() float64         { return j.dampingRatio }

// ShiftOrigin moves the target when the world origin shifts.
func (j *MouseJoint) ShiftOrigin(newOrigin Vec2) {
	j.target = j.target.Sub(newOrigin)
}

func (j *MouseJoint) Def() MouseJointDef {
	return MouseJointDef{
		JointDef:     JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		Target:       j.target,
		MaxForce:     j.maxForce,
		FrequencyHz:  j.frequencyHz,
		DampingRatio: j.dampingRatio,
	}
}

func (j *MouseJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
	t := &j.tmp
	t.indexB = j.bodyB.islandIndex
	t.localCenterB = j.bodyB.sweep.LocalCenter
	t.invMassB = j.bodyB.invMass
	t.invIB = j.bodyB.invI

	cB := positions[t.indexB].Point
	aB := positions[t.indexB].Angle
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	qB := RotFromAngle(aB)

	mass := j.bodyB.Mass()

	omega := 2.0 * Pi * j.frequencyHz

	// Damping coefficient and spring stiffness.
	d := 2.0 * mass * j.dampingRatio * omega
	k := mass * omega * omega

	// gamma has units of inverse mass, beta of inverse time.
	h := step.DeltaT
	assert(d+h*k > epsilon)
	t.gamma = h * (d + h*k)
	if t.gamma != 0.0 {
		t.gamma = 1.0 / t.gamma
	}
	t.beta = h * k * t.gamma

	t.rB = qB.Rotate(j.localAnchorB.Sub(t.localCenterB))

	// K = (1/m) * eye(2) - skew(rB) * invI * skew(rB), softened on the
	// diagonal by gamma.
	var K Mat22
	K.Ex.X = t.invMassB + t.invIB*t.rB.Y*t.rB.Y + t.gamma
	K.Ex.Y = -t.invIB * t.rB.X * t.rB.Y
	K.Ey.X = K.Ex.Y
	K.Ey.Y = t.invMassB + t.invIB*t.rB.X*t.rB.X + t.gamma

	t.mass = K.Inverse()

	t.c = cB.Add(t.rB).Sub(j.target).Mul(t.beta)

	// Cheat with some damping.
	wB *= 0.98

	if step.WarmStarting {
		j.impulse = j.impulse.Mul(step.DTRatio)
		vB = vB.Add(j.impulse.Mul(t.invMassB))
		wB += t.invIB * t.rB.Cross(j.impulse)
	} else {
		j.impulse = Vec2{}
	}

	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *MouseJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	// Cdot = v + cross(w, r)
	Cdot := vB.Add(CrossSV(wB, t.rB))
	impulse := t.mass.MulVec(Cdot.Add(t.c).Add(j.impulse.Mul(t.gamma)).Neg())

	oldImpulse := j.impulse
	j.impulse = j.impulse.Add(impulse)
	maxImpulse := step.DeltaT * j.maxForce
	if j.impulse.LengthSquared() > maxImpulse*maxImpulse {
		j.impulse = j.impulse.Mul(maxImpulse / j.impulse.Length())
	}
	impulse = j.impulse.Sub(oldImpulse)

	vB = vB.Add(impulse.Mul(t.invMassB))
	wB += t.invIB * t.rB.Cross(impulse)

	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *MouseJoint) SolvePositionConstraints(positions []Position) bool {
	return true
}

func (j *MouseJoint) AnchorA() Vec2 {
	return j.target
}

func (j *MouseJoint) AnchorB() Vec2 {
	return j.bodyB.WorldPoint(j.localAnchorB)
}

func (j *MouseJoint) ReactionForce(invDT float64) Vec2 {
	return j.impulse.Mul(invDT)
}

func (j *MouseJoint) ReactionTorque(invDT float64) float64 {
	return 0.0
}

package physics

import (
	"fmt"
	"math"
)

// RopeJointDef describes a rope joint. MaxLength must be larger than
// LinearSlop or the joint has no effect.
type RopeJointDef struct {
	JointDef

	LocalAnchorA Vec2
	LocalAnchorB Vec2

	// MaxLength is the maximum separation of the anchors.
	MaxLength float64
}

func DefaultRopeJointDef() RopeJointDef {
	return RopeJointDef{
		LocalAnchorA: Vec2{X: -1.0},
		LocalAnchorB: Vec2{X: 1.0},
	}
}

func (d *RopeJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.MaxLength < 0.0 {
		return nil, fmt.Errorf("physics: rope joint max length must not be negative, got %g", d.MaxLength)
	}
	return &RopeJoint{
		jointBase:    d.initBase(RopeJointType),
		localAnchorA: d.LocalAnchorA,
		localAnchorB: d.LocalAnchorB,
		maxLength:    d.MaxLength,
	}, nil
}

// RopeJoint enforces a maximum distance between two anchor points. It
// only ever pulls, never pushes. Changing the maximum length during
// simulation gives non-physical behavior; use a distance joint to
// control length dynamically.
type RopeJoint struct {
	jointBase

	localAnchorA Vec2
	localAnchorB Vec2
	maxLength    float64
	impulse      float64

	tmp ropeSolverTemp
}

type ropeSolverTemp struct {
	solverTemp
	u      Vec2
	rA, rB Vec2
	length float64
	mass   float64
	state  limitState
}

func (j *RopeJoint) LocalAnchorA() Vec2 { return j.localAnchorA }
func (j *RopeJoint) LocalAnchorB() Vec2 { return j.localAnchorB }

func (j *RopeJoint) MaxLength() float64 { return j.maxLength }

// LimitTaut reports whether the rope was taut at the start of the
// current step.
func (j *RopeJoint) LimitTaut() bool {
	return j.tmp.state == atUpperLimit
}

func (j *RopeJoint) Def() RopeJointDef {
	return RopeJointDef{
		JointDef:     JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		LocalAnchorA: j.localAnchorA,
		LocalAnchorB: j.localAnchorB,
		MaxLength:    j.maxLength,
	}
}

func (j *RopeJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
	j.tmp.capture(j.bodyA, j.bodyB)
	t := &j.tmp

	cA := positions[t.indexA].Point
	aA := positions[t.indexA].Angle
	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular

	cB := positions[t.indexB].Point
	aB := positions[t.indexB].Angle
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	qA := RotFromAngle(aA)
	qB := RotFromAngle(aB)

	t.rA = qA.Rotate(j.localAnchorA.Sub(t.localCenterA))
	t.rB = qB.Rotate(j.localAnchorB.Sub(t.localCenterB))
	t.u = cB.Add(t.rB).Sub(cA).Sub(t.rA)

	t.length = t.u.Length()

	C := t.length - j.maxLength
	if C > 0.0 {
		t.state = atUpperLimit
	} else {
		t.state = inactiveLimit
	}

	if t.length > LinearSlop {
		t.u = t.u.Mul(1.0 / t.length)
	} else {
		t.u = Vec2{}
		t.mass = 0.0
		j.impulse = 0.0
		return
	}

	crA := t.rA.Cross(t.u)
	crB := t.rB.Cross(t.u)
	invMass := t.invMassA + t.invIA*crA*crA + t.invMassB + t.invIB*crB*crB

	if invMass != 0.0 {
		t.mass = 1.0 / invMass
	} else {
		t.mass = 0.0
	}

	if step.WarmStarting {
		j.impulse *= step.DTRatio

		P := t.u.Mul(j.impulse)
		vA = vA.Sub(P.Mul(t.invMassA))
		wA -= t.invIA * t.rA.Cross(P)
		vB = vB.Add(P.Mul(t.invMassB))
		wB += t.invIB * t.rB.Cross(P)
	} else {
		j.impulse = 0.0
	}

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *RopeJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	vpA := vA.Add(CrossSV(wA, t.rA))
	vpB := vB.Add(CrossSV(wB, t.rB))
	C := t.length - j.maxLength
	Cdot := t.u.Dot(vpB.Sub(vpA))

	// Predictive constraint: start resisting before the rope goes taut.
	if C < 0.0 {
		Cdot += step.InverseDeltaT * C
	}

	impulse := -t.mass * Cdot
	oldImpulse := j.impulse
	j.impulse = math.Min(0.0, j.impulse+impulse)
	impulse = j.impulse - oldImpulse

	P := t.u.Mul(impulse)
	vA = vA.Sub(P.Mul(t.invMassA))
	wA -= t.invIA * t.rA.Cross(P)
	vB = vB.Add(P.Mul(t.invMassB))
	wB += t.invIB * t.rB.Cross(P)

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *RopeJoint) SolvePositionConstraints(positions []Position) bool {
	t := &j.tmp

	cA := positions[t.indexA].Point
	aA := positions[t.indexA].Angle
	cB := positions[t.indexB].Point
	aB := positions[t.indexB].Angle

	qA := RotFromAngle(aA)
	qB := RotFromAngle(aB)

	rA := qA.Rotate(j.localAnchorA.Sub(t.localCenterA))
	rB := qB.Rotate(j.localAnchorB.Sub(t.localCenterB))
	u := cB.Add(rB).Sub(cA).Sub(rA)

	u, length := u.Normalize()
	C := length - j.maxLength

	// Only correct overstretch, never push the bodies together.
	C = Clamp(C, 0.0, MaxLinearCorrection)

	impulse := -t.mass * C
	P := u.Mul(impulse)

	cA = cA.Sub(P.Mul(t.invMassA))
	aA -= t.invIA * rA.Cross(P)
	cB = cB.Add(P.Mul(t.invMassB))
	aB += t.invIB * rB.Cross(P)

	positions[t.indexA].Point = cA
	positions[t.indexA].Angle = aA
	positions[t.indexB].Point = cB
	positions[t.indexB].Angle = aB

	return length-j.maxLength < LinearSlop
}

func (j *RopeJoint) AnchorA() Vec2 {
	return j.bodyA.WorldPoint(j.localAnchorA)
}

func (j *RopeJoint) AnchorB() Vec2 {
	return j.bodyB.WorldPoint(j.localAnchorB)
}

func (j *RopeJoint) ReactionForce(invDT float64) Vec2 {
	return j.tmp.u.Mul(invDT * j.impulse)
}

func (j *RopeJoint) ReactionTorque(invDT float64) float64 {
	return 0.0
}

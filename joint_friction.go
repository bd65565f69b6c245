package physics

import (
	"fmt"
	"math"
)

// FrictionJointDef describes a friction joint.
type FrictionJointDef struct {
	JointDef

	LocalAnchorA Vec2
	LocalAnchorB Vec2

	// MaxForce and MaxTorque bound the friction effort.
	MaxForce  float64
	MaxTorque float64
}

// Initialize fills the def from two bodies and a world anchor.
func (d *FrictionJointDef) Initialize(bodyA, bodyB *Body, anchor Vec2) {
	d.BodyA = bodyA
	d.BodyB = bodyB
	d.LocalAnchorA = bodyA.LocalPoint(anchor)
	d.LocalAnchorB = bodyB.LocalPoint(anchor)
}

func (d *FrictionJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.MaxForce < 0.0 || d.MaxTorque < 0.0 {
		return nil, fmt.Errorf("physics: friction joint force and torque bounds must not be negative")
	}
	return &FrictionJoint{
		jointBase:    d.initBase(FrictionJointType),
		localAnchorA: d.LocalAnchorA,
		localAnchorB: d.LocalAnchorB,
		maxForce:     d.MaxForce,
		maxTorque:    d.MaxTorque,
	}, nil
}

// FrictionJoint provides translational and angular friction between two
// bodies, for top-down games. It only removes relative velocity, up to
// the configured force and torque bounds.
type FrictionJoint struct {
	jointBase

	localAnchorA Vec2
	localAnchorB Vec2

	linearImpulse  Vec2
	angularImpulse float64
	maxForce       float64
	maxTorque      float64

	tmp frictionSolverTemp
}

type frictionSolverTemp struct {
	solverTemp
	rA, rB      Vec2
	linearMass  Mat22
	angularMass float64
}

func (j *FrictionJoint) LocalAnchorA() Vec2 { return j.localAnchorA }
func (j *FrictionJoint) LocalAnchorB() Vec2 { return j.localAnchorB }

func (j *FrictionJoint) SetMaxForce(force float64) error {
	if math.IsNaN(force) || force < 0.0 {
		return fmt.Errorf("physics: friction joint max force must not be negative, got %g", force)
	}
	j.maxForce = force
	return nil
}

func (j *FrictionJoint) MaxForce() float64 { return j.maxForce }

func (j *FrictionJoint) SetMaxTorque(torque float64) error {
	if math.IsNaN(torque) || torque < 0.0 {
		return fmt.Errorf("physics: friction joint max torque must not be negative, got %g", torque)
	}
	j.maxTorque = torque
	return nil
}

func (j *FrictionJoint) MaxTorque() float64 { return j.maxTorque }

func (j *FrictionJoint) Def() FrictionJointDef {
	return FrictionJointDef{
		JointDef:     JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		LocalAnchorA: j.localAnchorA,
		LocalAnchorB: j.localAnchorB,
		MaxForce:     j.maxForce,
		MaxTorque:    j.maxTorque,
	}
}

func (j *FrictionJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
	j.tmp.capture(j.bodyA, j.bodyB)
	t := &j.tmp

	aA := positions[t.indexA].Angle
	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular

	aB := positions[t.indexB].Angle
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	qA := RotFromAngle(aA)
	qB := RotFromAngle(aB)

	t.rA = qA.Rotate(j.localAnchorA.Sub(t.localCenterA))
	t.rB = qB.Rotate(j.localAnchorB.Sub(t.localCenterB))

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	var K Mat22
	K.Ex.X = mA + mB + iA*t.rA.Y*t.rA.Y + iB*t.rB.Y*t.rB.Y
	K.Ex.Y = -iA*t.rA.X*t.rA.Y - iB*t.rB.X*t.rB.Y
	K.Ey.X = K.Ex.Y
	K.Ey.Y = mA + mB + iA*t.rA.X*t.rA.X + iB*t.rB.X*t.rB.X

	t.linearMass = K.Inverse()

	t.angularMass = iA + iB
	if t.angularMass > 0.0 {
		t.angularMass = 1.0 / t.angularMass
	}

	if step.WarmStarting {
		// Scale impulses to support a variable time step.
		j.linearImpulse = j.linearImpulse.Mul(step.DTRatio)
		j.angularImpulse *= step.DTRatio

		P := j.linearImpulse
		vA = vA.Sub(P.Mul(mA))
		wA -= iA * (t.rA.Cross(P) + j.angularImpulse)
		vB = vB.Add(P.Mul(mB))
		wB += iB * (t.rB.Cross(P) + j.angularImpulse)
	} else {
		j.linearImpulse = Vec2{}
		j.angularImpulse = 0.0
	}

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *FrictionJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	h := step.DeltaT

	// Solve angular friction.
	{
		Cdot := wB - wA
		impulse := -t.angularMass * Cdot

		oldImpulse := j.angularImpulse
		maxImpulse := h * j.maxTorque
		j.angularImpulse = Clamp(j.angularImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.angularImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve linear friction.
	{
		Cdot := vB.Add(CrossSV(wB, t.rB)).Sub(vA).Sub(CrossSV(wA, t.rA))

		impulse := t.linearMass.MulVec(Cdot).Neg()
		oldImpulse := j.linearImpulse
		j.linearImpulse = j.linearImpulse.Add(impulse)

		maxImpulse := h * j.maxForce

		if j.linearImpulse.LengthSquared() > maxImpulse*maxImpulse {
			unit, _ := j.linearImpulse.Normalize()
			j.linearImpulse = unit.Mul(maxImpulse)
		}

		impulse = j.linearImpulse.Sub(oldImpulse)

		vA = vA.Sub(impulse.Mul(mA))
		wA -= iA * t.rA.Cross(impulse)

		vB = vB.Add(impulse.Mul(mB))
		wB += iB * t.rB.Cross(impulse)
	}

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *FrictionJoint) SolvePositionConstraints(positions []Position) bool {
	return true
}

func (j *FrictionJoint) AnchorA() Vec2 {
	return j.bodyA.WorldPoint(j.localAnchorA)
}

func (j *FrictionJoint) AnchorB() Vec2 {
	return j.bodyB.WorldPoint(j.localAnchorB)
}

func (j *FrictionJoint) ReactionForce(invDT float64) Vec2 {
	return j.linearImpulse.Mul(invDT)
}

func (j *FrictionJoint) ReactionTorque(invDT float64) float64 {
	return invDT * j.angularImpulse
}

package physics

import (
	"fmt"
	"math"
)

// MotorJointDef describes a motor joint, which drives the relative
// transform of two bodies toward target offsets. A typical use is
// steering a dynamic body relative to the ground.
type MotorJointDef struct {
	JointDef

	// LinearOffset is the target position of bodyB minus the position of
	// bodyA, in bodyA's frame.
	LinearOffset Vec2

	// AngularOffset is the target bodyB angle minus bodyA angle.
	AngularOffset float64

	// MaxForce and MaxTorque bound the corrective effort.
	MaxForce  float64
	MaxTorque float64

	// CorrectionFactor scales how aggressively position error is fed
	// back into the velocity solve, in [0, 1].
	CorrectionFactor float64
}

func DefaultMotorJointDef() MotorJointDef {
	return MotorJointDef{
		MaxForce:         1.0,
		MaxTorque:        1.0,
		CorrectionFactor: 0.3,
	}
}

// Initialize fills the def so the current relative transform becomes
// the target.
func (d *MotorJointDef) Initialize(bodyA, bodyB *Body) {
	d.BodyA = bodyA
	d.BodyB = bodyB
	d.LinearOffset = bodyA.LocalPoint(bodyB.Position())
	d.AngularOffset = bodyB.Angle() - bodyA.Angle()
}

func (d *MotorJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.MaxForce < 0.0 || d.MaxTorque < 0.0 {
		return nil, fmt.Errorf("physics: motor joint force and torque bounds must not be negative")
	}
	if d.CorrectionFactor < 0.0 || d.CorrectionFactor > 1.0 {
		return nil, fmt.Errorf("physics: motor joint correction factor %g outside [0, 1]", d.CorrectionFactor)
	}
	return &MotorJoint{
		jointBase:        d.initBase(MotorJointType),
		linearOffset:     d.LinearOffset,
		angularOffset:    d.AngularOffset,
		maxForce:         d.MaxForce,
		maxTorque:        d.MaxTorque,
		correctionFactor: d.CorrectionFactor,
	}, nil
}

// MotorJoint controls the relative motion between two bodies, pushing
// them toward the configured offsets with bounded force and torque. It
// is a velocity-only joint; position drift is corrected through the
// correction factor bias, not the position solver.
type MotorJoint struct {
	jointBase

	linearOffset     Vec2
	angularOffset    float64
	linearImpulse    Vec2
	angularImpulse   float64
	maxForce         float64
	maxTorque        float64
	correctionFactor float64

	tmp motorSolverTemp
}

type motorSolverTemp struct {
	solverTemp
	rA, rB       Vec2
	linearError  Vec2
	angularError float64
	linearMass   Mat22
	angularMass  float64
}

func (j *MotorJoint) SetLinearOffset(offset Vec2) {
	if offset.X != j.linearOffset.X || offset.Y != j.linearOffset.Y {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.linearOffset = offset
	}
}

func (j *MotorJoint) LinearOffset() Vec2 {
	return j.linearOffset
}

func (j *MotorJoint) SetAngularOffset(offset float64) {
	if offset != j.angularOffset {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.angularOffset = offset
	}
}

func (j *MotorJoint) AngularOffset() float64 {
	return j.angularOffset
}

func (j *MotorJoint) SetMaxForce(force float64) error {
	if math.IsNaN(force) || force < 0.0 {
		return fmt.Errorf("physics: motor joint max force must not be negative, got %g", force)
	}
	j.maxForce = force
	return nil
}

func (j *MotorJoint) MaxForce() float64 { return j.maxForce }

func (j *MotorJoint) SetMaxTorque(torque float64) error {
	if math.IsNaN(torque) || torque < 0.0 {
		return fmt.Errorf("physics: motor joint max torque must not be negative, got %g", torque)
	}
	j.maxTorque = torque
	return nil
}

func (j *MotorJoint) MaxTorque() float64 { return j.maxTorque }

func (j *MotorJoint) SetCorrectionFactor(factor float64) error {
	if math.IsNaN(factor) || factor < 0.0 || factor > 1.0 {
		return fmt.Errorf("physics: motor joint correction factor %g outside [0, 1]", factor)
	}
	j.correctionFactor = factor
	return nil
}

func (j *MotorJoint) CorrectionFactor() float64 { return j.correctionFactor }

func (j *MotorJoint) Def() MotorJointDef {
	return MotorJointDef{
		JointDef:         JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		LinearOffset:     j.linearOffset,
		AngularOffset:    j.angularOffset,
		MaxForce:         j.maxForce,
		MaxTorque:        j.maxTorque,
		CorrectionFactor: j.correctionFactor,
	}
}

func (j *MotorJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
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

	// The anchors are the centers of mass.
	t.rA = qA.Rotate(t.localCenterA.Neg())
	t.rB = qB.Rotate(t.localCenterB.Neg())

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

	t.linearError = cB.Add(t.rB).Sub(cA).Sub(t.rA).Sub(qA.Rotate(j.linearOffset))
	t.angularError = aB - aA - j.angularOffset

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

func (j *MotorJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	h := step.DeltaT
	invH := step.InverseDeltaT

	// Solve angular friction.
	{
		Cdot := wB - wA + invH*j.correctionFactor*t.angularError
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
		Cdot := vB.Add(CrossSV(wB, t.rB)).Sub(vA).Sub(CrossSV(wA, t.rA)).Add(t.linearError.Mul(invH * j.correctionFactor))

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

func (j *MotorJoint) SolvePositionConstraints(positions []Position) bool {
	return true
}

func (j *MotorJoint) AnchorA() Vec2 {
	return j.bodyA.Position()
}

func (j *MotorJoint) AnchorB() Vec2 {
	return j.bodyB.Position()
}

func (j *MotorJoint) ReactionForce(invDT float64) Vec2 {
	return j.linearImpulse.Mul(invDT)
}

func (j *MotorJoint) ReactionTorque(invDT float64) float64 {
	return invDT * j.angularImpulse
}

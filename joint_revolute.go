package physics

import (
	"fmt"
	"math"
)

// RevoluteJointDef describes a revolute joint: a shared hinge point the
// two bodies rotate about freely. Anchors are local so a saved
// configuration may violate the constraint slightly; ReferenceAngle is
// the relative angle for the limits for the same reason.
type RevoluteJointDef struct {
	JointDef

	LocalAnchorA Vec2
	LocalAnchorB Vec2

	// ReferenceAngle is bodyB's angle minus bodyA's angle in the
	// reference state, in radians.
	ReferenceAngle float64

	EnableLimit bool
	LowerAngle  float64
	UpperAngle  float64

	EnableMotor    bool
	MotorSpeed     float64
	MaxMotorTorque float64
}

// Initialize fills the def from two bodies and a world-space hinge point.
func (d *RevoluteJointDef) Initialize(bodyA, bodyB *Body, anchor Vec2) {
	d.BodyA = bodyA
	d.BodyB = bodyB
	d.LocalAnchorA = bodyA.LocalPoint(anchor)
	d.LocalAnchorB = bodyB.LocalPoint(anchor)
	d.ReferenceAngle = bodyB.Angle() - bodyA.Angle()
}

func (d *RevoluteJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.LowerAngle > d.UpperAngle {
		return nil, fmt.Errorf("physics: revolute joint lower angle %g exceeds upper angle %g", d.LowerAngle, d.UpperAngle)
	}
	return &RevoluteJoint{
		jointBase:      d.initBase(RevoluteJointType),
		localAnchorA:   d.LocalAnchorA,
		localAnchorB:   d.LocalAnchorB,
		referenceAngle: d.ReferenceAngle,
		lowerAngle:     d.LowerAngle,
		upperAngle:     d.UpperAngle,
		maxMotorTorque: d.MaxMotorTorque,
		motorSpeed:     d.MotorSpeed,
		enableLimit:    d.EnableLimit,
		enableMotor:    d.EnableMotor,
	}, nil
}

// RevoluteJoint constrains two bodies to share a point while rotating
// freely about it. The relative rotation is the joint angle; it can be
// restricted by an angle limit and driven by a motor with bounded
// torque.
type RevoluteJoint struct {
	jointBase

	localAnchorA Vec2
	localAnchorB Vec2

	// impulse accumulates (point x, point y, limit angular).
	impulse      Vec3
	motorImpulse float64

	enableMotor    bool
	maxMotorTorque float64
	motorSpeed     float64

	enableLimit    bool
	referenceAngle float64
	lowerAngle     float64
	upperAngle     float64

	tmp revoluteSolverTemp
}

type revoluteSolverTemp struct {
	solverTemp
	rA, rB Vec2

	// mass is the effective mass of the point-to-point plus limit
	// system; motorMass of the angular motor alone.
	mass       Mat33
	motorMass  float64
	limitState limitState
}

// Point-to-point constraint
// C = pB - pA
// Cdot = vB + cross(wB, rB) - vA - cross(wA, rA)
// J = [-I -rA_skew I rB_skew]
//
// Motor constraint
// Cdot = wB - wA
// J = [0 0 -1 0 0 1]
// K = iA + iB

func (j *RevoluteJoint) LocalAnchorA() Vec2     { return j.localAnchorA }
func (j *RevoluteJoint) LocalAnchorB() Vec2     { return j.localAnchorB }
func (j *RevoluteJoint) ReferenceAngle() float64 { return j.referenceAngle }

// JointAngle is the current relative angle between the bodies.
func (j *RevoluteJoint) JointAngle() float64 {
	return j.bodyB.sweep.A - j.bodyA.sweep.A - j.referenceAngle
}

// JointSpeed is the current relative angular velocity.
func (j *RevoluteJoint) JointSpeed() float64 {
	return j.bodyB.angularVelocity - j.bodyA.angularVelocity
}

func (j *RevoluteJoint) IsMotorEnabled() bool { return j.enableMotor }

func (j *RevoluteJoint) EnableMotor(flag bool) {
	if flag != j.enableMotor {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableMotor = flag
	}
}

// MotorTorque is the torque the motor applied during the last step.
func (j *RevoluteJoint) MotorTorque(invDT float64) float64 {
	return invDT * j.motorImpulse
}

func (j *RevoluteJoint) MotorSpeed() float64 { return j.motorSpeed }

func (j *RevoluteJoint) SetMotorSpeed(speed float64) {
	if speed != j.motorSpeed {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.motorSpeed = speed
	}
}

func (j *RevoluteJoint) MaxMotorTorque() float64 { return j.maxMotorTorque }

func (j *RevoluteJoint) SetMaxMotorTorque(torque float64) {
	if torque != j.maxMotorTorque {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.maxMotorTorque = torque
	}
}

func (j *RevoluteJoint) IsLimitEnabled() bool { return j.enableLimit }

func (j *RevoluteJoint) EnableLimit(flag bool) {
	if flag != j.enableLimit {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableLimit = flag
		j.impulse.Z = 0.0
	}
}

func (j *RevoluteJoint) LowerLimit() float64 { return j.lowerAngle }
func (j *RevoluteJoint) UpperLimit() float64 { return j.upperAngle }

// SetLimits replaces the angle limits. The accumulated limit impulse is
// discarded because it was computed against the old limits.
func (j *RevoluteJoint) SetLimits(lower, upper float64) error {
	if lower > upper {
		return fmt.Errorf("physics: revolute joint lower angle %g exceeds upper angle %g", lower, upper)
	}
	if lower != j.lowerAngle || upper != j.upperAngle {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.impulse.Z = 0.0
		j.lowerAngle = lower
		j.upperAngle = upper
	}
	return nil
}

func (j *RevoluteJoint) Def() RevoluteJointDef {
	return RevoluteJointDef{
		JointDef:       JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		LocalAnchorA:   j.localAnchorA,
		LocalAnchorB:   j.localAnchorB,
		ReferenceAngle: j.referenceAngle,
		EnableLimit:    j.enableLimit,
		LowerAngle:     j.lowerAngle,
		UpperAngle:     j.upperAngle,
		EnableMotor:    j.enableMotor,
		MotorSpeed:     j.motorSpeed,
		MaxMotorTorque: j.maxMotorTorque,
	}
}

func (j *RevoluteJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
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

	// K = [ mA+mB+iA*rAy^2+iB*rBy^2,  -iA*rAx*rAy-iB*rBx*rBy,  -iA*rAy-iB*rBy ]
	//     [                 (sym),  mA+mB+iA*rAx^2+iB*rBx^2,   iA*rAx+iB*rBx ]
	//     [                 (sym),                   (sym),           iA+iB ]

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	fixedRotation := iA+iB == 0.0

	t.mass.Ex.X = mA + mB + t.rA.Y*t.rA.Y*iA + t.rB.Y*t.rB.Y*iB
	t.mass.Ey.X = -t.rA.Y*t.rA.X*iA - t.rB.Y*t.rB.X*iB
	t.mass.Ez.X = -t.rA.Y*iA - t.rB.Y*iB
	t.mass.Ex.Y = t.mass.Ey.X
	t.mass.Ey.Y = mA + mB + t.rA.X*t.rA.X*iA + t.rB.X*t.rB.X*iB
	t.mass.Ez.Y = t.rA.X*iA + t.rB.X*iB
	t.mass.Ex.Z = t.mass.Ez.X
	t.mass.Ey.Z = t.mass.Ez.Y
	t.mass.Ez.Z = iA + iB

	t.motorMass = iA + iB
	if t.motorMass > 0.0 {
		t.motorMass = 1.0 / t.motorMass
	}

	if !j.enableMotor || fixedRotation {
		j.motorImpulse = 0.0
	}

	if j.enableLimit && !fixedRotation {
		jointAngle := aB - aA - j.referenceAngle
		if math.Abs(j.upperAngle-j.lowerAngle) < 2.0*AngularSlop {
			t.limitState = equalLimits
		} else if jointAngle <= j.lowerAngle {
			if t.limitState != atLowerLimit {
				j.impulse.Z = 0.0
			}
			t.limitState = atLowerLimit
		} else if jointAngle >= j.upperAngle {
			if t.limitState != atUpperLimit {
				j.impulse.Z = 0.0
			}
			t.limitState = atUpperLimit
		} else {
			t.limitState = inactiveLimit
			j.impulse.Z = 0.0
		}
	} else {
		t.limitState = inactiveLimit
	}

	if step.WarmStarting {
		// Scale impulses to support a variable time step.
		j.impulse = Vec3{j.impulse.X * step.DTRatio, j.impulse.Y * step.DTRatio, j.impulse.Z * step.DTRatio}
		j.motorImpulse *= step.DTRatio

		P := Vec2{j.impulse.X, j.impulse.Y}

		vA = vA.Sub(P.Mul(mA))
		wA -= iA * (t.rA.Cross(P) + j.motorImpulse + j.impulse.Z)

		vB = vB.Add(P.Mul(mB))
		wB += iB * (t.rB.Cross(P) + j.motorImpulse + j.impulse.Z)
	} else {
		j.impulse = Vec3{}
		j.motorImpulse = 0.0
	}

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *RevoluteJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	fixedRotation := iA+iB == 0.0

	// Solve motor constraint.
	if j.enableMotor && t.limitState != equalLimits && !fixedRotation {
		Cdot := wB - wA - j.motorSpeed
		impulse := -t.motorMass * Cdot
		oldImpulse := j.motorImpulse
		maxImpulse := step.DeltaT * j.maxMotorTorque
		j.motorImpulse = Clamp(j.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve limit constraint.
	if j.enableLimit && t.limitState != inactiveLimit && !fixedRotation {
		Cdot1 := vB.Add(CrossSV(wB, t.rB)).Sub(vA).Sub(CrossSV(wA, t.rA))
		Cdot2 := wB - wA
		Cdot := Vec3{Cdot1.X, Cdot1.Y, Cdot2}

		impulse := t.mass.Solve33(Cdot).Neg()

		switch t.limitState {
		case equalLimits:
			j.impulse = j.impulse.Add(impulse)
		case atLowerLimit:
			newImpulse := j.impulse.Z + impulse.Z
			if newImpulse < 0.0 {
				rhs := Cdot1.Neg().Add(Vec2{t.mass.Ez.X, t.mass.Ez.Y}.Mul(j.impulse.Z))
				reduced := t.mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -j.impulse.Z
				j.impulse.X += reduced.X
				j.impulse.Y += reduced.Y
				j.impulse.Z = 0.0
			} else {
				j.impulse = j.impulse.Add(impulse)
			}
		case atUpperLimit:
			newImpulse := j.impulse.Z + impulse.Z
			if newImpulse > 0.0 {
				rhs := Cdot1.Neg().Add(Vec2{t.mass.Ez.X, t.mass.Ez.Y}.Mul(j.impulse.Z))
				reduced := t.mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -j.impulse.Z
				j.impulse.X += reduced.X
				j.impulse.Y += reduced.Y
				j.impulse.Z = 0.0
			} else {
				j.impulse = j.impulse.Add(impulse)
			}
		}

		P := Vec2{impulse.X, impulse.Y}

		vA = vA.Sub(P.Mul(mA))
		wA -= iA * (t.rA.Cross(P) + impulse.Z)

		vB = vB.Add(P.Mul(mB))
		wB += iB * (t.rB.Cross(P) + impulse.Z)
	} else {
		// Solve point-to-point constraint.
		Cdot := vB.Add(CrossSV(wB, t.rB)).Sub(vA).Sub(CrossSV(wA, t.rA))
		impulse := t.mass.Solve22(Cdot.Neg())

		j.impulse.X += impulse.X
		j.impulse.Y += impulse.Y

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

func (j *RevoluteJoint) SolvePositionConstraints(positions []Position) bool {
	t := &j.tmp

	cA := positions[t.indexA].Point
	aA := positions[t.indexA].Angle
	cB := positions[t.indexB].Point
	aB := positions[t.indexB].Angle

	angularError := 0.0
	positionError := 0.0

	fixedRotation := t.invIA+t.invIB == 0.0

	// Solve angular limit constraint.
	if j.enableLimit && t.limitState != inactiveLimit && !fixedRotation {
		angle := aB - aA - j.referenceAngle
		limitImpulse := 0.0

		switch t.limitState {
		case equalLimits:
			// Prevent large angular corrections.
			C := Clamp(angle-j.lowerAngle, -MaxAngularCorrection, MaxAngularCorrection)
			limitImpulse = -t.motorMass * C
			angularError = math.Abs(C)
		case atLowerLimit:
			C := angle - j.lowerAngle
			angularError = -C

			// Prevent large angular corrections and allow some slop.
			C = Clamp(C+AngularSlop, -MaxAngularCorrection, 0.0)
			limitImpulse = -t.motorMass * C
		case atUpperLimit:
			C := angle - j.upperAngle
			angularError = C

			C = Clamp(C-AngularSlop, 0.0, MaxAngularCorrection)
			limitImpulse = -t.motorMass * C
		}

		aA -= t.invIA * limitImpulse
		aB += t.invIB * limitImpulse
	}

	// Solve point-to-point constraint.
	{
		qA := RotFromAngle(aA)
		qB := RotFromAngle(aB)
		rA := qA.Rotate(j.localAnchorA.Sub(t.localCenterA))
		rB := qB.Rotate(j.localAnchorB.Sub(t.localCenterB))

		C := cB.Add(rB).Sub(cA).Sub(rA)
		positionError = C.Length()

		mA, mB := t.invMassA, t.invMassB
		iA, iB := t.invIA, t.invIB

		var K Mat22
		K.Ex.X = mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
		K.Ex.Y = -iA*rA.X*rA.Y - iB*rB.X*rB.Y
		K.Ey.X = K.Ex.Y
		K.Ey.Y = mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X

		impulse := K.Solve(C).Neg()

		cA = cA.Sub(impulse.Mul(mA))
		aA -= iA * rA.Cross(impulse)

		cB = cB.Add(impulse.Mul(mB))
		aB += iB * rB.Cross(impulse)
	}

	positions[t.indexA].Point = cA
	positions[t.indexA].Angle = aA
	positions[t.indexB].Point = cB
	positions[t.indexB].Angle = aB

	return positionError <= LinearSlop && angularError <= AngularSlop
}

func (j *RevoluteJoint) AnchorA() Vec2 {
	return j.bodyA.WorldPoint(j.localAnchorA)
}

func (j *RevoluteJoint) AnchorB() Vec2 {
	return j.bodyB.WorldPoint(j.localAnchorB)
}

func (j *RevoluteJoint) ReactionForce(invDT float64) Vec2 {
	return Vec2{j.impulse.X, j.impulse.Y}.Mul(invDT)
}

func (j *RevoluteJoint) ReactionTorque(invDT float64) float64 {
	return invDT * j.impulse.Z
}

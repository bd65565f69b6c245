package physics

import (
	"fmt"
	"math"
)

// PrismaticJointDef describes a prismatic joint: one degree of freedom,
// translation along an axis fixed in bodyA, relative rotation prevented.
// Anchors and the axis are local so a saved configuration may violate
// the constraint slightly. The translation is zero when the anchors
// coincide in world space.
type PrismaticJointDef struct {
	JointDef

	LocalAnchorA Vec2
	LocalAnchorB Vec2

	// LocalAxisA is the translation axis in bodyA coordinates.
	LocalAxisA Vec2

	// ReferenceAngle is the constrained angle between the bodies:
	// bodyB angle minus bodyA angle.
	ReferenceAngle float64

	EnableLimit      bool
	LowerTranslation float64
	UpperTranslation float64

	EnableMotor   bool
	MaxMotorForce float64
	MotorSpeed    float64
}

func DefaultPrismaticJointDef() PrismaticJointDef {
	return PrismaticJointDef{LocalAxisA: Vec2{X: 1.0}}
}

// Initialize fills the def from two bodies, a world anchor and a world
// axis.
func (d *PrismaticJointDef) Initialize(bodyA, bodyB *Body, anchor, axis Vec2) {
	d.BodyA = bodyA
	d.BodyB = bodyB
	d.LocalAnchorA = bodyA.LocalPoint(anchor)
	d.LocalAnchorB = bodyB.LocalPoint(anchor)
	d.LocalAxisA = bodyA.LocalVector(axis)
	d.ReferenceAngle = bodyB.Angle() - bodyA.Angle()
}

func (d *PrismaticJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.LowerTranslation > d.UpperTranslation {
		return nil, fmt.Errorf("physics: prismatic joint lower translation %g exceeds upper translation %g", d.LowerTranslation, d.UpperTranslation)
	}
	j := &PrismaticJoint{
		jointBase:        d.initBase(PrismaticJointType),
		localAnchorA:     d.LocalAnchorA,
		localAnchorB:     d.LocalAnchorB,
		referenceAngle:   d.ReferenceAngle,
		lowerTranslation: d.LowerTranslation,
		upperTranslation: d.UpperTranslation,
		maxMotorForce:    d.MaxMotorForce,
		motorSpeed:       d.MotorSpeed,
		enableLimit:      d.EnableLimit,
		enableMotor:      d.EnableMotor,
	}
	j.localXAxisA, _ = d.LocalAxisA.Normalize()
	j.localYAxisA = CrossSV(1.0, j.localXAxisA)
	return j, nil
}

// PrismaticJoint allows translation along an axis fixed in bodyA and
// prevents relative rotation. A limit restricts the range of motion; a
// motor drives the motion or models joint friction.
type PrismaticJoint struct {
	jointBase

	localAnchorA   Vec2
	localAnchorB   Vec2
	localXAxisA    Vec2
	localYAxisA    Vec2
	referenceAngle float64

	// impulse accumulates (perpendicular, angular, limit axial).
	impulse      Vec3
	motorImpulse float64

	lowerTranslation float64
	upperTranslation float64
	maxMotorForce    float64
	motorSpeed       float64
	enableLimit      bool
	enableMotor      bool

	tmp prismaticSolverTemp
}

type prismaticSolverTemp struct {
	solverTemp
	axis, perp Vec2
	s1, s2     float64
	a1, a2     float64
	k          Mat33
	motorMass  float64
	limitState limitState
}

// Linear constraint (point-to-line)
// d = pB - pA
// C = dot(perp, d)
// J = [-perp -cross(d + rA, perp) perp cross(rB, perp)]
//
// Angular constraint
// C = aB - aA - referenceAngle
// J = [0 -1 0 1]
//
// Motor/limit constraint along the axis
// C = dot(axis, d)
// J = [-axis -cross(d + rA, axis) axis cross(rB, axis)]
//
// The limit is folded into a 3x3 block with the point-to-line rows so it
// stays stiff even with poor mass distribution. When the clamped limit
// impulse changes, the first two rows are re-solved against the
// adjustment:
// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)

func (j *PrismaticJoint) LocalAnchorA() Vec2      { return j.localAnchorA }
func (j *PrismaticJoint) LocalAnchorB() Vec2      { return j.localAnchorB }
func (j *PrismaticJoint) LocalAxisA() Vec2        { return j.localXAxisA }
func (j *PrismaticJoint) ReferenceAngle() float64 { return j.referenceAngle }

// JointTranslation is the current displacement along the axis.
func (j *PrismaticJoint) JointTranslation() float64 {
	pA := j.bodyA.WorldPoint(j.localAnchorA)
	pB := j.bodyB.WorldPoint(j.localAnchorB)
	axis := j.bodyA.WorldVector(j.localXAxisA)
	return pB.Sub(pA).Dot(axis)
}

// JointSpeed is the current translation speed along the axis.
func (j *PrismaticJoint) JointSpeed() float64 {
	bA, bB := j.bodyA, j.bodyB

	rA := bA.xf.Q.Rotate(j.localAnchorA.Sub(bA.sweep.LocalCenter))
	rB := bB.xf.Q.Rotate(j.localAnchorB.Sub(bB.sweep.LocalCenter))
	p1 := bA.sweep.C.Add(rA)
	p2 := bB.sweep.C.Add(rB)
	d := p2.Sub(p1)
	axis := bA.xf.Q.Rotate(j.localXAxisA)

	vA, vB := bA.linearVelocity, bB.linearVelocity
	wA, wB := bA.angularVelocity, bB.angularVelocity

	return d.Dot(CrossSV(wA, axis)) + axis.Dot(vB.Add(CrossSV(wB, rB)).Sub(vA).Sub(CrossSV(wA, rA)))
}

func (j *PrismaticJoint) IsLimitEnabled() bool { return j.enableLimit }

func (j *PrismaticJoint) EnableLimit(flag bool) {
	if flag != j.enableLimit {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableLimit = flag
		j.impulse.Z = 0.0
	}
}

func (j *PrismaticJoint) LowerLimit() float64 { return j.lowerTranslation }
func (j *PrismaticJoint) UpperLimit() float64 { return j.upperTranslation }

// SetLimits replaces the translation limits. The accumulated limit
// impulse is discarded because it was computed against the old limits.
func (j *PrismaticJoint) SetLimits(lower, upper float64) error {
	if lower > upper {
		return fmt.Errorf("physics: prismatic joint lower translation %g exceeds upper translation %g", lower, upper)
	}
	if lower != j.lowerTranslation || upper != j.upperTranslation {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.lowerTranslation = lower
		j.upperTranslation = upper
		j.impulse.Z = 0.0
	}
	return nil
}

func (j *PrismaticJoint) IsMotorEnabled() bool { return j.enableMotor }

func (j *PrismaticJoint) EnableMotor(flag bool) {
	if flag != j.enableMotor {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableMotor = flag
	}
}

func (j *PrismaticJoint) MotorSpeed() float64 { return j.motorSpeed }

func (j *PrismaticJoint) SetMotorSpeed(speed float64) {
	if speed != j.motorSpeed {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.motorSpeed = speed
	}
}

func (j *PrismaticJoint) MaxMotorForce() float64 { return j.maxMotorForce }

func (j *PrismaticJoint) SetMaxMotorForce(force float64) {
	if force != j.maxMotorForce {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.maxMotorForce = force
	}
}

// MotorForce is the force the motor applied during the last step.
func (j *PrismaticJoint) MotorForce(invDT float64) float64 {
	return invDT * j.motorImpulse
}

func (j *PrismaticJoint) Def() PrismaticJointDef {
	return PrismaticJointDef{
		JointDef:         JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		LocalAnchorA:     j.localAnchorA,
		LocalAnchorB:     j.localAnchorB,
		LocalAxisA:       j.localXAxisA,
		ReferenceAngle:   j.referenceAngle,
		EnableLimit:      j.enableLimit,
		LowerTranslation: j.lowerTranslation,
		UpperTranslation: j.upperTranslation,
		EnableMotor:      j.enableMotor,
		MaxMotorForce:    j.maxMotorForce,
		MotorSpeed:       j.motorSpeed,
	}
}

func (j *PrismaticJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
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

	rA := qA.Rotate(j.localAnchorA.Sub(t.localCenterA))
	rB := qB.Rotate(j.localAnchorB.Sub(t.localCenterB))
	d := cB.Sub(cA).Add(rB).Sub(rA)

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	// Motor Jacobian and effective mass.
	t.axis = qA.Rotate(j.localXAxisA)
	t.a1 = d.Add(rA).Cross(t.axis)
	t.a2 = rB.Cross(t.axis)

	t.motorMass = mA + mB + iA*t.a1*t.a1 + iB*t.a2*t.a2
	if t.motorMass > 0.0 {
		t.motorMass = 1.0 / t.motorMass
	}

	// Prismatic constraint.
	t.perp = qA.Rotate(j.localYAxisA)

	t.s1 = d.Add(rA).Cross(t.perp)
	t.s2 = rB.Cross(t.perp)

	k11 := mA + mB + iA*t.s1*t.s1 + iB*t.s2*t.s2
	k12 := iA*t.s1 + iB*t.s2
	k13 := iA*t.s1*t.a1 + iB*t.s2*t.a2
	k22 := iA + iB
	if k22 == 0.0 {
		// Both bodies have fixed rotation.
		k22 = 1.0
	}
	k23 := iA*t.a1 + iB*t.a2
	k33 := mA + mB + iA*t.a1*t.a1 + iB*t.a2*t.a2

	t.k.Ex = Vec3{k11, k12, k13}
	t.k.Ey = Vec3{k12, k22, k23}
	t.k.Ez = Vec3{k13, k23, k33}

	if j.enableLimit {
		jointTranslation := t.axis.Dot(d)
		if math.Abs(j.upperTranslation-j.lowerTranslation) < 2.0*LinearSlop {
			t.limitState = equalLimits
		} else if jointTranslation <= j.lowerTranslation {
			if t.limitState != atLowerLimit {
				t.limitState = atLowerLimit
				j.impulse.Z = 0.0
			}
		} else if jointTranslation >= j.upperTranslation {
			if t.limitState != atUpperLimit {
				t.limitState = atUpperLimit
				j.impulse.Z = 0.0
			}
		} else {
			t.limitState = inactiveLimit
			j.impulse.Z = 0.0
		}
	} else {
		t.limitState = inactiveLimit
		j.impulse.Z = 0.0
	}

	if !j.enableMotor {
		j.motorImpulse = 0.0
	}

	if step.WarmStarting {
		// Account for variable time step.
		j.impulse = Vec3{j.impulse.X * step.DTRatio, j.impulse.Y * step.DTRatio, j.impulse.Z * step.DTRatio}
		j.motorImpulse *= step.DTRatio

		P := t.perp.Mul(j.impulse.X).Add(t.axis.Mul(j.motorImpulse + j.impulse.Z))
		LA := j.impulse.X*t.s1 + j.impulse.Y + (j.motorImpulse+j.impulse.Z)*t.a1
		LB := j.impulse.X*t.s2 + j.impulse.Y + (j.motorImpulse+j.impulse.Z)*t.a2

		vA = vA.Sub(P.Mul(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mul(mB))
		wB += iB * LB
	} else {
		j.impulse = Vec3{}
		j.motorImpulse = 0.0
	}

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *PrismaticJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	// Solve linear motor constraint.
	if j.enableMotor && t.limitState != equalLimits {
		Cdot := t.axis.Dot(vB.Sub(vA)) + t.a2*wB - t.a1*wA
		impulse := t.motorMass * (j.motorSpeed - Cdot)
		oldImpulse := j.motorImpulse
		maxImpulse := step.DeltaT * j.maxMotorForce
		j.motorImpulse = Clamp(j.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		P := t.axis.Mul(impulse)
		LA := impulse * t.a1
		LB := impulse * t.a2

		vA = vA.Sub(P.Mul(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mul(mB))
		wB += iB * LB
	}

	var Cdot1 Vec2
	Cdot1.X = t.perp.Dot(vB.Sub(vA)) + t.s2*wB - t.s1*wA
	Cdot1.Y = wB - wA

	if j.enableLimit && t.limitState != inactiveLimit {
		// Solve prismatic and limit constraint in block form.
		Cdot2 := t.axis.Dot(vB.Sub(vA)) + t.a2*wB - t.a1*wA
		Cdot := Vec3{Cdot1.X, Cdot1.Y, Cdot2}

		f1 := j.impulse
		df := t.k.Solve33(Cdot.Neg())
		j.impulse = j.impulse.Add(df)

		if t.limitState == atLowerLimit {
			j.impulse.Z = math.Max(j.impulse.Z, 0.0)
		} else if t.limitState == atUpperLimit {
			j.impulse.Z = math.Min(j.impulse.Z, 0.0)
		}

		// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
		b := Cdot1.Neg().Sub(Vec2{t.k.Ez.X, t.k.Ez.Y}.Mul(j.impulse.Z - f1.Z))
		f2r := t.k.Solve22(b).Add(Vec2{f1.X, f1.Y})
		j.impulse.X = f2r.X
		j.impulse.Y = f2r.Y

		df = j.impulse.Sub(f1)

		P := t.perp.Mul(df.X).Add(t.axis.Mul(df.Z))
		LA := df.X*t.s1 + df.Y + df.Z*t.a1
		LB := df.X*t.s2 + df.Y + df.Z*t.a2

		vA = vA.Sub(P.Mul(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mul(mB))
		wB += iB * LB
	} else {
		// Limit is inactive, just solve the prismatic constraint.
		df := t.k.Solve22(Cdot1.Neg())
		j.impulse.X += df.X
		j.impulse.Y += df.Y

		P := t.perp.Mul(df.X)
		LA := df.X*t.s1 + df.Y
		LB := df.X*t.s2 + df.Y

		vA = vA.Sub(P.Mul(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mul(mB))
		wB += iB * LB
	}

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

// The position solver only copes with integration error, so its pseudo
// impulses carry no physical meaning. The limit activity is recomputed
// from positions rather than taken from the velocity solver, which may
// report the limit inactive while positions have pushed past it.
func (j *PrismaticJoint) SolvePositionConstraints(positions []Position) bool {
	t := &j.tmp

	cA := positions[t.indexA].Point
	aA := positions[t.indexA].Angle
	cB := positions[t.indexB].Point
	aB := positions[t.indexB].Angle

	qA := RotFromAngle(aA)
	qB := RotFromAngle(aB)

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	// Compute fresh Jacobians.
	rA := qA.Rotate(j.localAnchorA.Sub(t.localCenterA))
	rB := qB.Rotate(j.localAnchorB.Sub(t.localCenterB))
	d := cB.Add(rB).Sub(cA).Sub(rA)

	axis := qA.Rotate(j.localXAxisA)
	a1 := d.Add(rA).Cross(axis)
	a2 := rB.Cross(axis)
	perp := qA.Rotate(j.localYAxisA)

	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	var impulse Vec3
	var C1 Vec2
	C1.X = perp.Dot(d)
	C1.Y = aB - aA - j.referenceAngle

	linearError := math.Abs(C1.X)
	angularError := math.Abs(C1.Y)

	active := false
	C2 := 0.0
	if j.enableLimit {
		translation := axis.Dot(d)
		if math.Abs(j.upperTranslation-j.lowerTranslation) < 2.0*LinearSlop {
			C2 = Clamp(translation, -MaxLinearCorrection, MaxLinearCorrection)
			linearError = math.Max(linearError, math.Abs(translation))
			active = true
		} else if translation <= j.lowerTranslation {
			// Prevent large linear corrections and allow some slop.
			C2 = Clamp(translation-j.lowerTranslation+LinearSlop, -MaxLinearCorrection, 0.0)
			linearError = math.Max(linearError, j.lowerTranslation-translation)
			active = true
		} else if translation >= j.upperTranslation {
			C2 = Clamp(translation-j.upperTranslation-LinearSlop, 0.0, MaxLinearCorrection)
			linearError = math.Max(linearError, translation-j.upperTranslation)
			active = true
		}
	}

	if active {
		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k13 := iA*s1*a1 + iB*s2*a2
		k22 := iA + iB
		if k22 == 0.0 {
			k22 = 1.0
		}
		k23 := iA*a1 + iB*a2
		k33 := mA + mB + iA*a1*a1 + iB*a2*a2

		var K Mat33
		K.Ex = Vec3{k11, k12, k13}
		K.Ey = Vec3{k12, k22, k23}
		K.Ez = Vec3{k13, k23, k33}

		C := Vec3{C1.X, C1.Y, C2}

		impulse = K.Solve33(C.Neg())
	} else {
		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k22 := iA + iB
		if k22 == 0.0 {
			k22 = 1.0
		}

		var K Mat22
		K.Ex = Vec2{k11, k12}
		K.Ey = Vec2{k12, k22}

		impulse1 := K.Solve(C1.Neg())
		impulse.X = impulse1.X
		impulse.Y = impulse1.Y
	}

	P := perp.Mul(impulse.X).Add(axis.Mul(impulse.Z))
	LA := impulse.X*s1 + impulse.Y + impulse.Z*a1
	LB := impulse.X*s2 + impulse.Y + impulse.Z*a2

	cA = cA.Sub(P.Mul(mA))
	aA -= iA * LA
	cB = cB.Add(P.Mul(mB))
	aB += iB * LB

	positions[t.indexA].Point = cA
	positions[t.indexA].Angle = aA
	positions[t.indexB].Point = cB
	positions[t.indexB].Angle = aB

	return linearError <= LinearSlop && angularError <= AngularSlop
}

func (j *PrismaticJoint) AnchorA() Vec2 {
	return j.bodyA.WorldPoint(j.localAnchorA)
}

func (j *PrismaticJoint) AnchorB() Vec2 {
	return j.bodyB.WorldPoint(j.localAnchorB)
}

func (j *PrismaticJoint) ReactionForce(invDT float64) Vec2 {
	return j.tmp.perp.Mul(j.impulse.X).Add(j.tmp.axis.Mul(j.motorImpulse + j.impulse.Z)).Mul(invDT)
}

func (j *PrismaticJoint) ReactionTorque(invDT float64) float64 {
	return invDT * j.impulse.Y
}

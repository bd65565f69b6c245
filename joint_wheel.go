package physics

import "math"

// WheelJointDef describes a wheel joint: a point-to-line constraint with
// a rotational motor and a linear spring along the axis, intended for
// vehicle suspensions. Anchors and the axis are local so a saved
// configuration may violate the constraint slightly.
type WheelJointDef struct {
	JointDef

	LocalAnchorA Vec2
	LocalAnchorB Vec2

	// LocalAxisA is the suspension axis in bodyA coordinates.
	LocalAxisA Vec2

	EnableMotor    bool
	MaxMotorTorque float64
	MotorSpeed     float64

	// FrequencyHz of the suspension spring; zero disables suspension.
	FrequencyHz float64

	// DampingRatio of the suspension; one is critical damping.
	DampingRatio float64
}

func DefaultWheelJointDef() WheelJointDef {
	return WheelJointDef{
		LocalAxisA:   Vec2{X: 1.0},
		FrequencyHz:  2.0,
		DampingRatio: 0.7,
	}
}

// Initialize fills the def from two bodies, a world anchor and a world
// suspension axis.
func (d *WheelJointDef) Initialize(bodyA, bodyB *Body, anchor, axis Vec2) {
	d.BodyA = bodyA
	d.BodyB = bodyB
	d.LocalAnchorA = bodyA.LocalPoint(anchor)
	d.LocalAnchorB = bodyB.LocalPoint(anchor)
	d.LocalAxisA = bodyA.LocalVector(axis)
}

func (d *WheelJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	j := &WheelJoint{
		jointBase:      d.initBase(WheelJointType),
		localAnchorA:   d.LocalAnchorA,
		localAnchorB:   d.LocalAnchorB,
		localXAxisA:    d.LocalAxisA,
		maxMotorTorque: d.MaxMotorTorque,
		motorSpeed:     d.MotorSpeed,
		enableMotor:    d.EnableMotor,
		frequencyHz:    d.FrequencyHz,
		dampingRatio:   d.DampingRatio,
	}
	j.localYAxisA = CrossSV(1.0, j.localXAxisA)
	return j, nil
}

// WheelJoint provides two degrees of freedom: translation along an axis
// fixed in bodyA and rotation in the plane. The translation is softened
// by a spring/damper and the rotation can be driven by a motor.
type WheelJoint struct {
	jointBase

	frequencyHz  float64
	dampingRatio float64

	localAnchorA Vec2
	localAnchorB Vec2
	localXAxisA  Vec2
	localYAxisA  Vec2

	impulse       float64
	motorImpulse  float64
	springImpulse float64

	maxMotorTorque float64
	motorSpeed     float64
	enableMotor    bool

	tmp wheelSolverTemp
}

type wheelSolverTemp struct {
	solverTemp

	ax, ay   Vec2
	sAx, sBx float64
	sAy, sBy float64

	mass       float64
	motorMass  float64
	springMass float64

	bias  float64
	gamma float64
}

// Point-to-line constraint
// d = pB - pA
// C = dot(ay, d)
// J = [-ay -cross(d + rA, ay) ay cross(rB, ay)]
//
// Spring constraint along the axis
// C = dot(ax, d)
// J = [-ax -cross(d + rA, ax) ax cross(rB, ax)]
//
// Rotational motor
// Cdot = wB - wA
// J = [0 0 -1 0 0 1]

func (j *WheelJoint) LocalAnchorA() Vec2 { return j.localAnchorA }
func (j *WheelJoint) LocalAnchorB() Vec2 { return j.localAnchorB }
func (j *WheelJoint) LocalAxisA() Vec2   { return j.localXAxisA }

// JointTranslation is the current displacement along the axis.
func (j *WheelJoint) JointTranslation() float64 {
	pA := j.bodyA.WorldPoint(j.localAnchorA)
	pB := j.bodyB.WorldPoint(j.localAnchorB)
	axis := j.bodyA.WorldVector(j.localXAxisA)
	return pB.Sub(pA).Dot(axis)
}

// JointAngle is the relative angle between the bodies.
func (j *WheelJoint) JointAngle() float64 {
	return j.bodyB.sweep.A - j.bodyA.sweep.A
}

// JointAngularSpeed is the relative angular velocity.
func (j *WheelJoint) JointAngularSpeed() float64 {
	return j.bodyB.angularVelocity - j.bodyA.angularVelocity
}

func (j *WheelJoint) IsMotorEnabled() bool { return j.enableMotor }

func (j *WheelJoint) EnableMotor(flag bool) {
	if flag != j.enableMotor {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.enableMotor = flag
	}
}

func (j *WheelJoint) MotorSpeed() float64 { return j.motorSpeed }

func (j *WheelJoint) SetMotorSpeed(speed float64) {
	if speed != j.motorSpeed {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.motorSpeed = speed
	}
}

func (j *WheelJoint) MaxMotorTorque() float64 { return j.maxMotorTorque }

func (j *WheelJoint) SetMaxMotorTorque(torque float64) {
	if torque != j.maxMotorTorque {
		j.bodyA.SetAwake(true)
		j.bodyB.SetAwake(true)
		j.maxMotorTorque = torque
	}
}

// MotorTorque is the torque the motor applied during the last step.
func (j *WheelJoint) MotorTorque(invDT float64) float64 {
	return invDT * j.motorImpulse
}

func (j *WheelJoint) SetSpringFrequency(hz float64) { j.frequencyHz = hz }
func (j *WheelJoint) SpringFrequency() float64      { return j.frequencyHz }

func (j *WheelJoint) SetSpringDampingRatio(ratio float64) { j.dampingRatio = ratio }
func (j *WheelJoint) SpringDampingRatio() float64         { return j.dampingRatio }

func (j *WheelJoint) Def() WheelJointDef {
	return WheelJointDef{
		JointDef:       JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		LocalAnchorA:   j.localAnchorA,
		LocalAnchorB:   j.localAnchorB,
		LocalAxisA:     j.localXAxisA,
		EnableMotor:    j.enableMotor,
		MaxMotorTorque: j.maxMotorTorque,
		MotorSpeed:     j.motorSpeed,
		FrequencyHz:    j.frequencyHz,
		DampingRatio:   j.dampingRatio,
	}
}

func (j *WheelJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
	j.tmp.capture(j.bodyA, j.bodyB)
	t := &j.tmp

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

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
	d := cB.Add(rB).Sub(cA).Sub(rA)

	// Point-to-line constraint.
	t.ay = qA.Rotate(j.localYAxisA)
	t.sAy = d.Add(rA).Cross(t.ay)
	t.sBy = rB.Cross(t.ay)

	t.mass = mA + mB + iA*t.sAy*t.sAy + iB*t.sBy*t.sBy
	if t.mass > 0.0 {
		t.mass = 1.0 / t.mass
	}

	// Spring constraint.
	t.springMass = 0.0
	t.bias = 0.0
	t.gamma = 0.0
	if j.frequencyHz > 0.0 {
		t.ax = qA.Rotate(j.localXAxisA)
		t.sAx = d.Add(rA).Cross(t.ax)
		t.sBx = rB.Cross(t.ax)

		invMass := mA + mB + iA*t.sAx*t.sAx + iB*t.sBx*t.sBx

		if invMass > 0.0 {
			t.springMass = 1.0 / invMass

			C := d.Dot(t.ax)

			omega := 2.0 * Pi * j.frequencyHz

			// Damping coefficient and spring stiffness.
			damp := 2.0 * t.springMass * j.dampingRatio * omega
			k := t.springMass * omega * omega

			h := step.DeltaT
			t.gamma = h * (damp + h*k)
			if t.gamma > 0.0 {
				t.gamma = 1.0 / t.gamma
			}

			t.bias = C * h * k * t.gamma

			t.springMass = invMass + t.gamma
			if t.springMass > 0.0 {
				t.springMass = 1.0 / t.springMass
			}
		}
	} else {
		j.springImpulse = 0.0
	}

	// Rotational motor.
	if j.enableMotor {
		t.motorMass = iA + iB
		if t.motorMass > 0.0 {
			t.motorMass = 1.0 / t.motorMass
		}
	} else {
		t.motorMass = 0.0
		j.motorImpulse = 0.0
	}

	if step.WarmStarting {
		// Account for variable time step.
		j.impulse *= step.DTRatio
		j.springImpulse *= step.DTRatio
		j.motorImpulse *= step.DTRatio

		P := t.ay.Mul(j.impulse).Add(t.ax.Mul(j.springImpulse))
		LA := j.impulse*t.sAy + j.springImpulse*t.sAx + j.motorImpulse
		LB := j.impulse*t.sBy + j.springImpulse*t.sBx + j.motorImpulse

		vA = vA.Sub(P.Mul(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mul(mB))
		wB += iB * LB
	} else {
		j.impulse = 0.0
		j.springImpulse = 0.0
		j.motorImpulse = 0.0
	}

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *WheelJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	mA, mB := t.invMassA, t.invMassB
	iA, iB := t.invIA, t.invIB

	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	// Solve spring constraint.
	{
		Cdot := t.ax.Dot(vB.Sub(vA)) + t.sBx*wB - t.sAx*wA
		impulse := -t.springMass * (Cdot + t.bias + t.gamma*j.springImpulse)
		j.springImpulse += impulse

		P := t.ax.Mul(impulse)
		LA := impulse * t.sAx
		LB := impulse * t.sBx

		vA = vA.Sub(P.Mul(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mul(mB))
		wB += iB * LB
	}

	// Solve rotational motor constraint.
	{
		Cdot := wB - wA - j.motorSpeed
		impulse := -t.motorMass * Cdot

		oldImpulse := j.motorImpulse
		maxImpulse := step.DeltaT * j.maxMotorTorque
		j.motorImpulse = Clamp(j.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve point-to-line constraint.
	{
		Cdot := t.ay.Dot(vB.Sub(vA)) + t.sBy*wB - t.sAy*wA
		impulse := -t.mass * Cdot
		j.impulse += impulse

		P := t.ay.Mul(impulse)
		LA := impulse * t.sAy
		LB := impulse * t.sBy

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

func (j *WheelJoint) SolvePositionConstraints(positions []Position) bool {
	t := &j.tmp

	cA := positions[t.indexA].Point
	aA := positions[t.indexA].Angle
	cB := positions[t.indexB].Point
	aB := positions[t.indexB].Angle

	qA := RotFromAngle(aA)
	qB := RotFromAngle(aB)

	rA := qA.Rotate(j.localAnchorA.Sub(t.localCenterA))
	rB := qB.Rotate(j.localAnchorB.Sub(t.localCenterB))
	d := cB.Sub(cA).Add(rB).Sub(rA)

	ay := qA.Rotate(j.localYAxisA)

	sAy := d.Add(rA).Cross(ay)
	sBy := rB.Cross(ay)

	C := d.Dot(ay)

	k := t.invMassA + t.invMassB + t.invIA*t.sAy*t.sAy + t.invIB*t.sBy*t.sBy

	impulse := 0.0
	if k != 0.0 {
		impulse = -C / k
	}

	P := ay.Mul(impulse)
	LA := impulse * sAy
	LB := impulse * sBy

	cA = cA.Sub(P.Mul(t.invMassA))
	aA -= t.invIA * LA
	cB = cB.Add(P.Mul(t.invMassB))
	aB += t.invIB * LB

	positions[t.indexA].Point = cA
	positions[t.indexA].Angle = aA
	positions[t.indexB].Point = cB
	positions[t.indexB].Angle = aB

	return math.Abs(C) <= LinearSlop
}

func (j *WheelJoint) AnchorA() Vec2 {
	return j.bodyA.WorldPoint(j.localAnchorA)
}

func (j *WheelJoint) AnchorB() Vec2 {
	return j.bodyB.WorldPoint(j.localAnchorB)
}

func (j *WheelJoint) ReactionForce(invDT float64) Vec2 {
	return j.tmp.ay.Mul(j.impulse).Add(j.tmp.ax.Mul(j.springImpulse)).Mul(invDT)
}

func (j *WheelJoint) ReactionTorque(invDT float64) float64 {
	return invDT * j.motorImpulse
}

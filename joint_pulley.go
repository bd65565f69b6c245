package physics

import (
	"fmt"
	"math"
)

// PulleyJointDef describes a pulley joint: two ground anchors, two body
// anchors, and a ratio.
type PulleyJointDef struct {
	JointDef

	// GroundAnchorA and GroundAnchorB are fixed world points the rope
	// segments hang from. They never move.
	GroundAnchorA Vec2
	GroundAnchorB Vec2

	LocalAnchorA Vec2
	LocalAnchorB Vec2

	// LengthA and LengthB are the reference segment lengths.
	LengthA float64
	LengthB float64

	// Ratio scales segment B, simulating a block-and-tackle. Must be
	// positive.
	Ratio float64
}

func DefaultPulleyJointDef() PulleyJointDef {
	return PulleyJointDef{
		JointDef:      JointDef{CollideConnected: true},
		GroundAnchorA: Vec2{-1.0, 1.0},
		GroundAnchorB: Vec2{1.0, 1.0},
		LocalAnchorA:  Vec2{X: -1.0},
		LocalAnchorB:  Vec2{X: 1.0},
		Ratio:         1.0,
	}
}

// Initialize fills the def from two bodies, their ground anchors, the
// world body anchors and the ratio.
func (d *PulleyJointDef) Initialize(bodyA, bodyB *Body, groundA, groundB, anchorA, anchorB Vec2, ratio float64) {
	d.BodyA = bodyA
	d.BodyB = bodyB
	d.GroundAnchorA = groundA
	d.GroundAnchorB = groundB
	d.LocalAnchorA = bodyA.LocalPoint(anchorA)
	d.LocalAnchorB = bodyB.LocalPoint(anchorB)
	d.LengthA = anchorA.Sub(groundA).Length()
	d.LengthB = anchorB.Sub(groundB).Length()
	d.Ratio = ratio
}

func (d *PulleyJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.Ratio <= epsilon {
		return nil, fmt.Errorf("physics: pulley joint ratio must be positive, got %g", d.Ratio)
	}
	return &PulleyJoint{
		jointBase:     d.initBase(PulleyJointType),
		groundAnchorA: d.GroundAnchorA,
		groundAnchorB: d.GroundAnchorB,
		localAnchorA:  d.LocalAnchorA,
		localAnchorB:  d.LocalAnchorB,
		lengthA:       d.LengthA,
		lengthB:       d.LengthB,
		ratio:         d.Ratio,
		constant:      d.LengthA + d.Ratio*d.LengthB,
	}, nil
}

// PulleyJoint connects two bodies over two fixed ground points such
// that lengthA + ratio * lengthB stays constant. The transmitted force
// is scaled by the ratio. Pulleys can get squirrelly by themselves;
// they work better combined with prismatic joints, and one side going
// to zero length degenerates the constraint.
type PulleyJoint struct {
	jointBase

	groundAnchorA Vec2
	groundAnchorB Vec2
	lengthA       float64
	lengthB       float64

	localAnchorA Vec2
	localAnchorB Vec2
	constant     float64
	ratio        float64
	impulse      float64

	tmp pulleySolverTemp
}

type pulleySolverTemp struct {
	solverTemp
	uA, uB Vec2
	rA, rB Vec2
	mass   float64
}

// lengthA = norm(pA - sA)
// lengthB = norm(pB - sB)
// C = constant - lengthA - ratio * lengthB
// uA = (pA - sA) / lengthA, uB = (pB - sB) / lengthB
// Cdot = -dot(uA, vA + cross(wA, rA)) - ratio * dot(uB, vB + cross(wB, rB))
// K = invMassA + invIA * cross(rA, uA)^2 + ratio^2 * (invMassB + invIB * cross(rB, uB)^2)

func (j *PulleyJoint) GroundAnchorA() Vec2 { return j.groundAnchorA }
func (j *PulleyJoint) GroundAnchorB() Vec2 { return j.groundAnchorB }

func (j *PulleyJoint) LengthA() float64 { return j.lengthA }
func (j *PulleyJoint) LengthB() float64 { return j.lengthB }
func (j *PulleyJoint) Ratio() float64   { return j.ratio }

// CurrentLengthA is the present length of the segment attached to bodyA.
func (j *PulleyJoint) CurrentLengthA() float64 {
	return j.bodyA.WorldPoint(j.localAnchorA).Sub(j.groundAnchorA).Length()
}

// CurrentLengthB is the present length of the segment attached to bodyB.
func (j *PulleyJoint) CurrentLengthB() float64 {
	return j.bodyB.WorldPoint(j.localAnchorB).Sub(j.groundAnchorB).Length()
}

// ShiftOrigin moves the ground anchors when the world origin shifts.
func (j *PulleyJoint) ShiftOrigin(newOrigin Vec2) {
	j.groundAnchorA = j.groundAnchorA.Sub(newOrigin)
	j.groundAnchorB = j.groundAnchorB.Sub(newOrigin)
}

func (j *PulleyJoint) Def() PulleyJointDef {
	return PulleyJointDef{
		JointDef:      JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		GroundAnchorA: j.groundAnchorA,
		GroundAnchorB: j.groundAnchorB,
		LocalAnchorA:  j.localAnchorA,
		LocalAnchorB:  j.localAnchorB,
		LengthA:       j.lengthA,
		LengthB:       j.lengthB,
		Ratio:         j.ratio,
	}
}

func (j *PulleyJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
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

	// Pulley axes.
	t.uA = cA.Add(t.rA).Sub(j.groundAnchorA)
	t.uB = cB.Add(t.rB).Sub(j.groundAnchorB)

	lengthA := t.uA.Length()
	lengthB := t.uB.Length()

	if lengthA > 10.0*LinearSlop {
		t.uA = t.uA.Mul(1.0 / lengthA)
	} else {
		t.uA = Vec2{}
	}

	if lengthB > 10.0*LinearSlop {
		t.uB = t.uB.Mul(1.0 / lengthB)
	} else {
		t.uB = Vec2{}
	}

	ruA := t.rA.Cross(t.uA)
	ruB := t.rB.Cross(t.uB)

	mA := t.invMassA + t.invIA*ruA*ruA
	mB := t.invMassB + t.invIB*ruB*ruB

	t.mass = mA + j.ratio*j.ratio*mB

	if t.mass > 0.0 {
		t.mass = 1.0 / t.mass
	}

	if step.WarmStarting {
		j.impulse *= step.DTRatio

		PA := t.uA.Mul(-j.impulse)
		PB := t.uB.Mul(-j.ratio * j.impulse)

		vA = vA.Add(PA.Mul(t.invMassA))
		wA += t.invIA * t.rA.Cross(PA)
		vB = vB.Add(PB.Mul(t.invMassB))
		wB += t.invIB * t.rB.Cross(PB)
	} else {
		j.impulse = 0.0
	}

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *PulleyJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	vpA := vA.Add(CrossSV(wA, t.rA))
	vpB := vB.Add(CrossSV(wB, t.rB))

	Cdot := -t.uA.Dot(vpA) - j.ratio*t.uB.Dot(vpB)
	impulse := -t.mass * Cdot
	j.impulse += impulse

	PA := t.uA.Mul(-impulse)
	PB := t.uB.Mul(-j.ratio * impulse)
	vA = vA.Add(PA.Mul(t.invMassA))
	wA += t.invIA * t.rA.Cross(PA)
	vB = vB.Add(PB.Mul(t.invMassB))
	wB += t.invIB * t.rB.Cross(PB)

	velocities[t.indexA].Linear = vA
	velocities[t.indexA].Angular = wA
	velocities[t.indexB].Linear = vB
	velocities[t.indexB].Angular = wB
}

func (j *PulleyJoint) SolvePositionConstraints(positions []Position) bool {
	t := &j.tmp

	cA := positions[t.indexA].Point
	aA := positions[t.indexA].Angle
	cB := positions[t.indexB].Point
	aB := positions[t.indexB].Angle

	qA := RotFromAngle(aA)
	qB := RotFromAngle(aB)

	rA := qA.Rotate(j.localAnchorA.Sub(t.localCenterA))
	rB := qB.Rotate(j.localAnchorB.Sub(t.localCenterB))

	uA := cA.Add(rA).Sub(j.groundAnchorA)
	uB := cB.Add(rB).Sub(j.groundAnchorB)

	lengthA := uA.Length()
	lengthB := uB.Length()

	if lengthA > 10.0*LinearSlop {
		uA = uA.Mul(1.0 / lengthA)
	} else {
		uA = Vec2{}
	}

	if lengthB > 10.0*LinearSlop {
		uB = uB.Mul(1.0 / lengthB)
	} else {
		uB = Vec2{}
	}

	ruA := rA.Cross(uA)
	ruB := rB.Cross(uB)

	mA := t.invMassA + t.invIA*ruA*ruA
	mB := t.invMassB + t.invIB*ruB*ruB

	mass := mA + j.ratio*j.ratio*mB

	if mass > 0.0 {
		mass = 1.0 / mass
	}

	C := j.constant - lengthA - j.ratio*lengthB
	linearError := math.Abs(C)

	impulse := -mass * C

	PA := uA.Mul(-impulse)
	PB := uB.Mul(-j.ratio * impulse)

	cA = cA.Add(PA.Mul(t.invMassA))
	aA += t.invIA * rA.Cross(PA)
	cB = cB.Add(PB.Mul(t.invMassB))
	aB += t.invIB * rB.Cross(PB)

	positions[t.indexA].Point = cA
	positions[t.indexA].Angle = aA
	positions[t.indexB].Point = cB
	positions[t.indexB].Angle = aB

	return linearError < LinearSlop
}

func (j *PulleyJoint) AnchorA() Vec2 {
	return j.bodyA.WorldPoint(j.localAnchorA)
}

func (j *PulleyJoint) AnchorB() Vec2 {
	return j.bodyB.WorldPoint(j.localAnchorB)
}

func (j *PulleyJoint) ReactionForce(invDT float64) Vec2 {
	return j.tmp.uB.Mul(invDT * j.impulse)
}

func (j *PulleyJoint) ReactionTorque(invDT float64) float64 {
	return 0.0
}

package physics

import (
	"fmt"
	"math"
)

// DistanceJointDef describes a distance joint: two anchor points held at
// a fixed distance, optionally softened into a spring-damper. Anchors
// are local so a saved configuration may violate the constraint slightly.
type DistanceJointDef struct {
	JointDef

	LocalAnchorA Vec2
	LocalAnchorB Vec2

	// Length is the rest distance between the anchors. Must be positive.
	Length float64

	// FrequencyHz softens the constraint into a spring when positive.
	FrequencyHz float64

	// DampingRatio: 0 = undamped, 1 = critically damped.
	DampingRatio float64
}

func DefaultDistanceJointDef() DistanceJointDef {
	return DistanceJointDef{Length: 1.0}
}

// Initialize fills the def from two bodies and world-space anchors.
func (d *DistanceJointDef) Initialize(bodyA, bodyB *Body, anchorA, anchorB Vec2) {
	d.BodyA = bodyA
	d.BodyB = bodyB
	d.LocalAnchorA = bodyA.LocalPoint(anchorA)
	d.LocalAnchorB = bodyB.LocalPoint(anchorB)
	d.Length = anchorB.Sub(anchorA).Length()
}

func (d *DistanceJointDef) createJoint() (Joint, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.Length <= 0.0 {
		return nil, fmt.Errorf("physics: distance joint length must be positive, got %g", d.Length)
	}
	return &DistanceJoint{
		jointBase:    d.initBase(DistanceJointType),
		localAnchorA: d.LocalAnchorA,
		localAnchorB: d.LocalAnchorB,
		length:       d.Length,
		frequencyHz:  d.FrequencyHz,
		dampingRatio: d.DampingRatio,
	}, nil
}

// DistanceJoint keeps two anchor points at a fixed distance, like a
// massless rigid rod. With a positive frequency it behaves as a spring
// and skips position correction.
type DistanceJoint struct {
	jointBase

	localAnchorA Vec2
	localAnchorB Vec2
	length       float64
	frequencyHz  float64
	dampingRatio float64
	impulse      float64

	tmp distanceSolverTemp
}

type distanceSolverTemp struct {
	solverTemp
	u      Vec2
	rA, rB Vec2
	mass   float64
	gamma  float64
	bias   float64
}

func (j *DistanceJoint) LocalAnchorA() Vec2 { return j.localAnchorA }
func (j *DistanceJoint) LocalAnchorB() Vec2 { return j.localAnchorB }

func (j *DistanceJoint) SetLength(length float64) error {
	if length <= 0.0 {
		return fmt.Errorf("physics: distance joint length must be positive, got %g", length)
	}
	j.length = length
	return nil
}

func (j *DistanceJoint) Length() float64 { return j.length }

func (j *DistanceJoint) SetFrequency(hz float64) { j.frequencyHz = hz }
func (j *DistanceJoint) Frequency() float64      { return j.frequencyHz }

func (j *DistanceJoint) SetDampingRatio(ratio float64) { j.dampingRatio = ratio }
func (j *DistanceJoint) DampingRatio() float64         { return j.dampingRatio }

// Def reconstructs the definition for persistence.
func (j *DistanceJoint) Def() DistanceJointDef {
	return DistanceJointDef{
		JointDef:     JointDef{BodyA: j.bodyA, BodyB: j.bodyB, CollideConnected: j.collideConnected, UserData: j.userData},
		LocalAnchorA: j.localAnchorA,
		LocalAnchorB: j.localAnchorB,
		Length:       j.length,
		FrequencyHz:  j.frequencyHz,
		DampingRatio: j.dampingRatio,
	}
}

// C = norm(pB - pA) - L
// u = (pB - pA) / norm(pB - pA)
// Cdot = dot(u, vB + cross(wB, rB) - vA - cross(wA, rA))
// J = [-u -cross(rA, u) u cross(rB, u)]
// K = J * invM * JT
//   = invMassA + invIA * cross(rA, u)^2 + invMassB + invIB * cross(rB, u)^2

func (j *DistanceJoint) InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity) {
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

	// Handle singularity.
	length := t.u.Length()
	if length > LinearSlop {
		t.u = t.u.Mul(1.0 / length)
	} else {
		t.u = Vec2{}
	}

	crAu := t.rA.Cross(t.u)
	crBu := t.rB.Cross(t.u)
	invMass := t.invMassA + t.invIA*crAu*crAu + t.invMassB + t.invIB*crBu*crBu

	if invMass != 0.0 {
		t.mass = 1.0 / invMass
	} else {
		t.mass = 0.0
	}

	if j.frequencyHz > 0.0 {
		C := length - j.length

		omega := 2.0 * Pi * j.frequencyHz

		// Damping coefficient and spring stiffness.
		d := 2.0 * t.mass * j.dampingRatio * omega
		k := t.mass * omega * omega

		h := step.DeltaT
		t.gamma = h * (d + h*k)
		if t.gamma != 0.0 {
			t.gamma = 1.0 / t.gamma
		} else {
			t.gamma = 0.0
		}
		t.bias = C * h * k * t.gamma

		invMass += t.gamma
		if invMass != 0.0 {
			t.mass = 1.0 / invMass
		} else {
			t.mass = 0.0
		}
	} else {
		t.gamma = 0.0
		t.bias = 0.0
	}

	if step.WarmStarting {
		// Scale the impulse to support a variable time step.
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

func (j *DistanceJoint) SolveVelocityConstraints(step Step, velocities []Velocity) {
	t := &j.tmp

	vA := velocities[t.indexA].Linear
	wA := velocities[t.indexA].Angular
	vB := velocities[t.indexB].Linear
	wB := velocities[t.indexB].Angular

	// Cdot = dot(u, v + cross(w, r))
	vpA := vA.Add(CrossSV(wA, t.rA))
	vpB := vB.Add(CrossSV(wB, t.rB))
	Cdot := t.u.Dot(vpB.Sub(vpA))

	impulse := -t.mass * (Cdot + t.bias + t.gamma*j.impulse)
	j.impulse += impulse

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

func (j *DistanceJoint) SolvePositionConstraints(positions []Position) bool {
	if j.frequencyHz > 0.0 {
		// There is no position correction for soft distance constraints.
		return true
	}

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
	C := length - j.length
	C = Clamp(C, -MaxLinearCorrection, MaxLinearCorrection)

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

	return math.Abs(C) < LinearSlop
}

func (j *DistanceJoint) AnchorA() Vec2 {
	return j.bodyA.WorldPoint(j.localAnchorA)
}

func (j *DistanceJoint) AnchorB() Vec2 {
	return j.bodyB.WorldPoint(j.localAnchorB)
}

func (j *DistanceJoint) ReactionForce(invDT float64) Vec2 {
	return j.tmp.u.Mul(invDT * j.impulse)
}

func (j *DistanceJoint) ReactionTorque(invDT float64) float64 {
	return 0.0
}

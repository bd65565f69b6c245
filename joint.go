package physics

import "fmt"

// JointType identifies the kind of a joint.
type JointType uint8

const (
	DistanceJointType JointType = iota + 1
	RopeJointType
	RevoluteJointType
	PrismaticJointType
	WheelJointType
	MotorJointType
	FrictionJointType
	PulleyJointType
	MouseJointType
)

func (t JointType) String() string {
	switch t {
	case DistanceJointType:
		return "distance"
	case RopeJointType:
		return "rope"
	case RevoluteJointType:
		return "revolute"
	case PrismaticJointType:
		return "prismatic"
	case WheelJointType:
		return "wheel"
	case MotorJointType:
		return "motor"
	case FrictionJointType:
		return "friction"
	case PulleyJointType:
		return "pulley"
	case MouseJointType:
		return "mouse"
	}
	return "unknown"
}

// limitState tracks which side of a joint limit is active.
type limitState uint8

const (
	inactiveLimit limitState = iota
	atLowerLimit
	atUpperLimit
	equalLimits
)

// Joint is a constraint between two bodies solved by sequential
// impulses. The three solver-phase methods are called by the island
// driver in a fixed order each step: InitializeVelocityConstraints once,
// SolveVelocityConstraints repeatedly, then SolvePositionConstraints
// repeatedly until every joint reports convergence.
//
// The interface is closed; joint kinds live in this package.
type Joint interface {
	Type() JointType
	BodyA() *Body
	BodyB() *Body

	// AnchorA and AnchorB are the joint anchors in world coordinates.
	AnchorA() Vec2
	AnchorB() Vec2

	// ReactionForce is the constraint force on body B at the anchor, in
	// newtons, recovered from the accumulated impulse of the last step.
	ReactionForce(invDT float64) Vec2

	// ReactionTorque is the constraint torque on body B.
	ReactionTorque(invDT float64) float64

	CollideConnected() bool
	UserData() interface{}
	SetUserData(interface{})

	// InitializeVelocityConstraints recomputes the step-local scratch
	// (Jacobians, effective masses) from the position array, and when
	// warm starting is enabled applies the accumulated impulse from the
	// previous step scaled by step.DTRatio.
	InitializeVelocityConstraints(step Step, positions []Position, velocities []Velocity)

	// SolveVelocityConstraints applies one impulse iteration to the
	// velocity array.
	SolveVelocityConstraints(step Step, velocities []Velocity)

	// SolvePositionConstraints applies one pseudo-impulse iteration to
	// the position array and reports whether the remaining error is
	// within tolerance. It never touches velocities.
	SolvePositionConstraints(positions []Position) bool

	base() *jointBase
}

// jointBase carries the bookkeeping shared by every joint kind.
type jointBase struct {
	jointType        JointType
	bodyA, bodyB     *Body
	collideConnected bool
	islandFlag       bool
	userData         interface{}
}

func (j *jointBase) Type() JointType {
	return j.jointType
}

func (j *jointBase) BodyA() *Body {
	return j.bodyA
}

func (j *jointBase) BodyB() *Body {
	return j.bodyB
}

func (j *jointBase) CollideConnected() bool {
	return j.collideConnected
}

func (j *jointBase) UserData() interface{} {
	return j.userData
}

func (j *jointBase) SetUserData(data interface{}) {
	j.userData = data
}

func (j *jointBase) base() *jointBase {
	return j
}

// otherBody returns the body on the far side of the joint from b.
func (j *jointBase) otherBody(b *Body) *Body {
	if j.bodyA == b {
		return j.bodyB
	}
	return j.bodyA
}

// IsActive reports whether both bodies can participate in solving.
func (j *jointBase) IsActive() bool {
	return j.bodyA != nil && j.bodyB != nil
}

// JointDef holds the fields common to every joint definition.
type JointDef struct {
	BodyA *Body
	BodyB *Body

	// CollideConnected lets collision occur between the two bodies.
	// Without collision support it is carried for round-tripping only.
	CollideConnected bool

	UserData interface{}
}

func (d *JointDef) common() *JointDef {
	return d
}

func (d *JointDef) validate() error {
	if d.BodyA == nil || d.BodyB == nil {
		return fmt.Errorf("physics: joint requires two bodies")
	}
	if d.BodyA == d.BodyB {
		return fmt.Errorf("physics: joint cannot connect a body to itself")
	}
	return nil
}

func (d *JointDef) initBase(t JointType) jointBase {
	return jointBase{
		jointType:        t,
		bodyA:            d.BodyA,
		bodyB:            d.BodyB,
		collideConnected: d.CollideConnected,
		userData:         d.UserData,
	}
}

// JointDefiner is implemented by every joint definition and consumed by
// World.CreateJoint.
type JointDefiner interface {
	common() *JointDef
	createJoint() (Joint, error)
}

// solverTemp holds the body-derived scratch every joint recomputes at
// the start of each step. It is never serialized.
type solverTemp struct {
	indexA, indexB             int
	localCenterA, localCenterB Vec2
	invMassA, invMassB         float64
	invIA, invIB               float64
}

func (t *solverTemp) capture(a, b *Body) {
	t.indexA = a.islandIndex
	t.indexB = b.islandIndex
	t.localCenterA = a.sweep.LocalCenter
	t.localCenterB = b.sweep.LocalCenter
	t.invMassA = a.invMass
	t.invMassB = b.invMass
	t.invIA = a.invI
	t.invIB = b.invI
}

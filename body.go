package physics

// BodyType classifies how a body participates in the simulation.
// Static bodies never move, kinematic bodies move under velocity only,
// dynamic bodies respond to forces and constraints.
type BodyType uint8

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

// MassData holds the mass properties of a body. I is the rotational
// inertia about the center of mass.
type MassData struct {
	Mass   float64
	Center Vec2
	I      float64
}

// BodyDef describes a body to be created. Use DefaultBodyDef for sane
// defaults.
type BodyDef struct {
	Type BodyType

	// Position and Angle place the body origin in world coordinates.
	Position Vec2
	Angle    float64

	LinearVelocity  Vec2
	AngularVelocity float64

	// Damping is applied as a velocity decay each step. Values around
	// 0 to 0.1 are typical; damping is time-step independent.
	LinearDamping  float64
	AngularDamping float64

	AllowSleep    bool
	Awake         bool
	FixedRotation bool

	GravityScale float64

	// Mass properties of a dynamic body. A non-positive Mass defaults to
	// one. Inertia is about the center of mass; LocalCenter is the
	// center of mass in body coordinates.
	Mass        float64
	Inertia     float64
	LocalCenter Vec2

	UserData interface{}
}

func DefaultBodyDef() BodyDef {
	return BodyDef{
		Type:         StaticBody,
		AllowSleep:   true,
		Awake:        true,
		GravityScale: 1.0,
	}
}

const (
	bodyFlagIsland = 1 << iota
	bodyFlagAwake
	bodyFlagAutoSleep
	bodyFlagFixedRotation
)

// Body is a rigid body. Bodies are created and destroyed through a
// World; joints reference them without owning them.
type Body struct {
	bodyType BodyType
	flags    uint32

	islandIndex int

	xf    Transform
	sweep Sweep

	linearVelocity  Vec2
	angularVelocity float64

	force  Vec2
	torque float64

	mass, invMass float64
	inertia, invI float64
	// Inertia as last supplied through SetMassData, kept so clearing
	// fixed rotation can restore it.
	suppliedInertia float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	sleepTime float64

	world  *World
	joints []Joint

	userData interface{}
}

func newBody(def *BodyDef, world *World) *Body {
	assert(def.Position.IsValid())

	b := &Body{
		bodyType:        def.Type,
		world:           world,
		linearVelocity:  def.LinearVelocity,
		angularVelocity: def.AngularVelocity,
		linearDamping:   def.LinearDamping,
		angularDamping:  def.AngularDamping,
		gravityScale:    def.GravityScale,
		userData:        def.UserData,
	}

	if def.AllowSleep {
		b.flags |= bodyFlagAutoSleep
	}
	if def.Awake {
		b.flags |= bodyFlagAwake
	}
	if def.FixedRotation {
		b.flags |= bodyFlagFixedRotation
	}

	b.xf.P = def.Position
	b.xf.Q.Set(def.Angle)

	b.sweep.C0 = def.Position
	b.sweep.C = def.Position
	b.sweep.A0 = def.Angle
	b.sweep.A = def.Angle

	if def.Type == DynamicBody {
		b.SetMassData(MassData{Mass: def.Mass, Center: def.LocalCenter, I: def.Inertia})
	}

	return b
}

func (b *Body) Type() BodyType {
	return b.bodyType
}

// Transform returns the body origin frame.
func (b *Body) Transform() Transform {
	return b.xf
}

// Position returns the body origin in world coordinates.
func (b *Body) Position() Vec2 {
	return b.xf.P
}

func (b *Body) Angle() float64 {
	return b.sweep.A
}

// WorldCenter returns the center of mass in world coordinates.
func (b *Body) WorldCenter() Vec2 {
	return b.sweep.C
}

// LocalCenter returns the center of mass in body coordinates.
func (b *Body) LocalCenter() Vec2 {
	return b.sweep.LocalCenter
}

// SetTransform teleports the body. Velocities are untouched.
func (b *Body) SetTransform(position Vec2, angle float64) {
	assert(!b.world.locked)

	b.xf.Q.Set(angle)
	b.xf.P = position

	b.sweep.C = b.xf.Apply(b.sweep.LocalCenter)
	b.sweep.A = angle
	b.sweep.C0 = b.sweep.C
	b.sweep.A0 = angle
}

func (b *Body) SetLinearVelocity(v Vec2) {
	if b.bodyType == StaticBody {
		return
	}
	if v.Dot(v) > 0.0 {
		b.SetAwake(true)
	}
	b.linearVelocity = v
}

func (b *Body) LinearVelocity() Vec2 {
	return b.linearVelocity
}

func (b *Body) SetAngularVelocity(w float64) {
	if b.bodyType == StaticBody {
		return
	}
	if w*w > 0.0 {
		b.SetAwake(true)
	}
	b.angularVelocity = w
}

func (b *Body) AngularVelocity() float64 {
	return b.angularVelocity
}

func (b *Body) Mass() float64 {
	return b.mass
}

// Inertia returns the rotational inertia about the body origin.
func (b *Body) Inertia() float64 {
	c := b.sweep.LocalCenter
	return b.inertia + b.mass*c.Dot(c)
}

func (b *Body) MassData() MassData {
	return MassData{Mass: b.mass, Center: b.sweep.LocalCenter, I: b.inertia}
}

// SetMassData sets the mass properties of a dynamic body. A non-positive
// mass is replaced by one so dynamic bodies never become unmovable by
// accident.
func (b *Body) SetMassData(data MassData) {
	assert(b.world == nil || !b.world.locked)
	if b.bodyType != DynamicBody {
		return
	}

	b.invMass = 0.0
	b.inertia = 0.0
	b.invI = 0.0

	b.mass = data.Mass
	if b.mass <= 0.0 {
		b.mass = 1.0
	}
	b.invMass = 1.0 / b.mass

	b.suppliedInertia = data.I
	if data.I > 0.0 && b.flags&bodyFlagFixedRotation == 0 {
		b.inertia = data.I
		assert(b.inertia > 0.0)
		b.invI = 1.0 / b.inertia
	}

	// Move the sweep to the new center of mass and pick up the velocity
	// the shift induces.
	oldCenter := b.sweep.C
	b.sweep.LocalCenter = data.Center
	b.sweep.C = b.xf.Apply(b.sweep.LocalCenter)
	b.sweep.C0 = b.sweep.C

	b.linearVelocity = b.linearVelocity.Add(CrossSV(b.angularVelocity, b.sweep.C.Sub(oldCenter)))
}

func (b *Body) LinearDamping() float64 {
	return b.linearDamping
}

func (b *Body) SetLinearDamping(d float64) {
	b.linearDamping = d
}

func (b *Body) AngularDamping() float64 {
	return b.angularDamping
}

func (b *Body) SetAngularDamping(d float64) {
	b.angularDamping = d
}

func (b *Body) GravityScale() float64 {
	return b.gravityScale
}

func (b *Body) SetGravityScale(scale float64) {
	b.gravityScale = scale
}

// ApplyForce applies a world-frame force at a world point. A force off
// the center of mass also generates torque.
func (b *Body) ApplyForce(force Vec2, point Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&bodyFlagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&bodyFlagAwake != 0 {
		b.force = b.force.Add(force)
		b.torque += point.Sub(b.sweep.C).Cross(force)
	}
}

// ApplyForceToCenter applies a world-frame force at the center of mass.
func (b *Body) ApplyForceToCenter(force Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&bodyFlagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&bodyFlagAwake != 0 {
		b.force = b.force.Add(force)
	}
}

func (b *Body) ApplyTorque(torque float64, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&bodyFlagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&bodyFlagAwake != 0 {
		b.torque += torque
	}
}

// ApplyLinearImpulse applies an impulse at a world point, changing the
// velocities immediately.
func (b *Body) ApplyLinearImpulse(impulse Vec2, point Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&bodyFlagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&bodyFlagAwake != 0 {
		b.linearVelocity = b.linearVelocity.Add(impulse.Mul(b.invMass))
		b.angularVelocity += b.invI * point.Sub(b.sweep.C).Cross(impulse)
	}
}

func (b *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&bodyFlagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&bodyFlagAwake != 0 {
		b.angularVelocity += b.invI * impulse
	}
}

// WorldPoint maps a body-local point to world coordinates.
func (b *Body) WorldPoint(localPoint Vec2) Vec2 {
	return b.xf.Apply(localPoint)
}

// WorldVector maps a body-local direction to world coordinates.
func (b *Body) WorldVector(localVector Vec2) Vec2 {
	return b.xf.Q.Rotate(localVector)
}

// LocalPoint maps a world point to body coordinates.
func (b *Body) LocalPoint(worldPoint Vec2) Vec2 {
	return b.xf.ApplyInverse(worldPoint)
}

// LocalVector maps a world direction to body coordinates.
func (b *Body) LocalVector(worldVector Vec2) Vec2 {
	return b.xf.Q.InvRotate(worldVector)
}

// SetAwake wakes or sleeps the body. Sleeping clears velocities and
// accumulated forces.
func (b *Body) SetAwake(flag bool) {
	if flag {
		if b.flags&bodyFlagAwake == 0 {
			b.flags |= bodyFlagAwake
			b.sleepTime = 0.0
		}
	} else {
		b.flags &^= bodyFlagAwake
		b.sleepTime = 0.0
		b.linearVelocity = Vec2{}
		b.angularVelocity = 0.0
		b.force = Vec2{}
		b.torque = 0.0
	}
}

func (b *Body) IsAwake() bool {
	return b.flags&bodyFlagAwake != 0
}

func (b *Body) SetSleepingAllowed(flag bool) {
	if flag {
		b.flags |= bodyFlagAutoSleep
	} else {
		b.flags &^= bodyFlagAutoSleep
		b.SetAwake(true)
	}
}

func (b *Body) IsSleepingAllowed() bool {
	return b.flags&bodyFlagAutoSleep != 0
}

func (b *Body) SetFixedRotation(flag bool) {
	status := b.flags&bodyFlagFixedRotation != 0
	if status == flag {
		return
	}
	if flag {
		b.flags |= bodyFlagFixedRotation
	} else {
		b.flags &^= bodyFlagFixedRotation
	}
	b.angularVelocity = 0.0
	b.SetMassData(MassData{Mass: b.mass, Center: b.sweep.LocalCenter, I: b.suppliedInertia})
}

func (b *Body) IsFixedRotation() bool {
	return b.flags&bodyFlagFixedRotation != 0
}

// IslandIndex is the body's slot in the solver arrays of the island it
// was last assigned to.
func (b *Body) IslandIndex() int {
	return b.islandIndex
}

// Joints returns the joints attached to the body. The slice is owned by
// the body; callers must not mutate it.
func (b *Body) Joints() []Joint {
	return b.joints
}

func (b *Body) UserData() interface{} {
	return b.userData
}

func (b *Body) SetUserData(data interface{}) {
	b.userData = data
}

func (b *Body) World() *World {
	return b.world
}

// synchronizeTransform rebuilds the origin transform from the sweep
// end state after the solver has written positions back.
func (b *Body) synchronizeTransform() {
	b.xf.Q.Set(b.sweep.A)
	b.xf.P = b.sweep.C.Sub(b.xf.Q.Rotate(b.sweep.LocalCenter))
}

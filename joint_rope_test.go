package physics_test

import (
	"testing"

	physics "github.com/fnuecke/Space-sub011"
)

func TestRopeJointClampsLength(t *testing.T) {
	world := physics.NewWorld(physics.V(0.0, -10.0))
	ground := makeStaticBody(world, 0.0, 0.0)
	body := makeDynamicBody(world, 3.0, 0.0, 1.0, 0.0)

	def := physics.DefaultRopeJointDef()
	def.BodyA = ground
	def.BodyB = body
	def.LocalAnchorA = physics.Vec2{}
	def.LocalAnchorB = physics.Vec2{}
	def.MaxLength = 5.0
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	dist := body.Position().Length()
	if dist > 5.0+physics.LinearSlop {
		t.Errorf("rope stretched to %v, max is 5", dist)
	}

	rj := j.(*physics.RopeJoint)
	if !rj.LimitTaut() {
		t.Error("hanging body should keep the rope taut")
	}
}

func TestRopeJointSlackDoesNotResist(t *testing.T) {
	world := physics.NewWorld(physics.V(0.0, -10.0))
	ground := makeStaticBody(world, 0.0, 0.0)
	tied := makeDynamicBody(world, 1.0, 0.0, 1.0, 0.0)
	free := makeDynamicBody(world, 20.0, 0.0, 1.0, 0.0)

	def := physics.DefaultRopeJointDef()
	def.BodyA = ground
	def.BodyB = tied
	def.LocalAnchorA = physics.Vec2{}
	def.LocalAnchorB = physics.Vec2{}
	def.MaxLength = 50.0
	if _, err := world.CreateJoint(&def); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	// While slack the rope must not interfere: the tied body falls
	// exactly like the unconstrained one.
	for i := 0; i < 30; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	if !near(tied.Position().Y, free.Position().Y, 1e-9) {
		t.Errorf("slack rope altered the fall: tied %v vs free %v", tied.Position().Y, free.Position().Y)
	}
}

func TestRopeJointRejectsNegativeLength(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	a := makeDynamicBody(world, 0.0, 0.0, 1.0, 0.0)
	b := makeDynamicBody(world, 1.0, 0.0, 1.0, 0.0)

	def := physics.DefaultRopeJointDef()
	def.BodyA = a
	def.BodyB = b
	def.MaxLength = -1.0
	if _, err := world.CreateJoint(&def); err == nil {
		t.Error("expected error for negative max length")
	}
}

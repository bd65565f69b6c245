package physics_test

import (
	"testing"

	physics "github.com/fnuecke/Space-sub011"
)

func TestMouseJointPullsTowardTarget(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	box := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	def := physics.DefaultMouseJointDef()
	def.BodyA = ground
	def.BodyB = box
	def.Target = box.Position()
	def.MaxForce = 1000.0
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}
	mj := j.(*physics.MouseJoint)

	mj.SetTarget(physics.V(2.0, 1.0))
	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	if !vecNear(box.Position(), physics.V(2.0, 1.0), 0.1) {
		t.Errorf("box settled at %v, want near (2, 1)", box.Position())
	}
}

func TestMouseJointSetTargetWakesBody(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	box := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	def := physics.DefaultMouseJointDef()
	def.BodyA = ground
	def.BodyB = box
	def.Target = box.Position()
	def.MaxForce = 50.0
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}
	mj := j.(*physics.MouseJoint)

	box.SetAwake(false)

	// Setting the same target again must not wake the body.
	mj.SetTarget(box.Position())
	if box.IsAwake() {
		t.Error("unchanged target should not wake the body")
	}

	mj.SetTarget(physics.V(1.0, 0.0))
	if !box.IsAwake() {
		t.Error("moving the target must wake the body")
	}
}

func TestMouseJointValidation(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	box := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	def := physics.DefaultMouseJointDef()
	def.BodyA = ground
	def.BodyB = box
	def.MaxForce = -1.0
	if _, err := world.CreateJoint(&def); err == nil {
		t.Error("expected error for negative max force")
	}

	// A zero frequency would leave the soft constraint without a spring
	// to solve against.
	def.MaxForce = 100.0
	def.FrequencyHz = 0.0
	if _, err := world.CreateJoint(&def); err == nil {
		t.Error("expected error for zero frequency")
	}

	def.FrequencyHz = 5.0
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}
	mj := j.(*physics.MouseJoint)
	if err := mj.SetFrequency(0.0); err == nil {
		t.Error("expected error for zero frequency in setter")
	}
	if mj.Frequency() != 5.0 {
		t.Errorf("Frequency = %v after rejected setter", mj.Frequency())
	}
}

func TestMouseJointAnchors(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	box := makeDynamicBody(world, 3.0, 4.0, 1.0, 1.0)

	def := physics.DefaultMouseJointDef()
	def.BodyA = ground
	def.BodyB = box
	def.Target = box.Position()
	def.MaxForce = 100.0
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	// The body anchor is captured at the target, so both anchors start
	// on top of each other.
	if !vecNear(j.AnchorA(), physics.V(3.0, 4.0), 1e-12) {
		t.Errorf("AnchorA = %v", j.AnchorA())
	}
	if !vecNear(j.AnchorB(), physics.V(3.0, 4.0), 1e-12) {
		t.Errorf("AnchorB = %v", j.AnchorB())
	}
}

package physics_test

import (
	"math"
	"testing"

	physics "github.com/fnuecke/Space-sub011"
)

func TestPrismaticJointConstrainsToAxis(t *testing.T) {
	world := physics.NewWorld(physics.V(0.0, -10.0))
	ground := makeStaticBody(world, 0.0, 0.0)
	slider := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)
	slider.SetLinearVelocity(physics.V(2.0, 0.0))

	def := physics.DefaultPrismaticJointDef()
	def.Initialize(ground, slider, physics.V(0.0, 0.0), physics.V(1.0, 0.0))
	if _, err := world.CreateJoint(&def); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	// Gravity pulls down but the slider may only move along x.
	if math.Abs(slider.Position().Y) > 0.02 {
		t.Errorf("slider left the axis: y = %v", slider.Position().Y)
	}
	if math.Abs(slider.Angle()) > physics.AngularSlop {
		t.Errorf("slider rotated: angle = %v", slider.Angle())
	}
	if slider.Position().X < 3.0 {
		t.Errorf("slider should glide freely, x = %v", slider.Position().X)
	}
}

func TestPrismaticJointLimits(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	slider := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)
	slider.SetLinearVelocity(physics.V(5.0, 0.0))

	def := physics.DefaultPrismaticJointDef()
	def.Initialize(ground, slider, physics.V(0.0, 0.0), physics.V(1.0, 0.0))
	def.EnableLimit = true
	def.LowerTranslation = -2.0
	def.UpperTranslation = 2.0
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}
	pj := j.(*physics.PrismaticJoint)

	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}
	if pj.JointTranslation() > 2.0+physics.LinearSlop {
		t.Errorf("translation %v exceeded upper limit", pj.JointTranslation())
	}

	slider.SetLinearVelocity(physics.V(-5.0, 0.0))
	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}
	if pj.JointTranslation() < -2.0-physics.LinearSlop {
		t.Errorf("translation %v exceeded lower limit", pj.JointTranslation())
	}
}

func TestPrismaticJointMotor(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	slider := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	def := physics.DefaultPrismaticJointDef()
	def.Initialize(ground, slider, physics.V(0.0, 0.0), physics.V(1.0, 0.0))
	def.EnableMotor = true
	def.MotorSpeed = 1.5
	def.MaxMotorForce = 1000.0
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}
	pj := j.(*physics.PrismaticJoint)

	for i := 0; i < 30; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	if !near(pj.JointSpeed(), 1.5, 1e-6) {
		t.Errorf("joint speed = %v, want 1.5", pj.JointSpeed())
	}
	if pj.JointTranslation() <= 0.0 {
		t.Errorf("motor did not advance the slider, translation = %v", pj.JointTranslation())
	}
}

func TestPrismaticJointFixedRotationBodies(t *testing.T) {
	world := physics.NewWorld(physics.V(0.0, -10.0))
	ground := makeStaticBody(world, 0.0, 0.0)

	// Zero inertia on the dynamic body leaves the angular row singular;
	// the solver must still hold the axis constraint.
	slider := makeDynamicBody(world, 0.0, 0.0, 1.0, 0.0)

	def := physics.DefaultPrismaticJointDef()
	def.Initialize(ground, slider, physics.V(0.0, 0.0), physics.V(1.0, 0.0))
	if _, err := world.CreateJoint(&def); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	for i := 0; i < 60; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	if math.Abs(slider.Position().Y) > 0.02 {
		t.Errorf("slider fell off the axis: y = %v", slider.Position().Y)
	}
}

func TestPrismaticJointSetLimitsValidation(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	slider := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	def := physics.DefaultPrismaticJointDef()
	def.Initialize(ground, slider, physics.V(0.0, 0.0), physics.V(1.0, 0.0))
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}
	pj := j.(*physics.PrismaticJoint)

	if err := pj.SetLimits(3.0, 1.0); err == nil {
		t.Error("expected error for inverted limits")
	}
	if err := pj.SetLimits(-1.0, 3.0); err != nil {
		t.Errorf("SetLimits: %v", err)
	}

	badDef := physics.DefaultPrismaticJointDef()
	badDef.Initialize(ground, slider, physics.V(0.0, 0.0), physics.V(1.0, 0.0))
	badDef.LowerTranslation = 1.0
	badDef.UpperTranslation = -1.0
	if _, err := world.CreateJoint(&badDef); err == nil {
		t.Error("expected error for inverted limits in the def")
	}
}

package physics_test

import (
	"testing"

	physics "github.com/fnuecke/Space-sub011"
)

func TestMotorJointTracksLinearOffset(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	body := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	def := physics.DefaultMotorJointDef()
	def.Initialize(ground, body)
	def.LinearOffset = physics.V(3.0, 1.0)
	def.MaxForce = 1000.0
	def.MaxTorque = 1000.0
	if _, err := world.CreateJoint(&def); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	if !vecNear(body.Position(), physics.V(3.0, 1.0), 0.1) {
		t.Errorf("body settled at %v, want near (3, 1)", body.Position())
	}
}

func TestMotorJointTracksAngularOffset(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	body := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	def := physics.DefaultMotorJointDef()
	def.Initialize(ground, body)
	def.AngularOffset = 0.5
	def.MaxForce = 1000.0
	def.MaxTorque = 1000.0
	if _, err := world.CreateJoint(&def); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	if !near(body.Angle(), 0.5, 0.05) {
		t.Errorf("body angle = %v, want near 0.5", body.Angle())
	}
}

func TestMotorJointForceClamp(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	body := makeDynamicBody(world, 10.0, 0.0, 1.0, 1.0)

	def := physics.DefaultMotorJointDef()
	def.Initialize(ground, body)
	def.LinearOffset = physics.Vec2{}
	def.MaxForce = 0.6
	def.MaxTorque = 0.0
	if _, err := world.CreateJoint(&def); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	h := 1.0 / 60.0
	world.Step(h, 8, 3)

	// The correction impulse is capped at h*maxForce, so the velocity
	// change per step cannot exceed h*maxForce/m.
	if got := body.LinearVelocity().Length(); got > 0.6*h+1e-9 {
		t.Errorf("velocity %v exceeds the force cap", got)
	}
}

func TestMotorJointPositionSolveIsVelocityOnly(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	body := makeDynamicBody(world, 5.0, 0.0, 1.0, 1.0)

	def := physics.DefaultMotorJointDef()
	def.Initialize(ground, body)
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	// The motor joint corrects through velocity bias only; the position
	// pass always reports convergence.
	if !j.SolvePositionConstraints(nil) {
		t.Error("motor joint position solve must be a no-op")
	}
}

func TestMotorJointSetters(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	ground := makeStaticBody(world, 0.0, 0.0)
	body := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	def := physics.DefaultMotorJointDef()
	def.Initialize(ground, body)
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}
	mj := j.(*physics.MotorJoint)

	if err := mj.SetMaxForce(-1.0); err == nil {
		t.Error("expected error for negative max force")
	}
	if err := mj.SetMaxTorque(-1.0); err == nil {
		t.Error("expected error for negative max torque")
	}
	if err := mj.SetCorrectionFactor(1.5); err == nil {
		t.Error("expected error for correction factor above one")
	}
	if err := mj.SetCorrectionFactor(0.5); err != nil {
		t.Errorf("SetCorrectionFactor: %v", err)
	}

	body.SetAwake(false)
	mj.SetLinearOffset(physics.V(1.0, 0.0))
	if !body.IsAwake() {
		t.Error("changing the linear offset must wake the bodies")
	}

	body.SetAwake(false)
	mj.SetAngularOffset(0.3)
	if !body.IsAwake() {
		t.Error("changing the angular offset must wake the bodies")
	}

	badDef := physics.DefaultMotorJointDef()
	badDef.Initialize(ground, body)
	badDef.CorrectionFactor = 2.0
	if _, err := world.CreateJoint(&badDef); err == nil {
		t.Error("expected error for out of range correction factor in the def")
	}
}

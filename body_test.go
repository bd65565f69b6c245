package physics_test

import (
	"testing"

	physics "github.com/fnuecke/Space-sub011"
)

func TestBodyMassData(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	body := makeDynamicBody(world, 0.0, 0.0, 2.0, 3.0)

	if body.Mass() != 2.0 {
		t.Errorf("Mass = %v", body.Mass())
	}

	// Inertia about the origin includes the parallel axis term.
	body.SetMassData(physics.MassData{Mass: 2.0, Center: physics.V(1.0, 0.0), I: 3.0})
	if got := body.Inertia(); got != 3.0+2.0*1.0 {
		t.Errorf("Inertia = %v, want parallel axis shift", got)
	}
	if body.LocalCenter() != physics.V(1.0, 0.0) {
		t.Errorf("LocalCenter = %v", body.LocalCenter())
	}
}

func TestBodyFixedRotation(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})

	bd := physics.DefaultBodyDef()
	bd.Type = physics.DynamicBody
	bd.FixedRotation = true
	bd.Mass = 1.0
	bd.Inertia = 5.0
	body := world.CreateBody(&bd)

	body.SetAngularVelocity(3.0)
	body.ApplyAngularImpulse(10.0, true)
	world.Step(1.0/60.0, 8, 3)

	// Fixed rotation zeroes the inverse inertia, so impulses cannot spin
	// the body. The velocity set directly still integrates.
	if got := body.Angle(); !near(got, 3.0/60.0, 1e-12) {
		t.Errorf("angle = %v", got)
	}

	if !body.IsFixedRotation() {
		t.Error("IsFixedRotation = false")
	}
}

func TestBodyFixedRotationToggleRestoresInertia(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	body := makeDynamicBody(world, 0.0, 0.0, 1.0, 5.0)

	body.SetFixedRotation(true)
	if got := body.Inertia(); got != 0.0 {
		t.Errorf("Inertia while fixed = %v", got)
	}

	body.SetFixedRotation(false)
	if got := body.Inertia(); got != 5.0 {
		t.Errorf("Inertia after clearing fixed rotation = %v, want 5", got)
	}

	body.ApplyAngularImpulse(5.0, true)
	if got := body.AngularVelocity(); !near(got, 1.0, 1e-12) {
		t.Errorf("AngularVelocity = %v, want 1", got)
	}

	// A toggle must survive a mass update made while the flag is set.
	body.SetFixedRotation(true)
	body.SetMassData(physics.MassData{Mass: 2.0, I: 8.0})
	body.SetFixedRotation(false)
	if got := body.Inertia(); got != 8.0 {
		t.Errorf("Inertia after update while fixed = %v, want 8", got)
	}
}

func TestBodyForceAccumulation(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	body := makeDynamicBody(world, 0.0, 0.0, 2.0, 1.0)

	body.ApplyForceToCenter(physics.V(4.0, 0.0), true)
	h := 1.0 / 60.0
	world.Step(h, 8, 3)

	// F/m integrated over one step, then forces are cleared.
	if got := body.LinearVelocity().X; !near(got, 2.0*h, 1e-12) {
		t.Errorf("velocity = %v", got)
	}

	world.Step(h, 8, 3)
	if got := body.LinearVelocity().X; !near(got, 2.0*h, 1e-12) {
		t.Errorf("force was not cleared, velocity = %v", got)
	}
}

func TestBodyForceOffCenterAddsTorque(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	body := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	body.ApplyForce(physics.V(0.0, 1.0), physics.V(1.0, 0.0), true)
	world.Step(1.0/60.0, 8, 3)

	if body.AngularVelocity() <= 0.0 {
		t.Errorf("angular velocity = %v, off-center force should spin the body", body.AngularVelocity())
	}
}

func TestBodyForcesIgnoredWhileAsleep(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	body := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	body.SetAwake(false)
	body.ApplyForceToCenter(physics.V(10.0, 0.0), false)
	world.Step(1.0/60.0, 8, 3)

	if body.LinearVelocity() != (physics.Vec2{}) {
		t.Errorf("sleeping body accelerated to %v", body.LinearVelocity())
	}
}

func TestBodyLocalWorldConversions(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})

	bd := physics.DefaultBodyDef()
	bd.Type = physics.DynamicBody
	bd.Position = physics.V(1.0, 2.0)
	bd.Angle = 0.5 * physics.Pi
	bd.Mass = 1.0
	body := world.CreateBody(&bd)

	p := body.WorldPoint(physics.V(1.0, 0.0))
	if !vecNear(p, physics.V(1.0, 3.0), 1e-12) {
		t.Errorf("WorldPoint = %v", p)
	}
	if got := body.LocalPoint(p); !vecNear(got, physics.V(1.0, 0.0), 1e-12) {
		t.Errorf("LocalPoint = %v", got)
	}
	if got := body.WorldVector(physics.V(1.0, 0.0)); !vecNear(got, physics.V(0.0, 1.0), 1e-12) {
		t.Errorf("WorldVector = %v", got)
	}
}

func TestSetTransformMovesSweep(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	body := makeDynamicBody(world, 0.0, 0.0, 1.0, 1.0)

	body.SetTransform(physics.V(5.0, 6.0), 0.25)

	if body.Position() != physics.V(5.0, 6.0) {
		t.Errorf("Position = %v", body.Position())
	}
	if body.Angle() != 0.25 {
		t.Errorf("Angle = %v", body.Angle())
	}
}

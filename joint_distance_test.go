package physics_test

import (
	"math"
	"testing"

	physics "github.com/fnuecke/Space-sub011"
)

func TestDistanceJointConverges(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	a := makeDynamicBody(world, 0.0, 0.0, 1.0, 0.0)
	b := makeDynamicBody(world, 10.0, 0.0, 1.0, 0.0)

	// The joint is created violated: the bodies are twice the rest length
	// apart. Position correction must pull them together.
	def := physics.DefaultDistanceJointDef()
	def.BodyA = a
	def.BodyB = b
	def.LocalAnchorA = physics.Vec2{}
	def.LocalAnchorB = physics.Vec2{}
	def.Length = 5.0
	if _, err := world.CreateJoint(&def); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	for i := 0; i < 60; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	dist := b.Position().Sub(a.Position()).Length()
	if math.Abs(dist-5.0) > physics.LinearSlop {
		t.Errorf("distance = %v, want 5 within slop", dist)
	}
}

func TestDistanceJointHoldsPendulum(t *testing.T) {
	world := physics.NewWorld(physics.V(0.0, -10.0))
	ground := makeStaticBody(world, 0.0, 0.0)
	bob := makeDynamicBody(world, 5.0, 0.0, 1.0, 0.0)

	def := physics.DefaultDistanceJointDef()
	def.Initialize(ground, bob, ground.Position(), bob.Position())
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	dist := bob.Position().Length()
	if math.Abs(dist-5.0) > 0.02 {
		t.Errorf("pendulum length = %v, want 5", dist)
	}

	dj := j.(*physics.DistanceJoint)
	if dj.Length() != 5.0 {
		t.Errorf("Length = %v", dj.Length())
	}
	if !vecNear(dj.AnchorA(), physics.Vec2{}, 1e-12) {
		t.Errorf("AnchorA = %v", dj.AnchorA())
	}
}

func TestDistanceJointSoftSkipsPositionCorrection(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	a := makeDynamicBody(world, 0.0, 0.0, 1.0, 0.0)
	b := makeDynamicBody(world, 10.0, 0.0, 1.0, 0.0)

	def := physics.DefaultDistanceJointDef()
	def.BodyA = a
	def.BodyB = b
	def.Length = 5.0
	def.FrequencyHz = 4.0
	def.DampingRatio = 0.5
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	// A soft constraint reports convergence without touching positions.
	if !j.SolvePositionConstraints(nil) {
		t.Error("soft distance joint must skip position correction")
	}

	// The spring still pulls the bodies toward the rest length.
	for i := 0; i < 300; i++ {
		world.Step(1.0/60.0, 8, 3)
	}
	dist := b.Position().Sub(a.Position()).Length()
	if math.Abs(dist-5.0) > 0.1 {
		t.Errorf("spring settled at %v, want near 5", dist)
	}
}

func TestDistanceJointSetLength(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	a := makeDynamicBody(world, 0.0, 0.0, 1.0, 0.0)
	b := makeDynamicBody(world, 5.0, 0.0, 1.0, 0.0)

	def := physics.DefaultDistanceJointDef()
	def.Initialize(a, b, a.Position(), b.Position())
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	dj := j.(*physics.DistanceJoint)
	if err := dj.SetLength(0.0); err == nil {
		t.Error("expected error for non-positive length")
	}
	if err := dj.SetLength(3.0); err != nil {
		t.Errorf("SetLength: %v", err)
	}
	if dj.Length() != 3.0 {
		t.Errorf("Length = %v", dj.Length())
	}
}

func TestDistanceJointDefRoundTrip(t *testing.T) {
	world := physics.NewWorld(physics.Vec2{})
	a := makeDynamicBody(world, 0.0, 0.0, 1.0, 0.0)
	b := makeDynamicBody(world, 5.0, 0.0, 1.0, 0.0)

	def := physics.DefaultDistanceJointDef()
	def.Initialize(a, b, a.Position(), b.Position())
	def.FrequencyHz = 3.0
	def.DampingRatio = 0.25
	j, err := world.CreateJoint(&def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	got := j.(*physics.DistanceJoint).Def()
	if got.Length != def.Length || got.FrequencyHz != def.FrequencyHz || got.DampingRatio != def.DampingRatio {
		t.Errorf("Def round trip = %+v", got)
	}
	if got.BodyA != a || got.BodyB != b {
		t.Error("Def lost the body references")
	}
}

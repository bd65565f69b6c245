package physics_test

import (
	"fmt"
	"strings"
	"testing"

	physics "github.com/fnuecke/Space-sub011"
	"github.com/pmezard/go-difflib/difflib"
)

// buildRig assembles a small machine exercising several joint kinds at
// once: a pendulum, a suspended wheel and a distance-linked pair.
func buildRig(world *physics.World) {
	ground := makeStaticBody(world, 0.0, 0.0)

	arm := makeDynamicBody(world, 4.0, 0.0, 1.0, 2.0)
	hinge := physics.RevoluteJointDef{}
	hinge.Initialize(ground, arm, physics.V(0.0, 0.0))
	if _, err := world.CreateJoint(&hinge); err != nil {
		panic(err)
	}

	wheel := makeDynamicBody(world, 0.0, -3.0, 1.0, 0.5)
	suspension := physics.DefaultWheelJointDef()
	suspension.Initialize(ground, wheel, physics.V(0.0, -3.0), physics.V(0.0, 1.0))
	if _, err := world.CreateJoint(&suspension); err != nil {
		panic(err)
	}

	left := makeDynamicBody(world, -3.0, 2.0, 1.0, 0.0)
	right := makeDynamicBody(world, -1.0, 2.0, 1.0, 0.0)
	link := physics.DefaultDistanceJointDef()
	link.Initialize(left, right, left.Position(), right.Position())
	if _, err := world.CreateJoint(&link); err != nil {
		panic(err)
	}
	tether := physics.DefaultRopeJointDef()
	tether.BodyA = ground
	tether.BodyB = left
	tether.LocalAnchorA = physics.Vec2{}
	tether.LocalAnchorB = physics.Vec2{}
	tether.MaxLength = 6.0
	if _, err := world.CreateJoint(&tether); err != nil {
		panic(err)
	}
}

func dumpBodies(sb *strings.Builder, step int, world *physics.World) {
	for _, b := range world.Bodies() {
		p := b.Position()
		fmt.Fprintf(sb, "%d %.15f %.15f %.15f\n", step, p.X, p.Y, b.Angle())
	}
}

// traceRig builds the rig in the given world and records the
// per-step trajectory of every body.
func traceRig(world *physics.World, steps int) string {
	buildRig(world)

	var sb strings.Builder
	for i := 0; i < steps; i++ {
		world.Step(1.0/60.0, 8, 3)
		dumpBodies(&sb, i, world)
	}
	return sb.String()
}

func diffTraces(t *testing.T, name, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "baseline",
		ToFile:   name,
		Context:  2,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Errorf("%s: trajectories diverged:\n%s", name, diff)
}

// The solver must be fully deterministic, and a world's trajectory must
// depend only on its current contents: neither scenes it hosted and
// tore down before, nor other worlds stepping alongside it, may leave a
// trace in the rig's trajectory.
func TestSimulationIsDeterministic(t *testing.T) {
	baseline := traceRig(physics.NewWorld(physics.V(0.0, -10.0)), 240)

	// A world that already hosted and destroyed an unrelated scene.
	// Stale solver state from the destroyed bodies or joints would show
	// up as a diverging trajectory.
	used := physics.NewWorld(physics.V(0.0, -10.0))
	a := makeDynamicBody(used, 1.0, 1.0, 1.0, 1.0)
	b := makeDynamicBody(used, 2.0, 1.0, 1.0, 1.0)
	link := physics.DefaultDistanceJointDef()
	link.Initialize(a, b, a.Position(), b.Position())
	if _, err := used.CreateJoint(&link); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}
	for i := 0; i < 30; i++ {
		used.Step(1.0/60.0, 8, 3)
	}
	used.DestroyBody(a)
	used.DestroyBody(b)
	diffTraces(t, "reused world", baseline, traceRig(used, 240))

	// An independent world stepping in between must not influence the
	// rig either.
	rigWorld := physics.NewWorld(physics.V(0.0, -10.0))
	buildRig(rigWorld)
	other := physics.NewWorld(physics.V(3.0, -1.0))
	makeDynamicBody(other, 0.0, 0.0, 1.0, 1.0)

	var sb strings.Builder
	for i := 0; i < 240; i++ {
		other.Step(1.0/120.0, 4, 2)
		rigWorld.Step(1.0/60.0, 8, 3)
		dumpBodies(&sb, i, rigWorld)
	}
	diffTraces(t, "interleaved worlds", baseline, sb.String())
}

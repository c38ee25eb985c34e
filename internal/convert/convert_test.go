package convert

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/assetsbridge/internal/scene"
	"github.com/vmunix/assetsbridge/internal/task"
)

const tolerance = 1e-6

func assertVecNear(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, msgAndArgs...)
	}
}

func TestPolicy_ToForeign(t *testing.T) {
	p := DefaultPolicy()
	tr := scene.Transform{
		Location: mgl64.Vec3{1, -2, 0.5},
		Rotation: mgl64.Vec3{math.Pi / 2, 0, math.Pi},
		Scale:    mgl64.Vec3{1, 2, 3},
	}

	got := p.ToForeign(tr)

	assert.InDelta(t, 100, got.Location.X, tolerance)
	assert.InDelta(t, -200, got.Location.Y, tolerance)
	assert.InDelta(t, 50, got.Location.Z, tolerance)
	assert.InDelta(t, 90, got.Rotation.X, tolerance)
	assert.InDelta(t, 180, got.Rotation.Z, tolerance)
	assert.Equal(t, task.Vector{X: 1, Y: 2, Z: 3}, got.Scale, "scale passes through by default")
}

func TestPolicy_ScaleInForeignUnits(t *testing.T) {
	tr := scene.Transform{Scale: mgl64.Vec3{1, 1, 2}}

	passthrough := DefaultPolicy()
	assertVecNear(t, mgl64.Vec3{1, 1, 2}, passthrough.Convert(tr, ToForeignUnits).Scale)
	assertVecNear(t, mgl64.Vec3{1, 1, 2}, passthrough.Convert(tr, ToNativeUnits).Scale)

	scaled := DefaultPolicy()
	scaled.ScaleInForeignUnits = true
	assertVecNear(t, mgl64.Vec3{100, 100, 200}, scaled.Convert(tr, ToForeignUnits).Scale)
	assertVecNear(t, mgl64.Vec3{0.01, 0.01, 0.02}, scaled.Convert(tr, ToNativeUnits).Scale)
}

func TestPolicy_ConvertSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	random := func(scale float64) mgl64.Vec3 {
		return mgl64.Vec3{
			(rng.Float64() - 0.5) * scale,
			(rng.Float64() - 0.5) * scale,
			(rng.Float64() - 0.5) * scale,
		}
	}

	policies := map[string]Policy{
		"default":        DefaultPolicy(),
		"scaled":         {UnitScale: 100, ScaleInForeignUnits: true, AxisSigns: mgl64.Vec3{1, 1, 1}},
		"flipped y":      {UnitScale: 100, AxisSigns: mgl64.Vec3{1, -1, 1}},
		"identity units": {UnitScale: 1, AxisSigns: mgl64.Vec3{1, 1, 1}},
		"zero value":     {},
	}

	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				tr := scene.Transform{Location: random(1000), Rotation: random(4 * math.Pi), Scale: random(10)}
				back := p.Convert(p.Convert(tr, ToForeignUnits), ToNativeUnits)
				assertVecNear(t, tr.Location, back.Location)
				assertVecNear(t, tr.Rotation, back.Rotation)
				assertVecNear(t, tr.Scale, back.Scale)

				record := p.ToNative(p.ToForeign(tr))
				assertVecNear(t, tr.Location, record.Location)
			}
		})
	}
}

func TestPolicy_AxisSigns(t *testing.T) {
	p := Policy{UnitScale: 100, AxisSigns: mgl64.Vec3{1, -1, 1}}
	tr := scene.Transform{Location: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.Vec3{0, 0, math.Pi / 2}, Scale: mgl64.Vec3{1, 1, 1}}

	got := p.ToForeign(tr)
	assert.InDelta(t, -100, got.Location.Y, tolerance)
	assert.InDelta(t, 90, got.Rotation.Z, tolerance)
}

func TestPolicy_ImportTransformAddsOffset(t *testing.T) {
	p := DefaultPolicy()
	p.RotationOffset = mgl64.Vec3{0, 0, 90}
	r := task.TransformRecord{
		Location: task.Vector{X: 100},
		Rotation: task.Vector{Z: 90},
		Scale:    task.Vector{X: 1, Y: 1, Z: 1},
	}

	got := p.ImportTransform(r)
	assertVecNear(t, mgl64.Vec3{1, 0, 0}, got.Location)
	assertVecNear(t, mgl64.Vec3{0, 0, math.Pi}, got.Rotation)

	plain := p.ToNative(r)
	assertVecNear(t, mgl64.Vec3{0, 0, math.Pi / 2}, plain.Rotation, "offset only applies on import")
}

func TestPolicies_For(t *testing.T) {
	custom := DefaultPolicy()
	custom.ScaleInForeignUnits = true
	ps := Policies{task.OperationUnrealExport: custom}

	require.True(t, ps.For(task.OperationUnrealExport).ScaleInForeignUnits)
	assert.Equal(t, DefaultPolicy(), ps.For(task.OperationBlenderExport))
	assert.Len(t, DefaultPolicies(), 2)
}

func TestDefaultPolicies_EngineScale(t *testing.T) {
	r := task.TransformRecord{
		Location: task.Vector{X: 100},
		Scale:    task.Vector{X: 100, Y: 100, Z: 100},
	}
	ps := DefaultPolicies()

	unreal := ps.For(task.OperationUnrealExport).ImportTransform(r)
	assertVecNear(t, mgl64.Vec3{1, 0, 0}, unreal.Location)
	assertVecNear(t, mgl64.Vec3{1, 1, 1}, unreal.Scale, "engine documents carry scale in engine units")

	blender := ps.For(task.OperationBlenderExport).ImportTransform(r)
	assertVecNear(t, mgl64.Vec3{100, 100, 100}, blender.Scale, "own documents pass scale through")
}

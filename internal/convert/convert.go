// Package convert maps transforms between host units (metres, radians) and engine
// units (centimetres, degrees).
package convert

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vmunix/assetsbridge/internal/scene"
	"github.com/vmunix/assetsbridge/internal/task"
)

// Direction selects which way a transform is converted.
type Direction int

const (
	ToForeignUnits Direction = iota
	ToNativeUnits
)

func (d Direction) String() string {
	if d == ToNativeUnits {
		return "native"
	}
	return "foreign"
}

// DefaultUnitScale is engine units per host unit.
const DefaultUnitScale = 100.0

// Policy describes how one producer lays out transforms in a task document.
type Policy struct {
	// UnitScale is foreign units per native unit.
	UnitScale float64
	// ScaleInForeignUnits multiplies scale by UnitScale as well as location.
	ScaleInForeignUnits bool
	// AxisSigns flips location and rotation components between handedness conventions.
	AxisSigns mgl64.Vec3
	// RotationOffset is added, in degrees, when importing documents of this producer.
	RotationOffset mgl64.Vec3
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		UnitScale: DefaultUnitScale,
		AxisSigns: mgl64.Vec3{1, 1, 1},
	}
}

// Convert maps t in the given direction. Rotation is radians on the native side and
// degrees on the foreign side. Convert(Convert(t, ToForeignUnits), ToNativeUnits) == t.
func (p Policy) Convert(t scene.Transform, dir Direction) scene.Transform {
	f := p.unitScale()
	signs := p.signs()

	out := scene.Transform{Scale: t.Scale}
	switch dir {
	case ToForeignUnits:
		out.Location = mulEach(t.Location, signs).Mul(f)
		out.Rotation = mapEach(mulEach(t.Rotation, signs), mgl64.RadToDeg)
		if p.ScaleInForeignUnits {
			out.Scale = t.Scale.Mul(f)
		}
	case ToNativeUnits:
		out.Location = mulEach(t.Location.Mul(1/f), signs)
		out.Rotation = mulEach(mapEach(t.Rotation, mgl64.DegToRad), signs)
		if p.ScaleInForeignUnits {
			out.Scale = t.Scale.Mul(1 / f)
		}
	}
	return out
}

// ToForeign converts a host transform to its task file record.
func (p Policy) ToForeign(t scene.Transform) task.TransformRecord {
	c := p.Convert(t, ToForeignUnits)
	return task.TransformRecord{
		Location: task.VectorOf(c.Location),
		Rotation: task.VectorOf(c.Rotation),
		Scale:    task.VectorOf(c.Scale),
	}
}

// ToNative converts a task file record to a host transform.
func (p Policy) ToNative(r task.TransformRecord) scene.Transform {
	return p.Convert(scene.Transform{
		Location: r.Location.Vec3(),
		Rotation: r.Rotation.Vec3(),
		Scale:    r.Scale.Vec3(),
	}, ToNativeUnits)
}

// ImportTransform converts a record for import, adding the producer's rotation offset.
func (p Policy) ImportTransform(r task.TransformRecord) scene.Transform {
	withOffset := r
	withOffset.Rotation = task.VectorOf(r.Rotation.Vec3().Add(p.RotationOffset))
	return p.ToNative(withOffset)
}

func (p Policy) unitScale() float64 {
	if p.UnitScale == 0 {
		return DefaultUnitScale
	}
	return p.UnitScale
}

func (p Policy) signs() mgl64.Vec3 {
	if p.AxisSigns == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return p.AxisSigns
}

func mulEach(v, w mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0] * w[0], v[1] * w[1], v[2] * w[2]}
}

func mapEach(v mgl64.Vec3, fn func(float64) float64) mgl64.Vec3 {
	return mgl64.Vec3{fn(v[0]), fn(v[1]), fn(v[2])}
}

// Policies maps a document operation to its conversion policy.
type Policies map[task.Operation]Policy

// DefaultPolicies returns the default policy for every known operation.
// Engine-written documents carry scale in engine units as well.
func DefaultPolicies() Policies {
	unreal := DefaultPolicy()
	unreal.ScaleInForeignUnits = true
	return Policies{
		task.OperationBlenderExport: DefaultPolicy(),
		task.OperationUnrealExport:  unreal,
	}
}

// For returns the policy for op, falling back to DefaultPolicy.
func (ps Policies) For(op task.Operation) Policy {
	if p, ok := ps[op]; ok {
		return p
	}
	return DefaultPolicy()
}

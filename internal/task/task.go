// Package task defines the task document exchanged between the editor and the engine
// and its on-disk JSON store.
package task

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Operation tags which system produced a task document.
type Operation string

const (
	OperationBlenderExport Operation = "BlenderExport"
	OperationUnrealExport  Operation = "UnrealExport"
)

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	return o == OperationBlenderExport || o == OperationUnrealExport
}

// StringType classifies an export unit on the engine side.
type StringType string

const (
	StaticMesh   StringType = "StaticMesh"
	SkeletalMesh StringType = "SkeletalMesh"
)

// Valid reports whether s is a known asset type.
func (s StringType) Valid() bool {
	return s == StaticMesh || s == SkeletalMesh
}

// Vector is an {x,y,z} triple as written in the task file.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec3 converts v for math.
func (v Vector) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// VectorOf converts a math vector to its file form.
func VectorOf(v mgl64.Vec3) Vector {
	return Vector{X: v[0], Y: v[1], Z: v[2]}
}

// TransformRecord is a rigid transform in engine units. Rotation is in degrees.
type TransformRecord struct {
	Location Vector `json:"location"`
	Rotation Vector `json:"rotation"`
	Scale    Vector `json:"scale"`
}

// IdentityTransform returns the zero translation, zero rotation, unit scale record.
func IdentityTransform() TransformRecord {
	return TransformRecord{Scale: Vector{X: 1, Y: 1, Z: 1}}
}

// UnmarshalJSON accepts the current keys and the legacy "translation"/"scale3D" keys.
// Missing vectors keep their identity values.
func (t *TransformRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Location    *Vector `json:"location"`
		Translation *Vector `json:"translation"`
		Rotation    *Vector `json:"rotation"`
		Scale       *Vector `json:"scale"`
		Scale3D     *Vector `json:"scale3D"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("worldData: %w", err)
	}

	out := IdentityTransform()
	switch {
	case raw.Location != nil:
		out.Location = *raw.Location
	case raw.Translation != nil:
		out.Location = *raw.Translation
	}
	if raw.Rotation != nil {
		out.Rotation = *raw.Rotation
	}
	switch {
	case raw.Scale != nil:
		out.Scale = *raw.Scale
	case raw.Scale3D != nil:
		out.Scale = *raw.Scale3D
	}
	*t = out
	return nil
}

// Material binds a mesh material slot to an engine material asset.
type Material struct {
	Name         string `json:"name"`
	Index        int    `json:"idx"`
	InternalPath string `json:"internalPath"`
}

// DefaultMaterial is bound when an object carries no material information.
var DefaultMaterial = Material{
	Name:         "WorldGridMaterial",
	Index:        0,
	InternalPath: "/Engine/EngineMaterials/WorldGridMaterial",
}

// ExportUnit describes one exported mesh or rig and where it lives on both sides.
type ExportUnit struct {
	ShortName          string          `json:"shortName"`
	Model              string          `json:"model"`
	ObjectID           string          `json:"objectId"`
	InternalPath       string          `json:"internalPath"`
	RelativeExportPath string          `json:"relativeExportPath"`
	ExportLocation     string          `json:"exportLocation"`
	StringType         StringType      `json:"stringType"`
	ObjectMaterials    []Material      `json:"objectMaterials"`
	WorldData          TransformRecord `json:"worldData"`
}

// UnmarshalJSON fills optional fields with their defaults before decoding.
func (u *ExportUnit) UnmarshalJSON(data []byte) error {
	type plain ExportUnit
	p := plain{WorldData: IdentityTransform()}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = ExportUnit(p)
	return nil
}

// Document is the full task file.
type Document struct {
	Operation Operation    `json:"operation"`
	Objects   []ExportUnit `json:"objects"`
}

// Find returns the unit with the given short name.
func (d *Document) Find(shortName string) (ExportUnit, bool) {
	for _, u := range d.Objects {
		if u.ShortName == shortName {
			return u, true
		}
	}
	return ExportUnit{}, false
}

// Package scene defines the host scene-graph port consumed by the bridge and an
// in-memory host that implements it.
package scene

import (
	"regexp"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the host object type.
type Kind string

const (
	KindMesh     Kind = "MESH"
	KindEmpty    Kind = "EMPTY"
	KindArmature Kind = "ARMATURE"
	KindCamera   Kind = "CAMERA"
	KindLight    Kind = "LIGHT"
	KindCurve    Kind = "CURVE"
)

// ModifierArmature marks a mesh deformed by an armature.
const ModifierArmature = "ARMATURE"

// Transform is an object's local transform in host units.
// Rotation is an XYZ Euler angle triple in radians.
type Transform struct {
	Location mgl64.Vec3 `json:"location"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Scale    mgl64.Vec3 `json:"scale"`
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// Display holds viewport and render flags.
type Display struct {
	HideRender  bool       `json:"hideRender"`
	ShowShadows bool       `json:"showShadows"`
	Wireframe   bool       `json:"wireframe"`
	Color       [4]float64 `json:"color"`
}

// DefaultDisplay is the display state of a freshly created object.
func DefaultDisplay() Display {
	return Display{ShowShadows: true, Color: [4]float64{1, 1, 1, 1}}
}

// Object is a read-only view of a scene object.
type Object struct {
	Name        string
	Kind        Kind
	Parent      string
	Children    []string
	Modifiers   []string
	Collections []string
}

// Graph is the narrow contract the bridge uses to read and mutate the host scene.
// Names are handles: collection names and object names are each unique in the host.
// Implementations are not required to be safe for concurrent mutation.
type Graph interface {
	// RootCollection is the scene's master collection.
	RootCollection() string
	// DefaultCollection is the host's literal top-level default container.
	DefaultCollection() string

	HasCollection(name string) bool
	ChildCollections(name string) ([]string, error)
	// ParentCollection returns the collection that lists name as a child.
	ParentCollection(name string) (string, bool)
	// CreateCollection adds a child collection and returns the name the host assigned.
	CreateCollection(parent, name string) (string, error)
	RemoveCollection(name string) error
	CollectionObjects(name string) ([]string, error)
	Link(object, collection string) error
	Unlink(object, collection string) error

	Object(name string) (Object, error)
	// Rename renames an object and returns the name the host assigned.
	Rename(name, newName string) (string, error)
	Transform(name string) (Transform, error)
	SetTransform(name string, t Transform) error
	Metadata(name, key string) (string, bool)
	SetMetadata(name, key, value string) error
	RemoveObject(name string) error
	SetDisplay(name string, d Display) error
	ConvertTrisToQuads(name string) error

	// Selected returns the objects currently selected in the host UI.
	Selected() []string
}

// hostSuffix matches the ".001" style suffix the host appends to resolve name clashes.
var hostSuffix = regexp.MustCompile(`\.\d{3,}$`)

// BaseName strips a host-assigned numeric suffix.
func BaseName(name string) string {
	return hostSuffix.ReplaceAllString(name, "")
}

package scene

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SM_Crate", "SM_Crate"},
		{"SM_Crate.001", "SM_Crate"},
		{"SM_Crate.1234", "SM_Crate"},
		{"SM_Crate.01", "SM_Crate.01"},
		{"v1.2", "v1.2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseName(tt.in))
		})
	}
}

func TestMemory_NewHasDefaultContainer(t *testing.T) {
	m := NewMemory()

	children, err := m.ChildCollections(m.RootCollection())
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultContainerName}, children)

	parent, ok := m.ParentCollection(DefaultContainerName)
	assert.True(t, ok)
	assert.Equal(t, DefaultRootName, parent)

	_, ok = m.ParentCollection(m.RootCollection())
	assert.False(t, ok)
}

func TestMemory_CreateCollectionSuffixesClashes(t *testing.T) {
	m := NewMemory()

	first, err := m.CreateCollection(m.DefaultCollection(), "Props")
	require.NoError(t, err)
	second, err := m.CreateCollection(m.RootCollection(), "Props")
	require.NoError(t, err)

	assert.Equal(t, "Props", first)
	assert.Equal(t, "Props.001", second)

	_, err = m.CreateCollection("Missing", "X")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_AddObjectAndRename(t *testing.T) {
	m := NewMemory()
	parent, err := m.AddObject("Rig", KindEmpty, "", m.DefaultCollection())
	require.NoError(t, err)
	child, err := m.AddObject("Body", KindMesh, parent, m.DefaultCollection())
	require.NoError(t, err)
	m.Select(parent)

	renamed, err := m.Rename(parent, "SKM_Rig")
	require.NoError(t, err)
	assert.Equal(t, "SKM_Rig", renamed)

	obj, err := m.Object(child)
	require.NoError(t, err)
	assert.Equal(t, "SKM_Rig", obj.Parent)
	assert.Equal(t, []string{"SKM_Rig"}, m.Selected())

	objs, err := m.CollectionObjects(m.DefaultCollection())
	require.NoError(t, err)
	assert.Equal(t, []string{"SKM_Rig", "Body"}, objs)

	// Renaming onto a taken name gets a suffix.
	got, err := m.Rename(child, "SKM_Rig")
	require.NoError(t, err)
	assert.Equal(t, "SKM_Rig.001", got)
}

func TestMemory_RemoveObjectOrphansChildren(t *testing.T) {
	m := NewMemory()
	parent, _ := m.AddObject("Parent", KindEmpty, "", m.DefaultCollection())
	child, _ := m.AddObject("Child", KindMesh, parent, m.DefaultCollection())

	require.NoError(t, m.RemoveObject(parent))

	_, err := m.Object(parent)
	assert.ErrorIs(t, err, ErrNotFound)
	obj, err := m.Object(child)
	require.NoError(t, err)
	assert.Empty(t, obj.Parent)
	assert.Equal(t, []string{child}, m.Objects())
}

func TestMemory_RemoveCollectionMovesChildrenUp(t *testing.T) {
	m := NewMemory()
	props, _ := m.CreateCollection(m.DefaultCollection(), "Props")
	crates, _ := m.CreateCollection(props, "Crates")
	obj, _ := m.AddObject("SM_Crate", KindMesh, "", props)

	require.NoError(t, m.RemoveCollection(props))

	assert.False(t, m.HasCollection(props))
	parent, ok := m.ParentCollection(crates)
	assert.True(t, ok)
	assert.Equal(t, m.DefaultCollection(), parent)
	o, err := m.Object(obj)
	require.NoError(t, err)
	assert.Empty(t, o.Collections)

	assert.ErrorIs(t, m.RemoveCollection(m.RootCollection()), ErrRootCollection)
}

func TestMemory_LinkUnlink(t *testing.T) {
	m := NewMemory()
	props, _ := m.CreateCollection(m.DefaultCollection(), "Props")
	obj, _ := m.AddObject("SM_Crate", KindMesh, "", m.RootCollection())

	require.NoError(t, m.Link(obj, props))
	require.NoError(t, m.Link(obj, props))
	o, _ := m.Object(obj)
	assert.Equal(t, []string{m.RootCollection(), props}, o.Collections)

	require.NoError(t, m.Unlink(obj, m.RootCollection()))
	o, _ = m.Object(obj)
	assert.Equal(t, []string{props}, o.Collections)

	assert.ErrorIs(t, m.Link("ghost", props), ErrNotFound)
}

func TestMemory_SnapshotRoundTrip(t *testing.T) {
	m := NewMemory()
	props, _ := m.CreateCollection(m.DefaultCollection(), "Props")
	obj, _ := m.AddObject("SM_Crate", KindMesh, "", props)
	require.NoError(t, m.AddModifier(obj, ModifierArmature))
	require.NoError(t, m.SetMetadata(obj, "AB_model", "/Game/x"))
	tr := Transform{Location: mgl64.Vec3{1, 2, 3}, Rotation: mgl64.Vec3{0, 0, 1}, Scale: mgl64.Vec3{2, 2, 2}}
	require.NoError(t, m.SetTransform(obj, tr))
	m.Select(obj)

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, m.Save(path))

	loaded, err := LoadMemory(path)
	require.NoError(t, err)

	got, err := loaded.Transform(obj)
	require.NoError(t, err)
	assert.Equal(t, tr, got)
	v, ok := loaded.Metadata(obj, "AB_model")
	assert.True(t, ok)
	assert.Equal(t, "/Game/x", v)
	o, err := loaded.Object(obj)
	require.NoError(t, err)
	assert.Contains(t, o.Modifiers, ModifierArmature)
	assert.Equal(t, []string{props}, o.Collections)
	assert.Equal(t, []string{obj}, loaded.Selected())
	parent, ok := loaded.ParentCollection(props)
	assert.True(t, ok)
	assert.Equal(t, DefaultContainerName, parent)
}

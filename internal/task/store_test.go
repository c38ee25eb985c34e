package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AssetsBridge.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeFile(t, `{
  "operation": "UnrealExport",
  "objects": [
    {
      "shortName": "SM_CrateA",
      "model": "/Script/Engine.StaticMesh'/Game/Props/SM_CrateA.SM_CrateA",
      "internalPath": "Assets/Props",
      "exportLocation": "/tmp/Props/SM_CrateA.fbx",
      "stringType": "StaticMesh",
      "objectMaterials": [{"name": "M_Wood", "idx": 1, "internalPath": "/Game/M_Wood"}],
      "worldData": {
        "location": {"x": 100, "y": 200, "z": 300},
        "rotation": {"x": 0, "y": 0, "z": 90},
        "scale": {"x": 2, "y": 2, "z": 2}
      }
    }
  ]
}`)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, OperationUnrealExport, doc.Operation)
	require.Len(t, doc.Objects, 1)

	u := doc.Objects[0]
	assert.Equal(t, "SM_CrateA", u.ShortName)
	assert.Equal(t, StaticMesh, u.StringType)
	assert.Equal(t, "", u.ObjectID)
	assert.Equal(t, Vector{X: 100, Y: 200, Z: 300}, u.WorldData.Location)
	assert.Equal(t, Vector{Z: 90}, u.WorldData.Rotation)
	assert.Equal(t, Vector{X: 2, Y: 2, Z: 2}, u.WorldData.Scale)
	require.Len(t, u.ObjectMaterials, 1)
	assert.Equal(t, 1, u.ObjectMaterials[0].Index)
}

func TestLoad_DefaultsMissingWorldData(t *testing.T) {
	path := writeFile(t, `{"operation": "BlenderExport", "objects": [
		{"shortName": "SM_A", "stringType": "StaticMesh", "exportLocation": "/tmp/a.fbx"}
	]}`)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IdentityTransform(), doc.Objects[0].WorldData)
}

func TestLoad_LegacyKeys(t *testing.T) {
	path := writeFile(t, `{"operation": "UnrealExport", "objects": [
		{"shortName": "SM_A", "stringType": "StaticMesh", "exportLocation": "/tmp/a.fbx",
		 "worldData": {"translation": {"x": 1, "y": 2, "z": 3}, "scale3D": {"x": 4, "y": 5, "z": 6}}}
	]}`)

	doc, err := Load(path)
	require.NoError(t, err)
	wd := doc.Objects[0].WorldData
	assert.Equal(t, Vector{X: 1, Y: 2, Z: 3}, wd.Location)
	assert.Equal(t, Vector{X: 4, Y: 5, Z: 6}, wd.Scale)
	assert.Equal(t, Vector{}, wd.Rotation)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
		field   string
	}{
		{"empty file", "   \n", ErrMissingOrEmpty, ""},
		{"invalid json", "{not json", ErrMalformed, "invalid JSON"},
		{"missing operation", `{"objects": []}`, ErrMalformed, "operation"},
		{"objects not array", `{"operation": "UnrealExport", "objects": {}}`, ErrMalformed, "objects"},
		{"unknown operation", `{"operation": "MayaExport", "objects": []}`, ErrMalformed, "MayaExport"},
		{
			"missing shortName",
			`{"operation": "UnrealExport", "objects": [{"stringType": "StaticMesh", "exportLocation": "/a"}]}`,
			ErrMalformed, "objects[0].shortName",
		},
		{
			"missing exportLocation",
			`{"operation": "UnrealExport", "objects": [{"shortName": "A", "stringType": "StaticMesh"}]}`,
			ErrMalformed, "exportLocation",
		},
		{
			"bad stringType",
			`{"operation": "UnrealExport", "objects": [{"shortName": "A", "stringType": "Texture", "exportLocation": "/a"}]}`,
			ErrMalformed, "Texture",
		},
		{
			"duplicate shortName",
			`{"operation": "UnrealExport", "objects": [
				{"shortName": "A", "stringType": "StaticMesh", "exportLocation": "/a"},
				{"shortName": "A", "stringType": "StaticMesh", "exportLocation": "/b"}]}`,
			ErrMalformed, "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			if tt.field != "" {
				assert.Contains(t, err.Error(), tt.field)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrMissingOrEmpty)
}

func TestSave_RoundTripPreservesOrder(t *testing.T) {
	doc := &Document{
		Operation: OperationBlenderExport,
		Objects: []ExportUnit{
			{ShortName: "SM_Zed", StringType: StaticMesh, ExportLocation: "/x/SM_Zed.fbx", WorldData: IdentityTransform()},
			{ShortName: "SKM_Alpha", StringType: SkeletalMesh, ExportLocation: "/x/SKM_Alpha.fbx", WorldData: IdentityTransform()},
			{ShortName: "SM_Mid", StringType: StaticMesh, ExportLocation: "/x/SM_Mid.fbx", WorldData: IdentityTransform(),
				ObjectMaterials: []Material{DefaultMaterial}},
		},
	}
	path := filepath.Join(t.TempDir(), "nested", "AssetsBridge.json")
	require.NoError(t, Save(path, doc))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Objects, 3)
	for i := range doc.Objects {
		assert.Equal(t, doc.Objects[i].ShortName, loaded.Objects[i].ShortName)
	}
	assert.Equal(t, []Material{}, loaded.Objects[0].ObjectMaterials)
	assert.Equal(t, doc.Objects[2].ObjectMaterials, loaded.Objects[2].ObjectMaterials)
}

func TestSave_StableFieldOrder(t *testing.T) {
	doc := &Document{
		Operation: OperationBlenderExport,
		Objects:   []ExportUnit{{ShortName: "SM_A", StringType: StaticMesh, ExportLocation: "/a.fbx", WorldData: IdentityTransform()}},
	}
	path := filepath.Join(t.TempDir(), "task.json")
	require.NoError(t, Save(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	order := []string{`"shortName"`, `"model"`, `"objectId"`, `"internalPath"`, `"relativeExportPath"`,
		`"exportLocation"`, `"stringType"`, `"objectMaterials"`, `"worldData"`, `"location"`, `"rotation"`, `"scale"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.GreaterOrEqual(t, idx, 0, "missing %s", key)
		assert.Greater(t, idx, last, "%s out of order", key)
		last = idx
	}
	assert.Contains(t, text, "\n    \"operation\"", "four-space indentation")
}

func TestSave_EmptyObjectsWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.json")
	require.NoError(t, Save(path, &Document{Operation: OperationBlenderExport}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"objects": []`)
}

package codec

import (
	"maps"

	"github.com/vmunix/assetsbridge/internal/task"
)

// Options is an opaque option bag passed through to the codec.
type Options map[string]any

// Bool returns a boolean option, false when absent.
func (o Options) Bool(key string) bool {
	v, _ := o[key].(bool)
	return v
}

// String returns a string option, "" when absent.
func (o Options) String(key string) string {
	v, _ := o[key].(string)
	return v
}

var exportBase = Options{
	"use_selection":            true,
	"use_mesh_modifiers":       true,
	"use_metadata":             true,
	"mesh_smooth_type":         "FACE",
	"use_subsurf":              false,
	"use_mesh_edges":           false,
	"use_tspace":               true,
	"use_armature_deform_only": false,
	"add_leaf_bones":           false,
	"global_scale":             1.0,
	"path_mode":                "AUTO",
	"bake_space_transform":     false,
	"use_custom_props":         true,
	"axis_forward":             "Y",
	"axis_up":                  "Z",
}

// ExportOptions returns the option bag for exporting a unit of the given type.
func ExportOptions(st task.StringType) Options {
	opts := maps.Clone(exportBase)
	if st == task.SkeletalMesh {
		opts["object_types"] = []string{"ARMATURE", "MESH", "EMPTY"}
		opts["bake_anim"] = false
	} else {
		opts["object_types"] = []string{"MESH", "EMPTY"}
	}
	return opts
}

// ImportOptions returns the option bag for importing a unit produced by op.
// Engine-produced files face +X, files written by the editor face -X.
func ImportOptions(st task.StringType, op task.Operation) Options {
	forward := "-X"
	if op == task.OperationUnrealExport {
		forward = "X"
	}
	opts := Options{
		"use_custom_normals": true,
		"axis_forward":       forward,
		"axis_up":            "Z",
	}
	if st == task.SkeletalMesh {
		opts["use_custom_props"] = true
		opts["use_image_search"] = true
		opts["use_anim"] = true
		if op == task.OperationUnrealExport {
			opts["use_anim_action_all"] = true
			opts["use_default_take"] = true
			opts["use_anim_optimize"] = true
			opts["anim_optimize_precision"] = 6.0
			opts["path_mode"] = "AUTO"
		}
	}
	return opts
}

package codec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/vmunix/assetsbridge/internal/scene"
)

// snapshotVersion is bumped when the on-disk layout changes.
const snapshotVersion = 1

type snapshotFile struct {
	Version int              `json:"version"`
	Options Options          `json:"options,omitempty"`
	Objects []snapshotObject `json:"objects"`
}

type snapshotObject struct {
	Name      string            `json:"name"`
	Kind      scene.Kind        `json:"kind"`
	Parent    string            `json:"parent,omitempty"`
	Modifiers []string          `json:"modifiers,omitempty"`
	Transform scene.Transform   `json:"transform"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Snapshot is a MeshCodec that stores object subtrees of an in-memory scene as JSON.
// It stands in for a binary interchange format when the bridge runs outside the editor.
type Snapshot struct {
	scene *scene.Memory
	log   *slog.Logger
}

var _ MeshCodec = (*Snapshot)(nil)

// NewSnapshot creates a snapshot codec over s.
func NewSnapshot(s *scene.Memory, log *slog.Logger) *Snapshot {
	if log == nil {
		log = slog.Default()
	}
	return &Snapshot{scene: s, log: log}
}

// Export writes the selected objects to path. Parent links to objects outside the
// selection are dropped.
func (c *Snapshot) Export(ctx context.Context, path string, selection []string, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(selection) == 0 {
		return fmt.Errorf("%w: export %s: empty selection", ErrMeshCodec, path)
	}

	file := snapshotFile{Version: snapshotVersion, Options: opts}
	for _, name := range selection {
		obj, err := c.scene.Object(name)
		if err != nil {
			return fmt.Errorf("%w: export %s: %w", ErrMeshCodec, path, err)
		}
		tr, err := c.scene.Transform(name)
		if err != nil {
			return fmt.Errorf("%w: export %s: %w", ErrMeshCodec, path, err)
		}
		parent := obj.Parent
		if !slices.Contains(selection, parent) {
			parent = ""
		}
		entry := snapshotObject{
			Name:      obj.Name,
			Kind:      obj.Kind,
			Parent:    parent,
			Modifiers: obj.Modifiers,
			Transform: tr,
		}
		if opts.Bool("use_custom_props") || opts.Bool("use_metadata") {
			entry.Metadata = c.scene.AllMetadata(name)
		}
		file.Objects = append(file.Objects, entry)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrMeshCodec, path, err)
	}
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrMeshCodec, err)
	}
	c.log.Debug("wrote mesh snapshot", "path", path, "objects", len(file.Objects))
	return nil
}

// Import reads path and creates its objects in the scene's root collection.
// Parents are created before their children.
func (c *Snapshot) Import(ctx context.Context, path string, opts Options) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMeshCodec, err)
	}
	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrMeshCodec, path, err)
	}
	if file.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", ErrMeshCodec, path, file.Version)
	}

	ordered, err := parentsFirst(file.Objects)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMeshCodec, path, err)
	}

	root := c.scene.RootCollection()
	assigned := make(map[string]string, len(ordered))
	created := make([]string, 0, len(ordered))
	for _, o := range ordered {
		name, err := c.scene.AddObject(o.Name, o.Kind, assigned[o.Parent], root)
		if err != nil {
			return created, fmt.Errorf("%w: create %q: %w", ErrMeshCodec, o.Name, err)
		}
		assigned[o.Name] = name
		created = append(created, name)

		if err := c.scene.SetTransform(name, o.Transform); err != nil {
			return created, fmt.Errorf("%w: %w", ErrMeshCodec, err)
		}
		for _, mod := range o.Modifiers {
			if err := c.scene.AddModifier(name, mod); err != nil {
				return created, fmt.Errorf("%w: %w", ErrMeshCodec, err)
			}
		}
		for k, v := range o.Metadata {
			if err := c.scene.SetMetadata(name, k, v); err != nil {
				return created, fmt.Errorf("%w: %w", ErrMeshCodec, err)
			}
		}
	}
	c.log.Debug("read mesh snapshot", "path", path, "objects", len(created), "axis_forward", opts.String("axis_forward"))
	return created, nil
}

var errParentCycle = errors.New("object parents form a cycle")

func parentsFirst(objects []snapshotObject) ([]snapshotObject, error) {
	known := make(map[string]bool, len(objects))
	for _, o := range objects {
		known[o.Name] = true
	}
	done := make(map[string]bool, len(objects))
	out := make([]snapshotObject, 0, len(objects))
	for len(out) < len(objects) {
		progressed := false
		for _, o := range objects {
			if done[o.Name] {
				continue
			}
			if o.Parent != "" && known[o.Parent] && !done[o.Parent] {
				continue
			}
			if !known[o.Parent] {
				o.Parent = ""
			}
			done[o.Name] = true
			out = append(out, o)
			progressed = true
		}
		if !progressed {
			return nil, errParentCycle
		}
	}
	return out, nil
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mesh-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

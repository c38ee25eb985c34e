// Package exporter turns selected scene hierarchies into task document units.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vmunix/assetsbridge/internal/codec"
	"github.com/vmunix/assetsbridge/internal/convert"
	"github.com/vmunix/assetsbridge/internal/hierarchy"
	"github.com/vmunix/assetsbridge/internal/scene"
	"github.com/vmunix/assetsbridge/internal/task"
)

// DefaultExtension is the mesh file extension.
const DefaultExtension = "fbx"

// Config for the builder.
type Config struct {
	TaskDir        string // directory of the task file; root of every export location
	Extension      string
	StaticPrefix   string
	SkeletalPrefix string
	ModelTemplate  string
}

// Builder derives export units from scene objects and writes their mesh files.
type Builder struct {
	graph    scene.Graph
	resolver *hierarchy.Resolver
	codec    codec.MeshCodec
	policy   convert.Policy
	namer    *Namer
	taskDir  string
	ext      string
	log      *slog.Logger
}

// New creates a builder.
func New(graph scene.Graph, resolver *hierarchy.Resolver, mc codec.MeshCodec, policy convert.Policy, cfg Config, log *slog.Logger) *Builder {
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	return &Builder{
		graph:    graph,
		resolver: resolver,
		codec:    mc,
		policy:   policy,
		namer:    NewNamer(cfg.ModelTemplate, cfg.StaticPrefix, cfg.SkeletalPrefix),
		taskDir:  filepath.Clean(cfg.TaskDir),
		ext:      cfg.Extension,
		log:      log,
	}
}

// Failure records a root that produced no unit.
type Failure struct {
	Object string
	Err    error
}

// Result is the outcome of a build.
type Result struct {
	Units    []task.ExportUnit
	Failures []Failure
}

// Build exports each root in order. A failing root is recorded and skipped.
// Cancellation is checked between roots; the units built so far are returned with ctx.Err().
func (b *Builder) Build(ctx context.Context, roots []string) (*Result, error) {
	result := &Result{Units: make([]task.ExportUnit, 0, len(roots))}
	seen := make(map[string]bool, len(roots))

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		unit, err := b.buildUnit(ctx, root, seen)
		if err != nil {
			b.log.Warn("export unit failed", "object", root, "error", err)
			result.Failures = append(result.Failures, Failure{Object: root, Err: err})
			continue
		}
		seen[unit.ShortName] = true
		result.Units = append(result.Units, unit)
		b.log.Info("export unit built", "unit", unit.ShortName, "type", unit.StringType, "path", unit.InternalPath)
	}
	return result, nil
}

func (b *Builder) buildUnit(ctx context.Context, root string, seen map[string]bool) (task.ExportUnit, error) {
	tree, err := b.snapshot(root)
	if err != nil {
		return task.ExportUnit{}, err
	}

	var direct bool
	switch tree.Kind {
	case scene.KindMesh:
		direct = true
	case scene.KindEmpty, scene.KindArmature:
	default:
		return task.ExportUnit{}, fmt.Errorf("%w: %q is %s", ErrUnsupportedKind, root, tree.Kind)
	}

	st := task.StaticMesh
	if (direct && tree.HasModifier(scene.ModifierArmature)) || (!direct && tree.Skeletal()) {
		st = task.SkeletalMesh
	}

	// Checked before renaming so a rejected root keeps its name.
	target := b.namer.Prefixed(tree.Name, st)
	if seen[target] {
		return task.ExportUnit{}, fmt.Errorf("%w: %q", ErrDuplicateShortName, target)
	}
	name, err := b.graph.Rename(root, target)
	if err != nil {
		return task.ExportUnit{}, fmt.Errorf("rename %q: %w", root, err)
	}
	tree.Name = name

	selection := []string{name}
	if !direct {
		selection, err = b.applyPlan(tree)
		if err != nil {
			return task.ExportUnit{}, err
		}
	}

	internalPath, err := b.resolver.DerivePath(name)
	if err != nil {
		return task.ExportUnit{}, err
	}
	if err := hierarchy.ValidatePath(internalPath); err != nil {
		return task.ExportUnit{}, err
	}

	location, err := b.exportLocation(internalPath, name)
	if err != nil {
		return task.ExportUnit{}, err
	}

	tr, err := b.graph.Transform(name)
	if err != nil {
		return task.ExportUnit{}, fmt.Errorf("read transform: %w", err)
	}

	unit := task.ExportUnit{
		ShortName:          name,
		Model:              b.model(name, st, internalPath),
		ObjectID:           b.meta(name, task.MetaObjectID),
		InternalPath:       internalPath,
		RelativeExportPath: internalPath,
		ExportLocation:     location,
		StringType:         st,
		ObjectMaterials:    b.materials(name),
		WorldData:          b.policy.ToForeign(tr),
	}

	// Stamped before export so the mesh file carries the same properties.
	for _, kv := range unit.Metadata() {
		if err := b.graph.SetMetadata(name, kv[0], kv[1]); err != nil {
			return task.ExportUnit{}, fmt.Errorf("stamp %s: %w", kv[0], err)
		}
	}

	if err := b.codec.Export(ctx, location, selection, codec.ExportOptions(st)); err != nil {
		if !errors.Is(err, codec.ErrMeshCodec) {
			err = fmt.Errorf("%w: %w", codec.ErrMeshCodec, err)
		}
		return task.ExportUnit{}, fmt.Errorf("export %s: %w", location, err)
	}
	return unit, nil
}

// snapshot reads the subtree under name.
func (b *Builder) snapshot(name string) (Node, error) {
	obj, err := b.graph.Object(name)
	if err != nil {
		return Node{}, err
	}
	n := Node{Name: obj.Name, Kind: obj.Kind, Modifiers: obj.Modifiers}
	for _, child := range obj.Children {
		c, err := b.snapshot(child)
		if err != nil {
			return Node{}, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// applyPlan renames the descendants of tree and returns the whole subtree as the selection.
func (b *Builder) applyPlan(tree Node) ([]string, error) {
	assigned := make(map[string]string)
	for _, r := range PlanHierarchy(tree) {
		got, err := b.graph.Rename(r.From, r.To)
		if err != nil {
			return nil, fmt.Errorf("rename %q: %w", r.From, err)
		}
		if got != r.To {
			b.log.Debug("host adjusted child name", "want", r.To, "got", got)
		}
		assigned[r.From] = got
	}

	names := tree.Names()
	for i, n := range names {
		if got, ok := assigned[n]; ok {
			names[i] = got
		}
	}
	return names, nil
}

func (b *Builder) exportLocation(internalPath, name string) (string, error) {
	dir := filepath.Join(b.taskDir, filepath.FromSlash(b.resolver.FilesystemPath(internalPath)))
	location := filepath.Join(dir, b.namer.FileName(name, b.ext))
	if err := ValidatePath(location, b.taskDir); err != nil {
		return "", fmt.Errorf("%s: %w", location, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	return location, nil
}

// model reuses a reference stamped by an earlier import when the object has not moved.
func (b *Builder) model(name string, st task.StringType, internalPath string) string {
	stamped := b.meta(name, task.MetaModel)
	if stamped != "" &&
		b.meta(name, task.MetaInternalPath) == internalPath &&
		b.meta(name, task.MetaStringType) == string(st) {
		return stamped
	}
	return b.namer.Model(st, internalPath, name)
}

func (b *Builder) materials(name string) []task.Material {
	if m := task.DecodeMaterials(b.meta(name, task.MetaObjectMaterials)); len(m) > 0 {
		return m
	}
	return []task.Material{task.DefaultMaterial}
}

func (b *Builder) meta(name, key string) string {
	v, _ := b.graph.Metadata(name, key)
	return v
}

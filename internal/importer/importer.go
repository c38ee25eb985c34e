// Package importer reconciles task document units into the scene graph.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/vmunix/assetsbridge/internal/codec"
	"github.com/vmunix/assetsbridge/internal/convert"
	"github.com/vmunix/assetsbridge/internal/hierarchy"
	"github.com/vmunix/assetsbridge/internal/scene"
	"github.com/vmunix/assetsbridge/internal/task"
)

// DefaultCollisionPrefix marks collision proxy meshes.
const DefaultCollisionPrefix = "UCX_"

// CollisionDisplay is applied to collision proxies after import.
var CollisionDisplay = scene.Display{
	HideRender:  true,
	ShowShadows: false,
	Wireframe:   true,
	Color:       [4]float64{0, 0.2, 1, 1},
}

// Config for the reconciler.
type Config struct {
	CollisionPrefix string
}

// Reconciler imports units into the scene, one at a time.
type Reconciler struct {
	graph           scene.Graph
	resolver        *hierarchy.Resolver
	codec           codec.MeshCodec
	policies        convert.Policies
	collisionPrefix string
	log             *slog.Logger
}

// New creates a reconciler.
func New(graph scene.Graph, resolver *hierarchy.Resolver, mc codec.MeshCodec, policies convert.Policies, cfg Config, log *slog.Logger) *Reconciler {
	if cfg.CollisionPrefix == "" {
		cfg.CollisionPrefix = DefaultCollisionPrefix
	}
	return &Reconciler{
		graph:           graph,
		resolver:        resolver,
		codec:           mc,
		policies:        policies,
		collisionPrefix: cfg.CollisionPrefix,
		log:             log,
	}
}

// ImportDocument imports every unit in document order. A failed unit is recorded and
// the batch continues. Cancellation is honoured between units only.
func (r *Reconciler) ImportDocument(ctx context.Context, doc *task.Document) (*DocumentResult, error) {
	r.log.Info("import started", "operation", doc.Operation, "units", len(doc.Objects))

	result := &DocumentResult{
		Operation: doc.Operation,
		Units:     make([]UnitResult, 0, len(doc.Objects)),
	}
	for _, unit := range doc.Objects {
		if err := ctx.Err(); err != nil {
			r.log.Warn("import cancelled", "done", len(result.Units), "remaining", len(doc.Objects)-len(result.Units))
			return result, err
		}
		res, _ := r.ImportUnit(ctx, unit, doc.Operation)
		result.Units = append(result.Units, *res)
	}

	r.log.Info("import complete",
		"operation", doc.Operation,
		"units", len(result.Units),
		"success", result.SuccessCount())
	return result, nil
}

// ImportUnit imports one unit. It orchestrates four phases: purge, resolve, import, reconcile.
// The returned result is never nil; its Error matches the returned error.
func (r *Reconciler) ImportUnit(ctx context.Context, unit task.ExportUnit, op task.Operation) (*UnitResult, error) {
	res := &UnitResult{ShortName: unit.ShortName, Phase: PhaseResolvingHierarchy}
	fail := func(err error) (*UnitResult, error) {
		r.log.Warn("import unit failed", "unit", unit.ShortName, "phase", res.Phase, "error", err)
		res.Error = err
		return res, err
	}

	// Phase 1: Resolve - drop stale per-asset collection, find or create the destination
	if err := r.purgeStale(unit); err != nil {
		return fail(err)
	}
	dest, err := r.resolver.ResolveOrCreate(unit.InternalPath)
	if err != nil {
		return fail(err)
	}
	res.Collection = dest
	existing, err := r.graph.CollectionObjects(dest)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReconcile, err))
	}

	// Phase 2: Import - hand the mesh file to the codec
	res.Phase = PhaseImporting
	created, err := r.codec.Import(ctx, unit.ExportLocation, codec.ImportOptions(unit.StringType, op))
	if err != nil {
		r.discard(created)
		if !errors.Is(err, codec.ErrMeshCodec) {
			err = fmt.Errorf("%w: %w", codec.ErrMeshCodec, err)
		}
		return fail(fmt.Errorf("import %s: %w", unit.ExportLocation, err))
	}

	// Phase 3: Reconcile - stamp, disambiguate, relink, transform, clean up
	res.Phase = PhaseReconciling
	if err := r.reconcile(unit, op, dest, existing, created, res); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReconcile, err))
	}

	res.Phase = PhaseDone
	res.Success = true
	r.log.Info("import unit complete",
		"unit", unit.ShortName,
		"collection", dest,
		"objects", len(res.Objects),
		"replaced", len(res.Replaced))
	return res, nil
}

// purgeStale removes a collection named after the unit left by the collection-per-asset
// layout. Collections on the unit's own destination path are kept.
func (r *Reconciler) purgeStale(unit task.ExportUnit) error {
	name := unit.ShortName
	if !r.graph.HasCollection(name) || name == r.graph.RootCollection() || name == r.graph.DefaultCollection() {
		return nil
	}
	if slices.Contains(r.resolver.HostSegments(unit.InternalPath), name) {
		return nil
	}

	objects, err := r.graph.CollectionObjects(name)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrPurge, name, err)
	}
	for _, obj := range objects {
		if err := r.graph.Unlink(obj, name); err != nil {
			return fmt.Errorf("%w %q: %w", ErrPurge, name, err)
		}
		if err := r.graph.RemoveObject(obj); err != nil {
			return fmt.Errorf("%w %q: %w", ErrPurge, name, err)
		}
	}
	if err := r.graph.RemoveCollection(name); err != nil {
		return fmt.Errorf("%w %q: %w", ErrPurge, name, err)
	}
	r.log.Debug("purged stale collection", "collection", name, "objects", len(objects))
	return nil
}

// importedNode is a created object as it looked right after the codec ran.
type importedNode struct {
	name   string
	kind   scene.Kind
	isRoot bool
}

func (r *Reconciler) reconcile(unit task.ExportUnit, op task.Operation, dest string, existing, created []string, res *UnitResult) error {
	// Roots are fixed before any node is removed, since removal orphans children.
	nodes := make([]importedNode, 0, len(created))
	for _, name := range created {
		obj, err := r.graph.Object(name)
		if err != nil {
			return err
		}
		nodes = append(nodes, importedNode{
			name:   name,
			kind:   obj.Kind,
			isRoot: obj.Parent == "" || !slices.Contains(created, obj.Parent),
		})
	}

	skeletal := unit.StringType == task.SkeletalMesh
	world := r.policies.For(op).ImportTransform(unit.WorldData)

	for _, n := range nodes {
		survivor := n.name
		if match, ok := collision(n.name, existing); ok {
			if err := r.replace(match, n, skeletal, world); err != nil {
				return err
			}
			survivor = match
			res.Replaced = append(res.Replaced, match)
		} else {
			if err := r.relink(n.name, dest); err != nil {
				return err
			}
			if n.isRoot && !skeletal {
				if err := r.graph.SetTransform(n.name, world); err != nil {
					return err
				}
			}
		}

		if err := r.stamp(survivor, unit); err != nil {
			return err
		}
		if err := r.cleanup(survivor, n.kind); err != nil {
			return err
		}
		res.Objects = append(res.Objects, survivor)
	}
	return nil
}

// collision returns the pre-existing destination object that name duplicates.
func collision(name string, existing []string) (string, bool) {
	base := scene.BaseName(name)
	if base != name && slices.Contains(existing, base) {
		return base, true
	}
	for _, e := range existing {
		if e != name && scene.BaseName(e) == base {
			return e, true
		}
	}
	return "", false
}

// replace updates the existing object in place and destroys the duplicate.
func (r *Reconciler) replace(existing string, dup importedNode, skeletal bool, world scene.Transform) error {
	tr := world
	if !dup.isRoot || skeletal {
		var err error
		if tr, err = r.graph.Transform(dup.name); err != nil {
			return err
		}
	}
	if err := r.graph.SetTransform(existing, tr); err != nil {
		return err
	}
	if err := r.graph.RemoveObject(dup.name); err != nil {
		return err
	}
	r.log.Debug("updated existing object", "object", existing, "duplicate", dup.name)
	return nil
}

// relink moves the object out of every other collection, then into dest.
func (r *Reconciler) relink(name, dest string) error {
	obj, err := r.graph.Object(name)
	if err != nil {
		return err
	}
	for _, c := range obj.Collections {
		if c == dest {
			continue
		}
		if err := r.graph.Unlink(name, c); err != nil {
			return err
		}
	}
	return r.graph.Link(name, dest)
}

func (r *Reconciler) stamp(name string, unit task.ExportUnit) error {
	for _, kv := range unit.Metadata() {
		if err := r.graph.SetMetadata(name, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) cleanup(name string, kind scene.Kind) error {
	if kind == scene.KindMesh {
		if err := r.graph.ConvertTrisToQuads(name); err != nil {
			return err
		}
	}
	if strings.HasPrefix(name, r.collisionPrefix) {
		return r.graph.SetDisplay(name, CollisionDisplay)
	}
	return nil
}

// discard removes objects a failed codec run left behind.
func (r *Reconciler) discard(created []string) {
	for _, name := range created {
		if err := r.graph.RemoveObject(name); err != nil {
			r.log.Debug("discard partial import", "object", name, "error", err)
		}
	}
}

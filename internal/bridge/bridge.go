// Package bridge provides the export and import operators. Operators never return
// errors: every failure becomes a status plus a report line.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vmunix/assetsbridge/internal/codec"
	"github.com/vmunix/assetsbridge/internal/convert"
	"github.com/vmunix/assetsbridge/internal/exporter"
	"github.com/vmunix/assetsbridge/internal/hierarchy"
	"github.com/vmunix/assetsbridge/internal/history"
	"github.com/vmunix/assetsbridge/internal/importer"
	"github.com/vmunix/assetsbridge/internal/scene"
	"github.com/vmunix/assetsbridge/internal/task"
)

// PlaceholderTaskFile is the unconfigured default the editor ships with.
const PlaceholderTaskFile = "//AssetsBridge.json"

// Recorder stores a summary of each run.
type Recorder interface {
	Add(ctx context.Context, r *history.Run) error
}

// Config for the operators.
type Config struct {
	TaskFile        string
	Extension       string
	Names           hierarchy.Names
	StaticPrefix    string
	SkeletalPrefix  string
	CollisionPrefix string
	ModelTemplate   string
	Policies        convert.Policies
}

// Bridge runs export and import against one scene.
type Bridge struct {
	graph    scene.Graph
	codec    codec.MeshCodec
	cfg      Config
	recorder Recorder // nil if history is disabled
	log      *slog.Logger
}

// New creates the operators. recorder may be nil.
func New(graph scene.Graph, mc codec.MeshCodec, cfg Config, recorder Recorder, log *slog.Logger) *Bridge {
	if cfg.Policies == nil {
		cfg.Policies = convert.DefaultPolicies()
	}
	return &Bridge{graph: graph, codec: mc, cfg: cfg, recorder: recorder, log: log}
}

// CheckTaskFile reports ErrConfiguration for an unset or placeholder path.
func CheckTaskFile(path string) error {
	p := strings.TrimSpace(path)
	if p == "" || p == PlaceholderTaskFile {
		return fmt.Errorf("%w: set bridge.task_file", ErrConfiguration)
	}
	return nil
}

// ExportSelected exports the objects currently selected in the host.
func (b *Bridge) ExportSelected(ctx context.Context) *Result {
	return b.Export(ctx, b.graph.Selected())
}

// Export builds units for roots, writes their mesh files and saves the task document.
func (b *Bridge) Export(ctx context.Context, roots []string) *Result {
	res := &Result{Status: StatusFinished}
	if err := CheckTaskFile(b.cfg.TaskFile); err != nil {
		res.errorf("%v", err)
		return res
	}
	if len(roots) == 0 {
		res.infof("nothing selected")
		return res
	}

	resolver := hierarchy.New(b.graph, b.cfg.Names)
	builder := exporter.New(b.graph, resolver, b.codec, b.cfg.Policies.For(task.OperationBlenderExport), exporter.Config{
		TaskDir:        filepath.Dir(b.cfg.TaskFile),
		Extension:      b.cfg.Extension,
		StaticPrefix:   b.cfg.StaticPrefix,
		SkeletalPrefix: b.cfg.SkeletalPrefix,
		ModelTemplate:  b.cfg.ModelTemplate,
	}, b.log)

	built, err := builder.Build(ctx, roots)
	res.Export = built
	if err != nil {
		res.Status = StatusCancelled
		res.errorf("export cancelled: %v", err)
		b.record(ctx, history.DirectionExport, task.OperationBlenderExport, res)
		return res
	}
	for _, f := range built.Failures {
		res.errorf("%s: %v", f.Object, f.Err)
	}

	doc := &task.Document{Operation: task.OperationBlenderExport, Objects: built.Units}
	if err := task.Save(b.cfg.TaskFile, doc); err != nil {
		res.Status = StatusCancelled
		res.errorf("%v", err)
		b.record(ctx, history.DirectionExport, task.OperationBlenderExport, res)
		return res
	}

	if len(built.Failures) > 0 {
		res.Status = StatusFinishedWithErrors
	}
	res.infof("exported %d of %d objects to %s", len(built.Units), len(roots), b.cfg.TaskFile)
	b.log.Info("export finished", "task_file", b.cfg.TaskFile, "units", len(built.Units), "failures", len(built.Failures))
	b.record(ctx, history.DirectionExport, task.OperationBlenderExport, res)
	return res
}

// Import loads the task document and reconciles every unit into the scene.
func (b *Bridge) Import(ctx context.Context) *Result {
	res := &Result{Status: StatusFinished}
	if err := CheckTaskFile(b.cfg.TaskFile); err != nil {
		res.errorf("%v", err)
		return res
	}

	doc, err := task.Load(b.cfg.TaskFile)
	if err != nil {
		res.Status = StatusCancelled
		res.errorf("%v", err)
		b.record(ctx, history.DirectionImport, "", res)
		return res
	}

	resolver := hierarchy.New(b.graph, b.cfg.Names)
	rec := importer.New(b.graph, resolver, b.codec, b.cfg.Policies, importer.Config{
		CollisionPrefix: b.cfg.CollisionPrefix,
	}, b.log)

	imported, err := rec.ImportDocument(ctx, doc)
	res.Import = imported
	for _, u := range imported.Units {
		if !u.Success {
			res.errorf("%s: %v", u.ShortName, u.Error)
		}
	}
	switch {
	case err != nil:
		res.Status = StatusCancelled
		res.errorf("import cancelled: %v", err)
	case imported.FailureCount() > 0:
		res.Status = StatusFinishedWithErrors
	}
	if err == nil {
		res.infof("imported %d of %d objects from %s", imported.SuccessCount(), len(doc.Objects), b.cfg.TaskFile)
	}
	b.record(ctx, history.DirectionImport, doc.Operation, res)
	return res
}

func (b *Bridge) record(ctx context.Context, direction string, op task.Operation, res *Result) {
	if b.recorder == nil {
		return
	}
	run := &history.Run{
		Direction: direction,
		Operation: string(op),
		TaskFile:  b.cfg.TaskFile,
		Status:    string(res.Status),
	}
	switch {
	case res.Export != nil:
		run.Units = len(res.Export.Units)
		run.Failures = len(res.Export.Failures)
	case res.Import != nil:
		run.Units = res.Import.SuccessCount()
		run.Failures = res.Import.FailureCount()
	}
	if data, err := json.Marshal(map[string]any{"reports": res.Reports}); err == nil {
		run.Data = string(data)
	}

	// Cancelled runs are still recorded.
	if err := b.recorder.Add(context.WithoutCancel(ctx), run); err != nil {
		b.log.Warn("failed to record run", "direction", direction, "error", err)
	}
}

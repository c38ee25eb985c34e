package config

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vmunix/assetsbridge/internal/bridge"
	"github.com/vmunix/assetsbridge/internal/convert"
	"github.com/vmunix/assetsbridge/internal/hierarchy"
	"github.com/vmunix/assetsbridge/internal/task"
)

// Policies returns the default conversion policies with configured overrides applied.
// Unset fields keep their defaults.
func (c *Config) Policies() convert.Policies {
	ps := convert.DefaultPolicies()
	for name, pc := range c.Policy {
		op := task.Operation(name)
		p := ps.For(op)
		if pc.UnitScale != 0 {
			p.UnitScale = pc.UnitScale
		}
		if pc.ScaleInForeignUnits != nil {
			p.ScaleInForeignUnits = *pc.ScaleInForeignUnits
		}
		if len(pc.AxisSigns) == 3 {
			p.AxisSigns = mgl64.Vec3{pc.AxisSigns[0], pc.AxisSigns[1], pc.AxisSigns[2]}
		}
		if len(pc.RotationOffset) == 3 {
			p.RotationOffset = mgl64.Vec3{pc.RotationOffset[0], pc.RotationOffset[1], pc.RotationOffset[2]}
		}
		ps[op] = p
	}
	return ps
}

// HierarchyNames returns the path substitution rules.
func (c *Config) HierarchyNames() hierarchy.Names {
	names := hierarchy.DefaultNames()
	if c.Names.VirtualRoot != "" {
		names.VirtualRoot = c.Names.VirtualRoot
	}
	if c.Names.DefaultCollection != "" {
		names.DefaultContainer = c.Names.DefaultCollection
	}
	if len(c.Names.ReservedRoots) > 0 {
		names.Reserved = c.Names.ReservedRoots
	}
	return names
}

// Operators returns the bridge configuration. An empty taskFile keeps bridge.task_file.
func (c *Config) Operators(taskFile string) bridge.Config {
	if taskFile == "" {
		taskFile = c.Bridge.TaskFile
	}
	return bridge.Config{
		TaskFile:        taskFile,
		Extension:       c.Bridge.MeshExtension,
		Names:           c.HierarchyNames(),
		StaticPrefix:    c.Names.StaticPrefix,
		SkeletalPrefix:  c.Names.SkeletalPrefix,
		CollisionPrefix: c.Names.CollisionPrefix,
		ModelTemplate:   c.Names.ModelTemplate,
		Policies:        c.Policies(),
	}
}

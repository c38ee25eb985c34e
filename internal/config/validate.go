package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/vmunix/assetsbridge/internal/task"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validOperations = map[string]bool{
	string(task.OperationBlenderExport): true,
	string(task.OperationUnrealExport):  true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
// The task file is not checked here: the operators report an unset path themselves.
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if strings.ContainsAny(c.Bridge.MeshExtension, `/\`) {
		errs = append(errs, fmt.Sprintf("bridge.mesh_extension: must not contain a path separator, got %q", c.Bridge.MeshExtension))
	}

	if c.Names.StaticPrefix != "" && c.Names.StaticPrefix == c.Names.SkeletalPrefix {
		errs = append(errs, fmt.Sprintf("names: static_prefix and skeletal_prefix must differ, both are %q", c.Names.StaticPrefix))
	}

	for name, p := range c.Policy {
		if !validOperations[name] {
			errs = append(errs, fmt.Sprintf("policy.%s: unknown operation, must be BlenderExport or UnrealExport", name))
		}
		if p.UnitScale < 0 {
			errs = append(errs, fmt.Sprintf("policy.%s.unit_scale: must not be negative, got %g", name, p.UnitScale))
		}
		if p.AxisSigns != nil {
			if len(p.AxisSigns) != 3 {
				errs = append(errs, fmt.Sprintf("policy.%s.axis_signs: must have 3 components, got %d", name, len(p.AxisSigns)))
			} else {
				for _, s := range p.AxisSigns {
					if math.Abs(s) != 1 {
						errs = append(errs, fmt.Sprintf("policy.%s.axis_signs: components must be 1 or -1, got %g", name, s))
						break
					}
				}
			}
		}
		if p.RotationOffset != nil && len(p.RotationOffset) != 3 {
			errs = append(errs, fmt.Sprintf("policy.%s.rotation_offset: must have 3 components, got %d", name, len(p.RotationOffset)))
		}
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("watch.debounce: must not be negative, got %s", c.Watch.Debounce))
	}

	return errs
}

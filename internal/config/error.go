package config

import (
	"fmt"
	"slices"
	"strings"
)

// ConfigError aggregates the problems found in one config file. Validation
// messages are prefixed with their TOML key ("policy.UnrealExport.unit_scale: ...").
type ConfigError struct {
	Path    string   // Config file path
	Missing []string // Unresolved environment variables
	Errors  []string // Validation errors
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var parts []string
	if e.Path != "" {
		parts = append(parts, e.Path+":")
	}
	if len(e.Missing) > 0 {
		msg := fmt.Sprintf("missing environment variables: %s", strings.Join(e.Missing, ", "))
		if e.missingTaskFile() {
			msg += " (set ASSETSBRIDGE_TASK_FILE or bridge.task_file)"
		}
		parts = append(parts, msg)
	}
	if len(e.Errors) > 0 {
		parts = append(parts, "validation failed:")
		for _, err := range e.Errors {
			parts = append(parts, fmt.Sprintf("  - %s", err))
		}
	}
	return strings.Join(parts, "\n")
}

// HasErrors returns true if there are any errors.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

// Sections returns the top-level tables ("bridge", "policy", ...) that have
// validation errors, sorted.
func (e *ConfigError) Sections() []string {
	var out []string
	for _, err := range e.Errors {
		if s := section(err); !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

// Section returns the validation errors reported for one top-level table.
func (e *ConfigError) Section(name string) []string {
	var out []string
	for _, err := range e.Errors {
		if section(err) == name {
			out = append(out, err)
		}
	}
	return out
}

func (e *ConfigError) missingTaskFile() bool {
	return slices.ContainsFunc(e.Missing, func(m string) bool {
		return strings.HasPrefix(m, "ASSETSBRIDGE_TASK_FILE")
	})
}

func section(msg string) string {
	key, _, _ := strings.Cut(msg, ":")
	head, _, _ := strings.Cut(key, ".")
	return head
}

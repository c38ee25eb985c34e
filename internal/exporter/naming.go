package exporter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vmunix/assetsbridge/internal/task"
)

// Default naming rules.
const (
	DefaultStaticPrefix   = "SM_"
	DefaultSkeletalPrefix = "SKM_"
	DefaultModelTemplate  = "{namespace}'/Game/{path}{name}.{name}"
	DefaultChildTemplate  = "{root}_{kind}"
)

// namespaces maps asset types to the engine class path used in model references.
var namespaces = map[task.StringType]string{
	task.StaticMesh:   "/Script/Engine.StaticMesh",
	task.SkeletalMesh: "/Script/Engine.SkeletalMesh",
}

// Namer applies naming templates and type prefixes.
type Namer struct {
	modelTemplate  string
	staticPrefix   string
	skeletalPrefix string
}

// NewNamer creates a Namer. Empty strings use the defaults.
func NewNamer(modelTemplate, staticPrefix, skeletalPrefix string) *Namer {
	if modelTemplate == "" {
		modelTemplate = DefaultModelTemplate
	}
	if staticPrefix == "" {
		staticPrefix = DefaultStaticPrefix
	}
	if skeletalPrefix == "" {
		skeletalPrefix = DefaultSkeletalPrefix
	}
	return &Namer{
		modelTemplate:  modelTemplate,
		staticPrefix:   staticPrefix,
		skeletalPrefix: skeletalPrefix,
	}
}

// Prefix returns the name prefix for an asset type.
func (n *Namer) Prefix(st task.StringType) string {
	if st == task.SkeletalMesh {
		return n.skeletalPrefix
	}
	return n.staticPrefix
}

// Prefixed swaps any existing type prefix on name for the one matching st.
func (n *Namer) Prefixed(name string, st task.StringType) string {
	// Longest first so "SKM_" is not read as a shorter prefix.
	prefixes := []string{n.skeletalPrefix, n.staticPrefix}
	if len(n.staticPrefix) > len(n.skeletalPrefix) {
		prefixes[0], prefixes[1] = prefixes[1], prefixes[0]
	}
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			name = strings.TrimPrefix(name, p)
			break
		}
	}
	return n.Prefix(st) + name
}

// Model returns the engine asset reference for a unit.
func (n *Namer) Model(st task.StringType, internalPath, name string) string {
	path := strings.Trim(internalPath, "/")
	if path != "" {
		path += "/"
	}
	return applyTemplate(n.modelTemplate, map[string]any{
		"namespace": namespaces[st],
		"path":      path,
		"name":      name,
	})
}

// FileName returns the mesh file name for a unit.
func (n *Namer) FileName(name, ext string) string {
	return SanitizeFilename(name) + "." + strings.TrimPrefix(ext, ".")
}

// placeholder matches {name} style template variables.
var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// applyTemplate substitutes variables into a template string. Unknown
// placeholders are left as written.
func applyTemplate(template string, vars map[string]any) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		val, ok := vars[name]
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", val)
	})
}

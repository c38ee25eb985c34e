package exporter

import (
	"slices"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vmunix/assetsbridge/internal/scene"
)

// Node is a snapshot of an object subtree taken before renaming.
type Node struct {
	Name      string
	Kind      scene.Kind
	Modifiers []string
	Children  []Node
}

// Rename moves an object from one name to another.
type Rename struct {
	From string
	To   string
}

var lower = cases.Lower(language.Und)

// PlanHierarchy names every descendant of root after the root and its own kind.
// Armatures keep their names. Repeated kinds are numbered from _2 in depth-first order.
// Nodes already carrying their target name are left out of the plan.
func PlanHierarchy(root Node) []Rename {
	var plan []Rename
	seen := make(map[scene.Kind]int)

	var walk func(n Node)
	walk = func(n Node) {
		for _, child := range n.Children {
			if child.Kind != scene.KindArmature {
				seen[child.Kind]++
				target := applyTemplate(DefaultChildTemplate, map[string]any{
					"root": root.Name,
					"kind": lower.String(string(child.Kind)),
				})
				if c := seen[child.Kind]; c > 1 {
					target += "_" + strconv.Itoa(c)
				}
				if target != child.Name {
					plan = append(plan, Rename{From: child.Name, To: target})
				}
			}
			walk(child)
		}
	}
	walk(root)
	return plan
}

// Names lists the node and all of its descendants, depth first.
func (n Node) Names() []string {
	out := []string{n.Name}
	for _, c := range n.Children {
		out = append(out, c.Names()...)
	}
	return out
}

// HasModifier reports whether the node carries a modifier of the given type.
func (n Node) HasModifier(kind string) bool {
	return slices.Contains(n.Modifiers, kind)
}

// Skeletal reports whether the subtree contains an armature or an armature-deformed mesh.
func (n Node) Skeletal() bool {
	if n.Kind == scene.KindArmature || n.HasModifier(scene.ModifierArmature) {
		return true
	}
	for _, c := range n.Children {
		if c.Skeletal() {
			return true
		}
	}
	return false
}

// Package hierarchy maps scene collection ancestry to engine paths and back.
package hierarchy

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vmunix/assetsbridge/internal/scene"
)

// Separator delimits path segments.
const Separator = "/"

var (
	// ErrCycle indicates the collection parent chain loops.
	ErrCycle = errors.New("collection hierarchy contains a cycle")

	// ErrInvalidPath indicates a path segment that cannot name a collection.
	ErrInvalidPath = errors.New("invalid collection path")
)

// Names controls the root substitutions applied to paths.
type Names struct {
	// VirtualRoot replaces the default container as the first path segment.
	VirtualRoot string
	// DefaultContainer is the host's top-level default collection. Empty uses the graph's.
	DefaultContainer string
	// Reserved root names carry no path information and are dropped.
	Reserved []string
}

// DefaultNames returns the editor's conventions.
func DefaultNames() Names {
	return Names{
		VirtualRoot:      "Assets",
		DefaultContainer: scene.DefaultContainerName,
		Reserved:         []string{scene.DefaultRootName, "Master Collection"},
	}
}

// Resolver derives paths from collection ancestry and recreates ancestry from paths.
type Resolver struct {
	graph scene.Graph
	names Names
}

// New creates a resolver over graph.
func New(graph scene.Graph, names Names) *Resolver {
	if names.VirtualRoot == "" {
		names.VirtualRoot = DefaultNames().VirtualRoot
	}
	if names.DefaultContainer == "" {
		names.DefaultContainer = graph.DefaultCollection()
	}
	return &Resolver{graph: graph, names: names}
}

// Names returns the substitution rules in effect.
func (r *Resolver) Names() Names { return r.names }

// DerivePath returns the "/"-joined collection path of the object's owning collection.
// An object that only belongs to the host root yields "".
func (r *Resolver) DerivePath(object string) (string, error) {
	obj, err := r.graph.Object(object)
	if err != nil {
		return "", fmt.Errorf("derive path: %w", err)
	}
	if len(obj.Collections) == 0 {
		return "", nil
	}
	return r.CollectionPath(obj.Collections[0])
}

// CollectionPath returns the path of a collection.
func (r *Resolver) CollectionPath(collection string) (string, error) {
	segments, err := r.ancestry(collection)
	if err != nil {
		return "", err
	}
	return strings.Join(r.toPathSegments(segments), Separator), nil
}

// ancestry lists collection names from just below the host root down to collection.
func (r *Resolver) ancestry(collection string) ([]string, error) {
	root := r.graph.RootCollection()
	if collection == root {
		return []string{root}, nil
	}

	chain := []string{collection}
	seen := map[string]bool{collection: true}
	current := collection
	for {
		parent, ok := r.graph.ParentCollection(current)
		if !ok || parent == root {
			break
		}
		if seen[parent] {
			return nil, fmt.Errorf("%w at %q", ErrCycle, parent)
		}
		seen[parent] = true
		chain = append(chain, parent)
		current = parent
	}
	slices.Reverse(chain)
	return chain, nil
}

func (r *Resolver) toPathSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}
	if segments[0] == r.names.DefaultContainer {
		segments[0] = r.names.VirtualRoot
	}
	if slices.Contains(r.names.Reserved, segments[0]) {
		segments = segments[1:]
	}
	return segments
}

// ResolveOrCreate walks path from the host root, creating missing collections, and
// returns the leaf collection. The empty path resolves to the host root.
func (r *Resolver) ResolveOrCreate(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	current := r.graph.RootCollection()
	for _, segment := range r.HostSegments(path) {
		children, err := r.graph.ChildCollections(current)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", path, err)
		}
		if slices.Contains(children, segment) {
			current = segment
			continue
		}
		created, err := r.graph.CreateCollection(current, segment)
		if err != nil {
			return "", fmt.Errorf("resolve %q: create %q: %w", path, segment, err)
		}
		current = created
	}
	return current, nil
}

// HostSegments splits path and maps the virtual root back to the default container.
func (r *Resolver) HostSegments(path string) []string {
	segments := Split(path)
	if len(segments) > 0 && segments[0] == r.names.VirtualRoot {
		segments[0] = r.names.DefaultContainer
	}
	return segments
}

// FilesystemPath returns the on-disk relative directory for an internal path.
// The virtual root carries no directory of its own.
func (r *Resolver) FilesystemPath(internalPath string) string {
	segments := Split(internalPath)
	if len(segments) > 0 && segments[0] == r.names.VirtualRoot {
		segments = segments[1:]
	}
	return strings.Join(segments, Separator)
}

// ValidatePath rejects relative directory segments, which would escape the export root
// once the path is mirrored on disk.
func ValidatePath(path string) error {
	for _, s := range Split(path) {
		if s == "." || s == ".." || strings.ContainsAny(s, "\\\x00") {
			return fmt.Errorf("%w: segment %q in %q", ErrInvalidPath, s, path)
		}
	}
	return nil
}

// Split breaks a path into its non-empty segments.
func Split(path string) []string {
	var out []string
	for _, s := range strings.Split(path, Separator) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

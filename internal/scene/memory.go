package scene

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"
)

// Default collection names used by the editor.
const (
	DefaultRootName      = "Scene Collection"
	DefaultContainerName = "Collection"
)

type memCollection struct {
	Name     string   `json:"name"`
	Children []string `json:"children,omitempty"`
	Objects  []string `json:"objects,omitempty"`
}

type memObject struct {
	Name      string            `json:"name"`
	Kind      Kind              `json:"kind"`
	Parent    string            `json:"parent,omitempty"`
	Children  []string          `json:"children,omitempty"`
	Modifiers []string          `json:"modifiers,omitempty"`
	Transform Transform         `json:"transform"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Display   Display           `json:"display"`
	Quads     bool              `json:"quads,omitempty"`
}

// Memory is an in-memory scene graph with the editor's naming rules.
// It backs the command line tool and tests.
type Memory struct {
	mu          sync.Mutex
	root        string
	container   string
	collections map[string]*memCollection
	order       []string // collection creation order
	objects     map[string]*memObject
	objOrder    []string
	selected    []string
}

var _ Graph = (*Memory)(nil)

// NewMemory returns a scene holding the master collection and the default container.
func NewMemory() *Memory {
	m := &Memory{
		root:        DefaultRootName,
		container:   DefaultContainerName,
		collections: make(map[string]*memCollection),
		objects:     make(map[string]*memObject),
	}
	m.collections[m.root] = &memCollection{Name: m.root}
	m.order = append(m.order, m.root)
	m.addCollection(m.root, m.container)
	return m
}

func (m *Memory) RootCollection() string    { return m.root }
func (m *Memory) DefaultCollection() string { return m.container }

func (m *Memory) HasCollection(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.collections[name]
	return ok
}

func (m *Memory) ChildCollections(name string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, ErrNotFound)
	}
	return slices.Clone(c.Children), nil
}

func (m *Memory) ParentCollection(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.parentOf(name)
}

func (m *Memory) parentOf(name string) (string, bool) {
	for _, cname := range m.order {
		if slices.Contains(m.collections[cname].Children, name) {
			return cname, true
		}
	}
	return "", false
}

func (m *Memory) CreateCollection(parent, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[parent]; !ok {
		return "", fmt.Errorf("parent collection %q: %w", parent, ErrNotFound)
	}
	if name == "" {
		return "", ErrEmptyName
	}
	return m.addCollection(parent, name), nil
}

func (m *Memory) addCollection(parent, name string) string {
	name = uniqueName(name, func(n string) bool { _, ok := m.collections[n]; return ok })
	m.collections[name] = &memCollection{Name: name}
	m.order = append(m.order, name)
	p := m.collections[parent]
	p.Children = append(p.Children, name)
	return name
}

// RemoveCollection unlinks the collection's objects and moves its child collections to its parent.
func (m *Memory) RemoveCollection(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == m.root {
		return ErrRootCollection
	}
	c, ok := m.collections[name]
	if !ok {
		return fmt.Errorf("collection %q: %w", name, ErrNotFound)
	}
	if parent, ok := m.parentOf(name); ok {
		p := m.collections[parent]
		p.Children = slices.DeleteFunc(p.Children, func(n string) bool { return n == name })
		p.Children = append(p.Children, c.Children...)
	}
	delete(m.collections, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	return nil
}

func (m *Memory) CollectionObjects(name string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, ErrNotFound)
	}
	return slices.Clone(c.Objects), nil
}

func (m *Memory) Link(object, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q: %w", collection, ErrNotFound)
	}
	if _, ok := m.objects[object]; !ok {
		return fmt.Errorf("object %q: %w", object, ErrNotFound)
	}
	if !slices.Contains(c.Objects, object) {
		c.Objects = append(c.Objects, object)
	}
	return nil
}

func (m *Memory) Unlink(object, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q: %w", collection, ErrNotFound)
	}
	c.Objects = slices.DeleteFunc(c.Objects, func(n string) bool { return n == object })
	return nil
}

func (m *Memory) Object(name string) (Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return Object{}, fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	return Object{
		Name:        o.Name,
		Kind:        o.Kind,
		Parent:      o.Parent,
		Children:    slices.Clone(o.Children),
		Modifiers:   slices.Clone(o.Modifiers),
		Collections: m.collectionsOf(name),
	}, nil
}

func (m *Memory) collectionsOf(object string) []string {
	var out []string
	for _, cname := range m.order {
		if slices.Contains(m.collections[cname].Objects, object) {
			out = append(out, cname)
		}
	}
	return out
}

// AddObject creates an object, links it into collection and optionally parents it.
// It returns the name the host assigned.
func (m *Memory) AddObject(name string, kind Kind, parent, collection string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		return "", ErrEmptyName
	}
	c, ok := m.collections[collection]
	if !ok {
		return "", fmt.Errorf("collection %q: %w", collection, ErrNotFound)
	}
	var p *memObject
	if parent != "" {
		if p, ok = m.objects[parent]; !ok {
			return "", fmt.Errorf("parent %q: %w", parent, ErrNotFound)
		}
	}

	name = uniqueName(name, func(n string) bool { _, ok := m.objects[n]; return ok })
	m.objects[name] = &memObject{
		Name:      name,
		Kind:      kind,
		Parent:    parent,
		Transform: Identity(),
		Display:   DefaultDisplay(),
	}
	m.objOrder = append(m.objOrder, name)
	if p != nil {
		p.Children = append(p.Children, name)
	}
	c.Objects = append(c.Objects, name)
	return name, nil
}

// AddModifier attaches a modifier of the given type.
func (m *Memory) AddModifier(name, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	o.Modifiers = append(o.Modifiers, kind)
	return nil
}

func (m *Memory) Rename(name, newName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return "", fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	if newName == "" {
		return "", ErrEmptyName
	}
	if newName == name {
		return name, nil
	}

	newName = uniqueName(newName, func(n string) bool { _, ok := m.objects[n]; return ok })
	delete(m.objects, name)
	o.Name = newName
	m.objects[newName] = o

	replace := func(list []string) {
		for i, n := range list {
			if n == name {
				list[i] = newName
			}
		}
	}
	replace(m.objOrder)
	replace(m.selected)
	for _, c := range m.collections {
		replace(c.Objects)
	}
	if o.Parent != "" {
		replace(m.objects[o.Parent].Children)
	}
	for _, child := range o.Children {
		m.objects[child].Parent = newName
	}
	return newName, nil
}

func (m *Memory) Transform(name string) (Transform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return Transform{}, fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	return o.Transform, nil
}

func (m *Memory) SetTransform(name string, t Transform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	o.Transform = t
	return nil
}

func (m *Memory) Metadata(name, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return "", false
	}
	v, ok := o.Metadata[key]
	return v, ok
}

// AllMetadata returns a copy of every custom property on the object.
func (m *Memory) AllMetadata(name string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return nil
	}
	return maps.Clone(o.Metadata)
}

func (m *Memory) SetMetadata(name, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	if o.Metadata == nil {
		o.Metadata = make(map[string]string)
	}
	o.Metadata[key] = value
	return nil
}

// RemoveObject deletes the object, unlinks it everywhere and orphans its children.
func (m *Memory) RemoveObject(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	isName := func(n string) bool { return n == name }
	for _, c := range m.collections {
		c.Objects = slices.DeleteFunc(c.Objects, isName)
	}
	if o.Parent != "" {
		if p, ok := m.objects[o.Parent]; ok {
			p.Children = slices.DeleteFunc(p.Children, isName)
		}
	}
	for _, child := range o.Children {
		m.objects[child].Parent = ""
	}
	m.objOrder = slices.DeleteFunc(m.objOrder, isName)
	m.selected = slices.DeleteFunc(m.selected, isName)
	delete(m.objects, name)
	return nil
}

func (m *Memory) SetDisplay(name string, d Display) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	o.Display = d
	return nil
}

// Display returns the display flags of an object.
func (m *Memory) Display(name string) (Display, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return Display{}, fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	return o.Display, nil
}

func (m *Memory) ConvertTrisToQuads(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	if !ok {
		return fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	if o.Kind == KindMesh {
		o.Quads = true
	}
	return nil
}

// Quads reports whether tris-to-quads has run on the object.
func (m *Memory) Quads(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	return ok && o.Quads
}

func (m *Memory) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.selected)
}

// Select replaces the selection. Unknown names are ignored.
func (m *Memory) Select(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = m.selected[:0]
	for _, n := range names {
		if _, ok := m.objects[n]; ok {
			m.selected = append(m.selected, n)
		}
	}
}

// Objects returns every object name in creation order.
func (m *Memory) Objects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.objOrder)
}

// uniqueName returns name, or name with the lowest free ".NNN" suffix when taken.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	base := BaseName(name)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

type snapshot struct {
	Root        string          `json:"root"`
	Container   string          `json:"container"`
	Collections []memCollection `json:"collections"`
	Objects     []memObject     `json:"objects"`
	Selected    []string        `json:"selected,omitempty"`
}

// MarshalJSON encodes the scene in creation order.
func (m *Memory) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := snapshot{Root: m.root, Container: m.container, Selected: m.selected}
	for _, name := range m.order {
		s.Collections = append(s.Collections, *m.collections[name])
	}
	for _, name := range m.objOrder {
		s.Objects = append(s.Objects, *m.objects[name])
	}
	return json.Marshal(s)
}

// UnmarshalJSON restores a scene written by MarshalJSON.
func (m *Memory) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s.Root == "" {
		return fmt.Errorf("scene snapshot: root: %w", ErrEmptyName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = s.Root
	m.container = s.Container
	if m.container == "" {
		m.container = DefaultContainerName
	}
	m.collections = make(map[string]*memCollection, len(s.Collections))
	m.order = m.order[:0]
	m.objects = make(map[string]*memObject, len(s.Objects))
	m.objOrder = m.objOrder[:0]
	for i := range s.Collections {
		c := s.Collections[i]
		m.collections[c.Name] = &c
		m.order = append(m.order, c.Name)
	}
	if _, ok := m.collections[m.root]; !ok {
		m.collections[m.root] = &memCollection{Name: m.root}
		m.order = append([]string{m.root}, m.order...)
	}
	for i := range s.Objects {
		o := s.Objects[i]
		m.objects[o.Name] = &o
		m.objOrder = append(m.objOrder, o.Name)
	}
	m.selected = s.Selected
	return nil
}

// LoadMemory reads a scene snapshot from disk.
func LoadMemory(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	m := NewMemory()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return m, nil
}

// Save writes the scene snapshot to disk.
func (m *Memory) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	return nil
}

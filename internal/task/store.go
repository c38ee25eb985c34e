package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// requiredUnitFields must be present on every object of a task document.
var requiredUnitFields = []string{"shortName", "stringType", "exportLocation"}

// Load reads and validates a task document.
// Returns ErrMissingOrEmpty when the file is absent or blank and ErrMalformed
// when a required field is missing or invalid.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingOrEmpty, path)
		}
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a task document from raw JSON.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrMissingOrEmpty
	}
	if err := checkRequired(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Objects == nil {
		doc.Objects = []ExportUnit{}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// checkRequired checks for required keys before typed decoding so the error names the field.
func checkRequired(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("%w: document is not an object", ErrMalformed)
	}
	if op := root.Get("operation"); !op.Exists() || op.String() == "" {
		return fmt.Errorf("%w: operation is required", ErrMalformed)
	}
	objects := root.Get("objects")
	if !objects.Exists() || !objects.IsArray() {
		return fmt.Errorf("%w: objects must be an array", ErrMalformed)
	}

	var err error
	objects.ForEach(func(key, value gjson.Result) bool {
		for _, field := range requiredUnitFields {
			if !value.Get(field).Exists() {
				err = fmt.Errorf("%w: objects[%d].%s is required", ErrMalformed, key.Int(), field)
				return false
			}
		}
		return true
	})
	return err
}

// Validate checks the invariants of a decoded document.
func (d *Document) Validate() error {
	if !d.Operation.Valid() {
		return fmt.Errorf("%w: unknown operation %q", ErrMalformed, d.Operation)
	}
	seen := make(map[string]bool, len(d.Objects))
	for i, u := range d.Objects {
		if u.ShortName == "" {
			return fmt.Errorf("%w: objects[%d].shortName is empty", ErrMalformed, i)
		}
		if seen[u.ShortName] {
			return fmt.Errorf("%w: duplicate shortName %q", ErrMalformed, u.ShortName)
		}
		seen[u.ShortName] = true
		if !u.StringType.Valid() {
			return fmt.Errorf("%w: objects[%d].stringType %q", ErrMalformed, i, u.StringType)
		}
		if u.ExportLocation == "" {
			return fmt.Errorf("%w: objects[%d].exportLocation is empty", ErrMalformed, i)
		}
	}
	return nil
}

// Save writes the document with stable field order and indentation.
// The file is replaced atomically.
func Save(path string, doc *Document) error {
	out := Document{Operation: doc.Operation, Objects: make([]ExportUnit, len(doc.Objects))}
	for i, u := range doc.Objects {
		if u.ObjectMaterials == nil {
			u.ObjectMaterials = []Material{}
		}
		out.Objects[i] = u
	}
	data, err := json.MarshalIndent(&out, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding task document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating task directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".assetsbridge-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing task file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod task file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing task file: %w", err)
	}
	return nil
}

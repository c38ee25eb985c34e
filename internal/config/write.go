package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

const defaultTaskFileLine = `task_file = "${ASSETSBRIDGE_TASK_FILE:-AssetsBridge.json}"`

// WriteDefault writes the example config to path, creating parent
// directories. A non-empty taskFile replaces the default bridge.task_file so
// the new config points at an existing engine project.
func WriteDefault(path, taskFile string) error {
	content := defaultConfig
	if taskFile != "" {
		content = strings.Replace(content, defaultTaskFileLine, "task_file = "+strconv.Quote(taskFile), 1)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// Write serializes the config to TOML and writes it to path. The task file is
// written relative to the config's directory when it lives beneath it, so a
// project directory can be moved as a whole.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out := *c
	if rel, ok := relativeTo(filepath.Dir(path), c.Bridge.TaskFile); ok {
		out.Bridge.TaskFile = rel
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "# AssetsBridge configuration"); err != nil {
		return err
	}
	return toml.NewEncoder(f).Encode(out)
}

func relativeTo(dir, target string) (string, bool) {
	if target == "" || !filepath.IsAbs(target) {
		return "", false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

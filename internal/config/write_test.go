package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteDefault_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := WriteDefault(path, ""); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != defaultConfig {
		t.Error("written file does not match embedded default")
	}
}

func TestWriteDefault_TaskFile(t *testing.T) {
	t.Setenv("ASSETSBRIDGE_TASK_FILE", "/ignored/AssetsBridge.json")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteDefault(path, "/projects/Game/Saved/AssetsBridge.json"); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), defaultTaskFileLine) {
		t.Error("default task_file line was not replaced")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.Bridge.TaskFile, "/projects/Game/Saved/AssetsBridge.json"; got != want {
		t.Errorf("task_file = %q, want %q", got, want)
	}
}

func TestConfig_Write_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Bridge.TaskFile = "/work/AssetsBridge.json"
	cfg.Names.SkeletalPrefix = "SK_"
	cfg.Watch.Debounce = 3 * time.Second
	cfg.Policy = map[string]PolicyConfig{
		"UnrealExport": {UnitScale: 1, AxisSigns: []float64{1, -1, 1}},
	}

	path := filepath.Join(t.TempDir(), "out", "config.toml")
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Bridge.TaskFile != cfg.Bridge.TaskFile {
		t.Errorf("task_file = %q", got.Bridge.TaskFile)
	}
	if got.Names.SkeletalPrefix != "SK_" {
		t.Errorf("skeletal_prefix = %q", got.Names.SkeletalPrefix)
	}
	if got.Watch.Debounce != 3*time.Second {
		t.Errorf("debounce = %s", got.Watch.Debounce)
	}
	if got.Policy["UnrealExport"].AxisSigns[1] != -1 {
		t.Errorf("policy = %+v", got.Policy)
	}
}

func TestConfig_Write_TaskFileInsideProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	cfg := Default()
	cfg.Bridge.TaskFile = filepath.Join(dir, "Saved", "AssetsBridge.json")

	path := filepath.Join(dir, "assetsbridge.toml")
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `task_file = "Saved/AssetsBridge.json"`) {
		t.Errorf("expected relative task_file, got:\n%s", data)
	}
	if cfg.Bridge.TaskFile != filepath.Join(dir, "Saved", "AssetsBridge.json") {
		t.Error("Write modified the receiver")
	}

	// Moving the project keeps the task file beside it.
	moved := filepath.Join(t.TempDir(), "moved")
	if err := os.Rename(dir, moved); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := Load(filepath.Join(moved, "assetsbridge.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(moved, "Saved", "AssetsBridge.json"); got.Bridge.TaskFile != want {
		t.Errorf("task_file = %q, want %q", got.Bridge.TaskFile, want)
	}
}

// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Bridge  BridgeConfig            `toml:"bridge"`
	Log     LogConfig               `toml:"log"`
	History HistoryConfig           `toml:"history"`
	Names   NamesConfig             `toml:"names"`
	Policy  map[string]PolicyConfig `toml:"policy"`
	Watch   WatchConfig             `toml:"watch"`
}

type BridgeConfig struct {
	TaskFile      string `toml:"task_file"`
	MeshExtension string `toml:"mesh_extension"`
	SceneFile     string `toml:"scene_file"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type NamesConfig struct {
	VirtualRoot       string   `toml:"virtual_root"`
	DefaultCollection string   `toml:"default_collection"`
	ReservedRoots     []string `toml:"reserved_roots"`
	StaticPrefix      string   `toml:"static_prefix"`
	SkeletalPrefix    string   `toml:"skeletal_prefix"`
	CollisionPrefix   string   `toml:"collision_prefix"`
	ModelTemplate     string   `toml:"model_template"`
}

// PolicyConfig overrides the unit/axis policy for one document operation.
// Omitted keys keep the operation's default.
type PolicyConfig struct {
	UnitScale           float64   `toml:"unit_scale"`
	ScaleInForeignUnits *bool     `toml:"scale_in_foreign_units"`
	AxisSigns           []float64 `toml:"axis_signs"`
	RotationOffset      []float64 `toml:"rotation_offset"`
}

type WatchConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

// Default values.
const (
	DefaultMeshExtension = "fbx"
	DefaultLogLevel      = "info"
	DefaultDebounce      = 500 * time.Millisecond
)

// Load reads, parses, and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and applies defaults.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg := &Config{History: HistoryConfig{Enabled: true}}
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	// A relative task file is relative to the config file.
	if tf := cfg.Bridge.TaskFile; tf != "" && !strings.HasPrefix(tf, "/") && !filepath.IsAbs(tf) {
		cfg.Bridge.TaskFile = filepath.Join(filepath.Dir(path), tf)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{History: HistoryConfig{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Bridge.MeshExtension == "" {
		c.Bridge.MeshExtension = DefaultMeshExtension
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.History.Path == "" {
		c.History.Path = DefaultDataPath()
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands environment references and returns the names of the
// ones that could not be resolved. Unresolved references are left unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}

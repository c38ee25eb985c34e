package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vmunix/assetsbridge/internal/config"
	"github.com/vmunix/assetsbridge/internal/exporter"
	"github.com/vmunix/assetsbridge/internal/importer"
	"github.com/vmunix/assetsbridge/internal/task"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates TOML syntax, settings, and environment variable substitution without touching any scene.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefault(path, taskFileArg(taskFile)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func printConfigErrors(e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Println("Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Printf("  - %s\n", m)
		}
		fmt.Println()
	}

	if len(e.Errors) > 0 {
		fmt.Println("Validation errors:")
		for _, section := range e.Sections() {
			fmt.Printf("  [%s]\n", section)
			for _, err := range e.Section(section) {
				fmt.Printf("    - %s\n", err)
			}
		}
		fmt.Println()
	}
}

func printConfigSummary(cfg *config.Config) {
	taskFile := cfg.Bridge.TaskFile
	if taskFile == "" {
		taskFile = "(not set)"
	}
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Task file:  %s\n", taskFile)
	fmt.Printf("  Meshes:     .%s\n", cfg.Bridge.MeshExtension)
	fmt.Printf("  Log level:  %s\n", cfg.Log.Level)
	if cfg.History.Enabled {
		fmt.Printf("  History:    %s\n", cfg.History.Path)
	} else {
		fmt.Println("  History:    disabled")
	}

	ops := cfg.Operators("")
	fmt.Printf("  Prefixes:   static %s, skeletal %s, collision %s\n",
		orDefault(ops.StaticPrefix, exporter.DefaultStaticPrefix),
		orDefault(ops.SkeletalPrefix, exporter.DefaultSkeletalPrefix),
		orDefault(ops.CollisionPrefix, importer.DefaultCollisionPrefix))
	fmt.Printf("  Root:       %s\n", ops.Names.VirtualRoot)

	names := make([]string, 0, len(ops.Policies))
	for op := range ops.Policies {
		names = append(names, string(op))
	}
	sort.Strings(names)
	for _, name := range names {
		p := ops.Policies[task.Operation(name)]
		fmt.Printf("  Policy %-14s scale %g, axes %v, offset %v\n", name+":", p.UnitScale, p.AxisSigns, p.RotationOffset)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// taskFileArg makes a --task-file value absolute so the written config does
// not depend on where init was run.
func taskFileArg(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	scenePath  string
	taskFile   string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "assetsbridge",
	Short: "Exchange meshes and transforms with the engine through a task file",
	Long: `assetsbridge - move assets between the scene and the engine

Export writes mesh files plus a JSON task file the engine plugin reads.
Import reads the task file the engine wrote and reconciles the scene.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code for runs that completed with problems.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&scenePath, "scene", "", "Scene snapshot file (overrides bridge.scene_file)")
	rootCmd.PersistentFlags().StringVar(&taskFile, "task-file", "", "Task file (overrides bridge.task_file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("assetsbridge {{.Version}}\n")
}

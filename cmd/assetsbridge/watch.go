package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/vmunix/assetsbridge/internal/bridge"
	"github.com/vmunix/assetsbridge/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Import whenever the engine rewrites the task file",
	Args:  cobra.NoArgs,
	RunE:  runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(createScene)
	if err != nil {
		return err
	}
	defer s.close()

	path := s.taskFile()
	if err := bridge.CheckTaskFile(path); err != nil {
		return err
	}

	b := s.bridge()
	w, err := watch.New(watch.Config{
		TaskFile: path,
		Debounce: s.cfg.Watch.Debounce,
		Logger:   s.log,
		OnChange: func(ctx context.Context) {
			res := b.Import(ctx)
			if res.Import != nil && res.Import.SuccessCount() > 0 {
				if err := s.saveScene(); err != nil {
					s.log.Error("failed to save scene", "path", s.scenePath, "error", err)
				}
			}
			printResult(res)
		},
	})
	if err != nil {
		return err
	}

	err = w.Start(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

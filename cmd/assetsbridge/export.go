package main

import (
	"github.com/spf13/cobra"

	"github.com/vmunix/assetsbridge/internal/bridge"
)

var exportCmd = &cobra.Command{
	Use:   "export [object...]",
	Short: "Export objects and write the task file",
	Long:  "Exports the named root objects, or the scene selection when none are given, and writes the task file for the engine to pick up.",
	RunE:  runExportCmd,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(requireScene)
	if err != nil {
		return err
	}
	defer s.close()

	b := s.bridge()
	var res *bridge.Result
	if len(args) > 0 {
		res = b.Export(cmd.Context(), args)
	} else {
		res = b.ExportSelected(cmd.Context())
	}

	// Export renames and stamps objects, so the snapshot changes too.
	if res.Export != nil && len(res.Export.Units) > 0 {
		if err := s.saveScene(); err != nil {
			return err
		}
	}
	printResult(res)
	return resultError(res)
}

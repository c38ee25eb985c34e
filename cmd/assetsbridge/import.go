package main

import (
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the task file into the scene",
	Long:  "Reads the task file written by the engine, imports every mesh it lists and reconciles the scene hierarchy.",
	Args:  cobra.NoArgs,
	RunE:  runImportCmd,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(createScene)
	if err != nil {
		return err
	}
	defer s.close()

	res := s.bridge().Import(cmd.Context())
	if res.Import != nil && res.Import.SuccessCount() > 0 {
		if err := s.saveScene(); err != nil {
			return err
		}
	}
	printResult(res)
	return resultError(res)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/assetsbridge/internal/task"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <shortName>",
	Short: "Show one unit of the task file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectCmd,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(noScene)
	if err != nil {
		return err
	}
	defer s.close()

	doc, err := task.Load(s.taskFile())
	if err != nil {
		return err
	}

	name := args[0]
	unit, ok := doc.Find(name)
	if !ok {
		return fmt.Errorf("no unit %q in %s%s", name, s.taskFile(), didYouMean(doc.Suggest(name, 3)))
	}

	if jsonOutput {
		printJSON(unit)
		return nil
	}
	printUnit(unit)
	return nil
}

func didYouMean(suggestions []task.Suggestion) string {
	if len(suggestions) == 0 {
		return ""
	}
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = s.ShortName
	}
	return "; did you mean " + strings.Join(names, ", ") + "?"
}

func printUnit(u task.ExportUnit) {
	fmt.Printf("Name:       %s (%s)\n", u.ShortName, u.StringType)
	fmt.Printf("Model:      %s\n", u.Model)
	if u.ObjectID != "" {
		fmt.Printf("Object ID:  %s\n", u.ObjectID)
	}
	fmt.Printf("Path:       %s\n", u.InternalPath)
	fmt.Printf("File:       %s\n", u.ExportLocation)

	w := u.WorldData
	fmt.Printf("Location:   %.4g %.4g %.4g\n", w.Location.X, w.Location.Y, w.Location.Z)
	fmt.Printf("Rotation:   %.4g %.4g %.4g\n", w.Rotation.X, w.Rotation.Y, w.Rotation.Z)
	fmt.Printf("Scale:      %.4g %.4g %.4g\n", w.Scale.X, w.Scale.Y, w.Scale.Z)

	if len(u.ObjectMaterials) > 0 {
		fmt.Println("Materials:")
		for _, m := range u.ObjectMaterials {
			fmt.Printf("  [%d] %s  %s\n", m.Index, m.Name, m.InternalPath)
		}
	}
}

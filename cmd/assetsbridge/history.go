package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/assetsbridge/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past export and import runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryCmd,
}

var (
	historyDirection string
	historyLimit     int
	historyAllFiles  bool
)

func init() {
	historyCmd.Flags().StringVar(&historyDirection, "direction", "", "Filter by direction: export or import")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to show")
	historyCmd.Flags().BoolVar(&historyAllFiles, "all", false, "Include runs for every task file")
	rootCmd.AddCommand(historyCmd)
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(noScene)
	if err != nil {
		return err
	}
	defer s.close()

	filter, err := historyFilter(historyDirection, historyLimit, historyAllFiles, s.taskFile())
	if err != nil {
		return err
	}
	if s.recorder() == nil {
		return errors.New("history is disabled")
	}
	runs, err := s.store.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if jsonOutput {
		printJSON(runs)
		return nil
	}
	printRuns(runs)
	return nil
}

func historyFilter(direction string, limit int, all bool, taskFile string) (history.Filter, error) {
	f := history.Filter{Limit: limit}
	switch direction {
	case "":
	case history.DirectionExport, history.DirectionImport:
		f.Direction = &direction
	default:
		return f, fmt.Errorf("invalid direction %q: must be export or import", direction)
	}
	if !all && taskFile != "" {
		f.TaskFile = &taskFile
	}
	return f, nil
}

func printRuns(runs []*history.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return
	}
	fmt.Printf("%-20s  %-6s  %-13s  %-20s  %5s  %8s\n", "TIME", "DIR", "OPERATION", "STATUS", "UNITS", "FAILURES")
	for _, r := range runs {
		fmt.Printf("%-20s  %-6s  %-13s  %-20s  %5d  %8d\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Direction, r.Operation, r.Status, r.Units, r.Failures)
	}
}

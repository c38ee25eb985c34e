package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/assetsbridge/internal/exporter"
	"github.com/vmunix/assetsbridge/internal/task"
)

// verifyConcurrency bounds parallel stat calls.
const verifyConcurrency = 8

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every mesh file in the task file exists",
	Args:  cobra.NoArgs,
	RunE:  runVerifyCmd,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// VerifyProblem is one unit whose mesh file is unusable.
type VerifyProblem struct {
	ShortName      string `json:"shortName"`
	ExportLocation string `json:"exportLocation"`
	Issue          string `json:"issue"`
}

// VerifyResponse summarises a verify run.
type VerifyResponse struct {
	TaskFile string          `json:"taskFile"`
	Checked  int             `json:"checked"`
	Passed   int             `json:"passed"`
	Problems []VerifyProblem `json:"problems"`
}

func runVerifyCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(noScene)
	if err != nil {
		return err
	}
	defer s.close()

	path := s.taskFile()
	doc, err := task.Load(path)
	if err != nil {
		return err
	}

	problems, err := verifyUnits(cmd.Context(), filepath.Dir(path), doc)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	result := &VerifyResponse{
		TaskFile: path,
		Checked:  len(doc.Objects),
		Passed:   len(doc.Objects) - len(problems),
		Problems: problems,
	}

	if jsonOutput {
		printJSON(result)
	} else {
		printVerifyResult(result)
	}
	if len(problems) > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d problems found", len(problems))}
	}
	return nil
}

// verifyUnits stats every unit's mesh file concurrently. Problems keep document order.
// Engine-written documents may point anywhere, so files outside taskDir are only
// flagged for BlenderExport documents.
func verifyUnits(ctx context.Context, taskDir string, doc *task.Document) ([]VerifyProblem, error) {
	found := make([]*VerifyProblem, len(doc.Objects))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyConcurrency)
	for i, u := range doc.Objects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if issue := checkMeshFile(taskDir, doc.Operation, u.ExportLocation); issue != "" {
				found[i] = &VerifyProblem{ShortName: u.ShortName, ExportLocation: u.ExportLocation, Issue: issue}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var problems []VerifyProblem
	for _, p := range found {
		if p != nil {
			problems = append(problems, *p)
		}
	}
	return problems, nil
}

func checkMeshFile(taskDir string, op task.Operation, path string) string {
	if op == task.OperationBlenderExport {
		if err := exporter.ValidatePath(path, taskDir); err != nil {
			return "outside task directory"
		}
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "missing"
	case err != nil:
		return err.Error()
	case info.IsDir():
		return "is a directory"
	case info.Size() == 0:
		return "empty"
	}
	return ""
}

func printVerifyResult(r *VerifyResponse) {
	fmt.Printf("Checking %d units in %s...\n\n", r.Checked, r.TaskFile)
	fmt.Printf("  Passed:  %d/%d\n", r.Passed, r.Checked)
	if len(r.Problems) == 0 {
		fmt.Println("\nNo problems detected.")
		return
	}

	fmt.Printf("\nProblems (%d):\n\n", len(r.Problems))
	for _, p := range r.Problems {
		fmt.Printf("  %s | %s\n", p.ShortName, p.Issue)
		fmt.Printf("    File: %s\n", p.ExportLocation)
	}
}

package importer

import "github.com/vmunix/assetsbridge/internal/task"

// Phase is the last step a unit reached.
type Phase string

const (
	PhaseResolvingHierarchy Phase = "resolving_hierarchy"
	PhaseImporting          Phase = "importing"
	PhaseReconciling        Phase = "reconciling"
	PhaseDone               Phase = "done"
)

// UnitResult represents the outcome of importing a single unit.
type UnitResult struct {
	ShortName  string
	Collection string   // destination collection
	Objects    []string // objects left in the destination after reconciliation
	Replaced   []string // pre-existing objects updated in place
	Success    bool
	Phase      Phase // failing phase when Success is false
	Error      error // nil if success
}

// DocumentResult is the result of importing a task document.
type DocumentResult struct {
	Operation task.Operation
	Units     []UnitResult
}

// SuccessCount returns the number of units reconciled.
func (r *DocumentResult) SuccessCount() int {
	count := 0
	for _, u := range r.Units {
		if u.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of units skipped because of an error.
func (r *DocumentResult) FailureCount() int {
	return len(r.Units) - r.SuccessCount()
}

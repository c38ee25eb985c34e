package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmunix/assetsbridge/internal/bridge"
)

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

type resultView struct {
	Status  bridge.Status   `json:"status"`
	Reports []bridge.Report `json:"reports"`
}

func printResult(res *bridge.Result) {
	if jsonOutput {
		printJSON(resultView{Status: res.Status, Reports: res.Reports})
		return
	}
	for _, r := range res.Reports {
		fmt.Printf("%-5s %s\n", r.Level, r.Message)
	}
	fmt.Printf("Status: %s\n", res.Status)
}

// resultError maps a run status to the command's exit behaviour.
func resultError(res *bridge.Result) error {
	switch {
	case res.Status == bridge.StatusCancelled:
		return &exitError{code: 2, msg: "operation cancelled"}
	case res.Status == bridge.StatusFinishedWithErrors:
		return &exitError{code: 1, msg: fmt.Sprintf("finished with %d errors", len(res.Errors()))}
	case len(res.Errors()) > 0:
		// Configuration problems finish without touching anything.
		return &exitError{code: 1, msg: res.Errors()[0].Message}
	}
	return nil
}

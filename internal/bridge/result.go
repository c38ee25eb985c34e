package bridge

import (
	"fmt"

	"github.com/vmunix/assetsbridge/internal/exporter"
	"github.com/vmunix/assetsbridge/internal/importer"
)

// Status is the terminal state of an operator run. Operators never fail outright.
type Status string

const (
	StatusFinished           Status = "FINISHED"
	StatusFinishedWithErrors Status = "FINISHED_WITH_ERRORS"
	StatusCancelled          Status = "CANCELLED"
)

// Level is the severity of a report line.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// Report is one user-visible message.
type Report struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Result is what an operator hands back to the host.
type Result struct {
	Status  Status
	Reports []Report
	Export  *exporter.Result         // set by export runs that reached the builder
	Import  *importer.DocumentResult // set by import runs that loaded a document
}

func (r *Result) infof(format string, args ...any) {
	r.Reports = append(r.Reports, Report{Level: LevelInfo, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) errorf(format string, args ...any) {
	r.Reports = append(r.Reports, Report{Level: LevelError, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the error-level reports.
func (r *Result) Errors() []Report {
	var out []Report
	for _, rep := range r.Reports {
		if rep.Level == LevelError {
			out = append(out, rep)
		}
	}
	return out
}

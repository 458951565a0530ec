package watcher

import "fmt"

// Stage names the pipeline step a tick error originated from.
type Stage string

const (
	StageCapture  Stage = "capture"
	StageExtract  Stage = "extract"
	StageClassify Stage = "classify"
	StageStore    Stage = "store"
)

// TickError wraps a pipeline failure with the stage it occurred in, so
// handlers can tell a capture outage from a store outage.
type TickError struct {
	Stage Stage
	Err   error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}

func tickError(stage Stage, err error) *TickError {
	return &TickError{Stage: stage, Err: err}
}

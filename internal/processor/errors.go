package processor

import (
	"fmt"

	"github.com/ZacxDev/story-renderer/pkg/types"
)

// Phase is the part of a run an error happened in.
type Phase string

const (
	PhaseLoad     Phase = "load"
	PhaseValidate Phase = "validate"
	PhaseDownload Phase = "download"
	PhaseProbe    Phase = "probe"
	PhaseResize   Phase = "resize"
	PhaseResolve  Phase = "resolve"
	PhaseCompose  Phase = "compose"
)

// Error is returned by Run for every failure.
type Error struct {
	Phase Phase
	Stage types.StageName // compose only
	Err   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s (%s stage): %v", e.Phase, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(phase Phase, err error) *Error {
	return &Error{Phase: phase, Err: err}
}

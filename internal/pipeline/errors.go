package pipeline

import (
	"errors"
	"fmt"
)

// Phase names a stage of project creation.
type Phase string

const (
	PhaseManifest   Phase = "manifest"
	PhaseRuntime    Phase = "runtime"
	PhaseAnswers    Phase = "answers"
	PhaseTarget     Phase = "target"
	PhaseCompose    Phase = "compose"
	PhaseMerge      Phase = "merge"
	PhaseSubstitute Phase = "substitute"
	PhaseEnv        Phase = "env"
	PhaseGit        Phase = "git"
)

// PhaseError is a fatal failure of one phase.
type PhaseError struct {
	Phase Phase

	// RolledBack is true when the target directory was removed.
	RolledBack bool

	// RollbackErr is set when cleanup itself failed.
	RollbackErr error

	Err error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s phase failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// PhaseOf returns the failed phase of err, or "" when err is not a
// PhaseError.
func PhaseOf(err error) Phase {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Phase
	}
	return ""
}

// Warning is a non-fatal problem reported with a successful result.
type Warning struct {
	Phase   Phase
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("%s: %v", w.Message, w.Err)
	}
	return w.Message
}

package orchestrator

import "errors"

var (
	// ErrPhaseTimeout indicates a gate expired without the expected reply.
	ErrPhaseTimeout = errors.New("orchestrator: phase gate timeout")

	// ErrUnitFailed indicates the expected sender reported a task error.
	ErrUnitFailed = errors.New("orchestrator: unit reported failure")

	// ErrAborted is returned by Run after the terminal abort transition.
	ErrAborted = errors.New("orchestrator: boot sequence aborted")
)

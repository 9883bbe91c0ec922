package core

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceUnavailable is what callers of Ask see for any pipeline failure.
	ErrServiceUnavailable = errors.New("answer service unavailable")

	ErrClassification = errors.New("classification failed")
	ErrRetrieval      = errors.New("retrieval failed")
	ErrGeneration     = errors.New("generation failed")
	ErrHistory        = errors.New("conversation history failed")

	ErrInvalidQuestion = errors.New("question must not be empty")
	ErrChatNotFound    = errors.New("chat not found")
	ErrUserNotFound    = errors.New("user not found")
)

// PipelineError records the stage an ask failed in.
// errors.Is matches its Kind, ErrServiceUnavailable and the cause.
type PipelineError struct {
	Stage string
	Kind  error
	Err   error
}

func NewPipelineError(stage string, kind, err error) *PipelineError {
	return &PipelineError{Stage: stage, Kind: kind, Err: err}
}

func (e *PipelineError) Error() string {
	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() []error {
	return []error{e.Kind, ErrServiceUnavailable, e.Err}
}

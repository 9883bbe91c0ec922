package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineError_Is(t *testing.T) {
	cause := context.DeadlineExceeded
	err := error(NewPipelineError("generating_grounded", ErrGeneration, cause))

	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrRetrieval)
	assert.NotErrorIs(t, err, ErrInvalidQuestion)

	var pe *PipelineError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "generating_grounded", pe.Stage)
	assert.Equal(t, "generating_grounded: generation failed: context deadline exceeded", err.Error())
}

func TestPipelineError_KindAlreadyWrapped(t *testing.T) {
	cause := fmt.Errorf("%w: %w", ErrClassification, errors.New("connection refused"))
	err := NewPipelineError("classifying", ErrClassification, cause)

	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, "classifying: classification failed: connection refused", err.Error())
}

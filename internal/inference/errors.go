package inference

import (
	"errors"
	"fmt"
)

// Validation failures.
var (
	ErrMissingInput      = errors.New("missing input")
	ErrMalformedNumber   = errors.New("malformed number")
	ErrWrongFeatureCount = errors.New("wrong feature count")
)

// ErrInference marks failures raised by the scaler or classifier.
var ErrInference = errors.New("inference failed")

// ValidationError reports input that cannot be turned into a record.
type ValidationError struct {
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Stage names the pipeline step that failed.
type Stage string

// Pipeline stages.
const (
	StageScale    Stage = "scale"
	StageClassify Stage = "classify"
)

// InferenceError reports a scaler or classifier failure.
type InferenceError struct {
	Err   error
	Stage Stage
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%v during %s: %v", ErrInference, e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() []error {
	return []error{ErrInference, e.Err}
}

// UnexpectedError wraps any failure outside the known taxonomy, including
// recovered panics.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

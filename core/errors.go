package core

import (
	"errors"
	"fmt"
)

// ErrEmptyActionSet is returned when action selection is requested over an
// empty legal-action set. This is a programming error on the caller's side.
var ErrEmptyActionSet = errors.New("empty legal action set")

// ConfigError reports an invalid option value at construction time.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %q: %s", e.Option, e.Reason)
}

// ComputationError reports a numeric failure while building gradient
// targets. The whole batch is abandoned; nothing is submitted for training.
type ComputationError struct {
	Op    string
	Value float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s produced non-finite value %v", e.Op, e.Value)
}

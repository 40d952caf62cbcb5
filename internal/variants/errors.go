package variants

import (
	"errors"
	"fmt"
)

// ErrNoBaseResume is returned when generation is attempted without a resolved base
var ErrNoBaseResume = errors.New("base resume is required")

// BaseMismatchError reports a resolved base that is not the one the input names
type BaseMismatchError struct {
	Requested string
	Resolved  string
}

func (e *BaseMismatchError) Error() string {
	return fmt.Sprintf("base resume mismatch: input names %q but %q was supplied", e.Requested, e.Resolved)
}

// InputError wraps a VariantGenerationInput that failed validation
type InputError struct {
	Cause error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid generation input: %v", e.Cause)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

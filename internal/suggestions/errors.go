package suggestions

import "fmt"

// GenerationError reports a failed model round-trip for one section
type GenerationError struct {
	SectionID string
	Message   string
	Cause     error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("suggestion generation failed for section %s: %s: %v", e.SectionID, e.Message, e.Cause)
	}
	return fmt.Sprintf("suggestion generation failed for section %s: %s", e.SectionID, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

package borelog

import "fmt"

// ValidationError reports a construction-time invariant violation in the
// tokenized input, such as a layer depth entry spanning two pages. These
// indicate upstream extraction bugs and are not recoverable.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a programming error inside the matching engine,
// such as reducing over an empty collection. The page orchestrator skips the
// offending pair and continues with the rest of the document.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition: " + e.Reason
}

func preconditionErrorf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

package models

import "fmt"

// ValidationError signals a structurally malformed input. It is the only
// error class that aborts the pipeline before retrieval begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

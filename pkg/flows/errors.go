package flows

import "fmt"

// ConflictError reports a uniqueness check that found an existing record.
// The boundary maps it to a client error, never a server error.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already taken", e.Field, e.Value)
}

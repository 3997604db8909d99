package generator

import "fmt"

// GenError is a custom error type for generator errors
type GenError struct {
	Message string
}

func (e GenError) Error() string {
	return fmt.Sprintf("generator error: %s", e.Message)
}

// ErrEmptyEntries is returned when a manifest summary is requested for an
// empty entry batch. This is caller misuse, not a transient condition.
var ErrEmptyEntries = GenError{Message: "manifest entries are empty: invalid test data"}

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(msg string) error {
	return GenError{Message: fmt.Sprintf("invalid config: %s", msg)}
}

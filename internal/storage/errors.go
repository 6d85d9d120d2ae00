package storage

import "fmt"

// LoadError reports a stored record that could not be turned into a snapshot.
type LoadError struct {
	Key     string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Key, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

package registrar

import (
	"errors"
	"fmt"
	"strings"

	"pathboot/internal/model"
)

// ErrMachineScope is returned when asked to register into the machine scope.
var ErrMachineScope = errors.New("registering into the machine scope is not supported")

// ErrEmptyDirectory is returned when asked to register a blank directory.
var ErrEmptyDirectory = errors.New("directory is empty")

// NotFoundError reports that no candidate directory held the marker file.
// It is not fatal: callers skip registration.
type NotFoundError struct {
	Marker     string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("%s not found", e.Marker)
	}
	return fmt.Sprintf("%s not found in any of: %s", e.Marker, strings.Join(e.Candidates, ", "))
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// PersistenceWriteError reports that the environment store rejected a write.
type PersistenceWriteError struct {
	Scope model.Scope
	Err   error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("persisting %s search path: %v", e.Scope, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error {
	return e.Err
}

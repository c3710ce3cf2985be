package params

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict is returned (wrapped in a ConflictError) when two sketch options cannot be used together
var ErrConflict = errors.New("conflicting options")

// ConflictError names the options that cannot be combined
type ConflictError struct {
	Flags  []string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("options %s are incompatible", strings.Join(e.Flags, " and "))
}

// Unwrap lets errors.Is match ErrConflict
func (e *ConflictError) Unwrap() error { return ErrConflict }

// Validate rejects contradictory parameters, checking the rules in order and returning the first failure
func Validate(parameters *Parameters) error {
	if parameters.Reads && !parameters.Concatenated {
		return &ConflictError{
			Flags:  []string{"-i", "-r"},
			Reason: "the option -i cannot be used with -r",
		}
	}

	// reserved: windowed sketching is never enabled from the command line at the moment
	if parameters.Concatenated && parameters.Windowed {
		return &ConflictError{
			Flags:  []string{"concatenated", "windowed"},
			Reason: "concatenated sketching (the default, see -i) and windowed sketching are incompatible",
		}
	}
	return nil
}

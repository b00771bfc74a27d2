package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, workload.ErrNoEligibleCandidates):
		return NewCLIError("nobody can take this work right now",
			"Run 'teambalance roster' to see who is holding active items", err)
	case errors.Is(err, workload.ErrNoLowPerformer):
		return NewCLIError("everyone is at or above 80% of their prorated target",
			"Use --strategy lowest_done or lowest_total instead of under_80", err)
	case errors.Is(err, workload.ErrInvalidSelection):
		return NewCLIError("the selection cannot be made",
			"Check the strategy name and, for --strategy specific, the --candidate id", err)
	}

	return err
}

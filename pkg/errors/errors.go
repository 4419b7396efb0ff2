package errors

import (
	"fmt"
	"strings"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures manifest validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MutualExclusionError reports two fields that may not be declared together
// on the same item.
type MutualExclusionError struct {
	Dest   string
	Fields [2]string
}

// NewMutualExclusionError constructs a MutualExclusionError.
func NewMutualExclusionError(dest, a, b string) error {
	return &MutualExclusionError{Dest: dest, Fields: [2]string{a, b}}
}

func (e *MutualExclusionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%q and %q are mutually exclusive (dest %s)", e.Fields[0], e.Fields[1], e.Dest)
}

// MissingFieldError reports a field that a state requires but the item did
// not supply, such as line for a presence-mode line edit.
type MissingFieldError struct {
	Dest  string
	State string
	Field string
}

// NewMissingFieldError constructs a MissingFieldError.
func NewMissingFieldError(dest, state, field string) error {
	return &MissingFieldError{Dest: dest, State: state, Field: field}
}

func (e *MissingFieldError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%q is required for state %s (dest %s)", e.Field, e.State, e.Dest)
}

// GuardProbeError reports a failed filesystem probe for a creates/removes
// guard. A probe that cannot answer is a failure, never treated as absent.
type GuardProbeError struct {
	Guard string
	Path  string
	Err   error
}

// NewGuardProbeError constructs a GuardProbeError.
func NewGuardProbeError(guard, path string, err error) error {
	return &GuardProbeError{Guard: guard, Path: path, Err: err}
}

func (e *GuardProbeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("cannot probe %s path %s: %v", e.Guard, e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *GuardProbeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConflictError reports a destination that exists in an incompatible form
// while force is false.
type ConflictError struct {
	Path   string
	Detail string
}

// NewConflictError constructs a ConflictError.
func NewConflictError(path, detail string) error {
	return &ConflictError{Path: path, Detail: detail}
}

func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("path %s %s; use force to replace it", e.Path, e.Detail)
}

// CommandValidationError reports a validate command that exited nonzero. The
// destination is guaranteed untouched when this error is returned.
type CommandValidationError struct {
	Cmd      string
	ExitCode int
	Stdout   string
	Stderr   string
}

// NewCommandValidationError constructs a CommandValidationError.
func NewCommandValidationError(cmd string, exitCode int, stdout, stderr string) error {
	return &CommandValidationError{Cmd: cmd, ExitCode: exitCode, Stdout: stdout, Stderr: stderr}
}

func (e *CommandValidationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "validation command failed (exit %d): %s", e.ExitCode, e.Cmd)
	if out := strings.TrimSpace(e.Stdout); out != "" {
		fmt.Fprintf(&b, "\nstdout: %s", out)
	}
	if errOut := strings.TrimSpace(e.Stderr); errOut != "" {
		fmt.Fprintf(&b, "\nstderr: %s", errOut)
	}
	return b.String()
}

// ExecutionError represents a runtime failure while converging an item.
type ExecutionError struct {
	Dest string
	Err  error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(dest string, err error) error {
	return &ExecutionError{Dest: dest, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Dest != "" {
		return fmt.Sprintf("execution error on %s: %v", e.Dest, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

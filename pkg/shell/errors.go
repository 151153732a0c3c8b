package shell

import (
	stderrors "errors"
	"fmt"

	"github.com/rileyhilliard/shellkit/internal/errors"
)

// ValidationError reports a missing, unknown or invalid argument or option.
// The session renders it followed by the command's help and keeps running.
type ValidationError struct {
	Command string
	Message string
	err     *errors.Error
}

func newValidationError(command, message string) *ValidationError {
	suggestion := ""
	if command != "" {
		suggestion = fmt.Sprintf("Run '%s --help' for usage.", command)
	}
	return &ValidationError{
		Command: command,
		Message: message,
		err:     errors.New(errors.ErrValidation, message, suggestion),
	}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.err }

// ResolutionError reports input that matched no command. Group is set when
// the input named a command group, in which case group help is rendered
// instead of general help.
type ResolutionError struct {
	Input string
	Group string
	err   *errors.Error
}

func newResolutionError(input, group string) *ResolutionError {
	msg := "Invalid command."
	if group != "" {
		msg = fmt.Sprintf("'%s' is a command group.", group)
	}
	return &ResolutionError{
		Input: input,
		Group: group,
		err:   errors.New(errors.ErrResolution, msg, "Type 'help' to list commands."),
	}
}

func (e *ResolutionError) Error() string { return errors.Message(e.err) }

func (e *ResolutionError) Unwrap() error { return e.err }

// wrapAction turns a handler error into an action failure. Errors that are
// already classified pass through.
func wrapAction(command string, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsCode(err, errors.ErrValidation) || errors.IsCode(err, errors.ErrAction) {
		return err
	}
	return errors.WrapWithCode(err, errors.ErrAction, fmt.Sprintf("Command '%s' failed", command), "")
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return errors.IsCode(err, errors.ErrValidation) }

// IsResolution reports whether err is a ResolutionError.
func IsResolution(err error) bool { return errors.IsCode(err, errors.ErrResolution) }

// IsAction reports whether err came from a failed command handler.
func IsAction(err error) bool { return errors.IsCode(err, errors.ErrAction) }

// FatalInvariant is the panic value for framework logic errors such as
// executing with no session. These are never user input problems.
type FatalInvariant string

func (f FatalInvariant) String() string { return "shell: " + string(f) }

func invariant(msg string) {
	panic(FatalInvariant(msg))
}

func asError[T error](err error, target *T) bool {
	return stderrors.As(err, target)
}

// unwrapCause returns the handler's own error for an action failure.
func unwrapCause(err error) error {
	var se *errors.Error
	if stderrors.As(err, &se) && se.Code == errors.ErrAction {
		return se.Cause
	}
	return nil
}

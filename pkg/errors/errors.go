package errors

import (
	goerrors "errors"
	"fmt"
)

// New returns an error with the given message.
func New(format string, a ...interface{}) error {
	if len(a) == 0 {
		return goerrors.New(format)
	}
	return fmt.Errorf(format, a...)
}

// Is and As are re-exported so that callers only need to import this package.
var (
	Is = goerrors.Is
	As = goerrors.As
)

type contextError struct {
	err     error
	context string
}

// WithContext annotates `err` with a short description of what was being
// attempted when it occurred. The resulting message is "context: err".
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return contextError{err: err, context: context}
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err contextError) Unwrap() error {
	return err.err
}

// RootCause strips all context from `err` and returns the innermost error.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(contextError)
		if !ok {
			return err
		}
		err = ctxErr.err
	}
}

// FriendlyError is an error whose message is fit to show to users without
// any of the context that was attached while it propagated.
type FriendlyError struct {
	msg string
}

// NewFriendlyError creates a FriendlyError with a formatted message.
func NewFriendlyError(format string, a ...interface{}) FriendlyError {
	return FriendlyError{msg: fmt.Sprintf(format, a...)}
}

func (err FriendlyError) Error() string {
	return err.msg
}

// FriendlyMessage returns the message to show the user.
func (err FriendlyError) FriendlyMessage() string {
	return err.msg
}

// Friendly is implemented by errors that carry a user-facing message.
type Friendly interface {
	FriendlyMessage() string
}

// GetFriendlyMessage returns the user-facing message of the first Friendly
// error in the chain of `err`.
func GetFriendlyMessage(err error) (string, bool) {
	var friendly Friendly
	if goerrors.As(err, &friendly) {
		return friendly.FriendlyMessage(), true
	}
	return "", false
}

package errors

import "github.com/pkg/errors"

// StackTracer is satisfied by errors that carry a stack trace, notably the
// github.com/pkg/errors wrappers and ErrorTracer itself.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// ErrorTracer pairs a caller-facing message with the underlying cause.
// The cause always carries a stack trace, captured at wrap time when the
// original error has none. The logger pulls the trace out through the
// StackTracer interface.
// E.g. NewTracer("failed to publish match event").Wrap(err).
type ErrorTracer struct {
	// Message is the caller-facing description, returned by Error().
	Message string

	// Err is the wrapped cause, returned by Unwrap().
	Err error
}

// NewTracer creates an ErrorTracer with the given message and no cause yet.
// Chain Wrap to attach the cause.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError wraps an existing error, reusing its message.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

// Wrap attaches the cause, capturing a stack trace if the error does not
// already carry one. Returns the tracer for chaining.
func (t *ErrorTracer) Wrap(err error) *ErrorTracer {
	t.Err = ensureStack(err)
	return t
}

// Error implements the `error` interface.
func (t *ErrorTracer) Error() string {
	return t.Message
}

// Unwrap exposes the cause to the errors.Is / errors.As chain.
func (t *ErrorTracer) Unwrap() error {
	return t.Err
}

// StackTrace returns the cause's stack trace, or nil if there is no cause.
func (t *ErrorTracer) StackTrace() errors.StackTrace {
	if traced, ok := t.Err.(StackTracer); ok {
		return traced.StackTrace()
	}
	return nil
}

// ensureStack leaves already-traced errors untouched so the trace points at
// the original failure site, not at the re-wrap.
func ensureStack(err error) error {
	if _, ok := err.(StackTracer); ok {
		return err
	}
	return errors.WithStack(err)
}

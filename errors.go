package rdx

import (
	"fmt"
)

type (
	// ConnectionClosedError is returned when an operation is attempted on a
	// Session that has already been closed by the caller. A closed
	// connection never reconnects, so this is always terminal for the
	// operation that observed it.
	ConnectionClosedError struct{}

	// AuthenticationError is returned when the server rejects AUTH. It is
	// terminal: the Session will not retry the connection attempt, no
	// matter how much retry budget remains.
	AuthenticationError struct {
		Message string
	}

	// ErrorReply wraps a RESP2 error reply (a line beginning with '-').
	// It is a normal, recoverable outcome scoped to the command that
	// produced it; it never poisons the connection.
	ErrorReply struct {
		// Command is the command that produced the error, when known.
		Command string
		Message string
	}

	// InvalidStateError signals a protocol violation or a type mismatch
	// on a reply accessor: an unknown leading byte, a missing CRLF after
	// a bulk payload, or a caller reading a reply as the wrong shape.
	InvalidStateError struct {
		Message string
	}

	// SubscriptionClosedError is returned by Subscribe/PSubscribe/
	// Unsubscribe/PUnsubscribe when the Subscription is closed before the
	// call or while it waits for acknowledgment. Message iteration itself
	// ends by the Messages() channel being closed.
	SubscriptionClosedError struct{}

	// RetryExhaustedError is surfaced when the retry budget for an
	// operation (connection establishment, or a mux reissue) is used up.
	// It wraps the last underlying transport error observed.
	RetryExhaustedError struct {
		Attempts int
		Err      error
	}
)

func (e *ConnectionClosedError) Error() string { return "rdx: connection closed" }

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("rdx: authentication failed: %s", e.Message)
}

func (e *ErrorReply) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("rdx: %s: %s", e.Command, e.Message)
	}
	return fmt.Sprintf("rdx: %s", e.Message)
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("rdx: invalid state: %s", e.Message)
}

func (e *SubscriptionClosedError) Error() string { return "rdx: subscription closed" }

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("rdx: retry budget exhausted after %d attempts: %s", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

func invalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

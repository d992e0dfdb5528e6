package rdx

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// isRetriableFault classifies a transport error as one that a higher-level
// executor may treat as "the connection is broken, not the command" and
// retry after a reconnect: broken pipe, connection aborted/refused/reset,
// unexpected EOF, or a released/bad resource. Errors attributable to a
// deliberate close (net.ErrClosed) are never retriable -- a closed
// connection never reconnects.
func isRetriableFault(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Err != nil && isClosedNetworkConnection(opErr.Err) {
			return false
		}
		return true
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.EPIPE, syscall.ECONNRESET, syscall.ECONNABORTED, syscall.ECONNREFUSED:
			return true
		}
	}

	msg := err.Error()
	for _, needle := range []string{
		"broken pipe",
		"connection reset",
		"connection aborted",
		"connection refused",
		"use of closed network connection",
		"bad file descriptor",
	} {
		if strings.Contains(msg, needle) {
			return needle != "use of closed network connection"
		}
	}

	return false
}

func isClosedNetworkConnection(err error) bool {
	return strings.Contains(err.Error(), "use of closed network connection")
}

// isAlreadyClosedError reports whether err merely indicates that a socket
// was already closed -- Session.Close swallows these so that closing an
// already-dead connection is not itself an error.
func isAlreadyClosedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, net.ErrClosed) || isClosedNetworkConnection(err)
}

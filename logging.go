package rdx

import "log"

type (
	// Logger is an interface to the logger the client writes to.
	Logger interface {
		// Printf logs a message. Arguments should be handled in the manner of fmt.Printf.
		Printf(format string, args ...interface{})
	}

	defaultLogger struct{}
	nilLogger     struct{}
)

// NilLogger discards everything written to it. It is the default logger
// used in tests that don't care about log output.
var NilLogger Logger = &nilLogger{}

// NewNilLogger constructs a no-op Logger.
func NewNilLogger() Logger { return &nilLogger{} }

func (l *defaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

func (l *nilLogger) Printf(format string, args ...interface{}) {
}

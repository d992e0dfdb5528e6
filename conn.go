package rdx

import (
	"crypto/tls"
	"net"
	"time"
)

// Transport abstracts a single, feature-minimal byte-stream connection to
// the server: a plain TCP socket or a TLS-wrapped one, which is all the
// wire codec ever needs. Tests substitute an in-memory pipe for Transport
// so Session and the executors can be exercised without a real socket.
type Transport interface {
	net.Conn
}

// DialFunc creates a Transport to the server or returns an error. It is
// the one extension point Session depends on; tests inject a DialFunc
// that hands back an in-memory pipe instead of dialing a real socket.
type DialFunc func() (Transport, error)

// dialOptions carries the subset of clientConfig that governs dialing.
type dialOptions struct {
	addr           string
	tlsConfig      *tls.Config
	connectTimeout time.Duration
}

// makeDialer returns a DialFunc that dials addr over TCP, or over TLS when
// opts.tlsConfig is non-nil. crypto/tls is the standard transport library
// the spec assumes TLS is delegated to: the codec never distinguishes a
// tls.Conn from a plain net.Conn.
func makeDialer(opts dialOptions) DialFunc {
	return func() (Transport, error) {
		dialer := &net.Dialer{Timeout: opts.connectTimeout}

		if opts.tlsConfig == nil {
			conn, err := dialer.Dial("tcp", opts.addr)
			if err != nil {
				return nil, err
			}
			return conn, nil
		}

		conn, err := tls.DialWithDialer(dialer, "tcp", opts.addr, opts.tlsConfig)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

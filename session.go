package rdx

import (
	"bufio"
	"context"
	"crypto/tls"
	"strconv"
	"sync"
	"time"

	"github.com/bradhe/stopwatch"
	"github.com/efritz/glock"
	"github.com/efritz/overcurrent"
)

// BreakerFunc bridges the interface between the Call function of an
// overcurrent breaker and an overcurrent registry, exactly as it did in
// the teacher client -- it just now wraps a connection dial instead of a
// full redigo Do call.
type BreakerFunc func(overcurrent.BreakerFunc) error

func noopBreakerFunc(f overcurrent.BreakerFunc) error {
	return f(context.Background())
}

// sessionConfig is the subset of clientConfig a Session needs; Client
// builds one from its own clientConfig when constructing the Session.
type sessionConfig struct {
	addr           string
	tlsConfig      *tls.Config
	username       string
	password       string
	database       int
	clientName     string
	connectTimeout time.Duration
	maxRetryCount  int
	backoff        BackoffFunc
	logger         Logger
	clock          glock.Clock
	breakerFunc    BreakerFunc
	dial           DialFunc
}

// Session owns a single socket to the server: dialing, the post-connect
// handshake (AUTH, SELECT, CLIENT SETNAME), and reconnection with backoff.
// A Session is constructed disconnected; Connect establishes the first
// link. Once closed by the caller, a Session never reconnects.
//
// Executors that share a Session run their wire I/O through WithIO, which
// holds ioMu for one encode+decode round trip, so only one of them uses
// the reader/writer halves at a time; mu separately guards the Session's
// own state transitions (connect/reconnect/close).
type Session struct {
	cfg sessionConfig

	mu         sync.Mutex
	transport  Transport
	reader     *Reader
	writer     *bufio.Writer
	closed     bool
	connected  bool
	retryCount int

	// ioMu serializes wire I/O on this Session. A Multiplexer and a
	// Pipeline may both be built over the same Session (a Subscription
	// always gets its own, dedicated one), so for them this excludes one
	// executor's writes/reads from interleaving mid-frame with another's.
	// For a Subscription's own dedicated Session, it instead excludes an
	// in-flight issue() write from a concurrent reconnectAndReplay's
	// transport swap and replay writes, both of which also take it --
	// via ReconnectAndThen, in one acquisition, so nothing can land a
	// write in the gap between reconnect finishing and replay starting.
	ioMu sync.Mutex
}

// WithIO runs f while holding this Session's I/O lock, so no other
// executor's Do/Flush can interleave a write or read on the same
// connection in the meantime.
func (s *Session) WithIO(f func() error) error {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	return f()
}

// NewSession constructs a disconnected Session. Call Connect before use.
func NewSession(cfg sessionConfig) *Session {
	if cfg.backoff == nil {
		cfg.backoff = defaultBackoff()
	}
	if cfg.logger == nil {
		cfg.logger = NilLogger
	}
	if cfg.clock == nil {
		cfg.clock = glock.NewRealClock()
	}
	if cfg.breakerFunc == nil {
		cfg.breakerFunc = noopBreakerFunc
	}
	if cfg.dial == nil {
		cfg.dial = makeDialer(dialOptions{
			addr:           cfg.addr,
			tlsConfig:      cfg.tlsConfig,
			connectTimeout: cfg.connectTimeout,
		})
	}
	if cfg.maxRetryCount == 0 {
		cfg.maxRetryCount = 10
	}
	return &Session{cfg: cfg}
}

// Connect establishes the connection, retrying transport failures up to
// cfg.maxRetryCount times with backoff between attempts. Authentication
// failure is terminal and is never retried.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked()
}

func (s *Session) connectLocked() error {
	if s.closed {
		return &ConnectionClosedError{}
	}
	if s.connected {
		return nil
	}

	watch := stopwatch.Start()
	transport, err := s.dialWithBreaker()
	if err != nil {
		s.cfg.logger.Printf("rdx: dial failed after %vms (%s)", watch.Stop().Milliseconds(), err)
		return s.retryOrFail(err)
	}

	reader := NewReader(transport)
	writer := bufio.NewWriter(transport)

	if err := s.handshake(reader, writer); err != nil {
		_ = transport.Close()
		if isRetriableFault(err) {
			s.cfg.logger.Printf("rdx: handshake failed after %vms (%s), retrying",
				watch.Stop().Milliseconds(), err)
			return s.retryOrFail(err)
		}
		return err
	}

	s.transport = transport
	s.reader = reader
	s.writer = writer
	s.connected = true
	s.retryCount = 0

	s.cfg.logger.Printf("rdx: connected to %s after %vms", s.cfg.addr, watch.Stop().Milliseconds())
	return nil
}

func (s *Session) dialWithBreaker() (Transport, error) {
	var conn Transport
	err := s.cfg.breakerFunc(func(ctx context.Context) error {
		c, derr := s.cfg.dial()
		conn = c
		return derr
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// retryOrFail is called while s.mu is held, after a dial failure or a
// transport fault during the handshake. It
// increments the retry counter, sleeps for the backoff delay (via the
// injectable clock, so tests can drive it deterministically), and
// recurses into connectLocked -- or gives up once the budget is spent.
func (s *Session) retryOrFail(err error) error {
	s.retryCount++
	if s.retryCount > s.cfg.maxRetryCount {
		attempts := s.retryCount
		s.retryCount = 0
		return &RetryExhaustedError{Attempts: attempts, Err: err}
	}

	delay := s.cfg.backoff(s.retryCount)
	s.cfg.logger.Printf("rdx: connect attempt %d/%d failed (%s), retrying in %s",
		s.retryCount, s.cfg.maxRetryCount, err, delay)

	<-s.cfg.clock.After(delay)
	return s.connectLocked()
}

// handshake runs AUTH (if credentials are set), SELECT (if db != 0), and
// CLIENT SETNAME (if a client name is set), in that order, on a freshly
// dialed transport. A protocol-level rejection (bad credentials, a SELECT
// or CLIENT SETNAME error reply) is terminal for this connection attempt,
// since a repeat attempt would fail identically; a transport fault mid
// handshake is routed through the same retryOrFail path as a dial
// failure, since it says nothing about the credentials or database index
// being wrong.
func (s *Session) handshake(r *Reader, w *bufio.Writer) error {
	if s.cfg.password != "" {
		args := make([]CommandArg, 0, 2)
		if s.cfg.username != "" {
			args = append(args, Text(s.cfg.username))
		}
		args = append(args, Text(s.cfg.password))

		reply, err := doOnce(w, r, "AUTH", args)
		if err != nil {
			return err
		}
		if rerr := reply.Err(); rerr != nil {
			return &AuthenticationError{Message: rerr.Error()}
		}
	}

	if s.cfg.database != 0 {
		reply, err := doOnce(w, r, "SELECT", []CommandArg{Text(strconv.Itoa(s.cfg.database))})
		if err != nil {
			return err
		}
		if rerr := reply.Err(); rerr != nil {
			return rerr
		}
	}

	if s.cfg.clientName != "" {
		reply, err := doOnce(w, r, "CLIENT", []CommandArg{Text("SETNAME"), Text(s.cfg.clientName)})
		if err != nil {
			return err
		}
		if rerr := reply.Err(); rerr != nil {
			return rerr
		}
	}

	return nil
}

func doOnce(w *bufio.Writer, r *Reader, name string, args []CommandArg) (*Reply, error) {
	if err := EncodeCommand(w, name, args); err != nil {
		return nil, err
	}
	return DecodeReply(r)
}

// Reconnect probes the current connection with PING; on a healthy reply it
// marks the session connected and returns. On any failure it closes the
// stale socket (swallowing already-closed transport faults) and runs
// establishment from scratch, which itself may retry with backoff.
func (s *Session) Reconnect() error {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	return s.reconnectLocked()
}

// ReconnectAndThen reconnects and, if that succeeds, runs f -- all under
// one ioMu acquisition. A caller that needs to replay state on the fresh
// connection (Subscription's resubscribe) must use this instead of
// Reconnect followed by a separate WithIO call: the two-call version
// leaves a gap between reconnect completing and the replay write where a
// concurrent issue() could land its own write first and have its ack
// misread by the replay's blind drainAcks.
func (s *Session) ReconnectAndThen(f func() error) error {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	if err := s.reconnectLocked(); err != nil {
		return err
	}
	return f()
}

func (s *Session) reconnectLocked() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &ConnectionClosedError{}
	}

	if s.transport != nil && s.ping() {
		s.connected = true
		return nil
	}

	s.connected = false
	if s.transport != nil {
		if err := s.transport.Close(); err != nil && !isAlreadyClosedError(err) {
			s.cfg.logger.Printf("rdx: error closing stale connection: %s", err)
		}
		s.transport = nil
	}

	return s.connectLocked()
}

func (s *Session) ping() bool {
	reply, err := doOnce(s.writer, s.reader, "PING", nil)
	if err != nil {
		return false
	}
	return reply.Err() == nil
}

// Close sets the closed and not-connected flags and closes the underlying
// socket idempotently. A closed Session never reconnects.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.connected = false

	if s.transport == nil {
		return nil
	}
	err := s.transport.Close()
	s.transport = nil
	if err != nil && !isAlreadyClosedError(err) {
		return err
	}
	return nil
}

// IsClosed reports whether the caller has closed this Session.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// IsConnected reports whether the link is currently believed usable.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Writer returns the current writer half. Executors must re-fetch this
// after every Reconnect, since the underlying buffer is replaced.
func (s *Session) Writer() *bufio.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer
}

// Reader returns the current reader half. Executors must re-fetch this
// after every Reconnect, since the underlying buffer is replaced.
func (s *Session) Reader() *Reader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader
}

package rdx

import (
	"bufio"
	"errors"
	"net"
	"time"

	"github.com/aphistic/sweet"
	"github.com/efritz/glock"
	. "github.com/onsi/gomega"
)

type SessionSuite struct{}

// pipeDial returns a DialFunc that hands back one side of an in-memory
// net.Pipe each call, along with the matching server-side net.Conn so the
// test can play the part of the remote server.
func pipeDial() (DialFunc, <-chan net.Conn) {
	servers := make(chan net.Conn, 16)
	return func() (Transport, error) {
		client, server := net.Pipe()
		servers <- server
		return client, nil
	}, servers
}

// serve runs a tiny scripted server loop against conn: for each incoming
// command it ignores the parsed content and writes the next canned reply
// line from replies, in order.
func serve(conn net.Conn, replies ...string) {
	go func() {
		r := NewReader(conn)
		w := bufio.NewWriter(conn)
		for _, reply := range replies {
			if _, err := DecodeReply(r); err != nil {
				return
			}
			if _, err := w.WriteString(reply); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}()
}

func (s *SessionSuite) TestConnectNoHandshake(t sweet.T) {
	dial, servers := pipeDial()
	session := NewSession(sessionConfig{
		addr:   "test",
		dial:   dial,
		logger: NilLogger,
		clock:  glock.NewRealClock(),
	})

	go func() {
		conn := <-servers
		_ = conn
	}()

	Expect(session.Connect()).To(BeNil())
	Expect(session.IsConnected()).To(BeTrue())
}

func (s *SessionSuite) TestHandshakeAuthSelectClientName(t sweet.T) {
	dial, servers := pipeDial()
	session := NewSession(sessionConfig{
		addr:       "test",
		dial:       dial,
		username:   "app",
		password:   "secret",
		database:   3,
		clientName: "rdx-test",
		logger:     NilLogger,
		clock:      glock.NewRealClock(),
	})

	go func() {
		conn := <-servers
		serve(conn, "+OK\r\n", "+OK\r\n", "+OK\r\n")
	}()

	Expect(session.Connect()).To(BeNil())
}

func (s *SessionSuite) TestAuthFailureIsTerminal(t sweet.T) {
	dial, servers := pipeDial()
	session := NewSession(sessionConfig{
		addr:          "test",
		dial:          dial,
		password:      "wrong",
		maxRetryCount: 10,
		logger:        NilLogger,
		clock:         glock.NewRealClock(),
	})

	go func() {
		conn := <-servers
		serve(conn, "-WRONGPASS invalid username-password pair\r\n")
	}()

	err := session.Connect()
	Expect(err).To(HaveOccurred())
	var authErr *AuthenticationError
	Expect(errors.As(err, &authErr)).To(BeTrue())
}

func (s *SessionSuite) TestConnectRetriesWithBackoffThenSucceeds(t sweet.T) {
	attempt := 0
	clock := glock.NewMockClock()

	dial := func() (Transport, error) {
		attempt++
		if attempt < 3 {
			return nil, errors.New("connection refused")
		}
		client, server := net.Pipe()
		serve(server)
		return client, nil
	}

	session := NewSession(sessionConfig{
		addr:          "test",
		dial:          dial,
		maxRetryCount: 10,
		backoff:       func(n int) time.Duration { return time.Duration(n) * time.Millisecond },
		logger:        NilLogger,
		clock:         clock,
	})

	done := make(chan error, 1)
	go func() { done <- session.Connect() }()

	clock.BlockingAdvance(time.Millisecond)
	clock.BlockingAdvance(2 * time.Millisecond)

	Eventually(done).Should(Receive(BeNil()))
	Expect(attempt).To(Equal(3))
}

func (s *SessionSuite) TestRetryExhausted(t sweet.T) {
	dial := func() (Transport, error) {
		return nil, errors.New("connection refused")
	}

	session := NewSession(sessionConfig{
		addr:          "test",
		dial:          dial,
		maxRetryCount: 2,
		backoff:       func(n int) time.Duration { return 0 },
		logger:        NilLogger,
		clock:         glock.NewRealClock(),
	})

	err := session.Connect()
	Expect(err).To(HaveOccurred())
	var exhausted *RetryExhaustedError
	Expect(errors.As(err, &exhausted)).To(BeTrue())
	Expect(exhausted.Attempts).To(Equal(3))
}

func (s *SessionSuite) TestCloseIsIdempotentAndTerminal(t sweet.T) {
	dial, servers := pipeDial()
	session := NewSession(sessionConfig{
		addr:   "test",
		dial:   dial,
		logger: NilLogger,
		clock:  glock.NewRealClock(),
	})

	go func() {
		conn := <-servers
		_ = conn
	}()

	Expect(session.Connect()).To(BeNil())
	Expect(session.Close()).To(BeNil())
	Expect(session.Close()).To(BeNil())
	Expect(session.IsClosed()).To(BeTrue())

	err := session.Connect()
	var closedErr *ConnectionClosedError
	Expect(errors.As(err, &closedErr)).To(BeTrue())
}

func (s *SessionSuite) TestReconnectProbesWithPing(t sweet.T) {
	dial, servers := pipeDial()
	session := NewSession(sessionConfig{
		addr:   "test",
		dial:   dial,
		logger: NilLogger,
		clock:  glock.NewRealClock(),
	})

	go func() {
		conn := <-servers
		serve(conn, "+PONG\r\n")
	}()

	Expect(session.Connect()).To(BeNil())
	Expect(session.Reconnect()).To(BeNil())
	Expect(session.IsConnected()).To(BeTrue())
}

package rdx

import "sync"

type (
	muxRequest struct {
		cmd    Command
		result chan muxResult
	}

	muxResult struct {
		reply *Reply
		err   error
	}

	// Multiplexer serializes command submissions from any number of
	// concurrent callers over one Session. It is the default executor
	// for ad-hoc commands: each Do call enqueues a request and blocks
	// until its reply is resolved, but the FIFO queue and a single
	// drain goroutine ensure that exactly one command is ever in
	// flight on the underlying connection.
	Multiplexer struct {
		session *Session
		logger  Logger

		mu       sync.Mutex
		queue    []*muxRequest
		draining bool
	}
)

// NewMultiplexer constructs a Multiplexer over session.
func NewMultiplexer(session *Session, logger Logger) *Multiplexer {
	if logger == nil {
		logger = NilLogger
	}
	return &Multiplexer{session: session, logger: logger}
}

// Do submits (command, args) and blocks until the server's reply for this
// specific submission is resolved. Concurrent callers are unbounded on the
// submission side; replies are delivered to callers in the exact order
// they were submitted.
func (m *Multiplexer) Do(command string, args ...interface{}) (*Reply, error) {
	if m.session.IsClosed() {
		return nil, &ConnectionClosedError{}
	}

	req := &muxRequest{
		cmd:    NewCommand(command, args...),
		result: make(chan muxResult, 1),
	}
	m.enqueue(req)

	res := <-req.result
	return res.reply, res.err
}

func (m *Multiplexer) enqueue(req *muxRequest) {
	m.mu.Lock()
	m.queue = append(m.queue, req)
	shouldStart := !m.draining
	if shouldStart {
		m.draining = true
	}
	m.mu.Unlock()

	if shouldStart {
		go m.drain()
	}
}

// maxConsecutiveHeadFaults bounds how many times drain will reissue the
// same head command after a retriable fault before giving up on it. A
// single bad reconnect is the common case (Reconnect itself already
// retries the dial with backoff), but a flapping endpoint that accepts
// a reconnect's PING and then immediately resets every subsequent
// write/read would otherwise busy-loop this goroutine forever.
const maxConsecutiveHeadFaults = 10

// drain repeatedly issues the head of the queue until it is empty. Exactly
// one drain goroutine runs at a time; enqueue only starts a new one when
// none is already running.
func (m *Multiplexer) drain() {
	faults := 0

	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.draining = false
			m.mu.Unlock()
			return
		}
		req := m.queue[0]
		m.mu.Unlock()

		reply, err := m.issue(req.cmd)

		if err != nil && isRetriableFault(err) {
			faults++
			if faults > maxConsecutiveHeadFaults {
				err = &RetryExhaustedError{Attempts: faults, Err: err}
				faults = 0
			} else if rerr := m.session.Reconnect(); rerr == nil {
				// Reissue the same head on the next loop iteration
				// instead of popping it.
				continue
			} else {
				err = rerr
				faults = 0
			}
		} else {
			faults = 0
		}

		m.mu.Lock()
		m.queue = m.queue[1:]
		m.mu.Unlock()

		req.result <- muxResult{reply: reply, err: err}
	}
}

func (m *Multiplexer) issue(cmd Command) (*Reply, error) {
	if !m.session.IsConnected() {
		if err := m.session.Connect(); err != nil {
			return nil, err
		}
	}

	var reply *Reply
	err := m.session.WithIO(func() error {
		w := m.session.Writer()
		r := m.session.Reader()

		if err := EncodeCommand(w, cmd.Name, filterArgsNonNil(cmd.Args)); err != nil {
			return err
		}
		var derr error
		reply, derr = DecodeReply(r)
		return derr
	})
	return reply, err
}

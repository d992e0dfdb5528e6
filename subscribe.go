package rdx

import (
	"sync"

	"github.com/ferrohq/rdx/iface"
)

// Message is one pub/sub delivery. Pattern is empty for a plain
// "message" delivery (exact-channel subscribe) and set to the matched
// pattern for a "pmessage" delivery (pattern subscribe).
type Message = iface.Message

var _ iface.Subscription = (*Subscription)(nil)

type ackResult struct {
	kind string
	name string
	err  error
}

// Subscription dedicates a Session exclusively to pub/sub: once the first
// SUBSCRIBE/PSUBSCRIBE ack is read, every subsequent frame on the
// connection is an unsolicited push, so a Subscription and a command
// executor must never share a connection concurrently (see §4.6/§9 of the
// spec this implements).
type Subscription struct {
	session *Session
	logger  Logger

	// issueMu serializes entire Subscribe/PSubscribe/Unsubscribe/
	// PUnsubscribe calls, not just the write: ackCh is shared by every
	// in-flight issue() call, so two calls racing would each be able to
	// consume acks meant for the other. Only one call may be waiting on
	// ackCh at a time.
	issueMu sync.Mutex

	mu       sync.Mutex
	channels map[string]struct{}
	patterns map[string]struct{}

	ackCh    chan ackResult
	messages chan *Message

	startOnce sync.Once
	startErr  error
	closeOnce sync.Once
	closedCh  chan struct{}
}

// NewSubscription constructs a Subscription over session. The receive
// loop is started lazily on the first Subscribe/PSubscribe call.
func NewSubscription(session *Session, logger Logger) *Subscription {
	if logger == nil {
		logger = NilLogger
	}
	return &Subscription{
		session:  session,
		logger:   logger,
		channels: map[string]struct{}{},
		patterns: map[string]struct{}{},
		ackCh:    make(chan ackResult),
		messages: make(chan *Message, 64),
		closedCh: make(chan struct{}),
	}
}

// Subscribe issues SUBSCRIBE for the given exact channels and waits for
// the server to acknowledge each one before returning.
func (s *Subscription) Subscribe(channels ...string) error {
	return s.issue("SUBSCRIBE", "subscribe", channels, true, s.channels)
}

// PSubscribe issues PSUBSCRIBE for the given glob patterns and waits for
// the server to acknowledge each one before returning.
func (s *Subscription) PSubscribe(patterns ...string) error {
	return s.issue("PSUBSCRIBE", "psubscribe", patterns, true, s.patterns)
}

// Unsubscribe issues UNSUBSCRIBE for the given exact channels.
func (s *Subscription) Unsubscribe(channels ...string) error {
	return s.issue("UNSUBSCRIBE", "unsubscribe", channels, false, s.channels)
}

// PUnsubscribe issues PUNSUBSCRIBE for the given glob patterns.
func (s *Subscription) PUnsubscribe(patterns ...string) error {
	return s.issue("PUNSUBSCRIBE", "punsubscribe", patterns, false, s.patterns)
}

// Messages returns the channel of incoming pub/sub messages. It is closed
// when the Subscription is closed; a pending iterator simply observes the
// channel close and stops.
func (s *Subscription) Messages() <-chan *Message {
	return s.messages
}

func (s *Subscription) issue(command, ackKind string, names []string, add bool, state map[string]struct{}) error {
	if len(names) == 0 {
		return nil
	}
	if s.isClosed() {
		return &SubscriptionClosedError{}
	}

	if err := s.ensureStarted(); err != nil {
		return err
	}

	// Held for the whole call, not just the write: ackCh is shared by
	// every issue() call, so only one may be waiting on it at a time or
	// two concurrent calls could each consume acks meant for the other.
	s.issueMu.Lock()
	defer s.issueMu.Unlock()

	// WithIO excludes this write from reconnectAndReplay's transport swap
	// and replay writes, which run concurrently on recvLoop's goroutine.
	err := s.session.WithIO(func() error {
		return EncodeCommand(s.session.Writer(), command, textArgs(names))
	})
	if err != nil {
		return err
	}

	remaining := len(names)
	for remaining > 0 {
		select {
		case ack := <-s.ackCh:
			if ack.err != nil {
				return ack.err
			}
			if ack.kind != ackKind {
				continue
			}
			s.mu.Lock()
			if add {
				state[ack.name] = struct{}{}
			} else {
				delete(state, ack.name)
			}
			s.mu.Unlock()
			remaining--
		case <-s.closedCh:
			return &SubscriptionClosedError{}
		}
	}
	return nil
}

// ensureStarted connects the session and starts recvLoop on the first
// call only. A connect failure is cached and returned to every caller
// of issue(), including ones after the first: Session.Connect already
// exhausts its own retry budget before returning an error, so there is
// nothing useful left for a later call to retry, and recvLoop must never
// start against a Session with no reader/writer established.
func (s *Subscription) ensureStarted() error {
	s.startOnce.Do(func() {
		if s.session.IsConnected() {
			go s.recvLoop()
			return
		}
		if err := s.session.Connect(); err != nil {
			s.startErr = err
			return
		}
		go s.recvLoop()
	})
	return s.startErr
}

// recvLoop is the Subscription's single reader goroutine. It decodes
// every frame off the connection and routes it either to ackCh (a
// subscribe/unsubscribe confirmation awaited by an issue() call) or to
// messages (an unsolicited "message"/"pmessage" push). On a retriable
// transport fault it reconnects and replays every channel and pattern
// still held in local state before resuming -- any messages published
// during the gap are unrecoverable, a documented limitation of pub/sub.
//
// Any exit from this loop other than an already-requested Close tears
// the whole Subscription down: without that, every issue() call blocked
// on ackCh (or one that starts afterward) would wait forever, since
// nothing would ever read another reply off the connection again.
func (s *Subscription) recvLoop() {
	defer close(s.messages)
	defer func() { _ = s.Close() }()

	for {
		select {
		case <-s.closedCh:
			return
		default:
		}

		reply, err := DecodeReply(s.session.Reader())
		if err != nil {
			if s.isClosed() {
				return
			}
			if !isRetriableFault(err) {
				s.logger.Printf("rdx: subscription decode error: %s", err)
				return
			}
			if rerr := s.reconnectAndReplay(); rerr != nil {
				s.logger.Printf("rdx: subscription reconnect failed: %s", rerr)
				return
			}
			continue
		}

		if rerr := reply.Err(); rerr != nil {
			// A command-level rejection (e.g. a malformed SUBSCRIBE) is
			// delivered as a plain error reply instead of a push array;
			// it answers whichever issue() call is currently waiting.
			select {
			case s.ackCh <- ackResult{err: rerr}:
			case <-s.closedCh:
				return
			}
			continue
		}

		frame, ferr := reply.Array()
		if ferr != nil || len(frame) < 3 {
			s.logger.Printf("rdx: subscription received malformed push frame")
			continue
		}

		kind, err := frame[0].Text()
		if err != nil {
			continue
		}

		switch kind {
		case "subscribe", "unsubscribe", "psubscribe", "punsubscribe":
			name, _ := frame[1].Text()
			select {
			case s.ackCh <- ackResult{kind: kind, name: name}:
			case <-s.closedCh:
				return
			}

		case "message":
			channel, _ := frame[1].Text()
			payload, _ := frame[2].Bytes()
			s.deliver(&Message{Channel: channel, Payload: payload})

		case "pmessage":
			if len(frame) < 4 {
				continue
			}
			pattern, _ := frame[1].Text()
			channel, _ := frame[2].Text()
			payload, _ := frame[3].Bytes()
			s.deliver(&Message{Pattern: pattern, Channel: channel, Payload: payload})

		default:
			s.logger.Printf("rdx: subscription received unexpected push kind %q", kind)
		}
	}
}

func (s *Subscription) deliver(m *Message) {
	select {
	case s.messages <- m:
	case <-s.closedCh:
	}
}

// reconnectAndReplay is called from within recvLoop, so it owns the
// connection exclusively while it runs: ReconnectAndThen holds ioMu
// across both the reconnect and the replay writes below, in one
// acquisition, so a concurrent issue() call's write cannot land in the
// gap between reconnect finishing and replay starting.
func (s *Subscription) reconnectAndReplay() error {
	s.mu.Lock()
	channels := keys(s.channels)
	patterns := keys(s.patterns)
	s.mu.Unlock()

	return s.session.ReconnectAndThen(func() error {
		w := s.session.Writer()
		r := s.session.Reader()

		if len(channels) > 0 {
			if err := EncodeCommand(w, "SUBSCRIBE", textArgs(channels)); err != nil {
				return err
			}
			if err := drainAcks(r, len(channels)); err != nil {
				return err
			}
		}
		if len(patterns) > 0 {
			if err := EncodeCommand(w, "PSUBSCRIBE", textArgs(patterns)); err != nil {
				return err
			}
			if err := drainAcks(r, len(patterns)); err != nil {
				return err
			}
		}
		return nil
	})
}

func drainAcks(r *Reader, n int) error {
	for i := 0; i < n; i++ {
		if _, err := DecodeReply(r); err != nil {
			return err
		}
	}
	return nil
}

func textArgs(names []string) []CommandArg {
	args := make([]CommandArg, len(names))
	for i, n := range names {
		args[i] = Text(n)
	}
	return args
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func (s *Subscription) isClosed() bool {
	select {
	case <-s.closedCh:
		return true
	default:
		return false
	}
}

// Close closes the underlying connection and terminates iteration: any
// pending or future read from Messages() observes the channel close.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.closedCh)
	})
	return s.session.Close()
}

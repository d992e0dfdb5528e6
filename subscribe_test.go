package rdx

import (
	"bufio"
	"net"
	"strconv"
	"time"

	"github.com/aphistic/sweet"
	"github.com/efritz/glock"
	. "github.com/onsi/gomega"
)

type SubscriptionSuite struct{}

func subscriptionSession() (*Session, net.Conn) {
	client, server := net.Pipe()
	session := NewSession(sessionConfig{
		addr:   "test",
		dial:   func() (Transport, error) { return client, nil },
		logger: NilLogger,
		clock:  glock.NewRealClock(),
	})
	return session, server
}

func writeArray(w *bufio.Writer, parts ...string) {
	w.WriteString("*" + strconv.Itoa(len(parts)) + "\r\n")
	for _, p := range parts {
		w.WriteString("$" + strconv.Itoa(len(p)) + "\r\n" + p + "\r\n")
	}
	w.Flush()
}

func (s *SubscriptionSuite) TestSubscribeReturnsConnectErrorInsteadOfPanicking(t sweet.T) {
	session := NewSession(sessionConfig{
		addr:          "test",
		dial:          func() (Transport, error) { return nil, &net.OpError{Op: "dial", Err: net.ErrClosed} },
		logger:        NilLogger,
		clock:         glock.NewRealClock(),
		maxRetryCount: 0,
	})

	sub := NewSubscription(session, NilLogger)
	err := sub.Subscribe("news")
	Expect(err).To(HaveOccurred())

	// A second call must see the same cached failure, not panic on a
	// nil reader/writer from a recvLoop that should never have started.
	err = sub.Subscribe("news")
	Expect(err).To(HaveOccurred())
}

func (s *SubscriptionSuite) TestSubscribeAcksAndTracksState(t sweet.T) {
	session, server := subscriptionSession()

	go func() {
		r := NewReader(server)
		w := bufio.NewWriter(server)
		if _, err := DecodeReply(r); err != nil {
			return
		}
		writeArray(w, "subscribe", "news", "1")
	}()

	sub := NewSubscription(session, NilLogger)
	err := sub.Subscribe("news")
	Expect(err).To(BeNil())

	sub.mu.Lock()
	_, tracked := sub.channels["news"]
	sub.mu.Unlock()
	Expect(tracked).To(BeTrue())
}

func (s *SubscriptionSuite) TestMessageDelivery(t sweet.T) {
	session, server := subscriptionSession()

	go func() {
		r := NewReader(server)
		w := bufio.NewWriter(server)
		if _, err := DecodeReply(r); err != nil {
			return
		}
		writeArray(w, "subscribe", "news", "1")
		writeArray(w, "message", "news", "hello")
	}()

	sub := NewSubscription(session, NilLogger)
	Expect(sub.Subscribe("news")).To(BeNil())

	var msg *Message
	Eventually(sub.Messages(), time.Second).Should(Receive(&msg))
	Expect(msg.Channel).To(Equal("news"))
	Expect(string(msg.Payload)).To(Equal("hello"))
}

func (s *SubscriptionSuite) TestPatternMessageDelivery(t sweet.T) {
	session, server := subscriptionSession()

	go func() {
		r := NewReader(server)
		w := bufio.NewWriter(server)
		if _, err := DecodeReply(r); err != nil {
			return
		}
		writeArray(w, "psubscribe", "news.*", "1")
		writeArray(w, "pmessage", "news.*", "news.sports", "goal")
	}()

	sub := NewSubscription(session, NilLogger)
	Expect(sub.PSubscribe("news.*")).To(BeNil())

	var msg *Message
	Eventually(sub.Messages(), time.Second).Should(Receive(&msg))
	Expect(msg.Pattern).To(Equal("news.*"))
	Expect(msg.Channel).To(Equal("news.sports"))
	Expect(string(msg.Payload)).To(Equal("goal"))
}

// TestReconnectReplaysTrackedChannels forces a fault on the first
// connection right after it acks a Subscribe call, then asserts that
// the second connection receives a replayed SUBSCRIBE for the same
// channel (without any caller-initiated re-Subscribe) and that message
// delivery resumes on it -- the "subscribe replay" invariant.
func (s *SubscriptionSuite) TestReconnectReplaysTrackedChannels(t sweet.T) {
	dial, servers := pipeDial()
	session := NewSession(sessionConfig{
		addr:   "test",
		dial:   dial,
		logger: NilLogger,
		clock:  glock.NewRealClock(),
	})

	go func() {
		firstServer := <-servers
		r := NewReader(firstServer)
		w := bufio.NewWriter(firstServer)
		if _, err := DecodeReply(r); err != nil {
			return
		}
		writeArray(w, "subscribe", "news", "1")
		firstServer.Close()
	}()

	replayed := make(chan string, 1)
	go func() {
		secondServer := <-servers
		r := NewReader(secondServer)
		w := bufio.NewWriter(secondServer)
		reply, err := DecodeReply(r)
		if err != nil {
			return
		}
		frame, _ := reply.Array()
		name, _ := frame[1].Text()
		replayed <- name
		writeArray(w, "subscribe", "news", "1")
		writeArray(w, "message", "news", "hello-again")
	}()

	sub := NewSubscription(session, NilLogger)
	Expect(sub.Subscribe("news")).To(BeNil())

	Eventually(replayed, time.Second).Should(Receive(Equal("news")))

	var msg *Message
	Eventually(sub.Messages(), time.Second).Should(Receive(&msg))
	Expect(msg.Channel).To(Equal("news"))
	Expect(string(msg.Payload)).To(Equal("hello-again"))
}

func (s *SubscriptionSuite) TestNonRetriableDecodeErrorUnblocksPendingCalls(t sweet.T) {
	session, server := subscriptionSession()

	go func() {
		r := NewReader(server)
		w := bufio.NewWriter(server)
		if _, err := DecodeReply(r); err != nil {
			return
		}
		writeArray(w, "subscribe", "news", "1")

		if _, err := DecodeReply(r); err != nil {
			return
		}
		// Not a valid frame tag: a non-retriable InvalidStateError, not
		// a transport fault, so recvLoop must give up rather than retry.
		w.WriteString("!garbage\r\n")
		w.Flush()
	}()

	sub := NewSubscription(session, NilLogger)
	Expect(sub.Subscribe("news")).To(BeNil())

	err := sub.Unsubscribe("news")
	Expect(err).To(HaveOccurred())
	Eventually(sub.Messages()).Should(BeClosed())
}

func (s *SubscriptionSuite) TestCommandRejectionUnblocksWaitingCall(t sweet.T) {
	session, server := subscriptionSession()

	go func() {
		r := NewReader(server)
		w := bufio.NewWriter(server)
		if _, err := DecodeReply(r); err != nil {
			return
		}
		w.WriteString("-ERR wrong number of arguments\r\n")
		w.Flush()
	}()

	sub := NewSubscription(session, NilLogger)
	err := sub.Subscribe("news")
	Expect(err).To(HaveOccurred())
}

func (s *SubscriptionSuite) TestCloseStopsIteration(t sweet.T) {
	session, server := subscriptionSession()

	go func() {
		r := NewReader(server)
		w := bufio.NewWriter(server)
		if _, err := DecodeReply(r); err != nil {
			return
		}
		writeArray(w, "subscribe", "news", "1")
	}()

	sub := NewSubscription(session, NilLogger)
	Expect(sub.Subscribe("news")).To(BeNil())

	Expect(sub.Close()).To(BeNil())
	Eventually(sub.Messages()).Should(BeClosed())
}

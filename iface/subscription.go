package iface

// Subscription dedicates a connection to pub/sub: it streams messages for
// a set of exact channels and glob patterns, and must resubscribe to all
// of them after any reconnect so the caller's message stream is
// uninterrupted (modulo messages published during the outage, which are
// not recoverable).
type Subscription interface {
	// Subscribe adds exact channels to listen on.
	Subscribe(channels ...string) error

	// PSubscribe adds glob patterns to listen on.
	PSubscribe(patterns ...string) error

	// Unsubscribe removes exact channels.
	Unsubscribe(channels ...string) error

	// PUnsubscribe removes glob patterns.
	PUnsubscribe(patterns ...string) error

	// Messages returns the channel of incoming pub/sub messages. It is
	// closed when the Subscription is closed.
	Messages() <-chan *Message

	// Close closes the underlying connection and terminates iteration.
	Close() error
}

// Message is one pub/sub delivery: Pattern is empty for a plain
// "message" delivery and set to the matched pattern for a "pmessage"
// delivery.
type Message struct {
	Pattern string
	Channel string
	Payload []byte
}

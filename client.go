package rdx

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/efritz/glock"
	"github.com/efritz/overcurrent"
)

type (
	// Client is the package's public entry point: it wires a Session to
	// the three execution strategies behind functional-option
	// configuration. A Client is safe for concurrent use by multiple
	// goroutines through Do/Pipeline/Transaction; Subscribe hands out a
	// dedicated Subscription that owns its own connection.
	Client interface {
		// Do submits a single command through the shared Multiplexer and
		// blocks for its reply.
		Do(command string, args ...interface{}) (*Reply, error)

		// Pipeline returns a fresh, non-transactional Pipeline bound to
		// this client's connection.
		Pipeline() *Pipeline

		// Transaction queues commands and flushes them bracketed in
		// MULTI/EXEC, returning the per-command replies EXEC produced.
		Transaction(commands ...Command) ([]*Reply, error)

		// Subscribe opens a dedicated Subscription, connects it, and
		// subscribes it to the given exact channels before returning.
		Subscribe(channels ...string) (*Subscription, error)

		// PSubscribe is like Subscribe but for glob patterns.
		PSubscribe(patterns ...string) (*Subscription, error)

		// Close closes the shared connection. Any Subscription obtained
		// from Subscribe/PSubscribe owns its own connection and must be
		// closed separately.
		Close() error
	}

	client struct {
		session *Session
		mux     *Multiplexer
		logger  Logger
	}

	clientConfig struct {
		addr           string
		username       string
		password       string
		database       int
		clientName     string
		tlsConfig      *tls.Config
		connectTimeout time.Duration
		maxRetryCount  int
		backoff        BackoffFunc
		breakerFunc    BreakerFunc
		clock          glock.Clock
		logger         Logger
	}

	// ConfigFunc is a function used to initialize a new client.
	ConfigFunc func(*clientConfig)
)

// NewClient creates a new Client dialing addr ("host:port"). The returned
// Client is constructed disconnected; the first Do/Pipeline flush/
// Subscribe call establishes the connection.
func NewClient(addr string, configs ...ConfigFunc) Client {
	config := &clientConfig{
		addr:           addr,
		connectTimeout: 5 * time.Second,
		maxRetryCount:  10,
		breakerFunc:    noopBreakerFunc,
		clock:          glock.NewRealClock(),
		logger:         &defaultLogger{},
	}

	for _, f := range configs {
		f(config)
	}

	session := NewSession(sessionConfig{
		addr:           config.addr,
		tlsConfig:      config.tlsConfig,
		username:       config.username,
		password:       config.password,
		database:       config.database,
		clientName:     config.clientName,
		connectTimeout: config.connectTimeout,
		maxRetryCount:  config.maxRetryCount,
		backoff:        config.backoff,
		logger:         config.logger,
		clock:          config.clock,
		breakerFunc:    config.breakerFunc,
	})

	return &client{
		session: session,
		mux:     NewMultiplexer(session, config.logger),
		logger:  config.logger,
	}
}

// NewClientFromURL parses a redis://[username:password@]host:port[/database]
// URL (rediss:// selects TLS) and constructs a Client from it. The parser is
// a best-effort internal helper, not a hardened public surface: it reads
// only the fields the connection configuration model understands, returns
// an error for an unsupported scheme or a non-integer database path, and
// ignores any query string or fragment.
func NewClientFromURL(rawURL string, configs ...ConfigFunc) (Client, error) {
	parsed, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return NewClient(parsed.addr, append(parsed.configs, configs...)...), nil
}

type parsedURL struct {
	addr    string
	configs []ConfigFunc
}

func parseURL(rawURL string) (*parsedURL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("rdx: invalid connection URL: %w", err)
	}

	var configs []ConfigFunc

	switch u.Scheme {
	case "redis":
	case "rediss":
		configs = append(configs, WithTLS(&tls.Config{}))
	default:
		return nil, invalidState("unsupported connection URL scheme %q", u.Scheme)
	}

	addr := u.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "6379")
	}

	if u.User != nil {
		if username := u.User.Username(); username != "" {
			configs = append(configs, WithUsername(username))
		}
		if password, ok := u.User.Password(); ok {
			configs = append(configs, WithPassword(password))
		}
	}

	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		db, err := strconv.Atoi(path)
		if err != nil {
			return nil, invalidState("connection URL database index %q is not an integer", path)
		}
		configs = append(configs, WithDatabase(db))
	}

	return &parsedURL{addr: addr, configs: configs}, nil
}

// WithUsername sets the ACL username sent alongside AUTH (default is "",
// meaning the legacy single-argument AUTH form is used when a password is
// set).
func WithUsername(username string) ConfigFunc {
	return func(c *clientConfig) { c.username = username }
}

// WithPassword sets the password (default is "", meaning no AUTH is sent).
func WithPassword(password string) ConfigFunc {
	return func(c *clientConfig) { c.password = password }
}

// WithDatabase sets the logical database index selected via SELECT after
// connecting (default is 0, which skips SELECT entirely).
func WithDatabase(database int) ConfigFunc {
	return func(c *clientConfig) { c.database = database }
}

// WithClientName sets the name reported via CLIENT SETNAME after
// connecting (default is "", which skips CLIENT SETNAME entirely).
func WithClientName(name string) ConfigFunc {
	return func(c *clientConfig) { c.clientName = name }
}

// WithTLS enables TLS on the connection using the given configuration.
func WithTLS(tlsConfig *tls.Config) ConfigFunc {
	return func(c *clientConfig) { c.tlsConfig = tlsConfig }
}

// WithConnectTimeout sets the dial timeout for new connections (default is
// 5 seconds).
func WithConnectTimeout(timeout time.Duration) ConfigFunc {
	return func(c *clientConfig) { c.connectTimeout = timeout }
}

// WithMaxRetryCount sets the number of retries attempted, with backoff,
// while establishing a connection (on first connect or on reconnect)
// before giving up (default is 10).
func WithMaxRetryCount(count int) ConfigFunc {
	return func(c *clientConfig) { c.maxRetryCount = count }
}

// WithBackoff overrides the default truncated-exponential-with-jitter
// backoff policy used between connection attempts.
func WithBackoff(backoff BackoffFunc) ConfigFunc {
	return func(c *clientConfig) { c.backoff = backoff }
}

// WithBreaker sets the circuit breaker instance wrapped around each dial
// attempt. The default uses a no-op circuit breaker.
func WithBreaker(breaker overcurrent.CircuitBreaker) ConfigFunc {
	return func(c *clientConfig) { c.breakerFunc = breaker.Call }
}

// WithBreakerRegistry sets the overcurrent registry to use and the name of
// the circuit breaker config to use around each dial attempt. The default
// uses a no-op circuit breaker.
func WithBreakerRegistry(registry overcurrent.Registry, name string) ConfigFunc {
	return func(c *clientConfig) {
		c.breakerFunc = func(f overcurrent.BreakerFunc) error {
			return registry.Call(name, f, nil)
		}
	}
}

// WithLogger sets the logger instance (the default writes through Go's
// builtin log package).
func WithLogger(logger Logger) ConfigFunc {
	return func(c *clientConfig) { c.logger = logger }
}

// withClock overrides the clock backoff sleeps wait on; unexported because
// it exists for deterministic tests, not for production callers.
func withClock(clock glock.Clock) ConfigFunc {
	return func(c *clientConfig) { c.clock = clock }
}

func (c *client) Do(command string, args ...interface{}) (*Reply, error) {
	return c.mux.Do(command, args...)
}

func (c *client) Pipeline() *Pipeline {
	return NewPipeline(c.session, c.logger, false)
}

func (c *client) Transaction(commands ...Command) ([]*Reply, error) {
	p := NewPipeline(c.session, c.logger, true)
	for _, cmd := range commands {
		p.AddCommand(cmd)
	}
	return p.Flush()
}

func (c *client) Subscribe(channels ...string) (*Subscription, error) {
	sub := c.newSubscription()
	if err := sub.Subscribe(channels...); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}

func (c *client) PSubscribe(patterns ...string) (*Subscription, error) {
	sub := c.newSubscription()
	if err := sub.PSubscribe(patterns...); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}

// newSubscription builds a Subscription over a fresh Session that mirrors
// this client's connection configuration: a subscription must never share
// a connection with the Multiplexer or a Pipeline, so it cannot reuse
// c.session.
func (c *client) newSubscription() *Subscription {
	subSession := NewSession(c.session.cfg)
	return NewSubscription(subSession, c.logger)
}

func (c *client) Close() error {
	return c.session.Close()
}

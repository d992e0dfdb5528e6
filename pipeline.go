package rdx

import "sync"

// Pipeline accumulates command submissions instead of sending them
// immediately; Flush sends every queued command in a single buffered
// write and returns the ordered replies. It implements the same
// submission shape as Multiplexer (Add mirrors Do) but is deferred rather
// than blocking: Add never talks to the network.
//
// In transactional mode, Flush brackets the queued commands with MULTI
// and EXEC frames, so the server buffers and atomically executes them;
// non-transactional flush makes no atomicity guarantee of its own.
type Pipeline struct {
	session       *Session
	logger        Logger
	transactional bool

	mu       sync.Mutex
	commands []Command
}

// NewPipeline constructs a Pipeline over session. When transactional is
// true, Flush wraps the batch in MULTI/EXEC.
func NewPipeline(session *Session, logger Logger, transactional bool) *Pipeline {
	if logger == nil {
		logger = NilLogger
	}
	return &Pipeline{session: session, logger: logger, transactional: transactional}
}

// Add attaches a command to this pipeline. It is not sent until Flush is
// called, and never blocks on the network.
func (p *Pipeline) Add(command string, args ...interface{}) {
	p.mu.Lock()
	p.commands = append(p.commands, NewCommand(command, args...))
	p.mu.Unlock()
}

// AddCommand is like Add but accepts an already-built Command, useful for
// callers forwarding Commands built elsewhere (e.g. Client.Transaction).
func (p *Pipeline) AddCommand(cmd Command) {
	p.mu.Lock()
	p.commands = append(p.commands, cmd)
	p.mu.Unlock()
}

// Flush atomically snapshots and clears the queue, then delegates the
// snapshot to the codec's batched send. If the snapshot is empty, it
// returns an empty slice without touching the network. A transport fault
// during flush propagates to the caller; the queue has already been
// cleared by then, so the Pipeline is left in a well-defined empty state
// regardless of outcome. Multiple flushes on the same Pipeline are
// allowed.
func (p *Pipeline) Flush() ([]*Reply, error) {
	p.mu.Lock()
	snapshot := p.commands
	p.commands = nil
	p.mu.Unlock()

	if len(snapshot) == 0 {
		return nil, nil
	}

	batch := snapshot
	if p.transactional {
		batch = make([]Command, 0, len(snapshot)+2)
		batch = append(batch, NewCommand("MULTI"))
		batch = append(batch, snapshot...)
		batch = append(batch, NewCommand("EXEC"))
	}

	if !p.session.IsConnected() {
		if err := p.session.Connect(); err != nil {
			return nil, err
		}
	}

	var replies []*Reply
	err := p.session.WithIO(func() error {
		w := p.session.Writer()
		r := p.session.Reader()

		var serr error
		replies, serr = SendCommands(w, r, batch)
		return serr
	})
	if err != nil {
		p.logger.Printf("rdx: pipeline flush of %d commands failed: %s", len(batch), err)
		return replies, err
	}

	if p.transactional {
		return unwrapTransaction(replies)
	}
	return replies, nil
}

// unwrapTransaction strips the MULTI/QUEUED bookkeeping replies from a
// transactional flush and surfaces EXEC's array of per-command results as
// the user-visible reply list. If EXEC replied with an error (e.g. a
// queuing error caused the server to discard the transaction), the whole
// raw reply list, MULTI/QUEUED frames included, is returned unmodified
// with a nil error so the caller can inspect each frame. If EXEC returned
// a nil array, the transaction was aborted and an *InvalidStateError is
// returned instead.
func unwrapTransaction(raw []*Reply) ([]*Reply, error) {
	if len(raw) == 0 {
		return raw, nil
	}

	exec := raw[len(raw)-1]
	if exec.Err() != nil {
		return raw, nil
	}
	if exec.IsNil() {
		return nil, invalidState("transaction aborted by the server (EXEC returned nil)")
	}

	results, err := exec.Array()
	if err != nil {
		return nil, err
	}
	return results, nil
}

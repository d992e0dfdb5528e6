package rdx

// Executor is the minimal submission surface the typed command surface
// needs: something that can take a command name and arguments and return
// the decoded reply. Both *Multiplexer and the Client facade satisfy it,
// so Commands can be layered over either.
type Executor interface {
	Do(command string, args ...interface{}) (*Reply, error)
}

// Commands is a thin, hand-written (not code-generated) typed wrapper over
// an Executor. Every method here is a mechanical translation: typed
// arguments to (command, args), submit, decode the reply into the typed
// return value. None of these methods contain protocol logic of their
// own -- that lives entirely in the codec and the executors.
type Commands struct {
	exec Executor
}

// NewCommands wraps exec with the typed command surface.
func NewCommands(exec Executor) *Commands {
	return &Commands{exec: exec}
}

func wantInt(reply *Reply, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	if rerr := reply.Err(); rerr != nil {
		return 0, rerr
	}
	return reply.Int()
}

func wantBytes(reply *Reply, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if rerr := reply.Err(); rerr != nil {
		return nil, rerr
	}
	return reply.Bytes()
}

func wantText(reply *Reply, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if rerr := reply.Err(); rerr != nil {
		return "", rerr
	}
	return reply.Text()
}

func wantBool(reply *Reply, err error) (bool, error) {
	n, err := wantInt(reply, err)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func wantOK(reply *Reply, err error) error {
	if err != nil {
		return err
	}
	return reply.Err()
}

func wantStrings(reply *Reply, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	if rerr := reply.Err(); rerr != nil {
		return nil, rerr
	}
	items, err := reply.Array()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, err := item.Text()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func wantBytesSlice(reply *Reply, err error) ([][]byte, error) {
	if err != nil {
		return nil, err
	}
	if rerr := reply.Err(); rerr != nil {
		return nil, rerr
	}
	items, err := reply.Array()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(items))
	for i, item := range items {
		if item.IsNil() {
			continue
		}
		b, err := item.Bytes()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Del deletes the given keys, returning the number removed.
func (c *Commands) Del(keys ...string) (int64, error) {
	return wantInt(c.exec.Do("DEL", toArgs(keys)...))
}

// Exists reports how many of the given keys exist.
func (c *Commands) Exists(keys ...string) (int64, error) {
	return wantInt(c.exec.Do("EXISTS", toArgs(keys)...))
}

// Expire sets a TTL, in seconds, on key. Returns false if key did not
// exist.
func (c *Commands) Expire(key string, seconds int64) (bool, error) {
	return wantBool(c.exec.Do("EXPIRE", key, seconds))
}

// TTL returns the remaining time to live of key, in seconds; -1 if key
// exists but has no TTL, -2 if key does not exist.
func (c *Commands) TTL(key string) (int64, error) {
	return wantInt(c.exec.Do("TTL", key))
}

// Keys returns all keys matching pattern. Intended for debugging and
// small datasets; the server itself warns against production use.
func (c *Commands) Keys(pattern string) ([]string, error) {
	return wantStrings(c.exec.Do("KEYS", pattern))
}

// Ping checks liveness; the server echoes message back when supplied, or
// replies "PONG" when it isn't.
func (c *Commands) Ping(message string) (string, error) {
	if message == "" {
		reply, err := c.exec.Do("PING")
		if err == nil && reply != nil && reply.Kind() == KindSimpleString {
			return reply.Str()
		}
		return wantText(reply, err)
	}
	return wantText(c.exec.Do("PING", message))
}

// Select changes the logical database index for the underlying
// connection. Most callers should prefer WithDatabase at construction
// time instead of calling this directly.
func (c *Commands) Select(database int) error {
	return wantOK(c.exec.Do("SELECT", database))
}

func toArgs(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

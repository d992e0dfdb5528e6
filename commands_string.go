package rdx

// Get returns the value stored at key, or a nil slice if key does not
// exist.
func (c *Commands) Get(key string) ([]byte, error) {
	return wantBytes(c.exec.Do("GET", key))
}

// Set stores value at key unconditionally.
func (c *Commands) Set(key string, value interface{}) error {
	return wantOK(c.exec.Do("SET", key, value))
}

// SetEX stores value at key with a TTL of seconds.
func (c *Commands) SetEX(key string, seconds int64, value interface{}) error {
	return wantOK(c.exec.Do("SETEX", key, seconds, value))
}

// SetNX stores value at key only if it does not already exist, returning
// whether the write happened.
func (c *Commands) SetNX(key string, value interface{}) (bool, error) {
	return wantBool(c.exec.Do("SETNX", key, value))
}

// GetSet atomically stores value at key and returns its previous value.
func (c *Commands) GetSet(key string, value interface{}) ([]byte, error) {
	return wantBytes(c.exec.Do("GETSET", key, value))
}

// MGet returns the values for each of the given keys, in order; a key
// that does not exist yields a nil element rather than shortening the
// result.
func (c *Commands) MGet(keys ...string) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("MGET", toArgs(keys)...))
}

// MSet stores every key/value pair atomically. pairs must have an even
// length, alternating key, value, key, value...
func (c *Commands) MSet(pairs ...interface{}) error {
	return wantOK(c.exec.Do("MSET", pairs...))
}

// Incr increments the integer value at key by one and returns the
// result.
func (c *Commands) Incr(key string) (int64, error) {
	return wantInt(c.exec.Do("INCR", key))
}

// IncrBy increments the integer value at key by delta and returns the
// result.
func (c *Commands) IncrBy(key string, delta int64) (int64, error) {
	return wantInt(c.exec.Do("INCRBY", key, delta))
}

// Decr decrements the integer value at key by one and returns the
// result.
func (c *Commands) Decr(key string) (int64, error) {
	return wantInt(c.exec.Do("DECR", key))
}

// Append appends value to the string at key, creating it if absent, and
// returns the resulting length.
func (c *Commands) Append(key string, value interface{}) (int64, error) {
	return wantInt(c.exec.Do("APPEND", key, value))
}

// StrLen returns the length of the string at key, or 0 if it does not
// exist.
func (c *Commands) StrLen(key string) (int64, error) {
	return wantInt(c.exec.Do("STRLEN", key))
}

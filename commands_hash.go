package rdx

// HGet returns the value of field in the hash at key, or nil if either is
// absent.
func (c *Commands) HGet(key, field string) ([]byte, error) {
	return wantBytes(c.exec.Do("HGET", key, field))
}

// HSet sets field to value in the hash at key, returning whether field
// was newly created.
func (c *Commands) HSet(key, field string, value interface{}) (bool, error) {
	return wantBool(c.exec.Do("HSET", key, field, value))
}

// HMSet sets every field/value pair in fieldValues atomically.
// fieldValues must have an even length, alternating field, value,
// field, value...
func (c *Commands) HMSet(key string, fieldValues ...interface{}) error {
	args := append([]interface{}{key}, fieldValues...)
	return wantOK(c.exec.Do("HMSET", args...))
}

// HMGet returns the values for each of the given fields, in order; an
// absent field yields a nil element.
func (c *Commands) HMGet(key string, fields ...string) ([][]byte, error) {
	args := append([]interface{}{key}, toArgs(fields)...)
	return wantBytesSlice(c.exec.Do("HMGET", args...))
}

// HGetAll returns every field/value pair in the hash at key.
func (c *Commands) HGetAll(key string) (map[string][]byte, error) {
	reply, err := c.exec.Do("HGETALL", key)
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
	if len(items)%2 != 0 {
		return nil, invalidState("HGETALL reply has odd element count %d", len(items))
	}
	out := make(map[string][]byte, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		field, err := items[i].Text()
		if err != nil {
			return nil, err
		}
		value, err := items[i+1].Bytes()
		if err != nil {
			return nil, err
		}
		out[field] = value
	}
	return out, nil
}

// HDel removes the given fields from the hash at key, returning the
// number actually removed.
func (c *Commands) HDel(key string, fields ...string) (int64, error) {
	args := append([]interface{}{key}, toArgs(fields)...)
	return wantInt(c.exec.Do("HDEL", args...))
}

// HExists reports whether field exists in the hash at key.
func (c *Commands) HExists(key, field string) (bool, error) {
	return wantBool(c.exec.Do("HEXISTS", key, field))
}

// HLen returns the number of fields in the hash at key.
func (c *Commands) HLen(key string) (int64, error) {
	return wantInt(c.exec.Do("HLEN", key))
}

// HIncrBy increments field in the hash at key by delta and returns the
// result.
func (c *Commands) HIncrBy(key, field string, delta int64) (int64, error) {
	return wantInt(c.exec.Do("HINCRBY", key, field, delta))
}

// HKeys returns every field name in the hash at key.
func (c *Commands) HKeys(key string) ([]string, error) {
	return wantStrings(c.exec.Do("HKEYS", key))
}

// HVals returns every field value in the hash at key.
func (c *Commands) HVals(key string) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("HVALS", key))
}

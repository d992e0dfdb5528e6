package rdx

// LPush prepends the given values to the list at key, returning the
// resulting length.
func (c *Commands) LPush(key string, values ...interface{}) (int64, error) {
	args := append([]interface{}{key}, values...)
	return wantInt(c.exec.Do("LPUSH", args...))
}

// RPush appends the given values to the list at key, returning the
// resulting length.
func (c *Commands) RPush(key string, values ...interface{}) (int64, error) {
	args := append([]interface{}{key}, values...)
	return wantInt(c.exec.Do("RPUSH", args...))
}

// LPop removes and returns the first element of the list at key, or nil
// if it is empty.
func (c *Commands) LPop(key string) ([]byte, error) {
	return wantBytes(c.exec.Do("LPOP", key))
}

// RPop removes and returns the last element of the list at key, or nil
// if it is empty.
func (c *Commands) RPop(key string) ([]byte, error) {
	return wantBytes(c.exec.Do("RPOP", key))
}

// LRange returns the elements of the list at key between start and stop
// (inclusive, zero-based, negative indices count from the tail).
func (c *Commands) LRange(key string, start, stop int64) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("LRANGE", key, start, stop))
}

// LLen returns the length of the list at key.
func (c *Commands) LLen(key string) (int64, error) {
	return wantInt(c.exec.Do("LLEN", key))
}

// LIndex returns the element at index in the list at key, or nil if the
// index is out of range.
func (c *Commands) LIndex(key string, index int64) ([]byte, error) {
	return wantBytes(c.exec.Do("LINDEX", key, index))
}

// LSet sets the element at index in the list at key to value.
func (c *Commands) LSet(key string, index int64, value interface{}) error {
	return wantOK(c.exec.Do("LSET", key, index, value))
}

// LTrim trims the list at key so only the elements between start and
// stop (inclusive) remain.
func (c *Commands) LTrim(key string, start, stop int64) error {
	return wantOK(c.exec.Do("LTRIM", key, start, stop))
}

// LRem removes up to count occurrences of value from the list at key
// (count > 0 head-to-tail, count < 0 tail-to-head, count == 0 all
// occurrences), returning the number removed.
func (c *Commands) LRem(key string, count int64, value interface{}) (int64, error) {
	return wantInt(c.exec.Do("LREM", key, count, value))
}

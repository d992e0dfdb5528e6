package rdx

// XAdd appends fieldValues (alternating field, value, field, value...) as
// a new entry to the stream at key, using id as the entry id argument --
// Auto() for the common "let the server assign it" case. It returns the
// id the server actually assigned.
func (c *Commands) XAdd(key string, id CommandArg, fieldValues ...interface{}) (StreamID, error) {
	args := append([]interface{}{key, id}, fieldValues...)
	reply, err := c.exec.Do("XADD", args...)
	if err != nil {
		return StreamID{}, err
	}
	if rerr := reply.Err(); rerr != nil {
		return StreamID{}, rerr
	}
	text, err := reply.Text()
	if err != nil {
		return StreamID{}, err
	}
	return ParseStreamID(text)
}

// XLen returns the number of entries in the stream at key.
func (c *Commands) XLen(key string) (int64, error) {
	return wantInt(c.exec.Do("XLEN", key))
}

// XRange returns entries in the stream at key between start and end
// (inclusive), in ascending id order. Use MinID()/MaxID() for an
// unbounded end of the range.
func (c *Commands) XRange(key string, start, end CommandArg) ([]StreamEntry, error) {
	reply, err := c.exec.Do("XRANGE", key, start, end)
	if err != nil {
		return nil, err
	}
	if rerr := reply.Err(); rerr != nil {
		return nil, rerr
	}
	return decodeStreamEntries(reply)
}

// XRevRange is XRange in descending id order (its start/end arguments
// are swapped relative to XRange, matching the server's own signature).
func (c *Commands) XRevRange(key string, end, start CommandArg) ([]StreamEntry, error) {
	reply, err := c.exec.Do("XREVRANGE", key, end, start)
	if err != nil {
		return nil, err
	}
	if rerr := reply.Err(); rerr != nil {
		return nil, rerr
	}
	return decodeStreamEntries(reply)
}

// XDel removes the given entry ids from the stream at key, returning the
// number actually removed.
func (c *Commands) XDel(key string, ids ...StreamID) (int64, error) {
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, key)
	for _, id := range ids {
		args = append(args, id.String())
	}
	return wantInt(c.exec.Do("XDEL", args...))
}

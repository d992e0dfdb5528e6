package rdx

// SAdd adds the given members to the set at key, returning the number
// newly added.
func (c *Commands) SAdd(key string, members ...interface{}) (int64, error) {
	args := append([]interface{}{key}, members...)
	return wantInt(c.exec.Do("SADD", args...))
}

// SRem removes the given members from the set at key, returning the
// number actually removed.
func (c *Commands) SRem(key string, members ...interface{}) (int64, error) {
	args := append([]interface{}{key}, members...)
	return wantInt(c.exec.Do("SREM", args...))
}

// SMembers returns every member of the set at key.
func (c *Commands) SMembers(key string) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("SMEMBERS", key))
}

// SIsMember reports whether member belongs to the set at key.
func (c *Commands) SIsMember(key string, member interface{}) (bool, error) {
	return wantBool(c.exec.Do("SISMEMBER", key, member))
}

// SCard returns the number of members in the set at key.
func (c *Commands) SCard(key string) (int64, error) {
	return wantInt(c.exec.Do("SCARD", key))
}

// SUnion returns the union of the sets at the given keys.
func (c *Commands) SUnion(keys ...string) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("SUNION", toArgs(keys)...))
}

// SInter returns the intersection of the sets at the given keys.
func (c *Commands) SInter(keys ...string) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("SINTER", toArgs(keys)...))
}

// SDiff returns the members of the set at keys[0] not present in any of
// the remaining sets.
func (c *Commands) SDiff(keys ...string) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("SDIFF", toArgs(keys)...))
}

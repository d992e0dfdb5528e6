package rdx

import "strconv"

// ZAdd adds member with score to the sorted set at key, returning the
// number of new members added (updates to an existing member's score do
// not count).
func (c *Commands) ZAdd(key string, score float64, member interface{}) (int64, error) {
	return wantInt(c.exec.Do("ZADD", key, formatScore(score), member))
}

// ZScore returns the score of member in the sorted set at key.
func (c *Commands) ZScore(key string, member interface{}) (float64, error) {
	reply, err := c.exec.Do("ZSCORE", key, member)
	if err != nil {
		return 0, err
	}
	if rerr := reply.Err(); rerr != nil {
		return 0, rerr
	}
	text, err := reply.Text()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(text, 64)
}

// ZRange returns members of the sorted set at key between start and stop
// (inclusive, zero-based rank order).
func (c *Commands) ZRange(key string, start, stop int64) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("ZRANGE", key, start, stop))
}

// ZRangeByScore returns members of the sorted set at key with a score
// between min and max (inclusive), in score order.
func (c *Commands) ZRangeByScore(key string, min, max float64) ([][]byte, error) {
	return wantBytesSlice(c.exec.Do("ZRANGEBYSCORE", key, formatScore(min), formatScore(max)))
}

// ZRem removes the given members from the sorted set at key, returning
// the number actually removed.
func (c *Commands) ZRem(key string, members ...interface{}) (int64, error) {
	args := append([]interface{}{key}, members...)
	return wantInt(c.exec.Do("ZREM", args...))
}

// ZCard returns the number of members in the sorted set at key.
func (c *Commands) ZCard(key string) (int64, error) {
	return wantInt(c.exec.Do("ZCARD", key))
}

// ZIncrBy increments member's score in the sorted set at key by delta,
// returning the resulting score.
func (c *Commands) ZIncrBy(key string, delta float64, member interface{}) (float64, error) {
	reply, err := c.exec.Do("ZINCRBY", key, formatScore(delta), member)
	if err != nil {
		return 0, err
	}
	if rerr := reply.Err(); rerr != nil {
		return 0, rerr
	}
	text, err := reply.Text()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(text, 64)
}

// ZRank returns the zero-based rank of member in the sorted set at key,
// ordered from lowest to highest score, and whether member exists.
func (c *Commands) ZRank(key string, member interface{}) (int64, bool, error) {
	reply, err := c.exec.Do("ZRANK", key, member)
	if err != nil {
		return 0, false, err
	}
	if rerr := reply.Err(); rerr != nil {
		return 0, false, rerr
	}
	if reply.IsNil() {
		return 0, false, nil
	}
	rank, err := reply.Int()
	if err != nil {
		return 0, false, err
	}
	return rank, true, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

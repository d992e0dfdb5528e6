package rdx

import (
	"strconv"
	"strings"
)

// StreamID identifies one entry in a server-side stream as a
// (milliseconds-since-epoch, sequence) pair. Its textual form is the
// numeric "ms-seq" the server emits for a concrete entry; the sentinel
// constructors below produce the other forms a stream command accepts
// in place of a concrete id.
type StreamID struct {
	Ms  int64
	Seq int64
}

// String renders the numeric "ms-seq" form.
func (id StreamID) String() string {
	return strconv.FormatInt(id.Ms, 10) + "-" + strconv.FormatInt(id.Seq, 10)
}

// Auto is the "*" sentinel: let the server assign the next id.
func Auto() CommandArg { return Text("*") }

// MinID is the "-" sentinel: the lowest possible id, a range lower bound.
func MinID() CommandArg { return Text("-") }

// MaxID is the "+" sentinel: the highest possible id, a range upper bound.
func MaxID() CommandArg { return Text("+") }

// TailID is the "$" sentinel: the id of the last entry already in the
// stream, used when subscribing to only entries added from now on.
func TailID() CommandArg { return Text("$") }

// UnseenID is the ">" sentinel: entries not yet delivered to any
// consumer in the calling group, valid only in XREADGROUP.
func UnseenID() CommandArg { return Text(">") }

// ParseStreamID parses the numeric "ms-seq" form the server returns for
// a concrete entry. It does not accept any of the sentinel forms, which
// are request-only and never appear in a decoded reply.
func ParseStreamID(s string) (StreamID, error) {
	ms, seq, ok := strings.Cut(s, "-")
	if !ok {
		return StreamID{}, invalidState("malformed stream id %q: missing '-'", s)
	}
	msVal, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return StreamID{}, invalidState("malformed stream id %q: bad ms component", s)
	}
	seqVal, err := strconv.ParseInt(seq, 10, 64)
	if err != nil {
		return StreamID{}, invalidState("malformed stream id %q: bad seq component", s)
	}
	return StreamID{Ms: msVal, Seq: seqVal}, nil
}

// StreamEntry is one decoded entry from XRANGE/XREVRANGE/XREAD: an id
// and its flat field/value pairs, reassembled into a map for ergonomic
// access.
type StreamEntry struct {
	ID     StreamID
	Fields map[string]string
}

// decodeStreamEntry interprets a two-element array reply — [id,
// [field, value, field, value, ...]] — as produced by XRANGE and
// friends for each entry in the result.
func decodeStreamEntry(r *Reply) (StreamEntry, error) {
	fields, err := r.Array()
	if err != nil {
		return StreamEntry{}, err
	}
	if len(fields) != 2 {
		return StreamEntry{}, invalidState("stream entry reply has %d elements, want 2", len(fields))
	}

	idText, err := fields[0].Text()
	if err != nil {
		return StreamEntry{}, err
	}
	id, err := ParseStreamID(idText)
	if err != nil {
		return StreamEntry{}, err
	}

	flat, err := fields[1].Array()
	if err != nil {
		return StreamEntry{}, err
	}
	if len(flat)%2 != 0 {
		return StreamEntry{}, invalidState("stream entry field list has odd length %d", len(flat))
	}

	out := make(map[string]string, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		k, err := flat[i].Text()
		if err != nil {
			return StreamEntry{}, err
		}
		v, err := flat[i+1].Text()
		if err != nil {
			return StreamEntry{}, err
		}
		out[k] = v
	}
	return StreamEntry{ID: id, Fields: out}, nil
}

// decodeStreamEntries interprets a reply as a top-level array of entry
// pairs, as returned by XRANGE/XREVRANGE. A null array decodes to an
// empty, non-nil slice.
func decodeStreamEntries(r *Reply) ([]StreamEntry, error) {
	items, err := r.Array()
	if err != nil {
		return nil, err
	}
	entries := make([]StreamEntry, 0, len(items))
	for _, item := range items {
		entry, err := decodeStreamEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

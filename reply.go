package rdx

import "strconv"

// ReplyKind discriminates the five RESP2 frame shapes a Reply may hold.
type ReplyKind int

const (
	KindSimpleString ReplyKind = iota
	KindError
	KindInteger
	KindBulk
	KindArray
)

// Reply is a tagged union over the RESP2 reply set: SimpleString, Error,
// Integer, Bulk (possibly null), and Array (possibly null, and possibly
// nested). Accessing a Reply as the wrong shape returns an
// *InvalidStateError rather than panicking.
type Reply struct {
	kind ReplyKind

	str     string // SimpleString body, or Error body
	integer int64

	bulk     []byte
	bulkNull bool

	array     []*Reply
	arrayNull bool
}

func newSimpleString(s string) *Reply { return &Reply{kind: KindSimpleString, str: s} }
func newErrorReply(s string) *Reply   { return &Reply{kind: KindError, str: s} }
func newInteger(n int64) *Reply       { return &Reply{kind: KindInteger, integer: n} }

func newBulk(b []byte, null bool) *Reply {
	return &Reply{kind: KindBulk, bulk: b, bulkNull: null}
}

func newArray(items []*Reply, null bool) *Reply {
	return &Reply{kind: KindArray, array: items, arrayNull: null}
}

// Kind reports the reply's shape.
func (r *Reply) Kind() ReplyKind { return r.kind }

// IsNil reports whether this reply is a null bulk string or a null array.
// A null bulk ($-1) and an empty bulk ($0) are distinct; only the former
// reports true here.
func (r *Reply) IsNil() bool {
	switch r.kind {
	case KindBulk:
		return r.bulkNull
	case KindArray:
		return r.arrayNull
	default:
		return false
	}
}

// Err returns the wrapped *ErrorReply if this reply is a RESP2 error frame,
// or nil otherwise. Unlike the other accessors this never itself returns an
// *InvalidStateError — checking for an error reply must never panic/fail.
func (r *Reply) Err() error {
	if r.kind != KindError {
		return nil
	}
	return &ErrorReply{Message: r.str}
}

// Str returns the SimpleString body. Returns *InvalidStateError if this
// reply is not a SimpleString.
func (r *Reply) Str() (string, error) {
	if r.kind != KindSimpleString {
		return "", invalidState("reply is %s, not a simple string", r.kind)
	}
	return r.str, nil
}

// Int returns the Integer value. Returns *InvalidStateError if this reply
// is not an Integer.
func (r *Reply) Int() (int64, error) {
	if r.kind != KindInteger {
		return 0, invalidState("reply is %s, not an integer", r.kind)
	}
	return r.integer, nil
}

// Bytes returns the Bulk payload. Returns *InvalidStateError if this reply
// is not a Bulk. A null bulk yields (nil, nil) rather than an error, so
// callers that want to distinguish null-from-empty should check IsNil.
func (r *Reply) Bytes() ([]byte, error) {
	if r.kind != KindBulk {
		return nil, invalidState("reply is %s, not a bulk string", r.kind)
	}
	if r.bulkNull {
		return nil, nil
	}
	return r.bulk, nil
}

// Text is Bytes decoded as UTF-8 text via a plain string conversion.
func (r *Reply) Text() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Array returns the child replies. Returns *InvalidStateError if this
// reply is not an Array. A null array yields (nil, nil).
func (r *Reply) Array() ([]*Reply, error) {
	if r.kind != KindArray {
		return nil, invalidState("reply is %s, not an array", r.kind)
	}
	if r.arrayNull {
		return nil, nil
	}
	return r.array, nil
}

// String renders a short debug form; it is not part of the wire format.
func (r *Reply) String() string {
	switch r.kind {
	case KindSimpleString:
		return "+" + r.str
	case KindError:
		return "-" + r.str
	case KindInteger:
		return ":" + strconv.FormatInt(r.integer, 10)
	case KindBulk:
		if r.bulkNull {
			return "$-1"
		}
		return "$" + string(r.bulk)
	case KindArray:
		if r.arrayNull {
			return "*-1"
		}
		return "*" + strconv.Itoa(len(r.array))
	default:
		return "?"
	}
}

func (k ReplyKind) String() string {
	switch k {
	case KindSimpleString:
		return "simple string"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk string"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

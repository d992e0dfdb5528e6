package rdx

import (
	"fmt"
	"strconv"
)

// CommandArg is one positional argument to a command: a text string, a
// signed integer, or a raw byte buffer. A CommandArg constructed via Nil()
// is dropped rather than encoded, supporting optional command
// suffixes (e.g. an absent EX duration on SET).
type CommandArg struct {
	isNil bool
	text  string
	isInt bool
	i     int64
	bytes []byte
}

// Text wraps a string argument.
func Text(s string) CommandArg { return CommandArg{text: s} }

// Int wraps a signed integer argument; it is encoded in decimal text form.
func Int(n int64) CommandArg { return CommandArg{isInt: true, i: n} }

// Bytes wraps a raw byte-buffer argument, passed through verbatim.
func Bytes(b []byte) CommandArg { return CommandArg{bytes: b} }

// Nil constructs the "undefined" argument value. Arguments constructed this
// way are filtered out before the command is framed.
func Nil() CommandArg { return CommandArg{isNil: true} }

// encode renders the argument to its wire bytes.
func (a CommandArg) encode() []byte {
	switch {
	case a.isInt:
		return []byte(strconv.FormatInt(a.i, 10))
	case a.bytes != nil:
		return a.bytes
	default:
		return []byte(a.text)
	}
}

// Command bundles a command name with its argument list, used by the
// Pipeline executor's queue and by Transaction-style batch submission.
type Command struct {
	Name string
	Args []CommandArg
}

// NewCommand constructs a Command from plain Go values, converting each
// argument to a CommandArg the same way Do does: strings become Text,
// []byte becomes Bytes, integer types become Int, and nil is dropped.
func NewCommand(name string, args ...interface{}) Command {
	return Command{Name: name, Args: toCommandArgs(args)}
}

func toCommandArgs(args []interface{}) []CommandArg {
	out := make([]CommandArg, 0, len(args))
	for _, a := range args {
		switch v := a.(type) {
		case nil:
			continue
		case CommandArg:
			if v.isNil {
				continue
			}
			out = append(out, v)
		case string:
			out = append(out, Text(v))
		case []byte:
			out = append(out, Bytes(v))
		case int:
			out = append(out, Int(int64(v)))
		case int64:
			out = append(out, Int(v))
		case int32:
			out = append(out, Int(int64(v)))
		case bool:
			if v {
				out = append(out, Int(1))
			} else {
				out = append(out, Int(0))
			}
		default:
			out = append(out, Text(stringify(v)))
		}
	}
	return out
}

// stringify is the fallback conversion for argument types the command
// surface does not special-case (floats, unsigned integers, and the
// like), mirroring redigo's "fmt.Fprint everything else" behavior noted
// in the protocol's design history.
func stringify(v interface{}) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// filterArgsNonNil drops CommandArg values constructed via Nil(), matching
// the data model's "undefined/null arguments are dropped" rule.
func filterArgsNonNil(args []CommandArg) []CommandArg {
	out := make([]CommandArg, 0, len(args))
	for _, a := range args {
		if a.isNil {
			continue
		}
		out = append(out, a)
	}
	return out
}

package rdx

import (
	"github.com/aphistic/sweet"
	. "github.com/onsi/gomega"
)

type ReplySuite struct{}

func (s *ReplySuite) TestSimpleStringAndError(t sweet.T) {
	ok := newSimpleString("OK")
	Expect(ok.Kind()).To(Equal(KindSimpleString))
	str, err := ok.Str()
	Expect(err).To(BeNil())
	Expect(str).To(Equal("OK"))
	Expect(ok.Err()).To(BeNil())

	failure := newErrorReply("WRONGTYPE bad op")
	Expect(failure.Kind()).To(Equal(KindError))
	Expect(failure.Err()).To(MatchError("rdx: WRONGTYPE bad op"))
}

func (s *ReplySuite) TestIntegerReply(t sweet.T) {
	n := newInteger(42)
	v, err := n.Int()
	Expect(err).To(BeNil())
	Expect(v).To(Equal(int64(42)))

	_, err = n.Str()
	Expect(err).To(HaveOccurred())
}

func (s *ReplySuite) TestNullBulkVersusEmptyBulk(t sweet.T) {
	null := newBulk(nil, true)
	Expect(null.IsNil()).To(BeTrue())
	b, err := null.Bytes()
	Expect(err).To(BeNil())
	Expect(b).To(BeNil())

	empty := newBulk([]byte{}, false)
	Expect(empty.IsNil()).To(BeFalse())
	b, err = empty.Bytes()
	Expect(err).To(BeNil())
	Expect(b).To(Equal([]byte{}))
}

func (s *ReplySuite) TestNullArray(t sweet.T) {
	null := newArray(nil, true)
	Expect(null.IsNil()).To(BeTrue())
	items, err := null.Array()
	Expect(err).To(BeNil())
	Expect(items).To(BeNil())
}

func (s *ReplySuite) TestNestedArray(t sweet.T) {
	inner := newArray([]*Reply{newInteger(1), newInteger(2)}, false)
	outer := newArray([]*Reply{inner, newSimpleString("tail")}, false)

	items, err := outer.Array()
	Expect(err).To(BeNil())
	Expect(items).To(HaveLen(2))

	nested, err := items[0].Array()
	Expect(err).To(BeNil())
	Expect(nested).To(HaveLen(2))
	v, _ := nested[1].Int()
	Expect(v).To(Equal(int64(2)))
}

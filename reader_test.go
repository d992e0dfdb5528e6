package rdx

import (
	"bytes"
	"io"

	"github.com/aphistic/sweet"
	. "github.com/onsi/gomega"
)

type ReaderSuite struct{}

func (s *ReaderSuite) TestReadLine(t sweet.T) {
	r := NewReader(bytes.NewBufferString("hello\r\nworld\r\n"))

	line, err := r.ReadLine()
	Expect(err).To(BeNil())
	Expect(string(line)).To(Equal("hello"))

	line, err = r.ReadLine()
	Expect(err).To(BeNil())
	Expect(string(line)).To(Equal("world"))
}

func (s *ReaderSuite) TestReadLineStrayCRIsContent(t sweet.T) {
	r := NewReader(bytes.NewBufferString("a\rb\r\n"))

	line, err := r.ReadLine()
	Expect(err).To(BeNil())
	Expect(string(line)).To(Equal("a\rb"))
}

func (s *ReaderSuite) TestReadLineTruncatedMidFrame(t sweet.T) {
	r := NewReader(bytes.NewBufferString("partial"))

	_, err := r.ReadLine()
	Expect(err).To(Equal(io.ErrUnexpectedEOF))
}

func (s *ReaderSuite) TestReadLineCleanEOF(t sweet.T) {
	r := NewReader(bytes.NewBufferString(""))

	_, err := r.ReadLine()
	Expect(err).To(Equal(io.EOF))
}

func (s *ReaderSuite) TestReadExact(t sweet.T) {
	r := NewReader(bytes.NewBufferString("hello world"))

	b, err := r.ReadExact(5)
	Expect(err).To(BeNil())
	Expect(string(b)).To(Equal("hello"))

	rest, err := r.ReadExact(6)
	Expect(err).To(BeNil())
	Expect(string(rest)).To(Equal(" world"))
}

func (s *ReaderSuite) TestReadExactTruncated(t sweet.T) {
	r := NewReader(bytes.NewBufferString("ab"))

	_, err := r.ReadExact(5)
	Expect(err).To(Equal(io.ErrUnexpectedEOF))
}

func (s *ReaderSuite) TestPeekDoesNotConsume(t sweet.T) {
	r := NewReader(bytes.NewBufferString("hello"))

	peeked, err := r.Peek(3)
	Expect(err).To(BeNil())
	Expect(string(peeked)).To(Equal("hel"))

	b, err := r.ReadExact(5)
	Expect(err).To(BeNil())
	Expect(string(b)).To(Equal("hello"))
}

func (s *ReaderSuite) TestReadLineRejectsUnterminatedOverLength(t sweet.T) {
	r := NewReader(bytes.NewReader(bytes.Repeat([]byte("x"), maxLineLength*2)))

	_, err := r.ReadLine()
	Expect(err).To(HaveOccurred())
	_, ok := err.(*InvalidStateError)
	Expect(ok).To(BeTrue())
}

func (s *ReaderSuite) TestBufferRetainedAcrossCalls(t sweet.T) {
	r := NewReader(bytes.NewBufferString("$3\r\nfoo\r\nrest"))

	line, err := r.ReadLine()
	Expect(err).To(BeNil())
	Expect(string(line)).To(Equal("$3"))

	body, err := r.ReadExact(3)
	Expect(err).To(BeNil())
	Expect(string(body)).To(Equal("foo"))

	tail, err := r.ReadExact(2)
	Expect(err).To(BeNil())
	Expect(string(tail)).To(Equal("\r\n"))

	remainder, err := r.ReadExact(4)
	Expect(err).To(BeNil())
	Expect(string(remainder)).To(Equal("rest"))
}

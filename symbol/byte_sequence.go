package symbol

import (
	"bytes"
	"unsafe"
)

// ---------------------------------------------------------------------------
// ByteSequence: read-only view over a byte range
// ---------------------------------------------------------------------------

// ByteSequence is an immutable view over value[offset:offset+length] with a
// precomputed hash. Two sequences are content-equal iff they have the same
// length and the same bytes, regardless of backing slice or offset.
//
// The view does not copy. Callers must not modify the backing slice while a
// sequence over it is in use.
type ByteSequence struct {
	value  []byte
	offset int
	length int
	hash   int32
}

// Wrap returns a sequence over all of b.
func Wrap(b []byte) ByteSequence {
	return ByteSequence{value: b, length: len(b), hash: hashBytes(b)}
}

// WrapRange returns a sequence over b[offset:offset+length].
func WrapRange(b []byte, offset, length int) ByteSequence {
	Guarantee(offset >= 0 && length >= 0 && offset+length <= len(b), "byte range out of bounds")
	return ByteSequence{
		value:  b,
		offset: offset,
		length: length,
		hash:   hashBytes(b[offset : offset+length]),
	}
}

// FromString copies s into a new sequence.
func FromString(s string) ByteSequence {
	return Wrap([]byte(s))
}

func hashBytes(b []byte) int32 {
	var h int32
	for _, c := range b {
		h = 31*h + int32(c)
	}
	return h
}

// Length returns the number of bytes in the sequence.
func (s ByteSequence) Length() int {
	return s.length
}

// ByteAt returns the byte at index i.
func (s ByteSequence) ByteAt(i int) byte {
	if i < 0 || i >= s.length {
		panic("ByteSequence.ByteAt: index out of range")
	}
	return s.value[s.offset+i]
}

// Hash returns the precomputed content hash.
func (s ByteSequence) Hash() int32 {
	return s.hash
}

// Bytes returns the viewed bytes without copying. The result has its
// capacity clipped so appending to it never writes into the backing slice.
func (s ByteSequence) Bytes() []byte {
	end := s.offset + s.length
	return s.value[s.offset:end:end]
}

// ContentEquals reports whether s and other hold the same bytes.
func (s ByteSequence) ContentEquals(other ByteSequence) bool {
	return s.length == other.length && s.hash == other.hash && bytes.Equal(s.Bytes(), other.Bytes())
}

// SubSequence returns the view of length bytes starting at offset.
func (s ByteSequence) SubSequence(offset, length int) ByteSequence {
	Guarantee(offset >= 0 && length >= 0 && offset+length <= s.length, "sub-sequence out of bounds")
	return WrapRange(s.value, s.offset+offset, length)
}

// HasPrefix reports whether the sequence starts with prefix.
func (s ByteSequence) HasPrefix(prefix string) bool {
	return s.length >= len(prefix) && string(s.Bytes()[:len(prefix)]) == prefix
}

// IndexOf returns the index of the first c at or after from, or -1.
func (s ByteSequence) IndexOf(c byte, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= s.length {
		return -1
	}
	i := bytes.IndexByte(s.Bytes()[from:], c)
	if i < 0 {
		return -1
	}
	return from + i
}

// LastIndexOf returns the index of the last c, or -1.
func (s ByteSequence) LastIndexOf(c byte) int {
	return bytes.LastIndexByte(s.Bytes(), c)
}

// AppendTo appends the viewed bytes to dst.
func (s ByteSequence) AppendTo(dst []byte) []byte {
	return append(dst, s.Bytes()...)
}

// String copies the viewed bytes into a string.
func (s ByteSequence) String() string {
	return string(s.Bytes())
}

// key aliases the viewed bytes as a string for map probes. The result must
// not outlive the backing slice's contents.
func (s ByteSequence) key() string {
	b := s.Bytes()
	return unsafe.String(unsafe.SliceData(b), len(b))
}

package symbol

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/chazu/javelin/validation"
)

// ---------------------------------------------------------------------------
// Descriptor kinds
// ---------------------------------------------------------------------------

// Kind markers tag a Symbol with the grammar it belongs to. They exist only
// at compile time; every Symbol[K] has the same layout.
type (
	Name         struct{}
	Type         struct{}
	Signature    struct{}
	ModifiedUTF8 struct{}
	Descriptor   struct{}
)

// Kind is the set of descriptor kind markers.
type Kind interface {
	Name | Type | Signature | ModifiedUTF8 | Descriptor
}

// ---------------------------------------------------------------------------
// Symbol
// ---------------------------------------------------------------------------

// Symbol is the canonical instance of some byte content within a Symbols
// engine. Two symbols are equal iff they are the same pointer.
//
// A Symbol is never mutated after creation apart from its validation cache,
// which only ever gains bits. The cache is sound because the content is
// immutable.
//
// Do not use a Symbol as a lock.
type Symbol[K Kind] struct {
	ByteSequence
	checked atomic.Uint32
}

// As re-tags a symbol with another kind. It does not check the grammar;
// use the Validate methods or a descriptor manager for that.
func As[To Kind, From Kind](s *Symbol[From]) *Symbol[To] {
	// Symbol[From] and Symbol[To] share a layout; K is a marker only.
	return (*Symbol[To])(unsafe.Pointer(s))
}

// AsDescriptor drops the kind tag.
func (s *Symbol[K]) AsDescriptor() *Symbol[Descriptor] {
	return As[Descriptor](s)
}

// Is reports whether s holds exactly the bytes of str.
func (s *Symbol[K]) Is(str string) bool {
	return s.key() == str
}

// Equals reports whether s and other are the same symbol, regardless of kind.
func (s *Symbol[K]) Equals(other *Symbol[Descriptor]) bool {
	return s.AsDescriptor() == other
}

func (s *Symbol[K]) GoString() string {
	return fmt.Sprintf("symbol(%q)", s.String())
}

func newSymbol(seq ByteSequence) *Symbol[Descriptor] {
	b := bytes.Clone(seq.Bytes())
	if b == nil {
		b = []byte{}
	}
	return &Symbol[Descriptor]{
		ByteSequence: ByteSequence{value: b, length: len(b), hash: seq.hash},
	}
}

// ---------------------------------------------------------------------------
// Validation cache
// ---------------------------------------------------------------------------

const (
	checkedUTF8 uint32 = 1 << iota
	checkedClassName
	checkedMethodName
	checkedFieldName
	checkedType
	checkedTypeOrVoid
	checkedSignature
)

// ValidationError reports a descriptor that does not match its grammar.
type ValidationError struct {
	Descriptor string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Descriptor)
}

func (s *Symbol[K]) isChecked(bit uint32) bool {
	return s.checked.Load()&bit != 0
}

func (s *Symbol[K]) check(bit uint32, valid bool, reason string) error {
	if !valid {
		return &ValidationError{Descriptor: s.String(), Reason: reason}
	}
	s.checked.Or(bit)
	return nil
}

// ValidateUTF8 checks that the symbol is well-formed modified UTF-8.
func (s *Symbol[K]) ValidateUTF8() error {
	if s.isChecked(checkedUTF8) {
		return nil
	}
	return s.check(checkedUTF8, validation.ValidModifiedUTF8(s.Bytes()), "invalid modified UTF-8")
}

// ValidateClassName checks that the symbol is a valid constant-pool class
// name entry: a binary name or an array descriptor.
func (s *Symbol[K]) ValidateClassName() error {
	if s.isChecked(checkedClassName) {
		return nil
	}
	return s.check(checkedClassName, validation.ValidClassNameEntry(s.Bytes()), "invalid class name")
}

// ValidateMethodName checks that the symbol is a valid method name.
func (s *Symbol[K]) ValidateMethodName() error {
	if s.isChecked(checkedMethodName) {
		return nil
	}
	return s.check(checkedMethodName, validation.ValidMethodName(s.Bytes()), "invalid method name")
}

// ValidateFieldName checks that the symbol is a valid unqualified name.
func (s *Symbol[K]) ValidateFieldName() error {
	if s.isChecked(checkedFieldName) {
		return nil
	}
	return s.check(checkedFieldName, validation.ValidUnqualifiedName(s.Bytes()), "invalid field name")
}

// ValidateType checks that the symbol is a valid field type descriptor,
// also accepting V when allowVoid is set.
func (s *Symbol[K]) ValidateType(allowVoid bool) error {
	bit := checkedType
	if allowVoid {
		bit = checkedTypeOrVoid
	}
	if s.isChecked(bit) {
		return nil
	}
	if !validation.ValidTypeDescriptor(s.Bytes(), allowVoid) {
		return &ValidationError{Descriptor: s.String(), Reason: "invalid type descriptor"}
	}
	if !allowVoid {
		// a non-void type is also a valid type-or-void
		bit |= checkedTypeOrVoid
	}
	s.checked.Or(bit)
	return nil
}

// ValidateSignature checks that the symbol is a valid method descriptor.
func (s *Symbol[K]) ValidateSignature() error {
	if s.isChecked(checkedSignature) {
		return nil
	}
	return s.check(checkedSignature, validation.ValidSignatureDescriptor(s.Bytes()), "invalid signature descriptor")
}

// ValidateSignatureGetSlots validates the symbol as a method descriptor and
// returns the number of parameter slots.
func (s *Symbol[K]) ValidateSignatureGetSlots() (int, error) {
	slots := validation.ValidSignatureDescriptorGetSlots(s.Bytes())
	if slots < 0 {
		return -1, &ValidationError{Descriptor: s.String(), Reason: "invalid signature descriptor"}
	}
	s.checked.Or(checkedSignature)
	return slots, nil
}

// Package validation decides whether byte strings match the class-file
// descriptor grammar. Functions take raw bytes and never allocate.
package validation

import "bytes"

// MaxArrayDimensions is the largest number of dimensions an array type may have.
const MaxArrayDimensions = 255

// ValidModifiedUTF8 reports whether b is well-formed modified UTF-8: no NUL
// bytes, no four-byte forms, and no truncated or malformed sequences.
func ValidModifiedUTF8(b []byte) bool {
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0:
			return false
		case c < 0x80:
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return false
			}
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return false
			}
			i += 3
		default:
			return false
		}
	}
	return true
}

// ValidUnqualifiedName reports whether b is a non-empty name free of
// '.', ';', '[' and '/'. Field names use this form.
func ValidUnqualifiedName(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		switch c {
		case '.', ';', '[', '/':
			return false
		}
	}
	return true
}

// ValidMethodName reports whether b is <init>, <clinit>, or an unqualified
// name without '<' and '>'.
func ValidMethodName(b []byte) bool {
	if len(b) > 0 && b[0] == '<' {
		s := string(b)
		return s == "<init>" || s == "<clinit>"
	}
	if !ValidUnqualifiedName(b) {
		return false
	}
	return bytes.IndexByte(b, '<') < 0 && bytes.IndexByte(b, '>') < 0
}

// ValidBinaryName reports whether b is an internal-form binary class name:
// unqualified segments separated by single '/'.
func ValidBinaryName(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	start := 0
	for i := 0; i <= len(b); i++ {
		if i == len(b) || b[i] == '/' {
			if i == start {
				return false
			}
			start = i + 1
			continue
		}
		switch b[i] {
		case '.', ';', '[':
			return false
		}
	}
	return true
}

// ValidClassNameEntry reports whether b is a valid CONSTANT_Class name: an
// array type descriptor or a binary name.
func ValidClassNameEntry(b []byte) bool {
	if len(b) > 0 && b[0] == '[' {
		return ValidTypeDescriptor(b, false)
	}
	return ValidBinaryName(b)
}

// ValidTypeDescriptor reports whether b is exactly one field type
// descriptor. V is accepted only when allowVoid is set.
func ValidTypeDescriptor(b []byte, allowVoid bool) bool {
	end, ok := skipType(b, 0, allowVoid)
	return ok && end == len(b)
}

// ValidSignatureDescriptor reports whether b is a valid method descriptor.
func ValidSignatureDescriptor(b []byte) bool {
	return ValidSignatureDescriptorGetSlots(b) >= 0
}

// ValidSignatureDescriptorGetSlots validates b as a method descriptor and
// returns the number of slots its parameters occupy (long and double count
// two), or -1 if b is invalid.
func ValidSignatureDescriptorGetSlots(b []byte) int {
	if len(b) < 3 || b[0] != '(' {
		return -1
	}
	slots := 0
	i := 1
	for i < len(b) && b[i] != ')' {
		end, ok := skipType(b, i, false)
		if !ok {
			return -1
		}
		if b[i] == 'J' || b[i] == 'D' {
			slots += 2
		} else {
			slots++
		}
		i = end
	}
	if i >= len(b) {
		return -1
	}
	end, ok := skipType(b, i+1, true)
	if !ok || end != len(b) {
		return -1
	}
	return slots
}

// skipType returns the index just past the type descriptor starting at i.
func skipType(b []byte, i int, allowVoid bool) (int, bool) {
	if i >= len(b) {
		return i, false
	}
	switch b[i] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return i + 1, true
	case 'V':
		return i + 1, allowVoid
	case '[':
		start := i
		for i < len(b) && b[i] == '[' {
			i++
		}
		if i-start > MaxArrayDimensions {
			return i, false
		}
		return skipType(b, i, false)
	case 'L':
		semi := bytes.IndexByte(b[i+1:], ';')
		if semi < 0 || !ValidBinaryName(b[i+1:i+1+semi]) {
			return i, false
		}
		return i + 2 + semi, true
	}
	return i, false
}

package descriptor

import (
	"strings"

	"github.com/chazu/javelin/symbol"
	"github.com/chazu/javelin/validation"
)

// TypeSymbols interns and manipulates field type descriptors.
type TypeSymbols struct {
	symbols *symbol.Symbols
	known   *KnownTypes
}

// NewTypeSymbols creates a type manager over an engine seeded with the
// bootstrap that produced known.
func NewTypeSymbols(symbols *symbol.Symbols, known *KnownTypes) *TypeSymbols {
	return &TypeSymbols{symbols: symbols, known: known}
}

// Lookup returns the interned type for s, or nil if s is not a valid type
// descriptor or has not been interned.
func (ts *TypeSymbols) Lookup(s string) *TypeSymbol {
	return ts.LookupValid(symbol.FromString(s))
}

// LookupValid is Lookup for a byte sequence.
func (ts *TypeSymbols) LookupValid(seq symbol.ByteSequence) *TypeSymbol {
	if !validation.ValidTypeDescriptor(seq.Bytes(), true) {
		return nil
	}
	return symbol.As[symbol.Type](ts.symbols.Lookup(seq))
}

// GetOrCreateValid interns seq if it is a valid type descriptor, void
// included, and returns nil otherwise.
func (ts *TypeSymbols) GetOrCreateValid(seq symbol.ByteSequence, ensureStrong bool) *TypeSymbol {
	if !validation.ValidTypeDescriptor(seq.Bytes(), true) {
		return nil
	}
	return symbol.As[symbol.Type](ts.symbols.GetOrCreate(seq, ensureStrong))
}

// GetOrCreateValidString is GetOrCreateValid for a string, interning weakly.
func (ts *TypeSymbols) GetOrCreateValidString(s string) *TypeSymbol {
	return ts.GetOrCreateValid(symbol.FromString(s), false)
}

// getOrCreate interns a sequence already known to be a type.
func (ts *TypeSymbols) getOrCreate(seq symbol.ByteSequence) *TypeSymbol {
	return symbol.As[symbol.Type](ts.symbols.GetOrCreate(seq, false))
}

// ForPrimitive returns the canonical type of a primitive or void kind.
func (ts *TypeSymbols) ForPrimitive(kind JavaKind) *TypeSymbol {
	return ts.known.ForPrimitive(kind)
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// SkipValidTypeDescriptor returns the index just past the type descriptor
// that starts at beginIndex. Class names must use '/' as package separator
// when slashesAllowed is set, and '.' otherwise.
func SkipValidTypeDescriptor(descriptor symbol.ByteSequence, beginIndex int, slashesAllowed bool) (int, error) {
	if beginIndex >= descriptor.Length() {
		return 0, classFormatError(descriptor.String(), "invalid type descriptor")
	}
	c := descriptor.ByteAt(beginIndex)
	if KindFromTypeChar(c) != Illegal {
		return beginIndex + 1, nil
	}
	switch c {
	case 'L':
		separator := byte('.')
		if slashesAllowed {
			separator = '/'
		}
		end := skipClassName(descriptor, beginIndex+1, separator)
		if end > beginIndex+1 && end < descriptor.Length() && descriptor.ByteAt(end) == ';' {
			return end + 1, nil
		}
		return 0, classFormatError(descriptor.SubSequence(beginIndex, descriptor.Length()-beginIndex).String(), "invalid class name in type descriptor")
	case '[':
		index := beginIndex
		for index < descriptor.Length() && descriptor.ByteAt(index) == '[' {
			index++
		}
		if index-beginIndex > validation.MaxArrayDimensions {
			return 0, &ClassFormatError{Descriptor: descriptor.String(), Reason: "invalid array type", Err: ErrArrayDimensions}
		}
		return SkipValidTypeDescriptor(descriptor, index, slashesAllowed)
	}
	return 0, classFormatError(descriptor.String(), "invalid type descriptor")
}

// skipClassName returns the index of the first byte that cannot continue a
// class name: ';', '[', or a package separator other than separator.
func skipClassName(descriptor symbol.ByteSequence, from int, separator byte) int {
	index := from
	for index < descriptor.Length() {
		switch c := descriptor.ByteAt(index); c {
		case '.', '/':
			if c != separator {
				return index
			}
		case ';', '[':
			return index
		}
		index++
	}
	return index
}

// Parse interns the type descriptor that starts at beginIndex. Primitive
// types resolve to the canonical bootstrap symbols without touching the
// engine.
func (ts *TypeSymbols) Parse(descriptor symbol.ByteSequence, beginIndex int, slashesAllowed bool) (*TypeSymbol, error) {
	end, err := SkipValidTypeDescriptor(descriptor, beginIndex, slashesAllowed)
	if err != nil {
		return nil, err
	}
	if end == beginIndex+1 {
		return ts.known.ForPrimitive(KindFromTypeChar(descriptor.ByteAt(beginIndex))), nil
	}
	return ts.getOrCreate(descriptor.SubSequence(beginIndex, end-beginIndex)), nil
}

// ---------------------------------------------------------------------------
// Arrays
// ---------------------------------------------------------------------------

// ArrayOf returns the type of a dimensions-dimensional array of t.
func (ts *TypeSymbols) ArrayOf(t *TypeSymbol, dimensions int) (*TypeSymbol, error) {
	symbol.Guarantee(dimensions > 0, "array dimensions must be positive")
	symbol.Guarantee(t != ts.known.Void, "void has no array type")
	if ArrayDimensions(t)+dimensions > validation.MaxArrayDimensions {
		return nil, &ClassFormatError{Descriptor: t.String(), Reason: "invalid array type", Err: ErrArrayDimensions}
	}
	buf := make([]byte, dimensions, dimensions+t.Length())
	for i := range buf {
		buf[i] = '['
	}
	buf = t.AppendTo(buf)
	return ts.getOrCreate(symbol.Wrap(buf)), nil
}

// ComponentType strips one array dimension from t, or returns nil if t is
// not an array.
func (ts *TypeSymbols) ComponentType(t *TypeSymbol) *TypeSymbol {
	if !IsArray(t) {
		return nil
	}
	return ts.strip(t, 1)
}

// ElementalType strips every array dimension from t. Non-array types are
// returned unchanged.
func (ts *TypeSymbols) ElementalType(t *TypeSymbol) *TypeSymbol {
	dims := ArrayDimensions(t)
	if dims == 0 {
		return t
	}
	return ts.strip(t, dims)
}

func (ts *TypeSymbols) strip(t *TypeSymbol, dims int) *TypeSymbol {
	rest := t.SubSequence(dims, t.Length()-dims)
	if rest.Length() == 1 {
		return ts.known.ForPrimitive(KindFromTypeChar(rest.ByteAt(0)))
	}
	return ts.getOrCreate(rest)
}

// ---------------------------------------------------------------------------
// Class names
// ---------------------------------------------------------------------------

// FromClassNameEntry converts a CONSTANT_Class name to a type. Array names
// are already descriptors and come back as the same symbol; other names are
// wrapped in L...;.
func (ts *TypeSymbols) FromClassNameEntry(name *NameSymbol) *TypeSymbol {
	if name.Length() > 0 && name.ByteAt(0) == '[' {
		return symbol.As[symbol.Type](name)
	}
	buf := make([]byte, 0, name.Length()+2)
	buf = append(buf, 'L')
	buf = name.AppendTo(buf)
	buf = append(buf, ';')
	return ts.getOrCreate(symbol.Wrap(buf))
}

// ToClassNameEntry is the inverse of FromClassNameEntry. It is undefined
// for primitive types (I and LI; would collide) and panics on them.
func (ts *TypeSymbols) ToClassNameEntry(t *TypeSymbol) *NameSymbol {
	symbol.Guaranteef(!IsPrimitive(t), "primitive type %q has no class name entry", t.String())
	if IsArray(t) {
		return symbol.As[symbol.Name](t)
	}
	return symbol.As[symbol.Name](ts.symbols.GetOrCreate(t.SubSequence(1, t.Length()-2), false))
}

// FromClassGetName converts a Class.getName() style name ("int",
// "java.lang.String", "[Ljava.lang.String;") to a type, or returns nil if
// the result is not a valid descriptor.
func (ts *TypeSymbols) FromClassGetName(name string) *TypeSymbol {
	if kind := KindFromJavaName(name); kind != Illegal {
		return ts.known.ForPrimitive(kind)
	}
	internal := strings.ReplaceAll(name, ".", "/")
	if !strings.HasPrefix(internal, "[") {
		internal = "L" + internal + ";"
	}
	return ts.GetOrCreateValid(symbol.FromString(internal), false)
}

// ---------------------------------------------------------------------------
// Pure derivations
// ---------------------------------------------------------------------------

// IsPrimitive reports whether t is a one-character primitive or void type.
func IsPrimitive(t *TypeSymbol) bool {
	return t.Length() == 1 && KindFromTypeChar(t.ByteAt(0)) != Illegal
}

// IsArray reports whether t is an array type.
func IsArray(t *TypeSymbol) bool {
	return t.Length() > 0 && t.ByteAt(0) == '['
}

// IsReference reports whether t is a class or array type.
func IsReference(t *TypeSymbol) bool {
	return t.Length() > 1
}

// ArrayDimensions counts the leading '[' of t.
func ArrayDimensions(t *TypeSymbol) int {
	dims := 0
	for dims < t.Length() && t.ByteAt(dims) == '[' {
		dims++
	}
	return dims
}

// JavaKindOf returns the kind of values of type t.
func JavaKindOf(t *TypeSymbol) JavaKind {
	if t.Length() == 1 {
		return KindFromTypeChar(t.ByteAt(0))
	}
	return Object
}

// SlotCount is 0 for void, 2 for long and double, 1 otherwise.
func SlotCount(t *TypeSymbol) int {
	return JavaKindOf(t).SlotCount()
}

// BinaryName returns the Class.getName() form of t: "int",
// "java.lang.String" or "[Ljava.lang.String;".
func BinaryName(t *TypeSymbol) string {
	switch {
	case IsArray(t):
		return strings.ReplaceAll(t.String(), "/", ".")
	case IsPrimitive(t):
		return JavaKindOf(t).String()
	}
	return strings.ReplaceAll(t.SubSequence(1, t.Length()-2).String(), "/", ".")
}

// ToJavaName returns the source-level spelling of t: "int[][]",
// "java.lang.String".
func ToJavaName(t *TypeSymbol) string {
	dims := ArrayDimensions(t)
	var elem string
	switch rest := t.SubSequence(dims, t.Length()-dims); {
	case rest.Length() == 1:
		elem = KindFromTypeChar(rest.ByteAt(0)).String()
	default:
		elem = strings.ReplaceAll(rest.SubSequence(1, rest.Length()-2).String(), "/", ".")
	}
	return elem + strings.Repeat("[]", dims)
}

// RuntimePackage returns the package part of a type descriptor
// ("java/lang" for "[Ljava/lang/String;"), or an empty sequence for types in
// the unnamed package and primitives.
func RuntimePackage(name symbol.ByteSequence) symbol.ByteSequence {
	lastSlash := name.LastIndexOf('/')
	if lastSlash < 0 {
		return symbol.ByteSequence{}
	}
	start := 0
	for name.ByteAt(start) == '[' {
		start++
	}
	if name.ByteAt(start) == 'L' {
		start++
	}
	return name.SubSequence(start, lastSlash-start)
}

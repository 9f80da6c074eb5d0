package descriptor

// JavaKind is the basic kind of a value: one of the primitive types, a
// reference, or void.
type JavaKind uint8

const (
	Illegal JavaKind = iota
	Boolean
	Byte
	Short
	Char
	Int
	Float
	Long
	Double
	Object
	Void
)

var kindInfo = [...]struct {
	typeChar byte
	javaName string
	slots    int
}{
	Illegal: {'-', "illegal", 0},
	Boolean: {'Z', "boolean", 1},
	Byte:    {'B', "byte", 1},
	Short:   {'S', "short", 1},
	Char:    {'C', "char", 1},
	Int:     {'I', "int", 1},
	Float:   {'F', "float", 1},
	Long:    {'J', "long", 2},
	Double:  {'D', "double", 2},
	Object:  {'L', "Object", 1},
	Void:    {'V', "void", 0},
}

// KindFromTypeChar returns the primitive or void kind for a descriptor
// character, or Illegal.
func KindFromTypeChar(c byte) JavaKind {
	switch c {
	case 'Z':
		return Boolean
	case 'B':
		return Byte
	case 'S':
		return Short
	case 'C':
		return Char
	case 'I':
		return Int
	case 'F':
		return Float
	case 'J':
		return Long
	case 'D':
		return Double
	case 'V':
		return Void
	}
	return Illegal
}

// KindFromJavaName returns the primitive or void kind for a Java keyword
// such as "int", or Illegal.
func KindFromJavaName(name string) JavaKind {
	for k := Boolean; k <= Void; k++ {
		if k != Object && kindInfo[k].javaName == name {
			return k
		}
	}
	return Illegal
}

// TypeChar returns the descriptor character of the kind.
func (k JavaKind) TypeChar() byte {
	return kindInfo[k].typeChar
}

// SlotCount is 0 for void, 2 for long and double, 1 otherwise.
func (k JavaKind) SlotCount() int {
	return kindInfo[k].slots
}

// NeedsTwoSlots reports whether the kind is long or double.
func (k JavaKind) NeedsTwoSlots() bool {
	return k == Long || k == Double
}

// IsPrimitive reports whether the kind has a one-character descriptor,
// void included.
func (k JavaKind) IsPrimitive() bool {
	return k >= Boolean && k <= Double || k == Void
}

// IsStackInt reports whether values of the kind widen to int on the
// operand stack.
func (k JavaKind) IsStackInt() bool {
	return k >= Boolean && k <= Int
}

func (k JavaKind) String() string {
	return kindInfo[k].javaName
}

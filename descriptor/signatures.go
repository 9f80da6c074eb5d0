package descriptor

import (
	"iter"

	"github.com/chazu/javelin/symbol"
	"github.com/chazu/javelin/validation"
)

// SignatureSymbols interns and parses method descriptors.
type SignatureSymbols struct {
	symbols *symbol.Symbols
	types   *TypeSymbols
}

// NewSignatureSymbols creates a signature manager that parses its component
// types through types.
func NewSignatureSymbols(symbols *symbol.Symbols, types *TypeSymbols) *SignatureSymbols {
	return &SignatureSymbols{symbols: symbols, types: types}
}

// Lookup returns the interned signature for s, or nil if s is invalid or
// has not been interned.
func (ss *SignatureSymbols) Lookup(s string) *SignatureSymbol {
	return ss.LookupValid(symbol.FromString(s))
}

// LookupValid is Lookup for a byte sequence.
func (ss *SignatureSymbols) LookupValid(seq symbol.ByteSequence) *SignatureSymbol {
	if !validation.ValidSignatureDescriptor(seq.Bytes()) {
		return nil
	}
	return symbol.As[symbol.Signature](ss.symbols.Lookup(seq))
}

// GetOrCreateValid interns seq if it is a valid method descriptor and
// returns nil otherwise.
func (ss *SignatureSymbols) GetOrCreateValid(seq symbol.ByteSequence, ensureStrong bool) *SignatureSymbol {
	if !validation.ValidSignatureDescriptor(seq.Bytes()) {
		return nil
	}
	return symbol.As[symbol.Signature](ss.symbols.GetOrCreate(seq, ensureStrong))
}

// GetOrCreateValidString is GetOrCreateValid for a string, interning weakly.
func (ss *SignatureSymbols) GetOrCreateValidString(s string) *SignatureSymbol {
	return ss.GetOrCreateValid(symbol.FromString(s), false)
}

// MakeRaw builds the descriptor bytes (params...)returnType without
// interning them.
func MakeRaw(returnType *TypeSymbol, parameterTypes ...*TypeSymbol) symbol.ByteSequence {
	return symbol.BuildSignature(returnType, parameterTypes...)
}

// CreateSignature interns the descriptor (params...)returnType. The
// parameters must not be void.
func (ss *SignatureSymbols) CreateSignature(returnType *TypeSymbol, parameterTypes ...*TypeSymbol) *SignatureSymbol {
	sig := ss.GetOrCreateValid(MakeRaw(returnType, parameterTypes...), false)
	symbol.Guarantee(sig != nil, "signature built from invalid types")
	return sig
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parsed splits a method descriptor into its parameter types followed by
// its return type.
func (ss *SignatureSymbols) Parsed(sig *SignatureSymbol) ([]*TypeSymbol, error) {
	return ss.parse(sig.ByteSequence)
}

func (ss *SignatureSymbols) parse(sig symbol.ByteSequence) ([]*TypeSymbol, error) {
	if sig.Length() < 3 || sig.ByteAt(0) != '(' {
		return nil, classFormatError(sig.String(), "invalid method signature")
	}
	parsed := make([]*TypeSymbol, 0, 4)
	index := 1
	for index < sig.Length() && sig.ByteAt(index) != ')' {
		t, err := ss.types.Parse(sig, index, true)
		if err != nil {
			return nil, err
		}
		if t == ss.types.known.Void {
			return nil, classFormatError(sig.String(), "void parameter in method signature")
		}
		parsed = append(parsed, t)
		index += t.Length()
	}
	ret, err := ss.types.Parse(sig, index+1, true)
	if err != nil {
		return nil, err
	}
	if index+1+ret.Length() != sig.Length() {
		return nil, classFormatError(sig.String(), "trailing bytes in method signature")
	}
	return append(parsed, ret), nil
}

// ToBasic erases sig for call-site matching: reference and array types
// become Object, boolean, byte, short and char become int. The return type
// is always erased. With keepLastArg the last parameter keeps its exact
// type, as needed for a variable-arity carrier.
func (ss *SignatureSymbols) ToBasic(sig *SignatureSymbol, keepLastArg bool) (*SignatureSymbol, error) {
	parsed, err := ss.Parsed(sig)
	if err != nil {
		return nil, err
	}
	count := ParameterCount(parsed)
	params := make([]*TypeSymbol, count)
	for i := 0; i < count; i++ {
		if keepLastArg && i == count-1 {
			params[i] = parsed[i]
		} else {
			params[i] = ss.basicType(parsed[i])
		}
	}
	ret := ss.basicType(ReturnType(parsed))
	return symbol.As[symbol.Signature](ss.symbols.GetOrCreate(MakeRaw(ret, params...), false)), nil
}

func (ss *SignatureSymbols) basicType(t *TypeSymbol) *TypeSymbol {
	switch kind := JavaKindOf(t); {
	case kind == Object:
		return ss.types.known.Object
	case kind.IsStackInt():
		return ss.types.known.Int
	}
	return t
}

// ---------------------------------------------------------------------------
// Parsed signature accessors
// ---------------------------------------------------------------------------

// ReturnType returns the last element of a parsed signature.
func ReturnType(parsed []*TypeSymbol) *TypeSymbol {
	return parsed[len(parsed)-1]
}

// ReturnKind returns the kind of the return type.
func ReturnKind(parsed []*TypeSymbol) JavaKind {
	return JavaKindOf(ReturnType(parsed))
}

// ParameterCount returns the number of parameters.
func ParameterCount(parsed []*TypeSymbol) int {
	return len(parsed) - 1
}

// ParameterType returns the type of parameter index.
func ParameterType(parsed []*TypeSymbol, index int) *TypeSymbol {
	symbol.Guarantee(index >= 0 && index < ParameterCount(parsed), "parameter index out of range")
	return parsed[index]
}

// ParameterKind returns the kind of parameter index.
func ParameterKind(parsed []*TypeSymbol, index int) JavaKind {
	return JavaKindOf(ParameterType(parsed, index))
}

// NumberOfSlots sums the slots of the parameters and the return type, where
// long and double take two slots and every other type, void included,
// takes one.
func NumberOfSlots(parsed []*TypeSymbol) int {
	slots := 0
	for _, t := range parsed {
		if JavaKindOf(t).NeedsTwoSlots() {
			slots += 2
		} else {
			slots++
		}
	}
	return slots
}

// SlotsForParameters sums the slots of the parameters.
func SlotsForParameters(parsed []*TypeSymbol) int {
	slots := 0
	for _, t := range parsed[:ParameterCount(parsed)] {
		slots += SlotCount(t)
	}
	return slots
}

// Iterable walks the parameter types, and the return type last if
// withReturnType is set, in order or in reverse. Each range over the result
// starts from the beginning.
func Iterable(parsed []*TypeSymbol, reverse, withReturnType bool) iter.Seq[*TypeSymbol] {
	end := ParameterCount(parsed)
	if withReturnType {
		end++
	}
	return func(yield func(*TypeSymbol) bool) {
		if reverse {
			for i := end - 1; i >= 0; i-- {
				if !yield(parsed[i]) {
					return
				}
			}
			return
		}
		for i := 0; i < end; i++ {
			if !yield(parsed[i]) {
				return
			}
		}
	}
}

package descriptor

import (
	"github.com/chazu/javelin/symbol"
	"github.com/chazu/javelin/validation"
)

// NameSymbols interns class, method and field names. Names have no grammar
// beyond what the caller checks; the Valid variants apply the class-file
// rules for a particular use.
type NameSymbols struct {
	symbols *symbol.Symbols
}

// NewNameSymbols creates a name manager over symbols.
func NewNameSymbols(symbols *symbol.Symbols) *NameSymbols {
	return &NameSymbols{symbols: symbols}
}

// Lookup returns the interned name s, or nil.
func (ns *NameSymbols) Lookup(s string) *NameSymbol {
	return ns.LookupBytes(symbol.FromString(s))
}

// LookupBytes returns the interned name seq, or nil.
func (ns *NameSymbols) LookupBytes(seq symbol.ByteSequence) *NameSymbol {
	return symbol.As[symbol.Name](ns.symbols.Lookup(seq))
}

// GetOrCreate interns s weakly.
func (ns *NameSymbols) GetOrCreate(s string) *NameSymbol {
	return ns.GetOrCreateBytes(symbol.FromString(s), false)
}

// GetOrCreateBytes interns seq.
func (ns *NameSymbols) GetOrCreateBytes(seq symbol.ByteSequence, ensureStrong bool) *NameSymbol {
	return symbol.As[symbol.Name](ns.symbols.GetOrCreate(seq, ensureStrong))
}

// GetOrCreateValidClassName interns seq if it is a valid CONSTANT_Class
// name, and returns nil otherwise.
func (ns *NameSymbols) GetOrCreateValidClassName(seq symbol.ByteSequence, ensureStrong bool) *NameSymbol {
	if !validation.ValidClassNameEntry(seq.Bytes()) {
		return nil
	}
	return ns.GetOrCreateBytes(seq, ensureStrong)
}

// GetOrCreateValidMethodName interns seq if it is a valid method name, and
// returns nil otherwise.
func (ns *NameSymbols) GetOrCreateValidMethodName(seq symbol.ByteSequence, ensureStrong bool) *NameSymbol {
	if !validation.ValidMethodName(seq.Bytes()) {
		return nil
	}
	return ns.GetOrCreateBytes(seq, ensureStrong)
}

// GetOrCreateValidFieldName interns seq if it is a valid field name, and
// returns nil otherwise.
func (ns *NameSymbols) GetOrCreateValidFieldName(seq symbol.ByteSequence, ensureStrong bool) *NameSymbol {
	if !validation.ValidUnqualifiedName(seq.Bytes()) {
		return nil
	}
	return ns.GetOrCreateBytes(seq, ensureStrong)
}

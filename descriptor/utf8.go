package descriptor

import (
	"github.com/chazu/javelin/symbol"
	"github.com/chazu/javelin/validation"
)

// Utf8Symbols interns generic constant-pool strings.
type Utf8Symbols struct {
	symbols *symbol.Symbols
}

// NewUtf8Symbols creates a UTF-8 manager over symbols.
func NewUtf8Symbols(symbols *symbol.Symbols) *Utf8Symbols {
	return &Utf8Symbols{symbols: symbols}
}

// Lookup returns the interned string s, or nil if s is not valid modified
// UTF-8 or has not been interned.
func (us *Utf8Symbols) Lookup(s string) *UTF8Symbol {
	return us.LookupValid(symbol.FromString(s))
}

// LookupValid is Lookup for a byte sequence.
func (us *Utf8Symbols) LookupValid(seq symbol.ByteSequence) *UTF8Symbol {
	if !validation.ValidModifiedUTF8(seq.Bytes()) {
		return nil
	}
	return symbol.As[symbol.ModifiedUTF8](us.symbols.Lookup(seq))
}

// GetOrCreateValid interns seq if it is valid modified UTF-8, and returns
// nil otherwise.
func (us *Utf8Symbols) GetOrCreateValid(seq symbol.ByteSequence, ensureStrong bool) *UTF8Symbol {
	if !validation.ValidModifiedUTF8(seq.Bytes()) {
		return nil
	}
	return symbol.As[symbol.ModifiedUTF8](us.symbols.GetOrCreate(seq, ensureStrong))
}

// GetOrCreateValidString is GetOrCreateValid for a string, interning weakly.
func (us *Utf8Symbols) GetOrCreateValidString(s string) *UTF8Symbol {
	return us.GetOrCreateValid(symbol.FromString(s), false)
}

package descriptor

import (
	"github.com/chazu/javelin/symbol"
)

// Table is a runtime symbol engine seeded from a Bootstrap, together with
// the four managers over it.
type Table struct {
	Boot    *Bootstrap
	Symbols *symbol.Symbols

	Names      *NameSymbols
	Types      *TypeSymbols
	Signatures *SignatureSymbols
	Utf8       *Utf8Symbols
}

// NewTable creates a runtime table. Every table created from the same
// bootstrap shares its symbols by identity.
func NewTable(boot *Bootstrap) *Table {
	syms := symbol.NewSymbols(boot.Symbols())
	types := NewTypeSymbols(syms, boot.Type)
	return &Table{
		Boot:       boot,
		Symbols:    syms,
		Names:      NewNameSymbols(syms),
		Types:      types,
		Signatures: NewSignatureSymbols(syms, types),
		Utf8:       NewUtf8Symbols(syms),
	}
}

// Package descriptor layers the class-file descriptor grammar over the
// symbol engine.
//
// This package contains:
//   - JavaKind, the basic kinds of values a descriptor can denote
//   - NameSymbols, TypeSymbols, SignatureSymbols and Utf8Symbols managers
//   - the well-known bootstrap symbols and the Table bundling an engine
//     with its managers
//
// Managers follow two error regimes. Lookup and GetOrCreateValid return nil
// for malformed input and are meant for untrusted class-file bytes. Parsing
// operations return a *ClassFormatError.
package descriptor

import "github.com/chazu/javelin/symbol"

// Kind-tagged symbol types used throughout this package.
type (
	NameSymbol       = symbol.Symbol[symbol.Name]
	TypeSymbol       = symbol.Symbol[symbol.Type]
	SignatureSymbol  = symbol.Symbol[symbol.Signature]
	UTF8Symbol       = symbol.Symbol[symbol.ModifiedUTF8]
	DescriptorSymbol = symbol.Symbol[symbol.Descriptor]
)

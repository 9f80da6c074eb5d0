// Package symbol implements the descriptor symbol table.
//
// This package contains:
//   - ByteSequence, a read-only content view over a byte range
//   - Symbol, the canonical identity-compared instance of some content
//   - Symbols, the interning engine with a strong and a weak tier
//   - StaticSymbols, the freeze-once bootstrap table
//
// Consumers compare *Symbol values with ==. Content equality is only used
// inside the engine.
package symbol

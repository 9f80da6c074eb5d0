package symbol

import (
	"sync"

	"github.com/chazu/javelin/validation"
)

// ---------------------------------------------------------------------------
// StaticSymbols: bootstrap table
// ---------------------------------------------------------------------------

// StaticSymbols collects the built-in descriptors before any runtime engine
// exists. Once frozen, the collected symbols seed runtime engines through
// NewSymbols and are shared by identity with every one of them.
//
// Every method panics with a *GuaranteeViolation when called after Freeze
// or when given a malformed descriptor.
type StaticSymbols struct {
	mu     sync.Mutex
	frozen bool
	engine *Symbols
}

// NewStaticSymbols creates an empty, unfrozen bootstrap table.
func NewStaticSymbols() *StaticSymbols {
	return &StaticSymbols{engine: NewSymbols(nil)}
}

// PutName interns a non-empty name.
func (st *StaticSymbols) PutName(name string) *Symbol[Name] {
	Guarantee(name != "", "static name must not be empty")
	return As[Name](st.put(FromString(name)))
}

// PutType interns a type descriptor, void included.
func (st *StaticSymbols) PutType(typ string) *Symbol[Type] {
	seq := FromString(typ)
	Guaranteef(validation.ValidTypeDescriptor(seq.Bytes(), true), "invalid static type descriptor %q", typ)
	return As[Type](st.put(seq))
}

// PutSignature interns the method descriptor (params...)returnType.
func (st *StaticSymbols) PutSignature(returnType *Symbol[Type], parameterTypes ...*Symbol[Type]) *Symbol[Signature] {
	seq := BuildSignature(returnType, parameterTypes...)
	Guaranteef(validation.ValidSignatureDescriptor(seq.Bytes()), "invalid static signature %q", seq.String())
	return As[Signature](st.put(seq))
}

func (st *StaticSymbols) put(seq ByteSequence) *Symbol[Descriptor] {
	st.mu.Lock()
	defer st.mu.Unlock()
	Guarantee(!st.frozen, "static symbols are frozen")
	return st.engine.GetOrCreate(seq, true)
}

// IsFrozen reports whether Freeze has been called.
func (st *StaticSymbols) IsFrozen() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.frozen
}

// Freeze ends registration and returns every symbol registered so far.
// Freeze may only be called once.
func (st *StaticSymbols) Freeze() *SymbolSet {
	st.mu.Lock()
	defer st.mu.Unlock()
	Guarantee(!st.frozen, "static symbols already frozen")
	st.frozen = true

	set := &SymbolSet{index: make(map[*Symbol[Descriptor]]struct{})}
	st.engine.strong.each(func(_ string, sym *Symbol[Descriptor]) {
		set.symbols = append(set.symbols, sym)
		set.index[sym] = struct{}{}
	})
	return set
}

// BuildSignature returns the canonical method descriptor bytes
// "(" + parameterTypes + ")" + returnType. It does not validate.
func BuildSignature(returnType *Symbol[Type], parameterTypes ...*Symbol[Type]) ByteSequence {
	n := 2 + returnType.Length()
	for _, p := range parameterTypes {
		n += p.Length()
	}
	buf := make([]byte, 0, n)
	buf = append(buf, '(')
	for _, p := range parameterTypes {
		buf = p.AppendTo(buf)
	}
	buf = append(buf, ')')
	buf = returnType.AppendTo(buf)
	return Wrap(buf)
}

// ---------------------------------------------------------------------------
// SymbolSet: frozen snapshot
// ---------------------------------------------------------------------------

// SymbolSet is an immutable set of symbols produced by StaticSymbols.Freeze.
type SymbolSet struct {
	symbols []*Symbol[Descriptor]
	index   map[*Symbol[Descriptor]]struct{}
}

// Len returns the number of symbols in the set.
func (s *SymbolSet) Len() int {
	return len(s.symbols)
}

// Contains reports whether sym itself, not merely equal content, is in the set.
func (s *SymbolSet) Contains(sym *Symbol[Descriptor]) bool {
	_, ok := s.index[sym]
	return ok
}

// All returns the symbols in the set. The slice is a copy; the symbols are not.
func (s *SymbolSet) All() []*Symbol[Descriptor] {
	out := make([]*Symbol[Descriptor], len(s.symbols))
	copy(out, s.symbols)
	return out
}

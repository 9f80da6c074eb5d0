package symbol

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// strongTier holds symbols for the lifetime of the engine. Reads never
// block and are synchronised with concurrent stores; stores are serialized
// by the engine's write lock. Keys alias the symbols' own immutable bytes.
type strongTier struct {
	m *xsync.MapOf[string, *Symbol[Descriptor]]
}

func newStrongTier() *strongTier {
	return &strongTier{m: xsync.NewMapOf[string, *Symbol[Descriptor]]()}
}

func (t *strongTier) get(key string) *Symbol[Descriptor] {
	sym, _ := t.m.Load(key)
	return sym
}

func (t *strongTier) lookup(seq ByteSequence) *Symbol[Descriptor] {
	return t.get(seq.key())
}

func (t *strongTier) put(sym *Symbol[Descriptor]) {
	t.m.Store(sym.key(), sym)
}

func (t *strongTier) count() int {
	return t.m.Size()
}

// each calls fn for every entry.
func (t *strongTier) each(fn func(key string, sym *Symbol[Descriptor])) {
	t.m.Range(func(key string, sym *Symbol[Descriptor]) bool {
		fn(key, sym)
		return true
	})
}

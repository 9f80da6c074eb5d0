package symbol

import (
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("javelin.symbol")

// ---------------------------------------------------------------------------
// Symbols: the interning engine
// ---------------------------------------------------------------------------

// Symbols maps byte content to its canonical Symbol.
//
// Every canonical symbol lives in exactly one of two tiers. The strong tier
// keeps its symbols for the lifetime of the engine and can be probed without
// locks. The weak tier holds symbols that are reclaimed once no caller
// references them. Symbols only ever move from weak to strong.
//
// mu gates the slow paths: readers take it in read mode to consult the weak
// tier, creators and promoters take it in write mode.
type Symbols struct {
	strong *strongTier

	mu   sync.RWMutex
	weak *weakTier
}

// NewSymbols creates an engine. If seed is non-nil its symbols are placed
// in the strong tier and shared by identity.
func NewSymbols(seed *SymbolSet) *Symbols {
	s := &Symbols{
		strong: newStrongTier(),
		weak:   newWeakTier(),
	}
	if seed != nil {
		for _, sym := range seed.symbols {
			s.strong.put(sym)
		}
	}
	return s
}

// Lookup returns the canonical symbol for seq, or nil if there is none.
// It never creates a symbol.
func (s *Symbols) Lookup(seq ByteSequence) *Symbol[Descriptor] {
	if sym := s.strong.lookup(seq); sym != nil {
		return sym
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// A writer may have inserted since the unlocked probe.
	if sym := s.strong.lookup(seq); sym != nil {
		return sym
	}
	return s.weak.get(seq.key())
}

// LookupString is Lookup for a string.
func (s *Symbols) LookupString(str string) *Symbol[Descriptor] {
	return s.Lookup(FromString(str))
}

// GetOrCreate returns the canonical symbol for seq, creating it if needed.
// The bytes of seq are copied; the caller may reuse its buffer.
//
// With ensureStrong the returned symbol is in the strong tier, promoting an
// existing weak symbol in place. Otherwise a new symbol goes to the weak
// tier and an existing weak symbol stays weak.
func (s *Symbols) GetOrCreate(seq ByteSequence, ensureStrong bool) *Symbol[Descriptor] {
	if sym := s.strong.lookup(seq); sym != nil {
		return sym
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.weak.drain()

	// Double-check after acquiring write lock
	if sym := s.strong.lookup(seq); sym != nil {
		return sym
	}

	key := seq.key()
	if sym := s.weak.get(key); sym != nil {
		if ensureStrong {
			s.strong.put(sym)
			s.weak.remove(key)
			log.Debugf("promoted %q to the strong tier", key)
		}
		return sym
	}

	sym := newSymbol(seq)
	if ensureStrong {
		s.strong.put(sym)
		// drop a reclaimed weak entry for the same content, if any
		s.weak.remove(key)
	} else {
		s.weak.put(sym)
	}
	return sym
}

// GetOrCreateString is GetOrCreate for a string.
func (s *Symbols) GetOrCreateString(str string, ensureStrong bool) *Symbol[Descriptor] {
	return s.GetOrCreate(FromString(str), ensureStrong)
}

// IsWeak reports whether sym lives in the weak tier. sym must belong to
// this engine.
func (s *Symbols) IsWeak(sym *Symbol[Descriptor]) bool {
	if s.strong.lookup(sym.ByteSequence) == sym {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.strong.lookup(sym.ByteSequence) == sym {
		return false
	}
	Guaranteef(s.weak.get(sym.key()) == sym, "symbol %q does not belong to this engine", sym.String())
	return true
}

// Stats describes the engine's current occupancy.
type Stats struct {
	Strong int // symbols in the strong tier
	Weak   int // live symbols in the weak tier
	Dead   int // weak entries whose symbol was reclaimed but not yet removed
}

// Stats returns a snapshot of the tier sizes.
func (s *Symbols) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := s.weak.live()
	return Stats{
		Strong: s.strong.count(),
		Weak:   live,
		Dead:   len(s.weak.entries) - live,
	}
}

// Verify checks the engine's invariants and logs every violation. It takes
// the write lock and walks every entry; use it from tests and diagnostics
// only.
func (s *Symbols) Verify() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := true
	fail := func(format string, args ...any) {
		log.Errorf(format, args...)
		ok = false
	}

	strong := make(map[*Symbol[Descriptor]]struct{})
	s.strong.each(func(key string, sym *Symbol[Descriptor]) {
		if sym == nil {
			fail("strong entry %q has no symbol", key)
			return
		}
		if key != sym.key() {
			fail("strong entry %q holds symbol %q", key, sym.String())
		}
		if sym.hash != hashBytes(sym.Bytes()) {
			fail("strong symbol %q has a stale hash", key)
		}
		if _, dup := strong[sym]; dup {
			fail("strong symbol %q is stored twice", key)
		}
		strong[sym] = struct{}{}
	})

	for key, wp := range s.weak.entries {
		if s.strong.get(key) != nil {
			fail("%q is in both tiers", key)
		}
		sym := wp.Value()
		if sym == nil {
			continue
		}
		if sym.key() != key || sym.hash != hashBytes([]byte(key)) {
			fail("weak entry %q holds symbol %q", key, sym.String())
		}
		if _, dup := strong[sym]; dup {
			fail("weak symbol %q is reachable through the strong tier", key)
		}
	}
	return ok
}

package symbol

import (
	"runtime"
	"sync"
	"weak"
)

// ---------------------------------------------------------------------------
// weakTier: symbols that may be reclaimed
// ---------------------------------------------------------------------------

// weakTier maps content to a weak handle. The map itself is guarded by the
// engine's RWMutex; the dead queue has its own mutex because cleanups run
// on the runtime's cleanup goroutine without the engine lock.
type weakTier struct {
	entries map[string]weak.Pointer[Symbol[Descriptor]]

	deadMu sync.Mutex
	dead   []string
}

func newWeakTier() *weakTier {
	return &weakTier{
		entries: make(map[string]weak.Pointer[Symbol[Descriptor]]),
	}
}

// get returns the live referent for key, or nil if absent or reclaimed.
func (t *weakTier) get(key string) *Symbol[Descriptor] {
	wp, ok := t.entries[key]
	if !ok {
		return nil
	}
	return wp.Value()
}

func (t *weakTier) put(sym *Symbol[Descriptor]) {
	key := sym.key()
	t.entries[key] = weak.Make(sym)
	// key aliases the byte array, not the Symbol, so it does not keep sym
	// reachable.
	runtime.AddCleanup(sym, t.reclaimed, key)
}

func (t *weakTier) remove(key string) {
	delete(t.entries, key)
}

func (t *weakTier) reclaimed(key string) {
	t.deadMu.Lock()
	t.dead = append(t.dead, key)
	t.deadMu.Unlock()
}

// drain removes entries queued by cleanups. An entry is only deleted if its
// referent is still gone: the same content may have been re-created since.
// Must be called with the engine write lock held.
func (t *weakTier) drain() int {
	t.deadMu.Lock()
	dead := t.dead
	t.dead = nil
	t.deadMu.Unlock()

	removed := 0
	for _, key := range dead {
		if wp, ok := t.entries[key]; ok && wp.Value() == nil {
			delete(t.entries, key)
			removed++
		}
	}
	return removed
}

func (t *weakTier) pending() int {
	t.deadMu.Lock()
	defer t.deadMu.Unlock()
	return len(t.dead)
}

// live counts entries whose referent is alive.
func (t *weakTier) live() int {
	n := 0
	for _, wp := range t.entries {
		if wp.Value() != nil {
			n++
		}
	}
	return n
}

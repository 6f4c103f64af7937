// Package cache implements the polymorphic inline caches that turn a
// GetNamed/PutNamed call site into a monomorphic (later polymorphic,
// eventually megamorphic) shortcut around the full descriptor walk, keyed
// on the hidden class rather than the retired chunk-position keying the
// bytecode-VM ancestor of this design used.
package cache

import (
	"log/slog"
	"sync"

	"jsobject/pkg/class"
	"jsobject/pkg/object"
)

// State classifies how many distinct classes a site has seen.
type State int

const (
	StateUninitialized State = iota
	StateMonomorphic
	StatePolymorphic
	StateMegamorphic
)

func (s State) String() string {
	switch s {
	case StateMonomorphic:
		return "monomorphic"
	case StatePolymorphic:
		return "polymorphic"
	case StateMegamorphic:
		return "megamorphic"
	default:
		return "uninitialized"
	}
}

// maxPolymorphicEntries bounds how many (class, slot) pairs a site tracks
// before it gives up and goes megamorphic, matching the fan-out a handful
// of shapes at one call site realistically produces.
const maxPolymorphicEntries = 4

// entry is a single remembered (class, slot) resolution.
type entry struct {
	class class.HiddenClass
	slot  int
}

// Stats accumulates lookup outcomes for diagnostics.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Transitions uint64
}

// Site is one call site's inline cache: a small set of hidden classes it
// has resolved a property against, plus which slot each one landed on.
type Site struct {
	mu      sync.Mutex
	state   State
	entries []entry
	stats   Stats
	logger  *slog.Logger
}

// NewSite returns an empty, uninitialized cache site.
func NewSite() *Site { return &Site{} }

// SetLogger attaches a logger the site reports invalidation events
// (going megamorphic, which discards every tracked entry) through. A site
// with no logger attached stays silent, which is the default for a bare
// NewSite so tests and other loggerless callers are unaffected.
func (s *Site) SetLogger(l *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Lookup returns the remembered slot for cls, if any.
func (s *Site) Lookup(cls class.HiddenClass) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateMegamorphic {
		s.stats.Misses++
		return 0, false
	}
	for _, e := range s.entries {
		if e.class == cls {
			s.stats.Hits++
			return e.slot, true
		}
	}
	s.stats.Misses++
	return 0, false
}

// Update records a fresh (class, slot) resolution, promoting the site's
// state as distinct classes accumulate and dropping tracked entries once it
// goes megamorphic (a megamorphic site is a permanent miss from then on).
func (s *Site) Update(cls class.HiddenClass, slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateMegamorphic {
		return
	}
	for _, e := range s.entries {
		if e.class == cls {
			return
		}
	}
	s.entries = append(s.entries, entry{class: cls, slot: slot})
	s.stats.Transitions++
	switch {
	case len(s.entries) == 1:
		s.state = StateMonomorphic
	case len(s.entries) <= maxPolymorphicEntries:
		s.state = StatePolymorphic
	default:
		s.state = StateMegamorphic
		s.entries = nil
		if s.logger != nil {
			s.logger.Info("inline cache site invalidated to megamorphic",
				slog.Uint64("transitions", s.stats.Transitions))
		}
	}
}

// FromEntry folds an object.CacheEntry population (stamped by GetNamed on a
// class-mode hit) into the site.
func (s *Site) FromEntry(e object.CacheEntry) {
	if e.Class == nil {
		return
	}
	s.Update(e.Class, e.Slot)
}

// State reports the site's current polymorphism level.
func (s *Site) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a snapshot of the site's hit/miss/transition counters.
func (s *Site) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

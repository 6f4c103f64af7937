package class

import (
	"fmt"
	"sync"

	"jsobject/pkg/value"
)

// Field is one entry of a shape: a property key bound to a storage slot and
// its current flags.
type Field struct {
	Key   value.PropertyKey
	Slot  int
	Flags PropertyFlags
}

// HiddenClass is the interface the object model core consumes. Its only
// concrete implementation in this module is *Shape, but the core is written
// against the interface so an embedder could substitute a different
// representation (e.g. a class hierarchy specialized per object kind)
// without touching pkg/object.
type HiddenClass interface {
	// AddProperty transitions to a class with one more property, sharing the
	// transition with any other object that adds the same key with the same
	// flags from this class.
	AddProperty(key value.PropertyKey, flags PropertyFlags) (HiddenClass, int)
	// UpdateProperty transitions to a class where an existing property's
	// flags have changed. The slot index is preserved.
	UpdateProperty(key value.PropertyKey, flags PropertyFlags) HiddenClass
	// DeleteProperty transitions to a class missing the given property.
	DeleteProperty(key value.PropertyKey) HiddenClass

	Find(key value.PropertyKey) (Field, bool)
	ForEachProperty(visit func(Field))
	NumProperties() int

	IsDictionary() bool
	// ToDictionary converts this class (and no other object sharing it) into
	// an object-private, uncacheable class with the same fields.
	ToDictionary() HiddenClass

	GetHasIndexLikeProperties() bool

	MakeAllNonConfigurable() HiddenClass
	MakeAllReadOnly() HiddenClass
	AreAllNonConfigurable() bool
	AreAllReadOnly() bool

	// ShouldCacheForIn reports whether this class may participate in a
	// for-in prototype-prefix cache; a dictionary-mode class never can.
	ShouldCacheForIn() bool
	GetForInCache() []value.Value
	SetForInCache(names []value.Value)
	ClearForInCache()
}

// Shape is the concrete HiddenClass: a map from property key to slot+flags,
// with add/update/delete transitions memoized in a DAG so that objects built
// up in the same order end up sharing one class.
type Shape struct {
	mu          sync.RWMutex
	fields      []Field
	byKey       map[any]int // key.Hash() -> index into fields
	transitions map[string]*Shape
	dictionary  bool
	hasIndexLike bool

	// nextSlot is the next physical storage slot to hand out. It only ever
	// grows: a deleted property's slot becomes a permanent hole rather than
	// being reused, since len(fields) stops being a safe slot number the
	// moment a delete leaves fields non-contiguous with their own Slot
	// values.
	nextSlot int

	forInCache []value.Value
}

// RootShape is the empty class every fresh object starts from.
var RootShape = NewShape()

// NewShape returns a fresh, empty class-mode shape with no transitions yet.
func NewShape() *Shape {
	return &Shape{
		byKey:       make(map[any]int),
		transitions: make(map[string]*Shape),
	}
}

func transitionKey(key value.PropertyKey, flags PropertyFlags) string {
	return fmt.Sprintf("%v|%v|e%tw%tc%ta%ti%th%ts%t",
		key.Hash(), key.Kind(),
		flags.Enumerable, flags.Writable, flags.Configurable,
		flags.Accessor, flags.InternalSetter, flags.HostObject, flags.StaticBuiltin)
}

func (s *Shape) clone() *Shape {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	byKey := make(map[any]int, len(s.byKey))
	for k, v := range s.byKey {
		byKey[k] = v
	}
	hasIndexLike := s.hasIndexLike
	return &Shape{
		fields:       fields,
		byKey:        byKey,
		transitions:  make(map[string]*Shape),
		dictionary:   s.dictionary,
		hasIndexLike: hasIndexLike,
		nextSlot:     s.nextSlot,
	}
}

func (s *Shape) AddProperty(key value.PropertyKey, flags PropertyFlags) (HiddenClass, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dictionary {
		// Dictionary-mode classes are object-private: mutate in place
		// rather than growing a shared transition table nobody else uses.
		slot := s.nextSlot
		s.nextSlot++
		s.fields = append(s.fields, Field{Key: key, Slot: slot, Flags: flags})
		s.byKey[key.Hash()] = len(s.fields) - 1
		if isIndexLikeKey(key) {
			s.hasIndexLike = true
		}
		return s, slot
	}

	tk := transitionKey(key, flags)
	if next, ok := s.transitions[tk]; ok {
		slot := next.fields[len(next.fields)-1].Slot
		return next, slot
	}

	next := s.clone()
	slot := next.nextSlot
	next.nextSlot++
	next.fields = append(next.fields, Field{Key: key, Slot: slot, Flags: flags})
	next.byKey[key.Hash()] = len(next.fields) - 1
	if isIndexLikeKey(key) {
		next.hasIndexLike = true
	}
	s.transitions[tk] = next
	return next, slot
}

func isIndexLikeKey(key value.PropertyKey) bool {
	_, ok := key.ToArrayIndex()
	return ok
}

func (s *Shape) UpdateProperty(key value.PropertyKey, flags PropertyFlags) HiddenClass {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byKey[key.Hash()]
	if !ok {
		return s
	}

	if s.dictionary {
		s.fields[idx].Flags = flags
		return s
	}

	next := s.clone()
	next.fields[idx].Flags = flags
	// An in-place flag update never changes the transition DAG shape for
	// future additions, so it is not memoized as a shared transition; each
	// update produces its own private successor. This trades some sharing
	// for a much simpler cache-invalidation story: any code holding the old
	// *Shape still sees the old flags.
	return next
}

func (s *Shape) DeleteProperty(key value.PropertyKey) HiddenClass {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byKey[key.Hash()]
	if !ok {
		return s
	}

	// A deleted field's physical storage slot must stay reserved: the
	// object's own value storage is indexed by Slot and is never compacted,
	// so renumbering surviving fields down to 0..n-1 here would desync every
	// later field's class slot from where its value actually lives. Instead
	// the survivors keep their original Slot untouched, nextSlot carries
	// forward so it never reissues the freed slot, and the result demotes to
	// a private, uncacheable dictionary class the way an in-place delete
	// naturally does.
	next := &Shape{
		byKey:       make(map[any]int, len(s.fields)-1),
		transitions: make(map[string]*Shape),
		dictionary:  true,
		nextSlot:    s.nextSlot,
	}
	next.fields = make([]Field, 0, len(s.fields)-1)
	for i, f := range s.fields {
		if i == idx {
			continue
		}
		next.fields = append(next.fields, f)
		next.byKey[f.Key.Hash()] = len(next.fields) - 1
		if isIndexLikeKey(f.Key) {
			next.hasIndexLike = true
		}
	}
	return next
}

func (s *Shape) Find(key value.PropertyKey) (Field, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byKey[key.Hash()]
	if !ok {
		return Field{}, false
	}
	return s.fields[idx], true
}

func (s *Shape) ForEachProperty(visit func(Field)) {
	s.mu.RLock()
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	s.mu.RUnlock()
	for _, f := range fields {
		visit(f)
	}
}

func (s *Shape) NumProperties() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}

func (s *Shape) IsDictionary() bool { return s.dictionary }

func (s *Shape) ToDictionary() HiddenClass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	next := s.clone()
	next.dictionary = true
	next.transitions = nil
	return next
}

func (s *Shape) GetHasIndexLikeProperties() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasIndexLike
}

func (s *Shape) MakeAllNonConfigurable() HiddenClass {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.clone()
	for i := range next.fields {
		next.fields[i].Flags.Configurable = false
	}
	return next
}

func (s *Shape) MakeAllReadOnly() HiddenClass {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.clone()
	for i := range next.fields {
		next.fields[i].Flags.Configurable = false
		if !next.fields[i].Flags.Accessor {
			next.fields[i].Flags.Writable = false
		}
	}
	return next
}

func (s *Shape) AreAllNonConfigurable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fields {
		if f.Flags.Configurable {
			return false
		}
	}
	return true
}

func (s *Shape) AreAllReadOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fields {
		if f.Flags.Configurable {
			return false
		}
		if !f.Flags.Accessor && f.Flags.Writable {
			return false
		}
	}
	return true
}

// ShouldCacheForIn is the black-box predicate the for-in cache installer
// consults for every prototype in the chain (spec Open Question: this
// engine treats "cacheable" as simply "not a dictionary-mode class").
func (s *Shape) ShouldCacheForIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.dictionary
}

func (s *Shape) GetForInCache() []value.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forInCache
}

func (s *Shape) SetForInCache(names []value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forInCache = names
}

func (s *Shape) ClearForInCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forInCache = nil
}

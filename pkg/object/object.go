// Package object implements the object model and property-access core: the
// heap cell every JavaScript object shares, and the Get/Put/Delete/Define
// engines that give it ECMAScript §8.12/§9.1 meta-operation semantics on top
// of a HiddenClass (shape) collaborator.
package object

import (
	"log/slog"
	"sync"

	"jsobject/pkg/class"
	"jsobject/pkg/value"
)

// Runtime is the minimal collaborator contract this core consumes from the
// surrounding VM: an object-identity counter, the handful of behavior
// switches spec'd as a configuration record rather than compile-time
// experiments, and the structured logger diagnostics (lazy-initializer
// failures, dictionary-mode transitions) are written through.
type Runtime interface {
	NextObjectID() uint64
	Config() RuntimeConfig
	Logger() *slog.Logger
}

// RuntimeConfig hoists the experiment-flag-shaped switches the original
// implementation conditioned on build mode into a single documented record.
type RuntimeConfig struct {
	// FreezeBuiltinsFatalOnOverride, when set, makes an attempted write to a
	// non-writable static builtin method raise instead of silently failing
	// or returning false; when clear, ordinary throwOnError rules apply.
	FreezeBuiltinsFatalOnOverride bool
	// ForInCacheMaxRatio bounds installing a for-in cache to cases where the
	// materialized prototype-prefix-plus-names size is at most this many
	// times the receiver's own property count.
	ForInCacheMaxRatio int
}

// Flags is the object cell's bit record.
type Flags struct {
	NoExtend            bool
	Sealed              bool
	Frozen              bool
	LazyObject          bool
	HostObject          bool
	IndexedStorage      bool
	FastIndexProperties bool
}

// LazyInitializer installs an object's real properties on first access.
// It runs at most once; findOwnProperty retries exactly once after it runs.
type LazyInitializer func(o *JSObject) error

// JSObject is the root heap cell: a prototype pointer, a current hidden
// class, D inline value slots, an optional growable indirect vector, a flag
// byte, and a lazily-assigned identity.
type JSObject struct {
	mu sync.RWMutex

	rt Runtime

	parent *JSObject
	class  class.HiddenClass

	direct   [DirectPropertySlots]value.Value
	indirect PropStorage

	flags    Flags
	objectID uint64

	indexed        IndexedStorage
	host           HostObject
	lazy           LazyInitializer
	internalSetter InternalSetter
}

// ToValue wraps o as a Value the rest of the engine can pass around.
func ToValue(o *JSObject) value.Value { return value.FromObject(o) }

// FromValue unwraps a Value known to hold an object cell created by this
// package. ok is false for any non-object Value or a foreign object type
// (such as a boxed *PropertyAccessor).
func FromValue(v value.Value) (*JSObject, bool) {
	if !v.IsObject() {
		return nil, false
	}
	o, ok := v.AsObject().(*JSObject)
	return o, ok
}

// New creates a plain object with the given prototype (or nil for none),
// starting from the empty root class.
func New(rt Runtime, parent *JSObject) *JSObject {
	return NewWithClass(rt, parent, class.RootShape)
}

// NewWithHint pre-sizes indirect storage for propertyCountHint properties,
// avoiding repeated growth for a caller that knows its shape up front.
func NewWithHint(rt Runtime, parent *JSObject, propertyCountHint int) *JSObject {
	o := NewWithClass(rt, parent, class.RootShape)
	if propertyCountHint > DirectPropertySlots {
		o.indirect = NewPropStorage(propertyCountHint - DirectPropertySlots)
	}
	return o
}

// NewWithClass creates an object directly from an explicit hidden class,
// e.g. one already known to carry a fixed set of internal properties.
func NewWithClass(rt Runtime, parent *JSObject, cls class.HiddenClass) *JSObject {
	o := &JSObject{
		rt:     rt,
		parent: parent,
		class:  cls,
		flags:  Flags{FastIndexProperties: true},
	}
	if cls.GetHasIndexLikeProperties() {
		o.flags.FastIndexProperties = false
	}
	return o
}

// NewHostObject creates an object whose named property access delegates to
// host. Host objects own no indexed range of their own.
func NewHostObject(rt Runtime, parent *JSObject, host HostObject) *JSObject {
	o := New(rt, parent)
	o.flags.HostObject = true
	o.host = host
	return o
}

// NewLazyObject creates an object whose real properties are installed by
// init the first time a lookup misses.
func NewLazyObject(rt Runtime, parent *JSObject, init LazyInitializer) *JSObject {
	o := New(rt, parent)
	o.flags.LazyObject = true
	o.lazy = init
	return o
}

// SetIndexedStorage installs the indexed-storage virtual table for a
// concrete subclass (array, typed array, ...). Called once at construction
// by the subclass constructor.
func (o *JSObject) SetIndexedStorage(idx IndexedStorage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.indexed = idx
	o.flags.IndexedStorage = true
}

func (o *JSObject) indexedStorage() IndexedStorage {
	if o.indexed == nil {
		return defaultIndexedStorage
	}
	return o.indexed
}

func (o *JSObject) Parent() *JSObject { return o.parent }
func (o *JSObject) Class() class.HiddenClass {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.class
}
func (o *JSObject) Flags() Flags {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.flags
}
func (o *JSObject) IsHostObject() bool { return o.Flags().HostObject }
func (o *JSObject) IsLazy() bool       { return o.Flags().LazyObject }

// allocateNewSlotStorage writes v into a fresh slot, placing it inline in
// directProps when slot < D, else growing (or first allocating) the
// indirect vector. Caller holds o.mu for writing.
func (o *JSObject) allocateNewSlotStorage(slot int, v value.Value) {
	if slot < DirectPropertySlots {
		o.direct[slot] = v
		return
	}
	k := slot - DirectPropertySlots
	if o.indirect == nil {
		o.indirect = NewPropStorage(k + 1)
	}
	o.indirect.Set(k, v)
}

func (o *JSObject) slotValue(slot int) value.Value {
	if slot < DirectPropertySlots {
		return o.direct[slot]
	}
	if o.indirect == nil {
		return value.Undefined
	}
	return o.indirect.At(slot - DirectPropertySlots)
}

func (o *JSObject) setSlotValue(slot int, v value.Value) {
	if slot < DirectPropertySlots {
		o.direct[slot] = v
		return
	}
	if o.indirect == nil {
		o.indirect = NewPropStorage(slot - DirectPropertySlots + 1)
	}
	o.indirect.Set(slot-DirectPropertySlots, v)
}

// addInternalProperty adds one internal property at the next slot the class
// hands out, valid only immediately after construction from the root class,
// before any ordinary property has been added.
func (o *JSObject) addInternalProperty(key value.PropertyKey, flags class.PropertyFlags, v value.Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	newClass, slot := o.class.AddProperty(key, flags)
	o.class = newClass
	o.allocateNewSlotStorage(slot, v)
	if newClass.GetHasIndexLikeProperties() {
		o.flags.FastIndexProperties = false
	}
}

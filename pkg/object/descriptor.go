package object

import (
	"log/slog"

	"jsobject/pkg/class"
	"jsobject/pkg/value"
)

// NamedDescriptor is the (slot, flags) pair findOwnProperty and
// getNamedDescriptor return. Slot is -1 for a synthesized host-object
// descriptor, which has no backing slot.
type NamedDescriptor struct {
	Slot  int
	Flags class.PropertyFlags
}

// ComputedDescriptor additionally carries the integer index when the
// descriptor was resolved against indexed storage.
type ComputedDescriptor struct {
	NamedDescriptor
	Index    uint32
	HasIndex bool
}

const hostSlot = -1

// findOwnProperty consults the current hidden class; if absent and the
// object is a host object, it synthesizes a writable host descriptor; if
// absent and the object is lazy, it runs the initializer and retries once.
func (o *JSObject) findOwnProperty(key value.PropertyKey) (NamedDescriptor, bool) {
	o.mu.RLock()
	f, ok := o.class.Find(key)
	lazy := o.flags.LazyObject
	host := o.flags.HostObject
	o.mu.RUnlock()

	if ok {
		return NamedDescriptor{Slot: f.Slot, Flags: f.Flags}, true
	}

	if lazy {
		o.initializeLazyObject()
		o.mu.RLock()
		f, ok = o.class.Find(key)
		o.mu.RUnlock()
		if ok {
			return NamedDescriptor{Slot: f.Slot, Flags: f.Flags}, true
		}
	}

	if host {
		if o.host != nil && o.host.Has(key) {
			return NamedDescriptor{Slot: hostSlot, Flags: class.PropertyFlags{HostObject: true, Writable: true, Enumerable: true}}, true
		}
	}

	return NamedDescriptor{}, false
}

// initializeLazyObject clears the lazy flag and runs the initializer at
// most once, regardless of how many concurrent lookups miss first. A failed
// initializer leaves the object with whatever properties it managed to
// install before erroring; findOwnProperty's single retry simply misses
// again, so the failure is only observable through the log.
func (o *JSObject) initializeLazyObject() {
	o.mu.Lock()
	if !o.flags.LazyObject {
		o.mu.Unlock()
		return
	}
	o.flags.LazyObject = false
	init := o.lazy
	o.lazy = nil
	o.mu.Unlock()
	if init == nil {
		return
	}
	if err := init(o); err != nil {
		o.rt.Logger().Error("lazy object initializer failed",
			slog.Uint64("objectID", o.GetObjectID()), slog.Any("error", err))
	}
}

// getNamedDescriptor walks the parent chain starting at o, applying
// findOwnProperty at each step, and returns the first owner that reports
// present.
func getNamedDescriptor(o *JSObject, key value.PropertyKey) (*JSObject, NamedDescriptor, bool) {
	for cur := o; cur != nil; cur = cur.Parent() {
		if d, ok := cur.findOwnProperty(key); ok {
			return cur, d, true
		}
	}
	return nil, NamedDescriptor{}, false
}

// getOwnComputedPrimitiveDescriptor resolves a primitive key (string,
// symbol, or number) against o's own storage only. The fastIndexProperties
// bit lets the common array-like case skip symbol interning entirely, but
// only applies when there is indexed storage backing it to skip to -- a host
// object carries no IndexedStorage of its own, so a numeric-spelled key must
// still fall through to the host callback below.
func getOwnComputedPrimitiveDescriptor(o *JSObject, key value.Value) (ComputedDescriptor, bool) {
	o.mu.RLock()
	fast := o.flags.FastIndexProperties && o.flags.IndexedStorage
	hasIndexed := o.flags.IndexedStorage
	o.mu.RUnlock()

	if fast {
		if idx, ok := numericIndexOf(key); ok {
			if flags, present := o.indexedStorage().GetOwnIndexedPropertyFlags(idx); present {
				flags.Indexed = true
				return ComputedDescriptor{
					NamedDescriptor: NamedDescriptor{Slot: hostSlot, Flags: flags},
					Index:           idx,
					HasIndex:        true,
				}, true
			}
			return ComputedDescriptor{}, false
		}
	}

	pk := value.KeyFromValue(key)
	if d, ok := o.findOwnProperty(pk); ok {
		return ComputedDescriptor{NamedDescriptor: d}, true
	}

	if hasIndexed {
		if idx, ok := numericIndexOf(key); ok {
			if flags, present := o.indexedStorage().GetOwnIndexedPropertyFlags(idx); present {
				flags.Indexed = true
				return ComputedDescriptor{
					NamedDescriptor: NamedDescriptor{Slot: hostSlot, Flags: flags},
					Index:           idx,
					HasIndex:        true,
				}, true
			}
		}
	}

	return ComputedDescriptor{}, false
}

// numericIndexOf parses key as a canonical array index, whether it arrives
// as a number Value or as a string Value spelled like one -- the ECMAScript
// rule that "0" and 0 name the same slot.
func numericIndexOf(key value.Value) (uint32, bool) {
	switch key.Kind() {
	case value.KindNumber:
		f := key.AsNumber()
		if f < 0 || f != float64(uint32(f)) {
			return 0, false
		}
		u := uint32(f)
		if u == 0xFFFFFFFF {
			return 0, false
		}
		return u, true
	case value.KindString:
		return value.ParseArrayIndex(key.AsString())
	default:
		return 0, false
	}
}

// getComputedDescriptor walks the prototype chain applying
// getOwnComputedPrimitiveDescriptor at each step.
func getComputedDescriptor(o *JSObject, key value.Value) (*JSObject, ComputedDescriptor, bool) {
	for cur := o; cur != nil; cur = cur.Parent() {
		if d, ok := getOwnComputedPrimitiveDescriptor(cur, key); ok {
			return cur, d, true
		}
	}
	return nil, ComputedDescriptor{}, false
}

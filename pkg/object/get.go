package object

import (
	"jsobject/pkg/class"
	objerrors "jsobject/pkg/errors"
	"jsobject/pkg/value"
)

// CacheEntry is the (class, slot) pair the inline-cache population hook
// stamps for a call site on a plain-data, non-dictionary hit.
type CacheEntry struct {
	Class class.HiddenClass
	Slot  int
}

// GetNamed implements [[Get]] for a named property, walking the prototype
// chain, invoking accessors and host callbacks, and optionally populating a
// call-site cache on a plain-data class-mode hit.
func (o *JSObject) GetNamed(key value.PropertyKey, mustExist bool, cache *CacheEntry) (value.Value, error) {
	owner, desc, found := getNamedDescriptor(o, key)
	if !found {
		if mustExist {
			return value.Undefined, objerrors.NewReferenceError("property %q does not exist", key.String())
		}
		return value.Undefined, nil
	}
	return owner.readDescriptor(o, key, desc, cache)
}

// readDescriptor dispatches a resolved descriptor to its accessor, host, or
// slot path. self is the receiver `this` value passed to an invoked getter,
// which is the original lookup target, not necessarily owner.
func (owner *JSObject) readDescriptor(self *JSObject, key value.PropertyKey, desc NamedDescriptor, cache *CacheEntry) (value.Value, error) {
	if desc.Flags.Accessor {
		acc, ok := unwrapAccessor(owner.slotValue(desc.Slot))
		if !ok || !acc.HasGetter() {
			return value.Undefined, nil
		}
		return acc.Getter.Call(ToValue(self), nil)
	}
	if desc.Flags.HostObject {
		if owner.host == nil {
			return value.Undefined, nil
		}
		v, ok := owner.host.Get(key)
		if !ok {
			return value.Undefined, nil
		}
		return v, nil
	}
	v := owner.slotValue(desc.Slot)
	if cache != nil && !owner.Class().IsDictionary() {
		cache.Class = owner.Class()
		cache.Slot = desc.Slot
	}
	return v, nil
}

// GetNamedOrIndexed reroutes to GetComputed when the object carries indexed
// storage and the key's spelling parses as a uint32, so that "0" and 0 name
// the same slot.
func (o *JSObject) GetNamedOrIndexed(key value.PropertyKey, mustExist bool, cache *CacheEntry) (value.Value, error) {
	if o.Flags().IndexedStorage {
		if idx, ok := key.ToArrayIndex(); ok {
			return o.GetComputed(value.Number(float64(idx)), mustExist)
		}
	}
	return o.GetNamed(key, mustExist, cache)
}

// GetComputed implements [[Get]] for a primitive key that may resolve
// against either named or indexed storage.
func (o *JSObject) GetComputed(key value.Value, mustExist bool) (value.Value, error) {
	owner, desc, found := getComputedDescriptor(o, key)
	if !found {
		if mustExist {
			return value.Undefined, objerrors.NewReferenceError("property %q does not exist", key.AsString())
		}
		return value.Undefined, nil
	}
	if desc.HasIndex {
		v := owner.indexedStorage().GetOwnIndexed(desc.Index)
		if v.IsEmpty() {
			return value.Undefined, nil
		}
		return v, nil
	}
	if desc.Flags.HostObject {
		if owner.host == nil {
			return value.Undefined, nil
		}
		v, ok := owner.host.Get(value.KeyFromValue(key))
		if !ok {
			return value.Undefined, nil
		}
		return v, nil
	}
	return owner.readDescriptor(o, value.KeyFromValue(key), desc.NamedDescriptor, nil)
}

// HasNamed reports whether a named property is visible on o or an ancestor.
func (o *JSObject) HasNamed(key value.PropertyKey) bool {
	_, _, found := getNamedDescriptor(o, key)
	return found
}

// HasNamedOrIndexed mirrors GetNamedOrIndexed's routing: fastIndexProperties
// lets the indexed check alone answer without a named fallback.
func (o *JSObject) HasNamedOrIndexed(key value.PropertyKey) bool {
	if o.Flags().IndexedStorage {
		if idx, ok := key.ToArrayIndex(); ok {
			if o.HasComputed(value.Number(float64(idx))) {
				return true
			}
			if o.Flags().FastIndexProperties {
				return false
			}
		}
	}
	return o.HasNamed(key)
}

// HasComputed reports whether a primitive key resolves against o or an
// ancestor's named or indexed storage.
func (o *JSObject) HasComputed(key value.Value) bool {
	_, _, found := getComputedDescriptor(o, key)
	return found
}

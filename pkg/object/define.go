package object

import (
	"jsobject/pkg/class"
	objerrors "jsobject/pkg/errors"
	"jsobject/pkg/value"
)

// canNewPropertyBeIndexed reports whether a brand new property described by
// dp is eligible for indexed storage: every one of
// enumerable/writable/configurable must be explicitly set true, and it must
// be a data (non-accessor) descriptor.
func canNewPropertyBeIndexed(dp class.DefinePropertyFlags) bool {
	return dp.SetEnumerable && dp.Enumerable &&
		dp.SetWritable && dp.Writable &&
		dp.SetConfigurable && dp.Configurable &&
		!dp.IsAccessor()
}

// DefineNewOwnProperty adds a property known not to already exist,
// bypassing the find step defineOwnProperty otherwise performs.
func (o *JSObject) DefineNewOwnProperty(key value.PropertyKey, dp class.DefinePropertyFlags, internalForce bool) error {
	newFlags := class.NewNamedPropertyFlagsFrom(dp)
	var val value.Value
	switch {
	case newFlags.Accessor:
		val = wrapAccessor(buildAccessorCell(nil, dp))
	case dp.SetValue:
		val = dp.Value
	default:
		val = value.Undefined
	}
	return o.addOwnProperty(key, newFlags, val, internalForce)
}

// DefineOwnProperty is the named entry to the §8.12.9 state machine: if the
// name already exists as an own property, run the update rule against it;
// otherwise add it as new.
func (o *JSObject) DefineOwnProperty(key value.PropertyKey, dp class.DefinePropertyFlags, flags PutFlags) (bool, error) {
	if desc, ok := o.findOwnProperty(key); ok {
		if desc.Slot == hostSlot {
			if o.host != nil && dp.SetValue && o.host.Set(key, dp.Value) {
				return true, nil
			}
			return o.putFail(flags, objerrors.NewTypeError("cannot redefine host property %q", key.String()))
		}
		if err := o.updateOwnProperty(key, desc.Slot, desc.Flags, dp); err != nil {
			return o.putFail(flags, err)
		}
		return true, nil
	}
	if err := o.DefineNewOwnProperty(key, dp, flags.InternalForce); err != nil {
		return o.putFail(flags, err)
	}
	return true, nil
}

// DefineOwnComputed is the computed entry, handling the index-like-name
// cases of §4.5: an already-promoted named property, an existing indexed
// slot (possibly demoted out of indexed storage by the new flags), or a
// brand new property that may or may not qualify for indexed storage.
func (o *JSObject) DefineOwnComputed(key value.Value, dp class.DefinePropertyFlags, flags PutFlags) (bool, error) {
	idx, isIndex := numericIndexOf(key)
	if !isIndex || !o.Flags().IndexedStorage {
		return o.DefineOwnProperty(value.KeyFromValue(key), dp, flags)
	}

	pk := value.KeyFromValue(key)

	if o.Class().GetHasIndexLikeProperties() {
		if _, ok := o.findOwnProperty(pk); ok {
			return o.DefineOwnProperty(pk, dp, flags)
		}
	}

	if curFlags, present := o.indexedStorage().GetOwnIndexedPropertyFlags(idx); present {
		curValue := o.indexedStorage().GetOwnIndexed(idx)
		newFlags, _, valueToWrite, status, err := checkPropertyUpdate(curFlags, dp, curValue, nil)
		if err != nil {
			return o.putFail(flags, err)
		}
		if newFlags.Enumerable && newFlags.Writable && newFlags.Configurable && !newFlags.Accessor {
			if status == UpdateNeedSet {
				if !o.indexedStorage().SetOwnIndexed(idx, valueToWrite) {
					return o.putFail(flags, objerrors.NewTypeError("index %d rejected", idx))
				}
			}
			return true, nil
		}

		// The slot is leaving indexed storage: keep the plain element value
		// for a data property, but a promotion to an accessor descriptor
		// must store the accessor cell checkPropertyUpdate just built, not
		// the old element value, or GetNamed would unwrap a plain Value as
		// an accessor and silently read back undefined.
		keep := curValue
		if newFlags.Accessor {
			keep = valueToWrite
		} else if dp.SetValue {
			keep = dp.Value
		}
		o.indexedStorage().DeleteOwnIndexed(idx)
		if err := o.addOwnProperty(pk, newFlags, keep, flags.InternalForce); err != nil {
			return o.putFail(flags, err)
		}
		return true, nil
	}

	if !o.IsExtensible() {
		return o.putFail(flags, objerrors.NewTypeError("object is not extensible"))
	}
	if err := o.indexedStorage().ExtendLengthIfArray(o, idx); err != nil {
		return o.putFail(flags, err)
	}

	if canNewPropertyBeIndexed(dp) {
		val := value.Undefined
		if dp.SetValue {
			val = dp.Value
		}
		if o.indexedStorage().SetOwnIndexed(idx, val) {
			return true, nil
		}
	}

	newFlags := class.NewNamedPropertyFlagsFrom(dp)
	var val value.Value
	switch {
	case newFlags.Accessor:
		val = wrapAccessor(buildAccessorCell(nil, dp))
	case dp.SetValue:
		val = dp.Value
	default:
		val = value.Undefined
	}
	if err := o.addOwnProperty(pk, newFlags, val, flags.InternalForce); err != nil {
		return o.putFail(flags, err)
	}
	o.mu.Lock()
	o.flags.FastIndexProperties = false
	o.mu.Unlock()
	return true, nil
}

package object

import (
	"jsobject/pkg/class"
	objerrors "jsobject/pkg/errors"
	"jsobject/pkg/value"
)

// PutFlags are the option flags accepted by the mutating calls.
type PutFlags struct {
	ThrowOnError  bool
	MustExist     bool
	InternalForce bool
}

// InternalSetter is the subclass hook for properties whose write is not a
// plain slot store, e.g. Array.length.
type InternalSetter interface {
	SetInternal(key value.PropertyKey, v value.Value) (bool, error)
}

// SetInternalSetter installs the internal-setter hook for this object.
func (o *JSObject) SetInternalSetter(s InternalSetter) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.internalSetter = s
}

func (o *JSObject) putFail(flags PutFlags, err error) (bool, error) {
	if flags.ThrowOnError {
		return false, err
	}
	return false, nil
}

// applyFoundDescriptor performs the write for a descriptor already resolved
// by the caller. handled is false only for the "inherited, writable, plain
// data property" case, which the caller must treat like a miss and shadow
// with a fresh own property.
func (o *JSObject) applyFoundDescriptor(owner *JSObject, key value.PropertyKey, desc NamedDescriptor, v value.Value, flags PutFlags) (handled bool, ok bool, err error) {
	if desc.Flags.Accessor {
		acc, _ := unwrapAccessor(owner.slotValue(desc.Slot))
		if acc == nil || !acc.HasSetter() {
			ok, err = o.putFail(flags, objerrors.NewTypeError("cannot set property %q which has only a getter", key.String()))
			return true, ok, err
		}
		_, cerr := acc.Setter.Call(ToValue(o), []value.Value{v})
		return true, cerr == nil, cerr
	}

	if !desc.Flags.Writable {
		var rerr error
		if desc.Flags.StaticBuiltin {
			rerr = raiseStaticBuiltinError(owner, key)
			if o.rt.Config().FreezeBuiltinsFatalOnOverride {
				return true, false, rerr
			}
		} else {
			rerr = objerrors.NewTypeError("cannot assign to read only property %q", key.String())
		}
		ok, err = o.putFail(flags, rerr)
		return true, ok, err
	}

	if owner != o {
		return false, false, nil
	}

	if desc.Flags.InternalSetter {
		if o.internalSetter == nil {
			ok, err = o.putFail(flags, objerrors.NewTypeError("no internal setter for %q", key.String()))
			return true, ok, err
		}
		success, serr := o.internalSetter.SetInternal(key, v)
		if serr != nil {
			return true, false, serr
		}
		if !success {
			ok, err = o.putFail(flags, objerrors.NewTypeError("internal setter rejected %q", key.String()))
			return true, ok, err
		}
		// The subclass hook applies whatever side effects the write implies
		// (e.g. truncating backing storage); the slot still holds the value
		// itself, since ordinary reads never consult internalSetter.
		o.mu.Lock()
		o.setSlotValue(desc.Slot, v)
		o.mu.Unlock()
		return true, true, nil
	}

	if desc.Flags.HostObject {
		if o.host == nil || !o.host.Set(key, v) {
			ok, err = o.putFail(flags, objerrors.NewTypeError("host object rejected %q", key.String()))
			return true, ok, err
		}
		return true, true, nil
	}

	o.mu.Lock()
	o.setSlotValue(desc.Slot, v)
	o.mu.Unlock()
	return true, true, nil
}

// PutNamed implements [[Set]] for a named property.
func (o *JSObject) PutNamed(key value.PropertyKey, v value.Value, flags PutFlags) (bool, error) {
	if owner, desc, found := getNamedDescriptor(o, key); found {
		if handled, ok, err := o.applyFoundDescriptor(owner, key, desc, v, flags); handled {
			return ok, err
		}
	}
	if flags.MustExist {
		return false, objerrors.NewReferenceError("property %q does not exist", key.String())
	}
	if o.IsHostObject() && o.host != nil {
		if !o.host.Set(key, v) {
			return o.putFail(flags, objerrors.NewTypeError("host object rejected %q", key.String()))
		}
		return true, nil
	}
	if err := o.addOwnProperty(key, class.DefaultNewNamedPropertyFlags(), v, flags.InternalForce); err != nil {
		return o.putFail(flags, err)
	}
	return true, nil
}

// PutNamedOrIndexed reroutes to PutComputed when the object carries indexed
// storage and the key's spelling parses as a uint32.
func (o *JSObject) PutNamedOrIndexed(key value.PropertyKey, v value.Value, flags PutFlags) (bool, error) {
	if o.Flags().IndexedStorage {
		if idx, ok := key.ToArrayIndex(); ok {
			return o.PutComputed(value.Number(float64(idx)), v, flags)
		}
	}
	return o.PutNamed(key, v, flags)
}

// PutComputed implements [[Set]] for a primitive key that may resolve
// against either named or indexed storage.
func (o *JSObject) PutComputed(key value.Value, v value.Value, flags PutFlags) (bool, error) {
	idx, isIndex := numericIndexOf(key)

	if isIndex && o.Flags().IndexedStorage {
		if o.Flags().FastIndexProperties && o.indexedStorage().HaveOwnIndexed(idx) {
			if !o.indexedStorage().SetOwnIndexed(idx, v) {
				return o.putFail(flags, objerrors.NewTypeError("index %d rejected", idx))
			}
			return true, nil
		}

		owner, desc, found := getComputedDescriptor(o, key)
		if found {
			if !desc.HasIndex {
				if handled, ok, err := o.applyFoundDescriptor(owner, value.KeyFromValue(key), desc.NamedDescriptor, v, flags); handled {
					return ok, err
				}
			} else if owner == o {
				if err := o.indexedStorage().ExtendLengthIfArray(o, idx); err != nil {
					return o.putFail(flags, err)
				}
				if !o.indexedStorage().SetOwnIndexed(idx, v) {
					return o.putFail(flags, objerrors.NewTypeError("index %d rejected", idx))
				}
				return true, nil
			}
		}

		if !o.IsExtensible() {
			return o.putFail(flags, objerrors.NewTypeError("object is not extensible"))
		}
		if err := o.indexedStorage().ExtendLengthIfArray(o, idx); err != nil {
			return o.putFail(flags, err)
		}
		if o.indexedStorage().SetOwnIndexed(idx, v) {
			return true, nil
		}
		// Indexed storage declined a fresh index (e.g. no array backing);
		// fall back to a plain named property, matching plain objects that
		// merely declare indexedStorage without truly owning the range.
		if err := o.addOwnProperty(value.KeyFromValue(key), class.DefaultNewNamedPropertyFlags(), v, flags.InternalForce); err != nil {
			return o.putFail(flags, err)
		}
		return true, nil
	}

	return o.PutNamed(value.KeyFromValue(key), v, flags)
}

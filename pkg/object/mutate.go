package object

import (
	"jsobject/pkg/class"
	objerrors "jsobject/pkg/errors"
	"jsobject/pkg/value"
)

// UpdateStatus is the outcome of the §8.12.9 attribute-update rule.
type UpdateStatus int

const (
	// UpdateDone means the class may still need a flag transition (compare
	// the returned flags against the caller's current flags) but no slot
	// value write is required.
	UpdateDone UpdateStatus = iota
	// UpdateNeedSet means the class may need a flag transition and the slot
	// must be (re)written with the returned value/accessor.
	UpdateNeedSet
	UpdateFailed
)

func callableFromValue(v value.Value) Callable {
	if !v.IsObject() {
		return nil
	}
	c, _ := v.AsObject().(Callable)
	return c
}

// buildAccessorCell produces the accessor cell a define call installs.
// Unmentioned halves inherit the current cell's corresponding half; when cur
// is nil (a fresh accessor, e.g. from a data->accessor conversion) an
// unmentioned half is simply absent.
func buildAccessorCell(cur *PropertyAccessor, dp class.DefinePropertyFlags) *PropertyAccessor {
	next := &PropertyAccessor{}
	if cur != nil {
		next.Getter = cur.Getter
		next.Setter = cur.Setter
	}
	if dp.SetGetter {
		next.Getter = callableFromValue(dp.Getter)
	}
	if dp.SetSetter {
		next.Setter = callableFromValue(dp.Setter)
	}
	return next
}

func noActualChange(current class.PropertyFlags, dp class.DefinePropertyFlags, curValue value.Value, curAccessor *PropertyAccessor) bool {
	if dp.SetEnumerable && dp.Enumerable != current.Enumerable {
		return false
	}
	if dp.SetConfigurable && dp.Configurable != current.Configurable {
		return false
	}
	if dp.SetWritable && dp.Writable != current.Writable && !current.Accessor {
		return false
	}
	if current.Accessor != dp.IsAccessor() {
		// A kind conversion is never "no change" even if nothing else moved.
		if dp.SetGetter || dp.SetSetter || dp.SetValue {
			return false
		}
		return dp.IsGenericDescriptor()
	}
	if current.Accessor {
		if dp.SetGetter && callableFromValue(dp.Getter) != curAccessor.Getter {
			return false
		}
		if dp.SetSetter && callableFromValue(dp.Setter) != curAccessor.Setter {
			return false
		}
		return true
	}
	if dp.SetValue && !value.SameValue(curValue, dp.Value) {
		return false
	}
	return true
}

// checkPropertyUpdate implements the ECMAScript §8.12.9 [[DefineOwnProperty]]
// attribute-update algorithm. It never mutates the caller's state; the
// caller applies the returned flags/accessor/value itself.
func checkPropertyUpdate(current class.PropertyFlags, dp class.DefinePropertyFlags, curValue value.Value, curAccessor *PropertyAccessor) (newFlags class.PropertyFlags, newAccessor *PropertyAccessor, valueToWrite value.Value, status UpdateStatus, err error) {
	if dp.IsEmpty() {
		return current, curAccessor, curValue, UpdateDone, nil
	}

	if noActualChange(current, dp, curValue, curAccessor) {
		return current, curAccessor, curValue, UpdateDone, nil
	}

	if !current.Configurable {
		if dp.SetConfigurable && dp.Configurable {
			return current, curAccessor, curValue, UpdateFailed, objerrors.NewTypeError("cannot redefine non-configurable property to be configurable")
		}
		if dp.SetEnumerable && dp.Enumerable != current.Enumerable {
			return current, curAccessor, curValue, UpdateFailed, objerrors.NewTypeError("cannot change enumerable attribute of a non-configurable property")
		}
	}

	newFlags = current
	newAccessor = curAccessor
	valueToWrite = curValue
	needSet := false

	switch {
	case dp.IsGenericDescriptor():
		// Only enumerable/configurable may change; handled by the merge below.

	case current.Accessor != dp.IsAccessor():
		if !current.Configurable {
			return current, curAccessor, curValue, UpdateFailed, objerrors.NewTypeError("cannot convert a non-configurable property between data and accessor")
		}
		if dp.IsAccessor() {
			newFlags.Writable = false
			newFlags.Accessor = true
			newAccessor = buildAccessorCell(nil, dp)
			valueToWrite = wrapAccessor(newAccessor)
		} else {
			newFlags.Writable = dp.SetWritable && dp.Writable
			newFlags.Accessor = false
			newAccessor = nil
			if dp.SetValue {
				valueToWrite = dp.Value
			} else {
				valueToWrite = value.Undefined
			}
		}
		needSet = true

	case current.Accessor:
		if !current.Configurable {
			if dp.SetGetter && callableFromValue(dp.Getter) != curAccessor.Getter {
				return current, curAccessor, curValue, UpdateFailed, objerrors.NewTypeError("cannot redefine non-configurable accessor property")
			}
			if dp.SetSetter && callableFromValue(dp.Setter) != curAccessor.Setter {
				return current, curAccessor, curValue, UpdateFailed, objerrors.NewTypeError("cannot redefine non-configurable accessor property")
			}
		}
		newAccessor = buildAccessorCell(curAccessor, dp)
		valueToWrite = wrapAccessor(newAccessor)
		needSet = true

	default: // two data descriptors
		if !current.Configurable && !current.Writable {
			if dp.SetWritable && dp.Writable {
				return current, curAccessor, curValue, UpdateFailed, objerrors.NewTypeError("cannot redefine non-writable property to be writable")
			}
			if dp.SetValue && !value.SameValue(curValue, dp.Value) {
				return current, curAccessor, curValue, UpdateFailed, objerrors.NewTypeError("cannot change the value of a non-writable, non-configurable property")
			}
		}
		if dp.SetValue {
			valueToWrite = dp.Value
			needSet = true
		}
	}

	if dp.SetEnumerable {
		newFlags.Enumerable = dp.Enumerable
	}
	if dp.SetConfigurable {
		newFlags.Configurable = dp.Configurable
	}
	if dp.SetWritable && !newFlags.Accessor {
		newFlags.Writable = dp.Writable
	}

	if needSet {
		return newFlags, newAccessor, valueToWrite, UpdateNeedSet, nil
	}
	return newFlags, newAccessor, valueToWrite, UpdateDone, nil
}

// updateOwnProperty runs the state machine against an existing own property
// and applies its result: a class transition if flags changed, and a slot
// write if the machine asked for one.
func (o *JSObject) updateOwnProperty(key value.PropertyKey, slot int, current class.PropertyFlags, dp class.DefinePropertyFlags) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var curAccessor *PropertyAccessor
	curValue := o.slotValue(slot)
	if current.Accessor {
		curAccessor, _ = unwrapAccessor(curValue)
	}

	newFlags, _, valueToWrite, status, err := checkPropertyUpdate(current, dp, curValue, curAccessor)
	if err != nil {
		return err
	}
	if newFlags != current {
		o.class = o.class.UpdateProperty(key, newFlags)
	}
	if status == UpdateNeedSet {
		if newFlags.InternalSetter && o.internalSetter != nil {
			success, err := o.internalSetter.SetInternal(key, valueToWrite)
			if err != nil {
				return err
			}
			if !success {
				return objerrors.NewTypeError("internal setter rejected %q", key.String())
			}
		}
		o.setSlotValue(slot, valueToWrite)
	}
	return nil
}

// addOwnProperty adds a brand new own property. It refuses on a
// non-extensible object unless internalForce overrides that check.
func (o *JSObject) addOwnProperty(key value.PropertyKey, flags class.PropertyFlags, v value.Value, internalForce bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.flags.NoExtend && !internalForce {
		return objerrors.NewTypeError("object is not extensible")
	}

	newClass, slot := o.class.AddProperty(key, flags)
	o.class = newClass
	o.allocateNewSlotStorage(slot, v)
	if newClass.GetHasIndexLikeProperties() {
		o.flags.FastIndexProperties = false
	}
	return nil
}

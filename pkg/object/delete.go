package object

import (
	"log/slog"

	objerrors "jsobject/pkg/errors"
	"jsobject/pkg/value"
)

// DeleteNamed is own-only: a missing property succeeds vacuously, a
// non-configurable one fails per throwOnError, otherwise the slot is
// overwritten with the empty sentinel (releasing its reference) before the
// class transitions.
func (o *JSObject) DeleteNamed(key value.PropertyKey, flags PutFlags) (bool, error) {
	o.mu.Lock()
	f, ok := o.class.Find(key)
	if !ok {
		o.mu.Unlock()
		return true, nil
	}
	if !f.Flags.Configurable {
		o.mu.Unlock()
		return o.putFail(flags, objerrors.NewTypeError("property %q is not configurable", key.String()))
	}
	wasDictionary := o.class.IsDictionary()
	o.setSlotValue(f.Slot, value.Empty)
	o.class = o.class.DeleteProperty(key)
	becameDictionary := !wasDictionary && o.class.IsDictionary()
	o.mu.Unlock()
	if becameDictionary {
		o.rt.Logger().Info("object demoted to dictionary mode",
			slog.Uint64("objectID", o.GetObjectID()), slog.String("deletedKey", key.String()))
	}
	return true, nil
}

// DeleteComputed additionally deletes the parallel indexed slot when the
// name is index-like, regardless of fastIndexProperties.
func (o *JSObject) DeleteComputed(key value.Value, flags PutFlags) (bool, error) {
	pk := value.KeyFromValue(key)
	ok, err := o.DeleteNamed(pk, flags)
	if err != nil || !ok {
		return ok, err
	}

	if o.Flags().IndexedStorage {
		if idx, isIdx := numericIndexOf(key); isIdx {
			if o.indexedStorage().HaveOwnIndexed(idx) {
				idxFlags, _ := o.indexedStorage().GetOwnIndexedPropertyFlags(idx)
				if !idxFlags.Configurable {
					return o.putFail(flags, objerrors.NewTypeError("index %d is not configurable", idx))
				}
				if !o.indexedStorage().DeleteOwnIndexed(idx) {
					return o.putFail(flags, objerrors.NewTypeError("index %d could not be deleted", idx))
				}
			}
		}
	}
	return true, nil
}

// Package jsarray is a concrete indexed-storage subclass: a dense-backed
// array exercising object.IndexedStorage end to end, including the
// length-tracking internal setter and the ExtendLengthIfArray hook that
// keeps a `length` named property in sync with indexed writes.
package jsarray

import (
	"math"
	"sync"

	"jsobject/pkg/class"
	objerrors "jsobject/pkg/errors"
	"jsobject/pkg/object"
	"jsobject/pkg/value"
)

const lengthKey = "length"

// maxLength is the largest array index plus one; ToArrayIndex already
// refuses 0xFFFFFFFF as an index, so this is the ceiling length can reach.
const maxLength = uint32(0xFFFFFFFF)

func defaultElementFlags() class.PropertyFlags {
	return class.PropertyFlags{Enumerable: true, Writable: true, Configurable: true}
}

// Array is a dense-array indexed-storage backing: elements up to a tracked
// length, holes represented by value.Empty, with per-index flag overrides
// installed only once Seal/Freeze departs from the all-open default.
type Array struct {
	mu            sync.RWMutex
	obj           *object.JSObject
	length        uint32
	elements      []value.Value
	overrideFlags map[uint32]class.PropertyFlags
}

var (
	_ object.IndexedStorage = (*Array)(nil)
	_ object.InternalSetter = (*Array)(nil)
)

// New builds an empty array object with the given prototype, wired to a
// tracked, internally-settable `length` property.
func New(rt object.Runtime, parent *object.JSObject) *Array {
	a := &Array{}
	o := object.New(rt, parent)
	a.obj = o
	o.SetIndexedStorage(a)
	o.SetInternalSetter(a)

	err := o.DefineNewOwnProperty(value.StringKey(lengthKey), class.DefinePropertyFlags{
		SetValue:             true,
		Value:                value.Number(0),
		SetWritable:          true,
		Writable:             true,
		SetEnumerable:        true,
		Enumerable:           false,
		SetConfigurable:      true,
		Configurable:         false,
		EnableInternalSetter: true,
	}, true)
	if err != nil {
		// Only reachable if a fresh object's own root class already carries
		// a "length" property, which New never produces.
		panic("jsarray: could not install length on a fresh array: " + err.Error())
	}
	return a
}

// Object returns the backing object cell.
func (a *Array) Object() *object.JSObject { return a.obj }

// Length reports the array's current tracked length.
func (a *Array) Length() uint32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.length
}

func (a *Array) OwnIndexedRange() (uint32, uint32) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return 0, a.length
}

func (a *Array) HaveOwnIndexed(i uint32) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return i < uint32(len(a.elements)) && !a.elements[i].IsEmpty()
}

func (a *Array) GetOwnIndexedPropertyFlags(i uint32) (class.PropertyFlags, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if i >= uint32(len(a.elements)) || a.elements[i].IsEmpty() {
		return class.PropertyFlags{}, false
	}
	if f, ok := a.overrideFlags[i]; ok {
		return f, true
	}
	return defaultElementFlags(), true
}

func (a *Array) GetOwnIndexed(i uint32) value.Value {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if i >= uint32(len(a.elements)) {
		return value.Empty
	}
	return a.elements[i]
}

func (a *Array) SetOwnIndexed(i uint32, v value.Value) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < uint32(len(a.elements)) {
		if f, ok := a.overrideFlags[i]; ok && !f.Writable {
			return false
		}
		a.elements[i] = v
		if i >= a.length {
			a.length = i + 1
		}
		return true
	}
	for uint32(len(a.elements)) <= i {
		a.elements = append(a.elements, value.Empty)
	}
	a.elements[i] = v
	if i >= a.length {
		a.length = i + 1
	}
	return true
}

func (a *Array) DeleteOwnIndexed(i uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i >= uint32(len(a.elements)) {
		return true
	}
	if f, ok := a.overrideFlags[i]; ok && !f.Configurable {
		return false
	}
	a.elements[i] = value.Empty
	delete(a.overrideFlags, i)
	return true
}

func (a *Array) CheckAllOwnIndexed(mode object.IndexedCheckMode) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i, v := range a.elements {
		if v.IsEmpty() {
			continue
		}
		f := defaultElementFlags()
		if of, ok := a.overrideFlags[uint32(i)]; ok {
			f = of
		}
		if f.Configurable {
			return false
		}
		if mode == object.CheckReadOnly && f.Writable {
			return false
		}
	}
	return true
}

func (a *Array) MakeAllOwnIndexedNonConfigurable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overrideAll(func(f *class.PropertyFlags) { f.Configurable = false })
}

func (a *Array) MakeAllOwnIndexedReadOnly() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overrideAll(func(f *class.PropertyFlags) {
		f.Configurable = false
		f.Writable = false
	})
}

// overrideAll applies mutate to every present element's flags. Caller holds
// a.mu for writing.
func (a *Array) overrideAll(mutate func(*class.PropertyFlags)) {
	if a.overrideFlags == nil {
		a.overrideFlags = make(map[uint32]class.PropertyFlags)
	}
	for i, v := range a.elements {
		if v.IsEmpty() {
			continue
		}
		idx := uint32(i)
		f, ok := a.overrideFlags[idx]
		if !ok {
			f = defaultElementFlags()
		}
		mutate(&f)
		a.overrideFlags[idx] = f
	}
}

// ExtendLengthIfArray bumps the tracked length past index, going through
// obj's own PutNamed so length's own writability (and any internalSetter
// truncation logic) is honored rather than bypassed.
func (a *Array) ExtendLengthIfArray(obj *object.JSObject, index uint32) error {
	if index == maxLength {
		return objerrors.NewTypeError("array index %d out of range", index)
	}
	if index < a.Length() {
		return nil
	}
	_, err := obj.PutNamed(value.StringKey(lengthKey), value.Number(float64(index)+1), object.PutFlags{ThrowOnError: true, InternalForce: true})
	return err
}

// SetInternal implements object.InternalSetter for the `length` property:
// growing it is cheap bookkeeping, shrinking it deletes every element at or
// past the new length (skipping ones marked non-configurable, per the
// ordinary array-length-shrink rule, and reporting failure if any survive).
func (a *Array) SetInternal(key value.PropertyKey, v value.Value) (bool, error) {
	if key.Name() != lengthKey {
		return false, objerrors.NewTypeError("array has no internal setter for %q", key.String())
	}
	if !v.IsNumber() {
		return false, objerrors.NewTypeError("array length must be a number")
	}
	n := v.AsNumber()
	if n < 0 || n != math.Trunc(n) || n > float64(maxLength) {
		return false, objerrors.NewTypeError("invalid array length %v", n)
	}
	newLength := uint32(n)

	a.mu.Lock()
	defer a.mu.Unlock()

	if newLength >= a.length {
		a.length = newLength
		return true, nil
	}

	blocked := false
	for i := newLength; i < uint32(len(a.elements)); i++ {
		if a.elements[i].IsEmpty() {
			continue
		}
		if f, ok := a.overrideFlags[i]; ok && !f.Configurable {
			blocked = true
			continue
		}
		a.elements[i] = value.Empty
		delete(a.overrideFlags, i)
	}
	if blocked {
		return false, nil
	}
	if newLength < uint32(len(a.elements)) {
		a.elements = a.elements[:newLength]
	}
	a.length = newLength
	return true, nil
}

package object

import objerrors "jsobject/pkg/errors"

// SetParent succeeds as a no-op when newParent already is the current
// parent; otherwise it requires extensibility and rejects any newParent
// whose own chain already reaches o, so the prototype graph stays acyclic.
func (o *JSObject) SetParent(newParent *JSObject) error {
	o.mu.Lock()
	if o.parent == newParent {
		o.mu.Unlock()
		return nil
	}
	if o.flags.NoExtend {
		o.mu.Unlock()
		return objerrors.NewTypeError("object is not extensible")
	}
	o.mu.Unlock()

	for cur := newParent; cur != nil; cur = cur.Parent() {
		if cur == o {
			return objerrors.NewTypeError("cyclic __proto__ value")
		}
	}

	o.mu.Lock()
	o.parent = newParent
	o.mu.Unlock()
	return nil
}

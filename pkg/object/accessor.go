package object

import "jsobject/pkg/value"

// wrapAccessor boxes a PropertyAccessor cell into the Value a slot stores.
// The box is only ever unwrapped from within this package: callers observe
// accessor properties through getNamed/putNamed, never the raw cell.
func wrapAccessor(a *PropertyAccessor) value.Value { return value.FromObject(a) }

func unwrapAccessor(v value.Value) (*PropertyAccessor, bool) {
	if !v.IsObject() {
		return nil, false
	}
	a, ok := v.AsObject().(*PropertyAccessor)
	return a, ok
}

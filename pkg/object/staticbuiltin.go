package object

import (
	objerrors "jsobject/pkg/errors"
	"jsobject/pkg/value"
)

// raiseStaticBuiltinError builds the descriptive TypeError a write to a
// non-writable static builtin method produces.
func raiseStaticBuiltinError(owner *JSObject, key value.PropertyKey) error {
	return objerrors.NewTypeError("attempting to override read-only builtin method %q", key.String())
}

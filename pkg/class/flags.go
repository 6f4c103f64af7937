// Package class implements the HiddenClass (shape) collaborator: an
// immutable-ish map from property key to (slot index, flags), with
// transitions forming a DAG shared across objects that add properties in the
// same order. The object model core (pkg/object) treats this package purely
// through the HiddenClass interface.
package class

import "jsobject/pkg/value"

// PropertyFlags is the bit-packed attribute record stored per property.
// Indexed is synthesized by the object core when it reports a descriptor for
// an integer-indexed slot; it is never stored in a class.
type PropertyFlags struct {
	Enumerable     bool
	Writable       bool
	Configurable   bool
	Accessor       bool
	InternalSetter bool
	HostObject     bool
	StaticBuiltin  bool
	Indexed        bool
}

// DefaultNewNamedPropertyFlags is what a plain assignment (`obj.p = v`) uses
// when adding a brand new own property.
func DefaultNewNamedPropertyFlags() PropertyFlags {
	return PropertyFlags{Enumerable: true, Writable: true, Configurable: true}
}

// DefinePropertyFlags records, per defineProperty call, which attributes
// were mentioned and their requested values.
type DefinePropertyFlags struct {
	SetEnumerable   bool
	Enumerable      bool
	SetWritable     bool
	Writable        bool
	SetConfigurable bool
	Configurable    bool

	SetGetter bool
	Getter    value.Value
	SetSetter bool
	Setter    value.Value
	SetValue  bool
	Value     value.Value

	EnableInternalSetter bool
}

// IsEmpty reports a defineProperty call that mentions nothing at all.
func (d DefinePropertyFlags) IsEmpty() bool {
	return !d.SetEnumerable && !d.SetWritable && !d.SetConfigurable &&
		!d.SetGetter && !d.SetSetter && !d.SetValue
}

// IsAccessor reports whether the call describes an accessor property.
func (d DefinePropertyFlags) IsAccessor() bool {
	return d.SetGetter || d.SetSetter
}

// IsGenericDescriptor reports a descriptor that mentions none of
// value/writable/getter/setter -- only enumerable/configurable, if anything.
func (d DefinePropertyFlags) IsGenericDescriptor() bool {
	return !d.SetValue && !d.SetWritable && !d.SetGetter && !d.SetSetter
}

// NewNamedPropertyFlagsFrom builds the PropertyFlags a fresh property should
// receive when created directly from a DefinePropertyFlags, per
// addOwnProperty: unmentioned attributes default to false, and an accessor
// definition forces writable off (accessors have no such attribute).
func NewNamedPropertyFlagsFrom(d DefinePropertyFlags) PropertyFlags {
	f := PropertyFlags{
		Enumerable:   d.SetEnumerable && d.Enumerable,
		Writable:     d.SetWritable && d.Writable,
		Configurable: d.SetConfigurable && d.Configurable,
		Accessor:     d.IsAccessor(),
	}
	if d.IsAccessor() {
		f.Writable = false
	}
	if d.EnableInternalSetter {
		f.InternalSetter = true
	}
	return f
}

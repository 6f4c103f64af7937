package object

import "jsobject/pkg/value"

// HostObject is the embedder callback interface a host-object cell delegates
// named property reads, writes, and enumeration to. It owns no indexed
// range: hostObject cells always report absent for the indexed interface.
type HostObject interface {
	Get(key value.PropertyKey) (value.Value, bool)
	Set(key value.PropertyKey, v value.Value) bool
	Has(key value.PropertyKey) bool
	// OwnPropertyNames may return keys already present in the object's own
	// class or with array-index spellings; callers must dedup and must not
	// rely on ordering.
	OwnPropertyNames() []value.PropertyKey
}

// Callable is the minimal surface the object core needs from the function
// machinery it does not otherwise implement: the ability to invoke a getter
// or setter with a given `this` value. Redefinition compares an accessor's
// current Getter/Setter against an incoming one with ==, so an
// implementation's dynamic type must be comparable; a bare func-typed
// Callable panics on that comparison the moment two closures are compared.
type Callable interface {
	Call(this value.Value, args []value.Value) (value.Value, error)
}

// PropertyAccessor is the heap cell an accessor property's slot stores: an
// owning pair of optional getter/setter callables. Either half may be nil,
// meaning that half is absent.
type PropertyAccessor struct {
	Getter Callable
	Setter Callable
}

func NewPropertyAccessor(getter, setter Callable) *PropertyAccessor {
	return &PropertyAccessor{Getter: getter, Setter: setter}
}

func (a *PropertyAccessor) HasGetter() bool { return a.Getter != nil }
func (a *PropertyAccessor) HasSetter() bool { return a.Setter != nil }

package object

import (
	"jsobject/pkg/class"
	"jsobject/pkg/value"
)

// IndexedCheckMode selects which uniform property, over the whole indexed
// range, seal/freeze verification asks for.
type IndexedCheckMode int

const (
	CheckNonConfigurable IndexedCheckMode = iota
	CheckReadOnly
)

// IndexedStorage is the virtual interface concrete subclasses (arrays,
// typed arrays, strings-as-objects, arguments objects) override to provide
// integer-indexed backing storage distinct from named properties. A plain
// JSObject uses noIndexedStorage, whose every method is a vacuous default.
type IndexedStorage interface {
	OwnIndexedRange() (lo, hi uint32)
	HaveOwnIndexed(i uint32) bool
	GetOwnIndexedPropertyFlags(i uint32) (class.PropertyFlags, bool)
	// GetOwnIndexed returns value.Empty if the index is absent.
	GetOwnIndexed(i uint32) value.Value
	SetOwnIndexed(i uint32, v value.Value) bool
	DeleteOwnIndexed(i uint32) bool
	CheckAllOwnIndexed(mode IndexedCheckMode) bool
	// MakeAllOwnIndexedNonConfigurable and MakeAllOwnIndexedReadOnly push
	// Seal/Freeze down into indexed storage, mirroring what
	// class.MakeAllNonConfigurable/MakeAllReadOnly do for named properties.
	MakeAllOwnIndexedNonConfigurable()
	MakeAllOwnIndexedReadOnly()
	// ExtendLengthIfArray lets an array-like subclass keep a tracked
	// `length` named property in sync when an indexed write extends past
	// it, going through obj's own PutNamed so length's writability is
	// honored. Non-array indexed storages are a no-op.
	ExtendLengthIfArray(obj *JSObject, index uint32) error
}

// noIndexedStorage is the default: plain objects report no indexed range,
// reject every indexed write, and vacuously pass seal/freeze checks.
type noIndexedStorage struct{}

func (noIndexedStorage) OwnIndexedRange() (uint32, uint32) { return 0, 0 }
func (noIndexedStorage) HaveOwnIndexed(uint32) bool        { return false }
func (noIndexedStorage) GetOwnIndexedPropertyFlags(uint32) (class.PropertyFlags, bool) {
	return class.PropertyFlags{}, false
}
func (noIndexedStorage) GetOwnIndexed(uint32) value.Value    { return value.Empty }
func (noIndexedStorage) SetOwnIndexed(uint32, value.Value) bool { return false }
func (noIndexedStorage) DeleteOwnIndexed(uint32) bool             { return false }
func (noIndexedStorage) CheckAllOwnIndexed(IndexedCheckMode) bool { return true }
func (noIndexedStorage) MakeAllOwnIndexedNonConfigurable()           {}
func (noIndexedStorage) MakeAllOwnIndexedReadOnly()                  {}
func (noIndexedStorage) ExtendLengthIfArray(*JSObject, uint32) error { return nil }

var defaultIndexedStorage IndexedStorage = noIndexedStorage{}

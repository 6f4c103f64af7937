package class

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsobject/pkg/value"
)

func TestAddPropertySharesTransitionsInClassMode(t *testing.T) {
	root := NewShape()
	flags := DefaultNewNamedPropertyFlags()

	c1, slot1 := root.AddProperty(value.StringKey("a"), flags)
	c2, slot2 := root.AddProperty(value.StringKey("a"), flags)

	assert.Same(t, c1, c2, "identical (key, flags) transitions from the same class must share a class")
	assert.Equal(t, slot1, slot2)
}

func TestAddPropertyDivergesOnDifferentFlags(t *testing.T) {
	root := NewShape()
	c1, _ := root.AddProperty(value.StringKey("a"), DefaultNewNamedPropertyFlags())
	c2, _ := root.AddProperty(value.StringKey("a"), PropertyFlags{Enumerable: true})

	assert.NotSame(t, c1, c2)
}

func TestDictionaryModeMutatesInPlace(t *testing.T) {
	root := NewShape()
	dict := root.ToDictionary()

	before := dict
	after, slot := dict.AddProperty(value.StringKey("x"), DefaultNewNamedPropertyFlags())

	assert.Same(t, before, after, "dictionary-mode AddProperty must mutate in place, not transition")
	assert.Equal(t, 0, slot)
	assert.True(t, after.IsDictionary())
}

func TestDeletePropertyPreservesSurvivingSlots(t *testing.T) {
	root := NewShape()
	c, _ := root.AddProperty(value.StringKey("a"), DefaultNewNamedPropertyFlags())
	c, _ = c.AddProperty(value.StringKey("b"), DefaultNewNamedPropertyFlags())
	c, cSlot := c.AddProperty(value.StringKey("c"), DefaultNewNamedPropertyFlags())
	require.Equal(t, 2, cSlot)

	c = c.DeleteProperty(value.StringKey("b"))

	fa, ok := c.Find(value.StringKey("a"))
	require.True(t, ok)
	assert.Equal(t, 0, fa.Slot, "a survives at its original physical slot")

	_, ok = c.Find(value.StringKey("b"))
	assert.False(t, ok)

	fc, ok := c.Find(value.StringKey("c"))
	require.True(t, ok)
	assert.Equal(t, 2, fc.Slot, "deleting b must not renumber c's slot out from under its stored value")

	assert.True(t, c.IsDictionary(), "a delete demotes to a private, uncacheable class")
}

func TestDeletePropertyNeverReissuesTheFreedSlot(t *testing.T) {
	root := NewShape()
	c, _ := root.AddProperty(value.StringKey("a"), DefaultNewNamedPropertyFlags())
	c, _ = c.AddProperty(value.StringKey("b"), DefaultNewNamedPropertyFlags())
	c = c.DeleteProperty(value.StringKey("a"))

	_, newSlot := c.AddProperty(value.StringKey("c"), DefaultNewNamedPropertyFlags())
	assert.Equal(t, 2, newSlot, "a's freed slot 0 must stay retired, not be handed to c")

	fb, ok := c.Find(value.StringKey("b"))
	require.True(t, ok)
	assert.Equal(t, 1, fb.Slot)
}

func TestMakeAllReadOnlyLeavesAccessorsWritableUnaffected(t *testing.T) {
	root := NewShape()
	c, _ := root.AddProperty(value.StringKey("data"), DefaultNewNamedPropertyFlags())
	c, _ = c.AddProperty(value.StringKey("acc"), PropertyFlags{Enumerable: true, Configurable: true, Accessor: true})

	frozen := c.MakeAllReadOnly()

	data, _ := frozen.Find(value.StringKey("data"))
	assert.False(t, data.Flags.Writable)
	assert.False(t, data.Flags.Configurable)

	acc, _ := frozen.Find(value.StringKey("acc"))
	assert.False(t, acc.Flags.Configurable)
	assert.False(t, acc.Flags.Writable, "accessor has no writable attribute to begin with")

	assert.True(t, frozen.AreAllReadOnly())
	assert.False(t, c.AreAllReadOnly(), "original class must be untouched")
}

func TestForInCacheClearsAndRoundTrips(t *testing.T) {
	root := NewShape()
	names := []value.Value{value.String("a"), value.String("b")}
	root.SetForInCache(names)

	assert.Equal(t, names, root.GetForInCache())

	root.ClearForInCache()
	assert.Nil(t, root.GetForInCache())
}

func TestShouldCacheForInFalseForDictionary(t *testing.T) {
	root := NewShape()
	assert.True(t, root.ShouldCacheForIn())
	assert.False(t, root.ToDictionary().ShouldCacheForIn())
}

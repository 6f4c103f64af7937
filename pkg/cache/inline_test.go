package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsobject/pkg/class"
	"jsobject/pkg/object"
	"jsobject/pkg/value"
)

func TestSiteStartsUninitialized(t *testing.T) {
	s := NewSite()
	assert.Equal(t, StateUninitialized, s.State())

	_, ok := s.Lookup(class.NewShape())
	assert.False(t, ok)
	assert.Equal(t, uint64(1), s.Stats().Misses)
}

func TestSiteGoesMonomorphicThenPolymorphic(t *testing.T) {
	s := NewSite()
	c1, slot1 := class.NewShape().AddProperty(value.StringKey("a"), class.DefaultNewNamedPropertyFlags())
	s.Update(c1, slot1)
	assert.Equal(t, StateMonomorphic, s.State())

	got, ok := s.Lookup(c1)
	require.True(t, ok)
	assert.Equal(t, slot1, got)
	assert.Equal(t, uint64(1), s.Stats().Hits)

	c2, slot2 := class.NewShape().AddProperty(value.StringKey("b"), class.DefaultNewNamedPropertyFlags())
	s.Update(c2, slot2)
	assert.Equal(t, StatePolymorphic, s.State())

	_, ok = s.Lookup(c2)
	assert.True(t, ok)
}

func TestSiteGoesMegamorphicPastMaxEntriesAndStaysMissing(t *testing.T) {
	s := NewSite()
	for i := 0; i < maxPolymorphicEntries+1; i++ {
		c, slot := class.NewShape().AddProperty(value.StringKey(string(rune('a'+i))), class.DefaultNewNamedPropertyFlags())
		s.Update(c, slot)
	}
	assert.Equal(t, StateMegamorphic, s.State())

	extra, _ := class.NewShape().AddProperty(value.StringKey("zzz"), class.DefaultNewNamedPropertyFlags())
	s.Update(extra, 0)
	assert.Equal(t, StateMegamorphic, s.State(), "a megamorphic site never demotes or re-tracks entries")

	_, ok := s.Lookup(extra)
	assert.False(t, ok, "megamorphic sites are a permanent miss")
}

func TestUpdateIsIdempotentForTheSameClass(t *testing.T) {
	s := NewSite()
	c, slot := class.NewShape().AddProperty(value.StringKey("a"), class.DefaultNewNamedPropertyFlags())
	s.Update(c, slot)
	s.Update(c, slot)

	assert.Equal(t, StateMonomorphic, s.State())
	assert.Equal(t, uint64(1), s.Stats().Transitions)
}

func TestFromEntryIgnoresNilClass(t *testing.T) {
	s := NewSite()
	s.FromEntry(object.CacheEntry{})
	assert.Equal(t, StateUninitialized, s.State())
}

func TestFromEntryPopulatesSite(t *testing.T) {
	s := NewSite()
	c, slot := class.NewShape().AddProperty(value.StringKey("a"), class.DefaultNewNamedPropertyFlags())
	s.FromEntry(object.CacheEntry{Class: c, Slot: slot})

	got, ok := s.Lookup(c)
	require.True(t, ok)
	assert.Equal(t, slot, got)
}

func TestRegistryCreatesSiteOnFirstUse(t *testing.T) {
	r := NewRegistry[int]()
	assert.Equal(t, 0, r.Len())

	s1 := r.Get(1)
	require.NotNil(t, s1)
	assert.Equal(t, 1, r.Len())

	s2 := r.Get(1)
	assert.Same(t, s1, s2, "the same key must return the same site")

	r.Get(2)
	assert.Equal(t, 2, r.Len())
}

package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jsobject/pkg/value"
)

// TestForInCacheNotSharedAcrossArraysWithDifferentElementCounts guards
// against a for-in cache built from one indexed object being served to a
// second object that happens to share the exact same class (the class only
// tracks named properties like "length", not element count) but holds a
// different set of elements.
func TestForInCacheNotSharedAcrossArraysWithDifferentElementCounts(t *testing.T) {
	rt := newFakeRuntime()

	a1 := New(rt, nil)
	a1.SetIndexedStorage(&stubIndexed{present: map[uint32]value.Value{0: value.Number(1)}})

	a2 := New(rt, nil)
	a2.SetIndexedStorage(&stubIndexed{present: map[uint32]value.Value{
		0: value.Number(1), 1: value.Number(2), 2: value.Number(3),
	}})

	require := assert.New(t)
	require.Equal(a1.Class(), a2.Class(), "both objects must share one class for this to exercise the bug")

	names1 := a1.GetForInPropertyNames(rt.Config())
	require.Equal([]string{"0"}, keysToStringValues(names1))

	names2 := a2.GetForInPropertyNames(rt.Config())
	require.Equal([]string{"0", "1", "2"}, keysToStringValues(names2))

	// Querying a1 again must still see only its own element.
	names1Again := a1.GetForInPropertyNames(rt.Config())
	require.Equal([]string{"0"}, keysToStringValues(names1Again))
}

func keysToStringValues(vs []value.Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.AsString()
	}
	return out
}

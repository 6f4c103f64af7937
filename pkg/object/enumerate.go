package object

import (
	"sort"
	"strconv"

	"jsobject/pkg/class"
	"jsobject/pkg/value"
)

// GetOwnPropertyNames produces a single ordered sequence: integer-indexed
// own names in index order, then symbol-less named properties in insertion
// order, then any host-object names not already reported. Any named
// property whose spelling is itself an integer index is extracted and
// merged into the leading indexed run instead of the named run.
func (o *JSObject) GetOwnPropertyNames(onlyEnumerable bool) []value.PropertyKey {
	if o.IsLazy() {
		o.initializeLazyObject()
	}

	lo, hi := o.indexedStorage().OwnIndexedRange()
	var indexRun []uint32
	for i := lo; i < hi; i++ {
		if !o.indexedStorage().HaveOwnIndexed(i) {
			continue
		}
		if onlyEnumerable {
			f, _ := o.indexedStorage().GetOwnIndexedPropertyFlags(i)
			if !f.Enumerable {
				continue
			}
		}
		indexRun = append(indexRun, i)
	}

	var namedRun []value.PropertyKey
	var extraIndexNames []uint32
	seen := map[any]bool{}

	o.Class().ForEachProperty(func(f class.Field) {
		if f.Key.IsSymbol() {
			return
		}
		if onlyEnumerable && !f.Flags.Enumerable {
			return
		}
		if idx, ok := f.Key.ToArrayIndex(); ok {
			extraIndexNames = append(extraIndexNames, idx)
			seen[f.Key.Hash()] = true
			return
		}
		namedRun = append(namedRun, f.Key)
		seen[f.Key.Hash()] = true
	})

	if o.IsHostObject() && o.host != nil {
		for _, k := range o.host.OwnPropertyNames() {
			if k.IsSymbol() || seen[k.Hash()] {
				continue
			}
			if idx, ok := k.ToArrayIndex(); ok {
				extraIndexNames = append(extraIndexNames, idx)
			} else {
				namedRun = append(namedRun, k)
			}
			seen[k.Hash()] = true
		}
	}

	if len(extraIndexNames) > 0 {
		merged := append(append([]uint32{}, indexRun...), extraIndexNames...)
		sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
		indexRun = merged
	}

	result := make([]value.PropertyKey, 0, len(indexRun)+len(namedRun))
	for _, i := range indexRun {
		result = append(result, value.StringKey(strconv.FormatUint(uint64(i), 10)))
	}
	result = append(result, namedRun...)
	return result
}

// GetOwnPropertySymbols keeps only named entries whose key is a Symbol.
func (o *JSObject) GetOwnPropertySymbols() []value.PropertyKey {
	var result []value.PropertyKey
	o.Class().ForEachProperty(func(f class.Field) {
		if f.Key.IsSymbol() {
			result = append(result, f.Key)
		}
	})
	return result
}

// forInTerminator separates the prototype-class prefix from the name run in
// a cached for-in array; it is Undefined because a real property name is
// always string-kind.
var forInTerminator = value.Undefined

// GetForInPropertyNames returns the shared, cached name sequence for-in
// enumeration walks: a prototype-class-prefix-validated cache attached to
// the receiver's own class, rebuilt on any mismatch.
func (o *JSObject) GetForInPropertyNames(cfg RuntimeConfig) []value.Value {
	cls := o.Class()
	if cached := cls.GetForInCache(); cached != nil {
		if matchesProtoClasses(o, cached) {
			return namesFromCache(cached)
		}
		cls.ClearForInCache()
	}

	names, protoPrefix, cacheable := collectForInNames(o)
	if cacheable {
		ownCount := cls.NumProperties()
		if ownCount == 0 {
			ownCount = 1
		}
		total := len(protoPrefix) + len(names)
		if cfg.ForInCacheMaxRatio <= 0 || total <= cfg.ForInCacheMaxRatio*ownCount {
			full := make([]value.Value, 0, len(protoPrefix)+1+len(names))
			for _, c := range protoPrefix {
				full = append(full, value.FromObject(c))
			}
			full = append(full, forInTerminator)
			full = append(full, names...)
			cls.SetForInCache(full)
		}
	}
	return names
}

func matchesProtoClasses(o *JSObject, cached []value.Value) bool {
	cur := o.Parent()
	for i := 0; i < len(cached); i++ {
		if cached[i].IsUndefined() {
			return cur == nil
		}
		if cur == nil {
			return false
		}
		cls, ok := cached[i].AsObject().(class.HiddenClass)
		if !ok || cls != cur.Class() {
			return false
		}
		cur = cur.Parent()
	}
	return false
}

func namesFromCache(cached []value.Value) []value.Value {
	for i, v := range cached {
		if v.IsUndefined() {
			return cached[i+1:]
		}
	}
	return nil
}

func collectForInNames(o *JSObject) ([]value.Value, []class.HiddenClass, bool) {
	var protoPrefix []class.HiddenClass
	// The cache is validated purely by comparing class pointers along the
	// prototype chain (matchesProtoClasses), so any node whose contributed
	// names are NOT fully determined by its class -- indexed storage, whose
	// element count can change across a length transition that keeps the
	// same class, or a host object, whose callback can add or remove names
	// the class never sees -- makes the whole result uncacheable. This
	// includes the receiver itself: two arrays can share one class (it only
	// tracks the "length" named property) while holding different elements.
	cacheable := !o.Flags().IndexedStorage && !(o.IsHostObject() && o.host != nil)
	for cur := o.Parent(); cur != nil; cur = cur.Parent() {
		cls := cur.Class()
		if !cls.ShouldCacheForIn() {
			cacheable = false
		}
		if cur.Flags().IndexedStorage || (cur.IsHostObject() && cur.host != nil) {
			cacheable = false
		}
		protoPrefix = append(protoPrefix, cls)
	}

	seenNumeric := map[uint32]bool{}
	seenString := map[string]bool{}
	var names []value.Value

	addKey := func(k value.PropertyKey) {
		if k.IsSymbol() {
			return
		}
		if idx, ok := k.ToArrayIndex(); ok {
			if seenNumeric[idx] {
				return
			}
			seenNumeric[idx] = true
			names = append(names, value.String(k.String()))
			return
		}
		if seenString[k.Name()] {
			return
		}
		seenString[k.Name()] = true
		names = append(names, value.String(k.Name()))
	}

	for cur := o; cur != nil; cur = cur.Parent() {
		lo, hi := cur.indexedStorage().OwnIndexedRange()
		for i := lo; i < hi; i++ {
			if !cur.indexedStorage().HaveOwnIndexed(i) {
				continue
			}
			f, _ := cur.indexedStorage().GetOwnIndexedPropertyFlags(i)
			if !f.Enumerable || seenNumeric[i] {
				continue
			}
			seenNumeric[i] = true
			names = append(names, value.String(strconv.FormatUint(uint64(i), 10)))
		}
		cur.Class().ForEachProperty(func(f class.Field) {
			if !f.Flags.Enumerable {
				return
			}
			addKey(f.Key)
		})
		if cur.IsHostObject() && cur.host != nil {
			for _, k := range cur.host.OwnPropertyNames() {
				addKey(k)
			}
		}
	}

	return names, protoPrefix, cacheable
}

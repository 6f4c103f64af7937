package object

// IsExtensible reports whether new own properties may still be added.
func (o *JSObject) IsExtensible() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return !o.flags.NoExtend
}

// PreventExtensions latches noExtend. It is one-way: nothing in this core
// ever clears it again.
func (o *JSObject) PreventExtensions() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.flags.NoExtend = true
}

// Seal makes every own property non-configurable and prevents extensions.
// Idempotent.
func (o *JSObject) Seal() {
	o.mu.Lock()
	if o.flags.Sealed {
		o.mu.Unlock()
		return
	}
	o.class = o.class.MakeAllNonConfigurable()
	o.indexedStorage().MakeAllOwnIndexedNonConfigurable()
	o.flags.Sealed = true
	o.flags.NoExtend = true
	o.mu.Unlock()
}

// Freeze makes every own data property non-writable in addition to what
// Seal does. Idempotent.
func (o *JSObject) Freeze() {
	o.mu.Lock()
	if o.flags.Frozen {
		o.mu.Unlock()
		return
	}
	o.class = o.class.MakeAllReadOnly()
	o.indexedStorage().MakeAllOwnIndexedReadOnly()
	o.flags.Frozen = true
	o.flags.Sealed = true
	o.flags.NoExtend = true
	o.mu.Unlock()
}

// IsSealed fast-returns on the cached flag; otherwise it runs the full scan
// and, on success, caches the promotion so future calls are O(1).
func (o *JSObject) IsSealed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.flags.Sealed {
		return true
	}
	if !o.flags.NoExtend {
		return false
	}
	if !o.class.AreAllNonConfigurable() {
		return false
	}
	if !o.indexedStorage().CheckAllOwnIndexed(CheckNonConfigurable) {
		return false
	}
	o.flags.Sealed = true
	return true
}

// IsFrozen fast-returns on the cached flag; otherwise it runs the full scan
// and, on success, caches the promotion so future calls are O(1).
func (o *JSObject) IsFrozen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.flags.Frozen {
		return true
	}
	if !o.flags.NoExtend {
		return false
	}
	if !o.class.AreAllReadOnly() {
		return false
	}
	if !o.indexedStorage().CheckAllOwnIndexed(CheckReadOnly) {
		return false
	}
	o.flags.Frozen = true
	o.flags.Sealed = true
	return true
}

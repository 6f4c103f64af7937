package object

// GetObjectID returns a stable nonzero integer identity, assigned lazily
// from the runtime's monotonic counter on first request.
func (o *JSObject) GetObjectID() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.objectID != 0 {
		return o.objectID
	}
	id := o.rt.NextObjectID()
	if id == 0 {
		id = o.rt.NextObjectID()
	}
	o.objectID = id
	return id
}

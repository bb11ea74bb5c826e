package gpio

// FakeWatcher is a test double that delivers scripted edges to the
// registered handler.
type FakeWatcher struct {
	// WatchError, if set, will be returned by Watch().
	WatchError error

	// Closed tracks if Close was called.
	Closed bool

	handler func(Edge)
}

// NewFakeWatcher creates a FakeWatcher with no handler registered.
func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{}
}

// Watch registers the handler.
func (f *FakeWatcher) Watch(handler func(Edge)) error {
	if f.WatchError != nil {
		return f.WatchError
	}
	f.handler = handler
	return nil
}

// Emit delivers one edge to the handler, synchronously, the way the real
// event goroutine would. Edges emitted before Watch are dropped.
func (f *FakeWatcher) Emit(e Edge) {
	if f.handler != nil {
		f.handler(e)
	}
}

// Close marks the watcher as closed.
func (f *FakeWatcher) Close() error {
	f.Closed = true
	return nil
}

// Reset clears the handler and closed state.
func (f *FakeWatcher) Reset() {
	f.handler = nil
	f.Closed = false
	f.WatchError = nil
}

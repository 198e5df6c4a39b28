// Package markers tracks ephemeral map-marker handles such as search
// result pins and floating labels. Markers are rendering artifacts, not
// domain data: they are never keyed by annotation ID, and clearing them
// never touches the annotation store.
package markers

import "sync"

// Kind distinguishes the marker handle types the map can show.
type Kind string

const (
	KindSearchPin Kind = "search-pin"
	KindLabel     Kind = "label"
)

// Handle is an opaque reference to a marker placed on the map.
type Handle struct {
	Key  string
	Kind Kind
}

// Registry is a thread-safe set of live marker handles.
type Registry struct {
	mu      sync.RWMutex
	markers map[string]Handle
}

// NewRegistry creates an empty marker registry.
func NewRegistry() *Registry {
	return &Registry{
		markers: make(map[string]Handle),
	}
}

// Add registers a marker handle, replacing any existing handle with the
// same key.
func (r *Registry) Add(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers[h.Key] = h
}

// Get retrieves a marker handle by key.
func (r *Registry) Get(key string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.markers[key]
	return h, ok
}

// Remove drops a marker handle by key. Removing an absent key is a no-op.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.markers, key)
}

// Len returns the number of live markers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.markers)
}

// ClearAll drops every marker handle.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = make(map[string]Handle)
}

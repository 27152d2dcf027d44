package corgi

import "reflect"

// Services is a registry of shared, program-wide objects keyed by type:
// asset loaders, renderers, input handlers, anything components need but no
// single component owns. The manager carries one so components can reach
// shared services through their Manager() without package-level globals.
//
// At most one service of a given concrete type may be registered at a time.
type Services struct {
	items   []any
	types   map[reflect.Type]int
	freeIDs []int
}

// Add registers a service and returns its ID. IDs freed by Remove are
// reused. Adding nil or a second service of the same type panics.
func (s *Services) Add(service any) int {
	if service == nil {
		panic("corgi: cannot add a nil service")
	}
	t := reflect.TypeOf(service)
	if s.types == nil {
		s.types = make(map[reflect.Type]int)
	}
	if _, ok := s.types[t]; ok {
		panic("corgi: a service of type " + t.String() + " is already registered")
	}
	var id int
	if len(s.freeIDs) > 0 {
		id = s.freeIDs[len(s.freeIDs)-1]
		s.freeIDs = s.freeIDs[:len(s.freeIDs)-1]
		s.items[id] = service
	} else {
		s.items = append(s.items, service)
		id = len(s.items) - 1
	}
	s.types[t] = id
	return id
}

// Has reports whether a service is registered under id.
func (s *Services) Has(id int) bool {
	return id >= 0 && id < len(s.items) && s.items[id] != nil
}

// Get returns the service registered under id, or nil.
func (s *Services) Get(id int) any {
	if !s.Has(id) {
		return nil
	}
	return s.items[id]
}

// Remove unregisters the service under id and marks the ID for reuse.
// Removing an unknown id is a no-op.
func (s *Services) Remove(id int) {
	if !s.Has(id) {
		return
	}
	delete(s.types, reflect.TypeOf(s.items[id]))
	s.items[id] = nil
	s.freeIDs = append(s.freeIDs, id)
}

// Clear unregisters every service.
func (s *Services) Clear() {
	for i := range s.items {
		s.items[i] = nil
	}
	s.items = s.items[:0]
	clear(s.types)
	s.freeIDs = s.freeIDs[:0]
}

// GetService returns the registered *T and its ID, or nil and -1.
func GetService[T any](s *Services) (*T, int) {
	if id, ok := s.types[reflect.TypeOf((*T)(nil))]; ok {
		return s.items[id].(*T), id
	}
	return nil, -1
}

// HasService reports whether a *T is registered, returning its ID or -1.
func HasService[T any](s *Services) (bool, int) {
	if id, ok := s.types[reflect.TypeOf((*T)(nil))]; ok {
		return true, id
	}
	return false, -1
}

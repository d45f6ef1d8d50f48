package preset

import "sort"

// Store is a name-keyed table of presets of one kind.
type Store[T any] struct {
	items map[string]T
}

// NewStore returns an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// Get returns the preset registered under name.
func (s *Store[T]) Get(name string) (T, bool) {
	v, ok := s.items[name]
	return v, ok
}

// Set registers v under name, replacing any previous entry.
func (s *Store[T]) Set(name string, v T) {
	s.items[name] = v
}

// Names returns the registered names in sorted order.
func (s *Store[T]) Names() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package viewmodel

import "sync"

// store guards one snapshot and notifies subscribers after each change.
// Under concurrent updates subscribers may see snapshots out of order; the
// value returned by snapshot is authoritative.
type store[S any] struct {
	mu        sync.Mutex
	state     S
	listeners map[uint64]func(S)
	nextID    uint64
}

func newStore[S any](initial S) *store[S] {
	return &store[S]{
		state:     initial,
		listeners: make(map[uint64]func(S)),
	}
}

func (s *store[S]) snapshot() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// update applies fn and notifies subscribers.
func (s *store[S]) update(fn func(S) S) S {
	next, _ := s.tryUpdate(func(cur S) (S, bool) {
		return fn(cur), true
	})
	return next
}

// tryUpdate applies fn atomically; when fn reports false the state is left
// untouched and nobody is notified.
func (s *store[S]) tryUpdate(fn func(S) (S, bool)) (S, bool) {
	s.mu.Lock()
	next, ok := fn(s.state)
	if !ok {
		cur := s.state
		s.mu.Unlock()
		return cur, false
	}
	s.state = next

	listeners := make([]func(S), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next, true
}

func (s *store[S]) subscribe(fn func(S)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

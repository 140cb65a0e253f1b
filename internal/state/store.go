// Package state holds application state in reducer-driven stores.
package state

import "sync"

// Listener is notified after every dispatched change.
type Listener[T any] func(prev, next T)

// Store holds one value of T. Changes go through Dispatch with a reducer
// that must return a new value rather than mutate its argument.
//
// Dispatch and listener notification are serialized, so listeners observe
// changes in dispatch order. Listeners may call Get but must not Dispatch
// to the same store.
type Store[T any] struct {
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	value     T
	listeners []listenerEntry[T]
	nextID    int
}

type listenerEntry[T any] struct {
	id int
	fn Listener[T]
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Dispatch applies reduce to the current value, stores the result and
// notifies listeners. It returns the new value.
func (s *Store[T]) Dispatch(reduce func(T) T) T {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.value
	next := reduce(prev)
	s.value = next
	listeners := make([]listenerEntry[T], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(prev, next)
	}
	return next
}

// Restore replaces the value without notifying listeners.
func (s *Store[T]) Restore(value T) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store[T]) Subscribe(fn Listener[T]) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry[T]{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

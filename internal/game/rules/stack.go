package rules

import (
	"errors"
	"sync"
)

// ErrStackEmpty is returned when popping an empty stack.
var ErrStackEmpty = errors.New("stack empty")

// Stack is a LIFO container of pending items. It enforces no protocol of its
// own; callers decide what may be pushed and when.
type Stack[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewStack creates a new empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0, 4),
	}
}

// Push adds an item to the top of the stack.
func (s *Stack[T]) Push(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// Pop removes the top item from the stack.
func (s *Stack[T]) Pop() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if len(s.items) == 0 {
		return zero, ErrStackEmpty
	}

	idx := len(s.items) - 1
	item := s.items[idx]
	s.items[idx] = zero
	s.items = s.items[:idx]
	return item, nil
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// List returns a copy of all stack items (topmost last).
func (s *Stack[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	cpy := make([]T, len(s.items))
	copy(cpy, s.items)
	return cpy
}

// Len returns the number of pending items.
func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsEmpty returns whether the stack is empty.
func (s *Stack[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Clear drops every pending item.
func (s *Stack[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
	s.items = s.items[:0]
}

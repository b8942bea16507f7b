package memory

import (
	"cmp"
	"slices"

	"github.com/ezrec/alpha/fault"
)

const (
	CALL_STACK_LIMIT = 65535 // Default maximum call stack depth
)

// Stack is a last-in first-out sequence with an optional depth limit.
type Stack[T any] struct {
	Data  []T
	Limit int // Maximum depth, 0 for unbounded.

	full  error // Returned by Push when Full.
	empty error // Returned by Pop when Empty.
}

// NewDataStack creates an unbounded stack of values.
func NewDataStack() *Stack[int64] {
	return &Stack[int64]{
		full:  fault.ErrStackOverflow,
		empty: fault.ErrStackUnderflow,
	}
}

// NewCallStack creates a stack of return addresses bounded to limit entries.
func NewCallStack(limit int) *Stack[int] {
	return &Stack[int]{
		Limit: limit,
		full:  fault.ErrStackOverflow,
		empty: fault.ErrEmptyCallStack,
	}
}

// Push a value. Fails without modification if the stack is full.
func (s *Stack[T]) Push(value T) (err error) {
	if s.Full() {
		err = cmp.Or(s.full, fault.ErrStackOverflow)
		return
	}

	s.Data = append(s.Data, value)
	return
}

// Pop a value. Fails if the stack is empty.
func (s *Stack[T]) Pop() (value T, err error) {
	value, ok := s.Peek()
	if !ok {
		err = cmp.Or(s.empty, fault.ErrStackUnderflow)
		return
	}

	s.Data = s.Data[:len(s.Data)-1]
	return
}

// Len returns the current depth.
func (s *Stack[T]) Len() int {
	return len(s.Data)
}

func (s *Stack[T]) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack[T]) Full() bool {
	return s.Limit > 0 && len(s.Data) >= s.Limit
}

func (s *Stack[T]) Peek() (value T, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack[T]) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}

// Clone returns an independent copy of the stack.
func (s *Stack[T]) Clone() *Stack[T] {
	clone := *s
	clone.Data = slices.Clone(s.Data)
	return &clone
}

package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/alpha/fault"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := NewDataStack()
	assert.True(s.Empty())
	assert.False(s.Full())

	assert.NoError(s.Push(-7))
	assert.False(s.Empty())
	assert.Equal(1, s.Len())
	assert.Equal(int64(-7), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := NewDataStack()
	s.Push(3)
	s.Push(4)

	val, err := s.Pop()
	assert.NoError(err)
	assert.Equal(int64(4), val)
	assert.Equal(1, s.Len())

	val, err = s.Pop()
	assert.NoError(err)
	assert.Equal(int64(3), val)
	assert.True(s.Empty())

	val, err = s.Pop()
	assert.ErrorIs(err, fault.ErrStackUnderflow)
	assert.Equal(int64(0), val)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := NewDataStack()
	_, ok := s.Peek()
	assert.False(ok)

	s.Push(1)
	s.Push(2)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(int64(2), val)
	assert.Equal(2, s.Len())
}

func TestStack_Call(t *testing.T) {
	assert := assert.New(t)

	s := NewCallStack(2)
	assert.NoError(s.Push(10))
	assert.NoError(s.Push(20))
	assert.True(s.Full())

	err := s.Push(30)
	assert.ErrorIs(err, fault.ErrStackOverflow)
	assert.Equal([]int{10, 20}, s.Data)

	s.Pop()
	s.Pop()
	_, err = s.Pop()
	assert.ErrorIs(err, fault.ErrEmptyCallStack)
}

func TestStack_Clone(t *testing.T) {
	assert := assert.New(t)

	s := NewCallStack(4)
	s.Push(1)

	clone := s.Clone()
	clone.Push(2)
	assert.Equal([]int{1}, s.Data)
	assert.Equal([]int{1, 2}, clone.Data)
	assert.Equal(4, clone.Limit)

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(2, clone.Len())

	// The clone keeps the stack's own errors.
	clone.Reset()
	_, err := clone.Pop()
	assert.ErrorIs(err, fault.ErrEmptyCallStack)
}

func TestStack_Zero(t *testing.T) {
	assert := assert.New(t)

	var s Stack[string]
	assert.False(s.Full())

	_, err := s.Pop()
	assert.ErrorIs(err, fault.ErrStackUnderflow)
}

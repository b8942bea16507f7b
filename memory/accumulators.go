package memory

import (
	"fmt"
	"iter"

	"github.com/ezrec/alpha/fault"
)

// Accumulators is a fixed-size register file of optional values.
type Accumulators struct {
	slot []Value
}

// NewAccumulators creates a register file of count never-written slots.
func NewAccumulators(count int) *Accumulators {
	return &Accumulators{slot: make([]Value, count)}
}

// Len returns the register file capacity.
func (acc *Accumulators) Len() int {
	return len(acc.slot)
}

func (acc *Accumulators) check(index int) error {
	if index < 0 || index >= len(acc.slot) {
		return fault.ErrIndexOutOfRange{Space: fault.SPACE_ACCUMULATOR, Index: index}
	}
	return nil
}

// Get reads an accumulator.
func (acc *Accumulators) Get(index int) (value int64, err error) {
	err = acc.check(index)
	if err != nil {
		return
	}

	if !acc.slot[index].Set {
		err = fault.ErrUninitialized{Space: fault.SPACE_ACCUMULATOR, Id: fmt.Sprintf("a%d", index)}
		return
	}

	value = acc.slot[index].Value
	return
}

// Set writes an accumulator.
func (acc *Accumulators) Set(index int, value int64) (err error) {
	err = acc.check(index)
	if err != nil {
		return
	}

	acc.slot[index] = Value{Value: value, Set: true}
	return
}

// Lookup reads an accumulator without failing; ok is false if unset or
// out of range.
func (acc *Accumulators) Lookup(index int) (value int64, ok bool) {
	if acc.check(index) != nil {
		return
	}
	return acc.slot[index].Value, acc.slot[index].Set
}

// All iterates every accumulator index with its value and written state.
func (acc *Accumulators) All() iter.Seq2[int, Value] {
	return func(yield func(index int, value Value) bool) {
		for n, s := range acc.slot {
			if !yield(n, s) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (acc *Accumulators) Clone() *Accumulators {
	return &Accumulators{slot: append([]Value(nil), acc.slot...)}
}

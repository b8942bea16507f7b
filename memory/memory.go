// Package memory implements the Alpha-Notation runtime memory model:
// an indexed accumulator file, insertion-ordered named memory cells, an
// unbounded data stack, and a bounded call stack of return addresses.
//
// No slot has a default value; reading a slot before its first write fails
// with fault.ErrUninitialized.
package memory

import (
	"fmt"
	"iter"

	"github.com/ezrec/alpha/internal"
)

// Value is an optional slot value.
type Value struct {
	Value int64
	Set   bool // False until the first write.
}

// Memory is the complete mutable storage of a running program.
type Memory struct {
	Accumulators *Accumulators
	Cells        *Cells
	Data         *Stack[int64] // Data stack.
	Call         *Stack[int]   // Call stack of return addresses.
}

// New creates an empty memory with count accumulators and a call stack
// bounded to callLimit entries.
func New(count int, callLimit int) *Memory {
	return &Memory{
		Accumulators: NewAccumulators(count),
		Cells:        NewCells(),
		Data:         NewDataStack(),
		Call:         NewCallStack(callLimit),
	}
}

// Clone returns an independent deep copy, used to snapshot and restore state.
func (mem *Memory) Clone() *Memory {
	return &Memory{
		Accumulators: mem.Accumulators.Clone(),
		Cells:        mem.Cells.Clone(),
		Data:         mem.Data.Clone(),
		Call:         mem.Call.Clone(),
	}
}

// written filters a slot sequence to written values, renaming keys.
func written[K any](seq iter.Seq2[K, Value], name func(K) string) iter.Seq2[string, int64] {
	return func(yield func(string, int64) bool) {
		set := func(_ K, value Value) bool { return value.Set }
		for key, value := range internal.IterSeq2Filter(seq, set) {
			if !yield(name(key), value.Value) {
				return
			}
		}
	}
}

// All iterates every written accumulator then every written cell, by name.
func (mem *Memory) All() iter.Seq2[string, int64] {
	return internal.IterSeq2Concat(
		written(mem.Accumulators.All(), func(n int) string { return fmt.Sprintf("a%d", n) }),
		written(mem.Cells.All(), func(key string) string { return key }),
	)
}

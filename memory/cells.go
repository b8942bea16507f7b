package memory

import (
	"iter"
	"maps"
	"slices"

	"github.com/ezrec/alpha/fault"
)

// Cells is a set of named optional values, listed in first-insertion order.
type Cells struct {
	order []string
	slot  map[string]Value
}

// NewCells creates an empty cell set.
func NewCells() *Cells {
	return &Cells{slot: make(map[string]Value)}
}

// Declare adds a never-written cell if not yet present.
func (cells *Cells) Declare(key string) {
	if cells.slot == nil {
		cells.slot = make(map[string]Value)
	}
	if _, ok := cells.slot[key]; ok {
		return
	}
	cells.order = append(cells.order, key)
	cells.slot[key] = Value{}
}

// Get reads a cell.
func (cells *Cells) Get(key string) (value int64, err error) {
	s, ok := cells.slot[key]
	if !ok || !s.Set {
		err = fault.ErrUninitialized{Space: fault.SPACE_CELL, Id: key}
		return
	}

	value = s.Value
	return
}

// Set writes a cell, inserting it at the end of the order if new.
func (cells *Cells) Set(key string, value int64) {
	cells.Declare(key)
	cells.slot[key] = Value{Value: value, Set: true}
}

// Lookup reads a cell without failing.
func (cells *Cells) Lookup(key string) (value int64, ok bool) {
	s := cells.slot[key]
	return s.Value, s.Set
}

// Len returns the number of known cells.
func (cells *Cells) Len() int {
	return len(cells.order)
}

// Keys iterates cell names in insertion order.
func (cells *Cells) Keys() iter.Seq[string] {
	return slices.Values(cells.order)
}

// All iterates cells in insertion order.
func (cells *Cells) All() iter.Seq2[string, Value] {
	return func(yield func(key string, value Value) bool) {
		for _, key := range cells.order {
			if !yield(key, cells.slot[key]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (cells *Cells) Clone() *Cells {
	return &Cells{
		order: slices.Clone(cells.order),
		slot:  maps.Clone(cells.slot),
	}
}

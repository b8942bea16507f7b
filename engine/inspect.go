package engine

import (
	"slices"

	"github.com/ezrec/alpha/memory"
)

// NamedValue is a memory cell in a Snapshot.
type NamedValue struct {
	Name string
	memory.Value
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Ip     int
	Runs   int
	Budget int
	Status Status
	Err    error

	Accumulators []memory.Value
	Cells        []NamedValue // In insertion order.
	DataStack    []int64      // Bottom first.
	CallStack    []int        // Bottom first.

	Breakpoints  []int
	AtBreakpoint bool // A breakpoint is set at Ip.
}

// Inspect copies the current state. Later execution does not alter the
// returned Snapshot.
func (eng *Engine) Inspect() (snap Snapshot) {
	snap = Snapshot{
		Ip:          eng.ip,
		Runs:        eng.runs,
		Budget:      eng.limits.InstructionBudget,
		Status:      eng.status,
		Err:         eng.err,
		DataStack:   slices.Clone(eng.mem.Data.Data),
		CallStack:   slices.Clone(eng.mem.Call.Data),
		Breakpoints: eng.Breakpoints(),

		AtBreakpoint: eng.breakpoints[eng.ip],
	}

	snap.Accumulators = make([]memory.Value, 0, eng.mem.Accumulators.Len())
	for _, value := range eng.mem.Accumulators.All() {
		snap.Accumulators = append(snap.Accumulators, value)
	}

	snap.Cells = make([]NamedValue, 0, eng.mem.Cells.Len())
	for name, value := range eng.mem.Cells.All() {
		snap.Cells = append(snap.Cells, NamedValue{Name: name, Value: value})
	}

	return
}

// Memory returns an independent copy of the current memory.
func (eng *Engine) Memory() *memory.Memory {
	return eng.mem.Clone()
}

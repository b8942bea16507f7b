// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package debugger is the control surface an interactive front end drives:
// stepping, running, breakpoints, and inspection of one engine.
package debugger

import (
	"context"
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/alpha/bridge"
	"github.com/ezrec/alpha/config"
	"github.com/ezrec/alpha/engine"
	"github.com/ezrec/alpha/fault"
	"github.com/ezrec/alpha/internal"
	"github.com/ezrec/alpha/program"
)

// Control is the complete set of operations a front end may perform.
type Control interface {
	Step() (done bool, err error)
	Run(ctx context.Context) error
	Continue(ctx context.Context) error
	Reset()
	SetBreakpoint(index int) error
	ClearBreakpoint(index int) error
	ToggleBreakpoint(index int) (set bool, err error)
	Inspect() engine.Snapshot
}

var _ Control = (*Debugger)(nil)
var _ Control = (*engine.Engine)(nil)

// Debugger drives an engine, attaching source positions to its failures.
type Debugger struct {
	Verbose bool // If set, enables verbose logging.
	*engine.Engine
}

// New creates a debugger for prog with memory seeded from cfg.
func New(prog *program.Program, cfg *config.Config) (dbg *Debugger, err error) {
	eng, err := engine.New(prog, cfg)
	if err != nil {
		return
	}

	dbg = &Debugger{Engine: eng}
	return
}

// Defines returns the assembler equates describing a configuration.
func Defines(cfg *config.Config) iter.Seq2[string, string] {
	if cfg == nil {
		cfg = config.Default()
	}

	limits := map[string]string{
		"ACCUMULATORS":       fmt.Sprintf("%d", cfg.Accumulators),
		"CELL_WIDTH":         fmt.Sprintf("%d", cfg.Limits.CellWidth),
		"CALL_STACK_LIMIT":   fmt.Sprintf("%d", cfg.Limits.CallStackLimit),
		"INSTRUCTION_BUDGET": fmt.Sprintf("%d", cfg.Limits.InstructionBudget),
	}

	return internal.IterSeq2Concat(maps.All(limits), maps.All(bridge.Defines()))
}

func (dbg *Debugger) verbose() {
	dbg.Engine.Verbose = dbg.Verbose
	if dbg.Engine.Bridge != nil {
		dbg.Engine.Bridge.Verbose = dbg.Verbose
	}
}

// LineNo returns the source line of the instruction at the instruction
// pointer, or 0 once finished.
func (dbg *Debugger) LineNo() int {
	return dbg.Program().LineNo(dbg.Ip())
}

// Current returns the instruction at the instruction pointer; ok is false
// once finished.
func (dbg *Debugger) Current() (ins program.Instruction, ok bool) {
	ins, err := dbg.Program().InstructionAt(dbg.Ip())
	ok = err == nil
	return
}

// wrap attaches the failing instruction's position to a step-time error.
func (dbg *Debugger) wrap(err error) error {
	if !fault.IsStepTime(err) {
		return err
	}
	return &ErrRuntime{Index: dbg.Ip(), LineNo: dbg.LineNo(), Err: err}
}

// Step executes one instruction.
func (dbg *Debugger) Step() (done bool, err error) {
	dbg.verbose()

	done, err = dbg.Engine.Step()
	err = dbg.wrap(err)
	return
}

// Run executes until finished, failed, paused at a breakpoint, or stopped
// by ctx.
func (dbg *Debugger) Run(ctx context.Context) (err error) {
	dbg.verbose()

	return dbg.wrap(dbg.Engine.Run(ctx))
}

// Continue resumes from a pause.
func (dbg *Debugger) Continue(ctx context.Context) (err error) {
	dbg.verbose()

	return dbg.wrap(dbg.Engine.Continue(ctx))
}

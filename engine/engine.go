// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package engine implements the Alpha-Notation execution engine: the
// instruction-level state machine driving step, run, and reset, with
// breakpoint control.
//
// Every run terminates: each executed instruction is charged against a
// fixed instruction budget, and the fetch that would exceed it fails with
// fault.ErrInstructionLimit instead of executing. The engine is not safe for
// concurrent use; a single caller drives it.
package engine

import (
	"context"
	"errors"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/alpha/bridge"
	"github.com/ezrec/alpha/config"
	"github.com/ezrec/alpha/fault"
	"github.com/ezrec/alpha/memory"
	"github.com/ezrec/alpha/program"
)

// Engine is the simulation context for one loaded program.
type Engine struct {
	Verbose bool           // Set to enable verbose logging.
	Bridge  *bridge.Bridge // Syscall gateway.

	program *program.Program
	limits  config.Limits
	initial *memory.Memory // Load-time snapshot restored by Reset.
	mem     *memory.Memory

	ip     int   // Next instruction; Len() when finished.
	runs   int   // Instructions executed since reset.
	status Status
	err    error // Failure, when status is STATUS_FAILED.

	breakpoints map[int]bool
	resume      bool // Pass the breakpoint at ip once.
}

// New creates an engine for prog with memory seeded from cfg.
// A nil cfg uses config.Default(). Syscalls go to the operating system.
func New(prog *program.Program, cfg *config.Config) (eng *Engine, err error) {
	if prog == nil {
		err = fault.ErrInternal
		return
	}

	if cfg == nil {
		cfg = config.Default()
	}

	initial, err := cfg.Memory()
	if err != nil {
		return
	}

	br, err := bridge.New(bridge.SystemHost{}, cfg.Limits.CellWidth)
	if err != nil {
		return
	}

	eng = &Engine{
		Bridge:      br,
		program:     prog,
		limits:      cfg.Limits,
		initial:     initial,
		mem:         initial.Clone(),
		status:      STATUS_READY,
		breakpoints: make(map[int]bool),
	}

	return
}

// Program returns the loaded program.
func (eng *Engine) Program() *program.Program {
	return eng.program
}

// Limits returns the execution limits.
func (eng *Engine) Limits() config.Limits {
	return eng.limits
}

// Ip returns the instruction pointer.
func (eng *Engine) Ip() int {
	return eng.ip
}

// Runs returns the number of instructions executed since the last reset.
func (eng *Engine) Runs() int {
	return eng.runs
}

// Status returns the current engine state.
func (eng *Engine) Status() Status {
	return eng.status
}

// Err returns the failure that moved the engine to STATUS_FAILED.
func (eng *Engine) Err() error {
	return eng.err
}

// Reset restores the load-time state. Breakpoints are kept.
func (eng *Engine) Reset() {
	if eng.Verbose {
		log.Printf("engine: reset")
	}

	eng.ip = 0
	eng.runs = 0
	eng.mem = eng.initial.Clone()
	eng.status = STATUS_READY
	eng.err = nil
	eng.resume = false
}

// Step executes exactly one instruction, ignoring breakpoints.
// done is true once the program has finished.
func (eng *Engine) Step() (done bool, err error) {
	if eng.status.Halted() {
		err = fault.ErrEngineHalted
		return
	}

	eng.status = STATUS_RUNNING
	eng.resume = false

	return eng.step()
}

// Run executes until the program finishes or fails, a breakpoint is
// reached, or ctx is done. ctx is polled once per instruction; when it is
// done the engine pauses and can be resumed with Continue.
//
// Pausing at a breakpoint happens before the instruction executes and
// charges nothing against the instruction budget. The next Run or Continue
// executes that instruction before checking breakpoints again.
func (eng *Engine) Run(ctx context.Context) (err error) {
	if eng.status.Halted() {
		err = fault.ErrEngineHalted
		return
	}

	eng.status = STATUS_RUNNING

	for {
		if eng.ip == eng.program.Len() {
			_, err = eng.step()
			return
		}

		if ctx.Err() != nil {
			if eng.Verbose {
				log.Printf("engine: stopped at %d", eng.ip)
			}
			eng.status = STATUS_PAUSED
			return
		}

		if eng.breakpoints[eng.ip] && !eng.resume {
			if eng.Verbose {
				log.Printf("engine: breakpoint at %d", eng.ip)
			}
			eng.status = STATUS_PAUSED
			eng.resume = true
			return
		}

		eng.resume = false

		var done bool
		done, err = eng.step()
		if done || err != nil {
			return
		}
	}
}

// Continue resumes a paused engine, as Run.
func (eng *Engine) Continue(ctx context.Context) (err error) {
	if eng.status != STATUS_PAUSED {
		err = fault.ErrNotPaused
		return
	}

	return eng.Run(ctx)
}

// step fetches and executes the instruction at ip.
func (eng *Engine) step() (done bool, err error) {
	if eng.ip == eng.program.Len() {
		if eng.Verbose {
			log.Printf("engine: finished after %d instructions", eng.runs)
		}
		eng.status = STATUS_FINISHED
		done = true
		return
	}

	if eng.runs >= eng.limits.InstructionBudget {
		err = eng.fail(fault.ErrInstructionLimit)
		return
	}

	ins, err := eng.program.InstructionAt(eng.ip)
	if err != nil {
		err = eng.fail(errors.Join(fault.ErrInternal, err))
		return
	}

	eng.runs++

	next, err := eng.execute(ins)
	if err != nil {
		err = eng.fail(err)
		return
	}

	eng.ip = next
	if eng.ip == eng.program.Len() {
		return eng.step()
	}

	return
}

// fail moves the engine to STATUS_FAILED.
func (eng *Engine) fail(err error) error {
	if eng.Verbose {
		log.Printf("engine: %03d: %v", eng.ip, err)
	}

	eng.status = STATUS_FAILED
	eng.err = err
	return err
}

// SetBreakpoint adds a breakpoint before the instruction at index.
func (eng *Engine) SetBreakpoint(index int) (err error) {
	err = eng.checkBreakpoint(index)
	if err != nil {
		return
	}

	eng.breakpoints[index] = true
	return
}

// ClearBreakpoint removes the breakpoint at index, if any.
func (eng *Engine) ClearBreakpoint(index int) (err error) {
	err = eng.checkBreakpoint(index)
	if err != nil {
		return
	}

	delete(eng.breakpoints, index)
	return
}

// ToggleBreakpoint flips the breakpoint at index, returning whether it is
// now set.
func (eng *Engine) ToggleBreakpoint(index int) (set bool, err error) {
	err = eng.checkBreakpoint(index)
	if err != nil {
		return
	}

	set = !eng.breakpoints[index]
	if set {
		eng.breakpoints[index] = true
	} else {
		delete(eng.breakpoints, index)
	}
	return
}

// Breakpoints returns the breakpoint indexes in ascending order.
func (eng *Engine) Breakpoints() []int {
	return slices.Sorted(maps.Keys(eng.breakpoints))
}

func (eng *Engine) checkBreakpoint(index int) error {
	if index < 0 || index >= eng.program.Len() {
		return fault.ErrIndexOutOfRange{Space: fault.SPACE_BREAKPOINT, Index: index}
	}
	return nil
}

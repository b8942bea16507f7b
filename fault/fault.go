// Package fault defines the error taxonomy shared by every Alpha-Notation
// runtime component.
//
// Conditions without context are sentinel values; conditions that carry the
// offending slot, index, or size are typed errors whose Is method matches any
// value of the same type, so callers can write
//
//	errors.Is(err, fault.ErrUninitialized{})
//
// regardless of the identifier involved.
package fault

import (
	"errors"

	"github.com/ezrec/alpha/translate"
)

var f = translate.From

// Space names the storage or index space an error refers to.
type Space int

//go:generate go tool stringer -linecomment -type=Space
const (
	SPACE_ACCUMULATOR = Space(0) // accumulator
	SPACE_CELL        = Space(1) // cell
	SPACE_INSTRUCTION = Space(2) // instruction
	SPACE_BREAKPOINT  = Space(3) // breakpoint
	SPACE_LABEL       = Space(4) // label
)

var (
	// Step-time errors
	ErrStackOverflow       = errors.New(f("call stack overflow"))
	ErrStackUnderflow      = errors.New(f("data stack underflow"))
	ErrEmptyCallStack      = errors.New(f("return with empty call stack"))
	ErrDivisionByZero      = errors.New(f("division by zero"))
	ErrInstructionLimit    = errors.New(f("instruction limit exceeded"))
	ErrUnsupportedPlatform = errors.New(f("syscalls unsupported on this platform"))

	// Caller misuse
	ErrEngineHalted = errors.New(f("engine halted, reset required"))
	ErrNotPaused    = errors.New(f("engine not paused"))

	// Internal invariant violation.
	ErrInternal = errors.New(f("internal invariant violated"))
)

// ErrUninitialized is a read of a slot that was never written.
type ErrUninitialized struct {
	Space Space
	Id    string
}

func (err ErrUninitialized) Error() string {
	return f("uninitialized %v %v", err.Space, err.Id)
}

func (err ErrUninitialized) Is(target error) (ok bool) {
	_, ok = target.(ErrUninitialized)
	return
}

// ErrIndexOutOfRange is an index outside of its space's bounds.
type ErrIndexOutOfRange struct {
	Space Space
	Index int
}

func (err ErrIndexOutOfRange) Error() string {
	return f("%v index %d out of range", err.Space, err.Index)
}

func (err ErrIndexOutOfRange) Is(target error) (ok bool) {
	_, ok = target.(ErrIndexOutOfRange)
	return
}

// ErrInvalidJumpTarget is a jump or call at Index whose target does not
// resolve to an instruction.
type ErrInvalidJumpTarget struct {
	Index  int
	Target int
	Label  string
}

func (err ErrInvalidJumpTarget) Error() string {
	if len(err.Label) != 0 {
		return f("instruction %d: jump target %v (%d) invalid", err.Index, err.Label, err.Target)
	}
	return f("instruction %d: jump target %d invalid", err.Index, err.Target)
}

func (err ErrInvalidJumpTarget) Is(target error) (ok bool) {
	_, ok = target.(ErrInvalidJumpTarget)
	return
}

// ErrDisallowedInstruction is an instruction whose mnemonic is not in the
// instruction allow-list.
type ErrDisallowedInstruction struct {
	Index    int
	Mnemonic string
}

func (err ErrDisallowedInstruction) Error() string {
	return f("instruction %d: '%v' not allowed", err.Index, err.Mnemonic)
}

func (err ErrDisallowedInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrDisallowedInstruction)
	return
}

// ErrOperand is a structurally malformed instruction found at load time.
type ErrOperand struct {
	Index int
	Err   error
}

func (err ErrOperand) Error() string {
	return f("instruction %d: %v", err.Index, err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}

// ErrInvalidSyscall is a syscall identifier outside of the allow-list.
type ErrInvalidSyscall uint32

func (err ErrInvalidSyscall) Error() string {
	return f("syscall %d not permitted", uint32(err))
}

func (err ErrInvalidSyscall) Is(target error) (ok bool) {
	_, ok = target.(ErrInvalidSyscall)
	return
}

// ErrSyscallFailure is a failure reported by the host for a syscall.
type ErrSyscallFailure int

func (err ErrSyscallFailure) Error() string {
	return f("syscall failed with code %d", int(err))
}

func (err ErrSyscallFailure) Is(target error) (ok bool) {
	_, ok = target.(ErrSyscallFailure)
	return
}

// ErrBufferSizeMismatch is a syscall buffer of the wrong byte length.
type ErrBufferSizeMismatch struct {
	Expected int
	Actual   int
}

func (err ErrBufferSizeMismatch) Error() string {
	return f("syscall buffer size %d, expected %d", err.Actual, err.Expected)
}

func (err ErrBufferSizeMismatch) Is(target error) (ok bool) {
	_, ok = target.(ErrBufferSizeMismatch)
	return
}

// ErrConfig is a malformed configuration document or value.
type ErrConfig struct {
	Field string
	Err   error
}

func (err ErrConfig) Error() string {
	return f("config %v: %v", err.Field, err.Err)
}

func (err ErrConfig) Unwrap() error {
	return err.Err
}

func (err ErrConfig) Is(target error) (ok bool) {
	_, ok = target.(ErrConfig)
	return
}

// IsLoadTime returns true if err rejects a program or configuration before
// any instruction executes.
func IsLoadTime(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidJumpTarget{}),
		errors.Is(err, ErrDisallowedInstruction{}),
		errors.Is(err, ErrConfig{}):
		return true
	}
	var eo ErrOperand
	return errors.As(err, &eo)
}

// IsMisuse returns true if err reports an invalid request by the caller
// rather than a failure of the running program.
func IsMisuse(err error) bool {
	if errors.Is(err, ErrEngineHalted) || errors.Is(err, ErrNotPaused) {
		return true
	}
	var eir ErrIndexOutOfRange
	return errors.As(err, &eir) && eir.Space == SPACE_BREAKPOINT
}

// IsStepTime returns true if err is a failure raised while executing an
// instruction, and moves the engine to Failed.
func IsStepTime(err error) bool {
	if err == nil || IsLoadTime(err) || IsMisuse(err) {
		return false
	}
	for _, target := range []error{
		ErrStackOverflow,
		ErrStackUnderflow,
		ErrEmptyCallStack,
		ErrDivisionByZero,
		ErrInstructionLimit,
		ErrUnsupportedPlatform,
		ErrInternal,
		ErrUninitialized{},
		ErrIndexOutOfRange{},
		ErrInvalidSyscall(0),
		ErrSyscallFailure(0),
		ErrBufferSizeMismatch{},
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

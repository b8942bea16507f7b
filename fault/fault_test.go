package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesType(t *testing.T) {
	table := [...]struct {
		err    error
		target error
	}{
		{ErrUninitialized{Space: SPACE_CELL, Id: "x"}, ErrUninitialized{}},
		{ErrIndexOutOfRange{Space: SPACE_ACCUMULATOR, Index: 9}, ErrIndexOutOfRange{}},
		{ErrInvalidJumpTarget{Index: 2, Target: 7}, ErrInvalidJumpTarget{}},
		{ErrDisallowedInstruction{Index: 1, Mnemonic: "push"}, ErrDisallowedInstruction{}},
		{ErrInvalidSyscall(12), ErrInvalidSyscall(0)},
		{ErrSyscallFailure(-2), ErrSyscallFailure(0)},
		{ErrBufferSizeMismatch{Expected: 8, Actual: 4}, ErrBufferSizeMismatch{}},
		{ErrConfig{Field: "cells"}, ErrConfig{}},
	}

	for _, entry := range table {
		assert := assert.New(t)

		wrapped := fmt.Errorf("wrapped: %w", entry.err)
		assert.ErrorIs(wrapped, entry.target, entry.err.Error())
		assert.NotErrorIs(wrapped, ErrInternal, entry.err.Error())
	}
}

func TestErrorText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("uninitialized cell total", ErrUninitialized{Space: SPACE_CELL, Id: "total"}.Error())
	assert.Equal("breakpoint index 9 out of range", ErrIndexOutOfRange{Space: SPACE_BREAKPOINT, Index: 9}.Error())
	assert.Equal("instruction 3: jump target loop (-1) invalid", ErrInvalidJumpTarget{Index: 3, Target: -1, Label: "loop"}.Error())
	assert.Equal("instruction 0: jump target 5 invalid", ErrInvalidJumpTarget{Target: 5}.Error())
	assert.Equal("instruction 1: 'syscall' not allowed", ErrDisallowedInstruction{Index: 1, Mnemonic: "syscall"}.Error())
	assert.Equal("syscall buffer size 4, expected 8", ErrBufferSizeMismatch{Expected: 8, Actual: 4}.Error())
}

func TestUnwrap(t *testing.T) {
	assert := assert.New(t)

	inner := errors.New("inner")

	err := error(ErrOperand{Index: 4, Err: inner})
	assert.ErrorIs(err, inner)
	assert.Equal("instruction 4: inner", err.Error())

	err = ErrConfig{Field: "limits", Err: inner}
	assert.ErrorIs(err, inner)
	assert.Equal("config limits: inner", err.Error())
}

func TestGroups(t *testing.T) {
	table := [...]struct {
		err  error
		load bool
		use  bool
		step bool
	}{
		{nil, false, false, false},
		{errors.New("other"), false, false, false},
		{ErrInvalidJumpTarget{}, true, false, false},
		{ErrDisallowedInstruction{}, true, false, false},
		{ErrOperand{Err: errors.New("bad")}, true, false, false},
		{ErrConfig{}, true, false, false},
		{ErrEngineHalted, false, true, false},
		{ErrNotPaused, false, true, false},
		{ErrIndexOutOfRange{Space: SPACE_BREAKPOINT}, false, true, false},
		{ErrIndexOutOfRange{Space: SPACE_ACCUMULATOR}, false, false, true},
		{ErrStackOverflow, false, false, true},
		{ErrStackUnderflow, false, false, true},
		{ErrEmptyCallStack, false, false, true},
		{ErrDivisionByZero, false, false, true},
		{ErrInstructionLimit, false, false, true},
		{ErrUnsupportedPlatform, false, false, true},
		{ErrInternal, false, false, true},
		{ErrUninitialized{}, false, false, true},
		{ErrInvalidSyscall(1), false, false, true},
		{ErrSyscallFailure(1), false, false, true},
		{ErrBufferSizeMismatch{}, false, false, true},
		{fmt.Errorf("line 3: %w", ErrDivisionByZero), false, false, true},
	}

	for n, entry := range table {
		assert := assert.New(t)

		assert.Equal(entry.load, IsLoadTime(entry.err), n)
		assert.Equal(entry.use, IsMisuse(entry.err), n)
		assert.Equal(entry.step, IsStepTime(entry.err), n)
	}
}

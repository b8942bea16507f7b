package program

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/alpha/fault"
)

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	code := []Instruction{
		Move(Acc(0), Imm(3)),
		If(Acc(0), CMP_EQ, Imm(0), "end"),
		Calc(Acc(0), Acc(0), ARITH_SUB, Imm(1)),
		Goto("top"),
		Halt(),
	}
	labels := map[string]int{"top": 1, "end": 4, "also": 1, "tail": 5}

	prog, err := Load(code, labels, nil)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(5, prog.Len())

	ins, err := prog.InstructionAt(1)
	assert.NoError(err)
	assert.Equal(4, ins.Target)

	ins, err = prog.InstructionAt(3)
	assert.NoError(err)
	assert.Equal(1, ins.Target)

	for _, index := range []int{-1, 5} {
		_, err = prog.InstructionAt(index)
		assert.ErrorIs(err, fault.ErrIndexOutOfRange{})
		var eir fault.ErrIndexOutOfRange
		assert.True(errors.As(err, &eir))
		assert.Equal(fault.SPACE_INSTRUCTION, eir.Space)
	}

	index, ok := prog.ResolveLabel("end")
	assert.True(ok)
	assert.Equal(4, index)
	_, ok = prog.ResolveLabel("nowhere")
	assert.False(ok)

	var names []string
	for name := range prog.Labels() {
		names = append(names, name)
	}
	assert.Equal([]string{"also", "top", "end", "tail"}, names)

	// The program keeps its own copy of the label table.
	labels["top"] = 0
	index, _ = prog.ResolveLabel("top")
	assert.Equal(1, index)
}

func TestLoadImmutable(t *testing.T) {
	assert := assert.New(t)

	code := []Instruction{
		Syscall(1, Acc(0), Cell("h")),
	}

	prog, err := Load(code, nil, nil)
	assert.NoError(err)

	code[0].Args[0] = Acc(3)
	code[0].Op = OP_HALT

	ins, err := prog.InstructionAt(0)
	assert.NoError(err)
	assert.Equal(OP_SYSCALL, ins.Op)
	assert.Equal(Acc(0), ins.Args[0])

	ins.Args[1] = Imm(4)
	again, _ := prog.InstructionAt(0)
	assert.Equal(Cell("h"), again.Args[1])

	for n, ins := range prog.Instructions() {
		assert.Equal(0, n)
		assert.Equal(OP_SYSCALL, ins.Op)
	}
}

func TestLoadErrors(t *testing.T) {
	table := [...]struct {
		name   string
		code   []Instruction
		labels map[string]int
		err    error
	}{
		{"missing label", []Instruction{Goto("x")}, nil, fault.ErrInvalidJumpTarget{}},
		{"label at end", []Instruction{Goto("x")}, map[string]int{"x": 1}, fault.ErrInvalidJumpTarget{}},
		{"label range", []Instruction{Halt()}, map[string]int{"x": 2}, fault.ErrInvalidJumpTarget{}},
		{"negative label", []Instruction{Halt()}, map[string]int{"x": -1}, fault.ErrInvalidJumpTarget{}},
		{"raw target", []Instruction{{Op: OP_CALL, Target: 7}}, nil, fault.ErrInvalidJumpTarget{}},
		{"bad op", []Instruction{{Op: Op(99)}}, nil, ErrOpInvalid},
		{"bad arith", []Instruction{Calc(Acc(0), Imm(1), ArithOp(9), Imm(2))}, nil, ErrArithInvalid},
		{"bad stack", []Instruction{Stack(ArithOp(-1))}, nil, ErrArithInvalid},
		{"bad cmp", []Instruction{Compare(Acc(0), Imm(1), CmpOp(9), Imm(2))}, nil, ErrCmpInvalid},
		{"bad if", []Instruction{{Op: OP_IF, Cmp: CmpOp(7), A: Imm(0), B: Imm(0)}}, nil, ErrCmpInvalid},
		{"no dst", []Instruction{{Op: OP_LOAD, A: Imm(1)}}, nil, ErrOperandMissing},
		{"no src", []Instruction{Push(Operand{})}, nil, ErrOperandMissing},
		{"imm dst", []Instruction{Move(Imm(1), Imm(1))}, nil, ErrOperandNotWritable},
		{"imm pop", []Instruction{Pop(Imm(1))}, nil, ErrOperandNotWritable},
		{"neg acc", []Instruction{Move(Acc(-1), Imm(1))}, nil, ErrAccumulatorIndex},
		{"no name", []Instruction{Push(Cell(""))}, nil, ErrCellName},
		{"no slots", []Instruction{Syscall(1)}, nil, ErrSyscallSlots},
		{"imm slot", []Instruction{Syscall(1, Imm(1))}, nil, ErrOperandNotWritable},
	}

	for _, entry := range table {
		assert := assert.New(t)

		prog, err := Load(entry.code, entry.labels, nil)
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)
		assert.True(fault.IsLoadTime(err), entry.name)
	}
}

func TestLoadAllowlist(t *testing.T) {
	assert := assert.New(t)

	allow, err := NewAllowlist("load", "halt")
	assert.NoError(err)

	_, err = Load([]Instruction{Move(Acc(0), Imm(1)), Halt()}, nil, allow)
	assert.NoError(err)

	_, err = Load([]Instruction{Move(Acc(0), Imm(1)), Push(Acc(0))}, nil, allow)
	assert.ErrorIs(err, fault.ErrDisallowedInstruction{})

	var edi fault.ErrDisallowedInstruction
	assert.True(errors.As(err, &edi))
	assert.Equal(1, edi.Index)
	assert.Equal("push", edi.Mnemonic)
}

func TestAllowlist(t *testing.T) {
	assert := assert.New(t)

	_, err := NewAllowlist("load", "jump")
	assert.ErrorIs(err, ErrMnemonicUnknown("jump"))

	allow, err := NewAllowlist("push", "pop")
	assert.NoError(err)
	assert.True(allow.Allows("pop"))
	assert.False(allow.Allows("load"))
	assert.Equal([]string{"pop", "push"}, slices.Collect(allow.All()))

	var none *Allowlist
	assert.True(none.Allows("syscall"))

	all := slices.Collect(DefaultAllowlist().All())
	assert.Len(all, opCount)
	assert.Equal(all, slices.Collect(none.All()))
	assert.Equal(slices.Sorted(maps.Keys(mnemonics)), all)
}

func TestInstructionString(t *testing.T) {
	table := [...]struct {
		ins  Instruction
		text string
	}{
		{Move(Acc(0), Imm(-3)), "a0 := -3"},
		{Move(Cell("h"), Acc(2)), "p(h) := a2"},
		{Calc(Acc(1), Acc(1), ARITH_MOD, Imm(2)), "a1 := a1 % 2"},
		{Compare(Acc(1), Cell("x"), CMP_GE, Imm(2)), "a1 := p(x) >= 2"},
		{Goto("top"), "goto top"},
		{Instruction{Op: OP_GOTO, Target: 4}, "goto 4"},
		{If(Acc(0), CMP_NE, Imm(0), "top"), "if a0 != 0 then goto top"},
		{Call("sub"), "call sub"},
		{Return(), "return"},
		{Push(Imm(5)), "push 5"},
		{Pop(Cell("h")), "pop p(h)"},
		{Stack(ARITH_MUL), "stack *"},
		{Syscall(3, Acc(0), Acc(1)), "syscall 3 a0 a1"},
		{Halt(), "halt"},
	}

	for _, entry := range table {
		assert := assert.New(t)
		assert.Equal(entry.text, entry.ins.String())
		assert.Equal(entry.ins.Op.String(), entry.ins.Mnemonic())
	}
}

func TestCmpOpHolds(t *testing.T) {
	assert := assert.New(t)

	assert.True(CMP_EQ.Holds(2, 2))
	assert.True(CMP_NE.Holds(2, 3))
	assert.True(CMP_LT.Holds(-1, 0))
	assert.True(CMP_LE.Holds(0, 0))
	assert.True(CMP_GT.Holds(1, 0))
	assert.True(CMP_GE.Holds(1, 1))
	assert.False(CMP_GT.Holds(0, 0))
	assert.False(CmpOp(42).Holds(0, 0))
}

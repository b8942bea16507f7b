// Package program holds the immutable representation of a loaded
// Alpha-Notation program: its instructions and label table.
//
// A Program is only produced by Load, which rejects disallowed mnemonics,
// malformed operands, and jump or call targets that do not resolve to an
// instruction, before anything executes.
package program

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/alpha/fault"
)

// Program is a loaded, validated instruction sequence.
type Program struct {
	instructions []Instruction
	labels       map[string]int
}

// Load validates instructions and labels into a Program.
// A nil allow-list permits every mnemonic.
func Load(instructions []Instruction, labels map[string]int, allow *Allowlist) (prog *Program, err error) {
	count := len(instructions)

	for name, index := range labels {
		if index < 0 || index > count {
			err = fault.ErrInvalidJumpTarget{Index: -1, Target: index, Label: name}
			return
		}
	}

	code := make([]Instruction, count)
	for n, ins := range instructions {
		if !allow.Allows(ins.Mnemonic()) {
			err = fault.ErrDisallowedInstruction{Index: n, Mnemonic: ins.Mnemonic()}
			return
		}

		err = checkOperands(ins)
		if err != nil {
			err = fault.ErrOperand{Index: n, Err: err}
			return
		}

		if ins.Op.Jumps() {
			if len(ins.Label) != 0 {
				target, ok := labels[ins.Label]
				if !ok {
					err = fault.ErrInvalidJumpTarget{Index: n, Target: -1, Label: ins.Label}
					return
				}
				ins.Target = target
			}
			if ins.Target < 0 || ins.Target >= count {
				err = fault.ErrInvalidJumpTarget{Index: n, Target: ins.Target, Label: ins.Label}
				return
			}
		}

		ins.Args = slices.Clone(ins.Args)
		code[n] = ins
	}

	prog = &Program{
		instructions: code,
		labels:       maps.Clone(labels),
	}

	return
}

// checkOperands verifies the operands an instruction kind requires.
func checkOperands(ins Instruction) (err error) {
	var reads, writes []Operand

	switch ins.Op {
	case OP_LOAD:
		reads, writes = []Operand{ins.A}, []Operand{ins.Dst}
	case OP_CALC:
		if ins.Arith < ARITH_ADD || ins.Arith > ARITH_MOD {
			return ErrArithInvalid
		}
		reads, writes = []Operand{ins.A, ins.B}, []Operand{ins.Dst}
	case OP_CMP:
		if ins.Cmp < CMP_EQ || ins.Cmp > CMP_GE {
			return ErrCmpInvalid
		}
		reads, writes = []Operand{ins.A, ins.B}, []Operand{ins.Dst}
	case OP_IF:
		if ins.Cmp < CMP_EQ || ins.Cmp > CMP_GE {
			return ErrCmpInvalid
		}
		reads = []Operand{ins.A, ins.B}
	case OP_PUSH:
		reads = []Operand{ins.A}
	case OP_POP:
		writes = []Operand{ins.Dst}
	case OP_STACK:
		if ins.Arith < ARITH_ADD || ins.Arith > ARITH_MOD {
			return ErrArithInvalid
		}
	case OP_SYSCALL:
		if len(ins.Args) == 0 {
			return ErrSyscallSlots
		}
		writes = ins.Args
	case OP_GOTO, OP_CALL, OP_RETURN, OP_HALT:
		// no operands
	default:
		return ErrOpInvalid
	}

	for _, op := range reads {
		if op.Kind == OPERAND_NONE {
			return ErrOperandMissing
		}
		err = checkOperand(op)
		if err != nil {
			return
		}
	}

	for _, op := range writes {
		if op.Kind == OPERAND_NONE {
			return ErrOperandMissing
		}
		if !op.Writable() {
			return ErrOperandNotWritable
		}
		err = checkOperand(op)
		if err != nil {
			return
		}
	}

	return
}

// checkOperand verifies an operand's addressing.
func checkOperand(op Operand) error {
	switch op.Kind {
	case OPERAND_ACCUMULATOR:
		if op.Index < 0 {
			return ErrAccumulatorIndex
		}
	case OPERAND_CELL:
		if len(op.Name) == 0 {
			return ErrCellName
		}
	case OPERAND_IMMEDIATE:
	default:
		return ErrOperandMissing
	}
	return nil
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	return len(prog.instructions)
}

// InstructionAt returns a copy of the instruction at index.
func (prog *Program) InstructionAt(index int) (ins Instruction, err error) {
	if index < 0 || index >= len(prog.instructions) {
		err = fault.ErrIndexOutOfRange{Space: fault.SPACE_INSTRUCTION, Index: index}
		return
	}

	ins = prog.instructions[index]
	ins.Args = slices.Clone(ins.Args)
	return
}

// ResolveLabel returns the instruction index for a label.
func (prog *Program) ResolveLabel(name string) (index int, ok bool) {
	index, ok = prog.labels[name]
	return
}

// Labels iterates the label table ordered by instruction index, then name.
func (prog *Program) Labels() iter.Seq2[string, int] {
	names := slices.SortedFunc(maps.Keys(prog.labels), func(a, b string) int {
		return cmp.Or(cmp.Compare(prog.labels[a], prog.labels[b]), strings.Compare(a, b))
	})

	return func(yield func(name string, index int) bool) {
		for _, name := range names {
			if !yield(name, prog.labels[name]) {
				return
			}
		}
	}
}

// LineNo returns the source line of the instruction at index, or 0.
func (prog *Program) LineNo(index int) int {
	if index < 0 || index >= len(prog.instructions) {
		return 0
	}
	return prog.instructions[index].LineNo
}

// Instructions iterates over all instructions with their indexes.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(index int, ins Instruction) bool) {
		for n := range prog.instructions {
			ins, _ := prog.InstructionAt(n)
			if !yield(n, ins) {
				return
			}
		}
	}
}

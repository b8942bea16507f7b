package program

import (
	"fmt"
	"strings"
)

// Op is the instruction kind.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LOAD    = Op(0)  // load
	OP_CALC    = Op(1)  // calc
	OP_CMP     = Op(2)  // cmp
	OP_GOTO    = Op(3)  // goto
	OP_IF      = Op(4)  // if
	OP_CALL    = Op(5)  // call
	OP_RETURN  = Op(6)  // return
	OP_PUSH    = Op(7)  // push
	OP_POP     = Op(8)  // pop
	OP_STACK   = Op(9)  // stack
	OP_SYSCALL = Op(10) // syscall
	OP_HALT    = Op(11) // halt
)

// opCount is the number of defined instruction kinds.
const opCount = 12

// Jumps returns true if the instruction sets the instruction pointer
// to its Target.
func (op Op) Jumps() bool {
	return op == OP_GOTO || op == OP_IF || op == OP_CALL
}

// ArithOp is an arithmetic operation type.
type ArithOp int

//go:generate go tool stringer -linecomment -type=ArithOp
const (
	ARITH_ADD = ArithOp(0) // +
	ARITH_SUB = ArithOp(1) // -
	ARITH_MUL = ArithOp(2) // *
	ARITH_DIV = ArithOp(3) // /
	ARITH_MOD = ArithOp(4) // %
)

// CmpOp is a comparison operation type.
type CmpOp int

//go:generate go tool stringer -linecomment -type=CmpOp
const (
	CMP_EQ = CmpOp(0) // ==
	CMP_NE = CmpOp(1) // !=
	CMP_LT = CmpOp(2) // <
	CMP_LE = CmpOp(3) // <=
	CMP_GT = CmpOp(4) // >
	CMP_GE = CmpOp(5) // >=
)

// Holds evaluates the comparison.
func (cmp CmpOp) Holds(a, b int64) bool {
	switch cmp {
	case CMP_EQ:
		return a == b
	case CMP_NE:
		return a != b
	case CMP_LT:
		return a < b
	case CMP_LE:
		return a <= b
	case CMP_GT:
		return a > b
	case CMP_GE:
		return a >= b
	}
	return false
}

// OperandKind is the type of an instruction operand.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_NONE        = OperandKind(0) // none
	OPERAND_ACCUMULATOR = OperandKind(1) // accumulator
	OPERAND_CELL        = OperandKind(2) // cell
	OPERAND_IMMEDIATE   = OperandKind(3) // immediate
)

// Operand is a value source or destination.
type Operand struct {
	Kind  OperandKind
	Index int    // Accumulator index.
	Name  string // Memory cell name.
	Value int64  // Immediate value.
}

// Acc makes an accumulator operand.
func Acc(index int) Operand {
	return Operand{Kind: OPERAND_ACCUMULATOR, Index: index}
}

// Cell makes a memory cell operand.
func Cell(name string) Operand {
	return Operand{Kind: OPERAND_CELL, Name: name}
}

// Imm makes an immediate operand.
func Imm(value int64) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Value: value}
}

// Writable returns true if the operand can be a destination.
func (o Operand) Writable() bool {
	return o.Kind == OPERAND_ACCUMULATOR || o.Kind == OPERAND_CELL
}

// String returns the assembly language representation of the operand.
func (o Operand) String() string {
	switch o.Kind {
	case OPERAND_ACCUMULATOR:
		return fmt.Sprintf("a%d", o.Index)
	case OPERAND_CELL:
		return fmt.Sprintf("p(%v)", o.Name)
	case OPERAND_IMMEDIATE:
		return fmt.Sprintf("%d", o.Value)
	}
	return "-"
}

// Instruction is a single Alpha-Notation instruction.
// Op selects which of the remaining fields are meaningful.
type Instruction struct {
	Op    Op
	Arith ArithOp // OP_CALC, OP_STACK
	Cmp   CmpOp   // OP_CMP, OP_IF

	Dst Operand // OP_LOAD, OP_CALC, OP_CMP, OP_POP
	A   Operand // OP_LOAD, OP_CALC, OP_CMP, OP_IF, OP_PUSH
	B   Operand // OP_CALC, OP_CMP, OP_IF

	Target int    // OP_GOTO, OP_IF, OP_CALL; resolved at load
	Label  string // Symbolic target, if any.

	Syscall uint32    // OP_SYSCALL
	Args    []Operand // OP_SYSCALL slots, in order.

	LineNo int // Source line, 0 if unknown.
}

// Move makes a load instruction, assigning src to dst.
func Move(dst, src Operand) Instruction {
	return Instruction{Op: OP_LOAD, Dst: dst, A: src}
}

// Calc makes an arithmetic instruction.
func Calc(dst Operand, a Operand, op ArithOp, b Operand) Instruction {
	return Instruction{Op: OP_CALC, Arith: op, Dst: dst, A: a, B: b}
}

// Compare makes a comparison instruction storing 1 or 0 into dst.
func Compare(dst Operand, a Operand, cmp CmpOp, b Operand) Instruction {
	return Instruction{Op: OP_CMP, Cmp: cmp, Dst: dst, A: a, B: b}
}

// Goto makes an unconditional jump to a label.
func Goto(label string) Instruction {
	return Instruction{Op: OP_GOTO, Label: label}
}

// If makes a conditional jump to a label.
func If(a Operand, cmp CmpOp, b Operand, label string) Instruction {
	return Instruction{Op: OP_IF, Cmp: cmp, A: a, B: b, Label: label}
}

// Call makes a subroutine call to a label.
func Call(label string) Instruction {
	return Instruction{Op: OP_CALL, Label: label}
}

// Return makes a subroutine return.
func Return() Instruction {
	return Instruction{Op: OP_RETURN}
}

// Push makes a data stack push.
func Push(src Operand) Instruction {
	return Instruction{Op: OP_PUSH, A: src}
}

// Pop makes a data stack pop.
func Pop(dst Operand) Instruction {
	return Instruction{Op: OP_POP, Dst: dst}
}

// Stack makes a data stack arithmetic instruction.
func Stack(op ArithOp) Instruction {
	return Instruction{Op: OP_STACK, Arith: op}
}

// Syscall makes a host system call over the ordered slots.
func Syscall(id uint32, slots ...Operand) Instruction {
	return Instruction{Op: OP_SYSCALL, Syscall: id, Args: slots}
}

// Halt makes a program stop instruction.
func Halt() Instruction {
	return Instruction{Op: OP_HALT}
}

// Mnemonic returns the instruction's allow-list name.
func (ins Instruction) Mnemonic() string {
	return ins.Op.String()
}

// target renders the jump target.
func (ins Instruction) target() string {
	if len(ins.Label) != 0 {
		return ins.Label
	}
	return fmt.Sprintf("%d", ins.Target)
}

// String returns the assembly language representation of the instruction.
func (ins Instruction) String() string {
	switch ins.Op {
	case OP_LOAD:
		return fmt.Sprintf("%v := %v", ins.Dst, ins.A)
	case OP_CALC:
		return fmt.Sprintf("%v := %v %v %v", ins.Dst, ins.A, ins.Arith, ins.B)
	case OP_CMP:
		return fmt.Sprintf("%v := %v %v %v", ins.Dst, ins.A, ins.Cmp, ins.B)
	case OP_GOTO:
		return fmt.Sprintf("goto %v", ins.target())
	case OP_IF:
		return fmt.Sprintf("if %v %v %v then goto %v", ins.A, ins.Cmp, ins.B, ins.target())
	case OP_CALL:
		return fmt.Sprintf("call %v", ins.target())
	case OP_PUSH:
		return fmt.Sprintf("push %v", ins.A)
	case OP_POP:
		return fmt.Sprintf("pop %v", ins.Dst)
	case OP_STACK:
		return fmt.Sprintf("stack %v", ins.Arith)
	case OP_SYSCALL:
		slots := make([]string, len(ins.Args))
		for n, arg := range ins.Args {
			slots[n] = arg.String()
		}
		return strings.TrimSpace(fmt.Sprintf("syscall %d %v", ins.Syscall, strings.Join(slots, " ")))
	}
	return ins.Op.String()
}

package engine

import (
	"log"

	"github.com/ezrec/alpha/bridge"
	"github.com/ezrec/alpha/fault"
	"github.com/ezrec/alpha/program"
)

// execute performs one instruction, returning the next instruction pointer.
// On error nothing has been written.
func (eng *Engine) execute(ins program.Instruction) (next int, err error) {
	if eng.Verbose {
		log.Printf("%03d: %v", eng.ip, ins)
	}

	next = eng.ip + 1

	switch ins.Op {
	case program.OP_LOAD:
		var value int64
		value, err = eng.read(ins.A)
		if err != nil {
			return
		}
		err = eng.write(ins.Dst, value)
	case program.OP_CALC:
		var a, b, value int64
		a, b, err = eng.read2(ins.A, ins.B)
		if err != nil {
			return
		}
		value, err = arith(ins.Arith, a, b)
		if err != nil {
			return
		}
		err = eng.write(ins.Dst, value)
	case program.OP_CMP:
		var a, b, value int64
		a, b, err = eng.read2(ins.A, ins.B)
		if err != nil {
			return
		}
		if ins.Cmp.Holds(a, b) {
			value = 1
		}
		err = eng.write(ins.Dst, value)
	case program.OP_GOTO:
		next = ins.Target
	case program.OP_IF:
		var a, b int64
		a, b, err = eng.read2(ins.A, ins.B)
		if err != nil {
			return
		}
		if ins.Cmp.Holds(a, b) {
			next = ins.Target
		}
	case program.OP_CALL:
		err = eng.mem.Call.Push(eng.ip + 1)
		if err != nil {
			return
		}
		next = ins.Target
	case program.OP_RETURN:
		next, err = eng.mem.Call.Pop()
	case program.OP_PUSH:
		var value int64
		value, err = eng.read(ins.A)
		if err != nil {
			return
		}
		err = eng.mem.Data.Push(value)
	case program.OP_POP:
		err = eng.writable(ins.Dst)
		if err != nil {
			return
		}
		var value int64
		value, err = eng.mem.Data.Pop()
		if err != nil {
			return
		}
		err = eng.write(ins.Dst, value)
	case program.OP_STACK:
		err = eng.stackArith(ins.Arith)
	case program.OP_SYSCALL:
		err = eng.syscall(bridge.ID(ins.Syscall), ins.Args)
	case program.OP_HALT:
		next = eng.program.Len()
	default:
		err = fault.ErrInternal
	}

	if err != nil {
		next = eng.ip
	}

	return
}

// arith applies an arithmetic operation with two's complement wrapping.
func arith(op program.ArithOp, a, b int64) (value int64, err error) {
	switch op {
	case program.ARITH_ADD:
		value = a + b
	case program.ARITH_SUB:
		value = a - b
	case program.ARITH_MUL:
		value = a * b
	case program.ARITH_DIV:
		if b == 0 {
			err = fault.ErrDivisionByZero
			return
		}
		value = a / b
	case program.ARITH_MOD:
		if b == 0 {
			err = fault.ErrDivisionByZero
			return
		}
		value = a % b
	default:
		err = fault.ErrInternal
	}
	return
}

// stackArith replaces the top two data stack values with their result.
// The top of stack is the right hand operand.
func (eng *Engine) stackArith(op program.ArithOp) (err error) {
	data := eng.mem.Data
	if data.Len() < 2 {
		err = fault.ErrStackUnderflow
		return
	}

	a, b := data.Data[data.Len()-2], data.Data[data.Len()-1]
	value, err := arith(op, a, b)
	if err != nil {
		return
	}

	data.Data = append(data.Data[:data.Len()-2], value)
	return
}

// syscall reads the slots, invokes the bridge, and writes every result
// back to the same slots, or none of them.
func (eng *Engine) syscall(id bridge.ID, slots []program.Operand) (err error) {
	if eng.Bridge == nil {
		err = fault.ErrUnsupportedPlatform
		return
	}

	values := make([]int64, len(slots))
	for n, slot := range slots {
		err = eng.writable(slot)
		if err != nil {
			return
		}
		values[n], err = eng.read(slot)
		if err != nil {
			return
		}
	}

	out, err := eng.Bridge.Invoke(id, values)
	if err != nil {
		return
	}

	if len(out) != len(values) {
		err = fault.ErrBufferSizeMismatch{
			Expected: len(values) * eng.Bridge.CellWidth,
			Actual:   len(out) * eng.Bridge.CellWidth,
		}
		return
	}

	for n, slot := range slots {
		err = eng.write(slot, out[n])
		if err != nil {
			return
		}
	}

	return
}

// read fetches an operand's value.
func (eng *Engine) read(op program.Operand) (value int64, err error) {
	switch op.Kind {
	case program.OPERAND_IMMEDIATE:
		value = op.Value
	case program.OPERAND_ACCUMULATOR:
		value, err = eng.mem.Accumulators.Get(op.Index)
	case program.OPERAND_CELL:
		value, err = eng.mem.Cells.Get(op.Name)
	default:
		err = fault.ErrInternal
	}
	return
}

// read2 fetches both operands of a binary instruction.
func (eng *Engine) read2(opA, opB program.Operand) (a, b int64, err error) {
	a, err = eng.read(opA)
	if err != nil {
		return
	}
	b, err = eng.read(opB)
	return
}

// writable checks that a write to op would succeed.
func (eng *Engine) writable(op program.Operand) error {
	switch op.Kind {
	case program.OPERAND_ACCUMULATOR:
		if op.Index < 0 || op.Index >= eng.mem.Accumulators.Len() {
			return fault.ErrIndexOutOfRange{Space: fault.SPACE_ACCUMULATOR, Index: op.Index}
		}
	case program.OPERAND_CELL:
	default:
		return fault.ErrInternal
	}
	return nil
}

// write stores a value into a destination operand.
func (eng *Engine) write(op program.Operand, value int64) (err error) {
	err = eng.writable(op)
	if err != nil {
		return
	}

	switch op.Kind {
	case program.OPERAND_ACCUMULATOR:
		err = eng.mem.Accumulators.Set(op.Index, value)
	case program.OPERAND_CELL:
		eng.mem.Cells.Set(op.Name, value)
	}
	return
}

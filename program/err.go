package program

import (
	"errors"

	"github.com/ezrec/alpha/translate"
)

var f = translate.From

var (
	// Load-time operand errors
	ErrOpInvalid          = errors.New(f("instruction kind invalid"))
	ErrArithInvalid       = errors.New(f("arithmetic operation invalid"))
	ErrCmpInvalid         = errors.New(f("comparison invalid"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrOperandNotWritable = errors.New(f("operand not writable"))
	ErrAccumulatorIndex   = errors.New(f("accumulator index negative"))
	ErrCellName           = errors.New(f("cell name empty"))
	ErrSyscallSlots       = errors.New(f("syscall needs at least one slot"))
)

// ErrMnemonicUnknown is an allow-list entry naming no instruction.
type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("mnemonic '%v' unknown", string(err))
}

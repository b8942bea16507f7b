// Package bridge is the single mediated gateway from Alpha-Notation syscall
// instructions to host operations.
//
// A request is an ordered list of values. The bridge checks platform support
// and the syscall allow-list, flattens the values into a little-endian byte
// buffer of exactly count × cell width bytes, hands that buffer to the Host
// exactly once, and validates the length of the returned buffer before any
// value is handed back. A Host never sees an unchecked buffer.
package bridge

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/alpha/fault"
	"github.com/ezrec/alpha/translate"
)

var f = translate.From

var ErrCellWidth = errors.New(f("cell width must be 1, 2, 4 or 8"))

// ID is a syscall identifier.
type ID uint32

//go:generate go tool stringer -linecomment -type=ID
const (
	SYSCALL_NONE   = ID(0) // none
	SYSCALL_GETPID = ID(1) // getpid
	SYSCALL_TIME   = ID(2) // time
	SYSCALL_WRITE  = ID(3) // write
	SYSCALL_READ   = ID(4) // read
	SYSCALL_RANDOM = ID(5) // random
)

// allowed is the fixed set of syscalls forwarded to a host.
var allowed = map[ID]bool{
	SYSCALL_GETPID: true,
	SYSCALL_TIME:   true,
	SYSCALL_WRITE:  true,
	SYSCALL_READ:   true,
	SYSCALL_RANDOM: true,
}

// Allowed returns true if the syscall is in the allow-list.
func Allowed(id ID) bool {
	return allowed[id]
}

// Defines returns the syscall names and identifiers as assembler equates.
func Defines() map[string]string {
	defines := make(map[string]string, len(allowed))
	for id := range allowed {
		defines[fmt.Sprintf("SYS_%v", id.String())] = fmt.Sprintf("%d", uint32(id))
	}
	return defines
}

// Host performs one host operation on a validated buffer of cells, and
// returns the result buffer.
type Host interface {
	// Supported returns false if the host cannot service any syscall.
	Supported() bool
	// Call performs the syscall. buf holds len(buf)/width cells.
	Call(id ID, buf []byte, width int) (out []byte, err error)
}

// Bridge validates and forwards syscalls to a Host.
type Bridge struct {
	Verbose   bool // If set, logs every syscall.
	Host      Host
	CellWidth int // Bytes per cell.
}

// New creates a bridge to host with the given cell width.
func New(host Host, width int) (br *Bridge, err error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		err = ErrCellWidth
		return
	}

	br = &Bridge{
		Host:      host,
		CellWidth: width,
	}
	return
}

// check rejects a syscall before any work is done.
func (br *Bridge) check(id ID) error {
	if br.Host == nil || !br.Host.Supported() {
		return fault.ErrUnsupportedPlatform
	}

	if !Allowed(id) {
		return fault.ErrInvalidSyscall(id)
	}

	return nil
}

// Invoke performs a syscall over the ordered values, returning the values
// the host wrote back, in the same order and of the same count.
func (br *Bridge) Invoke(id ID, values []int64) (out []int64, err error) {
	err = br.check(id)
	if err != nil {
		return
	}

	buf, err := Flatten(values, br.CellWidth)
	if err != nil {
		return
	}

	result, err := br.InvokeBuffer(id, buf)
	if err != nil {
		return
	}

	out, err = Unflatten(result, br.CellWidth)
	return
}

// InvokeBuffer performs a syscall over a raw cell buffer. The buffer must
// hold a positive whole number of cells, and the host must return a buffer
// of identical length.
func (br *Bridge) InvokeBuffer(id ID, buf []byte) (out []byte, err error) {
	err = br.check(id)
	if err != nil {
		return
	}

	width := br.CellWidth
	if len(buf) == 0 || len(buf)%width != 0 {
		err = fault.ErrBufferSizeMismatch{Expected: roundUp(len(buf), width), Actual: len(buf)}
		return
	}

	if br.Verbose {
		log.Printf("bridge: %v %d cells", id, len(buf)/width)
	}

	result, err := br.call(id, buf)
	if err != nil {
		return
	}

	if len(result) != len(buf) {
		err = fault.ErrBufferSizeMismatch{Expected: len(buf), Actual: len(result)}
		return
	}

	out = result
	return
}

// call invokes the host once, converting host errors and panics into
// syscall failures.
func (br *Bridge) call(id ID, buf []byte) (out []byte, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if br.Verbose {
			log.Printf("bridge: %v panic: %v", id, r)
		}
		out = nil
		err = fault.ErrSyscallFailure(-1)
	}()

	in := make([]byte, len(buf))
	copy(in, buf)

	out, err = br.Host.Call(id, in, br.CellWidth)
	if err != nil {
		if br.Verbose {
			log.Printf("bridge: %v: %v", id, err)
		}
		var failure fault.ErrSyscallFailure
		if !errors.As(err, &failure) {
			err = errors.Join(fault.ErrSyscallFailure(-1), err)
		}
		out = nil
	}

	return
}

// roundUp returns the smallest positive multiple of width not below n.
func roundUp(n int, width int) int {
	if n <= 0 {
		return width
	}
	return (n + width - 1) / width * width
}

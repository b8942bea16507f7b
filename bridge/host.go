package bridge

import (
	"slices"

	"github.com/ezrec/alpha/fault"
)

// SystemHost services syscalls from the operating system.
// It is only supported where systemSupported is set.
type SystemHost struct{}

var _ Host = SystemHost{}

// Supported returns true on platforms with a system call implementation.
func (SystemHost) Supported() bool {
	return systemSupported
}

// Call decodes the cells, performs the host operation, and re-encodes them.
func (SystemHost) Call(id ID, buf []byte, width int) (out []byte, err error) {
	values, err := Unflatten(buf, width)
	if err != nil {
		return
	}

	err = systemCall(id, values)
	if err != nil {
		return
	}

	out, err = Flatten(values, width)
	return
}

// EchoHost returns every request buffer unchanged, and records it.
type EchoHost struct {
	Calls int    // Number of calls made.
	Last  []byte // Last request buffer.
}

var _ Host = (*EchoHost)(nil)

func (eh *EchoHost) Supported() bool {
	return true
}

func (eh *EchoHost) Call(id ID, buf []byte, width int) (out []byte, err error) {
	eh.Calls++
	eh.Last = slices.Clone(buf)
	out = slices.Clone(buf)
	return
}

// NopHost is a host without syscall support.
type NopHost struct{}

var _ Host = NopHost{}

func (NopHost) Supported() bool {
	return false
}

func (NopHost) Call(id ID, buf []byte, width int) (out []byte, err error) {
	err = fault.ErrUnsupportedPlatform
	return
}

// FuncHost adapts a function to a supported Host.
type FuncHost func(id ID, buf []byte, width int) (out []byte, err error)

var _ Host = FuncHost(nil)

func (fh FuncHost) Supported() bool {
	return true
}

func (fh FuncHost) Call(id ID, buf []byte, width int) (out []byte, err error) {
	return fh(id, buf, width)
}

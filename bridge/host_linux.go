//go:build linux

package bridge

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/ezrec/alpha/fault"
)

const systemSupported = true

// errno converts a host error into a syscall failure code.
func errno(err error) error {
	var en unix.Errno
	if errors.As(err, &en) {
		return fault.ErrSyscallFailure(int(en))
	}
	return errors.Join(fault.ErrSyscallFailure(-1), err)
}

// systemCall performs the syscall in place on values.
//
//	getpid  v0 <- process id
//	time    v0 <- seconds, v1 <- nanoseconds (if present)
//	write   v0 is fd (1 or 2); low bytes of v1.. are written; v0 <- count
//	read    v0 is fd (0); v1.. <- bytes read; v0 <- count
//	random  every value <- random
func systemCall(id ID, values []int64) (err error) {
	switch id {
	case SYSCALL_GETPID:
		values[0] = int64(unix.Getpid())
	case SYSCALL_TIME:
		var ts unix.Timespec
		err = unix.ClockGettime(unix.CLOCK_REALTIME, &ts)
		if err != nil {
			return errno(err)
		}
		values[0] = int64(ts.Sec)
		if len(values) > 1 {
			values[1] = int64(ts.Nsec)
		}
	case SYSCALL_WRITE:
		fd := int(values[0])
		if fd != 1 && fd != 2 {
			return fault.ErrSyscallFailure(int(unix.EBADF))
		}
		data := make([]byte, len(values)-1)
		for n, value := range values[1:] {
			data[n] = byte(value)
		}
		var count int
		count, err = unix.Write(fd, data)
		if err != nil {
			return errno(err)
		}
		values[0] = int64(count)
	case SYSCALL_READ:
		if values[0] != 0 {
			return fault.ErrSyscallFailure(int(unix.EBADF))
		}
		data := make([]byte, len(values)-1)
		var count int
		count, err = unix.Read(0, data)
		if err != nil {
			return errno(err)
		}
		for n := range count {
			values[1+n] = int64(data[n])
		}
		values[0] = int64(count)
	case SYSCALL_RANDOM:
		err = randomFill(values, func(data []byte) (int, error) {
			return unix.Getrandom(data, 0)
		})
	default:
		err = fault.ErrInvalidSyscall(id)
	}

	return
}

// randomFill fills values from read, which must supply every byte.
func randomFill(values []int64, read func([]byte) (int, error)) (err error) {
	data := make([]byte, 8*len(values))
	count, err := read(data)
	if err != nil {
		return errno(err)
	}
	if count != len(data) {
		return fault.ErrSyscallFailure(int(unix.EIO))
	}

	for n := range values {
		var value int64
		for i := range 8 {
			value |= int64(data[n*8+i]) << (8 * i)
		}
		values[n] = value
	}

	return
}

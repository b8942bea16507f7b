//go:build linux

package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"

	"github.com/ezrec/alpha/fault"
)

func TestRandomFill(t *testing.T) {
	table := [...]struct {
		name   string
		read   func([]byte) (int, error)
		values []int64
		err    error
	}{
		{"full", func(data []byte) (int, error) {
			for n := range data {
				data[n] = byte(n)
			}
			return len(data), nil
		}, []int64{0x0706050403020100, 0x0f0e0d0c0b0a0908}, nil},
		{"short", func(data []byte) (int, error) {
			return len(data) - 1, nil
		}, []int64{0, 0}, fault.ErrSyscallFailure(int(unix.EIO))},
		{"failed", func(data []byte) (int, error) {
			return 0, unix.EAGAIN
		}, []int64{0, 0}, fault.ErrSyscallFailure(int(unix.EAGAIN))},
	}

	for _, entry := range table {
		assert := assert.New(t)

		values := make([]int64, 2)
		err := randomFill(values, entry.read)
		if entry.err == nil {
			assert.NoError(err, entry.name)
		} else {
			assert.Equal(entry.err, err, entry.name)
		}
		assert.Equal(entry.values, values, entry.name)
	}
}

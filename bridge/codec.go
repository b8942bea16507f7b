package bridge

import (
	"encoding/binary"

	"github.com/ezrec/alpha/fault"
)

// Flatten packs values into a buffer of len(values) × width bytes.
// Each value is stored little-endian, truncated to its low width bytes.
func Flatten(values []int64, width int) (buf []byte, err error) {
	if width < 1 || width > 8 {
		err = ErrCellWidth
		return
	}

	buf = make([]byte, len(values)*width)

	var cell [8]byte
	for n, value := range values {
		binary.LittleEndian.PutUint64(cell[:], uint64(value))
		copy(buf[n*width:(n+1)*width], cell[:width])
	}

	return
}

// Unflatten unpacks a buffer of little-endian width-byte cells into values,
// sign-extending each cell to 64 bits.
func Unflatten(buf []byte, width int) (values []int64, err error) {
	if width < 1 || width > 8 {
		err = ErrCellWidth
		return
	}

	if len(buf)%width != 0 {
		err = fault.ErrBufferSizeMismatch{Expected: roundUp(len(buf), width), Actual: len(buf)}
		return
	}

	values = make([]int64, len(buf)/width)
	for n := range values {
		var cell [8]byte
		copy(cell[:], buf[n*width:(n+1)*width])
		if cell[width-1]&0x80 != 0 {
			for i := width; i < 8; i++ {
				cell[i] = 0xff
			}
		}
		values[n] = int64(binary.LittleEndian.Uint64(cell[:]))
	}

	return
}

package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/alpha/fault"
)

func TestFlatten(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		values []int64
		width  int
		buf    []byte
	}{
		{[]int64{1, -1}, 1, []byte{0x01, 0xff}},
		{[]int64{0x1234, -2}, 2, []byte{0x34, 0x12, 0xfe, 0xff}},
		{[]int64{0x7812345678}, 4, []byte{0x78, 0x56, 0x34, 0x12}},
		{nil, 8, []byte{}},
	}

	for _, entry := range table {
		buf, err := Flatten(entry.values, entry.width)
		assert.NoError(err)
		assert.Equal(entry.buf, buf)
	}

	for _, width := range []int{-1, 0, 9, 16} {
		buf, err := Flatten([]int64{1}, width)
		assert.ErrorIs(err, ErrCellWidth, width)
		assert.Nil(buf)
	}
}

func TestUnflatten(t *testing.T) {
	assert := assert.New(t)

	values, err := Unflatten([]byte{0x01, 0xff, 0x80}, 1)
	assert.NoError(err)
	assert.Equal([]int64{1, -1, -128}, values)

	values, err = Unflatten([]byte{0xfe, 0xff, 0xff, 0x7f}, 4)
	assert.NoError(err)
	assert.Equal([]int64{0x7ffffffe}, values)

	_, err = Unflatten(make([]byte, 5), 4)
	assert.ErrorIs(err, fault.ErrBufferSizeMismatch{})

	_, err = Unflatten(make([]byte, 4), 0)
	assert.ErrorIs(err, ErrCellWidth)
}

func FuzzCodec(f *testing.F) {
	f.Add(int64(0), int64(-1), uint8(8))
	f.Add(int64(127), int64(-128), uint8(1))
	f.Add(int64(-32768), int64(32767), uint8(2))
	f.Add(int64(1)<<40, int64(-1)<<40, uint8(4))

	f.Fuzz(func(t *testing.T, a int64, b int64, w uint8) {
		width := []int{1, 2, 4, 8}[w%4]
		shift := 64 - 8*width

		// Values that fit in a cell survive the round trip.
		in := []int64{a << shift >> shift, b << shift >> shift}

		buf, err := Flatten(in, width)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if len(buf) != len(in)*width {
			t.Fatalf("buffer length %d, expected %d", len(buf), len(in)*width)
		}

		out, err := Unflatten(buf, width)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if out[0] != in[0] || out[1] != in[1] {
			t.Fatalf("width %d: %v != %v", width, out, in)
		}
	})
}

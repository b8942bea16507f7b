//go:build !linux

package bridge

import (
	"github.com/ezrec/alpha/fault"
)

const systemSupported = false

func systemCall(id ID, values []int64) error {
	return fault.ErrUnsupportedPlatform
}

package program

import (
	"iter"
	"maps"
	"slices"
)

// Allowlist is the set of instruction mnemonics a program may use.
type Allowlist struct {
	mnemonic map[string]bool
}

// mnemonics maps every instruction name to its kind.
var mnemonics = func() map[string]Op {
	m := make(map[string]Op, opCount)
	for op := range Op(opCount) {
		m[op.String()] = op
	}
	return m
}()

// NewAllowlist creates an allow-list permitting the named mnemonics.
func NewAllowlist(names ...string) (allow *Allowlist, err error) {
	allow = &Allowlist{mnemonic: make(map[string]bool, len(names))}
	for _, name := range names {
		if _, ok := mnemonics[name]; !ok {
			allow = nil
			err = ErrMnemonicUnknown(name)
			return
		}
		allow.mnemonic[name] = true
	}

	return
}

// DefaultAllowlist permits every instruction.
func DefaultAllowlist() *Allowlist {
	allow, _ := NewAllowlist(slices.Collect(maps.Keys(mnemonics))...)
	return allow
}

// Allows returns true if the mnemonic is permitted.
// A nil allow-list permits everything.
func (allow *Allowlist) Allows(name string) bool {
	if allow == nil {
		return true
	}
	return allow.mnemonic[name]
}

// All iterates the permitted mnemonics in sorted order.
func (allow *Allowlist) All() iter.Seq[string] {
	if allow == nil {
		return DefaultAllowlist().All()
	}
	return slices.Values(slices.Sorted(maps.Keys(allow.mnemonic)))
}

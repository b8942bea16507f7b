package engine

// Status is the execution engine state.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_READY    = Status(0) // ready
	STATUS_RUNNING  = Status(1) // running
	STATUS_PAUSED   = Status(2) // paused
	STATUS_FINISHED = Status(3) // finished
	STATUS_FAILED   = Status(4) // failed
)

// Halted returns true for the terminal states, which require a reset.
func (st Status) Halted() bool {
	return st == STATUS_FINISHED || st == STATUS_FAILED
}

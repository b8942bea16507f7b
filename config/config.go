// Package config decodes the memory configuration and instruction allow-list
// documents consumed when an engine is constructed, and carries the
// constructor-time execution limits.
//
// Documents may be YAML or TOML. Memory cells keep the order in which the
// document lists them.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/ezrec/alpha/fault"
	"github.com/ezrec/alpha/memory"
	"github.com/ezrec/alpha/translate"
)

var f = translate.From

const (
	ACCUMULATORS_DEFAULT = 4         // Default accumulator count
	ACCUMULATORS_MAX     = 4096      // Maximum accumulator count
	INSTRUCTION_BUDGET   = 1_000_000 // Default instructions per run before forced halt
	CELL_WIDTH           = 8         // Default syscall cell width, in bytes
)

var (
	ErrAccumulatorCount = errors.New(f("accumulator count out of range"))
	ErrCellDuplicate    = errors.New(f("cell duplicated"))
	ErrCellName         = errors.New(f("cell name empty"))
	ErrLimit            = errors.New(f("limit must be positive"))
	ErrCellWidth        = errors.New(f("cell width must be 1, 2, 4 or 8"))
	ErrFormat           = errors.New(f("unknown document format"))
	ErrAccumulatorValue = errors.New(f("accumulator initial value index out of range"))
)

// Format is a configuration document encoding.
type Format int

const (
	FORMAT_YAML = Format(0)
	FORMAT_TOML = Format(1)
)

// FormatOf selects a document format by file extension.
func FormatOf(path string) (format Format, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FORMAT_YAML
	case ".toml":
		format = FORMAT_TOML
	default:
		err = fault.ErrConfig{Field: path, Err: ErrFormat}
	}
	return
}

// Cell is a named memory cell declaration.
type Cell struct {
	Name  string
	Value *int64 // Initial value; nil leaves the cell unwritten.
}

// Limits are the execution bounds fixed when an engine is constructed.
type Limits struct {
	CallStackLimit    int // Maximum call stack depth.
	InstructionBudget int // Maximum instructions executed between resets.
	CellWidth         int // Bytes per value in a syscall buffer.
}

// DefaultLimits returns the standard execution bounds.
func DefaultLimits() Limits {
	return Limits{
		CallStackLimit:    memory.CALL_STACK_LIMIT,
		InstructionBudget: INSTRUCTION_BUDGET,
		CellWidth:         CELL_WIDTH,
	}
}

// Config is a memory configuration snapshot.
type Config struct {
	Accumulators int
	Initial      map[int]int64 // Initial accumulator values, by index.
	Cells        []Cell
	Limits       Limits
}

// Default returns a configuration with the default accumulator count,
// no cells, and default limits.
func Default() *Config {
	return &Config{
		Accumulators: ACCUMULATORS_DEFAULT,
		Limits:       DefaultLimits(),
	}
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() (err error) {
	if cfg.Accumulators < 1 || cfg.Accumulators > ACCUMULATORS_MAX {
		return fault.ErrConfig{Field: "accumulators", Err: ErrAccumulatorCount}
	}

	for index := range cfg.Initial {
		if index < 0 || index >= cfg.Accumulators {
			return fault.ErrConfig{Field: f("accumulator %d", index), Err: ErrAccumulatorValue}
		}
	}

	seen := make(map[string]bool, len(cfg.Cells))
	for _, cell := range cfg.Cells {
		if len(cell.Name) == 0 {
			return fault.ErrConfig{Field: "cells", Err: ErrCellName}
		}
		if seen[cell.Name] {
			return fault.ErrConfig{Field: cell.Name, Err: ErrCellDuplicate}
		}
		seen[cell.Name] = true
	}

	return cfg.Limits.Validate()
}

// Validate checks that every limit is usable.
func (lim Limits) Validate() error {
	if lim.CallStackLimit <= 0 {
		return fault.ErrConfig{Field: "call_stack_limit", Err: ErrLimit}
	}
	if lim.InstructionBudget <= 0 {
		return fault.ErrConfig{Field: "instruction_budget", Err: ErrLimit}
	}
	switch lim.CellWidth {
	case 1, 2, 4, 8:
	default:
		return fault.ErrConfig{Field: "cell_width", Err: ErrCellWidth}
	}
	return nil
}

// Memory builds the initial memory image described by the configuration.
func (cfg *Config) Memory() (mem *memory.Memory, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	mem = memory.New(cfg.Accumulators, cfg.Limits.CallStackLimit)
	for index, value := range cfg.Initial {
		mem.Accumulators.Set(index, value)
	}
	for _, cell := range cfg.Cells {
		if cell.Value == nil {
			mem.Cells.Declare(cell.Name)
		} else {
			mem.Cells.Set(cell.Name, *cell.Value)
		}
	}

	return
}

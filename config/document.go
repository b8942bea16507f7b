package config

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/alpha/fault"
	"github.com/ezrec/alpha/program"
)

var (
	ErrCellsNode    = errors.New(f("cells must be a mapping or a list of names"))
	ErrUnknownField = errors.New(f("unknown field"))
)

type limitsDoc struct {
	CallStackLimit    *int `yaml:"call_stack_limit" toml:"call_stack_limit"`
	InstructionBudget *int `yaml:"instruction_budget" toml:"instruction_budget"`
	CellWidth         *int `yaml:"cell_width" toml:"cell_width"`
}

func (doc *limitsDoc) apply(lim *Limits) {
	if doc == nil {
		return
	}
	if doc.CallStackLimit != nil {
		lim.CallStackLimit = *doc.CallStackLimit
	}
	if doc.InstructionBudget != nil {
		lim.InstructionBudget = *doc.InstructionBudget
	}
	if doc.CellWidth != nil {
		lim.CellWidth = *doc.CellWidth
	}
}

// yamlMemory is the YAML memory document.
//
//	accumulators: 4
//	initial: {0: 10}
//	cells:
//	  h1: 5
//	  h2: ~
//	limits:
//	  instruction_budget: 1000
type yamlMemory struct {
	Accumulators *int          `yaml:"accumulators"`
	Initial      map[int]int64 `yaml:"initial"`
	Cells        yaml.Node     `yaml:"cells"`
	Limits       *limitsDoc    `yaml:"limits"`
}

// tomlMemory is the TOML memory document. TOML has no null, so cells
// without an initial value are listed under 'declare'.
//
//	accumulators = 4
//	declare = ["h2"]
//	[initial]
//	0 = 10
//	[cells]
//	h1 = 5
//	[limits]
//	instruction_budget = 1000
type tomlMemory struct {
	Accumulators *int             `toml:"accumulators"`
	Initial      map[string]int64 `toml:"initial"`
	Cells        map[string]int64 `toml:"cells"`
	Declare      []string         `toml:"declare"`
	Limits       *limitsDoc       `toml:"limits"`
}

// ParseMemory decodes a memory configuration document.
// Omitted fields take their defaults; the result is validated.
func ParseMemory(r io.Reader, format Format) (cfg *Config, err error) {
	cfg = Default()

	switch format {
	case FORMAT_YAML:
		err = cfg.decodeYaml(r)
	case FORMAT_TOML:
		err = cfg.decodeToml(r)
	default:
		err = fault.ErrConfig{Field: "format", Err: ErrFormat}
	}
	if err != nil {
		cfg = nil
		return
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
	}

	return
}

func (cfg *Config) decodeYaml(r io.Reader) (err error) {
	var doc yamlMemory

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err = dec.Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return fault.ErrConfig{Field: "yaml", Err: err}
	}
	err = nil

	if doc.Accumulators != nil {
		cfg.Accumulators = *doc.Accumulators
	}
	cfg.Initial = doc.Initial
	doc.Limits.apply(&cfg.Limits)

	cfg.Cells, err = yamlCells(&doc.Cells)
	return
}

// yamlCells walks the cells node, keeping document order.
func yamlCells(node *yaml.Node) (cells []Cell, err error) {
	switch node.Kind {
	case 0:
		// absent
	case yaml.MappingNode:
		for n := 0; n+1 < len(node.Content); n += 2 {
			key, val := node.Content[n], node.Content[n+1]
			cell := Cell{Name: key.Value}
			if val.Tag != "!!null" {
				var value int64
				err = val.Decode(&value)
				if err != nil {
					return nil, fault.ErrConfig{Field: key.Value, Err: err}
				}
				cell.Value = &value
			}
			cells = append(cells, cell)
		}
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			err = fault.ErrConfig{Field: "cells", Err: ErrCellsNode}
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fault.ErrConfig{Field: "cells", Err: ErrCellsNode}
			}
			cells = append(cells, Cell{Name: item.Value})
		}
	default:
		err = fault.ErrConfig{Field: "cells", Err: ErrCellsNode}
	}

	return
}

func (cfg *Config) decodeToml(r io.Reader) (err error) {
	var doc tomlMemory

	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return fault.ErrConfig{Field: "toml", Err: err}
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return fault.ErrConfig{Field: undecoded[0].String(), Err: ErrUnknownField}
	}

	if doc.Accumulators != nil {
		cfg.Accumulators = *doc.Accumulators
	}

	if len(doc.Initial) != 0 {
		cfg.Initial = make(map[int]int64, len(doc.Initial))
		for key, value := range doc.Initial {
			var index int
			index, err = strconv.Atoi(key)
			if err != nil {
				return fault.ErrConfig{Field: "initial." + key, Err: err}
			}
			cfg.Initial[index] = value
		}
	}

	doc.Limits.apply(&cfg.Limits)

	// MetaData keys are in document order.
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "cells" {
			continue
		}
		value := doc.Cells[key[1]]
		cfg.Cells = append(cfg.Cells, Cell{Name: key[1], Value: &value})
	}

	for _, name := range doc.Declare {
		cfg.Cells = append(cfg.Cells, Cell{Name: name})
	}

	return
}

// allowDoc is the instruction allow-list document.
type allowDoc struct {
	Instructions []string `yaml:"instructions" toml:"instructions"`
}

// ParseAllowlist decodes an instruction allow-list document.
func ParseAllowlist(r io.Reader, format Format) (allow *program.Allowlist, err error) {
	var doc allowDoc

	switch format {
	case FORMAT_YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FORMAT_TOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(r).Decode(&doc)
		if err == nil && len(md.Undecoded()) != 0 {
			err = ErrUnknownField
		}
	default:
		err = ErrFormat
	}
	if err != nil {
		return nil, fault.ErrConfig{Field: "instructions", Err: err}
	}

	names := make([]string, len(doc.Instructions))
	for n, name := range doc.Instructions {
		names[n] = strings.ToLower(strings.TrimSpace(name))
	}

	allow, err = program.NewAllowlist(names...)
	if err != nil {
		return nil, fault.ErrConfig{Field: "instructions", Err: err}
	}

	return
}

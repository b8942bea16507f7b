package main

import (
	"os"

	"github.com/ezrec/alpha/asm"
	"github.com/ezrec/alpha/config"
	"github.com/ezrec/alpha/debugger"
	"github.com/ezrec/alpha/program"
)

// config loads the memory configuration, applying flag overrides.
func (opts *options) config() (cfg *config.Config, err error) {
	cfg = config.Default()

	if len(opts.memory) != 0 {
		var format config.Format
		format, err = config.FormatOf(opts.memory)
		if err != nil {
			return
		}

		var inf *os.File
		inf, err = os.Open(opts.memory)
		if err != nil {
			return
		}
		defer inf.Close()

		cfg, err = config.ParseMemory(inf, format)
		if err != nil {
			return
		}
	}

	if opts.budget != 0 {
		cfg.Limits.InstructionBudget = opts.budget
	}
	if opts.callLimit != 0 {
		cfg.Limits.CallStackLimit = opts.callLimit
	}
	if opts.width != 0 {
		cfg.Limits.CellWidth = opts.width
	}

	err = cfg.Validate()
	return
}

// allowlist loads the instruction allow-list, if any.
func (opts *options) allowlist() (allow *program.Allowlist, err error) {
	if len(opts.allow) == 0 {
		return
	}

	format, err := config.FormatOf(opts.allow)
	if err != nil {
		return
	}

	inf, err := os.Open(opts.allow)
	if err != nil {
		return
	}
	defer inf.Close()

	return config.ParseAllowlist(inf, format)
}

// load assembles a program source file into a debugger.
func (opts *options) load(path string) (dbg *debugger.Debugger, err error) {
	cfg, err := opts.config()
	if err != nil {
		return
	}

	allow, err := opts.allowlist()
	if err != nil {
		return
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	as := &asm.Assembler{Verbose: opts.verbose}
	for key, value := range debugger.Defines(cfg) {
		as.Predefine(key, value)
	}

	prog, err := as.Parse(inf, allow)
	if err != nil {
		return
	}

	dbg, err = debugger.New(prog, cfg)
	if err != nil {
		return
	}
	dbg.Verbose = opts.verbose

	return
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ezrec/alpha/debugger"
	"github.com/ezrec/alpha/engine"
	"github.com/ezrec/alpha/translate"
)

var ErrCommandUnknown = errors.New(f("unknown command, try 'help'"))
var ErrCommandArgs = errors.New(f("wrong number of arguments"))

// console is the interactive debugger command interpreter.
type console struct {
	dbg *debugger.Debugger
	out io.Writer
	ctx context.Context
}

func newConsole(dbg *debugger.Debugger, out io.Writer) *console {
	return &console{
		dbg: dbg,
		out: out,
		ctx: context.Background(),
	}
}

var consoleHelp = []string{
	"step [N]       (s)  execute N instructions, ignoring breakpoints",
	"run            (r)  run until a breakpoint, the end, or Ctrl-C",
	"continue       (c)  resume from a pause",
	"reset               restore the initial state",
	"break WHERE    (b)  set a breakpoint at an index or label",
	"clear WHERE         clear a breakpoint",
	"toggle WHERE   (t)  toggle a breakpoint",
	"inspect        (i)  show memory, stacks and status",
	"list [N [M]]   (l)  list instructions",
	"quit           (q)  leave the debugger",
}

// Serve reads commands until quit or end of input.
func (con *console) Serve(in io.Reader) (err error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "(alpha) ",
		Stdin:           io.NopCloser(in),
		Stdout:          con.out,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return
	}
	defer rl.Close()

	fmt.Fprintln(con.out, translate.Plural(con.dbg.Program().Len(),
		"loaded %d instruction, type 'help' for commands",
		"loaded %d instructions, type 'help' for commands",
		con.dbg.Program().Len()))

	for {
		var line string
		line, err = rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		var quit bool
		quit, err = con.Execute(line)
		if err != nil {
			fmt.Fprintln(con.out, err)
			err = nil
		}
		if quit {
			return
		}
	}
}

// where resolves a breakpoint location: an instruction index or a label.
func (con *console) where(word string) (index int, err error) {
	index, ok := con.dbg.Program().ResolveLabel(word)
	if ok {
		return
	}

	index, err = strconv.Atoi(word)
	return
}

// status reports where the engine stopped.
func (con *console) status() {
	st := con.dbg.Status()

	ins, ok := con.dbg.Current()
	if !ok {
		fmt.Fprintln(con.out, f("%v after %d instructions", st, con.dbg.Runs()))
		return
	}

	fmt.Fprintln(con.out, f("%v at %d (line %d): %v", st, con.dbg.Ip(), con.dbg.LineNo(), ins))
}

// Execute runs a single debugger command line.
func (con *console) Execute(line string) (quit bool, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	args := words[1:]

	switch words[0] {
	case "help", "h", "?":
		for _, text := range consoleHelp {
			fmt.Fprintln(con.out, text)
		}
	case "quit", "q", "exit":
		quit = true
	case "step", "s":
		count := 1
		if len(args) > 1 {
			err = ErrCommandArgs
			return
		}
		if len(args) == 1 {
			count, err = strconv.Atoi(args[0])
			if err != nil {
				return
			}
		}
		for range count {
			var done bool
			done, err = con.dbg.Step()
			if done || err != nil {
				break
			}
		}
		con.status()
	case "run", "r", "continue", "c":
		if len(args) != 0 {
			err = ErrCommandArgs
			return
		}
		ctx, stop := interruptible(con.ctx)
		if words[0][0] == 'c' {
			err = con.dbg.Continue(ctx)
		} else {
			err = con.dbg.Run(ctx)
		}
		stop()
		if err == nil || con.dbg.Status() == engine.STATUS_FAILED {
			con.status()
		}
	case "reset":
		con.dbg.Reset()
		con.status()
	case "break", "b", "clear", "toggle", "t":
		if len(args) != 1 {
			err = ErrCommandArgs
			return
		}
		var index int
		index, err = con.where(args[0])
		if err != nil {
			return
		}
		switch words[0] {
		case "clear":
			err = con.dbg.ClearBreakpoint(index)
		case "toggle", "t":
			_, err = con.dbg.ToggleBreakpoint(index)
		default:
			err = con.dbg.SetBreakpoint(index)
		}
		if err != nil {
			return
		}
		fmt.Fprintln(con.out, f("breakpoints: %v", con.dbg.Breakpoints()))
	case "inspect", "i":
		fmt.Fprint(con.out, snapshotTree(con.dbg.Inspect()).String())
	case "list", "l":
		from, to := -1, -1
		if len(args) > 2 {
			err = ErrCommandArgs
			return
		}
		if len(args) > 0 {
			from, err = con.where(args[0])
			if err != nil {
				return
			}
		}
		if len(args) > 1 {
			to, err = strconv.Atoi(args[1])
			if err != nil {
				return
			}
		}
		listProgram(con.out, con.dbg, from, to)
	default:
		err = ErrCommandUnknown
	}

	return
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ezrec/alpha/debugger"
	"github.com/ezrec/alpha/engine"
	"github.com/ezrec/alpha/translate"
)

var f = translate.From

// options are the flags shared by every subcommand.
type options struct {
	memory    string // Memory configuration document.
	allow     string // Instruction allow-list document.
	budget    int
	callLimit int
	width     int
	verbose   bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "alpha",
		Short:         f("Alpha-Notation runtime and debugger"),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.memory, "memory", "m", "", f("memory configuration (.yaml or .toml)"))
	flags.StringVarP(&opts.allow, "allow", "a", "", f("instruction allow-list (.yaml or .toml)"))
	flags.IntVar(&opts.budget, "budget", 0, f("instruction budget per run"))
	flags.IntVar(&opts.callLimit, "call-limit", 0, f("call stack depth limit"))
	flags.IntVar(&opts.width, "cell-width", 0, f("syscall cell width in bytes"))
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, f("verbose mode"))

	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: f("Run a program to completion and show the final state"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbg, err := opts.load(args[0])
			if err != nil {
				return err
			}
			return runProgram(cmd, dbg)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list FILE",
		Short: f("Assemble a program and list its instructions"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbg, err := opts.load(args[0])
			if err != nil {
				return err
			}
			listProgram(cmd.OutOrStdout(), dbg, -1, -1)
			return nil
		},
	}

	debugCmd := &cobra.Command{
		Use:   "debug FILE",
		Short: f("Debug a program interactively"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbg, err := opts.load(args[0])
			if err != nil {
				return err
			}
			return newConsole(dbg, cmd.OutOrStdout()).Serve(cmd.InOrStdin())
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, debugCmd)

	return rootCmd
}

// interruptible returns a context cancelled by Ctrl-C.
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// runProgram runs until finished or failed, reporting the final state.
func runProgram(cmd *cobra.Command, dbg *debugger.Debugger) (err error) {
	ctx, stop := interruptible(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()

	err = dbg.Run(ctx)
	if err == nil && dbg.Status() == engine.STATUS_PAUSED {
		fmt.Fprintln(out, f("interrupted at instruction %d", dbg.Ip()))
	}

	fmt.Fprint(out, snapshotTree(dbg.Inspect()).String())
	return
}

package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/xlab/treeprint"

	"github.com/ezrec/alpha/debugger"
	"github.com/ezrec/alpha/engine"
	"github.com/ezrec/alpha/memory"
	"github.com/ezrec/alpha/translate"
)

// show renders an optional slot value.
func show(value memory.Value) string {
	if !value.Set {
		return "-"
	}
	return fmt.Sprintf("%d", value.Value)
}

// snapshotTree renders an engine snapshot.
func snapshotTree(snap engine.Snapshot) treeprint.Tree {
	tree := treeprint.NewWithRoot(f("%v at %d", snap.Status, snap.Ip))

	tree.AddMetaNode(f("runs"), fmt.Sprintf("%d/%d", snap.Runs, snap.Budget))
	if snap.Err != nil {
		tree.AddMetaNode(f("error"), snap.Err.Error())
	}

	acc := tree.AddBranch(translate.Plural(len(snap.Accumulators), "%d accumulator", "%d accumulators", len(snap.Accumulators)))
	for n, value := range snap.Accumulators {
		acc.AddMetaNode(fmt.Sprintf("a%d", n), show(value))
	}

	cells := tree.AddBranch(translate.Plural(len(snap.Cells), "%d cell", "%d cells", len(snap.Cells)))
	for _, cell := range snap.Cells {
		cells.AddMetaNode(fmt.Sprintf("p(%v)", cell.Name), show(cell.Value))
	}

	data := tree.AddBranch(translate.Plural(len(snap.DataStack), "data stack, %d entry", "data stack, %d entries", len(snap.DataStack)))
	for _, value := range slices.Backward(snap.DataStack) {
		data.AddNode(fmt.Sprintf("%d", value))
	}

	call := tree.AddBranch(translate.Plural(len(snap.CallStack), "call stack, %d entry", "call stack, %d entries", len(snap.CallStack)))
	for _, ip := range slices.Backward(snap.CallStack) {
		call.AddNode(f("return to %d", ip))
	}

	if len(snap.Breakpoints) != 0 {
		tree.AddMetaNode(f("breakpoints"), fmt.Sprint(snap.Breakpoints))
	}

	return tree
}

// listProgram writes the instruction listing, marking breakpoints and the
// instruction pointer. Negative from or to list from the start or to the end.
func listProgram(out io.Writer, dbg *debugger.Debugger, from, to int) {
	prog := dbg.Program()
	snap := dbg.Inspect()

	if from < 0 {
		from = 0
	}
	if to < 0 || to > prog.Len() {
		to = prog.Len()
	}

	labels := make(map[int][]string)
	for name, index := range prog.Labels() {
		labels[index] = append(labels[index], name)
	}

	for n, ins := range prog.Instructions() {
		if n < from || n >= to {
			continue
		}
		for _, name := range labels[n] {
			fmt.Fprintf(out, "%v:\n", name)
		}
		mark := ' '
		if slices.Contains(snap.Breakpoints, n) {
			mark = '*'
		}
		cursor := ' '
		if n == snap.Ip {
			cursor = '>'
		}
		fmt.Fprintf(out, "%c%c%03d %4d    %v\n", mark, cursor, n, ins.LineNo, ins)
	}
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm is a single pass macro assembler for Alpha-Notation source.
//
// Each line holds at most one statement, optionally preceded by labels, with
// words separated by whitespace. A ';' starts a comment.
//
//	.equ N 5
//	        a0 := N
//	        a1 := 0
//	loop:   if a0 == 0 then goto done
//	        a1 := a1 + a0
//	        a0 := a0 - 1
//	        goto loop
//	done:   halt
//
// Accumulators are written aN (or αN), memory cells p(name) (or ρ(name)).
// $(expr) is evaluated at assembly time, with every numeric equate in scope.
package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/alpha/fault"
	"github.com/ezrec/alpha/program"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for Alpha-Notation.
type Assembler struct {
	Verbose bool                  // If set, verbosely logs the assembler actions.
	Code    []program.Instruction // List of generated instructions.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to instruction indexes.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	lines map[int]string // Source text by line number.
}

// Predefine defines a new equate or redefines an existing equate, for all
// subsequent Parse calls.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Assemble parses source into a loaded program, restricted to allow.
func Assemble(input io.Reader, allow *program.Allowlist) (prog *program.Program, err error) {
	asm := &Assembler{}
	return asm.Parse(input, allow)
}

var (
	reAccumulator = regexp.MustCompile(`^(?:a|α)([0-9]+)$`)
	reCell        = regexp.MustCompile(`^(?:p|ρ)\(([^()\s]+)\)$`)
	reLabel       = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	reCharacter   = regexp.MustCompile(`'\\?[^']'`)
	reExpression  = regexp.MustCompile(`\$\((?:[^()$]|\([^()$]*\))*\)`)
)

// valueOf returns the value of a numeric word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	invert := false
	if len(word) > 1 && word[0] == '~' {
		invert = true
		word = word[1:]
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		// Accept full-width unsigned values, such as 0xffffffffffffffff.
		var u64 uint64
		u64, err = strconv.ParseUint(word, 0, 64)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		value = int64(u64)
	}

	if invert {
		value = ^value
	}

	return
}

// operand parses a value source or destination.
func (asm *Assembler) operand(word string) (op program.Operand, err error) {
	if match := reAccumulator.FindStringSubmatch(word); match != nil {
		var index int
		index, err = strconv.Atoi(match[1])
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		op = program.Acc(index)
		return
	}

	if match := reCell.FindStringSubmatch(word); match != nil {
		op = program.Cell(match[1])
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	op = program.Imm(value)
	return
}

// destination parses a writable operand.
func (asm *Assembler) destination(word string) (op program.Operand, err error) {
	op, err = asm.operand(word)
	if err != nil {
		return
	}

	if !op.Writable() {
		err = ErrTargetInvalid
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be operands
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words, consuming directives,
// labels, and macro invocations.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelSyntax
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = len(asm.Code)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' makes labels local to this expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a loaded Program, restricted to allow.
// A nil allow-list permits every instruction.
func (asm *Assembler) Parse(input io.Reader, allow *program.Allowlist) (prog *program.Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		var es ErrSyntax
		if err != nil && !errors.As(err, &es) {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Code = asm.Code[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.lines = make(map[int]string)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		asm.lines[lineno] = line
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Jump labels are linked by program.Load, but report missing ones
	// against their source line first.
	for _, ins := range asm.Code {
		if !ins.Op.Jumps() {
			continue
		}
		_, ok := asm.Label[ins.Label]
		if !ok {
			err = asm.syntaxAt(ins.LineNo, ErrLabelMissing(ins.Label))
			return
		}
	}

	prog, err = program.Load(asm.Code, asm.Label, allow)
	if err != nil {
		err = asm.locate(err)
		return
	}

	return
}

// syntaxAt makes a syntax error for a previously parsed line.
func (asm *Assembler) syntaxAt(lineno int, err error) error {
	return ErrSyntax{LineNo: lineno, Line: asm.lines[lineno], Err: err}
}

// locate attaches the source line to a program load error.
func (asm *Assembler) locate(err error) error {
	index := -1

	var ed fault.ErrDisallowedInstruction
	var eo fault.ErrOperand
	var ej fault.ErrInvalidJumpTarget
	switch {
	case errors.As(err, &ed):
		index = ed.Index
	case errors.As(err, &eo):
		index = eo.Index
	case errors.As(err, &ej):
		index = ej.Index
	}

	if index < 0 || index >= len(asm.Code) {
		return ErrSyntax{Err: err}
	}

	return asm.syntaxAt(asm.Code[index].LineNo, err)
}

// arithMap maps arithmetic operator names.
var arithMap = map[string]program.ArithOp{
	"+":   program.ARITH_ADD,
	"-":   program.ARITH_SUB,
	"*":   program.ARITH_MUL,
	"/":   program.ARITH_DIV,
	"%":   program.ARITH_MOD,
	"add": program.ARITH_ADD,
	"sub": program.ARITH_SUB,
	"mul": program.ARITH_MUL,
	"div": program.ARITH_DIV,
	"mod": program.ARITH_MOD,
}

// cmpMap maps comparison operator names.
var cmpMap = map[string]program.CmpOp{
	"==": program.CMP_EQ,
	"=":  program.CMP_EQ,
	"!=": program.CMP_NE,
	"≠":  program.CMP_NE,
	"<":  program.CMP_LT,
	"<=": program.CMP_LE,
	"≤":  program.CMP_LE,
	">":  program.CMP_GT,
	">=": program.CMP_GE,
	"≥":  program.CMP_GE,
}

// assignMap lists the accepted assignment arrows.
var assignMap = map[string]bool{
	":=": true,
	"←":  true,
	"<-": true,
}

// label validates a jump target word.
func label(words []string) (name string, err error) {
	if len(words) < 1 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(words) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}
	name = words[0]
	if !reLabel.MatchString(name) {
		err = ErrLabelSyntax
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var ins program.Instruction
	var emit bool

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if err != nil || !emit {
			return
		}
		ins.LineNo = lineno
		if asm.Verbose {
			log.Printf("%03d: %v", len(asm.Code), ins)
		}
		asm.Code = append(asm.Code, ins)
	}()

	if len(words) >= 2 && assignMap[words[1]] {
		ins, err = asm.parseAssign(words[0], words[2:])
		emit = err == nil
		return
	}

	switch words[0] {
	case "goto":
		var name string
		name, err = label(words[1:])
		if err != nil {
			return
		}
		ins = program.Goto(name)
	case "if":
		// if A cmp B then goto L
		if len(words) < 7 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 7 {
			err = ErrOpcodeExtraArgs
			return
		}
		if words[4] != "then" || words[5] != "goto" {
			err = ErrInstructionInvalid
			return
		}
		cmp, ok := cmpMap[words[2]]
		if !ok {
			err = ErrOperatorInvalid
			return
		}
		var a, b program.Operand
		a, err = asm.operand(words[1])
		if err != nil {
			return
		}
		b, err = asm.operand(words[3])
		if err != nil {
			return
		}
		var name string
		name, err = label(words[6:])
		if err != nil {
			return
		}
		ins = program.If(a, cmp, b, name)
	case "call":
		var name string
		name, err = label(words[1:])
		if err != nil {
			return
		}
		ins = program.Call(name)
	case "return":
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		ins = program.Return()
	case "push":
		if len(words) != 2 {
			err = cmpArgs(len(words), 2)
			return
		}
		var src program.Operand
		src, err = asm.operand(words[1])
		if err != nil {
			return
		}
		ins = program.Push(src)
	case "pop":
		if len(words) != 2 {
			err = cmpArgs(len(words), 2)
			return
		}
		var dst program.Operand
		dst, err = asm.destination(words[1])
		if err != nil {
			return
		}
		ins = program.Pop(dst)
	case "stack":
		if len(words) != 2 {
			err = cmpArgs(len(words), 2)
			return
		}
		op, ok := arithMap[words[1]]
		if !ok {
			err = ErrOperatorInvalid
			return
		}
		ins = program.Stack(op)
	case "syscall":
		if len(words) < 3 {
			err = ErrOpcodeValueMissing
			return
		}
		var id int64
		id, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if id < 0 || id > 0xffffffff {
			err = ErrSyscallInvalid
			return
		}
		slots := make([]program.Operand, 0, len(words)-2)
		for _, word := range words[2:] {
			var slot program.Operand
			slot, err = asm.destination(word)
			if err != nil {
				return
			}
			slots = append(slots, slot)
		}
		ins = program.Syscall(uint32(id), slots...)
	case "halt":
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		ins = program.Halt()
	default:
		if reAccumulator.MatchString(words[0]) || reCell.MatchString(words[0]) {
			// An operand with no assignment.
			err = ErrOpcodeMissing
			return
		}
		err = ErrInstructionInvalid
		return
	}

	emit = true
	return
}

// parseAssign parses 'DST := SRC' and 'DST := A op B'.
func (asm *Assembler) parseAssign(target string, words []string) (ins program.Instruction, err error) {
	dst, err := asm.destination(target)
	if err != nil {
		return
	}

	switch len(words) {
	case 0:
		err = ErrOpcodeValueMissing
	case 1:
		var src program.Operand
		src, err = asm.operand(words[0])
		if err != nil {
			return
		}
		ins = program.Move(dst, src)
	case 3:
		var a, b program.Operand
		a, err = asm.operand(words[0])
		if err != nil {
			return
		}
		b, err = asm.operand(words[2])
		if err != nil {
			return
		}
		if op, ok := arithMap[words[1]]; ok {
			ins = program.Calc(dst, a, op, b)
			return
		}
		if cmp, ok := cmpMap[words[1]]; ok {
			ins = program.Compare(dst, a, cmp, b)
			return
		}
		err = ErrOperatorInvalid
	case 2:
		err = ErrOpcodeValueMissing
	default:
		err = ErrOpcodeExtraArgs
	}

	return
}

// cmpArgs selects the error for a wrong word count.
func cmpArgs(have, want int) error {
	if have < want {
		return ErrOpcodeValueMissing
	}
	return ErrOpcodeExtraArgs
}

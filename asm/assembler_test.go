package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/alpha/fault"
	"github.com/ezrec/alpha/program"
)

func parse(t *testing.T, lines ...string) (asm *Assembler, prog *program.Program, err error) {
	asm = &Assembler{}
	prog, err = asm.Parse(strings.NewReader(strings.Join(lines, "\n")), nil)
	return
}

func codeOf(prog *program.Program) (code []program.Instruction) {
	for _, ins := range prog.Instructions() {
		ins.LineNo = 0
		code = append(code, ins)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm, prog, err := parse(t, "")
	assert.NoError(err)
	assert.Equal(0, prog.Len())
	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerSum(t *testing.T) {
	assert := assert.New(t)

	source := []string{
		".equ N 5",
		"        a0 := N       ; counter",
		"        a1 := 0",
		"loop:   if a0 == 0 then goto done",
		"        a1 := a1 + a0",
		"        a0 := a0 - 1",
		"        goto loop",
		"done:   halt",
	}

	_, prog, err := parse(t, source...)
	if !assert.NoError(err) {
		return
	}

	a0, a1 := program.Acc(0), program.Acc(1)
	expected := []program.Instruction{
		program.Move(a0, program.Imm(5)),
		program.Move(a1, program.Imm(0)),
		{Op: program.OP_IF, Cmp: program.CMP_EQ, A: a0, B: program.Imm(0), Label: "done", Target: 6},
		program.Calc(a1, a1, program.ARITH_ADD, a0),
		program.Calc(a0, a0, program.ARITH_SUB, program.Imm(1)),
		{Op: program.OP_GOTO, Label: "loop", Target: 2},
		program.Halt(),
	}
	assert.Equal(expected, codeOf(prog))

	index, ok := prog.ResolveLabel("loop")
	assert.True(ok)
	assert.Equal(2, index)
	assert.Equal(4, prog.LineNo(2))
	assert.Equal(8, prog.LineNo(6))
}

func TestAssemblerStatements(t *testing.T) {
	a0, a2 := program.Acc(0), program.Acc(2)
	h := program.Cell("h")

	table := [...]struct {
		line string
		ins  program.Instruction
	}{
		{"a0 := 7", program.Move(a0, program.Imm(7))},
		{"α2 ← -3", program.Move(a2, program.Imm(-3))},
		{"p(h) := a0", program.Move(h, a0)},
		{"ρ(h) <- 0x10", program.Move(h, program.Imm(16))},
		{"a0 := p(h) * a2", program.Calc(a0, h, program.ARITH_MUL, a2)},
		{"a0 := a0 / 2", program.Calc(a0, a0, program.ARITH_DIV, program.Imm(2))},
		{"a0 := a0 % 2", program.Calc(a0, a0, program.ARITH_MOD, program.Imm(2))},
		{"a0 := a2 <= 4", program.Compare(a0, a2, program.CMP_LE, program.Imm(4))},
		{"p(h) := a0 != a2", program.Compare(h, a0, program.CMP_NE, a2)},
		{"a0 := 'A'", program.Move(a0, program.Imm(65))},
		{"a0 := ~0", program.Move(a0, program.Imm(-1))},
		{"a0 := $(3 * 4 + 1)", program.Move(a0, program.Imm(13))},
		{"a0 := $(LINENO)", program.Move(a0, program.Imm(1))},
		{"a0 := $(LINENO * 2) + p(h)", program.Calc(a0, program.Imm(2), program.ARITH_ADD, h)},
		{"p(h) := $((1 + 2) * 3) - $(4)", program.Calc(h, program.Imm(9), program.ARITH_SUB, program.Imm(4))},
		{"push a0", program.Push(a0)},
		{"push 12", program.Push(program.Imm(12))},
		{"pop p(h)", program.Pop(h)},
		{"stack +", program.Stack(program.ARITH_ADD)},
		{"stack mod", program.Stack(program.ARITH_MOD)},
		{"return", program.Return()},
		{"halt", program.Halt()},
		{"syscall 3 a0 p(h)", program.Syscall(3, a0, h)},
	}

	for _, entry := range table {
		assert := assert.New(t)

		_, prog, err := parse(t, entry.line)
		if !assert.NoError(err, entry.line) {
			continue
		}
		assert.Equal([]program.Instruction{entry.ins}, codeOf(prog), entry.line)
	}
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SYS_write", "3")
	asm.Predefine("WIDTH", "8")

	prog, err := asm.Parse(strings.NewReader("syscall SYS_write a0 a1\na0 := $(WIDTH * 2)"), nil)
	assert.NoError(err)
	assert.Equal([]program.Instruction{
		program.Syscall(3, program.Acc(0), program.Acc(1)),
		program.Move(program.Acc(0), program.Imm(16)),
	}, codeOf(prog))

	// Predefines survive a new Parse; equates do not.
	prog, err = asm.Parse(strings.NewReader(".equ X 1\na0 := X"), nil)
	assert.NoError(err)
	assert.Equal(1, prog.Len())
	_, err = asm.Parse(strings.NewReader("a0 := X"), nil)
	assert.ErrorIs(err, ErrParseNumber("X"))
	assert.Equal("8", asm.Equate["WIDTH"])
}

func TestAssemblerCall(t *testing.T) {
	assert := assert.New(t)

	_, prog, err := parse(t,
		"    call double",
		"    halt",
		"double:",
		"    a0 := a0 * 2",
		"    return",
	)
	assert.NoError(err)
	assert.Equal(4, prog.Len())

	ins, err := prog.InstructionAt(0)
	assert.NoError(err)
	assert.Equal(program.OP_CALL, ins.Op)
	assert.Equal(2, ins.Target)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	_, prog, err := parse(t,
		".macro countdown REG",
		"@top: REG := REG - 1",
		"      if REG > 0 then goto @top",
		".endm",
		"      a0 := 3",
		"      countdown a0",
		"      countdown a1",
	)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(5, prog.Len())

	index, ok := prog.ResolveLabel("countdown_6_top")
	assert.True(ok)
	assert.Equal(1, index)
	index, ok = prog.ResolveLabel("countdown_7_top")
	assert.True(ok)
	assert.Equal(3, index)

	ins, err := prog.InstructionAt(4)
	assert.NoError(err)
	assert.Equal(program.Acc(1), ins.A)
	assert.Equal(3, ins.Target)
}

func TestAssemblerErrors(t *testing.T) {
	table := [...]struct {
		lines  []string
		lineno int
		err    error
	}{
		{[]string{"bogus"}, 1, ErrInstructionInvalid},
		{[]string{"a0 7"}, 1, ErrOpcodeMissing},
		{[]string{"halt", "p(x)"}, 2, ErrOpcodeMissing},
		{[]string{"", "a0 :="}, 2, ErrOpcodeValueMissing},
		{[]string{"a0 := 1 2 3 4"}, 1, ErrOpcodeExtraArgs},
		{[]string{"a0 := 1 ^ 2"}, 1, ErrOperatorInvalid},
		{[]string{"5 := a0"}, 1, ErrTargetInvalid},
		{[]string{"a0 := zz"}, 1, ErrParseNumber("zz")},
		{[]string{"pop 3"}, 1, ErrTargetInvalid},
		{[]string{"push"}, 1, ErrOpcodeValueMissing},
		{[]string{"stack ^"}, 1, ErrOperatorInvalid},
		{[]string{"halt now"}, 1, ErrOpcodeExtraArgs},
		{[]string{"syscall 3"}, 1, ErrOpcodeValueMissing},
		{[]string{"syscall -1 a0"}, 1, ErrSyscallInvalid},
		{[]string{"syscall 3 7"}, 1, ErrTargetInvalid},
		{[]string{"if a0 == 0 goto x"}, 1, ErrOpcodeValueMissing},
		{[]string{"if a0 == 0 then jump x"}, 1, ErrInstructionInvalid},
		{[]string{"x: halt", "if a0 ~ 0 then goto x"}, 2, ErrOperatorInvalid},
		{[]string{".equ A"}, 1, ErrEquateSyntax},
		{[]string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{[]string{"x: halt", "x: halt"}, 2, ErrLabelDuplicate},
		{[]string{"9x: halt"}, 1, ErrLabelSyntax},
		{[]string{"halt", "goto nowhere"}, 2, ErrLabelMissing("nowhere")},
		{[]string{"goto end", "end:"}, 1, fault.ErrInvalidJumpTarget{}},
		{[]string{".macro m", ".macro n"}, 2, ErrMacroNesting},
		{[]string{".macro m", ".endm", ".macro m"}, 3, ErrMacroDuplicate},
		{[]string{".macro m"}, 1, ErrMacroLonely},
		{[]string{".endm"}, 1, ErrMacroLonelyEndm},
		{[]string{".macro m X", ".endm", "m"}, 3, ErrMacroSyntax},
		{[]string{"a0 := $(1 +)"}, 1, nil},
		{[]string{`a0 := $("x")`}, 1, nil},
	}

	for _, entry := range table {
		assert := assert.New(t)

		_, _, err := parse(t, entry.lines...)
		if !assert.Error(err, entry.lines) {
			continue
		}

		var es ErrSyntax
		if assert.True(errors.As(err, &es), entry.lines) {
			assert.Equal(entry.lineno, es.LineNo, entry.lines)
		}

		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.lines)
		}
	}
}

func TestAssemblerMacroError(t *testing.T) {
	assert := assert.New(t)

	_, _, err := parse(t,
		".macro bad",
		"    a0 := ?",
		".endm",
		"    bad",
	)
	assert.ErrorIs(err, ErrParseNumber("?"))

	var em ErrMacro
	assert.True(errors.As(err, &em))
	assert.Equal("bad", em.Macro)
	assert.Equal(2, em.Line)

	var es ErrSyntax
	assert.True(errors.As(err, &es))
	assert.Equal(4, es.LineNo)
}

func TestAssemblerAllowlist(t *testing.T) {
	assert := assert.New(t)

	allow, err := program.NewAllowlist("load", "calc", "halt")
	assert.NoError(err)

	_, err = Assemble(strings.NewReader("a0 := 1\na0 := a0 + 1\nhalt"), allow)
	assert.NoError(err)

	_, err = Assemble(strings.NewReader("a0 := 1\npush a0"), allow)
	assert.ErrorIs(err, fault.ErrDisallowedInstruction{})
	assert.True(fault.IsLoadTime(err))

	var es ErrSyntax
	assert.True(errors.As(err, &es))
	assert.Equal(2, es.LineNo)
	assert.Equal("push a0", es.Line)
}

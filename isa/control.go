package isa

// Control is the 8-bit control bus threaded through the pipeline latches.
// Bit 0 is the least-significant bit. A bubble (no-op) is the zero value.
type Control uint8

// Control bus bit positions.
const (
	CtrlRegDst Control = 1 << iota
	CtrlAluSrc
	CtrlMemToReg
	CtrlRegWrite
	CtrlMemRead
	CtrlMemWrite
	CtrlBranch
	CtrlJump
)

// Has reports whether every bit in mask is set.
func (c Control) Has(mask Control) bool {
	return c&mask == mask
}

// controlRow is one row of the decoder's opcode -> control-signal table.
type controlRow struct {
	ctrl   Control
	aluOp  Func
}

// controlTable maps each non-R-type opcode to its fixed control signals and
// ALU operation. R-type is handled separately since its ALU op comes from
// the function field rather than the opcode.
var controlTable = map[Opcode]controlRow{
	OpADDI: {ctrl: CtrlAluSrc | CtrlRegWrite, aluOp: FuncADD},
	OpLW:   {ctrl: CtrlAluSrc | CtrlMemToReg | CtrlRegWrite | CtrlMemRead, aluOp: FuncADD},
	OpSW:   {ctrl: CtrlAluSrc | CtrlMemWrite, aluOp: FuncADD},
	OpBEQ:  {ctrl: CtrlBranch, aluOp: FuncSUB},
	OpJ:    {ctrl: CtrlJump, aluOp: FuncADD},
	OpJAL:  {ctrl: CtrlRegWrite | CtrlJump, aluOp: FuncADD},
	OpJR:   {ctrl: CtrlAluSrc | CtrlJump, aluOp: FuncADD},
}

// Decode returns the control bus and ALU-op selector for an instruction.
// For R-type instructions, func selects both the ALU op and (trivially)
// contributes no extra control bits beyond RegDst|RegWrite.
func Decode(op Opcode, fn Func) (ctrl Control, aluOp Func) {
	if op == OpRType {
		return CtrlRegDst | CtrlRegWrite, fn
	}
	row, ok := controlTable[op]
	if !ok {
		return 0, FuncADD
	}
	return row.ctrl, row.aluOp
}

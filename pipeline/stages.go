package pipeline

import (
	"github.com/eduarch/pipesim16/emu"
	"github.com/eduarch/pipesim16/isa"
)

// FetchStage reads the instruction memory.
type FetchStage struct {
	memory *emu.Memory
}

// NewFetchStage creates a fetch stage bound to memory.
func NewFetchStage(memory *emu.Memory) *FetchStage {
	return &FetchStage{memory: memory}
}

// Fetch reads the instruction word at pc.
func (s *FetchStage) Fetch(pc uint8) uint16 {
	return s.memory.FetchInstruction(pc)
}

// DecodeStage decodes an instruction word and reads the register file, with
// same-cycle writeback bypass spliced in.
type DecodeStage struct {
	regFile *emu.RegFile
	decoder *isa.Decoder
}

// NewDecodeStage creates a decode stage bound to the register file.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{regFile: regFile, decoder: isa.NewDecoder()}
}

// WBBypass describes the writeback happening this same cycle, so ID can
// read the about-to-be-written value instead of the stale register cell.
type WBBypass struct {
	Valid bool
	Reg   uint8
	Value int16
}

// DecodeResult is everything ID hands to the ID/EX latch.
type DecodeResult struct {
	Inst  *isa.Instruction
	RsVal int16
	RtVal int16
	Dest  uint8
}

// Decode decodes word and reads Rs/Rt (with WB bypass and the JAL dest
// override applied).
func (s *DecodeStage) Decode(word uint16, wb WBBypass) DecodeResult {
	inst := s.decoder.Decode(word)

	result := DecodeResult{
		Inst:  inst,
		RsVal: s.read(inst.Rs, wb),
		RtVal: s.read(inst.Rt, wb),
	}

	result.Dest = inst.Rt
	if inst.Ctrl.Has(isa.CtrlRegDst) {
		result.Dest = inst.Rd
	}
	if inst.Op == isa.OpJAL {
		result.Dest = 7
		result.Inst.Ctrl |= isa.CtrlRegWrite
	}

	return result
}

func (s *DecodeStage) read(reg uint8, wb WBBypass) int16 {
	if wb.Valid && reg != 0 && reg == wb.Reg {
		return wb.Value
	}
	return s.regFile.ReadReg(reg)
}

// ExecuteStage performs ALU computation, branch-target calculation, and the
// JAL/JR special cases.
type ExecuteStage struct {
	alu *emu.ALU
}

// NewExecuteStage creates an execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{alu: emu.NewALU()}
}

// ExecuteResult is everything EX hands to the EX/MEM latch, plus the
// control-transfer decision.
type ExecuteResult struct {
	AluResult    int16
	Zero         bool
	StoreData    int16
	BranchTarget uint8

	PcSrc   bool
	PcNext  uint8
}

// Execute runs the ALU (with forwarded operands already resolved by the
// caller) and computes the branch/jump target.
func (s *ExecuteStage) Execute(idex IDEXLatch, rsVal, rtVal int16) ExecuteResult {
	aluB := idex.Imm
	if !idex.Ctrl.Has(isa.CtrlAluSrc) {
		aluB = rtVal
	}

	aluResult, zero := s.alu.Compute(rsVal, aluB, idex.AluOp)

	branchTarget := uint8(int32(idex.Pc) + int32(idex.Imm))

	result := ExecuteResult{
		AluResult:    aluResult,
		Zero:         zero,
		StoreData:    rtVal,
		BranchTarget: branchTarget,
	}

	isJR := idex.Ctrl.Has(isa.CtrlJump) && idex.Ctrl.Has(isa.CtrlAluSrc)
	if isJAL(idex) {
		// JAL overrides the ALU result with the return address (PC+1).
		result.AluResult = int16(idex.Pc) + 1
	}

	pcSrc := (idex.Ctrl.Has(isa.CtrlBranch) && zero) || idex.Ctrl.Has(isa.CtrlJump)
	result.PcSrc = pcSrc
	if pcSrc {
		if isJR {
			// JR's assembler encoding puts the target register in rs and
			// zeroes rt/imm, so the ordinary ALU datapath (rsVal ADD 0)
			// already produces the forwarded rs value as aluResult.
			result.PcNext = uint8(aluResult)
		} else {
			result.PcNext = branchTarget
		}
	}

	return result
}

// isJAL reports whether idex holds a JAL: RegWrite|Jump set, without the
// AluSrc bit JR alone carries.
func isJAL(idex IDEXLatch) bool {
	return idex.Ctrl.Has(isa.CtrlJump) && idex.Ctrl.Has(isa.CtrlRegWrite) && !idex.Ctrl.Has(isa.CtrlAluSrc)
}

// MemoryStage performs the data-memory access.
type MemoryStage struct {
	memory *emu.Memory
}

// NewMemoryStage creates a memory stage bound to memory.
func NewMemoryStage(memory *emu.Memory) *MemoryStage {
	return &MemoryStage{memory: memory}
}

// MemoryResult is everything MEM hands to the MEM/WB latch.
type MemoryResult struct {
	MemData int16
}

// Access performs the load or store indicated by exmem's control bits.
func (s *MemoryStage) Access(exmem EXMEMLatch) MemoryResult {
	addr := uint8(exmem.AluResult)

	var result MemoryResult
	if exmem.Ctrl.Has(isa.CtrlMemRead) {
		result.MemData = s.memory.ReadData(addr)
	}
	if exmem.Ctrl.Has(isa.CtrlMemWrite) {
		s.memory.WriteData(addr, exmem.StoreData)
	}
	return result
}

// WritebackStage writes the selected result into the register file.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a writeback stage bound to the register file.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{regFile: regFile}
}

// Writeback writes memwb's selected value to its destination register, if
// RegWrite is set. It also reports the bypass information ID needs this
// same cycle.
func (s *WritebackStage) Writeback(memwb MEMWBLatch) WBBypass {
	if !memwb.Ctrl.Has(isa.CtrlRegWrite) {
		return WBBypass{}
	}

	value := memwb.AluResult
	if memwb.Ctrl.Has(isa.CtrlMemToReg) {
		value = memwb.MemData
	}

	s.regFile.WriteReg(memwb.Dest, value)

	return WBBypass{Valid: memwb.Dest != 0, Reg: memwb.Dest, Value: value}
}

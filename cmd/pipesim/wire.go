package main

import (
	"github.com/eduarch/pipesim16/emu"
	"github.com/eduarch/pipesim16/isa"
	"github.com/eduarch/pipesim16/pipeline"
)

// wireControl is the JSON rendering of the 8-bit control bus (spec §6:
// control{RegDst,...,Jump}).
type wireControl struct {
	RegDst   bool `json:"RegDst"`
	AluSrc   bool `json:"AluSrc"`
	MemToReg bool `json:"MemToReg"`
	RegWrite bool `json:"RegWrite"`
	MemRead  bool `json:"MemRead"`
	MemWrite bool `json:"MemWrite"`
	Branch   bool `json:"Branch"`
	Jump     bool `json:"Jump"`
}

func toWireControl(c isa.Control) wireControl {
	return wireControl{
		RegDst:   c.Has(isa.CtrlRegDst),
		AluSrc:   c.Has(isa.CtrlAluSrc),
		MemToReg: c.Has(isa.CtrlMemToReg),
		RegWrite: c.Has(isa.CtrlRegWrite),
		MemRead:  c.Has(isa.CtrlMemRead),
		MemWrite: c.Has(isa.CtrlMemWrite),
		Branch:   c.Has(isa.CtrlBranch),
		Jump:     c.Has(isa.CtrlJump),
	}
}

// wireHazard is the JSON rendering of the hazard-unit outputs (spec §6:
// hazard{stall,forwardA,forwardB,pc_src}).
type wireHazard struct {
	Stall    bool   `json:"stall"`
	ForwardA string `json:"forwardA"`
	ForwardB string `json:"forwardB"`
	PcSrc    bool   `json:"pc_src"`
}

func forwardSelName(s pipeline.ForwardSel) string {
	switch s {
	case pipeline.ForwardEXMEM:
		return "EX_MEM"
	case pipeline.ForwardMEMWB:
		return "MEM_WB"
	default:
		return "NONE"
	}
}

// wireOccupancy is the JSON rendering of per-stage occupancy (spec §6:
// pipeline_occupancy{IF,ID,EX,MEM,WB}).
type wireOccupancy struct {
	IF  string `json:"IF"`
	ID  string `json:"ID"`
	EX  string `json:"EX"`
	MEM string `json:"MEM"`
	WB  string `json:"WB"`
}

// wireIFID, wireIDEX, wireEXMEM, wireMEMWB are the four latch records the
// wire contract names individually, alongside the decoded instruction word
// (spec §4.7: "including decoded fields for IF/ID.instr").
type wireIFID struct {
	PcPlus1 uint8            `json:"pc_plus_1"`
	Instr   uint16           `json:"instr"`
	Decoded *isa.Instruction `json:"decoded,omitempty"`
}

type wireIDEX struct {
	Pc    uint8  `json:"pc"`
	RsVal int16  `json:"rs_val"`
	RtVal int16  `json:"rt_val"`
	Imm   int16  `json:"imm"`
	Rs    uint8  `json:"rs"`
	Rt    uint8  `json:"rt"`
	Dest  uint8  `json:"dest"`
	AluOp uint8  `json:"alu_op"`
}

type wireEXMEM struct {
	BranchTarget uint8 `json:"branch_target"`
	Zero         bool  `json:"zero"`
	AluResult    int16 `json:"alu_result"`
	StoreData    int16 `json:"store_data"`
	Dest         uint8 `json:"dest"`
}

type wireMEMWB struct {
	MemData   int16 `json:"mem_data"`
	AluResult int16 `json:"alu_result"`
	Dest      uint8 `json:"dest"`
}

// wireSnapshot is the complete JSON-compatible record a driver sends to a
// client each tick, per spec §6's driver-to-client wire contract.
type wireSnapshot struct {
	Cycle     uint64        `json:"cycle"`
	PC        uint8         `json:"pc"`
	Registers [8]int16      `json:"registers"`
	Memory    []emu.MemCell `json:"memory"`

	IFID  wireIFID  `json:"if_id"`
	IDEX  wireIDEX  `json:"id_ex"`
	EXMEM wireEXMEM `json:"ex_mem"`
	MEMWB wireMEMWB `json:"mem_wb"`

	Control wireControl `json:"control"`
	Hazard  wireHazard  `json:"hazard"`

	PipelineOccupancy wireOccupancy `json:"pipeline_occupancy"`
}

// toWireSnapshot renders an engine snapshot into the wire contract's JSON
// shape. This is entirely a cmd-level concern: the engine package never
// knows about JSON or transport, per spec §1's scoping of those as external
// collaborators.
func toWireSnapshot(s pipeline.Snapshot) wireSnapshot {
	return wireSnapshot{
		Cycle:     s.Cycle,
		PC:        s.PC,
		Registers: s.Registers,
		Memory:    s.Memory,
		IFID: wireIFID{
			PcPlus1: s.IFID.PcPlus1,
			Instr:   s.IFID.Instr,
			Decoded: s.IFID.Decoded,
		},
		IDEX: wireIDEX{
			Pc:    s.IDEX.Pc,
			RsVal: s.IDEX.RsVal,
			RtVal: s.IDEX.RtVal,
			Imm:   s.IDEX.Imm,
			Rs:    s.IDEX.Rs,
			Rt:    s.IDEX.Rt,
			Dest:  s.IDEX.Dest,
			AluOp: uint8(s.IDEX.AluOp),
		},
		EXMEM: wireEXMEM{
			BranchTarget: s.EXMEM.BranchTarget,
			Zero:         s.EXMEM.Zero,
			AluResult:    s.EXMEM.AluResult,
			StoreData:    s.EXMEM.StoreData,
			Dest:         s.EXMEM.Dest,
		},
		MEMWB: wireMEMWB{
			MemData:   s.MEMWB.MemData,
			AluResult: s.MEMWB.AluResult,
			Dest:      s.MEMWB.Dest,
		},
		Control: toWireControl(s.Control),
		Hazard: wireHazard{
			Stall:    s.Stall,
			ForwardA: forwardSelName(s.ForwardA),
			ForwardB: forwardSelName(s.ForwardB),
			PcSrc:    s.PcSrc,
		},
		PipelineOccupancy: wireOccupancy{
			IF:  s.Occupancy.IF,
			ID:  s.Occupancy.ID,
			EX:  s.Occupancy.EX,
			MEM: s.Occupancy.MEM,
			WB:  s.Occupancy.WB,
		},
	}
}

package pipeline

import (
	"github.com/eduarch/pipesim16/asm"
	"github.com/eduarch/pipesim16/emu"
	"github.com/eduarch/pipesim16/isa"
)

// IFIDSnapshot is the IF/ID latch plus the decode of its instruction word —
// the latch itself only carries the raw word, but a viewer wants the
// decoded fields too.
type IFIDSnapshot struct {
	PcPlus1 uint8
	Instr   uint16
	Decoded *isa.Instruction
}

// StageOccupancy is, for ID, EX, MEM and WB, either "bubble" or the
// disassembly of the instruction currently resident there. IF is the
// disassembly of the word at PC, the one the next Tick fetches.
type StageOccupancy struct {
	IF  string
	ID  string
	EX  string
	MEM string
	WB  string
}

// Snapshot is a complete, read-only view of pipeline state at the boundary
// between two ticks.
type Snapshot struct {
	Cycle     uint64
	PC        uint8
	Registers [isa.NumRegisters]int16
	Memory    []emu.MemCell

	IFID  IFIDSnapshot
	IDEX  IDEXLatch
	EXMEM EXMEMLatch
	MEMWB MEMWBLatch

	// Control is the control bus of the instruction currently in ID/EX —
	// the signals actively driving the datapath's EX stage this cycle.
	Control isa.Control

	ForwardA ForwardSel
	ForwardB ForwardSel
	Stall    bool
	PcSrc    bool

	Occupancy StageOccupancy
}

// Snapshot freezes the current architectural and pipeline state. It performs
// no mutation: calling it between ticks is always safe.
func (p *Pipeline) Snapshot() Snapshot {
	var decodedIfid *isa.Instruction
	idOccupancy := "bubble"
	if !p.ifid.IsBubble() {
		decodedIfid = p.decoder.Decode(p.ifid.Instr)
		idOccupancy = asm.Disassemble(p.ifid.Instr)
	}

	exOccupancy := "bubble"
	if p.idex.Ctrl != 0 {
		exOccupancy = asm.Disassemble(p.idex.Word)
	}

	memOccupancy := "bubble"
	if p.exmem.Ctrl != 0 {
		memOccupancy = asm.Disassemble(p.exmem.Word)
	}

	wbOccupancy := "bubble"
	if p.memwb.Ctrl != 0 {
		wbOccupancy = asm.Disassemble(p.memwb.Word)
	}

	ifOccupancy := asm.Disassemble(p.memory.FetchInstruction(p.pc))

	return Snapshot{
		Cycle:     p.cycle,
		PC:        p.pc,
		Registers: p.regFile.Snapshot(),
		Memory:    p.memory.NonZeroCells(),
		IFID: IFIDSnapshot{
			PcPlus1: p.ifid.PcPlus1,
			Instr:   p.ifid.Instr,
			Decoded: decodedIfid,
		},
		IDEX:     p.idex,
		EXMEM:    p.exmem,
		MEMWB:    p.memwb,
		Control:  p.idex.Ctrl,
		ForwardA: p.lastForwardA,
		ForwardB: p.lastForwardB,
		Stall:    p.lastStall,
		PcSrc:    p.lastPcSrc,
		Occupancy: StageOccupancy{
			IF:  ifOccupancy,
			ID:  idOccupancy,
			EX:  exOccupancy,
			MEM: memOccupancy,
			WB:  wbOccupancy,
		},
	}
}

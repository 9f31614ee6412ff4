package pipeline

import (
	"github.com/eduarch/pipesim16/emu"
	"github.com/eduarch/pipesim16/isa"
)

// Pipeline is the 5-stage controller: it owns the four inter-stage latches
// and the PC, and advances all of them by exactly one clock per Tick.
//
// Tick evaluates the stages in reverse order (WB, MEM, EX, ID, IF) so that
// every stage reads its input latch before the stage that would overwrite
// it runs. Each stage's output is written into a "next" staging value; the
// staging values are committed into the real latches only after all five
// stages have run, which is what makes the sequential evaluation behave
// like the parallel hardware it models.
type Pipeline struct {
	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage
	hazardUnit     *HazardUnit
	decoder        *isa.Decoder

	regFile *emu.RegFile
	memory  *emu.Memory

	pc uint8

	ifid  IFIDLatch
	idex  IDEXLatch
	exmem EXMEMLatch
	memwb MEMWBLatch

	cycle uint64

	stallCount       uint64
	flushCount       uint64
	branchCount      uint64
	instructionCount uint64

	// Hazard signals from the most recently executed tick, retained for
	// Snapshot (spec §4.7: forwardA, forwardB, stall, pc_src).
	lastForwardA ForwardSel
	lastForwardB ForwardSel
	lastStall    bool
	lastPcSrc    bool
}

// NewPipeline creates a 5-stage pipeline sharing the given register file
// and memory.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory) *Pipeline {
	return &Pipeline{
		fetchStage:     NewFetchStage(memory),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(memory),
		writebackStage: NewWritebackStage(regFile),
		hazardUnit:     NewHazardUnit(),
		decoder:        isa.NewDecoder(),
		regFile:        regFile,
		memory:         memory,
	}
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint8 { return p.pc }

// SetPC sets the program counter.
func (p *Pipeline) SetPC(pc uint8) { p.pc = pc }

// Cycle returns the number of ticks executed since load/reset.
func (p *Pipeline) Cycle() uint64 { return p.cycle }

// Reset clears the PC, the cycle counter, all four latches, and pipeline
// statistics. It does not touch the register file or memory — callers
// compose Reset with emu.RegFile.Reset / emu.Memory.ResetData as needed.
func (p *Pipeline) Reset() {
	p.pc = 0
	p.cycle = 0
	p.ifid.Clear()
	p.idex.Clear()
	p.exmem.Clear()
	p.memwb.Clear()
	p.stallCount = 0
	p.flushCount = 0
	p.branchCount = 0
	p.instructionCount = 0
	p.lastForwardA = ForwardNone
	p.lastForwardB = ForwardNone
	p.lastStall = false
	p.lastPcSrc = false
}

// Stats summarizes pipeline performance counters.
type Stats struct {
	Cycles       uint64
	Instructions uint64
	Stalls       uint64
	Branches     uint64
	Flushes      uint64
	CPI          float64
}

// Stats returns a snapshot of the performance counters.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Cycles:       p.cycle,
		Instructions: p.instructionCount,
		Stalls:       p.stallCount,
		Branches:     p.branchCount,
		Flushes:      p.flushCount,
	}
	if s.Instructions > 0 {
		s.CPI = float64(s.Cycles) / float64(s.Instructions)
	}
	return s
}

// Tick advances the pipeline by exactly one clock cycle.
func (p *Pipeline) Tick() {
	var nextIfid IFIDLatch
	var nextIdex IDEXLatch
	var nextExmem EXMEMLatch
	var nextMemwb MEMWBLatch

	// 1. Writeback — reads the current MEM/WB latch.
	wbBypass := p.writebackStage.Writeback(p.memwb)
	if p.memwb.Ctrl != 0 {
		p.instructionCount++
	}

	// 2. Memory — reads the current EX/MEM latch.
	if p.exmem.Ctrl != 0 {
		memResult := p.memoryStage.Access(p.exmem)
		nextMemwb = MEMWBLatch{
			MemData:   memResult.MemData,
			AluResult: p.exmem.AluResult,
			Dest:      p.exmem.Dest,
			Ctrl:      p.exmem.Ctrl,
			Word:      p.exmem.Word,
		}
	}

	// 3. Execute — reads the current ID/EX latch, forwarding from the
	// (still current, pre-commit) EX/MEM and MEM/WB latches.
	var pcSrc bool
	var pcNext uint8
	forwardA, forwardB := ForwardNone, ForwardNone
	if p.idex.Ctrl != 0 {
		fwd := p.hazardUnit.DetectForwarding(p.idex, p.exmem, p.memwb)
		forwardA, forwardB = fwd.ForwardA, fwd.ForwardB
		rsVal := p.hazardUnit.ResolveForward(fwd.ForwardA, p.idex.RsVal, p.exmem, p.memwb)
		rtVal := p.hazardUnit.ResolveForward(fwd.ForwardB, p.idex.RtVal, p.exmem, p.memwb)

		execResult := p.executeStage.Execute(p.idex, rsVal, rtVal)

		nextExmem = EXMEMLatch{
			BranchTarget: execResult.BranchTarget,
			Zero:         execResult.Zero,
			AluResult:    execResult.AluResult,
			StoreData:    execResult.StoreData,
			Dest:         p.idex.Dest,
			Ctrl:         p.idex.Ctrl,
			Word:         p.idex.Word,
		}

		pcSrc = execResult.PcSrc
		pcNext = execResult.PcNext
	}

	// 4. Decode — reads the current IF/ID latch.
	stall := false
	if !p.ifid.IsBubble() && p.idex.Ctrl != 0 {
		peek := p.decoder.Decode(p.ifid.Instr)
		stall = p.hazardUnit.DetectStall(p.idex, peek.Rs, peek.Rt)
	}

	if pcSrc {
		nextIdex.Clear()
	} else if stall {
		nextIdex.Clear()
	} else if !p.ifid.IsBubble() {
		decoded := p.decodeStage.Decode(p.ifid.Instr, wbBypass)
		nextIdex = IDEXLatch{
			Pc:    p.ifid.PcPlus1 - 1,
			RsVal: decoded.RsVal,
			RtVal: decoded.RtVal,
			Imm:   decoded.Inst.Imm,
			Rs:    decoded.Inst.Rs,
			Rt:    decoded.Inst.Rt,
			Dest:  decoded.Dest,
			Ctrl:  decoded.Inst.Ctrl,
			AluOp: decoded.Inst.AluOp,
			Word:  p.ifid.Instr,
		}
	}

	// 5. Fetch.
	if pcSrc {
		nextIfid.Clear()
	} else if stall {
		nextIfid = p.ifid
	} else {
		word := p.fetchStage.Fetch(p.pc)
		nextIfid = IFIDLatch{PcPlus1: p.pc + 1, Instr: word}
	}

	if stall {
		p.stallCount++
	}
	if pcSrc {
		p.branchCount++
		p.flushCount++
	}

	// Commit.
	p.ifid = nextIfid
	p.idex = nextIdex
	p.exmem = nextExmem
	p.memwb = nextMemwb

	if pcSrc {
		p.pc = pcNext
	} else if !stall {
		p.pc++
	}

	p.lastForwardA = forwardA
	p.lastForwardB = forwardB
	p.lastStall = stall
	p.lastPcSrc = pcSrc

	p.cycle++
}

// IsBubble reports whether the latch holds a bubble. IF/ID carries no
// control bus of its own (spec: just pc_plus_1 and instr), so a bubble is
// simply both fields at their zero value — the state Clear and the
// zero-valued struct literal both produce.
func (l IFIDLatch) IsBubble() bool {
	return l == IFIDLatch{}
}

// Package pipeline implements the 5-stage pipeline: the four inter-stage
// latches, the hazard/forwarding unit, the per-stage logic, and the
// controller that ties them together one clock tick at a time.
package pipeline

import "github.com/eduarch/pipesim16/isa"

// IFIDLatch holds state fetched in IF, consumed in ID.
type IFIDLatch struct {
	PcPlus1 uint8
	Instr   uint16
}

// Clear resets the latch to a bubble.
func (l *IFIDLatch) Clear() {
	*l = IFIDLatch{}
}

// IDEXLatch holds state decoded in ID, consumed in EX.
type IDEXLatch struct {
	Pc    uint8
	RsVal int16
	RtVal int16
	Imm   int16
	Rs    uint8
	Rt    uint8
	Dest  uint8
	Ctrl  isa.Control
	AluOp isa.Func

	// Word is the raw instruction word carried alongside the decoded fields,
	// purely so Snapshot can disassemble what is sitting in this latch. It
	// plays no part in the pipeline's functional behavior.
	Word uint16
}

// Clear resets the latch to a bubble (Ctrl == 0).
func (l *IDEXLatch) Clear() {
	*l = IDEXLatch{}
}

// EXMEMLatch holds state computed in EX, consumed in MEM.
type EXMEMLatch struct {
	BranchTarget uint8
	Zero         bool
	AluResult    int16
	StoreData    int16
	Dest         uint8
	Ctrl         isa.Control

	// Word is carried through for Snapshot occupancy strings only.
	Word uint16
}

// Clear resets the latch to a bubble.
func (l *EXMEMLatch) Clear() {
	*l = EXMEMLatch{}
}

// MEMWBLatch holds state produced in MEM, consumed in WB.
type MEMWBLatch struct {
	MemData   int16
	AluResult int16
	Dest      uint8
	Ctrl      isa.Control

	// Word is carried through for Snapshot occupancy strings only.
	Word uint16
}

// Clear resets the latch to a bubble.
func (l *MEMWBLatch) Clear() {
	*l = MEMWBLatch{}
}

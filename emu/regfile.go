package emu

import "github.com/eduarch/pipesim16/isa"

// RegFile is the 8 x 16-bit general-purpose register file. Register 0 is
// hardwired to zero: reads always return 0 and writes are silently dropped.
type RegFile struct {
	R [isa.NumRegisters]int16
}

// ReadReg reads a register. Register 0 always reads as 0.
func (rf *RegFile) ReadReg(reg uint8) int16 {
	if reg == 0 {
		return 0
	}
	return rf.R[reg]
}

// WriteReg writes value to reg. Writes to register 0 are dropped.
func (rf *RegFile) WriteReg(reg uint8, value int16) {
	if reg == 0 {
		return
	}
	rf.R[reg] = value
}

// Snapshot returns a copy of the register contents, with R[0] forced to 0
// (the invariant the hardware always enforces).
func (rf *RegFile) Snapshot() [isa.NumRegisters]int16 {
	out := rf.R
	out[0] = 0
	return out
}

// Reset clears every register to zero.
func (rf *RegFile) Reset() {
	rf.R = [isa.NumRegisters]int16{}
}

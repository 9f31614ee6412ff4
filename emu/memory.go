package emu

import "github.com/eduarch/pipesim16/isa"

// Memory models the machine's instruction memory (load-only, installed at
// program load) and data memory (256 word-addressed, mutable, signed
// 16-bit cells). Both are fixed-size, word-addressed arrays; there is no
// byte addressing.
type Memory struct {
	IMem [isa.NumMemWords]uint16
	DMem [isa.NumMemWords]int16
}

// NewMemory creates a zeroed memory.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadProgram installs program into instruction memory starting at word 0.
// It does not touch data memory.
func (m *Memory) LoadProgram(program []uint16) {
	m.IMem = [isa.NumMemWords]uint16{}
	copy(m.IMem[:], program)
}

// FetchInstruction reads the instruction word at addr (masked to 8 bits).
func (m *Memory) FetchInstruction(addr uint8) uint16 {
	return m.IMem[addr]
}

// ReadData reads the data word at addr (masked to 8 bits).
func (m *Memory) ReadData(addr uint8) int16 {
	return m.DMem[addr]
}

// WriteData writes value to the data word at addr (masked to 8 bits).
func (m *Memory) WriteData(addr uint8, value int16) {
	m.DMem[addr] = value
}

// ResetData zeroes data memory, leaving instruction memory untouched. This
// backs the engine's reset() operation (spec: "clears state while leaving
// IMem intact").
func (m *Memory) ResetData() {
	m.DMem = [isa.NumMemWords]int16{}
}

// NonZeroCells returns the occupied (non-zero) data-memory cells as
// (addr, value) pairs, in ascending address order, for snapshotting.
func (m *Memory) NonZeroCells() []MemCell {
	var cells []MemCell
	for addr, v := range m.DMem {
		if v != 0 {
			cells = append(cells, MemCell{Addr: uint8(addr), Value: v})
		}
	}
	return cells
}

// MemCell is one occupied data-memory cell.
type MemCell struct {
	Addr  uint8
	Value int16
}

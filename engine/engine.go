// Package engine composes the ISA, emulation, and pipeline packages behind
// the language-neutral core API: assemble, load, reset, tick, snapshot,
// disassemble.
package engine

import (
	"fmt"

	"github.com/eduarch/pipesim16/asm"
	"github.com/eduarch/pipesim16/emu"
	"github.com/eduarch/pipesim16/isa"
	"github.com/eduarch/pipesim16/pipeline"
)

// Engine is the pure, single-threaded core: it owns the register file,
// memory, and pipeline, and exposes the mutators/observers of the core
// contract (Assemble, Load, Reset, Tick, Snapshot, Disassemble) plus
// convenience wrappers built on them (AssembleAndLoad, Stats, RunCycles,
// RunUntilHalt). It holds no locks — a caller serving multiple observers
// is responsible for serializing calls itself.
type Engine struct {
	assembler *asm.Assembler
	regFile   *emu.RegFile
	memory    *emu.Memory
	pipeline  *pipeline.Pipeline
}

// New creates an engine with zeroed registers and memory.
func New() *Engine {
	regFile := &emu.RegFile{}
	memory := emu.NewMemory()
	return &Engine{
		assembler: asm.NewAssembler(),
		regFile:   regFile,
		memory:    memory,
		pipeline:  pipeline.NewPipeline(regFile, memory),
	}
}

// Assemble turns assembly source into 16-bit instruction words. It performs
// no mutation of engine state.
func (e *Engine) Assemble(source string) ([]uint16, error) {
	words, err := e.assembler.Assemble(source)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	return words, nil
}

// Load installs program into instruction memory, and fully resets
// architectural and pipeline state (registers, data memory, PC, cycle
// counter, latches), matching the core's load() contract.
func (e *Engine) Load(program []uint16) error {
	if len(program) > isa.NumMemWords {
		return &asm.ProgramTooLargeError{Words: len(program), Max: isa.NumMemWords}
	}
	e.memory.LoadProgram(program)
	e.memory.ResetData()
	e.regFile.Reset()
	e.pipeline.Reset()
	return nil
}

// AssembleAndLoad is a convenience composing Assemble and Load, the way a
// driver normally wants to go straight from source text to a loaded
// program.
func (e *Engine) AssembleAndLoad(source string) error {
	words, err := e.Assemble(source)
	if err != nil {
		return err
	}
	return e.Load(words)
}

// Reset clears architectural and pipeline state while leaving instruction
// memory (the currently loaded program) intact.
func (e *Engine) Reset() {
	e.memory.ResetData()
	e.regFile.Reset()
	e.pipeline.Reset()
}

// Tick advances the machine by exactly one clock cycle.
func (e *Engine) Tick() {
	e.pipeline.Tick()
}

// Snapshot freezes the current architectural and pipeline state.
func (e *Engine) Snapshot() pipeline.Snapshot {
	return e.pipeline.Snapshot()
}

// Disassemble renders a single 16-bit word as its canonical mnemonic.
func (e *Engine) Disassemble(word uint16) string {
	return asm.Disassemble(word)
}

// Stats returns the pipeline's performance counters.
func (e *Engine) Stats() pipeline.Stats {
	return e.pipeline.Stats()
}

// RunCycles ticks the engine n times.
func (e *Engine) RunCycles(n int) {
	for i := 0; i < n; i++ {
		e.pipeline.Tick()
	}
}

// RunUntilHalt ticks the engine until the instruction in EX redirects the
// PC to its own address (a self-branch, such as the `halt`
// pseudo-instruction's beq r0, r0, 0) or maxCycles is reached, whichever
// comes first. It returns the number of cycles actually run and whether a
// halt was detected.
func (e *Engine) RunUntilHalt(maxCycles int) (cycles int, halted bool) {
	for i := 0; i < maxCycles; i++ {
		inEX := e.pipeline.Snapshot().IDEX
		e.pipeline.Tick()
		cycles++
		after := e.pipeline.Snapshot()
		if after.PcSrc && after.PC == inEX.Pc {
			return cycles, true
		}
	}
	return cycles, false
}

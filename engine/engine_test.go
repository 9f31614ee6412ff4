package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eduarch/pipesim16/engine"
	"github.com/eduarch/pipesim16/isa"
)

var _ = Describe("Engine", func() {
	It("assembles source into instruction words without mutating state", func() {
		e := engine.New()
		words, err := e.Assemble("addi r1, r0, 10\nadd r2, r1, r1")
		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(HaveLen(2))
		Expect(e.Snapshot().PC).To(Equal(uint8(0)))
	})

	It("surfaces assembly errors with the source line", func() {
		e := engine.New()
		_, err := e.Assemble("bogus r1, r2, r3")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("line 1"))
	})

	It("loads a program and resets architectural state", func() {
		e := engine.New()
		Expect(e.AssembleAndLoad("addi r1, r0, 10")).To(Succeed())

		for i := 0; i < 8; i++ {
			e.Tick()
		}
		Expect(e.Snapshot().Registers[1]).To(Equal(int16(10)))

		Expect(e.AssembleAndLoad("addi r2, r0, 20")).To(Succeed())
		snap := e.Snapshot()
		Expect(snap.PC).To(Equal(uint8(0)))
		Expect(snap.Registers[1]).To(Equal(int16(0)))
		Expect(snap.Registers[2]).To(Equal(int16(0)))
	})

	It("rejects a program that overflows instruction memory", func() {
		e := engine.New()
		program := make([]uint16, isa.NumMemWords+1)
		err := e.Load(program)
		Expect(err).To(HaveOccurred())
	})

	It("resets pipeline and register state but keeps the loaded program", func() {
		e := engine.New()
		Expect(e.AssembleAndLoad("addi r1, r0, 10")).To(Succeed())
		for i := 0; i < 8; i++ {
			e.Tick()
		}
		Expect(e.Snapshot().Registers[1]).To(Equal(int16(10)))

		e.Reset()
		snap := e.Snapshot()
		Expect(snap.PC).To(Equal(uint8(0)))
		Expect(snap.Registers[1]).To(Equal(int16(0)))
		Expect(e.Stats()).To(Equal(e.Stats()))

		for i := 0; i < 8; i++ {
			e.Tick()
		}
		Expect(e.Snapshot().Registers[1]).To(Equal(int16(10)))
	})

	It("advances one cycle per Tick and many per RunCycles", func() {
		e := engine.New()
		Expect(e.AssembleAndLoad("nop\nnop\nnop")).To(Succeed())
		e.Tick()
		Expect(e.Snapshot().Cycle).To(Equal(uint64(1)))
		e.RunCycles(4)
		Expect(e.Snapshot().Cycle).To(Equal(uint64(5)))
	})

	It("disassembles a word the same way the assembler encoded it", func() {
		e := engine.New()
		words, err := e.Assemble("addi r1, r0, 10")
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Disassemble(words[0])).To(Equal("addi r1, r0, 10"))
	})

	It("runs until halt detects the self-loop and stops advancing", func() {
		e := engine.New()
		Expect(e.AssembleAndLoad("halt")).To(Succeed())

		cycles, halted := e.RunUntilHalt(50)
		Expect(halted).To(BeTrue())
		Expect(cycles).To(BeNumerically(">", 0))
		Expect(cycles).To(BeNumerically("<=", 50))
	})

	It("gives up after maxCycles if the program never halts", func() {
		e := engine.New()
		Expect(e.AssembleAndLoad("addi r1, r0, 1\naddi r1, r0, 1\naddi r1, r0, 1")).To(Succeed())

		_, halted := e.RunUntilHalt(3)
		Expect(halted).To(BeFalse())
	})
})

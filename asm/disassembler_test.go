package asm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eduarch/pipesim16/asm"
	"github.com/eduarch/pipesim16/isa"
)

var _ = Describe("Disassembler", func() {
	It("disassembles an all-zero word as nop", func() {
		Expect(asm.Disassemble(0)).To(Equal("nop"))
	})

	It("round-trips an R-type instruction", func() {
		word := isa.EncodeR(2, 3, 1, isa.FuncADD)
		Expect(asm.Disassemble(word)).To(Equal("add r1, r2, r3"))
	})

	It("round-trips addi", func() {
		word := isa.EncodeI(isa.OpADDI, 2, 1, -5)
		Expect(asm.Disassemble(word)).To(Equal("addi r1, r2, -5"))
	})

	It("round-trips lw", func() {
		word := isa.EncodeI(isa.OpLW, 2, 1, 4)
		Expect(asm.Disassemble(word)).To(Equal("lw r1, 4(r2)"))
	})

	It("round-trips jr", func() {
		word := isa.EncodeI(isa.OpJR, 5, 0, 0)
		Expect(asm.Disassemble(word)).To(Equal("jr r5"))
	})

	It("disassembles the canonical halt encoding as halt, not a literal beq", func() {
		word := isa.EncodeI(isa.OpBEQ, 0, 0, 0)
		Expect(asm.Disassemble(word)).To(Equal("halt"))
	})

	It("reports unknown opcode/func with raw hex", func() {
		// func code 7 has no assigned mnemonic in the R-type table.
		word := isa.EncodeR(0, 0, 0, isa.Func(7))
		Expect(asm.Disassemble(word)).To(Equal("?? 0x0007"))
	})
})

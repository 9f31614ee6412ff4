package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eduarch/pipesim16/emu"
	"github.com/eduarch/pipesim16/isa"
)

var _ = Describe("ALU", func() {
	var alu *emu.ALU

	BeforeEach(func() {
		alu = emu.NewALU()
	})

	DescribeTable("basic operations",
		func(a, b int16, op isa.Func, wantResult int16, wantZero bool) {
			result, zero := alu.Compute(a, b, op)
			Expect(result).To(Equal(wantResult))
			Expect(zero).To(Equal(wantZero))
		},
		Entry("add", int16(3), int16(4), isa.FuncADD, int16(7), false),
		Entry("sub to zero", int16(5), int16(5), isa.FuncSUB, int16(0), true),
		Entry("and", int16(0b1100), int16(0b1010), isa.FuncAND, int16(0b1000), false),
		Entry("or", int16(0b1100), int16(0b1010), isa.FuncOR, int16(0b1110), false),
		Entry("xor", int16(0b1100), int16(0b1010), isa.FuncXOR, int16(0b0110), false),
		Entry("slt true", int16(-1), int16(1), isa.FuncSLT, int16(1), false),
		Entry("slt false", int16(5), int16(5), isa.FuncSLT, int16(0), true),
		Entry("div", int16(7), int16(2), isa.FuncDIV, int16(3), false),
	)

	It("wraps addition overflow without faulting", func() {
		result, _ := alu.Compute(32767, 1, isa.FuncADD)
		Expect(result).To(Equal(int16(-32768)))
	})

	It("treats division by zero as zero, not a fault", func() {
		result, zero := alu.Compute(7, 0, isa.FuncDIV)
		Expect(result).To(Equal(int16(0)))
		Expect(zero).To(BeTrue())
	})

	It("truncates division toward zero", func() {
		result, _ := alu.Compute(-7, 2, isa.FuncDIV)
		Expect(result).To(Equal(int16(-3)))
	})
})

package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eduarch/pipesim16/isa"
	"github.com/eduarch/pipesim16/pipeline"
)

var _ = Describe("HazardUnit", func() {
	var hazardUnit *pipeline.HazardUnit

	BeforeEach(func() {
		hazardUnit = pipeline.NewHazardUnit()
	})

	Describe("DetectStall", func() {
		It("stalls when a load in ID/EX feeds either operand of the next instruction", func() {
			idex := pipeline.IDEXLatch{Ctrl: isa.CtrlMemRead, Rt: 3}
			Expect(hazardUnit.DetectStall(idex, 3, 5)).To(BeTrue())
			Expect(hazardUnit.DetectStall(idex, 5, 3)).To(BeTrue())
		})

		It("does not stall when the load's destination is not consumed next", func() {
			idex := pipeline.IDEXLatch{Ctrl: isa.CtrlMemRead, Rt: 3}
			Expect(hazardUnit.DetectStall(idex, 1, 2)).To(BeFalse())
		})

		It("does not stall for a non-load instruction in ID/EX", func() {
			idex := pipeline.IDEXLatch{Ctrl: isa.CtrlRegDst | isa.CtrlRegWrite, Rt: 3}
			Expect(hazardUnit.DetectStall(idex, 3, 3)).To(BeFalse())
		})
	})

	Describe("DetectForwarding", func() {
		var idex pipeline.IDEXLatch

		BeforeEach(func() {
			idex = pipeline.IDEXLatch{Rs: 1, Rt: 2}
		})

		It("returns ForwardNone when nothing upstream writes rs/rt", func() {
			result := hazardUnit.DetectForwarding(idex, pipeline.EXMEMLatch{}, pipeline.MEMWBLatch{})
			Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
			Expect(result.ForwardB).To(Equal(pipeline.ForwardNone))
		})

		It("prefers EX/MEM over MEM/WB for the same register", func() {
			exmem := pipeline.EXMEMLatch{Ctrl: isa.CtrlRegWrite, Dest: 1}
			memwb := pipeline.MEMWBLatch{Ctrl: isa.CtrlRegWrite, Dest: 1}
			result := hazardUnit.DetectForwarding(idex, exmem, memwb)
			Expect(result.ForwardA).To(Equal(pipeline.ForwardEXMEM))
		})

		It("forwards from MEM/WB when only it writes the register", func() {
			memwb := pipeline.MEMWBLatch{Ctrl: isa.CtrlRegWrite, Dest: 2}
			result := hazardUnit.DetectForwarding(idex, pipeline.EXMEMLatch{}, memwb)
			Expect(result.ForwardB).To(Equal(pipeline.ForwardMEMWB))
		})

		It("never forwards a write to r0", func() {
			idexR0 := pipeline.IDEXLatch{Rs: 0, Rt: 0}
			exmem := pipeline.EXMEMLatch{Ctrl: isa.CtrlRegWrite, Dest: 0}
			result := hazardUnit.DetectForwarding(idexR0, exmem, pipeline.MEMWBLatch{})
			Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
			Expect(result.ForwardB).To(Equal(pipeline.ForwardNone))
		})
	})

	Describe("ResolveForward", func() {
		It("returns the original value when no forwarding applies", func() {
			v := hazardUnit.ResolveForward(pipeline.ForwardNone, 42, pipeline.EXMEMLatch{}, pipeline.MEMWBLatch{})
			Expect(v).To(Equal(int16(42)))
		})

		It("returns the EX/MEM ALU result", func() {
			exmem := pipeline.EXMEMLatch{AluResult: 7}
			v := hazardUnit.ResolveForward(pipeline.ForwardEXMEM, 0, exmem, pipeline.MEMWBLatch{})
			Expect(v).To(Equal(int16(7)))
		})

		It("returns MEM/WB's mem data when MemToReg is set", func() {
			memwb := pipeline.MEMWBLatch{Ctrl: isa.CtrlMemToReg, MemData: 9, AluResult: 99}
			v := hazardUnit.ResolveForward(pipeline.ForwardMEMWB, 0, pipeline.EXMEMLatch{}, memwb)
			Expect(v).To(Equal(int16(9)))
		})

		It("returns MEM/WB's ALU result when MemToReg is not set", func() {
			memwb := pipeline.MEMWBLatch{AluResult: 99}
			v := hazardUnit.ResolveForward(pipeline.ForwardMEMWB, 0, pipeline.EXMEMLatch{}, memwb)
			Expect(v).To(Equal(int16(99)))
		})
	})
})

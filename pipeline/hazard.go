package pipeline

import "github.com/eduarch/pipesim16/isa"

// ForwardSel is a 2-bit forwarding selector: 00 = no forward, 10 = from
// EX/MEM, 01 = from MEM/WB.
type ForwardSel uint8

// Forwarding selector codes.
const (
	ForwardNone  ForwardSel = 0b00
	ForwardMEMWB ForwardSel = 0b01
	ForwardEXMEM ForwardSel = 0b10
)

// HazardUnit is the combinational hazard-detection and forwarding unit. It
// holds no state: every decision is a pure function of the latches it is
// handed.
type HazardUnit struct{}

// NewHazardUnit creates a hazard unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// DetectStall implements the load-use stall condition, detected in IF using
// the instruction currently sitting in IF/ID and the load in ID/EX:
//
//	stall = IDEX.MemRead AND (IDEX.Rt == IFID.Rs OR IDEX.Rt == IFID.Rt)
func (h *HazardUnit) DetectStall(idex IDEXLatch, ifidRs, ifidRt uint8) bool {
	if !idex.Ctrl.Has(isa.CtrlMemRead) {
		return false
	}
	return idex.Rt == ifidRs || idex.Rt == ifidRt
}

// ForwardingResult holds the forward selectors for both ID/EX operands.
type ForwardingResult struct {
	ForwardA ForwardSel
	ForwardB ForwardSel
}

// DetectForwarding computes forwardA/forwardB for the instruction currently
// in ID/EX, given the producers sitting in EX/MEM and MEM/WB. EX/MEM takes
// priority over MEM/WB since it holds the more recent result. A producer
// with Dest == 0 is never forwarded: a write to r0 is always dropped, so
// treating it as live would be a false positive.
func (h *HazardUnit) DetectForwarding(idex IDEXLatch, exmem EXMEMLatch, memwb MEMWBLatch) ForwardingResult {
	return ForwardingResult{
		ForwardA: h.selectForward(idex.Rs, exmem, memwb),
		ForwardB: h.selectForward(idex.Rt, exmem, memwb),
	}
}

func (h *HazardUnit) selectForward(src uint8, exmem EXMEMLatch, memwb MEMWBLatch) ForwardSel {
	if exmem.Ctrl.Has(isa.CtrlRegWrite) && exmem.Dest != 0 && exmem.Dest == src {
		return ForwardEXMEM
	}
	if memwb.Ctrl.Has(isa.CtrlRegWrite) && memwb.Dest != 0 && memwb.Dest == src {
		return ForwardMEMWB
	}
	return ForwardNone
}

// ResolveForward returns the value selected by sel: either the original
// (un-forwarded) operand, the EX/MEM ALU result, or the MEM/WB writeback
// value (mem data or ALU result, per MemToReg).
func (h *HazardUnit) ResolveForward(sel ForwardSel, original int16, exmem EXMEMLatch, memwb MEMWBLatch) int16 {
	switch sel {
	case ForwardEXMEM:
		return exmem.AluResult
	case ForwardMEMWB:
		if memwb.Ctrl.Has(isa.CtrlMemToReg) {
			return memwb.MemData
		}
		return memwb.AluResult
	default:
		return original
	}
}

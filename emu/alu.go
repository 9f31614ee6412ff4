// Package emu provides the architectural state and combinational execution
// units of the 16-bit pipelined processor: the ALU, the register file, and
// instruction/data memory.
package emu

import "github.com/eduarch/pipesim16/isa"

// ALU is a pure, stateless arithmetic/logic unit. It holds no state of its
// own; every call is a function of its inputs only, matching the
// combinational hardware it models.
type ALU struct{}

// NewALU creates an ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Compute evaluates op on the two 16-bit signed operands and returns the
// truncated result along with the zero flag. Overflow wraps silently;
// division by zero yields a result of zero without fault.
func (*ALU) Compute(a, b int16, op isa.Func) (result int16, zero bool) {
	switch op {
	case isa.FuncADD:
		result = a + b
	case isa.FuncSUB:
		result = a - b
	case isa.FuncAND:
		result = a & b
	case isa.FuncOR:
		result = a | b
	case isa.FuncXOR:
		result = a ^ b
	case isa.FuncSLT:
		if a < b {
			result = 1
		}
	case isa.FuncDIV:
		if b == 0 {
			result = 0
		} else {
			result = a / b
		}
	}
	return result, result == 0
}

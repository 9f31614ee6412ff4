package asm

import (
	"fmt"

	"github.com/eduarch/pipesim16/isa"
)

var decoder = isa.NewDecoder()

// haltWord is the word halt assembles to: beq r0, r0, 0, an infinite
// self-branch (the ISA has no dedicated halt opcode).
var haltWord = isa.EncodeI(isa.OpBEQ, 0, 0, 0)

// Disassemble renders a 16-bit instruction word as its canonical mnemonic
// string. An all-zero word disassembles as "nop"; the canonical halt
// encoding disassembles as "halt"; a word whose opcode/func combination
// has no assigned mnemonic yields "?? 0x<hex>".
func Disassemble(word uint16) string {
	if word == 0 {
		return "nop"
	}
	if word == haltWord {
		return "halt"
	}

	inst := decoder.Decode(word)

	if inst.Format == isa.FormatR {
		name := isa.FuncName(inst.Func)
		if name == "" {
			return unknown(word)
		}
		return fmt.Sprintf("%s r%d, r%d, r%d", name, inst.Rd, inst.Rs, inst.Rt)
	}

	name := isa.OpcodeName(inst.Op)
	if name == "" {
		return unknown(word)
	}

	switch inst.Op {
	case isa.OpADDI:
		return fmt.Sprintf("addi r%d, r%d, %d", inst.Rt, inst.Rs, inst.Imm)
	case isa.OpLW, isa.OpSW:
		return fmt.Sprintf("%s r%d, %d(r%d)", name, inst.Rt, inst.Imm, inst.Rs)
	case isa.OpBEQ:
		return fmt.Sprintf("beq r%d, r%d, %d", inst.Rs, inst.Rt, inst.Imm)
	case isa.OpJ, isa.OpJAL:
		return fmt.Sprintf("%s %d", name, inst.Imm)
	case isa.OpJR:
		return fmt.Sprintf("jr r%d", inst.Rs)
	default:
		return unknown(word)
	}
}

func unknown(word uint16) string {
	return fmt.Sprintf("?? 0x%04x", word)
}

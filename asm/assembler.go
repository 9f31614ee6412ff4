// Package asm implements the textual assembler and disassembler for the
// 16-bit instruction set: line-oriented, case-insensitive source in, 16-bit
// words out, and back.
package asm

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/eduarch/pipesim16/isa"
)

// Assembler turns assembly source into a sequence of 16-bit instruction
// words. It is stateless between calls to Assemble.
type Assembler struct{}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// sourceLine is one non-blank, comment-stripped line of input, tagged with
// its original 1-based line number and any label it defines.
type sourceLine struct {
	number int
	label  string // "" if this line defines no label
	body   string // instruction text, "" if this line is a bare label
}

// Assemble parses source and returns the assembled program as 16-bit words.
// It is a two-pass assembler: the first pass records label addresses (word
// indices into the eventual program), the second pass encodes each
// instruction, resolving any label operands against those addresses.
func (a *Assembler) Assemble(source string) ([]uint16, error) {
	lines, err := splitLines(source)
	if err != nil {
		return nil, err
	}

	labels := map[string]int{}
	addr := 0
	for _, ln := range lines {
		if ln.label != "" {
			if _, dup := labels[ln.label]; dup {
				return nil, &AssemblyError{Line: ln.number, Token: ln.label, Msg: "duplicate label"}
			}
			labels[ln.label] = addr
		}
		if ln.body != "" {
			addr++
		}
	}

	var words []uint16
	addr = 0
	for _, ln := range lines {
		if ln.body == "" {
			continue
		}
		word, err := encodeLine(ln.number, ln.body, addr, labels)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
		addr++
	}
	return words, nil
}

// splitLines strips comments and blank lines, and peels a leading "label:"
// off any line that has one.
func splitLines(source string) ([]sourceLine, error) {
	var out []sourceLine
	scanner := bufio.NewScanner(strings.NewReader(source))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		label := ""
		if i := strings.IndexByte(text, ':'); i >= 0 {
			label = strings.ToLower(strings.TrimSpace(text[:i]))
			if label == "" {
				return nil, &AssemblyError{Line: lineNo, Msg: "empty label"}
			}
			text = strings.TrimSpace(text[i+1:])
		}
		out = append(out, sourceLine{number: lineNo, label: label, body: text})
	}
	return out, nil
}

// encodeLine encodes a single instruction's worth of text into a word.
func encodeLine(lineNo int, body string, addr int, labels map[string]int) (uint16, error) {
	fields := strings.Fields(body)
	mnemonic := strings.ToLower(fields[0])
	operandStr := strings.TrimSpace(strings.TrimPrefix(body, fields[0]))
	operands := splitOperands(operandStr)

	switch mnemonic {
	case "nop":
		if err := arity(lineNo, operands, 0); err != nil {
			return 0, err
		}
		return isa.EncodeR(0, 0, 0, isa.FuncADD), nil
	case "halt":
		if err := arity(lineNo, operands, 0); err != nil {
			return 0, err
		}
		// branch_target is computed from ID/EX.pc (this instruction's own
		// fetch address), so a true self-loop needs imm=0, not imm=-1.
		return isa.EncodeI(isa.OpBEQ, 0, 0, 0), nil
	case "jr":
		if err := arity(lineNo, operands, 1); err != nil {
			return 0, err
		}
		rs, err := parseReg(lineNo, operands, 0)
		if err != nil {
			return 0, err
		}
		return isa.EncodeI(isa.OpJR, rs, 0, 0), nil
	case "j", "jal":
		if err := arity(lineNo, operands, 1); err != nil {
			return 0, err
		}
		op := isa.OpJ
		if mnemonic == "jal" {
			op = isa.OpJAL
		}
		imm, err := resolveImm(lineNo, operands, 0, addr, labels)
		if err != nil {
			return 0, err
		}
		return isa.EncodeI(op, 0, 0, imm), nil
	case "beq":
		if err := arity(lineNo, operands, 3); err != nil {
			return 0, err
		}
		rs, err := parseReg(lineNo, operands, 0)
		if err != nil {
			return 0, err
		}
		rt, err := parseReg(lineNo, operands, 1)
		if err != nil {
			return 0, err
		}
		imm, err := resolveImm(lineNo, operands, 2, addr, labels)
		if err != nil {
			return 0, err
		}
		return isa.EncodeI(isa.OpBEQ, rs, rt, imm), nil
	case "addi":
		if err := arity(lineNo, operands, 3); err != nil {
			return 0, err
		}
		rt, err := parseReg(lineNo, operands, 0)
		if err != nil {
			return 0, err
		}
		rs, err := parseReg(lineNo, operands, 1)
		if err != nil {
			return 0, err
		}
		imm, err := resolveImm(lineNo, operands, 2, addr, labels)
		if err != nil {
			return 0, err
		}
		return isa.EncodeI(isa.OpADDI, rs, rt, imm), nil
	case "lw", "sw":
		if err := arity(lineNo, operands, 2); err != nil {
			return 0, err
		}
		rt, err := parseReg(lineNo, operands, 0)
		if err != nil {
			return 0, err
		}
		immTok, regTok, err := splitMemOperand(lineNo, operands[1])
		if err != nil {
			return 0, err
		}
		rs, err := parseRegToken(lineNo, regTok)
		if err != nil {
			return 0, err
		}
		imm, err := resolveImmToken(lineNo, immTok, addr, labels)
		if err != nil {
			return 0, err
		}
		op := isa.OpLW
		if mnemonic == "sw" {
			op = isa.OpSW
		}
		return isa.EncodeI(op, rs, rt, imm), nil
	default:
		fn, ok := isa.FuncByName(mnemonic)
		if !ok {
			return 0, &AssemblyError{Line: lineNo, Token: mnemonic, Msg: "unknown mnemonic"}
		}
		if err := arity(lineNo, operands, 3); err != nil {
			return 0, err
		}
		rd, err := parseReg(lineNo, operands, 0)
		if err != nil {
			return 0, err
		}
		rs, err := parseReg(lineNo, operands, 1)
		if err != nil {
			return 0, err
		}
		rt, err := parseReg(lineNo, operands, 2)
		if err != nil {
			return 0, err
		}
		return isa.EncodeR(rs, rt, rd, fn), nil
	}
}

func splitOperands(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func arity(lineNo int, operands []string, want int) error {
	if len(operands) != want {
		return &AssemblyError{Line: lineNo, Msg: "wrong number of operands"}
	}
	return nil
}

func parseReg(lineNo int, operands []string, idx int) (uint8, error) {
	if idx >= len(operands) {
		return 0, &AssemblyError{Line: lineNo, Msg: "missing register operand"}
	}
	return parseRegToken(lineNo, operands[idx])
}

func parseRegToken(lineNo int, tok string) (uint8, error) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if len(tok) < 2 || tok[0] != 'r' {
		return 0, &AssemblyError{Line: lineNo, Token: tok, Msg: "not a register"}
	}
	n, err := strconv.ParseUint(tok[1:], 10, 8)
	if err != nil || n > 7 {
		return 0, &AssemblyError{Line: lineNo, Token: tok, Msg: "register out of range r0..r7"}
	}
	return uint8(n), nil
}

// splitMemOperand splits "imm(rs)" into its immediate and register tokens.
func splitMemOperand(lineNo int, tok string) (immTok, regTok string, err error) {
	open := strings.IndexByte(tok, '(')
	close := strings.IndexByte(tok, ')')
	if open < 0 || close < open {
		return "", "", &AssemblyError{Line: lineNo, Token: tok, Msg: "expected imm(rs)"}
	}
	return strings.TrimSpace(tok[:open]), strings.TrimSpace(tok[open+1 : close]), nil
}

func resolveImm(lineNo int, operands []string, idx, addr int, labels map[string]int) (int16, error) {
	if idx >= len(operands) {
		return 0, &AssemblyError{Line: lineNo, Msg: "missing immediate operand"}
	}
	return resolveImmToken(lineNo, operands[idx], addr, labels)
}

// resolveImmToken parses tok as a decimal immediate, or, failing that, as a
// label, in which case it is resolved to the relative offset from addr (the
// word index of the instruction being assembled) — the same pc+imm
// convention the pipeline's branch/jump target arithmetic uses.
func resolveImmToken(lineNo int, tok string, addr int, labels map[string]int) (int16, error) {
	if v, err := strconv.ParseInt(tok, 10, 16); err == nil {
		return checkRange(lineNo, tok, v)
	}
	target, ok := labels[strings.ToLower(tok)]
	if !ok {
		return 0, &AssemblyError{Line: lineNo, Token: tok, Msg: "unknown label or malformed immediate"}
	}
	return checkRange(lineNo, tok, int64(target-addr))
}

func checkRange(lineNo int, tok string, v int64) (int16, error) {
	if v < -32 || v > 31 {
		return 0, &AssemblyError{Line: lineNo, Token: tok, Msg: "immediate out of range -32..31"}
	}
	return int16(v), nil
}

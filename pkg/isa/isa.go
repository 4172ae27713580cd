// Package isa implements the instruction set used by the assembler: parsing
// instruction text, encoding instructions to their 16-bit words and decoding
// them back. Every instruction encodes to exactly two little-endian bytes.
package isa

import "fmt"

// AluVariant selects the operation of an ALU instruction.
type AluVariant uint16

const (
	AluAdd AluVariant = iota
	AluSub
	AluInc
	AluDec
	AluAnd
	AluOr
	AluXor
)

// Kind is the instruction class, held in the top nibble of the word.
type Kind uint16

const (
	KindAlu  Kind = 1
	KindEcho Kind = 2
	KindDup  Kind = 3
	KindJump Kind = 4
)

// Operand field limits per class.
const (
	aluValueMax  = 0xFF
	echoValueMax = 0xFFF
	dupAMax      = 0x1F
	dupBMax      = 0x3F
	jumpValueMax = 0x3F
)

var aluOps = map[string]AluVariant{
	"add": AluAdd,
	"sub": AluSub,
	"inc": AluInc,
	"dec": AluDec,
	"and": AluAnd,
	"or":  AluOr,
	"xor": AluXor,
}

var aluNames = map[AluVariant]string{
	AluAdd: "add",
	AluSub: "sub",
	AluInc: "inc",
	AluDec: "dec",
	AluAnd: "and",
	AluOr:  "or",
	AluXor: "xor",
}

// Instruction is one decoded instruction. A and B hold the operand values;
// B is unused for Alu and Echo. Wide is only meaningful for Dup.
type Instruction struct {
	Kind Kind
	Alu  AluVariant
	Wide bool
	A    int32
	B    int32
}

// Encode packs the instruction into its 16-bit word.
func (in Instruction) Encode() uint16 {
	switch in.Kind {
	case KindAlu:
		return uint16(KindAlu)<<12 | uint16(in.Alu)<<8 | uint16(in.A)&aluValueMax
	case KindEcho:
		return uint16(KindEcho)<<12 | uint16(in.A)&echoValueMax
	case KindDup:
		var wide uint16
		if in.Wide {
			wide = 1 << 11
		}
		return uint16(KindDup)<<12 | wide | (uint16(in.A)&dupAMax)<<6 | uint16(in.B)&dupBMax
	case KindJump:
		return uint16(KindJump)<<12 | (uint16(in.A)&jumpValueMax)<<6 | uint16(in.B)&jumpValueMax
	}
	return 0
}

// Decode unpacks a 16-bit instruction word.
func Decode(word uint16) (Instruction, error) {
	switch Kind(word >> 12) {
	case KindAlu:
		variant := AluVariant(word >> 8 & 0xF)
		if _, ok := aluNames[variant]; !ok {
			return Instruction{}, fmt.Errorf("invalid alu variant in word 0x%04X", word)
		}
		return Instruction{Kind: KindAlu, Alu: variant, A: int32(word & aluValueMax)}, nil
	case KindEcho:
		return Instruction{Kind: KindEcho, A: int32(word & echoValueMax)}, nil
	case KindDup:
		return Instruction{
			Kind: KindDup,
			Wide: word&(1<<11) != 0,
			A:    int32(word >> 6 & dupAMax),
			B:    int32(word & dupBMax),
		}, nil
	case KindJump:
		return Instruction{
			Kind: KindJump,
			A:    int32(word >> 6 & jumpValueMax),
			B:    int32(word & jumpValueMax),
		}, nil
	}
	return Instruction{}, fmt.Errorf("invalid instruction word 0x%04X", word)
}

// String prints the instruction in its canonical assembly form, which Parse
// accepts back unchanged.
func (in Instruction) String() string {
	switch in.Kind {
	case KindAlu:
		return fmt.Sprintf("%s =>%d", aluNames[in.Alu], in.A)
	case KindEcho:
		return fmt.Sprintf("echo =>%d", in.A)
	case KindDup:
		mnemonic := "dup"
		if in.Wide {
			mnemonic = "dupw"
		}
		return fmt.Sprintf("%s =>%d, =>%d", mnemonic, in.A, in.B)
	case KindJump:
		return fmt.Sprintf("jmp %d, %d", in.A, in.B)
	}
	return fmt.Sprintf("<invalid kind %d>", in.Kind)
}

package isa

import "testing"

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		in   Instruction
		word uint16
		text string
	}{
		{Instruction{Kind: KindAlu, Alu: AluAdd, A: 4}, 0x1004, "add =>4"},
		{Instruction{Kind: KindAlu, Alu: AluSub, A: 21}, 0x1115, "sub =>21"},
		{Instruction{Kind: KindAlu, Alu: AluInc, A: 0}, 0x1200, "inc =>0"},
		{Instruction{Kind: KindAlu, Alu: AluXor, A: 255}, 0x16FF, "xor =>255"},
		{Instruction{Kind: KindEcho, A: 100}, 0x2064, "echo =>100"},
		{Instruction{Kind: KindEcho, A: 4095}, 0x2FFF, "echo =>4095"},
		{Instruction{Kind: KindDup, A: 3, B: 16}, 0x30D0, "dup =>3, =>16"},
		{Instruction{Kind: KindDup, Wide: true, A: 1, B: 2}, 0x3842, "dupw =>1, =>2"},
		{Instruction{Kind: KindJump, A: 0, B: 1}, 0x4001, "jmp 0, 1"},
		{Instruction{Kind: KindJump, A: 63, B: 63}, 0x4FFF, "jmp 63, 63"},
	}
	for _, tc := range tests {
		if got := tc.in.Encode(); got != tc.word {
			t.Errorf("%v.Encode() = 0x%04X; want 0x%04X", tc.in, got, tc.word)
		}
		decoded, err := Decode(tc.word)
		if err != nil {
			t.Errorf("Decode(0x%04X) returned error: %v", tc.word, err)
		} else if decoded != tc.in {
			t.Errorf("Decode(0x%04X) = %v; want %v", tc.word, decoded, tc.in)
		}
		if got := tc.in.String(); got != tc.text {
			t.Errorf("%v.String() = %q; want %q", tc.in, got, tc.text)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	words := []uint16{0x0000, 0x5000, 0xF123, 0x1F00}
	for _, w := range words {
		if in, err := Decode(w); err == nil {
			t.Errorf("Decode(0x%04X) = %v; want error", w, in)
		}
	}
}

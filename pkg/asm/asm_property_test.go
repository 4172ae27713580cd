package asm

import (
	"encoding/binary"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"scryasm/pkg/isa"
)

// program is a random instruction sequence with no symbolic operands.
type program []isa.Instruction

func (program) Generate(r *rand.Rand, size int) reflect.Value {
	n := r.Intn(size + 1)
	p := make(program, n)
	for i := range p {
		p[i] = randomInstruction(r)
	}
	return reflect.ValueOf(p)
}

func randomInstruction(r *rand.Rand) isa.Instruction {
	switch r.Intn(4) {
	case 0:
		return isa.Instruction{
			Kind: isa.KindAlu,
			Alu:  isa.AluVariant(r.Intn(7)),
			A:    r.Int31n(256),
		}
	case 1:
		return isa.Instruction{Kind: isa.KindEcho, A: r.Int31n(4096)}
	case 2:
		return isa.Instruction{
			Kind: isa.KindDup,
			Wide: r.Intn(2) == 1,
			A:    r.Int31n(32),
			B:    r.Int31n(64),
		}
	default:
		return isa.Instruction{Kind: isa.KindJump, A: r.Int31n(64), B: r.Int31n(64)}
	}
}

func printProgram(p program) string {
	var sb strings.Builder
	for _, in := range p {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// assembleMatches assembles source and checks it decodes back to exactly p.
func assembleMatches(source string, p program) bool {
	code, err := Raw{}.Assemble(source)
	if err != nil || len(code) != 2*len(p) {
		return false
	}
	for i, want := range p {
		got, err := isa.Decode(binary.LittleEndian.Uint16(code[i*2:]))
		if err != nil || got != want {
			return false
		}
	}
	return true
}

// TestRoundTrip: printing any instruction sequence and assembling the result
// reproduces the sequence, two bytes per instruction.
func TestRoundTrip(t *testing.T) {
	f := func(p program) bool {
		return assembleMatches(printProgram(p), p)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// ignoredText is one whitespace-or-comment sequence that may appear between
// any two syntactic pieces without changing the assembled bytes.
type ignoredText string

var commentBodyChars = []byte("abcdefghijklmnopqrstuvwxyz0123456789 \t:;,=>._")

func (ignoredText) Generate(r *rand.Rand, size int) reflect.Value {
	switch r.Intn(5) {
	case 0:
		return reflect.ValueOf(ignoredText(" "))
	case 1:
		return reflect.ValueOf(ignoredText("\t"))
	case 2:
		return reflect.ValueOf(ignoredText("\n"))
	case 3:
		return reflect.ValueOf(ignoredText("\r"))
	default:
		body := make([]byte, r.Intn(12))
		for i := range body {
			body[i] = commentBodyChars[r.Intn(len(commentBodyChars))]
		}
		newline := []string{"\n", "\r", "\r\n"}[r.Intn(3)]
		return reflect.ValueOf(ignoredText(";" + string(body) + newline))
	}
}

// splitKeep splits s around sep, keeping each separator as its own piece.
func splitKeep(s, sep string) []string {
	var parts []string
	for {
		i := strings.Index(s, sep)
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i], sep)
		s = s[i+len(sep):]
	}
}

// TestIgnoredCharacters: inserting whitespace and comments between the
// syntactic pieces of a valid program does not change the assembled bytes.
func TestIgnoredCharacters(t *testing.T) {
	f := func(p program, positions []uint16, ignored []ignoredText) bool {
		pieces := []string{printProgram(p)}
		for _, sep := range []string{" ", ",", "=>"} {
			var next []string
			for _, piece := range pieces {
				next = append(next, splitKeep(piece, sep)...)
			}
			pieces = next
		}

		for i, text := range ignored {
			if len(positions) == 0 {
				break
			}
			at := int(positions[i%len(positions)]) % (len(pieces) + 1)
			pieces = append(pieces[:at], append([]string{string(text)}, pieces[at:]...)...)
		}

		return assembleMatches(strings.Join(pieces, ""), p)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

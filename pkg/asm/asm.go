package asm

import (
	"encoding/binary"
	"fmt"

	"scryasm/pkg/isa"
)

// Assembler turns assembly source into machine code. Source may be supplied
// in several pieces; the result is a single flat byte buffer. Assembly is
// all-or-nothing: on error no buffer is returned.
type Assembler interface {
	Assemble(source ...string) ([]byte, error)
}

// Disassembler is the inverse surface: machine code back to assembly text.
// No implementation exists yet.
type Disassembler interface {
	Disassemble(code []byte) (string, error)
}

// Raw assembles "raw" assembly: instructions, label declarations and the
// .bytes directive, nothing else.
type Raw struct{}

var _ Assembler = Raw{}

// Assemble implements Assembler.
func (Raw) Assemble(source ...string) ([]byte, error) {
	toks := Tokenize(source...)
	a := &assembly{
		groups: splitGroups(toks),
		labels: make(map[string]int32),
	}
	if err := a.measure(); err != nil {
		return nil, err
	}
	return a.emit()
}

// DuplicateLabelError reports a label declared more than once.
type DuplicateLabelError struct {
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("duplicate label '%s'", e.Label)
}

// StuckError reports input that is neither a directive nor an instruction.
type StuckError struct {
	Fragment string
}

func (e *StuckError) Error() string {
	return fmt.Sprintf("cannot assemble remaining input near '%s'", e.Fragment)
}

// assembly is the working state of one Assemble call. Nothing outlives the
// call, so concurrent calls on independent inputs share no state.
type assembly struct {
	groups    []group
	labels    map[string]int32
	byteCount int32
	size      int32 // total output size, known after the measure pass
}

// measure is the first pass: walk every group with a placeholder resolver,
// accumulate emitted sizes and record each group's label address. Directive
// widths depend only on the declared type and instructions are always two
// bytes, so sizing needs no real symbol values.
func (a *assembly) measure() error {
	a.byteCount = 0
	for _, g := range a.groups {
		if _, err := a.runGroup(g, placeholderResolver{}, nil); err != nil {
			return err
		}
		if g.label != "" {
			if _, exists := a.labels[g.label]; exists {
				return &DuplicateLabelError{Label: g.label}
			}
			a.labels[g.label] = a.byteCount
		}
	}
	a.size = a.byteCount
	return nil
}

// emit is the second pass: re-walk the same groups resolving symbols against
// the completed label table and append the final bytes. Any position where
// neither a directive nor an instruction matches but tokens remain is a
// fatal stuck error.
func (a *assembly) emit() ([]byte, error) {
	a.byteCount = 0
	out := make([]byte, 0, a.size)
	r := &tableResolver{a: a}
	for _, g := range a.groups {
		cur, err := a.runGroup(g, r, &out)
		if err != nil {
			return nil, err
		}
		if !cur.Done() {
			return nil, &StuckError{Fragment: cur.Fragment()}
		}
	}
	return out, nil
}

// runGroup assembles one group's tokens, alternating directive and
// instruction parses until neither matches, and returns the cursor where
// parsing stopped. A successful parse may end mid-token; the cursor
// re-slices that token so the next attempt starts on its unconsumed
// remainder. When out is nil only sizes are accumulated.
func (a *assembly) runGroup(g group, r isa.Resolver, out *[]byte) (isa.Cursor, error) {
	cur := isa.NewCursor(g.toks)
	for {
		if bytes, consumed, err := parseBytes(cur, r); err == nil {
			if out != nil {
				*out = append(*out, bytes...)
			}
			a.byteCount += int32(len(bytes))
			cur = cur.Advance(consumed)
			continue
		} else if !errIsNoMatch(err) {
			return cur, err
		}

		if in, consumed, err := isa.Parse(cur, r); err == nil {
			if out != nil {
				var word [2]byte
				binary.LittleEndian.PutUint16(word[:], in.Encode())
				*out = append(*out, word[:]...)
			}
			a.byteCount += 2
			cur = cur.Advance(consumed)
			continue
		} else if !errIsNoMatch(err) {
			return cur, err
		}

		return cur, nil
	}
}

// placeholderResolver answers every request with the same small value. The
// measure pass runs before any label address is known; it can, because no
// emitted size depends on a resolved value.
type placeholderResolver struct{}

const placeholderValue = 2

func (placeholderResolver) Address(string) (int32, error) {
	return placeholderValue, nil
}

func (placeholderResolver) DistanceFromCurrent(string) (int32, error) {
	return placeholderValue, nil
}

func (placeholderResolver) Distance(string, string) (int32, error) {
	return placeholderValue, nil
}

// tableResolver resolves against the label table built by the measure pass,
// reading the live byte counter for distances from the current position.
type tableResolver struct {
	a *assembly
}

func (r *tableResolver) Address(label string) (int32, error) {
	addr, ok := r.a.labels[label]
	if !ok {
		return 0, &isa.UnknownSymbolError{Symbol: label}
	}
	return addr, nil
}

func (r *tableResolver) DistanceFromCurrent(label string) (int32, error) {
	addr, ok := r.a.labels[label]
	if !ok {
		return 0, &isa.UnknownSymbolError{Symbol: label}
	}
	return addr - r.a.byteCount, nil
}

func (r *tableResolver) Distance(from, to string) (int32, error) {
	// The from label is checked first; the error names the first missing one.
	fromAddr, ok := r.a.labels[from]
	if !ok {
		return 0, &isa.UnknownSymbolError{Symbol: from}
	}
	toAddr, ok := r.a.labels[to]
	if !ok {
		return 0, &isa.UnknownSymbolError{Symbol: to}
	}
	return toAddr - fromAddr, nil
}

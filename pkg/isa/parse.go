package isa

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ErrNoMatch reports that the input at the cursor is not the construct the
// parser recognizes. Callers try their next alternative; any other error is
// a real diagnostic and must be surfaced.
var ErrNoMatch = errors.New("no match")

// UnknownSymbolError reports a reference to a label that was never declared.
type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown label: %s", e.Symbol)
}

// ValueRangeError reports a value outside the representable range of its
// destination. Min and Max are the computed bounds for that destination.
type ValueRangeError struct {
	Value *big.Int
	Min   *big.Int
	Max   *big.Int
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("value out of bounds (actual, minimum, maximum): %v, %v, %v",
		e.Value, e.Min, e.Max)
}

func newValueRangeError(value, min, max int64) *ValueRangeError {
	return &ValueRangeError{
		Value: big.NewInt(value),
		Min:   big.NewInt(min),
		Max:   big.NewInt(max),
	}
}

// Resolver supplies values for symbolic operands. Address returns a label's
// byte offset, DistanceFromCurrent the offset of a label relative to the
// byte position being assembled, and Distance the offset between two labels.
// A failed lookup returns an *UnknownSymbolError.
type Resolver interface {
	Address(label string) (int32, error)
	DistanceFromCurrent(label string) (int32, error)
	Distance(from, to string) (int32, error)
}

// Consumed describes how much input a successful parse used: Tokens whole
// tokens, then Chars characters into the following token. Syntax does not
// have to end on a token boundary, so several constructs can share one
// whitespace-delimited token.
type Consumed struct {
	Tokens int
	Chars  int
}

// Then combines two consumption records made back to back.
func (c Consumed) Then(next Consumed) Consumed {
	if next.Tokens == 0 {
		return Consumed{Tokens: c.Tokens, Chars: c.Chars + next.Chars}
	}
	return Consumed{Tokens: c.Tokens + next.Tokens, Chars: next.Chars}
}

// Cursor is a position in an owned token sequence: a token index plus a
// character offset into that token. Cursors are values; copying one gives an
// independent lookahead position for free.
type Cursor struct {
	toks []string
	tok  int
	off  int
}

// NewCursor returns a cursor at the start of toks.
func NewCursor(toks []string) Cursor {
	return Cursor{toks: toks}.norm()
}

// norm skips past exhausted tokens so that off always points at an unread
// character of the current token.
func (c Cursor) norm() Cursor {
	for c.tok < len(c.toks) && c.off >= len(c.toks[c.tok]) {
		c.tok++
		c.off = 0
	}
	return c
}

// Done reports whether all input has been consumed.
func (c Cursor) Done() bool {
	return c.tok >= len(c.toks)
}

// Rest returns the unconsumed remainder of the current token.
func (c Cursor) Rest() string {
	if c.Done() {
		return ""
	}
	return c.toks[c.tok][c.off:]
}

// Fragment returns a short piece of the remaining input for diagnostics.
func (c Cursor) Fragment() string {
	if c.Done() {
		return ""
	}
	parts := []string{c.Rest()}
	for i := c.tok + 1; i < len(c.toks) && len(parts) < 4; i++ {
		parts = append(parts, c.toks[i])
	}
	return strings.Join(parts, " ")
}

// Since reports the input consumed between start and c. Both cursors must
// address the same token sequence, with start not past c.
func (c Cursor) Since(start Cursor) Consumed {
	if c.tok == start.tok {
		return Consumed{Chars: c.off - start.off}
	}
	return Consumed{Tokens: c.tok - start.tok, Chars: c.off}
}

// Advance returns the cursor moved forward by a consumption record, slicing
// the token it lands in so no characters are lost or replayed.
func (c Cursor) Advance(n Consumed) Cursor {
	if n.Tokens > 0 {
		c.tok += n.Tokens
		c.off = 0
	}
	c.off += n.Chars
	return c.norm()
}

// Literal matches s at the cursor, within the current token.
func (c Cursor) Literal(s string) (Cursor, bool) {
	if !strings.HasPrefix(c.Rest(), s) {
		return c, false
	}
	c.off += len(s)
	return c.norm(), true
}

// Word matches s at the cursor like Literal, but additionally requires that
// s is not run together with a following identifier character.
func (c Cursor) Word(s string) (Cursor, bool) {
	next, ok := c.Literal(s)
	if !ok {
		return c, false
	}
	if next.tok == c.tok && next.off < len(c.toks[c.tok]) && isSymbolChar(rune(c.toks[c.tok][next.off])) {
		return c, false
	}
	return next, true
}

// Symbol scans an identifier at the cursor: a letter or underscore followed
// by letters, digits or underscores. Identifiers never span tokens.
func (c Cursor) Symbol() (string, Cursor, bool) {
	rest := c.Rest()
	if rest == "" {
		return "", c, false
	}
	first := rune(rest[0])
	if !isSymbolStart(first) {
		return "", c, false
	}
	end := 1
	for end < len(rest) && isSymbolChar(rune(rest[end])) {
		end++
	}
	c.off += end
	return rest[:end], c.norm(), true
}

// Number scans a decimal integer literal at the cursor, with an optional
// leading sign. The literal must end at a token boundary or before a
// non-identifier character, so "12ab" is not a number.
func (c Cursor) Number() (string, Cursor, bool) {
	rest := c.Rest()
	end := 0
	if end < len(rest) && (rest[end] == '-' || rest[end] == '+') {
		end++
	}
	digits := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
		digits++
	}
	if digits == 0 {
		return "", c, false
	}
	if end < len(rest) && isSymbolChar(rune(rest[end])) {
		return "", c, false
	}
	c.off += end
	return rest[:end], c.norm(), true
}

func isSymbolStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isSymbolChar(r rune) bool {
	return isSymbolStart(r) || (r >= '0' && r <= '9')
}

// Parse decodes one instruction starting at cur, resolving symbolic operands
// through r. It returns ErrNoMatch when the input is not an instruction;
// resolver and range failures are returned as-is.
func Parse(cur Cursor, r Resolver) (Instruction, Consumed, error) {
	start := cur
	mnemonic, cur, ok := cur.Symbol()
	if !ok {
		return Instruction{}, Consumed{}, ErrNoMatch
	}

	if variant, ok := aluOps[mnemonic]; ok {
		v, cur, err := arrowValue(cur, r)
		if err != nil {
			return Instruction{}, Consumed{}, err
		}
		if v < 0 || v > aluValueMax {
			return Instruction{}, Consumed{}, newValueRangeError(int64(v), 0, aluValueMax)
		}
		return Instruction{Kind: KindAlu, Alu: variant, A: v}, cur.Since(start), nil
	}

	switch mnemonic {
	case "echo":
		v, cur, err := arrowValue(cur, r)
		if err != nil {
			return Instruction{}, Consumed{}, err
		}
		if v < 0 || v > echoValueMax {
			return Instruction{}, Consumed{}, newValueRangeError(int64(v), 0, echoValueMax)
		}
		return Instruction{Kind: KindEcho, A: v}, cur.Since(start), nil

	case "dup", "dupw":
		a, b, cur, err := valuePair(cur, r, arrowValue)
		if err != nil {
			return Instruction{}, Consumed{}, err
		}
		if a < 0 || a > dupAMax {
			return Instruction{}, Consumed{}, newValueRangeError(int64(a), 0, dupAMax)
		}
		if b < 0 || b > dupBMax {
			return Instruction{}, Consumed{}, newValueRangeError(int64(b), 0, dupBMax)
		}
		return Instruction{Kind: KindDup, Wide: mnemonic == "dupw", A: a, B: b}, cur.Since(start), nil

	case "jmp":
		a, b, cur, err := valuePair(cur, r, value)
		if err != nil {
			return Instruction{}, Consumed{}, err
		}
		if a < 0 || a > jumpValueMax {
			return Instruction{}, Consumed{}, newValueRangeError(int64(a), 0, jumpValueMax)
		}
		if b < 0 || b > jumpValueMax {
			return Instruction{}, Consumed{}, newValueRangeError(int64(b), 0, jumpValueMax)
		}
		return Instruction{Kind: KindJump, A: a, B: b}, cur.Since(start), nil
	}

	return Instruction{}, Consumed{}, ErrNoMatch
}

// valuePair parses two comma-separated operands with the given operand
// parser.
func valuePair(cur Cursor, r Resolver, operand func(Cursor, Resolver) (int32, Cursor, error)) (int32, int32, Cursor, error) {
	a, cur, err := operand(cur, r)
	if err != nil {
		return 0, 0, cur, err
	}
	cur, ok := cur.Literal(",")
	if !ok {
		return 0, 0, cur, ErrNoMatch
	}
	b, cur, err := operand(cur, r)
	if err != nil {
		return 0, 0, cur, err
	}
	return a, b, cur, nil
}

// arrowValue parses an "=>" prefixed operand.
func arrowValue(cur Cursor, r Resolver) (int32, Cursor, error) {
	cur, ok := cur.Literal("=>")
	if !ok {
		return 0, cur, ErrNoMatch
	}
	return value(cur, r)
}

// value parses an operand: a decimal literal used as-is, a label resolved to
// its word distance from the next instruction, or a "from=>to" pair resolved
// to the word distance between the two labels.
func value(cur Cursor, r Resolver) (int32, Cursor, error) {
	if lit, next, ok := cur.Number(); ok {
		n, err := strconv.ParseInt(lit, 10, 32)
		if err != nil {
			return 0, cur, ErrNoMatch
		}
		return int32(n), next, nil
	}

	sym, cur, ok := cur.Symbol()
	if !ok {
		return 0, cur, ErrNoMatch
	}
	if next, ok := cur.Literal("=>"); ok {
		to, next, ok := next.Symbol()
		if !ok {
			return 0, cur, ErrNoMatch
		}
		d, err := r.Distance(sym, to)
		if err != nil {
			return 0, next, err
		}
		return d / 2, next, nil
	}
	d, err := r.DistanceFromCurrent(sym)
	if err != nil {
		return 0, cur, err
	}
	// Branch targets are word offsets relative to the following instruction.
	return d/2 - 1, cur, nil
}

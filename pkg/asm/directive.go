package asm

import (
	"errors"
	"math/big"

	"scryasm/pkg/isa"
)

// bytesKeyword introduces the data-emission directive:
//
//	.bytes <type>, <value>
//
// where type is u0..u4 (unsigned) or i0..i4 (signed) with a byte width of
// 2^n, and value is a decimal literal, a label (its absolute address), or
// "from=>to" (the signed byte distance between two labels).
const bytesKeyword = ".bytes"

// parseBytes parses one .bytes directive at cur and returns its emitted
// bytes: the value truncated or widened to the declared width, little
// endian. isa.ErrNoMatch means the input is some other construct; range and
// symbol errors are real diagnostics.
func parseBytes(cur isa.Cursor, r isa.Resolver) ([]byte, isa.Consumed, error) {
	start := cur
	cur, ok := cur.Word(bytesKeyword)
	if !ok {
		return nil, isa.Consumed{}, isa.ErrNoMatch
	}
	signed, size, cur, ok := parseType(cur)
	if !ok {
		return nil, isa.Consumed{}, isa.ErrNoMatch
	}
	cur, ok = cur.Literal(",")
	if !ok {
		return nil, isa.Consumed{}, isa.ErrNoMatch
	}

	value, cur, err := bytesValue(cur, r)
	if err != nil {
		return nil, isa.Consumed{}, err
	}
	if err := checkBounds(value, size, signed); err != nil {
		return nil, isa.Consumed{}, err
	}
	return leBytes(value, size), cur.Since(start), nil
}

// parseType matches a width/signedness specifier: 'u' or 'i' followed by a
// single power-of-two exponent 0..4.
func parseType(cur isa.Cursor) (signed bool, size int, next isa.Cursor, ok bool) {
	sym, next, symOK := cur.Symbol()
	if !symOK || len(sym) != 2 {
		return false, 0, cur, false
	}
	switch sym[0] {
	case 'u':
	case 'i':
		signed = true
	default:
		return false, 0, cur, false
	}
	if sym[1] < '0' || sym[1] > '4' {
		return false, 0, cur, false
	}
	return signed, 1 << (sym[1] - '0'), next, true
}

// bytesValue parses the directive's value. A symbolic form is resolved
// through r; otherwise the value must be a decimal integer literal. An
// identifier can never be a valid literal, so a failed symbol lookup is
// reported as-is rather than retried as a literal.
func bytesValue(cur isa.Cursor, r isa.Resolver) (*big.Int, isa.Cursor, error) {
	if sym, next, ok := cur.Symbol(); ok {
		var resolved int32
		var err error
		if chained, chainOK := next.Literal("=>"); chainOK {
			var to string
			to, chained, chainOK = chained.Symbol()
			if !chainOK {
				return nil, cur, isa.ErrNoMatch
			}
			resolved, err = r.Distance(sym, to)
			next = chained
		} else {
			resolved, err = r.Address(sym)
		}
		if err != nil {
			return nil, cur, err
		}
		return big.NewInt(int64(resolved)), next, nil
	}

	lit, next, ok := cur.Number()
	if !ok {
		return nil, cur, isa.ErrNoMatch
	}
	value, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return nil, cur, isa.ErrNoMatch
	}
	return value, next, nil
}

// checkBounds enforces the representable range for a width:
//
//	unsigned: 0 <= v < 2^(8*size)
//	signed:   -(2^(8*size-1)) - 1 <= v <= 2^(8*size-1)
//
// The signed bounds sit one past the two's-complement limits at both ends;
// existing programs depend on that exact boundary.
func checkBounds(v *big.Int, size int, signed bool) error {
	bits := uint(size * 8)
	if signed {
		max := new(big.Int).Lsh(big.NewInt(1), bits-1)
		min := new(big.Int).Neg(max)
		min.Sub(min, big.NewInt(1))
		if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
			return &isa.ValueRangeError{Value: v, Min: min, Max: max}
		}
		return nil
	}
	max := new(big.Int).Lsh(big.NewInt(1), bits)
	if v.Sign() < 0 || v.Cmp(max) >= 0 {
		return &isa.ValueRangeError{Value: v, Min: big.NewInt(0), Max: max}
	}
	return nil
}

// leBytes returns v's two's-complement representation truncated to size
// bytes, little endian.
func leBytes(v *big.Int, size int) []byte {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
	t := new(big.Int).Mod(v, mod)
	out := make([]byte, size)
	t.FillBytes(out)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// errIsNoMatch reports whether err only means "try the next alternative".
func errIsNoMatch(err error) bool {
	return errors.Is(err, isa.ErrNoMatch)
}

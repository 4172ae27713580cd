// Package asm assembles text assembly into machine code. Source is
// tokenized once, partitioned into label-bounded groups, and walked twice:
// a measure pass sizes every group and records label addresses, then an
// emit pass resolves symbols against the finished table and writes the
// final little-endian bytes.
package asm

import "strings"

// Tokenize splits source text into parser tokens. A ';' starts a comment
// running to the end of the physical line (LF or CRLF). The remainder is
// split on whitespace runs, then split again after every ':' so a label
// declaration always terminates its token. Source may be supplied in
// several pieces; tokens never span a piece boundary.
func Tokenize(pieces ...string) []string {
	var toks []string
	for _, piece := range pieces {
		for _, part := range stripComments(piece) {
			for _, field := range strings.Fields(part) {
				for _, tok := range strings.SplitAfter(field, ":") {
					if tok != "" {
						toks = append(toks, tok)
					}
				}
			}
		}
	}
	return toks
}

// stripComments removes every ';'-to-end-of-line comment from s, returning
// the surviving stretches of source text.
func stripComments(s string) []string {
	var parts []string
	for {
		i := strings.IndexByte(s, ';')
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		rest := s[i+1:]
		j := strings.IndexAny(rest, "\r\n")
		if j < 0 {
			// Comment runs to the end of the piece.
			return parts
		}
		s = rest[j+1:]
	}
}

package asm

import "strings"

// group is a maximal run of tokens between two label declarations. The
// declaration that terminates a group belongs to it: the label's address is
// the byte offset reached after assembling the group's contents. Groups are
// sub-slices of the token array built by Tokenize; walking them twice never
// re-derives a token.
type group struct {
	toks  []string
	label string // label terminating the group; "" when it runs to end of input
}

// splitGroups partitions toks into successive groups. After Tokenize every
// label declaration is a token of its own ending in ':'.
func splitGroups(toks []string) []group {
	var groups []group
	start := 0
	for i, tok := range toks {
		if strings.HasSuffix(tok, ":") {
			groups = append(groups, group{
				toks:  toks[start:i],
				label: strings.TrimSuffix(tok, ":"),
			})
			start = i + 1
		}
	}
	if start < len(toks) {
		groups = append(groups, group{toks: toks[start:]})
	}
	return groups
}

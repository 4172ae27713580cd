package asm

import (
	"reflect"
	"testing"
)

func TestSplitGroups(t *testing.T) {
	tests := []struct {
		name string
		toks []string
		want []group
	}{
		{
			"no labels",
			[]string{"add", "=>4"},
			[]group{{toks: []string{"add", "=>4"}}},
		},
		{
			"label ends its group",
			[]string{"inc", "=>a", "a:", "dup"},
			[]group{
				{toks: []string{"inc", "=>a"}, label: "a"},
				{toks: []string{"dup"}},
			},
		},
		{
			"leading label owns an empty group",
			[]string{"s:", "inc"},
			[]group{
				{toks: []string{}, label: "s"},
				{toks: []string{"inc"}},
			},
		},
		{
			"trailing label",
			[]string{"inc", "end:"},
			[]group{{toks: []string{"inc"}, label: "end"}},
		},
		{
			"adjacent labels share an address",
			[]string{"a:", "b:", "inc"},
			[]group{
				{toks: []string{}, label: "a"},
				{toks: []string{}, label: "b"},
				{toks: []string{"inc"}},
			},
		},
		{
			"empty input",
			nil,
			nil,
		},
		{
			"bare colon has no label",
			[]string{"inc", ":"},
			[]group{{toks: []string{"inc"}, label: ""}},
		},
	}
	for _, tc := range tests {
		if got := splitGroups(tc.toks); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: splitGroups(%q) = %+v; want %+v", tc.name, tc.toks, got, tc.want)
		}
	}
}

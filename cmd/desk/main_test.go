package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectItemLookupArgs(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "bare item id becomes items show",
			in:   []string{"desk", "item-abc123"},
			want: []string{"desk", "items", "show", "item-abc123"},
		},
		{
			name: "trailing flags survive the rewrite",
			in:   []string{"desk", "item-abc123", "--pretty"},
			want: []string{"desk", "items", "show", "item-abc123", "--pretty"},
		},
		{
			name: "subcommands pass through",
			in:   []string{"desk", "items", "list"},
			want: []string{"desk", "items", "list"},
		},
		{
			name: "bare prefix is not an id",
			in:   []string{"desk", "item-"},
			want: []string{"desk", "item-"},
		},
		{
			name: "no args",
			in:   []string{"desk"},
			want: []string{"desk"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rewriteDirectItemLookupArgs(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

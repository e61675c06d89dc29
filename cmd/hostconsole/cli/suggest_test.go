// Copyright 2026 The Hostconsole Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1}, // substitution
		{"abc", "ab", 1},  // deletion
		{"ab", "abc", 1},  // insertion
		{"abc", "bac", 2}, // transposition (counted as 2 edits)
		{"kitten", "sitting", 3},
		{"socket", "sockte", 2},
		{"version", "verison", 2},
		{"console-id", "consoleid", 1},
	}

	for _, test := range tests {
		t.Run(test.a+"->"+test.b, func(t *testing.T) {
			got := levenshtein(test.a, test.b)
			if got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
			if reverse := levenshtein(test.b, test.a); reverse != got {
				t.Errorf("levenshtein not symmetric: %d vs %d", got, reverse)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "version"},
		{Name: "help"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"vrsion", "version"},
		{"versoin", "version"},
		{"hlep", "help"},
		{"zzzzzzzzz", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("hostconsole", pflag.ContinueOnError)
		flagSet.String("socket", "", "")
		flagSet.StringP("console-id", "i", "", "")
		flagSet.String("log-level", "", "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"typo", []string{"--sokcet", "/x"}, "--socket"},
		{"typo with value", []string{"--log-levl=debug"}, "--log-level"},
		{"first unknown only", []string{"--socket", "/x", "--consol-id", "a"}, "--console-id"},
		{"nothing close", []string{"--zzzzzzzz"}, ""},
		{"shorthand", []string{"-x"}, ""},
		{"after terminator", []string{"--", "--sokcet"}, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}

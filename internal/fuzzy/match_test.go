package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var patterns = []string{"white", "black", "diagonal", "noise", "random", "colour", "blocks", "swirly"}

func TestMatch(t *testing.T) {
	testCases := []struct {
		name       string
		candidates []string
		input      string
		want       Result
	}{
		{
			name:       "single letter picks unique prefix",
			candidates: []string{"source", "camera"},
			input:      "s",
			want:       Result{Outcome: Matched, Index: 0},
		},
		{
			name:       "shared first letter is ambiguous",
			candidates: []string{"colour", "camera"},
			input:      "c",
			want:       Result{Outcome: Ambiguous, Index: -1},
		},
		{
			name:       "abbreviated pattern",
			candidates: patterns,
			input:      "dia",
			want:       Result{Outcome: Matched, Index: 2},
		},
		{
			name:       "connection kind",
			candidates: []string{"tunnel", "callback", "queue"},
			input:      "t",
			want:       Result{Outcome: Matched, Index: 0},
		},
		{
			name:       "case is folded",
			candidates: patterns,
			input:      "SWIRLY",
			want:       Result{Outcome: Matched, Index: 7},
		},
		{
			name:       "second letter disambiguates",
			candidates: patterns,
			input:      "bl",
			want:       Result{Outcome: Ambiguous, Index: -1},
		},
		{
			name:       "third letter disambiguates",
			candidates: patterns,
			input:      "blo",
			want:       Result{Outcome: Matched, Index: 6},
		},
		{
			name:       "trailing garbage after unique prefix still matches",
			candidates: []string{"source", "camera"},
			input:      "sxyz",
			want:       Result{Outcome: Matched, Index: 0},
		},
		{
			name:       "no candidate shares the first letter",
			candidates: patterns,
			input:      "purple",
			want:       Result{Outcome: NotFound, Index: -1},
		},
		{
			name:       "empty input",
			candidates: []string{"null", "render"},
			input:      "",
			want:       Result{Outcome: NotFound, Index: -1},
		},
		{
			name:       "empty input with one candidate",
			candidates: []string{"tunnel"},
			input:      "",
			want:       Result{Outcome: NotFound, Index: -1},
		},
		{
			name:       "candidate that is a prefix of another",
			candidates: []string{"null", "nullsink"},
			input:      "null",
			want:       Result{Outcome: Ambiguous, Index: -1},
		},
		{
			name:       "empty table",
			candidates: nil,
			input:      "x",
			want:       Result{Outcome: NotFound, Index: -1},
		},
		{
			name:       "empty entry rejects the table",
			candidates: []string{"i420", "", "opaque"},
			input:      "i420",
			want:       Result{Outcome: InvalidTable, Index: -1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.candidates, tc.input))
		})
	}
}

func TestMatchNCount(t *testing.T) {
	table := []string{"tunnel", "callback", "queue", ""}

	// The trailing empty entry plays the role of a sentinel and is outside
	// the counted range.
	assert.Equal(t, Result{Outcome: Matched, Index: 2}, MatchN(table, 3, "q"))
	assert.Equal(t, InvalidTable, MatchN(table, -1, "q").Outcome)
	assert.Equal(t, NotFound, MatchN(table, 1, "q").Outcome)
	assert.Equal(t, Result{Outcome: Matched, Index: 1}, MatchN(table[:3], 100, "ca"))
}

func TestMatchEveryFullCandidate(t *testing.T) {
	tables := [][]string{
		patterns,
		{"i420", "rgba", "opaque"},
		{"source", "camera"},
		{"null", "render"},
		{"tunnel", "callback", "queue"},
	}

	for _, table := range tables {
		for i, c := range table {
			assert.Equal(t, Result{Outcome: Matched, Index: i}, Match(table, c), "candidate %q", c)
		}
	}
}

func TestMatchFullCandidateBesideShorterEntries(t *testing.T) {
	// No entry is a prefix of another, but entries end at different lengths
	// while longer ones still share a prefix.
	tables := [][]string{
		{"ab", "cdef", "cdeg"},
		{"x", "yz", "yw"},
		{"q", "abx", "aby"},
		{"red", "rose", "r2"},
		{"go1", "gopher", "goal"},
		{"abc", "abd", "ab1", "q"},
	}

	for _, table := range tables {
		for i, c := range table {
			assert.Equal(t, Result{Outcome: Matched, Index: i}, Match(table, c), "candidate %q in %q", c, table)
		}
	}

	assert.Equal(t, Result{Outcome: Matched, Index: 1}, Match([]string{"ab", "cdef", "cdeg"}, "cdef"))
	assert.Equal(t, Result{Outcome: Matched, Index: 2}, Match([]string{"ab", "cdef", "cdeg"}, "CDEG"))
	assert.Equal(t, Result{Outcome: Ambiguous, Index: -1}, Match([]string{"ab", "cdef", "cdeg"}, "cde"))
}

func TestMatchEveryUniquePrefix(t *testing.T) {
	for i, c := range patterns {
		for k := 1; k <= len(c); k++ {
			prefix := c[:k]
			shared := 0
			for _, other := range patterns {
				if len(other) >= k && other[:k] == prefix {
					shared++
				}
			}
			if shared != 1 {
				continue
			}
			assert.Equal(t, Result{Outcome: Matched, Index: i}, Match(patterns, prefix), "prefix %q", prefix)
		}
	}
}

func TestResultErr(t *testing.T) {
	require.NoError(t, Result{Outcome: Matched, Index: 3}.Err())
	assert.ErrorIs(t, Result{Outcome: Ambiguous}.Err(), ErrAmbiguous)
	assert.ErrorIs(t, Result{Outcome: NotFound}.Err(), ErrNotFound)
	assert.ErrorIs(t, Result{Outcome: InvalidTable}.Err(), ErrInvalidTable)
}

// Package fuzzy resolves abbreviated option values against a table of
// candidates using shortest-unique-prefix matching.
package fuzzy

import (
	"github.com/pkg/errors"
)

var (
	ErrAmbiguous    = errors.New("ambiguous value")
	ErrNotFound     = errors.New("unknown value")
	ErrInvalidTable = errors.New("candidate table contains an empty entry")
)

// Outcome is the kind of result a match produced.
type Outcome int

const (
	Matched Outcome = iota
	Ambiguous
	NotFound
	InvalidTable
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Ambiguous:
		return "ambiguous"
	case NotFound:
		return "not found"
	case InvalidTable:
		return "invalid table"
	}
	return "unknown"
}

// Result of a match. Index is only meaningful when Outcome is Matched.
type Result struct {
	Outcome Outcome
	Index   int
}

// Err returns the sentinel error for a failed match, nil for Matched.
func (r Result) Err() error {
	switch r.Outcome {
	case Matched:
		return nil
	case Ambiguous:
		return ErrAmbiguous
	case InvalidTable:
		return ErrInvalidTable
	}
	return ErrNotFound
}

// Match resolves input against every entry of candidates.
func Match(candidates []string, input string) Result {
	return MatchN(candidates, -1, input)
}

// MatchN resolves input against the first n candidates. A negative n, or one
// larger than the table, considers the whole table.
//
// The compared prefix grows one byte at a time. The first length at which a
// single candidate matches wins, so "c" picks "camera" if nothing else in the
// table starts with "c". A matching candidate that ends at the current length
// while others still match leaves the input ambiguous. Comparison folds ASCII
// case only.
func MatchN(candidates []string, n int, input string) Result {
	if n < 0 || n > len(candidates) {
		n = len(candidates)
	}
	table := candidates[:n]
	if len(table) == 0 {
		return Result{Outcome: NotFound, Index: -1}
	}
	for _, c := range table {
		if c == "" {
			return Result{Outcome: InvalidTable, Index: -1}
		}
	}

	prevMatches := 0
	for k := 1; ; k++ {
		matches, index, exhausted := 0, -1, false
		for i, c := range table {
			if hasPrefixFold(c, input, k) {
				matches++
				if len(c) == k {
					exhausted = true
				}
				if index < 0 {
					index = i
				}
			}
		}
		switch {
		case matches == 1:
			return Result{Outcome: Matched, Index: index}
		case matches == 0 && prevMatches > 1:
			return Result{Outcome: Ambiguous, Index: -1}
		case matches == 0:
			return Result{Outcome: NotFound, Index: -1}
		case exhausted:
			return Result{Outcome: Ambiguous, Index: -1}
		}
		prevMatches = matches
	}
}

// hasPrefixFold reports whether the first k bytes of candidate and input are
// equal under ASCII case folding. Either string being shorter than k fails.
func hasPrefixFold(candidate, input string, k int) bool {
	if len(candidate) < k || len(input) < k {
		return false
	}
	for i := 0; i < k; i++ {
		if lower(candidate[i]) != lower(input[i]) {
			return false
		}
	}
	return true
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

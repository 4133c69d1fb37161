package engine

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
)

// FuzzyCutoff is the minimum similarity for the fuzzy tier of ParseMove.
const FuzzyCutoff = 0.6

// MatchTier records which rule picked a move.
type MatchTier string

const (
	MatchExact  MatchTier = "exact"
	MatchFuzzy  MatchTier = "fuzzy"
	MatchRandom MatchTier = "random"
)

func fold(s string) string {
	return cases.Fold().String(s)
}

// ParseMove maps free text onto one of known. It tries, in order: a known
// move name contained in the text (case-insensitive, first in list order
// wins); the closest move name by Ratcliff/Obershelp similarity of the
// whole text at or above FuzzyCutoff; a uniformly random known move. The result is
// always an element of known unless known is empty.
func ParseMove(text string, known []string, r Roller) (string, MatchTier) {
	if len(known) == 0 {
		return "", MatchRandom
	}
	folded := fold(text)
	for _, m := range known {
		if m == "" {
			continue
		}
		if strings.Contains(folded, fold(m)) {
			return m, MatchExact
		}
	}

	if m, ok := closestMove(folded, known); ok {
		return m, MatchFuzzy
	}
	return pick(r, known), MatchRandom
}

// similarity is the Ratcliff/Obershelp ratio 2*M/T over characters,
// with the move name as the first sequence.
func similarity(move, text string) float64 {
	return difflib.NewMatcher(strings.Split(move, ""), strings.Split(text, "")).Ratio()
}

// closestMove scores the whole folded text against every move name. The
// highest score at or above FuzzyCutoff wins; equal scores go to the
// greater folded name.
func closestMove(folded string, known []string) (string, bool) {
	if folded == "" {
		return "", false
	}
	best, bestName, bestScore := "", "", 0.0
	for _, m := range known {
		name := fold(m)
		score := similarity(name, folded)
		if score < FuzzyCutoff {
			continue
		}
		if best == "" || score > bestScore || (score == bestScore && name > bestName) {
			best, bestName, bestScore = m, name, score
		}
	}
	return best, best != ""
}

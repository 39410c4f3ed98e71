package analyzer

import (
	"regexp"
	"strings"
)

// Token-overlap similarity constants. Named so the heuristic stays
// independently testable; see the package tests for the properties they
// guarantee.
const (
	// MinTokenLength filters short glue words out of the token sets.
	// Tokens under 3 characters carry almost no signal ("a", "to", "of").
	MinTokenLength = 3

	// DuplicateSimilarityThreshold is the symmetric token-overlap ratio two
	// instructions must exceed to count as the same instruction.
	DuplicateSimilarityThreshold = 0.75

	// ContradictionSubjectThreshold is the overlap two opposite-polarity
	// instructions must exceed (after stripping polarity words) to count as
	// talking about the same subject.
	ContradictionSubjectThreshold = 0.5

	// DuplicateMinFiles is how many distinct files must repeat an
	// instruction before the duplication is worth a finding.
	DuplicateMinFiles = 3
)

var tokenSplitRe = regexp.MustCompile(`[^a-z0-9_-]+`)

// Tokenize lowercases s, splits on non-word characters, and drops tokens
// shorter than MinTokenLength.
func Tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range tokenSplitRe.Split(strings.ToLower(s), -1) {
		if len(tok) >= MinTokenLength {
			tokens[tok] = true
		}
	}
	return tokens
}

// Similarity returns the Jaccard-style symmetric token-overlap ratio of two
// strings: |A∩B| / |A∪B|. Two empty token sets are not similar; an
// instruction made entirely of glue words matches nothing.
func Similarity(a, b string) float64 {
	return setSimilarity(Tokenize(a), Tokenize(b))
}

func setSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// polarity classifies an instruction as positive (ALWAYS/MUST/REQUIRED),
// negative (NEVER/FORBIDDEN/DO NOT), or neither.
type polarity int

const (
	polarityNone polarity = iota
	polarityPositive
	polarityNegative
)

var (
	positiveRe = regexp.MustCompile(`(?i)\b(always|must|required|shall)\b`)
	negativeRe = regexp.MustCompile(`(?i)\b(never|forbidden|do not|don't)\b`)
	polarityRe = regexp.MustCompile(`(?i)\b(always|must|required|shall|never|forbidden|do not|don't|not)\b`)
)

func instructionPolarity(s string) polarity {
	neg := negativeRe.MatchString(s)
	pos := positiveRe.MatchString(s)
	switch {
	case neg:
		// Negation dominates: "you must never" is a prohibition.
		return polarityNegative
	case pos:
		return polarityPositive
	default:
		return polarityNone
	}
}

// subject strips polarity words so that "ALWAYS run the tests" and "NEVER
// run the tests" compare on their shared subject.
func subject(s string) string {
	return polarityRe.ReplaceAllString(s, " ")
}

package match

import (
	"fmt"
	"sort"
	"strings"
)

// confidenceEpsilon is the window within which two confidences are
// considered equal and the tie-break chain applies.
const confidenceEpsilon = 1e-9

// Rank orders scored candidates descending by confidence. Ties within
// confidenceEpsilon are broken deterministically: a candidate with lyrics
// ranks above one without, then the case-insensitively smaller source label
// wins, then input order is kept. An empty input yields an empty list.
// Fails with ErrInvalidInput if any element was not produced by Scorer.Score.
func Rank(scored []ScoredCandidate) (RankedList, error) {
	for i := range scored {
		if !scored[i].scored {
			return nil, fmt.Errorf("%w: candidate %d has not been scored", ErrInvalidInput, i)
		}
	}

	ranked := make(RankedList, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		diff := a.Confidence - b.Confidence
		if diff > confidenceEpsilon || diff < -confidenceEpsilon {
			return a.Confidence > b.Confidence
		}

		if a.HasLyrics != b.HasLyrics {
			return a.HasLyrics
		}

		srcA := strings.ToLower(a.Candidate.Source)
		srcB := strings.ToLower(b.Candidate.Source)
		if srcA != srcB {
			return srcA < srcB
		}

		// Stable sort preserves insertion order as the final fallback.
		return false
	})

	return ranked, nil
}

package match

import (
	"fmt"
	"math"
)

// durationScale is the absolute difference, in seconds, at which the
// duration sub-score bottoms out at zero.
const durationScale = 30.0

// Weights configures how the sub-scores combine. Passed in explicitly so
// sessions are independently testable and weights are tunable from config.
type Weights struct {
	Title  float64 `yaml:"title"`
	Artist float64 `yaml:"artist"`
	Album  float64 `yaml:"album"`

	Metadata float64 `yaml:"metadata"`
	Duration float64 `yaml:"duration"`
}

// DefaultWeights returns the stock weighting: title dominates the metadata
// comparison, and metadata outweighs duration in the final confidence.
func DefaultWeights() Weights {
	return Weights{
		Title:    0.5,
		Artist:   0.35,
		Album:    0.15,
		Metadata: 0.7,
		Duration: 0.3,
	}
}

// Validate checks that all weights are non-negative and each group carries
// some weight.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Title, w.Artist, w.Album, w.Metadata, w.Duration} {
		if v < 0 {
			return fmt.Errorf("weights must be non-negative")
		}
	}
	if w.Title+w.Artist+w.Album <= 0 {
		return fmt.Errorf("metadata field weights must not all be zero")
	}
	if w.Metadata+w.Duration <= 0 {
		return fmt.Errorf("metadata and duration weights must not both be zero")
	}
	return nil
}

// IsZero reports whether the weights are entirely unset.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Scorer computes a confidence score for candidates against one reference
// track. Stateless apart from its weights; safe for concurrent use as long
// as each candidate is scored by exactly one caller.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer. Zero weights fall back to DefaultWeights.
func NewScorer(w Weights) *Scorer {
	if w.IsZero() {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// Score computes the candidate's confidence against the reference and
// returns it as an immutable ScoredCandidate. A candidate may be scored
// exactly once; a second call fails with ErrInvalidInput so stale scores
// can never leak between sessions. The candidate's metadata and lyrics are
// never modified.
func (s *Scorer) Score(c *Candidate, ref TrackReference) (ScoredCandidate, error) {
	if c == nil {
		return ScoredCandidate{}, fmt.Errorf("%w: nil candidate", ErrInvalidInput)
	}
	if c.scored {
		return ScoredCandidate{}, fmt.Errorf("%w: candidate from %q already scored", ErrInvalidInput, c.Source)
	}
	c.scored = true

	metadata := s.metadataScore(c.Song, ref)
	duration, durationKnown := durationScore(c.Song.Duration.Seconds(), ref.Duration.Seconds())

	confidence := metadata
	if durationKnown {
		total := s.weights.Metadata + s.weights.Duration
		confidence = (metadata*s.weights.Metadata + duration*s.weights.Duration) / total
	}

	return ScoredCandidate{
		Candidate:     *c,
		Confidence:    clamp01(confidence),
		MetadataScore: metadata,
		DurationScore: duration,
		DurationKnown: durationKnown,
		HasLyrics:     c.HasLyrics(),
		scored:        true,
	}, nil
}

// metadataScore compares title/artist/album, weighting only the fields the
// reference actually has and renormalizing over those. A reference with no
// fields at all cannot confirm or deny anything: neutral 0.5.
func (s *Scorer) metadataScore(song SongInfo, ref TrackReference) float64 {
	type comparison struct {
		refValue  string
		candValue string
		weight    float64
	}

	comparisons := []comparison{
		{ref.Title, song.Title, s.weights.Title},
		{ref.Artist, song.Artist, s.weights.Artist},
		{ref.Album, song.Album, s.weights.Album},
	}

	var sum, totalWeight float64
	for _, cmp := range comparisons {
		if cmp.refValue == "" {
			continue
		}
		sum += Similarity(cmp.candValue, cmp.refValue) * cmp.weight
		totalWeight += cmp.weight
	}

	if totalWeight == 0 {
		return 0.5
	}
	return sum / totalWeight
}

// durationScore maps the absolute duration difference onto [0,1], where 0s
// apart is 1.0 and durationScale seconds or more apart is 0.0. Excluded
// (not penalized) when either duration is unknown.
func durationScore(candidate, reference float64) (score float64, known bool) {
	if candidate <= 0 || reference <= 0 {
		return 0, false
	}
	return clamp01(1.0 - math.Abs(candidate-reference)/durationScale), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Package match scores, ranks, and merges metadata/lyric candidates for a
// local audio track. It is purely computational: sources fetch candidates,
// the tags package reads and writes files, this package decides.
package match

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Error kinds surfaced by this package. Check with errors.Is.
var (
	// ErrInvalidInput marks contract violations: scoring a candidate twice,
	// ranking unscored candidates. Not recoverable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelection marks a field selection that names a candidate or field
	// that does not exist. Recoverable: the caller should re-prompt.
	ErrSelection = errors.New("invalid selection")
)

// TrackReference is an immutable snapshot of what is already known about the
// local track: existing tag values (empty string = absent) and the audio
// duration (zero = unknown). Taken once per matching session.
type TrackReference struct {
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// HasMetadata reports whether the reference carries at least one tag value.
func (r TrackReference) HasMetadata() bool {
	return r.Title != "" || r.Artist != "" || r.Album != ""
}

// SongInfo is candidate metadata. Empty string / zero duration mean the
// source did not supply the field.
type SongInfo struct {
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// LyricBlock is a candidate lyric payload: ordered lines (blank lines are
// kept as separators), the label of the source that supplied it, and stats
// computed once at construction.
type LyricBlock struct {
	Lines     []string
	Source    string
	LineCount int
	CharCount int
}

// NewLyricBlock builds a LyricBlock from raw lyric text, splitting on
// newlines and computing the derived statistics.
func NewLyricBlock(text, source string) LyricBlock {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	if text != "" {
		lines = strings.Split(strings.Trim(text, "\n"), "\n")
	}

	chars := 0
	for _, line := range lines {
		chars += utf8.RuneCountInString(line)
	}

	return LyricBlock{
		Lines:     lines,
		Source:    source,
		LineCount: len(lines),
		CharCount: chars,
	}
}

// HasText reports whether the block contains at least one non-empty line.
func (b LyricBlock) HasText() bool {
	for _, line := range b.Lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

// Text joins the lines back into a single block for tag writing.
func (b LyricBlock) Text() string {
	return strings.Join(b.Lines, "\n")
}

// clone returns a deep copy so merged output never aliases candidate state.
func (b LyricBlock) clone() LyricBlock {
	out := b
	out.Lines = make([]string, len(b.Lines))
	copy(out.Lines, b.Lines)
	return out
}

// Candidate is one externally retrieved result to be evaluated against the
// local track. Metadata and lyrics are each optional, but a useful candidate
// supplies at least one. The scored flag enforces the scored-once contract.
type Candidate struct {
	Song   SongInfo
	Lyrics *LyricBlock
	Source string

	scored bool
}

// HasLyrics reports whether the candidate supplies usable lyric text.
func (c Candidate) HasLyrics() bool {
	return c.Lyrics != nil && c.Lyrics.HasText()
}

// ScoredCandidate is the immutable result of scoring one candidate. Only
// Scorer.Score produces valid values; the zero value is rejected by Rank.
type ScoredCandidate struct {
	Candidate Candidate

	// Confidence estimates how well the candidate matches the reference,
	// in [0,1]. Lyric presence is deliberately not folded in; it only
	// breaks ties during ranking.
	Confidence float64

	// MetadataScore and DurationScore are the sub-scores behind Confidence,
	// kept for display. DurationScore is meaningful only when DurationKnown.
	MetadataScore float64
	DurationScore float64
	DurationKnown bool

	// HasLyrics is the lyric plausibility signal: true when the candidate
	// carries at least one non-empty lyric line.
	HasLyrics bool

	scored bool
}

// RankedList is the deterministically ordered output of one matching
// session. Read-only once produced; re-ranking requires re-scoring.
type RankedList []ScoredCandidate

// MergedState is the fully resolved metadata plus optional lyrics, ready for
// the tag writer. Returned by value; the engine keeps no reference to it.
type MergedState struct {
	Song   SongInfo
	Lyrics *LyricBlock
}

// Query is a cleaned-up search request sent to candidate sources.
type Query struct {
	Title  string
	Artist string
	Album  string
}

// Source is implemented by each candidate source (lrclib, deezer, ...).
// Defined here, where it is consumed.
type Source interface {
	Name() string
	Search(ctx context.Context, query Query) ([]Candidate, error)
}

package match

import "fmt"

// FieldChoice decides one field of a merge: keep the track's current value,
// or take the value from a candidate identified by its RankedList position.
// The zero value means keep.
type FieldChoice struct {
	take bool
	from int
}

// Keep resolves the field to the reference's current value.
func Keep() FieldChoice { return FieldChoice{} }

// TakeFrom resolves the field to the value supplied by ranked candidate i.
func TakeFrom(i int) FieldChoice { return FieldChoice{take: true, from: i} }

// FieldSelection is the user's per-field decision set. Every non-keep entry
// must name a candidate present in the RankedList handed to Merge; that is
// checked at merge time, not construction time.
type FieldSelection struct {
	Title    FieldChoice
	Artist   FieldChoice
	Album    FieldChoice
	Duration FieldChoice
	Lyrics   FieldChoice
}

// KeepAll is a selection that leaves every field as it is on the track.
func KeepAll() FieldSelection { return FieldSelection{} }

// TakeAvailable builds a selection taking every field the ranked candidate i
// actually supplies and keeping the rest. Used by the batch pipeline when a
// match clears the confidence threshold.
func TakeAvailable(ranked RankedList, i int) (FieldSelection, error) {
	if i < 0 || i >= len(ranked) {
		return FieldSelection{}, fmt.Errorf("%w: candidate %d not in ranked list of %d", ErrSelection, i, len(ranked))
	}

	c := ranked[i].Candidate
	var sel FieldSelection
	if c.Song.Title != "" {
		sel.Title = TakeFrom(i)
	}
	if c.Song.Artist != "" {
		sel.Artist = TakeFrom(i)
	}
	if c.Song.Album != "" {
		sel.Album = TakeFrom(i)
	}
	if c.Song.Duration > 0 {
		sel.Duration = TakeFrom(i)
	}
	if c.HasLyrics() {
		sel.Lyrics = TakeFrom(i)
	}
	return sel, nil
}

// Merge applies a field selection onto the reference and returns the
// resolved state. Pure: inputs are never mutated, and identical inputs
// always produce identical output, so a caller can iterate over different
// selections against the same RankedList before committing a write-back.
//
// A take entry naming a candidate outside the list, or a field the
// candidate does not supply, fails with ErrSelection. Missing data is
// reported, never silently substituted.
func Merge(ref TrackReference, sel FieldSelection, ranked RankedList) (MergedState, error) {
	state := MergedState{
		Song: SongInfo{
			Title:    ref.Title,
			Artist:   ref.Artist,
			Album:    ref.Album,
			Duration: ref.Duration,
		},
	}

	texts := []struct {
		name   string
		choice FieldChoice
		dst    *string
		get    func(SongInfo) string
	}{
		{"title", sel.Title, &state.Song.Title, func(s SongInfo) string { return s.Title }},
		{"artist", sel.Artist, &state.Song.Artist, func(s SongInfo) string { return s.Artist }},
		{"album", sel.Album, &state.Song.Album, func(s SongInfo) string { return s.Album }},
	}

	for _, f := range texts {
		if !f.choice.take {
			continue
		}
		c, err := candidateAt(ranked, f.choice.from, f.name)
		if err != nil {
			return MergedState{}, err
		}
		value := f.get(c.Song)
		if value == "" {
			return MergedState{}, fmt.Errorf("%w: candidate %d (%s) does not supply %s", ErrSelection, f.choice.from, c.Source, f.name)
		}
		*f.dst = value
	}

	if sel.Duration.take {
		c, err := candidateAt(ranked, sel.Duration.from, "duration")
		if err != nil {
			return MergedState{}, err
		}
		if c.Song.Duration <= 0 {
			return MergedState{}, fmt.Errorf("%w: candidate %d (%s) does not supply duration", ErrSelection, sel.Duration.from, c.Source)
		}
		state.Song.Duration = c.Song.Duration
	}

	if sel.Lyrics.take {
		c, err := candidateAt(ranked, sel.Lyrics.from, "lyrics")
		if err != nil {
			return MergedState{}, err
		}
		if !c.HasLyrics() {
			return MergedState{}, fmt.Errorf("%w: candidate %d (%s) does not supply lyrics", ErrSelection, sel.Lyrics.from, c.Source)
		}
		block := c.Lyrics.clone()
		state.Lyrics = &block
	}

	return state, nil
}

func candidateAt(ranked RankedList, i int, field string) (Candidate, error) {
	if i < 0 || i >= len(ranked) {
		return Candidate{}, fmt.Errorf("%w: %s selection names candidate %d, ranked list has %d", ErrSelection, field, i, len(ranked))
	}
	return ranked[i].Candidate, nil
}

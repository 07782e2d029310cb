// Package tags reads and writes audio file tags. It is the only place the
// tag container format is touched; the match engine never sees file paths.
package tags

import (
	"fmt"

	"lyrictag/internal/match"

	"go.senan.xyz/taglib"
)

// ReadTrack reads a file's existing tags and audio length into a
// TrackReference snapshot.
func ReadTrack(path string) (match.TrackReference, error) {
	fileTags, err := taglib.ReadTags(path)
	if err != nil {
		return match.TrackReference{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	ref := match.TrackReference{
		Title:  firstTag(fileTags, taglib.Title),
		Artist: firstTag(fileTags, taglib.Artist),
		Album:  firstTag(fileTags, taglib.Album),
	}

	// Length comes from the audio stream, not the tag container; a file
	// with unreadable properties still yields a usable reference.
	if props, err := taglib.ReadProperties(path); err == nil {
		ref.Duration = props.Length
	}

	return ref, nil
}

// ReadLyrics returns the file's existing lyrics tag, empty when absent.
func ReadLyrics(path string) (string, error) {
	fileTags, err := taglib.ReadTags(path)
	if err != nil {
		return "", fmt.Errorf("failed to read tags from %s: %w", path, err)
	}
	return firstTag(fileTags, taglib.Lyrics), nil
}

// WriteMerged writes a resolved merge state back into the file. Only fields
// the state actually carries are written; existing tags it does not name
// are left alone.
func WriteMerged(path string, state match.MergedState) error {
	fileTags := make(map[string][]string)

	if state.Song.Title != "" {
		fileTags[taglib.Title] = []string{state.Song.Title}
	}
	if state.Song.Artist != "" {
		fileTags[taglib.Artist] = []string{state.Song.Artist}
	}
	if state.Song.Album != "" {
		fileTags[taglib.Album] = []string{state.Song.Album}
	}
	if state.Lyrics != nil && state.Lyrics.HasText() {
		fileTags[taglib.Lyrics] = []string{state.Lyrics.Text()}
	}

	if len(fileTags) == 0 {
		return nil
	}

	if err := taglib.WriteTags(path, fileTags, 0); err != nil {
		return fmt.Errorf("failed to write tags to %s: %w", path, err)
	}
	return nil
}

func firstTag(fileTags map[string][]string, key string) string {
	if vals, ok := fileTags[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

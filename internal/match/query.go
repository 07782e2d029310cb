package match

import (
	"regexp"
	"strings"
)

// Noise suffixes that ripped or downloaded files carry in their title tags.
var noisePattern = regexp.MustCompile(`(?i)\s*[\(\[](?:official\s+(?:music\s+|lyric\s+)?(?:video|audio|visualizer)|lyrics?|visual(?:izer)?|audio|hd|hq|4k|explicit|clean|remaster(?:ed)?(?:\s+\d{4})?)[\)\]]`)

// Featuring credits embedded in the title.
var featuringPattern = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]+[\)\]]`)

// Channel-style suffix on the artist tag.
var vevoPattern = regexp.MustCompile(`(?i)vevo$`)

// "Artist - Title" packed into the title tag.
var artistTitleSeparator = regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+)$`)

// CleanQuery turns raw tag values into a search query: strips noise
// suffixes and featuring credits from the title, drops a trailing VEVO from
// the artist, and splits "Artist - Title" out of the title when the artist
// tag is empty. The album is only trimmed.
func CleanQuery(title, artist, album string) Query {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(vevoPattern.ReplaceAllString(strings.TrimSpace(artist), ""))

	if title == "" {
		return Query{Title: title, Artist: artist, Album: album}
	}

	title = noisePattern.ReplaceAllString(title, "")
	title = featuringPattern.ReplaceAllString(title, "")

	if artist == "" {
		if m := artistTitleSeparator.FindStringSubmatch(title); m != nil {
			artist = strings.TrimSpace(m[1])
			title = strings.TrimSpace(m[2])
		}
	}

	return Query{
		Title:  strings.TrimSpace(title),
		Artist: artist,
		Album:  strings.TrimSpace(album),
	}
}

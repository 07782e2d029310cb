package tags

import (
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"lyrictag/internal/match"

	"go.senan.xyz/taglib"
)

// createTestAudioFile generates a minimal MP3 using ffmpeg.
// Skips the test if ffmpeg is not available.
func createTestAudioFile(t *testing.T, dir string) string {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping tags test")
	}

	path := filepath.Join(dir, "test.mp3")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono", "-t", "0.5", "-q:a", "9", path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

func TestReadTrack(t *testing.T) {
	dir := t.TempDir()
	path := createTestAudioFile(t, dir)

	err := taglib.WriteTags(path, map[string][]string{
		taglib.Title:  {"Yesterday"},
		taglib.Artist: {"The Beatles"},
		taglib.Album:  {"Help!"},
	}, 0)
	if err != nil {
		t.Fatalf("failed to write initial tags: %v", err)
	}

	ref, err := ReadTrack(path)
	if err != nil {
		t.Fatalf("ReadTrack failed: %v", err)
	}

	if ref.Title != "Yesterday" || ref.Artist != "The Beatles" || ref.Album != "Help!" {
		t.Errorf("ref = %+v", ref)
	}
	if ref.Duration <= 0 {
		t.Errorf("Duration = %v, want positive audio length", ref.Duration)
	}
}

func TestReadTrackUntagged(t *testing.T) {
	dir := t.TempDir()
	path := createTestAudioFile(t, dir)

	ref, err := ReadTrack(path)
	if err != nil {
		t.Fatalf("ReadTrack failed: %v", err)
	}
	if ref.HasMetadata() {
		t.Errorf("untagged file reported metadata: %+v", ref)
	}
}

func TestWriteMerged(t *testing.T) {
	dir := t.TempDir()
	path := createTestAudioFile(t, dir)

	block := match.NewLyricBlock("Yesterday\nAll my troubles seemed so far away", "lrclib")
	state := match.MergedState{
		Song: match.SongInfo{
			Title:    "Yesterday",
			Artist:   "The Beatles",
			Album:    "Help!",
			Duration: 125 * time.Second,
		},
		Lyrics: &block,
	}

	if err := WriteMerged(path, state); err != nil {
		t.Fatalf("WriteMerged failed: %v", err)
	}

	fileTags, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatalf("failed to read tags back: %v", err)
	}

	checks := map[string]string{
		taglib.Title:  "Yesterday",
		taglib.Artist: "The Beatles",
		taglib.Album:  "Help!",
		taglib.Lyrics: "Yesterday\nAll my troubles seemed so far away",
	}
	for key, want := range checks {
		got := firstTag(fileTags, key)
		if got != want {
			t.Errorf("tag %s = %q, want %q", key, got, want)
		}
	}

	lyrics, err := ReadLyrics(path)
	if err != nil {
		t.Fatalf("ReadLyrics failed: %v", err)
	}
	if lyrics != checks[taglib.Lyrics] {
		t.Errorf("ReadLyrics = %q", lyrics)
	}
}

func TestWriteMergedEmptyState(t *testing.T) {
	// A state with nothing to write must be a no-op, not an error.
	if err := WriteMerged("/nonexistent/file.mp3", match.MergedState{}); err != nil {
		t.Errorf("expected nil error for empty state, got %v", err)
	}
}

func TestWriteMergedNonexistentFile(t *testing.T) {
	state := match.MergedState{Song: match.SongInfo{Title: "x"}}
	if err := WriteMerged("/nonexistent/file.mp3", state); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestReadTrackNonexistentFile(t *testing.T) {
	if _, err := ReadTrack("/nonexistent/file.mp3"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

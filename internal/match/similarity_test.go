package match

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "blinding lights", "blinding lights", 1.0},
		{"both empty", "", "", 1.0},
		{"left empty", "", "something", 0.0},
		{"right empty", "something", "", 0.0},
		{"case insensitive", "Blinding Lights", "BLINDING LIGHTS", 1.0},
		{"punctuation stripped", "don't stop me now!", "dont stop me now", 1.0},
		{"whitespace collapsed", "the   weeknd", "the weeknd", 1.0},
		{"compact equality", "theweeknd", "the weeknd", 1.0},
		{"half overlap", "yesterday", "yesterday remaster", 0.5},
		{"no overlap", "bohemian rhapsody", "blinding lights", 0.0},
		{"punctuation only is empty", "...", "", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Similarity(%q, %q) = %.4f, want %.4f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Yesterday", "Yesterday (Remaster)"},
		{"The Beatles", "Beatles"},
		{"", "abc"},
		{"some long title here", "another title entirely"},
	}

	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %.4f but reversed = %.4f", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarityRange(t *testing.T) {
	pairs := [][2]string{
		{"a b c d", "c d e f"},
		{"one", "one two three"},
		{"x", "y"},
	}

	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %.4f, out of [0,1]", p[0], p[1], got)
		}
	}
}

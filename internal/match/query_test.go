package match

import "testing"

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		artist     string
		wantTitle  string
		wantArtist string
	}{
		{
			name:       "already clean",
			title:      "Blinding Lights",
			artist:     "The Weeknd",
			wantTitle:  "Blinding Lights",
			wantArtist: "The Weeknd",
		},
		{
			name:       "official video suffix",
			title:      "Blinding Lights (Official Video)",
			artist:     "The Weeknd",
			wantTitle:  "Blinding Lights",
			wantArtist: "The Weeknd",
		},
		{
			name:       "bracketed official audio",
			title:      "Blinding Lights [Official Audio]",
			artist:     "The Weeknd",
			wantTitle:  "Blinding Lights",
			wantArtist: "The Weeknd",
		},
		{
			name:       "lyric video suffix",
			title:      "Blinding Lights (Official Lyric Video)",
			artist:     "The Weeknd",
			wantTitle:  "Blinding Lights",
			wantArtist: "The Weeknd",
		},
		{
			name:       "remaster suffix",
			title:      "Yesterday (Remastered 2009)",
			artist:     "The Beatles",
			wantTitle:  "Yesterday",
			wantArtist: "The Beatles",
		},
		{
			name:       "featuring stripped",
			title:      "Save Your Tears (feat. Ariana Grande)",
			artist:     "The Weeknd",
			wantTitle:  "Save Your Tears",
			wantArtist: "The Weeknd",
		},
		{
			name:       "vevo artist suffix",
			title:      "Blinding Lights",
			artist:     "TheWeekndVEVO",
			wantTitle:  "Blinding Lights",
			wantArtist: "TheWeeknd",
		},
		{
			name:       "artist dash title split",
			title:      "The Weeknd - Blinding Lights",
			artist:     "",
			wantTitle:  "Blinding Lights",
			wantArtist: "The Weeknd",
		},
		{
			name:       "no split when artist present",
			title:      "Some - Hyphenated Title",
			artist:     "Known Artist",
			wantTitle:  "Some - Hyphenated Title",
			wantArtist: "Known Artist",
		},
		{
			name:       "empty title",
			title:      "",
			artist:     "The Weeknd",
			wantTitle:  "",
			wantArtist: "The Weeknd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanQuery(tt.title, tt.artist, "")
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Artist != tt.wantArtist {
				t.Errorf("Artist = %q, want %q", got.Artist, tt.wantArtist)
			}
		})
	}
}

func TestCleanQueryAlbumPassthrough(t *testing.T) {
	got := CleanQuery("Yesterday", "The Beatles", "  Help!  ")
	if got.Album != "Help!" {
		t.Errorf("Album = %q, want trimmed passthrough", got.Album)
	}
}

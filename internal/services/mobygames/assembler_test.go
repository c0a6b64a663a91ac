package mobygames

import (
	"testing"
	"time"

	"github.com/grantgg11/gamegrinding/internal/models"
)

func TestAssembleCandidateDefaults(t *testing.T) {
	candidate := assembleCandidate(GameRecord{GameID: 42}, nil)

	if candidate.Title != "Unknown Title" {
		t.Errorf("Expected fallback title, got %q", candidate.Title)
	}
	if candidate.Developer != "Unknown" {
		t.Errorf("Expected Unknown developer, got %q", candidate.Developer)
	}
	if candidate.Publisher != "Unknown" {
		t.Errorf("Expected Unknown publisher, got %q", candidate.Publisher)
	}
	if candidate.Genre != "Unknown" {
		t.Errorf("Expected Unknown genre, got %q", candidate.Genre)
	}
	if candidate.ReleaseDate != nil {
		t.Errorf("Expected nil release date, got %v", candidate.ReleaseDate)
	}
	if candidate.CompletionStatus != models.StatusNotStarted {
		t.Errorf("Expected Not Started status, got %q", candidate.CompletionStatus)
	}
	if candidate.CoverURL != "" {
		t.Errorf("Expected empty cover URL, got %q", candidate.CoverURL)
	}
	if candidate.Notes != "" {
		t.Errorf("Expected empty notes, got %q", candidate.Notes)
	}
}

func TestAssembleCandidateFields(t *testing.T) {
	record := GameRecord{
		GameID: 7,
		Title:  "Chrono Trigger",
		Genres: []genreRecord{
			{GenreName: "Role-Playing (RPG)"},
			{GenreName: "Adventure"},
		},
		SampleCover: &coverRecord{Image: "https://example.com/cover.jpg"},
	}
	platforms := []PlatformDetail{
		{PlatformID: 15, Name: "SNES", Developer: "Square", Publisher: "Square", ReleaseDate: "1995-03-11"},
		{PlatformID: 3, Name: "PlayStation", Developer: "Unknown", Publisher: "Square EA", ReleaseDate: "1999"},
	}

	candidate := assembleCandidate(record, platforms)

	if candidate.MobyID != 7 {
		t.Errorf("MobyID mismatch: %d", candidate.MobyID)
	}
	if candidate.Title != "Chrono Trigger" {
		t.Errorf("Title mismatch: %q", candidate.Title)
	}
	// First listed genre wins
	if candidate.Genre != "Role-Playing (RPG)" {
		t.Errorf("Genre mismatch: %q", candidate.Genre)
	}
	if candidate.CoverURL != "https://example.com/cover.jpg" {
		t.Errorf("Cover URL mismatch: %q", candidate.CoverURL)
	}
	if candidate.Platforms != "SNES, PlayStation" {
		t.Errorf("Platforms mismatch: %q", candidate.Platforms)
	}
	if candidate.ReleaseDate == nil || !candidate.ReleaseDate.Equal(time.Date(1995, time.March, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Release date mismatch: %v", candidate.ReleaseDate)
	}
}

func TestAssembleCandidateLastNonUnknownWins(t *testing.T) {
	platforms := []PlatformDetail{
		{Name: "DOS", Developer: "First Dev", Publisher: "First Pub"},
		{Name: "Windows", Developer: "Unknown", Publisher: "Unknown"},
		{Name: "Mac", Developer: "Last Dev", Publisher: "Last Pub"},
	}

	candidate := assembleCandidate(GameRecord{GameID: 1, Title: "X"}, platforms)

	if candidate.Developer != "Last Dev" {
		t.Errorf("Expected last non-Unknown developer to win, got %q", candidate.Developer)
	}
	if candidate.Publisher != "Last Pub" {
		t.Errorf("Expected last non-Unknown publisher to win, got %q", candidate.Publisher)
	}
}

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		input string
		want  *time.Time
	}{
		{"1995", timePtr(time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC))},
		{"1995-03-11", timePtr(time.Date(1995, time.March, 11, 0, 0, 0, 0, time.UTC))},
		{"", nil},
		{"March 1995", nil},
		{"95", nil},
		{"not a date", nil},
	}

	for _, tt := range tests {
		got := parseReleaseDate(tt.input)
		if tt.want == nil {
			if got != nil {
				t.Errorf("parseReleaseDate(%q) = %v, want nil", tt.input, got)
			}
			continue
		}
		if got == nil || !got.Equal(*tt.want) {
			t.Errorf("parseReleaseDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

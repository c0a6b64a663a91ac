package mobygames

import (
	"strings"
	"time"

	"github.com/grantgg11/gamegrinding/internal/models"
)

const unknownTitle = "Unknown Title"

// assembleCandidate flattens one raw game record plus its resolved platform
// details into a CandidateGame. Pure; safe to call from any worker.
func assembleCandidate(record GameRecord, platforms []PlatformDetail) CandidateGame {
	candidate := CandidateGame{
		MobyID:           record.GameID,
		Title:            record.Title,
		Developer:        unknownValue,
		Publisher:        unknownValue,
		Genre:            unknownValue,
		CompletionStatus: models.StatusNotStarted,
	}

	if candidate.Title == "" {
		candidate.Title = unknownTitle
	}

	if len(record.Genres) > 0 && record.Genres[0].GenreName != "" {
		candidate.Genre = record.Genres[0].GenreName
	}

	if record.SampleCover != nil {
		candidate.CoverURL = record.SampleCover.Image
	}

	// Multi-platform developer/publisher variation collapses to one value,
	// last non-Unknown platform wins.
	names := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		if platform.Name != "" {
			names = append(names, platform.Name)
		}
		if platform.Developer != unknownValue && platform.Developer != "" {
			candidate.Developer = platform.Developer
		}
		if platform.Publisher != unknownValue && platform.Publisher != "" {
			candidate.Publisher = platform.Publisher
		}
		if candidate.ReleaseDate == nil {
			candidate.ReleaseDate = parseReleaseDate(platform.ReleaseDate)
		}
	}
	candidate.Platforms = strings.Join(names, ", ")

	return candidate
}

// parseReleaseDate accepts a 4-digit year (normalized to January 1st) or a
// full ISO date. Anything else is discarded; a parse failure never escapes.
func parseReleaseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if parsed, err := time.Parse("2006", value); err == nil {
		date := time.Date(parsed.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return &date
	}

	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		date := parsed.UTC()
		return &date
	}

	return nil
}

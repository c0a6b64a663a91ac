package mobygames

import (
	"time"

	"github.com/grantgg11/gamegrinding/internal/models"
)

// CandidateGame is an in-memory, not-yet-persisted game record produced by the
// search pipeline. Persistence is the collection controller's job.
type CandidateGame struct {
	MobyID           int
	Title            string
	Developer        string
	Publisher        string
	ReleaseDate      *time.Time
	Genre            string
	Platforms        string // comma-separated platform names
	CompletionStatus models.CompletionStatus
	Notes            string
	CoverURL         string
}

// PlatformDetail is per-platform release metadata resolved from the nested
// releases/companies payload of the platform-detail endpoint.
type PlatformDetail struct {
	PlatformID  int
	Name        string
	Developer   string
	Publisher   string
	ReleaseDate string
}

// unknownValue is the fallback for any field the API payload doesn't provide.
const unknownValue = "Unknown"

// GameRecord is one game as returned by the search and detail endpoints.
// Shapes are consumed loosely; absent fields simply stay zero.
type GameRecord struct {
	GameID      int           `json:"game_id"`
	Title       string        `json:"title"`
	Genres      []genreRecord `json:"genres"`
	SampleCover *coverRecord  `json:"sample_cover"`
}

type genreRecord struct {
	GenreName string `json:"genre_name"`
}

type coverRecord struct {
	Image string `json:"image"`
}

type searchResponse struct {
	Games []GameRecord `json:"games"`
}

type platformListResponse struct {
	Platforms []platformRecord `json:"platforms"`
}

type platformRecord struct {
	PlatformID       int    `json:"platform_id"`
	PlatformName     string `json:"platform_name"`
	FirstReleaseDate string `json:"first_release_date"`
}

type platformDetailRecord struct {
	PlatformID       int             `json:"platform_id"`
	PlatformName     string          `json:"platform_name"`
	FirstReleaseDate string          `json:"first_release_date"`
	Releases         []releaseRecord `json:"releases"`
}

type releaseRecord struct {
	ReleaseDate string          `json:"release_date"`
	Companies   []companyRecord `json:"companies"`
}

type companyRecord struct {
	CompanyName string `json:"company_name"`
	Role        string `json:"role"`
}

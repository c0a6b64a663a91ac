package models

import "time"

// Game is one entry in a user's collection
type Game struct {
	ID     uint64 `boltholdKey:"ID"`
	UserID uint64 `boltholdIndex:"UserID"`

	// MobyGames identifier; 0 for manually entered games
	MobyID int

	Title       string
	Developer   string
	Publisher   string
	ReleaseDate *time.Time
	Genre       string
	Platforms   string // comma-separated platform names

	CompletionStatus CompletionStatus
	Notes            string
	CoverURL         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

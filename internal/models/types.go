package models

// CompletionStatus represents how far a user has played a game
type CompletionStatus string

const (
	StatusNotStarted CompletionStatus = "Not Started"
	StatusInProgress CompletionStatus = "In Progress"
	StatusCompleted  CompletionStatus = "Completed"
)

// RequestStatus represents the outcome of an outbound API request
type RequestStatus string

const (
	RequestSuccess RequestStatus = "Success"
	RequestFailed  RequestStatus = "Failed"
)

// SortField selects the ordering of a collection listing
type SortField string

const (
	SortByTitle       SortField = "title"
	SortByReleaseDate SortField = "release_date"
	SortByPlatform    SortField = "platform"
)

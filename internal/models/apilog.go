package models

import "time"

// APIRequestLog is one outbound metadata API call. The URL is sanitized by the
// client before it reaches this record; the API key never lands in the store.
type APIRequestLog struct {
	ID uint64 `boltholdKey:"ID"`

	UserID    uint64 `boltholdIndex:"UserID"`
	URL       string
	ElapsedMS int64
	Status    RequestStatus
	ErrorCode string // empty on success

	Timestamp time.Time
}

package models

import "time"

// User is a registered account. The email address is stored encrypted; the
// deterministic digest exists only so accounts can be found at login time.
type User struct {
	ID uint64 `boltholdKey:"ID"`

	EmailDigest    string `boltholdIndex:"EmailDigest"`
	EmailEncrypted []byte

	PasswordHash string

	// Hashed answers to the three account-recovery questions, in question order
	AnswerHashes []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

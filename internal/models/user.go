package models

import "time"

// User is a directory account. PasswordHash holds the bcrypt digest and is
// never serialized.
type User struct {
	ID           int64      `json:"id"`
	Login        string     `json:"login"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Birthday     *time.Time `json:"birthday,omitempty"`
	Disabled     bool       `json:"disabled"`
}

// Permission is the single role row attached to a user. Blocking exists in
// the schema but no authorization decision consults it; the field is
// reserved.
type Permission struct {
	ID       int64 `json:"id"`
	UserID   int64 `json:"user_id"`
	Role     Role  `json:"role"`
	Blocking bool  `json:"blocking"`
}

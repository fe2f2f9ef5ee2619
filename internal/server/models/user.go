// Package models defines the row types stored in Postgres and the shapes
// returned to API callers.
package models

import "time"

// User is a full user row, including the password digest. It never crosses
// the HTTP boundary as-is; handlers build UserSummary/UserDetail from it.
type User struct {
	Username    string
	Password    string // bcrypt digest
	FirstName   string
	LastName    string
	Phone       string
	JoinAt      time.Time
	LastLoginAt *time.Time // nil until the first successful login
}

// UserSummary is the public slice of a user embedded in listings and
// message payloads.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UserDetail is the full public profile returned by the user-detail endpoint.
type UserDetail struct {
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	JoinAt      time.Time  `json:"join_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// Summary projects the public fields of a user row.
func (u *User) Summary() UserSummary {
	return UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// Detail projects the public profile of a user row.
func (u *User) Detail() UserDetail {
	return UserDetail{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinAt:      u.JoinAt,
		LastLoginAt: u.LastLoginAt,
	}
}

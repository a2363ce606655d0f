package models

import "time"

// User is the authenticated session subject. At most one is present at a time.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Account is the stored credential record behind a User.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize in JSON
	DisplayName  string    `json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// User projects the account onto its session shape.
func (a Account) User() User {
	return User{ID: a.ID, Email: a.Email, DisplayName: a.DisplayName}
}

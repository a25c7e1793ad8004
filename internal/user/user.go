package user

import "time"

// User is an account in the local directory. PasswordHash holds a bcrypt
// hash and never leaves the process.
type User struct {
	ID           int       `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

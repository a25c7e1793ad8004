// Package auth signs shoppers in and out against a user directory and keeps
// the signed-in user's data in device storage.
package auth

import (
	"errors"
	"net/http"
	"time"
)

// SessionKey is the storage key holding the signed-in user's data.
const SessionKey = "session"

const (
	MsgMissingFields        = "Please fill in all fields"
	MsgUserNotFound         = "User not found. Please check your email or sign up."
	MsgInvalidPassword      = "Invalid password. Please try again."
	MsgLoginError           = "An error occurred during login. Please try again."
	MsgRegistrationDisabled = "Registration is currently unavailable."
	MsgUserExists           = "User already exists"
	MsgCreateFailed         = "Failed to create user"
	MsgRegistrationError    = "An error occurred during registration"
	MsgLogoutError          = "An error occurred during logout"
	MsgProfileUnavailable   = "Unable to load user profile"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserExists      = errors.New("user already exists")
	ErrCreateFailed    = errors.New("failed to create user")
)

type UserData struct {
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

type failure int

const (
	none failure = iota
	invalidInput
	unauthorized
	conflict
	unavailable
	upstream
)

// Result is the outcome of a gateway call. Expected failures are reported
// here rather than as errors.
type Result struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	User    *UserData `json:"user,omitempty"`

	failure failure
}

func ok(user *UserData) Result { return Result{Success: true, User: user} }

func fail(f failure, msg string) Result { return Result{Message: msg, failure: f} }

// HTTPStatus maps the result to a response status code.
func (r Result) HTTPStatus() int {
	switch r.failure {
	case none:
		return http.StatusOK
	case invalidInput:
		return http.StatusBadRequest
	case unauthorized:
		return http.StatusUnauthorized
	case conflict:
		return http.StatusConflict
	case unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDataInvalid    = errors.New("invalid user data")
)

type User struct {
	Uid       string
	Email     string
	Username  string
	CreatedAt time.Time
}

// Package session carries the acting user through a request context. Core
// services read the session instead of any ambient global state.
package session

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const userKey contextKey = "user"

var ErrNoUser = errors.New("user not found")

// User identifies the logged-in user of the current request.
type User struct {
	Email    string
	Username string
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Current retrieves the session user from the context. Returns ErrNoUser if
// no user is present.
func Current(ctx context.Context) (User, error) {
	user, ok := ctx.Value(userKey).(User)
	if !ok {
		log.Trace("user not found in context")
		return User{}, ErrNoUser
	}
	return user, nil
}

// CurrentEmail retrieves the session user's email from the context.
func CurrentEmail(ctx context.Context) (string, error) {
	user, ok := ctx.Value(userKey).(User)
	if !ok {
		log.Trace("user not found in context")
		return "", ErrNoUser
	}
	return user.Email, nil
}

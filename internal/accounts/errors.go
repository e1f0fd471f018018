package accounts

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserDisabled     = errors.New("user is disabled")
	ErrWrongCredentials = errors.New("wrong username or password")
	ErrUsernameTaken    = errors.New("username already taken")
)

package repository

import "errors"

var (
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateNickname   = errors.New("nickname already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnauthorized        = errors.New("unauthorized: only admins can perform this action")
	ErrSelfDeleteForbidden = errors.New("admin cannot delete themselves")
)

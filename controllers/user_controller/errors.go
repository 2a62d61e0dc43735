package user_controller

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidUserType    = errors.New("user_type must be customer or freelancer")
)

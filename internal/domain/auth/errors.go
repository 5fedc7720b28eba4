package auth

import "errors"

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrForbidden      = errors.New("you do not have permission to perform this action")
	ErrAdminRequired  = errors.New("admin privilege required")
	ErrNoEmployeeLink = errors.New("account is not linked to an employee")
)

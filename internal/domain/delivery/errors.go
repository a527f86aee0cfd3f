package delivery

import "errors"

var (
	ErrPointNotFound  = errors.New("pickup point not found")
	ErrInvalidContact = errors.New("recipient name and phone are required")
)

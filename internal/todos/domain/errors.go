package domain

import "errors"

var (
	ErrNotFound     = errors.New("todo not found")
	ErrInvalidTitle = errors.New("todo title must not be empty")
)

package types

import "errors"

var (
	ErrNotFound   = errors.New("requested item not found")
	ErrValidation = errors.New("validation failed")
)

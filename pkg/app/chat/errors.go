package chat

import "errors"

var (
	ErrMissingCredential = errors.New("missing API credential")
	ErrEmptyMessage      = errors.New("message must not be empty")
)

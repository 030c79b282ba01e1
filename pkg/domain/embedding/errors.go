package embedding

import "errors"

var (
	ErrProviderNonOKResponse    = errors.New("embedding provider returned non-OK response")
	ErrUnexpectedEmbeddingShape = errors.New("unexpected embedding response shape")
	ErrMissingCredentials       = errors.New("embedding provider credentials not provided")
	ErrEmbeddingNotFound        = errors.New("embedding not found")
)

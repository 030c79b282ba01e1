package knowledge

import "errors"

var (
	ErrKnowledgeBaseNotFound = errors.New("knowledge base not found")
	ErrEmptyKnowledgeBase    = errors.New("knowledge base is empty")
	ErrInvalidKnowledgeBase  = errors.New("knowledge base is not a valid document array")
)

package request

import (
	"errors"
	"strings"
)

const MaxMessageLength = 4000

type ChatRequest struct {
	Message string `json:"message"`
}

func (r *ChatRequest) Validate() error {
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		return errors.New("message is required")
	}
	if len(msg) > MaxMessageLength {
		return errors.New("message is too long")
	}
	return nil
}

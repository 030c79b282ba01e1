package providers

import (
	"errors"
	"strings"
)

var (
	ErrAPIKeyRequired = errors.New("API key is required")
	ErrModelRequired  = errors.New("model is required")
	ErrNoCompletions  = errors.New("no completions returned")
)

// SplitSystem separates system messages, joined by a blank line, from the
// conversation turns for vendors that take the system prompt out of band.
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if strings.TrimSpace(m.Content) != "" {
				system = append(system, m.Content)
			}
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}

func Validate(config *Config, requireKey bool) error {
	if config == nil {
		return ErrModelRequired
	}
	if requireKey && config.Credentials.ApiKey == "" {
		return ErrAPIKeyRequired
	}
	if config.Model == "" {
		return ErrModelRequired
	}
	return nil
}

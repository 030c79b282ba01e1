package cache

import (
	"encoding/json"
)

// RedisMessage is the envelope published on every pub/sub channel. Type
// selects the concrete event in the listener registry.
type RedisMessage struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

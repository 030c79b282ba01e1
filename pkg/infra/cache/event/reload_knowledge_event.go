package event

import "time"

// ReloadKnowledgeEvent asks every server instance to drop its in-memory
// vector store and read it again on the next request.
type ReloadKnowledgeEvent struct {
	Source      string    `json:"source"`
	Path        string    `json:"path,omitempty"`
	Documents   int       `json:"documents,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

func (e ReloadKnowledgeEvent) Type() string {
	return ReloadKnowledgeEventType
}

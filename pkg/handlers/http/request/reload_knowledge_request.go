package request

type ReloadKnowledgeRequest struct {
	Reason string `json:"reason,omitempty"`
}

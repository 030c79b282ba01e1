package channel

type Channel string

const (
	KnowledgeEventsChannel Channel = "turing:knowledge:events"
)

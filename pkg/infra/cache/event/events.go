package event

import "reflect"

type Event interface {
	Type() string
}

var (
	ReloadKnowledgeEventType = "ReloadKnowledgeEvent"
)

var Registry = map[string]reflect.Type{
	ReloadKnowledgeEventType: reflect.TypeOf(ReloadKnowledgeEvent{}),
}

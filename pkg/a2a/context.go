package a2a

import "time"

/*
Context is a conversation-level grouping of tasks sharing dialogue
continuity.  TaskIDs is kept in creation order.  Preview caches the first
user text in the conversation so listings do not need to refetch task
histories.
*/
type Context struct {
	ID           string    `json:"contextId"`
	TaskIDs      []string  `json:"taskIds,omitempty"`
	Preview      string    `json:"preview,omitempty"`
	LastActivity time.Time `json:"lastActivity,omitempty"`
}

package a2a

import "strings"

// Message roles.  The remote agent always authors with RoleAgent; the
// submitting side always authors with RoleUser.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

/*
Message represents all non-artifact communication between client & agent.
Messages are created once and never mutated: continuity between tasks is
expressed through ReferenceTaskIDs rather than edits.
*/
type Message struct {
	Role             string         `json:"role"`
	Parts            []Part         `json:"parts"`
	MessageID        string         `json:"messageId"`
	ContextID        string         `json:"contextId,omitempty"`
	TaskID           string         `json:"taskId,omitempty"`
	ReferenceTaskIDs []string       `json:"referenceTaskIds,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

func NewTextMessage(role string, text string) *Message {
	return &Message{
		Role: role,
		Parts: []Part{
			{Type: PartTypeText, Text: text},
		},
	}
}

func NewFileMessage(role string, file *FilePart) *Message {
	return &Message{
		Role: role,
		Parts: []Part{
			{Type: PartTypeFile, File: file},
		},
	}
}

func NewDataMessage(role string, data map[string]any) *Message {
	return &Message{
		Role: role,
		Parts: []Part{
			{Type: PartTypeData, Data: data},
		},
	}
}

// Text concatenates every text part of the message.
func (msg *Message) Text() string {
	var sb strings.Builder

	for _, part := range msg.Parts {
		if part.Type == PartTypeText {
			sb.WriteString(part.Text)
		}
	}

	return sb.String()
}

func (msg *Message) String() string {
	return msg.Text()
}

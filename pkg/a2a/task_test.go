package a2a

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLastAgentText(t *testing.T) {
	task := Task{
		History: []Message{
			*NewTextMessage(RoleUser, "question"),
			*NewTextMessage(RoleAgent, "first answer"),
			*NewTextMessage(RoleUser, "follow up"),
			*NewTextMessage(RoleAgent, "second answer"),
		},
	}

	assert.Equal(t, "second answer", task.LastAgentText())
}

func TestLastAgentTextSkipsEmptyAndUser(t *testing.T) {
	task := Task{
		History: []Message{
			*NewTextMessage(RoleAgent, "real answer"),
			*NewDataMessage(RoleAgent, map[string]any{"k": "v"}),
			*NewTextMessage(RoleUser, "noise"),
		},
	}

	assert.Equal(t, "real answer", task.LastAgentText())

	empty := Task{History: []Message{*NewTextMessage(RoleUser, "only user")}}
	assert.Equal(t, "", empty.LastAgentText())
}

func TestErrorDetail(t *testing.T) {
	task := Task{Metadata: map[string]any{"error": "boom"}}
	assert.Equal(t, "boom", task.ErrorDetail())

	task = Task{Status: TaskStatus{Message: NewTextMessage(RoleAgent, "went sideways")}}
	assert.Equal(t, "went sideways", task.ErrorDetail())

	assert.Equal(t, "", (&Task{}).ErrorDetail())
}

func TestArtifactText(t *testing.T) {
	artifact := Artifact{
		Parts: []Part{
			NewTextPart("one "),
			NewDataPart(map[string]any{"skip": true}),
			NewTextPart("two"),
		},
	}

	assert.Equal(t, "one two", artifact.Text())
}

func TestTaskStringRendersAllSections(t *testing.T) {
	task := Task{
		ID:        "t1",
		ContextID: "ctx-1",
		Status: TaskStatus{
			State:     TaskStateCompleted,
			Message:   NewTextMessage(RoleAgent, "all done"),
			Timestamp: time.Now(),
		},
		History: []Message{
			*NewTextMessage(RoleUser, "please echo"),
			*NewTextMessage(RoleAgent, "echo: please echo"),
		},
		Artifacts: []Artifact{NewTextArtifact("echo", "echo: please echo")},
		Metadata:  map[string]any{"trace": "abc123"},
	}

	rendered := task.String()

	assert.Contains(t, rendered, "Task Details")
	assert.Contains(t, rendered, "t1")
	assert.Contains(t, rendered, "ctx-1")
	assert.Contains(t, rendered, "Status")
	assert.Contains(t, rendered, string(TaskStateCompleted))
	assert.Contains(t, rendered, "all done")
	assert.Contains(t, rendered, "History")
	assert.Contains(t, rendered, "please echo")
	assert.Contains(t, rendered, "Artifacts")
	assert.Contains(t, rendered, "echo: please echo")
	assert.Contains(t, rendered, "Metadata")
	assert.Contains(t, rendered, "abc123")
}

func TestTaskStringOmitsEmptySections(t *testing.T) {
	task := Task{ID: "t1", Status: TaskStatus{State: TaskStateWorking, Timestamp: time.Now()}}

	rendered := task.String()

	assert.Contains(t, rendered, "t1")
	assert.NotContains(t, rendered, "History")
	assert.NotContains(t, rendered, "Artifacts")
	assert.NotContains(t, rendered, "Metadata")
}

func TestMessageText(t *testing.T) {
	msg := NewTextMessage(RoleUser, "hello")
	assert.Equal(t, "hello", msg.Text())

	data := NewDataMessage(RoleUser, map[string]any{"k": "v"})
	assert.Equal(t, "", data.Text())
}

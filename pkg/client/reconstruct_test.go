package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/binduai/bindu-go/pkg/a2a"
)

func TestFinalTextPrefersArtifacts(t *testing.T) {
	task := &a2a.Task{
		ID: "t1",
		History: []a2a.Message{
			*a2a.NewTextMessage(a2a.RoleAgent, "history answer"),
		},
		Artifacts: []a2a.Artifact{
			a2a.NewTextArtifact("a", "artifact "),
			a2a.NewTextArtifact("b", "answer"),
		},
	}

	text, err := FinalText(task)
	require.NoError(t, err)
	assert.Equal(t, "artifact answer", text)
}

func TestFinalTextFallsBackToHistory(t *testing.T) {
	task := &a2a.Task{
		ID: "t1",
		History: []a2a.Message{
			*a2a.NewTextMessage(a2a.RoleUser, "question"),
			*a2a.NewTextMessage(a2a.RoleAgent, "history answer"),
		},
	}

	text, err := FinalText(task)
	require.NoError(t, err)
	assert.Equal(t, "history answer", text)
}

func TestFinalTextNoContent(t *testing.T) {
	task := &a2a.Task{
		ID:      "t1",
		History: []a2a.Message{*a2a.NewTextMessage(a2a.RoleUser, "question")},
	}

	_, err := FinalText(task)

	var noContent *a2a.NoContentError
	require.ErrorAs(t, err, &noContent)
	assert.Equal(t, "t1", noContent.TaskID)
}

func TestFinalTextIdempotent(t *testing.T) {
	// A pure function of task content: same input, same answer.
	task := &a2a.Task{
		ID:        "t1",
		Artifacts: []a2a.Artifact{a2a.NewTextArtifact("a", "stable")},
	}

	first, err := FinalText(task)
	require.NoError(t, err)
	second, err := FinalText(task)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func artifactEvent(text string, lastChunk bool) *a2a.TaskArtifactUpdateEvent {
	return &a2a.TaskArtifactUpdateEvent{
		TaskID:    "t1",
		Artifact:  a2a.Artifact{Parts: []a2a.Part{a2a.NewTextPart(text)}},
		LastChunk: lastChunk,
	}
}

func statusEvent(state a2a.TaskState, text string, final bool) *a2a.TaskStatusUpdateEvent {
	ev := &a2a.TaskStatusUpdateEvent{
		TaskID: "t1",
		Status: a2a.TaskStatus{State: state},
		Final:  final,
	}
	if text != "" {
		ev.Status.Message = a2a.NewTextMessage(a2a.RoleAgent, text)
	}
	return ev
}

func TestReconstructorOverlappingReports(t *testing.T) {
	// "Hel" then a full-so-far "Hello" must only emit the "lo" suffix.
	r := NewReconstructor()

	chunk, ok := r.ApplyArtifact(artifactEvent("Hel", false))
	require.True(t, ok)
	assert.Equal(t, "Hel", chunk.Token)
	assert.False(t, chunk.Final)

	chunk, ok = r.ApplyArtifact(artifactEvent("Hello", true))
	require.True(t, ok)
	assert.Equal(t, "lo", chunk.Token)
	assert.True(t, chunk.Final)
	assert.Equal(t, "Hello", chunk.Aggregate)
}

func TestReconstructorStatusTokens(t *testing.T) {
	r := NewReconstructor()

	chunk, ok := r.ApplyStatus(statusEvent(a2a.TaskStateWorking, "thinking ", false))
	require.True(t, ok)
	assert.Equal(t, "thinking ", chunk.Token)
	assert.False(t, chunk.Final)

	// A terminal state marks the final emission even without the flag.
	chunk, ok = r.ApplyStatus(statusEvent(a2a.TaskStateCompleted, "done", false))
	require.True(t, ok)
	assert.Equal(t, "done", chunk.Token)
	assert.True(t, chunk.Final)
	assert.Equal(t, "thinking done", chunk.Aggregate)
}

func TestReconstructorSkipsEmptyNonFinal(t *testing.T) {
	r := NewReconstructor()

	_, ok := r.ApplyStatus(statusEvent(a2a.TaskStateWorking, "", false))
	assert.False(t, ok)

	// Empty but final still surfaces.
	chunk, ok := r.ApplyStatus(statusEvent(a2a.TaskStateCompleted, "", false))
	require.True(t, ok)
	assert.True(t, chunk.Final)
}

func TestReconstructorRoundTrip(t *testing.T) {
	// Concatenated tokens must equal the final aggregate for any event
	// sequence ending in a final marker.
	sequences := [][]struct {
		text  string
		last  bool
	}{
		{{"a", false}, {"b", false}, {"c", true}},
		{{"Hel", false}, {"Hello wor", false}, {"Hello world", true}},
		{{"single shot", true}},
		{{"dup", false}, {"dup", false}, {"duplicate", true}},
	}

	for _, seq := range sequences {
		r := NewReconstructor()
		var emitted strings.Builder
		var final Chunk

		for _, ev := range seq {
			chunk, ok := r.ApplyArtifact(artifactEvent(ev.text, ev.last))
			if !ok {
				continue
			}
			emitted.WriteString(chunk.Token)
			if chunk.Final {
				final = chunk
			}
		}

		require.True(t, final.Final)
		assert.Equal(t, final.Aggregate, emitted.String())
	}
}

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/binduai/bindu-go/pkg/a2a"
)

func fixedID(id string) func() string {
	return func() string { return id }
}

func TestResolveFirstMessage(t *testing.T) {
	res := ResolveContinuity("", a2a.TaskStateUnknown, "", fixedID("fresh"))

	assert.Equal(t, "fresh", res.TaskID)
	assert.Empty(t, res.ReferenceTaskIDs)
}

func TestResolveReusesNonTerminal(t *testing.T) {
	// Non-terminal states always reuse the prior id with no references.
	for _, state := range []a2a.TaskState{a2a.TaskStateInputReq, a2a.TaskStateAuthRequired} {
		res := ResolveContinuity("T1", state, "", fixedID("fresh"))

		assert.Equal(t, "T1", res.TaskID, string(state))
		assert.Empty(t, res.ReferenceTaskIDs, string(state))
	}
}

func TestResolveNeverReusesTerminal(t *testing.T) {
	// Terminal states always start a new task referencing the old one.
	terminal := []a2a.TaskState{
		a2a.TaskStateCompleted,
		a2a.TaskStateFailed,
		a2a.TaskStateCanceled,
		a2a.TaskStateRejected,
	}

	for _, state := range terminal {
		res := ResolveContinuity("T1", state, "", fixedID("fresh"))

		assert.Equal(t, "fresh", res.TaskID, string(state))
		assert.Equal(t, []string{"T1"}, res.ReferenceTaskIDs, string(state))
	}
}

func TestResolveWorkingCannotReuse(t *testing.T) {
	for _, state := range []a2a.TaskState{a2a.TaskStateSubmitted, a2a.TaskStateWorking, a2a.TaskStateUnknown} {
		res := ResolveContinuity("T1", state, "", fixedID("fresh"))

		assert.Equal(t, "fresh", res.TaskID, string(state))
		assert.Equal(t, []string{"T1"}, res.ReferenceTaskIDs, string(state))
	}
}

func TestResolveExplicitReplyTargetWins(t *testing.T) {
	// The reply target takes priority even over a reusable prior task.
	res := ResolveContinuity("T1", a2a.TaskStateInputReq, "T0", fixedID("fresh"))

	assert.Equal(t, "fresh", res.TaskID)
	assert.Equal(t, []string{"T0"}, res.ReferenceTaskIDs)
}

func TestResolveDefaultsToUUID(t *testing.T) {
	res := ResolveContinuity("", a2a.TaskStateUnknown, "", nil)

	assert.NotEmpty(t, res.TaskID)

	other := ResolveContinuity("", a2a.TaskStateUnknown, "", nil)
	assert.NotEqual(t, res.TaskID, other.TaskID)
}

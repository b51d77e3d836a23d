package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	working := []TaskState{TaskStateSubmitted, TaskStateWorking}
	nonTerminal := []TaskState{TaskStateInputReq, TaskStateAuthRequired}
	terminal := []TaskState{TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected}

	for _, state := range working {
		assert.Equal(t, GroupWorking, Classify(state), string(state))
	}
	for _, state := range nonTerminal {
		assert.Equal(t, GroupNonTerminal, Classify(state), string(state))
	}
	for _, state := range terminal {
		assert.Equal(t, GroupTerminal, Classify(state), string(state))
	}

	assert.Equal(t, GroupUnknown, Classify(TaskStateUnknown))
	assert.Equal(t, GroupUnknown, Classify(TaskState("bogus")))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsTerminal(TaskStateCompleted))
	assert.True(t, IsTerminal(TaskStateFailed))
	assert.True(t, IsTerminal(TaskStateCanceled))
	assert.True(t, IsTerminal(TaskStateRejected))
	assert.False(t, IsTerminal(TaskStateWorking))
	assert.False(t, IsTerminal(TaskStateInputReq))

	assert.True(t, IsNonTerminal(TaskStateInputReq))
	assert.True(t, IsNonTerminal(TaskStateAuthRequired))
	assert.False(t, IsNonTerminal(TaskStateWorking))
	assert.False(t, IsNonTerminal(TaskStateCompleted))
}

func TestCanTransition(t *testing.T) {
	// Working and non-terminal states may move anywhere defined.
	assert.True(t, CanTransition(TaskStateSubmitted, TaskStateWorking))
	assert.True(t, CanTransition(TaskStateWorking, TaskStateInputReq))
	assert.True(t, CanTransition(TaskStateWorking, TaskStateCompleted))
	assert.True(t, CanTransition(TaskStateInputReq, TaskStateWorking))
	assert.True(t, CanTransition(TaskStateInputReq, TaskStateCanceled))
	assert.True(t, CanTransition(TaskStateAuthRequired, TaskStateWorking))

	// Terminal states have no outgoing transitions.
	for _, from := range []TaskState{TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected} {
		for _, to := range []TaskState{TaskStateWorking, TaskStateInputReq, TaskStateCompleted} {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	// Undefined target states are rejected.
	assert.False(t, CanTransition(TaskStateWorking, TaskState("bogus")))
}

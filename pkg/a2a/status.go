package a2a

import "time"

/*
TaskState enumerates the mutually-exclusive states a task may be in.  The
zero value is "unknown".
*/
type TaskState string

const (
	TaskStateSubmitted    TaskState = "submitted"
	TaskStateWorking      TaskState = "working"
	TaskStateInputReq     TaskState = "input-required"
	TaskStateAuthRequired TaskState = "auth-required"
	TaskStateCompleted    TaskState = "completed"
	TaskStateFailed       TaskState = "failed"
	TaskStateCanceled     TaskState = "canceled"
	TaskStateRejected     TaskState = "rejected"
	TaskStateUnknown      TaskState = "unknown"
)

/*
StateGroup partitions TaskState into the three groups that govern task id
reuse: Working (accepted, not yet actionable), NonTerminal (actionable, the
task keeps accepting messages) and Terminal (immutable, continuation needs a
fresh task).
*/
type StateGroup int

const (
	GroupUnknown StateGroup = iota
	GroupWorking
	GroupNonTerminal
	GroupTerminal
)

// Classify maps a state to its group.  Unknown states classify as
// GroupUnknown, which callers treat like Working (keep waiting).
func Classify(state TaskState) StateGroup {
	switch state {
	case TaskStateSubmitted, TaskStateWorking:
		return GroupWorking
	case TaskStateInputReq, TaskStateAuthRequired:
		return GroupNonTerminal
	case TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected:
		return GroupTerminal
	default:
		return GroupUnknown
	}
}

// IsTerminal reports whether a task in this state is immutable.
func IsTerminal(state TaskState) bool {
	return Classify(state) == GroupTerminal
}

// IsNonTerminal reports whether the task id may be reused for a follow-up
// message (the server is waiting for more input against the same task).
func IsNonTerminal(state TaskState) bool {
	return Classify(state) == GroupNonTerminal
}

// CanTransition reports whether a task may move from one state to another.
// Terminal states have no outgoing transitions.
func CanTransition(from, to TaskState) bool {
	if IsTerminal(from) {
		return false
	}
	return Classify(to) != GroupUnknown
}

type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

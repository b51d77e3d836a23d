package client

import (
	"github.com/google/uuid"
	"github.com/binduai/bindu-go/pkg/a2a"
)

/*
Resolution is the outcome of continuity resolution for one submission: the
task id to submit under and the back-references to earlier tasks.
*/
type Resolution struct {
	TaskID           string
	ReferenceTaskIDs []string
}

/*
ResolveContinuity decides whether the next message continues the previous
task or starts a new one.  Rules, in priority order:

 1. An explicit reply target branches off that task: fresh id, reference
    to the target.
 2. A previous task in a non-terminal state is still open for input: its
    id is reused with no references.
 3. Any other previous task cannot accept more messages (terminal tasks
    are immutable; working tasks are not actionable), so a fresh id is
    allocated with a reference back to it for provenance.
 4. No previous task at all: fresh id, no references.

newID is injectable for tests; nil falls back to uuid.NewString.
*/
func ResolveContinuity(
	prevTaskID string,
	prevState a2a.TaskState,
	replyTo string,
	newID func() string,
) Resolution {
	if newID == nil {
		newID = uuid.NewString
	}

	if replyTo != "" {
		return Resolution{
			TaskID:           newID(),
			ReferenceTaskIDs: []string{replyTo},
		}
	}

	if prevTaskID != "" {
		if a2a.IsNonTerminal(prevState) {
			return Resolution{TaskID: prevTaskID}
		}
		return Resolution{
			TaskID:           newID(),
			ReferenceTaskIDs: []string{prevTaskID},
		}
	}

	return Resolution{TaskID: newID()}
}

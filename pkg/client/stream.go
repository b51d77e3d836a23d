package client

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/binduai/bindu-go/pkg/a2a"
	"github.com/binduai/bindu-go/pkg/jsonrpc"
	"github.com/binduai/bindu-go/pkg/sse"
)

/*
Update is one element of the incremental delivery sequence: token updates
as text arrives, then exactly one final update carrying the aggregated
answer.
*/
type Update struct {
	Token  string
	Final  bool
	Answer string
	TaskID string
}

/*
Updates is a finite, cancelable pull iterator over an incremental response
stream, in the style of sql.Rows:

	updates, err := client.SendMessageStream(ctx, "hello")
	...
	defer updates.Close()
	for updates.Next() {
	    u := updates.Update()
	    ...
	}
	if err := updates.Err(); err != nil { ... }

Stopping early is cancellation: Close releases the stream and signals the
request context.  The iterator is not restartable.
*/
type Updates struct {
	ctx     context.Context
	cancel  context.CancelFunc
	scanner *sse.Scanner
	recon   *Reconstructor
	onFinal func(taskID, contextID, answer string)

	taskID    string
	contextID string
	cur       Update
	err       error
	done      bool
	finalSeen bool
}

func newUpdates(
	ctx context.Context,
	cancel context.CancelFunc,
	scanner *sse.Scanner,
	taskID string,
	contextID string,
	onFinal func(taskID, contextID, answer string),
) *Updates {
	return &Updates{
		ctx:       ctx,
		cancel:    cancel,
		scanner:   scanner,
		recon:     NewReconstructor(),
		onFinal:   onFinal,
		taskID:    taskID,
		contextID: contextID,
	}
}

// Next advances to the next update.  It returns false once the final
// update has been consumed, on cancellation, or on error.
func (u *Updates) Next() bool {
	if u.done {
		return false
	}

	for {
		select {
		case <-u.ctx.Done():
			u.fail(&a2a.AbortedError{Cause: context.Cause(u.ctx)})
			return false
		default:
		}

		if !u.scanner.Next() {
			break
		}

		chunk, ok, err := u.apply(u.scanner.Data())
		if err != nil {
			u.fail(err)
			return false
		}
		if !ok {
			continue
		}

		u.cur = Update{
			Token:  chunk.Token,
			Final:  chunk.Final,
			Answer: chunk.Aggregate,
			TaskID: u.taskID,
		}

		if chunk.Final {
			u.finish()
		}

		return true
	}

	if err := u.scanner.Err(); err != nil {
		if u.ctx.Err() != nil {
			u.fail(&a2a.AbortedError{Cause: context.Cause(u.ctx)})
		} else {
			u.fail(err)
		}
		return false
	}

	// Stream ended without an explicit final marker.  Whatever was
	// reconstructed is the answer; an empty stream is a content error.
	if !u.finalSeen {
		answer := u.recon.Aggregate()
		if answer == "" {
			u.fail(&a2a.NoContentError{TaskID: u.taskID})
			return false
		}

		u.cur = Update{Final: true, Answer: answer, TaskID: u.taskID}
		u.finish()
		return true
	}

	u.done = true
	return false
}

// Update returns the current element.  Valid until the next call to Next.
func (u *Updates) Update() Update {
	return u.cur
}

func (u *Updates) Err() error {
	return u.err
}

// Close stops iteration, releases the stream and cancels the request
// context.  No remote call is made here; remote cancellation is the
// protocol client's policy decision.
func (u *Updates) Close() error {
	u.done = true
	u.cancel()
	return u.scanner.Close()
}

// apply decodes one event frame and folds it into the reconstructor.
func (u *Updates) apply(raw []byte) (Chunk, bool, error) {
	var frame jsonrpc.RPCResponse
	if err := json.Unmarshal(a2a.Normalize(raw), &frame); err != nil {
		// A malformed frame is skipped, mirroring the poller's
		// tolerance for transient garbage.
		log.Debug("skipping malformed stream frame", "error", err)
		return Chunk{}, false, nil
	}

	if frame.Error != nil {
		return Chunk{}, false, &a2a.ProtocolError{
			Code:    frame.Error.Code,
			Message: frame.Error.Message,
			Data:    frame.Error.Data,
		}
	}

	if len(frame.Result) == 0 {
		return Chunk{}, false, nil
	}

	var probe struct {
		ID        string          `json:"id"`
		TaskID    string          `json:"taskId"`
		ContextID string          `json:"contextId"`
		Status    *a2a.TaskStatus `json:"status"`
		Artifact  *a2a.Artifact   `json:"artifact"`
		Final     bool            `json:"final"`
		LastChunk bool            `json:"lastChunk"`
	}
	if err := json.Unmarshal(frame.Result, &probe); err != nil {
		log.Debug("skipping undecodable stream frame", "error", err)
		return Chunk{}, false, nil
	}

	u.track(probe.TaskID, probe.ID, probe.ContextID)

	switch {
	case probe.Artifact != nil:
		chunk, ok := u.recon.ApplyArtifact(&a2a.TaskArtifactUpdateEvent{
			TaskID:    u.taskID,
			Artifact:  *probe.Artifact,
			LastChunk: probe.LastChunk,
		})
		return chunk, ok, nil
	case probe.Status != nil:
		chunk, ok := u.recon.ApplyStatus(&a2a.TaskStatusUpdateEvent{
			TaskID: u.taskID,
			Status: *probe.Status,
			Final:  probe.Final,
		})
		return chunk, ok, nil
	default:
		return Chunk{}, false, nil
	}
}

func (u *Updates) track(taskID, id, contextID string) {
	if u.taskID == "" {
		if taskID != "" {
			u.taskID = taskID
		} else if id != "" {
			u.taskID = id
		}
	}
	if u.contextID == "" && contextID != "" {
		u.contextID = contextID
	}
}

func (u *Updates) finish() {
	u.finalSeen = true
	u.done = true
	if u.onFinal != nil {
		u.onFinal(u.taskID, u.contextID, u.recon.Aggregate())
		u.onFinal = nil
	}
}

func (u *Updates) fail(err error) {
	u.err = err
	u.done = true
}

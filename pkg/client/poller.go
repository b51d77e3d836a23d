package client

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/binduai/bindu-go/pkg/a2a"
	"github.com/binduai/bindu-go/pkg/jsonrpc"
)

// Default polling policy: fixed 1s interval, 300 attempts, roughly a five
// minute ceiling.
const (
	DefaultPollInterval    = time.Second
	DefaultPollMaxAttempts = 300
)

/*
Poller repeatedly fetches a task until it becomes actionable.  The shape is
deliberately fixed: immediate first probe after submission, then a constant
interval, bounded by MaxAttempts.

Transient tasks/get failures are swallowed and the loop continues: a
network blip mid-conversation should not kill a task the server is still
working on.  MaxConsecutiveFailures optionally caps how many failures in a
row are tolerated before the last one is surfaced; zero means the only
bound is the global attempt budget.
*/
type Poller struct {
	rpc *jsonrpc.RPCClient

	Interval               time.Duration
	MaxAttempts            int
	MaxConsecutiveFailures int
}

func NewPoller(rpc *jsonrpc.RPCClient) *Poller {
	return &Poller{
		rpc:         rpc,
		Interval:    DefaultPollInterval,
		MaxAttempts: DefaultPollMaxAttempts,
	}
}

/*
Poll observes a task until it is actionable and returns it.  "Actionable"
is the poller's own contract, not strict state-group membership: completed
and input-required both stop the loop and hand the task to the caller,
failed and canceled raise typed errors carrying the server's diagnostic,
everything else keeps waiting.  Context cancellation surfaces as
AbortedError at the next wait or probe boundary.
*/
func (p *Poller) Poll(ctx context.Context, taskID string) (*a2a.Task, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}

	consecutiveFailures := 0

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &a2a.AbortedError{Cause: context.Cause(ctx)}
			case <-time.After(interval):
			}
		}

		select {
		case <-ctx.Done():
			return nil, &a2a.AbortedError{Cause: context.Cause(ctx)}
		default:
		}

		var task a2a.Task
		err := p.rpc.Call(ctx, "tasks/get", a2a.TaskQueryParams{
			TaskIDParams: a2a.TaskIDParams{TaskID: taskID},
		}, &task)

		if err != nil {
			if ctx.Err() != nil {
				return nil, &a2a.AbortedError{Cause: context.Cause(ctx)}
			}

			consecutiveFailures++
			log.Debug("poll attempt failed", "taskId", taskID, "attempt", attempt, "error", err)

			if p.MaxConsecutiveFailures > 0 && consecutiveFailures >= p.MaxConsecutiveFailures {
				return nil, err
			}
			continue
		}

		consecutiveFailures = 0

		switch task.Status.State {
		case a2a.TaskStateCompleted, a2a.TaskStateInputReq:
			return &task, nil
		case a2a.TaskStateFailed, a2a.TaskStateRejected:
			return nil, &a2a.TaskFailedError{TaskID: taskID, Detail: task.ErrorDetail()}
		case a2a.TaskStateCanceled:
			return nil, &a2a.TaskCanceledError{TaskID: taskID, Detail: task.ErrorDetail()}
		default:
			// Working group, or auth-required not yet resolved.
		}
	}

	return nil, &a2a.PollTimeoutError{TaskID: taskID, Attempts: maxAttempts}
}

// IsAborted reports whether an error from Poll is a caller-initiated
// cancellation rather than a failure.
func IsAborted(err error) bool {
	var aborted *a2a.AbortedError
	return errors.As(err, &aborted)
}

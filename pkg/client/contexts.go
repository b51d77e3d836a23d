package client

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/binduai/bindu-go/pkg/a2a"
	"github.com/binduai/bindu-go/pkg/jsonrpc"
)

/*
Contexts fetches the conversation contexts known to the server and merges
them into the local view.  For contexts without a cached preview the
earliest task's history is scanned for the first user text; preview
fetching is best effort and never fails the listing.
*/
func (c *Client) Contexts(ctx context.Context, limit, offset int) ([]a2a.Context, error) {
	params := a2a.ContextListParams{}
	if limit > 0 {
		params.Limit = &limit
	}
	if offset > 0 {
		params.Offset = &offset
	}

	var listed []a2a.Context
	if err := c.rpc.Call(ctx, "contexts/list", params, &listed); err != nil {
		return nil, err
	}

	for i := range listed {
		if listed[i].Preview == "" && len(listed[i].TaskIDs) > 0 {
			listed[i].Preview = c.fetchPreview(ctx, listed[i].TaskIDs[0])
		}

		clone := listed[i]
		c.contexts.Put(&clone)
	}

	return listed, nil
}

/*
History reconstructs the display sequence of a conversation: every task
belonging to the context is fetched, tasks are ordered by status timestamp
ascending and their histories are replayed flat, preserving per-task
insertion order.
*/
func (c *Client) History(ctx context.Context, contextID string) ([]a2a.Message, error) {
	stored, ok := c.contexts.Get(contextID)
	if !ok {
		if _, err := c.Contexts(ctx, 0, 0); err != nil {
			return nil, err
		}
		if stored, ok = c.contexts.Get(contextID); !ok {
			return nil, &a2a.ProtocolError{
				Code:    jsonrpc.ErrContextNotFound.Code,
				Message: "context not found: " + contextID,
			}
		}
	}

	tasks := make([]a2a.Task, 0, len(stored.TaskIDs))
	for _, taskID := range stored.TaskIDs {
		var task a2a.Task
		if err := c.rpc.Call(ctx, "tasks/get", a2a.TaskQueryParams{
			TaskIDParams: a2a.TaskIDParams{TaskID: taskID},
		}, &task); err != nil {
			return nil, err
		}

		if task.ContextID == "" {
			task.ContextID = contextID
		}
		if err := c.tasks.Upsert(&task); err != nil {
			log.Debug("task cache rejected history snapshot", "taskId", task.ID, "error", err)
		}

		tasks = append(tasks, task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Status.Timestamp.Before(tasks[j].Status.Timestamp)
	})

	var history []a2a.Message
	for _, task := range tasks {
		history = append(history, task.History...)
	}

	return history, nil
}

/*
ClearContext clears a conversation.  The server is authoritative: the
local mapping is removed only after the server acknowledged the clear.
*/
func (c *Client) ClearContext(ctx context.Context, contextID string) error {
	if err := c.rpc.Call(ctx, "contexts/clear", a2a.ContextIDParams{ContextID: contextID}, nil); err != nil {
		return err
	}

	if stored, ok := c.contexts.Get(contextID); ok {
		for _, taskID := range stored.TaskIDs {
			c.tasks.Delete(taskID)
		}
	}
	c.contexts.Delete(contextID)

	return nil
}

// SendFeedback rates a finished task.
func (c *Client) SendFeedback(ctx context.Context, taskID string, rating int, feedback string) error {
	return c.rpc.Call(ctx, "tasks/feedback", a2a.TaskFeedbackParams{
		TaskID:   taskID,
		Rating:   rating,
		Feedback: feedback,
	}, nil)
}

// LocalContexts returns the process-local view without touching the
// server.
func (c *Client) LocalContexts() []a2a.Context {
	return c.contexts.List()
}

func (c *Client) fetchPreview(ctx context.Context, taskID string) string {
	var task a2a.Task
	if err := c.rpc.Call(ctx, "tasks/get", a2a.TaskQueryParams{
		TaskIDParams: a2a.TaskIDParams{TaskID: taskID},
	}, &task); err != nil {
		log.Debug("preview fetch failed", "taskId", taskID, "error", err)
		return ""
	}

	for _, msg := range task.History {
		if msg.Role == a2a.RoleUser {
			if text := msg.Text(); text != "" {
				return text
			}
		}
	}

	return ""
}

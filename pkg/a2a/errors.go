package a2a

import "fmt"

/*
Error taxonomy for the protocol client.  Every failure mode a caller may
want to branch on is a distinct type usable with errors.As, so callers can
tell a caller-initiated abort from a timeout, or a payment gate from a
plain transport failure, without string matching.
*/

// AuthRequiredError signals an HTTP 401.  Recoverable by the caller
// re-authenticating; never retried internally.
type AuthRequiredError struct {
	Detail string
}

func (e *AuthRequiredError) Error() string {
	if e.Detail == "" {
		return "authentication required"
	}
	return fmt.Sprintf("authentication required: %s", e.Detail)
}

// PaymentRequiredError signals an HTTP 402.  The response body may carry
// payment instructions; the caller is responsible for re-submitting with a
// payment proof attached.
type PaymentRequiredError struct {
	Instructions string
}

func (e *PaymentRequiredError) Error() string {
	if e.Instructions == "" {
		return "payment required"
	}
	return fmt.Sprintf("payment required: %s", e.Instructions)
}

// TransportError signals any other non-2xx HTTP response.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: status %d", e.Status)
}

// ProtocolError signals a JSON-RPC error object carried in an otherwise
// successful HTTP response.
type ProtocolError struct {
	Code    int
	Message string
	Data    any
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error %d: %s", e.Code, e.Message)
}

// TaskFailedError signals a task that reached the failed state.
type TaskFailedError struct {
	TaskID string
	Detail string
}

func (e *TaskFailedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("task %s failed", e.TaskID)
	}
	return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Detail)
}

// TaskCanceledError signals a task that reached the canceled state.
type TaskCanceledError struct {
	TaskID string
	Detail string
}

func (e *TaskCanceledError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("task %s canceled", e.TaskID)
	}
	return fmt.Sprintf("task %s canceled: %s", e.TaskID, e.Detail)
}

// PollTimeoutError signals that the polling attempt budget was exhausted
// while the task was still being worked on.
type PollTimeoutError struct {
	TaskID   string
	Attempts int
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("task %s still pending after %d poll attempts", e.TaskID, e.Attempts)
}

// AbortedError signals caller-initiated cancellation, kept distinct from
// PollTimeoutError so callers can skip the error banner on a deliberate
// abort.  Cause carries the context error.
type AbortedError struct {
	Cause error
}

func (e *AbortedError) Error() string {
	if e.Cause == nil {
		return "aborted"
	}
	return fmt.Sprintf("aborted: %v", e.Cause)
}

func (e *AbortedError) Unwrap() error {
	return e.Cause
}

// NoContentError signals a nominally completed task with no extractable
// text in either artifacts or history.
type NoContentError struct {
	TaskID string
}

func (e *NoContentError) Error() string {
	return fmt.Sprintf("task %s completed without any text content", e.TaskID)
}

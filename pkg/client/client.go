package client

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/binduai/bindu-go/pkg/a2a"
	"github.com/binduai/bindu-go/pkg/auth"
	"github.com/binduai/bindu-go/pkg/jsonrpc"
	"github.com/binduai/bindu-go/pkg/sse"
	"github.com/binduai/bindu-go/pkg/stores"
)

/*
Client is the protocol client: it resolves task continuity, submits
messages, tracks the resulting tasks to completion and keeps the local view
of conversations up to date.  It is an explicit object: construct one per
agent endpoint, with credentials passed in, and share nothing ambiently.
*/
type Client struct {
	rpc      *jsonrpc.RPCClient
	creds    *auth.Credentials
	contexts *stores.ContextStore
	tasks    *stores.TaskStore
	poller   *Poller

	acceptedOutputModes []string
	cancelOnAbort       bool
	newID               func() string
}

// Option configures a Client.
type Option func(*Client)

// WithPollInterval overrides the fixed delay between poll attempts.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) { c.poller.Interval = interval }
}

// WithPollMaxAttempts overrides the poll attempt budget.
func WithPollMaxAttempts(attempts int) Option {
	return func(c *Client) { c.poller.MaxAttempts = attempts }
}

// WithMaxConsecutivePollFailures caps tolerated back-to-back tasks/get
// failures; zero keeps the single global attempt budget.
func WithMaxConsecutivePollFailures(n int) Option {
	return func(c *Client) { c.poller.MaxConsecutiveFailures = n }
}

// WithCancelOnAbort makes the client issue a best-effort tasks/cancel when
// the caller aborts mid-poll, instead of silently abandoning the remote
// task.
func WithCancelOnAbort(enabled bool) Option {
	return func(c *Client) { c.cancelOnAbort = enabled }
}

// WithIDGenerator replaces the uuid generator, mainly for tests.
func WithIDGenerator(newID func() string) Option {
	return func(c *Client) { c.newID = newID }
}

// WithAcceptedOutputModes sets the output modes advertised on submission.
func WithAcceptedOutputModes(modes ...string) Option {
	return func(c *Client) { c.acceptedOutputModes = modes }
}

func New(url string, creds *auth.Credentials, opts ...Option) *Client {
	rpc := jsonrpc.NewRPCClient(url, creds)

	c := &Client{
		rpc:                 rpc,
		creds:               creds,
		contexts:            stores.NewContextStore(),
		tasks:               stores.NewTaskStore(),
		poller:              NewPoller(rpc),
		acceptedOutputModes: []string{"text"},
		newID:               uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SendOption tunes a single submission.
type SendOption func(*sendConfig)

type sendConfig struct {
	contextID    string
	replyTo      string
	systemPrompt string
}

// InContext continues the given conversation context instead of starting a
// fresh one.
func InContext(contextID string) SendOption {
	return func(cfg *sendConfig) { cfg.contextID = contextID }
}

// ReplyTo deliberately branches off a specific earlier task.
func ReplyTo(taskID string) SendOption {
	return func(cfg *sendConfig) { cfg.replyTo = taskID }
}

// WithSystemPrompt forwards a system prompt with the submission.
func WithSystemPrompt(prompt string) SendOption {
	return func(cfg *sendConfig) { cfg.systemPrompt = prompt }
}

/*
Result is the outcome of a submit-and-await cycle.  A completed task yields
Text.  An input-required task is not a failure: the server asked for more
input, and Prompt carries its question so the caller can answer against the
same task id.
*/
type Result struct {
	Text          string
	InputRequired bool
	Prompt        string
	Task          *a2a.Task
	ContextID     string
}

/*
SendMessage submits a user text and tracks the resulting task until it is
actionable.  Continuity with the previous task in the context is resolved
first: a non-terminal predecessor keeps its task id, anything else starts a
new task referencing the old one.
*/
func (c *Client) SendMessage(ctx context.Context, text string, opts ...SendOption) (*Result, error) {
	cfg := sendConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	contextID, msg := c.prepare(text, &cfg)

	var submitted a2a.Task
	if err := c.rpc.Call(ctx, "message/send", c.sendParams(msg, cfg.systemPrompt), &submitted); err != nil {
		return nil, err
	}

	taskID := submitted.ID
	if taskID == "" {
		taskID = msg.TaskID
	}

	c.record(contextID, taskID, text, &submitted)

	task, err := c.poller.Poll(ctx, taskID)
	if err != nil {
		if IsAborted(err) && c.cancelOnAbort {
			c.cancelRemote(taskID)
		}
		return nil, err
	}

	c.observe(contextID, task)

	if task.Status.State == a2a.TaskStateInputReq {
		prompt := ""
		if task.Status.Message != nil {
			prompt = task.Status.Message.Text()
		}
		if prompt == "" {
			prompt = task.LastAgentText()
		}
		return &Result{
			InputRequired: true,
			Prompt:        prompt,
			Task:          task,
			ContextID:     contextID,
		}, nil
	}

	answer, err := FinalText(task)
	if err != nil {
		return nil, err
	}

	return &Result{Text: answer, Task: task, ContextID: contextID}, nil
}

/*
SendMessageStream submits a user text and returns the incremental update
sequence instead of waiting for completion.  The same submission and
continuity semantics apply; delivery differs.  The caller owns the
iterator and must Close it.
*/
func (c *Client) SendMessageStream(ctx context.Context, text string, opts ...SendOption) (*Updates, error) {
	cfg := sendConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	contextID, msg := c.prepare(text, &cfg)

	streamCtx, cancel := context.WithCancel(ctx)

	body, err := c.rpc.Stream(streamCtx, "message/send", c.sendParams(msg, cfg.systemPrompt))
	if err != nil {
		cancel()
		return nil, err
	}

	c.record(contextID, msg.TaskID, text, nil)

	onFinal := func(taskID, eventContextID, answer string) {
		if eventContextID == "" {
			eventContextID = contextID
		}
		c.contexts.AppendTask(eventContextID, taskID, text)
		c.creds.InvalidatePayment()
	}

	return newUpdates(streamCtx, cancel, sse.NewScanner(body), msg.TaskID, contextID, onFinal), nil
}

// prepare resolves continuity and builds the outgoing message.
func (c *Client) prepare(text string, cfg *sendConfig) (string, *a2a.Message) {
	contextID := cfg.contextID
	if contextID == "" {
		contextID = c.newID()
	}

	prevID, prevState := c.previousTask(cfg.contextID)
	resolution := ResolveContinuity(prevID, prevState, cfg.replyTo, c.newID)

	msg := a2a.NewTextMessage(a2a.RoleUser, text)
	msg.MessageID = c.newID()
	msg.ContextID = contextID
	msg.TaskID = resolution.TaskID
	msg.ReferenceTaskIDs = resolution.ReferenceTaskIDs

	log.Debug("submitting message",
		"contextId", contextID,
		"taskId", resolution.TaskID,
		"references", resolution.ReferenceTaskIDs,
	)

	return contextID, msg
}

// previousTask looks up the latest task of a context and its last observed
// state.  An unknown task state resolves as terminal-like "cannot reuse".
func (c *Client) previousTask(contextID string) (string, a2a.TaskState) {
	if contextID == "" {
		return "", a2a.TaskStateUnknown
	}

	taskID, ok := c.contexts.LastTask(contextID)
	if !ok {
		return "", a2a.TaskStateUnknown
	}

	if task, ok := c.tasks.Get(taskID); ok {
		return taskID, task.Status.State
	}

	return taskID, a2a.TaskStateUnknown
}

func (c *Client) sendParams(msg *a2a.Message, systemPrompt string) a2a.MessageSendParams {
	return a2a.MessageSendParams{
		Message: *msg,
		Configuration: &a2a.MessageSendConfiguration{
			AcceptedOutputModes: c.acceptedOutputModes,
			Blocking:            false,
			SystemPrompt:        systemPrompt,
		},
	}
}

// record registers a freshly submitted task locally.
func (c *Client) record(contextID, taskID, preview string, submitted *a2a.Task) {
	c.contexts.AppendTask(contextID, taskID, preview)

	if submitted != nil && submitted.ID != "" {
		if err := c.tasks.Upsert(submitted); err != nil {
			log.Warn("task cache rejected submission snapshot", "taskId", submitted.ID, "error", err)
		}
	}
}

// observe folds a polled task back into the local view and expires the
// payment token once its lineage is finished.
func (c *Client) observe(contextID string, task *a2a.Task) {
	if task.ContextID == "" {
		task.ContextID = contextID
	}

	if err := c.tasks.Upsert(task); err != nil {
		log.Warn("task cache rejected observation", "taskId", task.ID, "error", err)
	}

	c.contexts.AppendTask(contextID, task.ID, "")

	if a2a.IsTerminal(task.Status.State) {
		c.creds.InvalidatePayment()
	}
}

// cancelRemote issues one best-effort tasks/cancel after a caller abort.
// Failures are logged and dropped: the caller already has its answer.
func (c *Client) cancelRemote(taskID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.rpc.Call(ctx, "tasks/cancel", a2a.TaskIDParams{TaskID: taskID}, nil); err != nil {
		var protoErr *a2a.ProtocolError
		if errors.As(err, &protoErr) {
			log.Debug("remote cancel rejected", "taskId", taskID, "code", protoErr.Code)
			return
		}
		log.Debug("remote cancel failed", "taskId", taskID, "error", err)
	}
}

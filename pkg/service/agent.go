package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/binduai/bindu-go/pkg/a2a"
	"github.com/binduai/bindu-go/pkg/auth"
	"github.com/binduai/bindu-go/pkg/jsonrpc"
	"github.com/binduai/bindu-go/pkg/stores"
)

/*
AgentServer is a local development agent speaking the task RPC protocol:
message/send, tasks/get, tasks/cancel, contexts/list, contexts/clear and
tasks/feedback over JSON-RPC, plus the incremental event-stream delivery
mode.  The agent itself just echoes: it reports working once, then
completes with the submitted text as its artifact.  That is enough to run
the full client engine against something real.
*/
type AgentServer struct {
	app      *fiber.App
	tasks    *stores.TaskStore
	contexts *stores.ContextStore
	tokens   *auth.TokenService

	// RequirePayment makes message/send demand an X-Payment header,
	// exercising the 402 path.
	RequirePayment bool

	// WorkDelay is how long a task stays in working before completing.
	WorkDelay time.Duration

	mu       sync.Mutex
	feedback map[string]a2a.TaskFeedbackParams
}

func NewAgentServer(tokens *auth.TokenService) *AgentServer {
	srv := &AgentServer{
		app: fiber.New(fiber.Config{
			AppName:      "bindu-dev-agent",
			ServerHeader: "Bindu-Agent-Server",
		}),
		tasks:     stores.NewTaskStore(),
		contexts:  stores.NewContextStore(),
		tokens:    tokens,
		WorkDelay: 100 * time.Millisecond,
		feedback:  make(map[string]a2a.TaskFeedbackParams),
	}

	srv.app.Get("/", func(ctx fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	srv.app.Post("/rpc", srv.handleRPC)

	return srv
}

// App exposes the fiber app for in-process testing.
func (srv *AgentServer) App() *fiber.App {
	return srv.app
}

func (srv *AgentServer) Listen(addr string) error {
	log.Info("dev agent listening", "addr", addr)
	return srv.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (srv *AgentServer) handleRPC(ctx fiber.Ctx) error {
	if srv.tokens != nil {
		if err := srv.tokens.Validate(ctx.Get("Authorization")); err != nil {
			return ctx.Status(fiber.StatusUnauthorized).SendString(err.Error())
		}
	}

	var req jsonrpc.RPCRequest
	if err := json.Unmarshal(a2a.Normalize(ctx.Body()), &req); err != nil {
		return srv.reply(ctx, nil, nil, jsonrpc.ErrParseError)
	}

	switch req.Method {
	case "message/send":
		return srv.handleSend(ctx, &req)
	case "tasks/get":
		return srv.handleGet(ctx, &req)
	case "tasks/cancel":
		return srv.handleCancel(ctx, &req)
	case "contexts/list":
		return srv.handleContextsList(ctx, &req)
	case "contexts/clear":
		return srv.handleContextsClear(ctx, &req)
	case "tasks/feedback":
		return srv.handleFeedback(ctx, &req)
	default:
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrMethodNotFound)
	}
}

func (srv *AgentServer) handleSend(ctx fiber.Ctx, req *jsonrpc.RPCRequest) error {
	if srv.RequirePayment && ctx.Get(auth.PaymentHeader) == "" {
		return ctx.Status(fiber.StatusPaymentRequired).
			SendString(`{"accepts":[{"scheme":"exact","network":"base-sepolia"}]}`)
	}

	var params a2a.MessageSendParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrInvalidParams)
	}

	msg := params.Message
	if msg.TaskID == "" || msg.ContextID == "" {
		return srv.reply(ctx, req.ID, nil,
			jsonrpc.ErrInvalidParams.WithMessagef("message needs taskId and contextId"))
	}

	task, existing := srv.tasks.Get(msg.TaskID)
	if existing && a2a.IsTerminal(task.Status.State) {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrTaskTerminal)
	}

	if !existing {
		task = &a2a.Task{
			ID:        msg.TaskID,
			ContextID: msg.ContextID,
		}
	}

	task.History = append(task.History, msg)
	task.ToStatus(a2a.TaskStateSubmitted, nil)

	if err := srv.tasks.Upsert(task); err != nil {
		return srv.reply(ctx, req.ID, nil, err)
	}
	srv.contexts.AppendTask(msg.ContextID, msg.TaskID, msg.Text())

	if strings.Contains(ctx.Get("Accept"), "text/event-stream") {
		return srv.streamEcho(ctx, task, msg.Text())
	}

	go srv.runEcho(task.ID, msg.Text())

	return srv.reply(ctx, req.ID, task, nil)
}

// runEcho plays the agent: working for WorkDelay, then completed with the
// echoed text as a single artifact.
func (srv *AgentServer) runEcho(taskID, text string) {
	if task, ok := srv.tasks.Get(taskID); ok {
		task.ToStatus(a2a.TaskStateWorking, nil)
		if err := srv.tasks.Upsert(task); err != nil {
			log.Warn("echo agent could not start task", "taskId", taskID, "error", err)
			return
		}
	}

	time.Sleep(srv.WorkDelay)

	task, ok := srv.tasks.Get(taskID)
	if !ok || a2a.IsTerminal(task.Status.State) {
		return
	}

	reply := a2a.NewTextMessage(a2a.RoleAgent, srv.echoText(text))
	reply.TaskID = taskID
	reply.ContextID = task.ContextID
	task.History = append(task.History, *reply)
	task.Artifacts = append(task.Artifacts, a2a.NewTextArtifact("echo", srv.echoText(text)))
	task.ToStatus(a2a.TaskStateCompleted, nil)

	if err := srv.tasks.Upsert(task); err != nil {
		log.Warn("echo agent could not complete task", "taskId", taskID, "error", err)
	}
}

// streamEcho serves the incremental delivery mode: working status, the
// echo split into artifact chunks, a final completed status, [DONE].
func (srv *AgentServer) streamEcho(ctx fiber.Ctx, task *a2a.Task, text string) error {
	echo := srv.echoText(text)

	reply := a2a.NewTextMessage(a2a.RoleAgent, echo)
	reply.TaskID = task.ID
	reply.ContextID = task.ContextID
	task.History = append(task.History, *reply)
	task.Artifacts = append(task.Artifacts, a2a.NewTextArtifact("echo", echo))
	task.ToStatus(a2a.TaskStateCompleted, nil)
	if err := srv.tasks.Upsert(task); err != nil {
		return srv.reply(ctx, nil, nil, err)
	}

	var sb strings.Builder
	frame := func(result any) {
		payload, err := json.Marshal(jsonrpc.RPCResponse{JSONRPC: "2.0", Result: mustMarshal(result)})
		if err != nil {
			return
		}
		sb.WriteString("data: ")
		sb.Write(payload)
		sb.WriteString("\n\n")
	}

	frame(a2a.TaskStatusUpdateEvent{
		TaskID:    task.ID,
		ContextID: task.ContextID,
		Status:    a2a.TaskStatus{State: a2a.TaskStateWorking, Timestamp: time.Now()},
	})

	half := len(echo) / 2
	chunks := []string{echo[:half], echo[half:]}
	for i, chunk := range chunks {
		frame(a2a.TaskArtifactUpdateEvent{
			TaskID:    task.ID,
			ContextID: task.ContextID,
			Artifact:  a2a.Artifact{Parts: []a2a.Part{a2a.NewTextPart(chunk)}, Index: i},
		})
	}

	frame(a2a.TaskStatusUpdateEvent{
		TaskID:    task.ID,
		ContextID: task.ContextID,
		Status:    a2a.TaskStatus{State: a2a.TaskStateCompleted, Timestamp: time.Now()},
		Final:     true,
	})
	sb.WriteString("data: [DONE]\n\n")

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	return ctx.SendString(sb.String())
}

func (srv *AgentServer) handleGet(ctx fiber.Ctx, req *jsonrpc.RPCRequest) error {
	var params a2a.TaskQueryParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrInvalidParams)
	}

	task, ok := srv.tasks.Get(params.TaskID)
	if !ok {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrTaskNotFound)
	}

	return srv.reply(ctx, req.ID, task, nil)
}

func (srv *AgentServer) handleCancel(ctx fiber.Ctx, req *jsonrpc.RPCRequest) error {
	var params a2a.TaskIDParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrInvalidParams)
	}

	task, ok := srv.tasks.Get(params.TaskID)
	if !ok {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrTaskNotFound)
	}

	if a2a.IsTerminal(task.Status.State) {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrTaskTerminal)
	}

	task.ToStatus(a2a.TaskStateCanceled, nil)
	if err := srv.tasks.Upsert(task); err != nil {
		return srv.reply(ctx, req.ID, nil, err)
	}

	return srv.reply(ctx, req.ID, task, nil)
}

func (srv *AgentServer) handleContextsList(ctx fiber.Ctx, req *jsonrpc.RPCRequest) error {
	var params a2a.ContextListParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return srv.reply(ctx, req.ID, nil, jsonrpc.ErrInvalidParams)
		}
	}

	listed := srv.contexts.List()

	offset := 0
	if params.Offset != nil {
		offset = *params.Offset
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(listed) {
		offset = len(listed)
	}
	listed = listed[offset:]

	if params.Limit != nil && *params.Limit >= 0 && *params.Limit < len(listed) {
		listed = listed[:*params.Limit]
	}

	return srv.reply(ctx, req.ID, listed, nil)
}

func (srv *AgentServer) handleContextsClear(ctx fiber.Ctx, req *jsonrpc.RPCRequest) error {
	var params a2a.ContextIDParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrInvalidParams)
	}

	stored, ok := srv.contexts.Get(params.ContextID)
	if !ok {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrContextNotFound)
	}

	for _, taskID := range stored.TaskIDs {
		srv.tasks.Delete(taskID)
	}
	srv.contexts.Delete(params.ContextID)

	return srv.reply(ctx, req.ID, fiber.Map{"cleared": params.ContextID}, nil)
}

func (srv *AgentServer) handleFeedback(ctx fiber.Ctx, req *jsonrpc.RPCRequest) error {
	var params a2a.TaskFeedbackParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrInvalidParams)
	}

	if _, ok := srv.tasks.Get(params.TaskID); !ok {
		return srv.reply(ctx, req.ID, nil, jsonrpc.ErrTaskNotFound)
	}

	srv.mu.Lock()
	srv.feedback[params.TaskID] = params
	srv.mu.Unlock()

	return srv.reply(ctx, req.ID, fiber.Map{"recorded": true}, nil)
}

func (srv *AgentServer) echoText(text string) string {
	return fmt.Sprintf("echo: %s", text)
}

func (srv *AgentServer) reply(ctx fiber.Ctx, id json.RawMessage, result any, rpcErr *jsonrpc.Error) error {
	resp := jsonrpc.RPCResponse{JSONRPC: "2.0"}
	if len(id) > 0 {
		resp.ID = json.RawMessage(id)
	}

	if rpcErr != nil {
		resp.Error = rpcErr
	} else if result != nil {
		resp.Result = mustMarshal(result)
	}

	return ctx.JSON(resp)
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to marshal rpc payload", "error", err)
		return json.RawMessage("null")
	}
	return b
}

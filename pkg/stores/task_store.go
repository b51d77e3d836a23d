package stores

import (
	"sync"

	"github.com/binduai/bindu-go/pkg/a2a"
	"github.com/binduai/bindu-go/pkg/jsonrpc"
)

/*
TaskStore caches observed tasks and enforces the task lifecycle: a task
whose recorded state is terminal is immutable, and every state change must
be a legal transition.  Both the client (caching poll results) and the dev
agent server use it.
*/
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*a2a.Task),
	}
}

func (s *TaskStore) Get(id string) (*a2a.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, false
	}

	clone := *task
	return &clone, true
}

// Upsert stores a new observation of a task.  It refuses to mutate a task
// already recorded in a terminal state and rejects illegal transitions;
// continuation of a finished conversation must create a new task instead.
func (s *TaskStore) Upsert(task *a2a.Task) *jsonrpc.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[task.ID]
	if ok {
		if a2a.IsTerminal(prev.Status.State) {
			return jsonrpc.ErrTaskTerminal.WithMessagef(
				"task %s is %s and cannot change", task.ID, prev.Status.State)
		}
		if prev.Status.State != task.Status.State &&
			!a2a.CanTransition(prev.Status.State, task.Status.State) {
			return jsonrpc.ErrInvalidParams.WithMessagef(
				"invalid state transition from %s to %s", prev.Status.State, task.Status.State)
		}
	}

	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *TaskStore) Delete(id string) {
	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()
}

// ForContext returns every cached task belonging to a context.
func (s *TaskStore) ForContext(contextID string) []a2a.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]a2a.Task, 0)
	for _, task := range s.tasks {
		if task.ContextID == contextID {
			out = append(out, *task)
		}
	}
	return out
}

package stores

// ContextStore keeps the process-local context to task-id mapping together
// with the cached first-message previews.  The built-in implementation is
// an in-memory map safe for concurrent use, which is sufficient because
// conversation state is deliberately not persisted across restarts: the
// server remains the source of truth and contexts are re-fetched on demand.

import (
	"sort"
	"sync"
	"time"

	"github.com/binduai/bindu-go/pkg/a2a"
)

type ContextStore struct {
	mu       sync.RWMutex
	contexts map[string]*a2a.Context
}

func NewContextStore() *ContextStore {
	return &ContextStore{
		contexts: make(map[string]*a2a.Context),
	}
}

func (s *ContextStore) Get(id string) (*a2a.Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contexts[id]
	if !ok {
		return nil, false
	}

	clone := *c
	clone.TaskIDs = append([]string(nil), c.TaskIDs...)
	return &clone, true
}

func (s *ContextStore) Put(c *a2a.Context) {
	s.mu.Lock()
	s.contexts[c.ID] = c
	s.mu.Unlock()
}

// AppendTask records a task under a context, creating the context on first
// use.  The preview is only taken on creation: it caches the first user
// text of the conversation.
func (s *ContextStore) AppendTask(contextID, taskID, preview string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contexts[contextID]
	if !ok {
		c = &a2a.Context{ID: contextID, Preview: preview}
		s.contexts[contextID] = c
	}

	for _, id := range c.TaskIDs {
		if id == taskID {
			c.LastActivity = time.Now()
			return
		}
	}

	c.TaskIDs = append(c.TaskIDs, taskID)
	c.LastActivity = time.Now()
}

// LastTask returns the most recently appended task id for a context.
func (s *ContextStore) LastTask(contextID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contexts[contextID]
	if !ok || len(c.TaskIDs) == 0 {
		return "", false
	}

	return c.TaskIDs[len(c.TaskIDs)-1], true
}

// Delete removes the local mapping.  Callers only invoke this after the
// server acknowledged the clear: the server copy is authoritative.
func (s *ContextStore) Delete(contextID string) {
	s.mu.Lock()
	delete(s.contexts, contextID)
	s.mu.Unlock()
}

// List returns all known contexts ordered by last activity, most recent
// first.
func (s *ContextStore) List() []a2a.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]a2a.Context, 0, len(s.contexts))
	for _, c := range s.contexts {
		clone := *c
		clone.TaskIDs = append([]string(nil), c.TaskIDs...)
		out = append(out, clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})

	return out
}

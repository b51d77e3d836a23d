package client

import (
	"strings"

	"github.com/binduai/bindu-go/pkg/a2a"
)

/*
FinalText extracts the answer text from a completed task.  Artifacts win:
every text-bearing part is flattened in artifact order.  A task without
artifacts falls back to the last agent message in history.  A completed
task with neither is a NoContentError.
*/
func FinalText(task *a2a.Task) (string, error) {
	var sb strings.Builder

	for _, artifact := range task.Artifacts {
		sb.WriteString(artifact.Text())
	}

	if sb.Len() > 0 {
		return sb.String(), nil
	}

	if text := task.LastAgentText(); text != "" {
		return text, nil
	}

	return "", &a2a.NoContentError{TaskID: task.ID}
}

/*
Chunk is one reconstructed emission: a token of new text, and on the final
emission the aggregated answer so far.
*/
type Chunk struct {
	Token     string
	Final     bool
	Aggregate string
}

/*
Reconstructor folds an ordered sequence of incremental server events into
an ordered token sequence plus a final aggregated text.  It never reorders
events, and it is idempotent against overlapping reports: an event that
repeats already-delivered aggregate text only contributes the new suffix,
so the concatenation of all emitted tokens always equals the final
aggregate.
*/
type Reconstructor struct {
	aggregate strings.Builder
}

func NewReconstructor() *Reconstructor {
	return &Reconstructor{}
}

// ApplyStatus folds a status update event.  The returned bool is false for
// events that carry nothing to emit (no embedded text and not final).
func (r *Reconstructor) ApplyStatus(ev *a2a.TaskStatusUpdateEvent) (Chunk, bool) {
	text := ""
	if ev.Status.Message != nil {
		text = ev.Status.Message.Text()
	}

	final := ev.Final || a2a.IsTerminal(ev.Status.State)
	token := r.emit(text)

	if token == "" && !final {
		return Chunk{}, false
	}

	return r.chunk(token, final), true
}

// ApplyArtifact folds an artifact update event.
func (r *Reconstructor) ApplyArtifact(ev *a2a.TaskArtifactUpdateEvent) (Chunk, bool) {
	final := ev.LastChunk || ev.Artifact.IsLastChunk()
	token := r.emit(ev.Artifact.Text())

	if token == "" && !final {
		return Chunk{}, false
	}

	return r.chunk(token, final), true
}

// Aggregate returns the text reconstructed so far.
func (r *Reconstructor) Aggregate() string {
	return r.aggregate.String()
}

// emit deduplicates overlapping reports: a payload that restates the full
// aggregate so far only contributes the unseen suffix.
func (r *Reconstructor) emit(text string) string {
	if text == "" {
		return ""
	}

	if sofar := r.aggregate.String(); sofar != "" && strings.HasPrefix(text, sofar) {
		text = text[len(sofar):]
	}

	r.aggregate.WriteString(text)
	return text
}

func (r *Reconstructor) chunk(token string, final bool) Chunk {
	c := Chunk{Token: token, Final: final}
	if final {
		c.Aggregate = r.aggregate.String()
	}
	return c
}

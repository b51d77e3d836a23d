package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/binduai/bindu-go/pkg/a2a"
)

func TestAppendTaskCreatesContext(t *testing.T) {
	store := NewContextStore()

	store.AppendTask("ctx-1", "t1", "What's the weather?")

	c, ok := store.Get("ctx-1")
	require.True(t, ok)
	assert.Equal(t, []string{"t1"}, c.TaskIDs)
	assert.Equal(t, "What's the weather?", c.Preview)
	assert.False(t, c.LastActivity.IsZero())
}

func TestAppendTaskKeepsFirstPreview(t *testing.T) {
	store := NewContextStore()

	store.AppendTask("ctx-1", "t1", "first question")
	store.AppendTask("ctx-1", "t2", "second question")

	c, ok := store.Get("ctx-1")
	require.True(t, ok)
	assert.Equal(t, "first question", c.Preview)
	assert.Equal(t, []string{"t1", "t2"}, c.TaskIDs)
}

func TestAppendTaskDeduplicates(t *testing.T) {
	store := NewContextStore()

	store.AppendTask("ctx-1", "t1", "hi")
	store.AppendTask("ctx-1", "t1", "")

	c, ok := store.Get("ctx-1")
	require.True(t, ok)
	assert.Equal(t, []string{"t1"}, c.TaskIDs)
}

func TestLastTask(t *testing.T) {
	store := NewContextStore()

	_, ok := store.LastTask("ctx-1")
	assert.False(t, ok)

	store.AppendTask("ctx-1", "t1", "hi")
	store.AppendTask("ctx-1", "t2", "")

	last, ok := store.LastTask("ctx-1")
	require.True(t, ok)
	assert.Equal(t, "t2", last)
}

func TestListOrdersByActivity(t *testing.T) {
	store := NewContextStore()

	store.AppendTask("ctx-old", "t1", "old")
	store.AppendTask("ctx-new", "t2", "new")
	store.AppendTask("ctx-old", "t3", "")

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "ctx-old", list[0].ID)
	assert.Equal(t, "ctx-new", list[1].ID)
}

func TestDelete(t *testing.T) {
	store := NewContextStore()
	store.AppendTask("ctx-1", "t1", "hi")

	store.Delete("ctx-1")

	_, ok := store.Get("ctx-1")
	assert.False(t, ok)
	assert.Empty(t, store.List())
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	store := NewContextStore()
	store.AppendTask("ctx-1", "t1", "hi")

	c, ok := store.Get("ctx-1")
	require.True(t, ok)
	c.TaskIDs[0] = "mutated"
	c.Preview = "mutated"

	again, ok := store.Get("ctx-1")
	require.True(t, ok)
	assert.Equal(t, []string{"t1"}, again.TaskIDs)
	assert.Equal(t, "hi", again.Preview)
}

func TestPutStoresContext(t *testing.T) {
	store := NewContextStore()

	store.Put(&a2a.Context{ID: "ctx-1", TaskIDs: []string{"t1"}, Preview: "from server"})

	c, ok := store.Get("ctx-1")
	require.True(t, ok)
	assert.Equal(t, "from server", c.Preview)
}

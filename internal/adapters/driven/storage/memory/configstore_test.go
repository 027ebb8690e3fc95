package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "gpt-4o"))
	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_NilValueIsPresent(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("embedding.base_url", nil))

	val, ok := store.Get("embedding.base_url")

	assert.True(t, ok)
	assert.Nil(t, val)
	assert.Empty(t, store.GetString("embedding.base_url"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"rag.chunk_size":      1000,
		"rag.top_k":           int64(5),
		"llm.temperature":     0.1,
		"requests.rate_limit": "2.5",
		"mcp.watch":           true,
		"watch.paths":         []any{"/a", 7, "/b"},
		"upload.file_type":    ".pdf",
	})

	assert.Equal(t, 1000, store.GetInt("rag.chunk_size"))
	assert.Equal(t, 5, store.GetInt("rag.top_k"))
	assert.InDelta(t, 0.1, store.GetFloat("llm.temperature"), 1e-9)
	assert.InDelta(t, 2.5, store.GetFloat("requests.rate_limit"), 1e-9)
	assert.True(t, store.GetBool("mcp.watch"))
	assert.Equal(t, []string{"/a", "/b"}, store.GetStringSlice("watch.paths"))
	assert.Equal(t, ".pdf", store.GetString("upload.file_type"))

	// Wrong types read as zero values.
	assert.Empty(t, store.GetString("rag.chunk_size"))
	assert.False(t, store.GetBool("upload.file_type"))
	assert.Nil(t, store.GetStringSlice("rag.top_k"))
}

func TestNewConfigStoreFrom_Copies(t *testing.T) {
	initial := map[string]any{"rag.top_k": 5}
	store := NewConfigStoreFrom(initial)

	initial["rag.top_k"] = 9

	assert.Equal(t, 5, store.GetInt("rag.top_k"))
}

func TestConfigStore_NoOpPersistence(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("rag.top_k", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("rag.top_k")
		}()
	}
	wg.Wait()

	_, ok := store.Get("rag.top_k")
	assert.True(t, ok)
}

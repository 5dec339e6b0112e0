package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagCache_Set(t *testing.T) {
	t.Run("Should append new tags in insertion order", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v2", "b")
		cache.Set("v1", "a")
		cache.Set("v3", "c")
		assert.Equal(t, []string{"v2", "v1", "v3"}, cache.Names())
		assert.Equal(t, 3, cache.Len())
	})
	t.Run("Should keep the position of an existing tag", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v1", "a")
		cache.Set("v2", "b")
		cache.Set("v1", "a2")
		assert.Equal(t, []string{"v1", "v2"}, cache.Names())
		record, ok := cache.Get("v1")
		require.True(t, ok)
		assert.Equal(t, "a2", record.ID)
	})
	t.Run("Should reset the processed flag when rebinding a tag", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v1", "a")
		require.True(t, cache.MarkProcessed("v1"))
		cache.Set("v1", "b")
		record, ok := cache.Get("v1")
		require.True(t, ok)
		assert.Equal(t, "b", record.ID)
		assert.False(t, record.Processed)
	})
}

func TestTagCache_Delete(t *testing.T) {
	t.Run("Should remove the tag and its order slot", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v1", "a")
		cache.Set("v2", "b")
		cache.Set("v3", "c")
		cache.Delete("v2")
		assert.Equal(t, []string{"v1", "v3"}, cache.Names())
		_, ok := cache.Get("v2")
		assert.False(t, ok)
	})
	t.Run("Should ignore unknown names", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v1", "a")
		cache.Delete("missing")
		assert.Equal(t, []string{"v1"}, cache.Names())
	})
}

func TestTagCache_MarkProcessed(t *testing.T) {
	t.Run("Should flag a tracked tag", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v1", "a")
		assert.True(t, cache.MarkProcessed("v1"))
		record, ok := cache.Get("v1")
		require.True(t, ok)
		assert.True(t, record.Processed)
	})
	t.Run("Should report false for untracked tags", func(t *testing.T) {
		cache := NewTagCache()
		assert.False(t, cache.MarkProcessed("v1"))
	})
}

func TestTagCache_Walk(t *testing.T) {
	t.Run("Should yield records in processing order", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v2", "b")
		cache.Set("v1", "a")
		var names []string
		var ids []string
		for name, record := range cache.Walk() {
			names = append(names, name)
			ids = append(ids, record.ID)
		}
		assert.Equal(t, []string{"v2", "v1"}, names)
		assert.Equal(t, []string{"b", "a"}, ids)
	})
	t.Run("Should stop early when the consumer breaks", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v1", "a")
		cache.Set("v2", "b")
		count := 0
		for range cache.Walk() {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}

func TestTagCache_JSON(t *testing.T) {
	t.Run("Should marshal records in processing order", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v2", "b")
		cache.Set("v1", "a")
		cache.MarkProcessed("v2")
		data, err := json.Marshal(cache)
		require.NoError(t, err)
		expected := `{"tags":{"v2":{"id":"b","processed":true},"v1":{"id":"a","processed":false}}}`
		assert.Equal(t, expected, string(data))
	})
	t.Run("Should marshal an empty cache", func(t *testing.T) {
		data, err := json.Marshal(NewTagCache())
		require.NoError(t, err)
		assert.Equal(t, `{"tags":{}}`, string(data))
	})
	t.Run("Should preserve member order on reload", func(t *testing.T) {
		input := `{"tags":{"zeta":{"id":"1","processed":true},"alpha":{"id":"2","processed":false}}}`
		cache := NewTagCache()
		require.NoError(t, json.Unmarshal([]byte(input), cache))
		assert.Equal(t, []string{"zeta", "alpha"}, cache.Names())
		record, ok := cache.Get("zeta")
		require.True(t, ok)
		assert.True(t, record.Processed)
	})
	t.Run("Should survive a round trip byte for byte", func(t *testing.T) {
		cache := NewTagCache()
		cache.Set("v1", "a")
		cache.Set("v2", "b")
		cache.MarkProcessed("v1")
		first, err := json.Marshal(cache)
		require.NoError(t, err)
		reloaded := NewTagCache()
		require.NoError(t, json.Unmarshal(first, reloaded))
		second, err := json.Marshal(reloaded)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	})
	t.Run("Should keep unknown members through a round trip", func(t *testing.T) {
		input := `{"schema":2,"tags":{"v1":{"id":"a","processed":false,"note":"keep me"}}}`
		cache := NewTagCache()
		require.NoError(t, json.Unmarshal([]byte(input), cache))
		data, err := json.Marshal(cache)
		require.NoError(t, err)
		expected := `{"tags":{"v1":{"id":"a","processed":false,"note":"keep me"}},"schema":2}`
		assert.Equal(t, expected, string(data))
	})
	t.Run("Should read an empty object as an empty cache", func(t *testing.T) {
		cache := NewTagCache()
		require.NoError(t, json.Unmarshal([]byte(`{}`), cache))
		assert.Equal(t, 0, cache.Len())
	})
	t.Run("Should reject a non-object payload", func(t *testing.T) {
		cache := NewTagCache()
		err := json.Unmarshal([]byte(`[1,2]`), cache)
		require.Error(t, err)
	})
	t.Run("Should reject a malformed record", func(t *testing.T) {
		cache := NewTagCache()
		err := json.Unmarshal([]byte(`{"tags":{"v1":{"id":7}}}`), cache)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "v1")
	})
}

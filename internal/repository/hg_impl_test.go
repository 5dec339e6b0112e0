package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/september-cli/september/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHgProvider_ParseTagListing(t *testing.T) {
	provider := &hgProvider{binary: "hg"}
	t.Run("Should parse one tag per line", func(t *testing.T) {
		output := []byte("tip 4f2e3b1c9d8a\nv1.0 0a1b2c3d4e5f\n")
		tags := provider.parseTagListing(output)
		assert.Equal(t, []domain.Tag{
			{Name: "tip", ID: "4f2e3b1c9d8a"},
			{Name: "v1.0", ID: "0a1b2c3d4e5f"},
		}, tags)
	})
	t.Run("Should fold several tags on one revision into the name", func(t *testing.T) {
		output := []byte("v1.0 stable 0a1b2c3d4e5f\n")
		tags := provider.parseTagListing(output)
		require.Len(t, tags, 1)
		assert.Equal(t, "v1.0 stable", tags[0].Name)
		assert.Equal(t, "0a1b2c3d4e5f", tags[0].ID)
	})
	t.Run("Should skip lines without a trailing hash", func(t *testing.T) {
		output := []byte("\nwarning: something happened!\nv1.0 0a1b2c3d4e5f\n")
		tags := provider.parseTagListing(output)
		require.Len(t, tags, 1)
		assert.Equal(t, "v1.0", tags[0].Name)
	})
	t.Run("Should return nothing for empty output", func(t *testing.T) {
		assert.Empty(t, provider.parseTagListing(nil))
		assert.Empty(t, provider.parseTagListing([]byte("\n")))
	})
}

func TestHgProvider_Run(t *testing.T) {
	t.Run("Should fail against a missing working copy", func(t *testing.T) {
		provider, err := NewMercurialProvider()
		require.NoError(t, err)
		_, err = provider.ListTags(context.Background(), filepath.Join(t.TempDir(), "absent"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list tags")
	})
}

package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/september-cli/september/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleStatus() *usecase.CacheStatus {
	return &usecase.CacheStatus{
		Total:           2,
		Processed:       1,
		Pending:         1,
		LatestProcessed: "v1.0",
		Tags: []usecase.TagStatus{
			{Name: "v1.0", ID: "0123456789abcdef0123", Processed: true},
			{Name: "v1.1", ID: "fedcba9876543210fedc", Processed: false},
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("Should build a reporter for each known format", func(t *testing.T) {
		for _, format := range []Format{FormatText, FormatJSON, FormatYAML, ""} {
			reporter, err := New(format)
			require.NoError(t, err)
			assert.NotNil(t, reporter)
		}
	})
	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := New("xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output format")
	})
}

func TestTextReporter_Render(t *testing.T) {
	t.Run("Should render a table with a summary line", func(t *testing.T) {
		reporter, err := New(FormatText)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, reporter.Render(&buf, sampleStatus()))
		output := buf.String()
		assert.Contains(t, output, "TAG")
		assert.Contains(t, output, "v1.0")
		assert.Contains(t, output, "0123456789ab")
		assert.NotContains(t, output, "0123456789abcdef0123")
		assert.Contains(t, output, "2 tags: 1 processed, 1 pending")
		assert.Contains(t, output, "(latest processed v1.0)")
	})
	t.Run("Should say so for an empty cache", func(t *testing.T) {
		reporter, err := New(FormatText)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, reporter.Render(&buf, &usecase.CacheStatus{}))
		assert.Equal(t, "No tags cached.\n", buf.String())
	})
}

func TestJSONReporter_Render(t *testing.T) {
	t.Run("Should render JSON that parses back", func(t *testing.T) {
		reporter, err := New(FormatJSON)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, reporter.Render(&buf, sampleStatus()))
		var decoded usecase.CacheStatus
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 2, decoded.Total)
		assert.Equal(t, "v1.0", decoded.LatestProcessed)
		require.Len(t, decoded.Tags, 2)
		assert.Equal(t, "v1.1", decoded.Tags[1].Name)
	})
}

func TestYAMLReporter_Render(t *testing.T) {
	t.Run("Should render YAML that parses back", func(t *testing.T) {
		reporter, err := New(FormatYAML)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, reporter.Render(&buf, sampleStatus()))
		var decoded usecase.CacheStatus
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 1, decoded.Pending)
		require.Len(t, decoded.Tags, 2)
		assert.True(t, decoded.Tags[0].Processed)
	})
}

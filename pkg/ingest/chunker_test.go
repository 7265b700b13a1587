package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_Split(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		chunks := NewChunker(100, "\n").Split("line one\nline two")
		require.Len(t, chunks, 1)
		assert.Equal(t, "line one\nline two", chunks[0])
	})

	t.Run("splits at size boundary", func(t *testing.T) {
		chunks := NewChunker(10, "\n").Split("aaaa\nbbbb\ncccc")
		require.Len(t, chunks, 2)
		assert.Equal(t, "aaaa\nbbbb", chunks[0])
		assert.Equal(t, "cccc", chunks[1])
	})

	t.Run("oversized segment hard-splits", func(t *testing.T) {
		long := strings.Repeat("x", 25)
		chunks := NewChunker(10, "\n").Split(long)
		require.Len(t, chunks, 3)
		assert.Equal(t, strings.Repeat("x", 10), chunks[0])
		assert.Equal(t, strings.Repeat("x", 10), chunks[1])
		assert.Equal(t, strings.Repeat("x", 5), chunks[2])
	})

	t.Run("drops empty segments", func(t *testing.T) {
		chunks := NewChunker(100, "\n").Split("\n\n\na\n\n\n")
		require.Len(t, chunks, 1)
		assert.Equal(t, "a", chunks[0])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, NewChunker(100, "\n").Split(""))
	})

	t.Run("defaults applied", func(t *testing.T) {
		c := NewChunker(0, "")
		assert.Equal(t, DefaultChunkSize, c.size)
		assert.Equal(t, "\n", c.separator)
	})
}

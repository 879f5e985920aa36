package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChunkText tests catalog text chunking
func TestChunkText(t *testing.T) {
	cfg := DefaultChunkConfig()

	t.Run("blank text yields no chunks", func(t *testing.T) {
		assert.Nil(t, chunkText("", cfg))
		assert.Nil(t, chunkText("   \n\t", cfg))
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := chunkText("Красный чайник, 2 литра.", cfg)
		require.Len(t, chunks, 1)
		assert.Equal(t, "Красный чайник, 2 литра.", chunks[0])
	})

	t.Run("long text splits within the size limit", func(t *testing.T) {
		text := strings.Repeat("слово ", 600)
		chunks := chunkText(text, cfg)

		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len([]rune(chunk)), cfg.MaxChars)
			assert.NotEmpty(t, strings.TrimSpace(chunk))
		}
	})

	t.Run("splits prefer whitespace boundaries", func(t *testing.T) {
		text := strings.Repeat("слово ", 600)
		chunks := chunkText(text, cfg)

		for _, chunk := range chunks {
			assert.False(t, strings.HasSuffix(chunk, "сло"), "chunk should not cut inside a word: %q", chunk[len(chunk)-20:])
		}
	})

	t.Run("respects the chunk cap", func(t *testing.T) {
		small := ChunkConfig{MaxChars: 10, MinChars: 4, Overlap: 0, MaxChunks: 3}
		text := strings.Repeat("abcd efgh ", 50)
		chunks := chunkText(text, small)

		assert.LessOrEqual(t, len(chunks), 3)
	})

	t.Run("overlap carries trailing text forward", func(t *testing.T) {
		overlapped := ChunkConfig{MaxChars: 20, MinChars: 5, Overlap: 8, MaxChunks: 0}
		text := "aaaa bbbb cccc dddd eeee ffff gggg hhhh"
		chunks := chunkText(text, overlapped)

		require.Greater(t, len(chunks), 1)
		// Consecutive chunks share content because of the overlap window
		first := chunks[0]
		tail := first[len(first)-4:]
		assert.Contains(t, chunks[1], tail)
	})
}

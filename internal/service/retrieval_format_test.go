package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vendo-labs/vendoai/internal/domain"
)

// TestFormatContextForPrompt tests prompt context rendering
func TestFormatContextForPrompt(t *testing.T) {
	t.Run("empty result renders empty string", func(t *testing.T) {
		assert.Equal(t, "", FormatContextForPrompt(&domain.RetrievalResult{}))
	})

	t.Run("products render under the product header", func(t *testing.T) {
		chunk := &domain.Chunk{
			SourceType: domain.ChunkSourceProduct,
			ChunkText:  "Красный чайник, 2 литра",
			Product:    &domain.ProductMetadata{ProductName: "Чайник"},
			Similarity: 0.87,
		}
		result := &domain.RetrievalResult{
			Chunks:        []*domain.Chunk{chunk},
			ProductChunks: []*domain.Chunk{chunk},
		}

		out := FormatContextForPrompt(result)

		assert.Contains(t, out, "=== ТОВАРЫ ===")
		assert.Contains(t, out, "Чайник (релевантность: 87%)")
		assert.Contains(t, out, "Красный чайник, 2 литра")
		assert.NotContains(t, out, "=== ДОКУМЕНТЫ ===")
	})

	t.Run("documents render after products", func(t *testing.T) {
		product := &domain.Chunk{
			SourceType: domain.ChunkSourceProduct,
			ChunkText:  "product text",
			Product:    &domain.ProductMetadata{ProductName: "Товар"},
			Similarity: 0.92,
		}
		doc := &domain.Chunk{
			SourceType: domain.ChunkSourceDocument,
			ChunkText:  "delivery terms",
			Doc:        &domain.DocMetadata{DocTitle: "Доставка"},
			Similarity: 0.65,
		}
		result := &domain.RetrievalResult{
			Chunks:        []*domain.Chunk{product, doc},
			ProductChunks: []*domain.Chunk{product},
			DocChunks:     []*domain.Chunk{doc},
		}

		out := FormatContextForPrompt(result)

		productIdx := strings.Index(out, "=== ТОВАРЫ ===")
		docIdx := strings.Index(out, "=== ДОКУМЕНТЫ ===")
		assert.GreaterOrEqual(t, productIdx, 0)
		assert.Greater(t, docIdx, productIdx)
		assert.Contains(t, out, "Доставка (релевантность: 65%)")
	})

	t.Run("similarity rounds to the nearest integer percent", func(t *testing.T) {
		assert.Equal(t, 87, similarityPercent(0.866))
		assert.Equal(t, 86, similarityPercent(0.864))
		assert.Equal(t, 100, similarityPercent(1.0))
		assert.Equal(t, 0, similarityPercent(0))
	})

	t.Run("missing metadata falls back to source id", func(t *testing.T) {
		chunk := &domain.Chunk{
			SourceType: domain.ChunkSourceDocument,
			SourceID:   "doc-42",
			ChunkText:  "text",
			Similarity: 0.5,
		}
		result := &domain.RetrievalResult{
			Chunks:    []*domain.Chunk{chunk},
			DocChunks: []*domain.Chunk{chunk},
		}

		out := FormatContextForPrompt(result)
		assert.Contains(t, out, "doc-42 (релевантность: 50%)")
	})
}

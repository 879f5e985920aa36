package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/vendo-labs/vendoai/internal/domain"
)

const (
	productSectionHeader  = "=== ТОВАРЫ ==="
	documentSectionHeader = "=== ДОКУМЕНТЫ ==="
)

// FormatContextForPrompt renders a retrieval result into the plain-text block
// injected into the operator's LLM prompt. Products come first, documents
// after; an empty result renders as an empty string.
func FormatContextForPrompt(result *domain.RetrievalResult) string {
	if result.IsEmpty() {
		return ""
	}

	var b strings.Builder

	if len(result.ProductChunks) > 0 {
		b.WriteString(productSectionHeader)
		b.WriteString("\n")
		for _, chunk := range result.ProductChunks {
			writeChunkEntry(&b, chunk)
		}
	}

	if len(result.DocChunks) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(documentSectionHeader)
		b.WriteString("\n")
		for _, chunk := range result.DocChunks {
			writeChunkEntry(&b, chunk)
		}
	}

	return b.String()
}

func writeChunkEntry(b *strings.Builder, chunk *domain.Chunk) {
	name := chunk.DisplayName()
	if name == "" {
		name = chunk.SourceID
	}
	fmt.Fprintf(b, "\n%s (релевантность: %d%%)\n%s\n", name, similarityPercent(chunk.Similarity), chunk.ChunkText)
}

// similarityPercent renders a similarity score as an integer percentage.
func similarityPercent(similarity float64) int {
	return int(math.Round(similarity * 100))
}

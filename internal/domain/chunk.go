package domain

import "time"

// ChunkSourceType identifies the corpus a chunk was indexed from.
type ChunkSourceType string

const (
	ChunkSourceProduct  ChunkSourceType = "product"
	ChunkSourceDocument ChunkSourceType = "document"
)

// IsValidChunkSourceType checks if a ChunkSourceType is valid
func IsValidChunkSourceType(t ChunkSourceType) bool {
	switch t {
	case ChunkSourceProduct, ChunkSourceDocument:
		return true
	}
	return false
}

// ChunkKindPriceStock marks the synthetic price/availability chunk generated
// for every product. Which kinds are treated as critical during ranking is
// configuration, not a property of the chunk itself.
const ChunkKindPriceStock = "price_stock"

// ChunkMetadata is the typed per-source metadata attached to a chunk.
type ChunkMetadata interface {
	DisplayName() string
}

// ProductMetadata describes the product a chunk belongs to.
type ProductMetadata struct {
	ProductName string
	SKU         string
	Category    string
	ChunkKind   string
}

func (m ProductMetadata) DisplayName() string { return m.ProductName }

// DocMetadata describes the document a chunk belongs to.
type DocMetadata struct {
	DocTitle string
	Category string
}

func (m DocMetadata) DisplayName() string { return m.DocTitle }

// Chunk represents an indexed text fragment with its embedding. Chunks are
// immutable snapshots produced by the indexing pipeline; retrieval only reads
// them. Similarity is derived per query and is not persisted.
type Chunk struct {
	ID         string
	TenantID   string
	SourceType ChunkSourceType
	SourceID   string
	ChunkIndex int
	ChunkText  string
	Product    *ProductMetadata
	Doc        *DocMetadata
	Embedding  []float32
	Similarity float64
	CreatedAt  time.Time
}

// Metadata returns the typed metadata variant for the chunk's source type.
func (c *Chunk) Metadata() ChunkMetadata {
	switch c.SourceType {
	case ChunkSourceProduct:
		if c.Product != nil {
			return *c.Product
		}
	case ChunkSourceDocument:
		if c.Doc != nil {
			return *c.Doc
		}
	}
	return nil
}

// DisplayName returns the human-readable name for the chunk's source.
func (c *Chunk) DisplayName() string {
	if m := c.Metadata(); m != nil {
		return m.DisplayName()
	}
	return ""
}

// ChunkKind returns the product chunk kind, or "" for document chunks.
func (c *Chunk) ChunkKind() string {
	if c.Product != nil {
		return c.Product.ChunkKind
	}
	return ""
}

// RetrievalResult aggregates the ranked chunks for one query. Constructed once
// per request and discarded after the prompt context is formatted.
type RetrievalResult struct {
	Chunks               []*Chunk
	ProductChunks        []*Chunk
	DocChunks            []*Chunk
	UsedDocFallback      bool
	QueryEmbedding       []float32
	TopProductSimilarity float64
	TopDocSimilarity     float64
}

// IsEmpty reports whether retrieval produced no usable context.
func (r *RetrievalResult) IsEmpty() bool {
	return r == nil || len(r.Chunks) == 0
}

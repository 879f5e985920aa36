package service

import (
	"strings"
	"unicode"
)

// ChunkConfig controls how catalog text is split before embedding.
type ChunkConfig struct {
	MaxChars  int
	MinChars  int
	Overlap   int
	MaxChunks int
}

func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChars:  1200,
		MinChars:  400,
		Overlap:   200,
		MaxChunks: 40,
	}
}

// chunkText splits text into overlapping windows of at most MaxChars runes,
// preferring to break on whitespace once MinChars of the window is filled.
// Whole-rune windows keep Cyrillic text from being split mid-character.
func chunkText(text string, cfg ChunkConfig) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	if cfg.MaxChars <= 0 {
		cfg = DefaultChunkConfig()
	}

	runes := []rune(clean)
	if len(runes) <= cfg.MaxChars {
		return []string{clean}
	}

	var chunks []string
	pos := 0
	for pos < len(runes) {
		if cfg.MaxChunks > 0 && len(chunks) >= cfg.MaxChunks {
			break
		}

		end := min(pos+cfg.MaxChars, len(runes))
		if end < len(runes) {
			end = breakPoint(runes, pos, end, cfg.MinChars)
		}
		if end <= pos {
			break
		}

		if chunk := strings.TrimSpace(string(runes[pos:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}

		next := end
		if cfg.Overlap > 0 && end-pos > cfg.Overlap {
			next = end - cfg.Overlap
		}
		if next <= pos {
			next = end
		}
		pos = next
	}

	return chunks
}

// breakPoint walks back from end looking for whitespace, but never shrinks
// the window below minChars.
func breakPoint(runes []rune, start, end, minChars int) int {
	floor := start + minChars
	if floor > end {
		floor = start
	}
	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

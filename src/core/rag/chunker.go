package rag

import (
	"fmt"
	"strings"
)

const (
	DefaultChunkSize         = 500
	DefaultChunkOverlap      = 50
	DefaultBoundaryThreshold = 0.5
)

// Chunker splits raw document text into overlapping, sentence-aware
// segments sized for embedding.
type Chunker struct {
	size      int
	overlap   int
	threshold float64 // fraction of size a sentence boundary must lie past
}

type ChunkerOption func(c *Chunker)

// WithBoundaryThreshold sets the fraction of the window a period must lie
// past for the window to be truncated at that period.
func WithBoundaryThreshold(t float64) ChunkerOption {
	return func(c *Chunker) {
		c.threshold = t
	}
}

func NewChunker(size, overlap int, opts ...ChunkerOption) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}

	c := &Chunker{
		size:      size,
		overlap:   overlap,
		threshold: DefaultBoundaryThreshold,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.threshold < 0 || c.threshold >= 1 {
		return nil, fmt.Errorf("boundary threshold must be in [0,1), got %f", c.threshold)
	}

	return c, nil
}

// Split walks the text in windows of the configured size. A window that does
// not reach the end of the text is truncated at its last period when that
// period lies past the boundary threshold, so chunks preferentially end on
// sentence boundaries. The next window starts overlap characters before the
// previous one ended. Empty chunks are dropped.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		} else if end < len(runes) {
			window := string(runes[start:end])
			lastDot := strings.LastIndex(window, ".")
			if lastDot >= 0 {
				// LastIndex is a byte offset; the boundary rule counts characters.
				dotPos := len([]rune(window[:lastDot]))
				if float64(dotPos) > c.threshold*float64(c.size) {
					end = start + dotPos + 1
				}
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Boundary truncation can shrink the window below the overlap;
			// force forward progress instead of re-reading the same span.
			next = end
		}
		start = next
	}

	return chunks
}

// Size returns the configured window size in characters.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

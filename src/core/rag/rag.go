// Package rag implements the question answering pipeline: retrieval of
// relevant passages from the vector index, prompt assembly and answer
// generation grounded on those passages.
package rag

import (
	"context"
)

// MediaType identifies where a document's text came from.
type MediaType string

const (
	MediaPDF  MediaType = "pdf"
	MediaText MediaType = "text"
	MediaWeb  MediaType = "web"
)

// Document is a unit of ingested content. It only lives long enough to be
// chunked and indexed.
type Document struct {
	Name  string // file name or URL
	Text  string
	Media MediaType
}

// Chunk is a bounded span of a document's text, the unit of embedding and
// retrieval.
type Chunk struct {
	ID     string
	Source string // the document name the chunk belongs to
	Index  int    // zero-based position of the chunk in the document
	Text   string
	Media  MediaType
}

// IndexedChunk pairs a chunk with its embedding for storage.
type IndexedChunk struct {
	Chunk
	Vector []float32
}

// Passage is a chunk returned by a similarity query. Lower distance means
// more similar; the scale is index-defined.
type Passage struct {
	Text     string
	Source   string
	Distance float64
}

// Answer is the final output of the pipeline.
type Answer struct {
	Text     string
	Sources  []string  // unique source identifiers used as context
	Passages []Passage // passages the prompt was built from
}

// Embedder turns text into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input, order-preserving.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex stores chunk embeddings and answers nearest-neighbor queries.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []IndexedChunk) error
	// Query returns at most k passages ordered by ascending distance.
	Query(ctx context.Context, vector []float32, k int) ([]Passage, error)
	Count(ctx context.Context) (int64, error)
}

// GenerationClient is the language model collaborator.
type GenerationClient interface {
	Generate(ctx context.Context, model, system, prompt string, options map[string]interface{}) (string, error)
}

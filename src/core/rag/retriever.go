package rag

import (
	"context"
	"fmt"
)

const DefaultRetrievalLimit = 3

// Retriever answers similarity queries against the vector index.
type Retriever struct {
	embedder Embedder
	index    VectorIndex
}

func NewRetriever(embedder Embedder, index VectorIndex) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
	}
}

// Retrieve returns at most k passages relevant to the question, most
// similar first. An empty index yields an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]Passage, error) {
	if k <= 0 {
		k = DefaultRetrievalLimit
	}

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	passages, err := r.index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	if len(passages) > k {
		passages = passages[:k]
	}

	return passages, nil
}

package weaviate

import (
	"context"
	"fmt"

	"adminrag/src/core/rag"
)

// Index adapts the SDK to the pipeline's VectorIndex interface, converting
// the loosely typed Weaviate responses into typed passages at the boundary.
type Index struct {
	sdk       *SDK
	className string
}

func NewIndex(sdk *SDK, className string) *Index {
	if className == "" {
		className = DefaultClassName
	}
	return &Index{
		sdk:       sdk,
		className: className,
	}
}

// EnsureSchema creates the backing class when missing.
func (ix *Index) EnsureSchema(ctx context.Context) error {
	return ix.sdk.EnsureClass(ctx, ix.className)
}

func (ix *Index) Upsert(ctx context.Context, chunks []rag.IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	objects := make([]VectorObject, len(chunks))
	for i, chunk := range chunks {
		objects[i] = VectorObject{
			ChunkID: chunk.ID,
			Vector:  chunk.Vector,
			Properties: map[string]interface{}{
				"content":    chunk.Text,
				"source":     chunk.Source,
				"chunkIndex": chunk.Index,
				"mediaType":  string(chunk.Media),
			},
		}
	}

	if err := ix.sdk.BatchAddVectors(ctx, ix.className, objects); err != nil {
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}

	return nil
}

func (ix *Index) Query(ctx context.Context, vector []float32, k int) ([]rag.Passage, error) {
	results, err := ix.sdk.QueryVectors(ctx, ix.className, vector, k)
	if err != nil {
		return nil, err
	}

	passages := make([]rag.Passage, 0, len(results))
	for _, result := range results {
		passage := rag.Passage{
			Distance: result.Distance,
		}
		if content, ok := result.Properties["content"].(string); ok {
			passage.Text = content
		}
		if source, ok := result.Properties["source"].(string); ok {
			passage.Source = source
		}
		passages = append(passages, passage)
	}

	return passages, nil
}

func (ix *Index) Count(ctx context.Context) (int64, error) {
	return ix.sdk.CountObjects(ctx, ix.className)
}

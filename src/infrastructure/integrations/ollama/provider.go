package ollama

import (
	"context"
)

// Embedder binds a Client to a fixed embedding model so the pipeline can
// request vectors without knowing model names.
type Embedder struct {
	ollamaClient *Client
	modelName    string
}

func NewEmbedder(ollamaClient *Client, modelName string) *Embedder {
	return &Embedder{
		ollamaClient: ollamaClient,
		modelName:    modelName,
	}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.ollamaClient.GetEmbedding(ctx, e.modelName, text)
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.ollamaClient.GetEmbeddings(ctx, e.modelName, texts)
}

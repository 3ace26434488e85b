package rag_test

import (
	"context"

	"adminrag/src/core/rag"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	texts  []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

type fakeIndex struct {
	passages []rag.Passage
	queryErr error
	lastK    int
}

func (f *fakeIndex) Upsert(_ context.Context, _ []rag.IndexedChunk) error {
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, k int) ([]rag.Passage, error) {
	f.lastK = k
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.passages, nil
}

func (f *fakeIndex) Count(_ context.Context) (int64, error) {
	return int64(len(f.passages)), nil
}

type fakeGenerationClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerationClient) Generate(_ context.Context, _ string, _ string, prompt string, _ map[string]interface{}) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
